package rules

import (
	"sync"

	"github.com/google/uuid"
)

// Firing is a triggered reaction waiting in the cascade queue. The engine
// drains the queue breadth-first within a single action resolution, so
// cascade ordering stays deterministic regardless of trigger depth.
type Firing struct {
	ID          string
	SourceID    string
	Controller  string
	Description string
	Resolve     func() error
}

// AbilityTrigger encapsulates the logic for reacting to a specific event
// and producing firings when the conditions are satisfied.
type AbilityTrigger struct {
	ID         string
	SourceID   string
	Controller string
	EventType  EventType
	Condition  func(Event) bool
	Build      func(Event) Firing
	Once       bool
}

// TriggerManager stores and evaluates ability triggers against events.
type TriggerManager struct {
	mu       sync.Mutex
	triggers map[string]AbilityTrigger
	order    []string // registration order, for deterministic firing
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{
		triggers: make(map[string]AbilityTrigger),
	}
}

// Register adds a new trigger to the manager.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	if _, exists := tm.triggers[trigger.ID]; !exists {
		tm.order = append(tm.order, trigger.ID)
	}
	tm.triggers[trigger.ID] = trigger
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.triggers, id)
	for i, tid := range tm.order {
		if tid == id {
			tm.order = append(tm.order[:i], tm.order[i+1:]...)
			break
		}
	}
}

// UnregisterBySource removes all triggers registered for a source card.
// Used when the source leaves play.
func (tm *TriggerManager) UnregisterBySource(sourceID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	kept := tm.order[:0]
	for _, id := range tm.order {
		if tm.triggers[id].SourceID == sourceID {
			delete(tm.triggers, id)
			continue
		}
		kept = append(kept, id)
	}
	tm.order = kept
}

// Handle evaluates the provided event against all registered triggers and
// returns the firings they produce, in registration order.
func (tm *TriggerManager) Handle(event Event) []Firing {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if len(tm.triggers) == 0 {
		return nil
	}

	var (
		firings  []Firing
		toRemove []string
	)

	for _, id := range tm.order {
		trigger := tm.triggers[id]
		if trigger.EventType != event.Type {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		if trigger.Build == nil {
			continue
		}

		firing := trigger.Build(event)
		if firing.ID == "" {
			firing.ID = uuid.NewString()
		}
		firings = append(firings, firing)

		if trigger.Once {
			toRemove = append(toRemove, id)
		}
	}

	for _, id := range toRemove {
		delete(tm.triggers, id)
		for i, tid := range tm.order {
			if tid == id {
				tm.order = append(tm.order[:i], tm.order[i+1:]...)
				break
			}
		}
	}

	return firings
}
