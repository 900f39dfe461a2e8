package rules

import "testing"

func buildTrigger(sourceID string, eventType EventType, fired *[]string) AbilityTrigger {
	return AbilityTrigger{
		SourceID:  sourceID,
		EventType: eventType,
		Build: func(evt Event) Firing {
			return Firing{
				SourceID: sourceID,
				Resolve: func() error {
					*fired = append(*fired, sourceID)
					return nil
				},
			}
		},
	}
}

func TestTriggerManagerFiresInRegistrationOrder(t *testing.T) {
	tm := NewTriggerManager()
	var fired []string

	tm.Register(buildTrigger("first", EventCardSlept, &fired))
	tm.Register(buildTrigger("second", EventCardSlept, &fired))
	tm.Register(buildTrigger("other", EventTurnStarted, &fired))

	firings := tm.Handle(Event{Type: EventCardSlept})
	if len(firings) != 2 {
		t.Fatalf("got %d firings, want 2", len(firings))
	}
	for _, f := range firings {
		if err := f.Resolve(); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if fired[0] != "first" || fired[1] != "second" {
		t.Errorf("firing order = %v, want [first second]", fired)
	}
}

func TestTriggerManagerCondition(t *testing.T) {
	tm := NewTriggerManager()
	trigger := AbilityTrigger{
		SourceID:  "src",
		EventType: EventCardSlept,
		Condition: func(evt Event) bool { return evt.WasInPlay },
		Build:     func(evt Event) Firing { return Firing{SourceID: "src"} },
	}
	tm.Register(trigger)

	if firings := tm.Handle(Event{Type: EventCardSlept, WasInPlay: false}); len(firings) != 0 {
		t.Errorf("condition false: got %d firings, want 0", len(firings))
	}
	if firings := tm.Handle(Event{Type: EventCardSlept, WasInPlay: true}); len(firings) != 1 {
		t.Errorf("condition true: got %d firings, want 1", len(firings))
	}
}

func TestTriggerManagerOnce(t *testing.T) {
	tm := NewTriggerManager()
	tm.Register(AbilityTrigger{
		SourceID:  "src",
		EventType: EventTurnStarted,
		Once:      true,
		Build:     func(evt Event) Firing { return Firing{SourceID: "src"} },
	})

	if firings := tm.Handle(Event{Type: EventTurnStarted}); len(firings) != 1 {
		t.Fatalf("first event: got %d firings, want 1", len(firings))
	}
	if firings := tm.Handle(Event{Type: EventTurnStarted}); len(firings) != 0 {
		t.Errorf("second event: got %d firings, want 0", len(firings))
	}
}

func TestTriggerManagerUnregisterBySource(t *testing.T) {
	tm := NewTriggerManager()
	var fired []string
	tm.Register(buildTrigger("keep", EventCardSlept, &fired))
	tm.Register(buildTrigger("drop", EventCardSlept, &fired))
	tm.Register(buildTrigger("drop", EventTurnStarted, &fired))

	tm.UnregisterBySource("drop")

	firings := tm.Handle(Event{Type: EventCardSlept})
	if len(firings) != 1 || firings[0].SourceID != "keep" {
		t.Errorf("after unregister: %+v", firings)
	}
	if firings := tm.Handle(Event{Type: EventTurnStarted}); len(firings) != 0 {
		t.Errorf("dropped source still fires: %+v", firings)
	}
}

func TestEventBusTypedSubscription(t *testing.T) {
	bus := NewEventBus()
	var all, slept int

	bus.Subscribe(func(Event) { all++ })
	handle := bus.SubscribeTyped(EventCardSlept, func(Event) { slept++ })

	bus.Publish(Event{Type: EventCardSlept})
	bus.Publish(Event{Type: EventTurnStarted})

	if all != 2 {
		t.Errorf("all-listener saw %d events, want 2", all)
	}
	if slept != 1 {
		t.Errorf("typed listener saw %d events, want 1", slept)
	}

	bus.Unsubscribe(handle)
	bus.Publish(Event{Type: EventCardSlept})
	if slept != 1 {
		t.Errorf("typed listener fired after unsubscribe")
	}
}
