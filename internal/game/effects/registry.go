package effects

import (
	"fmt"

	"github.com/google/uuid"
)

// Registry maps card instance IDs to their parsed effects. It is built
// once during game setup and treated as immutable afterwards: lookups are
// idempotent and cheap, since they run on every stat query and every
// action-validity check. The engine receives the registry by reference at
// construction; there is no package-level instance.
type Registry struct {
	byCard map[string][]Effect
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCard: make(map[string][]Effect)}
}

// Bind attaches parsed effects to a card instance, assigning effect IDs
// and stamping the source. Binding after Seal is a programming error.
func (r *Registry) Bind(cardID string, parsed []Effect) error {
	if r.sealed {
		return fmt.Errorf("registry is sealed; cannot bind effects for card %s", cardID)
	}
	if cardID == "" {
		return fmt.Errorf("cannot bind effects to an empty card id")
	}
	bound := make([]Effect, len(parsed))
	for i, eff := range parsed {
		eff.ID = uuid.NewString()
		eff.SourceID = cardID
		bound[i] = eff
	}
	r.byCard[cardID] = bound
	return nil
}

// Seal marks the registry immutable. Called once when game setup is done.
func (r *Registry) Seal() {
	r.sealed = true
}

// Effects returns the ordered effects bound to a card instance. The
// returned slice must not be mutated.
func (r *Registry) Effects(cardID string) []Effect {
	return r.byCard[cardID]
}

// EffectByID finds a single bound effect on a card.
func (r *Registry) EffectByID(cardID, effectID string) (Effect, bool) {
	for _, eff := range r.byCard[cardID] {
		if eff.ID == effectID {
			return eff, true
		}
	}
	return Effect{}, false
}
