package game

import (
	"github.com/google/uuid"

	"github.com/ggltcg/ggltcg-server-go/internal/cards"
	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// PlayerSpec describes one side of a new game: identity plus the deck as
// a list of card-definition ids.
type PlayerSpec struct {
	ID   string
	Name string
	Deck []string
}

// NewGame instantiates a game state and its effect registry from card
// definitions. Every card starts in its owner's hand; the first spec'd
// player takes the first turn. Unknown definition ids are configuration
// errors.
func NewGame(gameID string, set *cards.Set, specs [2]PlayerSpec) (*GameState, *effects.Registry, error) {
	if gameID == "" {
		gameID = uuid.NewString()
	}
	registry := effects.NewRegistry()

	state := &GameState{
		GameID:       gameID,
		TurnNumber:   1,
		ActivePlayer: specs[0].ID,
		Phase:        rules.PhaseStart,
	}

	for i, spec := range specs {
		if spec.ID == "" {
			return nil, nil, &ConfigurationError{Detail: "player spec has no id"}
		}
		if len(spec.Deck) == 0 {
			return nil, nil, &ConfigurationError{Detail: "player " + spec.ID + " has an empty deck"}
		}
		player := &Player{ID: spec.ID, Name: spec.Name}
		if player.Name == "" {
			player.Name = spec.ID
		}

		for _, defID := range spec.Deck {
			def, ok := set.ByID(defID)
			if !ok {
				return nil, nil, &ConfigurationError{Detail: "unknown card definition " + defID}
			}
			card := instantiate(def, spec.ID)
			if err := registry.Bind(card.ID, def.Parsed); err != nil {
				return nil, nil, &ConfigurationError{Detail: "bind effects for " + defID, Err: err}
			}
			player.Hand = append(player.Hand, card)
			player.OwnedCardIDs = append(player.OwnedCardIDs, card.ID)
		}
		state.Players[i] = player
	}

	if specs[0].ID == specs[1].ID {
		return nil, nil, &ConfigurationError{Detail: "players must have distinct ids"}
	}

	registry.Seal()
	return state, registry, nil
}

// instantiate creates a card instance from its definition.
func instantiate(def *cards.Definition, ownerID string) *Card {
	return &Card{
		ID:             uuid.NewString(),
		DefID:          def.ID,
		Name:           def.Name,
		Type:           CardType(def.Type),
		BaseCost:       def.Cost,
		BaseSpeed:      def.Speed,
		BaseStrength:   def.Strength,
		BaseStamina:    def.Stamina,
		CurrentStamina: def.Stamina,
		Owner:          ownerID,
		Controller:     ownerID,
		Zone:           ZoneHand,
	}
}
