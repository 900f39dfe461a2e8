package server

import "github.com/ggltcg/ggltcg-server-go/internal/game"

// ClientMessage is an inbound websocket frame. Type selects the action;
// the remaining fields are read per type.
type ClientMessage struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id,omitempty"`
	PlayerID string `json:"player_id,omitempty"`

	// create_game
	Players [2]PlayerSetup `json:"players,omitempty"`

	// play_card / tussle / direct_attack / activate
	CardID        string   `json:"card_id,omitempty"`
	DefenderID    string   `json:"defender_id,omitempty"`
	EffectID      string   `json:"effect_id,omitempty"`
	TargetIDs     []string `json:"target_ids,omitempty"`
	AltCostCardID string   `json:"alt_cost_card_id,omitempty"`
	HandCardID    string   `json:"hand_card_id,omitempty"`
}

// PlayerSetup names one side of a new game and its deck of definition ids.
type PlayerSetup struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Deck []string `json:"deck"`
}

// ServerMessage is an outbound websocket frame.
type ServerMessage struct {
	Type    string         `json:"type"`
	GameID  string         `json:"game_id,omitempty"`
	State   *game.GameView `json:"state,omitempty"`
	Actions []ActionView   `json:"actions,omitempty"`
	LogLine string         `json:"log_line,omitempty"`
	Winner  string         `json:"winner,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ActionView is one legal action as shown to a client.
type ActionView struct {
	Type        string           `json:"type"`
	CardID      string           `json:"card_id,omitempty"`
	DefenderID  string           `json:"defender_id,omitempty"`
	EffectID    string           `json:"effect_id,omitempty"`
	Cost        int              `json:"cost"`
	Targets     []TargetSlotView `json:"targets,omitempty"`
	Description string           `json:"description"`
}

// TargetSlotView is one targeted effect slot of an action.
type TargetSlotView struct {
	EffectID    string   `json:"effect_id"`
	Description string   `json:"description"`
	MaxTargets  int      `json:"max_targets"`
	ValidIDs    []string `json:"valid_ids"`
}

func actionViews(actions []game.Action) []ActionView {
	out := make([]ActionView, 0, len(actions))
	for _, a := range actions {
		view := ActionView{
			Type:        string(a.Type),
			CardID:      a.CardID,
			DefenderID:  a.DefenderID,
			EffectID:    a.EffectID,
			Cost:        a.Cost,
			Description: a.Description,
		}
		for _, slot := range a.Targets {
			view.Targets = append(view.Targets, TargetSlotView{
				EffectID:    slot.EffectID,
				Description: slot.Description,
				MaxTargets:  slot.MaxTargets,
				ValidIDs:    slot.ValidIDs,
			})
		}
		out = append(out, view)
	}
	return out
}
