package game

import "github.com/ggltcg/ggltcg-server-go/internal/game/effects"

// GameView is the state as seen by one player. The opponent's hand is
// redacted to a count.
type GameView struct {
	GameID       string       `json:"game_id"`
	TurnNumber   int          `json:"turn"`
	ActivePlayer string       `json:"active_player"`
	Phase        string       `json:"phase"`
	Winner       string       `json:"winner,omitempty"`
	You          PlayerView   `json:"you"`
	Opponent     OpponentView `json:"opponent"`
	Log          []string     `json:"log"`
}

// PlayerView is the viewer's own side, hand included.
type PlayerView struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	CommandCounters int        `json:"cc"`
	Hand            []CardView `json:"hand"`
	InPlay          []CardView `json:"in_play"`
	SleepZone       []CardView `json:"sleep_zone"`
}

// OpponentView hides the opponent's hand contents.
type OpponentView struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	CommandCounters int        `json:"cc"`
	HandCount       int        `json:"hand_count"`
	InPlay          []CardView `json:"in_play"`
	SleepZone       []CardView `json:"sleep_zone"`
}

// CardView is a card with its effective stats resolved for display.
type CardView struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               CardType `json:"type"`
	Cost               int      `json:"cost"`
	Speed              int      `json:"speed,omitempty"`
	Strength           int      `json:"strength,omitempty"`
	Stamina            int      `json:"stamina,omitempty"`
	CurrentStamina     int      `json:"current_stamina,omitempty"`
	Owner              string   `json:"owner"`
	Controller         string   `json:"controller"`
	Zone               string   `json:"zone"`
	EffectDescriptions []string `json:"effects,omitempty"`
}

// ViewFor renders the game from one player's perspective.
func (e *GameEngine) ViewFor(playerID string) (*GameView, bool) {
	you, ok := e.state.PlayerByID(playerID)
	if !ok {
		return nil, false
	}
	opponent, ok := e.state.OpponentOf(playerID)
	if !ok {
		return nil, false
	}

	view := &GameView{
		GameID:       e.state.GameID,
		TurnNumber:   e.state.TurnNumber,
		ActivePlayer: e.state.ActivePlayer,
		Phase:        e.state.Phase.String(),
		Winner:       e.state.Winner,
		Log:          append([]string(nil), e.state.Log...),
		You: PlayerView{
			ID:              you.ID,
			Name:            you.Name,
			CommandCounters: you.CommandCounters,
			Hand:            e.cardViews(you.Hand),
			InPlay:          e.cardViews(you.InPlay),
			SleepZone:       e.cardViews(you.SleepZone),
		},
		Opponent: OpponentView{
			ID:              opponent.ID,
			Name:            opponent.Name,
			CommandCounters: opponent.CommandCounters,
			HandCount:       len(opponent.Hand),
			InPlay:          e.cardViews(opponent.InPlay),
			SleepZone:       e.cardViews(opponent.SleepZone),
		},
	}
	return view, true
}

func (e *GameEngine) cardViews(zone []*Card) []CardView {
	out := make([]CardView, 0, len(zone))
	for _, c := range zone {
		view := CardView{
			ID:         c.ID,
			Name:       c.Name,
			Type:       c.Type,
			Cost:       c.BaseCost,
			Owner:      c.Owner,
			Controller: c.Controller,
			Zone:       c.Zone.String(),
		}
		if c.IsToy() {
			view.Speed = e.EffectiveStat(c, effects.StatSpeed)
			view.Strength = e.EffectiveStat(c, effects.StatStrength)
			view.Stamina = e.EffectiveStat(c, effects.StatStamina)
			view.CurrentStamina = c.CurrentStamina
		}
		for _, eff := range e.registry.Effects(c.ID) {
			view.EffectDescriptions = append(view.EffectDescriptions, eff.Description())
		}
		out = append(out, view)
	}
	return out
}
