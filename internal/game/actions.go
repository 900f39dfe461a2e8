package game

import (
	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// ActionType enumerates the discrete actions a player can take.
type ActionType string

const (
	ActionPlayCard     ActionType = "play_card"
	ActionTussle       ActionType = "tussle"
	ActionDirectAttack ActionType = "direct_attack"
	ActionActivate     ActionType = "activate"
	ActionEndTurn      ActionType = "end_turn"
)

// TargetSlot describes one targeted effect of an action: how many targets
// it takes and which ids are currently legal.
type TargetSlot struct {
	EffectID    string
	Description string
	MaxTargets  int
	ValidIDs    []string
}

// Action is one legal action descriptor with its cost and target
// metadata. The same listing feeds human validation and the AI layer, so
// the two paths can never diverge on legality.
type Action struct {
	Type        ActionType
	CardID      string
	DefenderID  string // tussle only
	EffectID    string // activate only
	Cost        int
	Targets     []TargetSlot
	Description string
}

// ValidActions enumerates every action the player may legally take right
// now. An empty result for the active player means only the implicit
// end-turn remains (end_turn is always listed for the active player).
func (e *GameEngine) ValidActions(playerID string) []Action {
	var actions []Action

	if e.state.Winner != "" {
		return nil
	}
	if playerID != e.state.ActivePlayer || e.state.Phase != rules.PhaseMain {
		return nil
	}
	player, ok := e.state.PlayerByID(playerID)
	if !ok {
		return nil
	}
	opponent, _ := e.state.OpponentOf(playerID)

	// Plays from hand.
	for _, card := range player.Hand {
		cost := e.playCostFor(player, card)
		if player.CommandCounters < cost && !e.hasAltCostPayment(player, card) {
			continue
		}
		action := Action{
			Type:        ActionPlayCard,
			CardID:      card.ID,
			Cost:        cost,
			Description: "play " + card.Name,
		}
		for _, eff := range e.registry.Effects(card.ID) {
			if eff.Kind != effects.KindOneShot || eff.Op.TargetCount() == 0 {
				continue
			}
			action.Targets = append(action.Targets, TargetSlot{
				EffectID:    eff.ID,
				Description: eff.Description(),
				MaxTargets:  eff.Op.TargetCount(),
				ValidIDs:    e.ValidTargetsFor(eff, playerID),
			})
		}
		actions = append(actions, action)
	}

	// Tussles.
	tussleCost := e.tussleCostFor(playerID)
	if player.CommandCounters >= tussleCost && opponent != nil {
		for _, attacker := range player.InPlay {
			if !attacker.IsToy() || e.EffectiveStat(attacker, effects.StatStrength) <= 0 {
				continue
			}
			for _, defender := range opponent.InPlay {
				if !defender.IsToy() {
					continue
				}
				actions = append(actions, Action{
					Type:        ActionTussle,
					CardID:      attacker.ID,
					DefenderID:  defender.ID,
					Cost:        tussleCost,
					Description: attacker.Name + " tussles " + defender.Name,
				})
			}
		}
	}

	// Direct attacks.
	if opponent != nil && player.DirectAttacksThisTurn < e.cfg.DirectAttackLimit && len(opponent.Hand) > 0 {
		opponentHasToys := false
		for _, c := range opponent.InPlay {
			if c.IsToy() {
				opponentHasToys = true
				break
			}
		}
		if !opponentHasToys {
			for _, attacker := range player.InPlay {
				if !attacker.IsToy() {
					continue
				}
				actions = append(actions, Action{
					Type:        ActionDirectAttack,
					CardID:      attacker.ID,
					Description: attacker.Name + " attacks directly",
				})
			}
		}
	}

	// Activated abilities.
	for _, card := range player.InPlay {
		for _, eff := range e.registry.Effects(card.ID) {
			if eff.Kind != effects.KindActivated {
				continue
			}
			if player.CommandCounters < eff.ActivationCost {
				continue
			}
			action := Action{
				Type:        ActionActivate,
				CardID:      card.ID,
				EffectID:    eff.ID,
				Cost:        eff.ActivationCost,
				Description: card.Name + ": " + eff.Description(),
			}
			if eff.Op.TargetCount() > 0 {
				action.Targets = append(action.Targets, TargetSlot{
					EffectID:    eff.ID,
					Description: eff.Description(),
					MaxTargets:  eff.Op.TargetCount(),
					ValidIDs:    e.ValidTargetsFor(eff, playerID),
				})
			}
			actions = append(actions, action)
		}
	}

	actions = append(actions, Action{Type: ActionEndTurn, Description: "end turn"})
	return actions
}

// hasAltCostPayment reports whether the player holds another card that
// could be slept to pay for this one.
func (e *GameEngine) hasAltCostPayment(player *Player, card *Card) bool {
	for _, c := range player.Hand {
		if c.ID != card.ID {
			return true
		}
	}
	return len(player.InPlay) > 0
}
