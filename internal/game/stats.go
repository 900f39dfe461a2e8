package game

import (
	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
)

// EffectiveStat computes a toy's effective value for a stat at query time:
// base stat, plus non-expired modifications, plus every applicable
// continuous stat_boost from toys in play on either side, honoring
// protection. The result is recomputed from base on every call; there is
// no cache to desync from the modification list. Stamina floors at zero.
//
// The transient attacker speed bonus is not part of this value; the
// tussle resolver applies it inside its own speed comparison.
func (e *GameEngine) EffectiveStat(card *Card, stat effects.Stat) int {
	value := card.BaseStat(stat)

	for _, mod := range card.Modifications {
		if mod.Stat != stat {
			continue
		}
		// Expired entries are removed by endTurn; skipping here keeps
		// resolution correct even before the boundary sweep runs.
		if mod.ExpiresTurn != 0 && mod.ExpiresTurn < e.state.TurnNumber {
			continue
		}
		value += mod.Delta
	}

	for _, source := range e.state.ToysInPlay() {
		for _, eff := range e.registry.Effects(source.ID) {
			if eff.Kind != effects.KindContinuous || eff.Op.Code != effects.OpStatBoost {
				continue
			}
			if eff.Op.Stat != stat {
				continue
			}
			if !selectorMatches(eff.Op.Selector, source, card) {
				continue
			}
			if e.isProtectedFromEffect(card, eff) {
				continue
			}
			value += eff.Op.Amount
		}
	}

	if stat == effects.StatStamina && value < 0 {
		return 0
	}
	return value
}

// EffectiveStamina returns the toy's current stamina adjusted by stamina
// modifiers, floored at zero. Damage is tracked against CurrentStamina,
// so the continuous portion is the delta between effective and base max.
func (e *GameEngine) EffectiveStamina(card *Card) int {
	maxStamina := e.EffectiveStat(card, effects.StatStamina)
	damage := card.BaseStamina - card.CurrentStamina
	value := maxStamina - damage
	if value < 0 {
		return 0
	}
	return value
}

// selectorMatches applies an effect selector from the source's controller
// point of view.
func selectorMatches(sel effects.Selector, source, target *Card) bool {
	switch sel {
	case effects.SelectSelf:
		return source.ID == target.ID
	case effects.SelectAllied:
		return source.Controller == target.Controller
	case effects.SelectEnemy:
		return source.Controller != target.Controller
	case effects.SelectAll:
		return true
	}
	return false
}

// isProtectedFromEffect reports whether an opposing-controlled effect is
// blocked from applying to the target card. Effects from allied cards are
// never blocked, and raw combat damage is not an effect in this model.
func (e *GameEngine) isProtectedFromEffect(target *Card, eff effects.Effect) bool {
	source, ok := e.state.FindCard(eff.SourceID)
	if !ok {
		return false
	}
	if source.Controller == target.Controller {
		return false
	}

	for _, guard := range e.state.ToysInPlay() {
		if guard.Controller != target.Controller {
			continue
		}
		for _, guardEff := range e.registry.Effects(guard.ID) {
			if guardEff.Kind != effects.KindContinuous {
				continue
			}
			switch guardEff.Op.Code {
			case effects.OpProtectAll:
				return true
			case effects.OpProtectFrom:
				if guardEff.Op.Protected == eff.Op.Code {
					return true
				}
			}
		}
	}
	return false
}

// tussleCostFor returns the CC cost for the player to start a tussle: the
// configured base unless a continuous override from one of the player's
// own in-play toys sets a fixed cost. The lowest override wins.
func (e *GameEngine) tussleCostFor(playerID string) int {
	cost := e.cfg.TussleCost
	for _, source := range e.state.ToysInPlay() {
		if source.Controller != playerID {
			continue
		}
		for _, eff := range e.registry.Effects(source.ID) {
			if eff.Kind == effects.KindContinuous && eff.Op.Code == effects.OpSetTussleCost {
				if eff.Op.Amount < cost {
					cost = eff.Op.Amount
				}
			}
		}
	}
	return cost
}

// playCostFor returns the CC cost to play a card from hand, applying
// continuous cost reductions controlled by the player. Never below zero.
func (e *GameEngine) playCostFor(player *Player, card *Card) int {
	cost := card.BaseCost
	for _, source := range e.state.ToysInPlay() {
		if source.Controller != player.ID {
			continue
		}
		for _, eff := range e.registry.Effects(source.ID) {
			if eff.Kind == effects.KindContinuous && eff.Op.Code == effects.OpCostPerSleeping {
				cost -= eff.Op.Amount * len(player.SleepZone)
			}
		}
	}
	if cost < 0 {
		return 0
	}
	return cost
}
