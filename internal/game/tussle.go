package game

import (
	"go.uber.org/zap"

	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// TussleOutcome describes a resolved tussle for callers and logs.
type TussleOutcome struct {
	AttackerID       string
	DefenderID       string
	AttackerSpeed    int
	DefenderSpeed    int
	AttackerDefeated bool
	DefenderDefeated bool
	AutoWin          bool
}

// InitiateTussle resolves combat between an attacking and a defending
// toy. Validation happens before any mutation: an invalid request is
// rejected with a reason and the state is untouched.
func (e *GameEngine) InitiateTussle(attackerID, defenderID, actingPlayerID string) (*TussleOutcome, error) {
	if e.state.Winner != "" {
		return nil, validationErrorf("the game is over")
	}
	if actingPlayerID != e.state.ActivePlayer {
		return nil, validationErrorf("it is not %s's turn", actingPlayerID)
	}
	if e.state.Phase != rules.PhaseMain {
		return nil, validationErrorf("tussles are only legal in the main phase")
	}

	acting, ok := e.state.PlayerByID(actingPlayerID)
	if !ok {
		return nil, validationErrorf("unknown player %s", actingPlayerID)
	}

	attacker, ok := e.state.FindCard(attackerID)
	if !ok {
		return nil, validationErrorf("attacker %s not found", attackerID)
	}
	if attacker.Zone != ZoneInPlay || !attacker.IsToy() {
		return nil, validationErrorf("attacker must be a toy in play")
	}
	if attacker.Controller != actingPlayerID {
		return nil, validationErrorf("attacker is not controlled by %s", actingPlayerID)
	}
	if e.EffectiveStat(attacker, effects.StatStrength) <= 0 {
		return nil, validationErrorf("attacker has no strength to tussle with")
	}

	defender, ok := e.state.FindCard(defenderID)
	if !ok {
		return nil, validationErrorf("defender %s not found", defenderID)
	}
	if defender.Zone != ZoneInPlay || !defender.IsToy() {
		return nil, validationErrorf("defender must be a toy in play")
	}
	if defender.Controller == actingPlayerID {
		return nil, validationErrorf("defender must be an opposing toy")
	}

	cost := e.tussleCostFor(actingPlayerID)
	if acting.CommandCounters < cost {
		return nil, validationErrorf("tussle costs %d CC, %s has %d", cost, actingPlayerID, acting.CommandCounters)
	}

	// Validation complete; commit from here on.
	e.spendCC(acting, cost)
	e.publish(rules.NewEventWithAmount(rules.EventTussleStarted, defenderID, attackerID, actingPlayerID, cost))
	e.state.appendLog("%s tussles with %s", attacker.Name, defender.Name)

	outcome, err := e.resolveTussle(attacker, defender)
	if err != nil {
		return nil, err
	}
	e.drainTriggerQueue()
	return outcome, nil
}

// resolveTussle runs the strike algorithm after validation and cost
// payment. The attacker speed bonus applies only because the attacker is
// acting on its controller's own turn; it never persists outside this
// comparison.
func (e *GameEngine) resolveTussle(attacker, defender *Card) (*TussleOutcome, error) {
	outcome := &TussleOutcome{AttackerID: attacker.ID, DefenderID: defender.ID}

	// Auto-win short-circuits the strike algorithm entirely: no damage
	// math, no tie-break interaction. The override is an effect for
	// immunity purposes, so defender-side protection can block it.
	if eff, ok := e.autoWinEffectFor(attacker.Controller); ok && !e.isProtectedFromEffect(defender, eff) {
		outcome.AutoWin = true
		outcome.DefenderDefeated = true
		e.state.appendLog("%s wins the tussle outright", attacker.Name)
		if err := e.sleepCard(defender, true); err != nil {
			return nil, err
		}
		e.publish(rules.NewEvent(rules.EventTussleResolved, defender.ID, attacker.ID, attacker.Controller))
		return outcome, nil
	}

	attackerSpeed := e.EffectiveStat(attacker, effects.StatSpeed)
	if attacker.Controller == e.state.ActivePlayer {
		attackerSpeed += e.cfg.AttackerSpeedBonus
	}
	defenderSpeed := e.EffectiveStat(defender, effects.StatSpeed)
	outcome.AttackerSpeed = attackerSpeed
	outcome.DefenderSpeed = defenderSpeed

	e.logger.Debug("tussle speeds",
		zap.String("attacker", attacker.ID),
		zap.Int("attacker_speed", attackerSpeed),
		zap.String("defender", defender.ID),
		zap.Int("defender_speed", defenderSpeed),
	)

	switch {
	case attackerSpeed > defenderSpeed:
		if err := e.orderedStrikes(attacker, defender, outcome); err != nil {
			return nil, err
		}
	case defenderSpeed > attackerSpeed:
		if err := e.orderedStrikes(defender, attacker, outcome); err != nil {
			return nil, err
		}
	default:
		// Speed tie: both strike simultaneously with pre-damage stats.
		// This is the only path that can defeat both combatants.
		attackerStrength := e.EffectiveStat(attacker, effects.StatStrength)
		defenderStrength := e.EffectiveStat(defender, effects.StatStrength)
		e.applyDamage(defender, attackerStrength)
		e.applyDamage(attacker, defenderStrength)
		if defender.CurrentStamina <= 0 {
			outcome.DefenderDefeated = true
			if err := e.sleepCard(defender, true); err != nil {
				return nil, err
			}
		}
		if attacker.CurrentStamina <= 0 {
			outcome.AttackerDefeated = true
			if err := e.sleepCard(attacker, true); err != nil {
				return nil, err
			}
		}
	}

	e.publish(rules.NewEvent(rules.EventTussleResolved, defender.ID, attacker.ID, attacker.Controller))
	return outcome, nil
}

// orderedStrikes applies the faster combatant's strike first. A clean
// first-strike defeat prevents the counter-strike: no mutual destruction
// outside of a speed tie.
func (e *GameEngine) orderedStrikes(first, second *Card, outcome *TussleOutcome) error {
	e.applyDamage(second, e.EffectiveStat(first, effects.StatStrength))
	if second.CurrentStamina <= 0 {
		e.markDefeated(second, outcome)
		e.state.appendLog("%s is defeated before it can strike back", second.Name)
		return e.sleepCard(second, true)
	}

	e.applyDamage(first, e.EffectiveStat(second, effects.StatStrength))
	if first.CurrentStamina <= 0 {
		e.markDefeated(first, outcome)
		return e.sleepCard(first, true)
	}
	return nil
}

func (e *GameEngine) markDefeated(card *Card, outcome *TussleOutcome) {
	if card.ID == outcome.AttackerID {
		outcome.AttackerDefeated = true
	} else {
		outcome.DefenderDefeated = true
	}
}

// applyDamage marks combat damage on a toy. Combat damage is not an
// effect, so protection never prevents it.
func (e *GameEngine) applyDamage(card *Card, amount int) {
	if amount <= 0 {
		return
	}
	card.CurrentStamina -= amount
	if card.CurrentStamina < 0 {
		card.CurrentStamina = 0
	}
	e.state.appendLog("%s takes %d damage", card.Name, amount)
}

// autoWinEffectFor returns a continuous auto_win effect controlled by the
// player, if one is in play.
func (e *GameEngine) autoWinEffectFor(playerID string) (effects.Effect, bool) {
	for _, source := range e.state.ToysInPlay() {
		if source.Controller != playerID {
			continue
		}
		for _, eff := range e.registry.Effects(source.ID) {
			if eff.Kind == effects.KindContinuous && eff.Op.Code == effects.OpAutoWin {
				return eff, true
			}
		}
	}
	return effects.Effect{}, false
}
