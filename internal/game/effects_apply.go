package game

import (
	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// ValidTargetsFor computes the legal target ids for a targeted op from
// the acting player's point of view. This is the single source of truth:
// action validation, the valid-action listing and cascade auto-targeting
// all read the same set. Protected cards are excluded up front so a
// protected id is rejected at validation rather than fizzling mid-apply.
func (e *GameEngine) ValidTargetsFor(eff effects.Effect, playerID string) []string {
	player, ok := e.state.PlayerByID(playerID)
	if !ok {
		return nil
	}

	switch eff.Op.Code {
	case effects.OpUnsleep:
		ids := make([]string, 0, len(player.SleepZone))
		for _, c := range player.SleepZone {
			ids = append(ids, c.ID)
		}
		return ids

	case effects.OpSleepTarget, effects.OpSteal:
		var ids []string
		for _, c := range e.state.ToysInPlay() {
			if c.Controller == playerID {
				continue
			}
			if e.isProtectedFromEffect(c, eff) {
				continue
			}
			ids = append(ids, c.ID)
		}
		return ids

	case effects.OpReturnTarget:
		var ids []string
		for _, c := range e.state.ToysInPlay() {
			if c.ID == eff.SourceID {
				continue
			}
			if c.Controller != playerID && e.isProtectedFromEffect(c, eff) {
				continue
			}
			ids = append(ids, c.ID)
		}
		return ids

	case effects.OpCopyStats:
		// Your toys only: pointing this at an opponent's card is the
		// targeting hole this set closes.
		var ids []string
		for _, c := range e.state.ToysInPlay() {
			if c.Controller != playerID || c.ID == eff.SourceID {
				continue
			}
			ids = append(ids, c.ID)
		}
		return ids
	}

	return nil
}

// applyOneShot resolves a one-shot op for the acting player. When
// auto-target is true and no explicit targets were supplied, the op picks
// its targets from the front of its valid set; an empty set skips the op
// quietly. This is the cascade contract: triggered payloads can never
// fail validation, only do less.
func (e *GameEngine) applyOneShot(op effects.Op, playerID, sourceID string, targetIDs []string, autoTarget bool) error {
	player, ok := e.state.PlayerByID(playerID)
	if !ok {
		return invariantf("unknown player %s resolving effect", playerID)
	}

	eff := effects.Effect{SourceID: sourceID, Kind: effects.KindOneShot, Op: op}

	if op.TargetCount() > 0 && len(targetIDs) == 0 && autoTarget {
		valid := e.ValidTargetsFor(eff, playerID)
		take := op.TargetCount()
		if take > len(valid) {
			take = len(valid)
		}
		targetIDs = valid[:take]
	}

	switch op.Code {
	case effects.OpGainCC:
		if op.Condition == effects.CondNotFirstTurn && rules.IsOpeningTurn(e.turns.TurnNumber()) {
			return nil
		}
		gained := e.gainCC(player, op.Amount)
		if gained > 0 {
			e.state.appendLog("%s gains %d CC", player.Name, gained)
		}
		if n := len(e.state.CCLedger); n > 0 && e.state.CCLedger[n-1].TurnNumber == e.turns.TurnNumber() && e.state.CCLedger[n-1].PlayerID == playerID {
			e.state.CCLedger[n-1].GainedCC += gained
		}
		return nil

	case effects.OpUnsleep:
		for _, id := range targetIDs {
			card, found := e.state.FindCard(id)
			if !found || card.Zone != ZoneSleep || card.Owner != playerID {
				continue
			}
			if err := e.wake(card); err != nil {
				return err
			}
		}
		return nil

	case effects.OpSleepAll:
		// Snapshot first: sleeping mutates the in-play lists.
		toys := e.state.ToysInPlay()
		for _, card := range toys {
			if card.Controller != playerID && e.isProtectedFromEffect(card, eff) {
				continue
			}
			if err := e.sleepCard(card, true); err != nil {
				return err
			}
		}
		return nil

	case effects.OpSleepTarget:
		for _, id := range targetIDs {
			card, found := e.state.FindCard(id)
			if !found || card.Zone != ZoneInPlay {
				continue
			}
			if err := e.sleepCard(card, true); err != nil {
				return err
			}
		}
		return nil

	case effects.OpReturnTarget:
		for _, id := range targetIDs {
			card, found := e.state.FindCard(id)
			if !found || card.Zone != ZoneInPlay {
				continue
			}
			if err := e.returnToHand(card); err != nil {
				return err
			}
		}
		return nil

	case effects.OpHeal:
		source, found := e.state.FindCard(sourceID)
		if !found {
			return invariantf("heal source %s not found", sourceID)
		}
		for _, card := range e.state.ToysInPlay() {
			if !selectorMatches(op.Selector, source, card) {
				continue
			}
			if card.Controller != playerID && e.isProtectedFromEffect(card, eff) {
				continue
			}
			e.healCard(card, op.Amount)
		}
		return nil

	case effects.OpCopyStats:
		source, found := e.state.FindCard(sourceID)
		if !found {
			return invariantf("copy source %s not found", sourceID)
		}
		for _, id := range targetIDs {
			template, ok := e.state.FindCard(id)
			if !ok || template.Zone != ZoneInPlay {
				continue
			}
			e.copyBaseStats(source, template)
			e.state.appendLog("%s becomes a copy of %s", source.Name, template.Name)
		}
		return nil

	case effects.OpSteal:
		for _, id := range targetIDs {
			card, found := e.state.FindCard(id)
			if !found || card.Zone != ZoneInPlay || card.Controller == playerID {
				continue
			}
			if err := e.changeController(card, playerID); err != nil {
				return err
			}
		}
		return nil
	}

	return invariantf("one-shot resolution reached unknown op %q", op.Code)
}

// healCard restores stamina up to the printed maximum.
func (e *GameEngine) healCard(card *Card, amount int) {
	if amount <= 0 || card.CurrentStamina >= card.BaseStamina {
		return
	}
	card.CurrentStamina += amount
	if card.CurrentStamina > card.BaseStamina {
		card.CurrentStamina = card.BaseStamina
	}
	e.state.appendLog("%s heals %d stamina", card.Name, amount)
	e.publish(rules.NewEventWithAmount(rules.EventCardHealed, card.ID, card.ID, card.Controller, amount))
}

// copyBaseStats overlays the template's printed stats onto the copying
// card via modifications, so the copy unwinds like any other buff when
// the card leaves play. Stamina tracking restarts from the template's
// printed value.
func (e *GameEngine) copyBaseStats(card, template *Card) {
	card.AddModification(effects.StatSpeed, template.BaseSpeed-card.BaseSpeed, 0)
	card.AddModification(effects.StatStrength, template.BaseStrength-card.BaseStrength, 0)
	card.AddModification(effects.StatStamina, template.BaseStamina-card.BaseStamina, 0)
	card.CurrentStamina = template.BaseStamina
}
