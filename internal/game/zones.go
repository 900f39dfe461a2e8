package game

import (
	"go.uber.org/zap"

	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// sleepCard moves a card to its owner's sleep zone. Stolen cards sleep
// into the owner's zone, never the controller's. Modifications clear and
// control reverts to the owner. When the card left play, its on-sleep
// triggered effects fire (sleeping from hand never triggers them).
//
// All sleep-causing paths in the engine go through here so triggers are
// never silently bypassed.
func (e *GameEngine) sleepCard(card *Card, wasInPlay bool) error {
	holder, _, found := e.state.holderOf(card.ID)
	if !found {
		return invariantf("card %s not held by any player", card.ID)
	}

	switch card.Zone {
	case ZoneHand:
		holder.Hand, _ = removeFromZone(holder.Hand, card.ID)
	case ZoneInPlay:
		holder.InPlay, _ = removeFromZone(holder.InPlay, card.ID)
	case ZoneSleep:
		return invariantf("card %s is already asleep", card.ID)
	}

	owner, ok := e.state.PlayerByID(card.Owner)
	if !ok {
		return invariantf("card %s has unknown owner %s", card.ID, card.Owner)
	}

	card.Zone = ZoneSleep
	card.Controller = card.Owner
	card.clearModifications()
	owner.SleepZone = append(owner.SleepZone, card)

	if err := e.verifyZoneInvariants(card); err != nil {
		return err
	}

	e.logger.Debug("card slept",
		zap.String("card_id", card.ID),
		zap.String("owner", card.Owner),
		zap.Bool("was_in_play", wasInPlay),
	)
	e.state.appendLog("%s goes to sleep", card.Name)

	e.publish(rules.Event{
		Type:      rules.EventCardSlept,
		TargetID:  card.ID,
		PlayerID:  card.Owner,
		WasInPlay: wasInPlay,
	})

	e.checkVictory()
	return nil
}

// wake moves a card from its owner's sleep zone back to hand with a full
// stat reset. Waking fires no triggers.
func (e *GameEngine) wake(card *Card) error {
	owner, ok := e.state.PlayerByID(card.Owner)
	if !ok {
		return invariantf("card %s has unknown owner %s", card.ID, card.Owner)
	}
	if card.Zone != ZoneSleep || !zoneContains(owner.SleepZone, card.ID) {
		return invariantf("card %s is not in %s's sleep zone", card.ID, card.Owner)
	}

	owner.SleepZone, _ = removeFromZone(owner.SleepZone, card.ID)
	card.Zone = ZoneHand
	card.Controller = card.Owner
	card.clearModifications()
	card.CurrentStamina = card.BaseStamina
	owner.Hand = append(owner.Hand, card)

	if err := e.verifyZoneInvariants(card); err != nil {
		return err
	}

	e.state.appendLog("%s wakes up", card.Name)
	e.publish(rules.Event{Type: rules.EventCardWoke, TargetID: card.ID, PlayerID: card.Owner})
	return nil
}

// returnToHand bounces an in-play card back to its owner's hand. Control
// reverts to the owner, modifications clear, stamina resets. Unlike
// sleepCard this fires no on-sleep triggers.
func (e *GameEngine) returnToHand(card *Card) error {
	holder, zone, found := e.state.holderOf(card.ID)
	if !found {
		return invariantf("card %s not held by any player", card.ID)
	}
	if zone != ZoneInPlay {
		return invariantf("card %s is not in play", card.ID)
	}

	holder.InPlay, _ = removeFromZone(holder.InPlay, card.ID)

	owner, ok := e.state.PlayerByID(card.Owner)
	if !ok {
		return invariantf("card %s has unknown owner %s", card.ID, card.Owner)
	}

	card.Zone = ZoneHand
	card.Controller = card.Owner
	card.clearModifications()
	card.CurrentStamina = card.BaseStamina
	owner.Hand = append(owner.Hand, card)

	if err := e.verifyZoneInvariants(card); err != nil {
		return err
	}

	e.state.appendLog("%s returns to %s's hand", card.Name, owner.Name)
	e.publish(rules.Event{Type: rules.EventCardReturned, TargetID: card.ID, PlayerID: card.Owner})
	return nil
}

// changeController transfers control of an in-play card. The card stays
// in play; its zone list moves to the new controller and, unlike zone
// transitions, all modifications are retained.
func (e *GameEngine) changeController(card *Card, newControllerID string) error {
	holder, zone, found := e.state.holderOf(card.ID)
	if !found {
		return invariantf("card %s not held by any player", card.ID)
	}
	if zone != ZoneInPlay {
		return invariantf("card %s is not in play", card.ID)
	}
	if holder.ID == newControllerID {
		return nil
	}

	newController, ok := e.state.PlayerByID(newControllerID)
	if !ok {
		return invariantf("unknown controller %s", newControllerID)
	}

	holder.InPlay, _ = removeFromZone(holder.InPlay, card.ID)
	card.Controller = newControllerID
	newController.InPlay = append(newController.InPlay, card)

	if err := e.verifyZoneInvariants(card); err != nil {
		return err
	}

	e.state.appendLog("%s takes control of %s", newController.Name, card.Name)
	e.publish(rules.Event{Type: rules.EventCardStolen, TargetID: card.ID, PlayerID: newControllerID})
	return nil
}

// verifyZoneInvariants asserts the card appears in exactly one zone list
// of exactly one player, consistent with its Zone, Owner and Controller
// fields, and that modifications are clear outside of play.
func (e *GameEngine) verifyZoneInvariants(card *Card) error {
	holders := 0
	var holder *Player
	var zone Zone
	for _, p := range e.state.Players {
		if p == nil {
			continue
		}
		for z, list := range map[Zone][]*Card{ZoneHand: p.Hand, ZoneInPlay: p.InPlay, ZoneSleep: p.SleepZone} {
			if zoneContains(list, card.ID) {
				holders++
				holder = p
				zone = z
			}
		}
	}

	if holders != 1 {
		return invariantf("card %s appears in %d zone lists", card.ID, holders)
	}
	if zone != card.Zone {
		return invariantf("card %s zone field %s disagrees with list %s", card.ID, card.Zone, zone)
	}
	switch zone {
	case ZoneInPlay:
		if holder.ID != card.Controller {
			return invariantf("in-play card %s held by %s but controlled by %s", card.ID, holder.ID, card.Controller)
		}
	case ZoneHand, ZoneSleep:
		if holder.ID != card.Owner {
			return invariantf("card %s in %s held by %s but owned by %s", card.ID, zone, holder.ID, card.Owner)
		}
		if len(card.Modifications) != 0 {
			return invariantf("card %s carries modifications outside of play", card.ID)
		}
	}
	return nil
}
