package game

import (
	"fmt"

	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// Zone identifies where a card currently lives.
type Zone int

const (
	ZoneHand Zone = iota
	ZoneInPlay
	ZoneSleep
)

var zoneNames = map[Zone]string{
	ZoneHand:   "HAND",
	ZoneInPlay: "IN_PLAY",
	ZoneSleep:  "SLEEP",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// CardType distinguishes persistent toys from one-shot actions.
type CardType string

const (
	TypeToy    CardType = "Toy"
	TypeAction CardType = "Action"
)

// Modification is one stat delta applied to a card while it stays in its
// current zone. ExpiresTurn is the turn number after which the delta is
// dead; 0 means it lasts until the card changes zone.
type Modification struct {
	Stat        effects.Stat
	Delta       int
	ExpiresTurn int
}

// Card is a single card instance in a game. ID and Owner are immutable
// after creation; Controller changes only through steal effects.
type Card struct {
	ID    string
	DefID string // card-definition id, for effect re-binding on reload
	Name  string // display only; engine logic never branches on it
	Type  CardType

	BaseCost     int
	BaseSpeed    int
	BaseStrength int
	BaseStamina  int

	// CurrentStamina tracks damage for toys. Mutated only through the
	// damage/heal helpers and the zone-transition resets.
	CurrentStamina int

	Owner      string
	Controller string
	Zone       Zone

	Modifications []Modification
}

// IsToy reports whether the card can occupy the in-play zone.
func (c *Card) IsToy() bool {
	return c.Type == TypeToy
}

// BaseStat returns the printed value for a stat.
func (c *Card) BaseStat(stat effects.Stat) int {
	switch stat {
	case effects.StatSpeed:
		return c.BaseSpeed
	case effects.StatStrength:
		return c.BaseStrength
	case effects.StatStamina:
		return c.BaseStamina
	}
	return 0
}

// AddModification records a stat delta on the card.
func (c *Card) AddModification(stat effects.Stat, delta, expiresTurn int) {
	c.Modifications = append(c.Modifications, Modification{Stat: stat, Delta: delta, ExpiresTurn: expiresTurn})
}

// clearModifications drops every modification. Called on zone transitions.
func (c *Card) clearModifications() {
	c.Modifications = nil
}

// expireModifications drops modifications whose expiry turn has passed.
func (c *Card) expireModifications(turnNumber int) {
	kept := c.Modifications[:0]
	for _, mod := range c.Modifications {
		if mod.ExpiresTurn != 0 && mod.ExpiresTurn <= turnNumber {
			continue
		}
		kept = append(kept, mod)
	}
	if len(kept) == 0 {
		c.Modifications = nil
		return
	}
	c.Modifications = kept
}

// Player holds one side of the game. Zone slices are ordered; card
// identity, never name, is the membership key.
type Player struct {
	ID              string
	Name            string
	Hand            []*Card
	InPlay          []*Card
	SleepZone       []*Card
	CommandCounters int

	// DirectAttacksThisTurn counts direct attacks made during the
	// player's current turn; reset at end of turn.
	DirectAttacksThisTurn int

	// OwnedCardIDs is the player's full original card set, fixed at game
	// creation. A player loses when every owned card is asleep.
	OwnedCardIDs []string
}

// CCTurnRecord books CC flow for one turn, for efficiency metrics.
type CCTurnRecord struct {
	TurnNumber int
	PlayerID   string
	StartCC    int
	GainedCC   int
	EndCC      int
}

// GameState is pure storage plus lookup helpers. The engine is its sole
// mutator.
type GameState struct {
	GameID       string
	Players      [2]*Player
	TurnNumber   int
	ActivePlayer string
	Phase        rules.Phase
	Log          []string
	CCLedger     []CCTurnRecord
	Winner       string // set once victory is detected, empty while running
}

// PlayerByID returns the player with the given id.
func (gs *GameState) PlayerByID(id string) (*Player, bool) {
	for _, p := range gs.Players {
		if p != nil && p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// OpponentOf returns the other player.
func (gs *GameState) OpponentOf(id string) (*Player, bool) {
	for _, p := range gs.Players {
		if p != nil && p.ID != id {
			return p, true
		}
	}
	return nil, false
}

// ActivePlayerState returns the player whose turn it is.
func (gs *GameState) ActivePlayerState() (*Player, bool) {
	return gs.PlayerByID(gs.ActivePlayer)
}

// FindCard locates a card by id in any zone of either player.
func (gs *GameState) FindCard(cardID string) (*Card, bool) {
	for _, p := range gs.Players {
		if p == nil {
			continue
		}
		for _, zone := range [][]*Card{p.Hand, p.InPlay, p.SleepZone} {
			for _, c := range zone {
				if c.ID == cardID {
					return c, true
				}
			}
		}
	}
	return nil, false
}

// ToysInPlay returns every toy currently in play on either side, in
// player order then zone order.
func (gs *GameState) ToysInPlay() []*Card {
	var toys []*Card
	for _, p := range gs.Players {
		if p == nil {
			continue
		}
		for _, c := range p.InPlay {
			if c.IsToy() {
				toys = append(toys, c)
			}
		}
	}
	return toys
}

// holderOf returns the player whose zone list physically contains the
// card, along with the zone it was found in.
func (gs *GameState) holderOf(cardID string) (*Player, Zone, bool) {
	for _, p := range gs.Players {
		if p == nil {
			continue
		}
		for _, c := range p.Hand {
			if c.ID == cardID {
				return p, ZoneHand, true
			}
		}
		for _, c := range p.InPlay {
			if c.ID == cardID {
				return p, ZoneInPlay, true
			}
		}
		for _, c := range p.SleepZone {
			if c.ID == cardID {
				return p, ZoneSleep, true
			}
		}
	}
	return nil, 0, false
}

// appendLog records a human-readable play-by-play line. The log is for
// UI and audit only; no gameplay logic reads it.
func (gs *GameState) appendLog(format string, args ...any) {
	gs.Log = append(gs.Log, fmt.Sprintf(format, args...))
}

// removeFromZone removes a card pointer from a zone slice by id.
func removeFromZone(zone []*Card, cardID string) ([]*Card, *Card) {
	for i, c := range zone {
		if c.ID == cardID {
			return append(zone[:i], zone[i+1:]...), c
		}
	}
	return zone, nil
}

// zoneContains reports membership by card id.
func zoneContains(zone []*Card, cardID string) bool {
	for _, c := range zone {
		if c.ID == cardID {
			return true
		}
	}
	return false
}
