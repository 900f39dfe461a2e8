package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
)

// Playing a boost toy raises allied effective strength immediately, with
// no cost beyond the card's own.
func TestContinuousBoostAppliesImmediately(t *testing.T) {
	e := newTestEngine(t, []string{"cheer", "vanilla"}, []string{"vanilla"})
	setCC(t, e, "alice", 4)

	ally := putInPlay(t, e, "alice", "vanilla")
	require.Equal(t, 2, e.EffectiveStat(ally, effects.StatStrength))

	cheer := handCard(t, e, "alice", "cheer")
	_, err := e.PlayCard("alice", cheer.ID, nil, "")
	require.NoError(t, err)

	assert.Equal(t, 4, e.EffectiveStat(ally, effects.StatStrength), "boost applies the moment the source is in play")
	assert.Equal(t, 3, e.EffectiveStat(cheer, effects.StatStrength), "allied selector includes the source itself")
	assert.Equal(t, 3, player(t, e, "alice").CommandCounters, "only the card's cost is spent")
}

func TestBoostStopsWhenSourceLeavesPlay(t *testing.T) {
	e := newTestEngine(t, []string{"cheer", "vanilla"}, []string{"vanilla"})
	ally := putInPlay(t, e, "alice", "vanilla")
	cheer := putInPlay(t, e, "alice", "cheer")

	assert.Equal(t, 4, e.EffectiveStat(ally, effects.StatStrength))

	require.NoError(t, e.sleepCard(cheer, true))
	assert.Equal(t, 2, e.EffectiveStat(ally, effects.StatStrength), "boost dies with its source")
}

func TestBoostDoesNotCrossSides(t *testing.T) {
	e := newTestEngine(t, []string{"cheer"}, []string{"vanilla"})
	putInPlay(t, e, "alice", "cheer")
	enemy := putInPlay(t, e, "bob", "vanilla")

	assert.Equal(t, 2, e.EffectiveStat(enemy, effects.StatStrength), "allied selector excludes enemy toys")
}

func TestEnemyDebuffBlockedByProtection(t *testing.T) {
	e := newTestEngine(t, []string{"taunt"}, []string{"guard", "vanilla"})
	putInPlay(t, e, "alice", "taunt")
	target := putInPlay(t, e, "bob", "vanilla")

	assert.Equal(t, 1, e.EffectiveStat(target, effects.StatSpeed), "enemy debuff applies unprotected")

	putInPlay(t, e, "bob", "guard")
	assert.Equal(t, 2, e.EffectiveStat(target, effects.StatSpeed), "protect_all blocks the enemy debuff")
}

func TestModificationsStackWithBase(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla"}, []string{"vanilla"})
	card := putInPlay(t, e, "alice", "vanilla")

	card.AddModification(effects.StatStrength, 3, 0)
	card.AddModification(effects.StatStrength, -1, 0)
	card.AddModification(effects.StatSpeed, 2, 0)

	assert.Equal(t, 4, e.EffectiveStat(card, effects.StatStrength))
	assert.Equal(t, 4, e.EffectiveStat(card, effects.StatSpeed))
	assert.Equal(t, 2, e.EffectiveStat(card, effects.StatStamina))
}

func TestStaminaFloorsAtZero(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla"}, []string{"vanilla"})
	card := putInPlay(t, e, "alice", "vanilla")

	card.AddModification(effects.StatStamina, -10, 0)
	assert.Equal(t, 0, e.EffectiveStat(card, effects.StatStamina))
}

func TestExpiredModificationsAreDropped(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla", "bruiser"}, []string{"vanilla"})
	card := putInPlay(t, e, "alice", "vanilla")

	card.AddModification(effects.StatStrength, 2, e.state.TurnNumber)
	assert.Equal(t, 4, e.EffectiveStat(card, effects.StatStrength), "alive during its turn")

	_, err := e.EndTurn("alice")
	require.NoError(t, err)

	assert.Empty(t, card.Modifications, "end of turn sweeps expired modifications")
	assert.Equal(t, 2, e.EffectiveStat(card, effects.StatStrength))
}

func TestStatResolutionIsRecomputedNotCached(t *testing.T) {
	e := newTestEngine(t, []string{"cheer", "vanilla"}, []string{"vanilla"})
	ally := putInPlay(t, e, "alice", "vanilla")
	cheer := putInPlay(t, e, "alice", "cheer")

	first := e.EffectiveStat(ally, effects.StatStrength)
	second := e.EffectiveStat(ally, effects.StatStrength)
	assert.Equal(t, first, second)

	// Mutate state between queries; the next query must see it.
	require.NoError(t, e.sleepCard(cheer, true))
	assert.Equal(t, first-2, e.EffectiveStat(ally, effects.StatStrength))
}

func TestSleepDoesNotResetStamina(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla", "bruiser"}, []string{"vanilla"})
	card := putInPlay(t, e, "alice", "vanilla")
	card.CurrentStamina = 0
	card.AddModification(effects.StatStrength, 2, 0)

	require.NoError(t, e.sleepCard(card, true))

	assert.Equal(t, ZoneSleep, card.Zone)
	assert.Equal(t, 0, card.CurrentStamina, "sleeping preserves the damage state")
	assert.Empty(t, card.Modifications, "sleeping clears modifications")

	require.NoError(t, e.wake(card))
	assert.Equal(t, card.BaseStamina, card.CurrentStamina, "waking resets stamina")
}

func TestZoneInvariantViolationDetected(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla"}, []string{"vanilla"})
	card := putInPlay(t, e, "alice", "vanilla")

	// Duplicate the card into a second zone list behind the engine's back.
	alice := player(t, e, "alice")
	alice.SleepZone = append(alice.SleepZone, card)

	err := e.verifyZoneInvariants(card)
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))
}
