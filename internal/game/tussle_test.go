package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
)

// A clean first-strike kill prevents the counter-strike: the attacker's
// own-turn speed bonus breaks the mirror match and the attacker takes no
// damage.
func TestTussleFirstStrikeNoMutualDestruction(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser", "vanilla"}, []string{"bruiser", "vanilla"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "bruiser")
	defender := putInPlay(t, e, "bob", "bruiser")

	outcome, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, 5, outcome.AttackerSpeed, "attacker gets +1 on its controller's turn")
	assert.Equal(t, 4, outcome.DefenderSpeed)
	assert.True(t, outcome.DefenderDefeated)
	assert.False(t, outcome.AttackerDefeated)

	assert.Equal(t, ZoneSleep, defender.Zone)
	assert.Equal(t, ZoneInPlay, attacker.Zone)
	assert.Equal(t, attacker.BaseStamina, attacker.CurrentStamina, "no counter-strike after a clean kill")
	assert.Equal(t, 0, player(t, e, "alice").CommandCounters)
}

// A speed tie is the only path to double defeat: both strike with their
// pre-damage strength.
func TestTussleSpeedTieSimultaneousStrikes(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser", "vanilla"}, []string{"bruiser", "vanilla"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "bruiser")
	defender := putInPlay(t, e, "bob", "bruiser")
	defender.AddModification(effects.StatSpeed, 1, 0) // 5 vs 4+1

	outcome, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, outcome.AttackerSpeed, outcome.DefenderSpeed)
	assert.True(t, outcome.AttackerDefeated)
	assert.True(t, outcome.DefenderDefeated)
	assert.Equal(t, ZoneSleep, attacker.Zone)
	assert.Equal(t, ZoneSleep, defender.Zone)
}

// A faster defender strikes first and a clean kill stops the attack cold.
func TestTussleFasterDefenderStrikesFirst(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla", "bruiser"}, []string{"bruiser", "vanilla"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "vanilla") // 2/2/2, +1 speed = 3
	defender := putInPlay(t, e, "bob", "bruiser")   // 4/4/4

	outcome, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)

	assert.True(t, outcome.AttackerDefeated)
	assert.False(t, outcome.DefenderDefeated)
	assert.Equal(t, defender.BaseStamina, defender.CurrentStamina)
	assert.Equal(t, ZoneSleep, attacker.Zone)
}

// A stolen toy defeated under the thief's control sleeps into its owner's
// zone and leaves the thief's in-play list.
func TestDefeatedStolenToySleepsToOwner(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla", "bruiser"}, []string{"bruiser", "vanilla"})
	setCC(t, e, "alice", 2)

	stolen := putInPlay(t, e, "alice", "vanilla")
	require.NoError(t, e.changeController(stolen, "bob"))
	require.Equal(t, "bob", stolen.Controller)

	attacker := putInPlay(t, e, "alice", "bruiser")
	outcome, err := e.InitiateTussle(attacker.ID, stolen.ID, "alice")
	require.NoError(t, err)
	require.True(t, outcome.DefenderDefeated)

	assert.Equal(t, ZoneSleep, stolen.Zone)
	assert.Equal(t, "alice", stolen.Controller, "control reverts to the owner on sleep")
	assert.True(t, zoneContains(player(t, e, "alice").SleepZone, stolen.ID))
	assert.False(t, zoneContains(player(t, e, "bob").InPlay, stolen.ID))
	assert.False(t, zoneContains(player(t, e, "bob").SleepZone, stolen.ID))
}

// auto_win skips the damage math entirely: no strikes, no tie-break, the
// defender just sleeps.
func TestTussleAutoWinSkipsDamageMath(t *testing.T) {
	e := newTestEngine(t, []string{"champ", "vanilla"}, []string{"bruiser", "vanilla"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "champ") // 3/3/5 would lose the speed race
	defender := putInPlay(t, e, "bob", "bruiser")

	outcome, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)

	assert.True(t, outcome.AutoWin)
	assert.True(t, outcome.DefenderDefeated)
	assert.False(t, outcome.AttackerDefeated)
	assert.Equal(t, attacker.BaseStamina, attacker.CurrentStamina)
	assert.Equal(t, defender.BaseStamina, defender.CurrentStamina, "no damage is dealt on an auto-win")
	assert.Equal(t, ZoneSleep, defender.Zone)
}

// The auto-win override is an effect, so defender-side protection blocks
// it and combat falls back to the normal strike algorithm.
func TestTussleAutoWinBlockedByProtection(t *testing.T) {
	e := newTestEngine(t, []string{"champ", "vanilla"}, []string{"guard", "bruiser"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "champ") // 3/3/5
	putInPlay(t, e, "bob", "guard")
	defender := putInPlay(t, e, "bob", "bruiser") // 4/4/4

	outcome, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)

	assert.False(t, outcome.AutoWin)
	// 3+1 speed ties 4: simultaneous strikes, both survive with damage.
	assert.Equal(t, outcome.AttackerSpeed, outcome.DefenderSpeed)
	assert.Equal(t, 1, attacker.CurrentStamina)
	assert.Equal(t, 1, defender.CurrentStamina)
}

// Combat damage is not an effect: protection does not stop strikes.
func TestProtectionDoesNotBlockCombatDamage(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser", "vanilla"}, []string{"guard", "vanilla"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "bruiser")
	putInPlay(t, e, "bob", "guard")
	defender := putInPlay(t, e, "bob", "vanilla")

	outcome, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)

	assert.True(t, outcome.DefenderDefeated)
	assert.Equal(t, ZoneSleep, defender.Zone)
}

func TestTussleCostOverride(t *testing.T) {
	e := newTestEngine(t, []string{"drill", "vanilla"}, []string{"vanilla", "bruiser"})
	setCC(t, e, "alice", 1)

	attacker := putInPlay(t, e, "alice", "drill")
	defender := putInPlay(t, e, "bob", "vanilla")

	assert.Equal(t, 1, e.tussleCostFor("alice"))
	assert.Equal(t, 2, e.tussleCostFor("bob"), "the override helps only its controller")

	_, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, player(t, e, "alice").CommandCounters)
}

func TestTussleValidation(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser", "discount", "vanilla"}, []string{"bruiser", "vanilla"})

	attacker := putInPlay(t, e, "alice", "bruiser")
	defender := putInPlay(t, e, "bob", "bruiser")

	setCC(t, e, "alice", 1)
	_, err := e.InitiateTussle(attacker.ID, defender.ID, "alice")
	require.Error(t, err, "tussle needs its CC cost")
	assert.True(t, IsValidation(err))
	assert.Equal(t, defender.BaseStamina, defender.CurrentStamina, "rejected tussle deals no damage")

	setCC(t, e, "alice", 2)
	_, err = e.InitiateTussle(attacker.ID, defender.ID, "bob")
	require.Error(t, err, "only the active player attacks")

	inHand := handCard(t, e, "alice", "vanilla")
	_, err = e.InitiateTussle(inHand.ID, defender.ID, "alice")
	require.Error(t, err, "attacker must be in play")

	ally := putInPlay(t, e, "alice", "vanilla")
	_, err = e.InitiateTussle(attacker.ID, ally.ID, "alice")
	require.Error(t, err, "defender must be opposing")

	zeroStrength := putInPlay(t, e, "alice", "discount")
	_, err = e.InitiateTussle(zeroStrength.ID, defender.ID, "alice")
	require.Error(t, err, "zero-strength toys cannot attack")
}
