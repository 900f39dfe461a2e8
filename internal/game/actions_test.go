package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionsOfType(actions []Action, at ActionType) []Action {
	var out []Action
	for _, a := range actions {
		if a.Type == at {
			out = append(out, a)
		}
	}
	return out
}

func TestValidActionsOnlyForActivePlayer(t *testing.T) {
	e := newTestEngine(t, []string{"vanilla"}, []string{"vanilla"})

	assert.Nil(t, e.ValidActions("bob"), "inactive player has no actions")
	actions := e.ValidActions("alice")
	require.NotEmpty(t, actions)
	assert.Equal(t, ActionEndTurn, actions[len(actions)-1].Type, "end turn is always last")
}

func TestValidActionsListsAffordablePlays(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser"}, []string{"vanilla"})

	// One card in hand, nothing to sleep for it, 1 CC against cost 3.
	setCC(t, e, "alice", 1)
	plays := actionsOfType(e.ValidActions("alice"), ActionPlayCard)
	assert.Empty(t, plays, "unaffordable play with no alternative cost is not listed")

	setCC(t, e, "alice", 3)
	plays = actionsOfType(e.ValidActions("alice"), ActionPlayCard)
	require.Len(t, plays, 1)
	assert.Equal(t, 3, plays[0].Cost)
}

func TestValidActionsListsTusslePairs(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser", "vanilla"}, []string{"vanilla", "cheer"})
	setCC(t, e, "alice", 2)

	attacker := putInPlay(t, e, "alice", "bruiser")
	d1 := putInPlay(t, e, "bob", "vanilla")
	d2 := putInPlay(t, e, "bob", "cheer")

	tussles := actionsOfType(e.ValidActions("alice"), ActionTussle)
	require.Len(t, tussles, 2, "one pair per attacker-defender combination")
	for _, a := range tussles {
		assert.Equal(t, attacker.ID, a.CardID)
		assert.Contains(t, []string{d1.ID, d2.ID}, a.DefenderID)
		assert.Equal(t, 2, a.Cost)
	}

	setCC(t, e, "alice", 1)
	assert.Empty(t, actionsOfType(e.ValidActions("alice"), ActionTussle), "no tussles without the CC")
}

func TestValidActionsDirectAttackOnlyAgainstEmptyBoard(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser"}, []string{"vanilla", "cheer"})
	putInPlay(t, e, "alice", "bruiser")

	attacks := actionsOfType(e.ValidActions("alice"), ActionDirectAttack)
	assert.Len(t, attacks, 1, "open board allows the direct attack")

	putInPlay(t, e, "bob", "vanilla")
	attacks = actionsOfType(e.ValidActions("alice"), ActionDirectAttack)
	assert.Empty(t, attacks, "a defending toy closes the direct attack")
}

func TestValidActionsCarryTargetSlots(t *testing.T) {
	e := newTestEngine(t, []string{"dart", "vanilla"}, []string{"bruiser", "vanilla"})
	setCC(t, e, "alice", 3)
	enemy := putInPlay(t, e, "bob", "bruiser")

	plays := actionsOfType(e.ValidActions("alice"), ActionPlayCard)
	var dart *Action
	for i := range plays {
		if plays[i].CardID == handCard(t, e, "alice", "dart").ID {
			dart = &plays[i]
		}
	}
	require.NotNil(t, dart)
	require.Len(t, dart.Targets, 1)
	assert.Equal(t, 1, dart.Targets[0].MaxTargets)
	assert.Equal(t, []string{enemy.ID}, dart.Targets[0].ValidIDs)
}

func TestValidActionsExcludeProtectedTargets(t *testing.T) {
	e := newTestEngine(t, []string{"dart", "vanilla"}, []string{"muffs", "bruiser"})
	setCC(t, e, "alice", 3)
	putInPlay(t, e, "bob", "muffs")
	shielded := putInPlay(t, e, "bob", "bruiser")

	plays := actionsOfType(e.ValidActions("alice"), ActionPlayCard)
	for _, a := range plays {
		for _, slot := range a.Targets {
			assert.NotContains(t, slot.ValidIDs, shielded.ID,
				"protect_from:sleep_target removes targets from the listing")
		}
	}
}

func TestValidActionsListActivations(t *testing.T) {
	e := newTestEngine(t, []string{"medic", "vanilla"}, []string{"vanilla"})
	medic := putInPlay(t, e, "alice", "medic")

	setCC(t, e, "alice", 0)
	assert.Empty(t, actionsOfType(e.ValidActions("alice"), ActionActivate))

	setCC(t, e, "alice", 1)
	activations := actionsOfType(e.ValidActions("alice"), ActionActivate)
	require.Len(t, activations, 1)
	assert.Equal(t, medic.ID, activations[0].CardID)
	assert.Equal(t, 1, activations[0].Cost)
}

// Every listed action must execute without a validation error: the
// listing and the validators share one legality definition.
func TestListedActionsAreExecutable(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser", "dart", "vanilla"}, []string{"vanilla", "cheer", "drill"})
	setCC(t, e, "alice", 3)
	putInPlay(t, e, "alice", "bruiser")
	putInPlay(t, e, "bob", "vanilla")

	actions := e.ValidActions("alice")
	require.NotEmpty(t, actions)

	for _, action := range actions {
		snap := TakeSnapshot(e.state)
		state, registry, err := RestoreGame(snap, testSet(t))
		require.NoError(t, err)
		trial := NewGameEngine(nil, DefaultConfig(), state, registry)

		var targets []string
		for _, slot := range action.Targets {
			take := slot.MaxTargets
			if take > len(slot.ValidIDs) {
				take = len(slot.ValidIDs)
			}
			targets = append(targets, slot.ValidIDs[:take]...)
		}

		switch action.Type {
		case ActionPlayCard:
			_, err = trial.PlayCard("alice", action.CardID, targets, "")
		case ActionTussle:
			_, err = trial.InitiateTussle(action.CardID, action.DefenderID, "alice")
		case ActionDirectAttack:
			_, err = trial.DirectAttack(action.CardID, "alice", "")
		case ActionActivate:
			_, err = trial.ActivateAbility("alice", action.CardID, action.EffectID, targets)
		case ActionEndTurn:
			_, err = trial.EndTurn("alice")
		}
		assert.NoError(t, err, "listed action %s (%s) must execute", action.Type, action.Description)
	}
}

func TestNoActionsAfterGameOver(t *testing.T) {
	e := newTestEngine(t, []string{"bruiser"}, []string{"vanilla"})
	attacker := putInPlay(t, e, "alice", "bruiser")
	_, err := e.DirectAttack(attacker.ID, "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, e.state.Winner)

	assert.Nil(t, e.ValidActions("alice"))
	assert.Nil(t, e.ValidActions("bob"))
}
