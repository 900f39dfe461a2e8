package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(zap.NewNop(), DefaultConfig(), testSet(t))
}

func TestManagerCreateAndAct(t *testing.T) {
	m := newTestManager(t)

	gameID, err := m.CreateGame([2]PlayerSpec{
		{ID: "alice", Deck: []string{"vanilla", "bruiser"}},
		{ID: "bob", Deck: []string{"vanilla"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, gameID)
	assert.Contains(t, m.GameIDs(), gameID)

	err = m.WithGame(gameID, func(e *GameEngine) error {
		assert.Equal(t, "alice", e.State().ActivePlayer)
		_, endErr := e.EndTurn("alice")
		return endErr
	})
	require.NoError(t, err)

	err = m.WithGame(gameID, func(e *GameEngine) error {
		assert.Equal(t, "bob", e.State().ActivePlayer)
		return nil
	})
	require.NoError(t, err)
}

func TestManagerUnknownGame(t *testing.T) {
	m := newTestManager(t)
	err := m.WithGame("no-such-game", func(*GameEngine) error { return nil })
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestManagerCreateGameRejectsBadSpecs(t *testing.T) {
	m := newTestManager(t)

	_, err := m.CreateGame([2]PlayerSpec{
		{ID: "alice", Deck: []string{"never_printed"}},
		{ID: "bob", Deck: []string{"vanilla"}},
	})
	require.Error(t, err, "unknown definition ids fail game creation")

	_, err = m.CreateGame([2]PlayerSpec{
		{ID: "same", Deck: []string{"vanilla"}},
		{ID: "same", Deck: []string{"vanilla"}},
	})
	require.Error(t, err, "players need distinct ids")
}

func TestManagerRestoreFromSnapshot(t *testing.T) {
	m := newTestManager(t)
	gameID, err := m.CreateGame([2]PlayerSpec{
		{ID: "alice", Deck: []string{"vanilla", "bruiser"}},
		{ID: "bob", Deck: []string{"vanilla"}},
	})
	require.NoError(t, err)

	var snap *Snapshot
	require.NoError(t, m.WithGame(gameID, func(e *GameEngine) error {
		snap = TakeSnapshot(e.State())
		return nil
	}))

	m.RemoveGame(gameID)
	assert.NotContains(t, m.GameIDs(), gameID)

	require.NoError(t, m.RestoreFromSnapshot(snap))
	assert.Contains(t, m.GameIDs(), gameID)

	require.NoError(t, m.WithGame(gameID, func(e *GameEngine) error {
		_, endErr := e.EndTurn("alice")
		return endErr
	}))
}
