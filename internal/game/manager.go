package game

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ggltcg/ggltcg-server-go/internal/cards"
)

// Manager holds one engine+state pair per game id and serializes all
// actions against each game, satisfying the caller-serialization
// contract the engine itself does not enforce. The engine core stays
// single-threaded; concurrency lives only here at the boundary.
type Manager struct {
	logger *zap.Logger
	cfg    Config
	set    *cards.Set

	mu    sync.RWMutex
	games map[string]*managedGame
}

type managedGame struct {
	mu     sync.Mutex
	engine *GameEngine
}

// NewManager creates a game manager over a loaded card set.
func NewManager(logger *zap.Logger, cfg Config, set *cards.Set) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger: logger,
		cfg:    cfg,
		set:    set,
		games:  make(map[string]*managedGame),
	}
}

// CreateGame builds a fresh game and begins the first turn.
func (m *Manager) CreateGame(specs [2]PlayerSpec) (string, error) {
	gameID := uuid.NewString()
	state, registry, err := NewGame(gameID, m.set, specs)
	if err != nil {
		return "", err
	}
	engine := NewGameEngine(m.logger.With(zap.String("game_id", gameID)), m.cfg, state, registry)
	if err := engine.Begin(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.games[gameID] = &managedGame{engine: engine}
	m.mu.Unlock()

	m.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.String("player_1", specs[0].ID),
		zap.String("player_2", specs[1].ID),
	)
	return gameID, nil
}

// RestoreFromSnapshot loads a saved game into the manager.
func (m *Manager) RestoreFromSnapshot(snap *Snapshot) error {
	state, registry, err := RestoreGame(snap, m.set)
	if err != nil {
		return err
	}
	engine := NewGameEngine(m.logger.With(zap.String("game_id", state.GameID)), m.cfg, state, registry)

	m.mu.Lock()
	m.games[state.GameID] = &managedGame{engine: engine}
	m.mu.Unlock()
	return nil
}

// WithGame runs fn while holding the game's action lock. All mutating
// calls into an engine go through here.
func (m *Manager) WithGame(gameID string, fn func(*GameEngine) error) error {
	m.mu.RLock()
	mg, ok := m.games[gameID]
	m.mu.RUnlock()
	if !ok {
		return validationErrorf("game %s not found", gameID)
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	return fn(mg.engine)
}

// RemoveGame drops a finished game.
func (m *Manager) RemoveGame(gameID string) {
	m.mu.Lock()
	delete(m.games, gameID)
	m.mu.Unlock()
}

// GameIDs lists the ids of all managed games.
func (m *Manager) GameIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	return ids
}
