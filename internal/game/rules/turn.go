package rules

import (
	"fmt"
	"strings"
)

// Phase represents the phases of a GGLTCG turn.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMain
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart: "START",
	PhaseMain:  "MAIN",
	PhaseEnd:   "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ParsePhase maps a phase name back to its Phase value.
func ParsePhase(name string) (Phase, bool) {
	for p, n := range phaseNames {
		if n == strings.ToUpper(strings.TrimSpace(name)) {
			return p, true
		}
	}
	return PhaseStart, false
}

var phaseSequence = []Phase{PhaseStart, PhaseMain, PhaseEnd}

// TurnManager tracks the active player and turn progression.
// Turn numbers are global and monotonic; ownership alternates by parity.
type TurnManager struct {
	orderIndex   int
	turnNumber   int
	activePlayer string
}

// NewTurnManager creates a turn manager initialized at turn 1, start phase.
func NewTurnManager(activePlayer string) *TurnManager {
	return &TurnManager{
		orderIndex:   0,
		turnNumber:   1,
		activePlayer: strings.TrimSpace(activePlayer),
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return phaseSequence[tm.orderIndex]
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	return tm.activePlayer
}

// AdvancePhase advances to the next phase of the turn structure. When the
// end of the structure is reached, the turn number is incremented and the
// active player rotates to nextActivePlayer if provided.
func (tm *TurnManager) AdvancePhase(nextActivePlayer string) Phase {
	tm.orderIndex++
	if tm.orderIndex >= len(phaseSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		if next := strings.TrimSpace(nextActivePlayer); next != "" {
			tm.activePlayer = next
		}
	}
	return tm.CurrentPhase()
}

// IsOpeningTurn reports whether the given turn number belongs to the very
// first round of the game (turn 1 for the first player, turn 2 for the
// second). The reduced CC grant applies only on turn 1.
func IsOpeningTurn(turnNumber int) bool {
	return turnNumber <= 2
}

// Restore rewinds the manager to an explicit position, used when
// reconstructing a game from a snapshot.
func (tm *TurnManager) Restore(turnNumber int, phase Phase, activePlayer string) {
	if turnNumber < 1 {
		turnNumber = 1
	}
	tm.turnNumber = turnNumber
	tm.activePlayer = strings.TrimSpace(activePlayer)
	tm.orderIndex = 0
	for i, p := range phaseSequence {
		if p == phase {
			tm.orderIndex = i
			break
		}
	}
}
