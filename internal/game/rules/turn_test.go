package rules

import "testing"

func TestTurnManagerPhaseSequence(t *testing.T) {
	tm := NewTurnManager("alice")

	if tm.CurrentPhase() != PhaseStart {
		t.Errorf("initial phase = %v, want START", tm.CurrentPhase())
	}
	if tm.TurnNumber() != 1 {
		t.Errorf("initial turn = %d, want 1", tm.TurnNumber())
	}
	if tm.ActivePlayer() != "alice" {
		t.Errorf("active player = %q, want alice", tm.ActivePlayer())
	}

	if got := tm.AdvancePhase(""); got != PhaseMain {
		t.Errorf("after first advance: %v, want MAIN", got)
	}
	if got := tm.AdvancePhase(""); got != PhaseEnd {
		t.Errorf("after second advance: %v, want END", got)
	}
	if tm.TurnNumber() != 1 {
		t.Errorf("turn advanced early: %d", tm.TurnNumber())
	}

	if got := tm.AdvancePhase("bob"); got != PhaseStart {
		t.Errorf("after wrap: %v, want START", got)
	}
	if tm.TurnNumber() != 2 {
		t.Errorf("turn = %d, want 2", tm.TurnNumber())
	}
	if tm.ActivePlayer() != "bob" {
		t.Errorf("active player = %q, want bob", tm.ActivePlayer())
	}
}

func TestIsOpeningTurn(t *testing.T) {
	for turn, want := range map[int]bool{1: true, 2: true, 3: false, 10: false} {
		if got := IsOpeningTurn(turn); got != want {
			t.Errorf("IsOpeningTurn(%d) = %v, want %v", turn, got, want)
		}
	}
}

func TestTurnManagerRestore(t *testing.T) {
	tm := NewTurnManager("alice")
	tm.Restore(7, PhaseMain, "bob")

	if tm.TurnNumber() != 7 {
		t.Errorf("turn = %d, want 7", tm.TurnNumber())
	}
	if tm.CurrentPhase() != PhaseMain {
		t.Errorf("phase = %v, want MAIN", tm.CurrentPhase())
	}
	if tm.ActivePlayer() != "bob" {
		t.Errorf("active player = %q, want bob", tm.ActivePlayer())
	}

	if got := tm.AdvancePhase(""); got != PhaseEnd {
		t.Errorf("advance from restored MAIN: %v, want END", got)
	}
}

func TestParsePhase(t *testing.T) {
	for name, want := range map[string]Phase{"START": PhaseStart, "main": PhaseMain, " End ": PhaseEnd} {
		got, ok := ParsePhase(name)
		if !ok || got != want {
			t.Errorf("ParsePhase(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParsePhase("UPKEEP"); ok {
		t.Error("ParsePhase accepted unknown phase")
	}
}
