// Package effects defines the card-effect taxonomy and the grammar parser
// that turns card-definition tokens into typed effect values. The package
// holds data only; interpretation happens in the game engine.
package effects

import "fmt"

// Kind classifies an effect into the closed four-kind taxonomy. Every call
// site that dispatches on Kind switches exhaustively over these values.
type Kind int

const (
	// KindContinuous effects are active while the source card is in play.
	KindContinuous Kind = iota
	// KindTriggered effects fire when a named game event occurs.
	KindTriggered
	// KindActivated effects are invoked by the controller for a CC cost
	// while the source is in play.
	KindActivated
	// KindOneShot effects resolve immediately when the card is played.
	KindOneShot
)

var kindNames = map[Kind]string{
	KindContinuous: "CONTINUOUS",
	KindTriggered:  "TRIGGERED",
	KindActivated:  "ACTIVATED",
	KindOneShot:    "ONE_SHOT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Stat names the three toy statistics.
type Stat string

const (
	StatSpeed    Stat = "speed"
	StatStrength Stat = "strength"
	StatStamina  Stat = "stamina"
)

// ValidStat reports whether s names a known stat.
func ValidStat(s Stat) bool {
	switch s {
	case StatSpeed, StatStrength, StatStamina:
		return true
	}
	return false
}

// Selector scopes which in-play toys a continuous or one-shot op touches,
// relative to the effect's controller.
type Selector string

const (
	SelectSelf   Selector = "self"
	SelectAllied Selector = "allied" // controller's toys, source included
	SelectEnemy  Selector = "enemy"
	SelectAll    Selector = "all"
)

// ValidSelector reports whether s names a known selector.
func ValidSelector(s Selector) bool {
	switch s {
	case SelectSelf, SelectAllied, SelectEnemy, SelectAll:
		return true
	}
	return false
}

// OpCode identifies the operation an effect performs. Protection by
// effect-origin matches on these codes, never on card names.
type OpCode string

const (
	// Continuous ops
	OpStatBoost       OpCode = "stat_boost"
	OpSetTussleCost   OpCode = "set_tussle_cost"
	OpCostPerSleeping OpCode = "cost_per_sleeping"
	OpProtectAll      OpCode = "protect_all"
	OpProtectFrom     OpCode = "protect_from"
	OpAutoWin         OpCode = "auto_win"

	// One-shot ops (also usable as trigger and activation payloads)
	OpGainCC       OpCode = "gain_cc"
	OpUnsleep      OpCode = "unsleep"
	OpSleepAll     OpCode = "sleep_all"
	OpSleepTarget  OpCode = "sleep_target"
	OpReturnTarget OpCode = "return_target"
	OpHeal         OpCode = "heal"

	// Coded specials: mechanics too singular for the grammar, still
	// discovered through the registry like any other effect.
	OpCopyStats OpCode = "copy_stats"
	OpSteal     OpCode = "steal"
)

// Condition gates a one-shot op on game state.
type Condition string

const (
	CondNone         Condition = ""
	CondNotFirstTurn Condition = "not_first_turn"
)

// TriggerEvent names the game moments a triggered effect can react to.
type TriggerEvent string

const (
	TriggerOnSleep      TriggerEvent = "on_sleep"
	TriggerOnTurnStart  TriggerEvent = "on_turn_start"
	TriggerOnCardPlayed TriggerEvent = "on_card_played"
)

// Op is the operation payload of an effect.
type Op struct {
	Code      OpCode
	Stat      Stat     // stat_boost, heal
	Amount    int      // deltas, counts, cost overrides
	Selector  Selector // scope for stat_boost and heal
	Condition Condition
	Protected OpCode // protect_from: the blocked effect origin
}

// TargetCount returns how many player-chosen targets the op requires.
// Counts are upper bounds: ops with count > 1 resolve partially when
// fewer legal targets exist.
func (op Op) TargetCount() int {
	switch op.Code {
	case OpUnsleep:
		return op.Amount
	case OpSleepTarget, OpReturnTarget, OpCopyStats, OpSteal:
		return 1
	}
	return 0
}

// Effect is one parsed effect owned by exactly one source card.
type Effect struct {
	ID       string
	SourceID string // bound when the registry is built for a game
	Kind     Kind
	Op       Op

	// Triggered effects only
	Trigger TriggerEvent

	// Activated effects only
	ActivationCost int
}

// Description renders a short human-readable summary for logs and views.
func (e Effect) Description() string {
	switch e.Kind {
	case KindContinuous:
		return fmt.Sprintf("continuous %s", describeOp(e.Op))
	case KindTriggered:
		return fmt.Sprintf("%s: %s", e.Trigger, describeOp(e.Op))
	case KindActivated:
		return fmt.Sprintf("activate (%d CC): %s", e.ActivationCost, describeOp(e.Op))
	case KindOneShot:
		return describeOp(e.Op)
	}
	return string(e.Op.Code)
}

func describeOp(op Op) string {
	switch op.Code {
	case OpStatBoost:
		return fmt.Sprintf("%+d %s to %s toys", op.Amount, op.Stat, op.Selector)
	case OpSetTussleCost:
		return fmt.Sprintf("tussles cost %d CC", op.Amount)
	case OpCostPerSleeping:
		return fmt.Sprintf("cards cost %d less per sleeping card", op.Amount)
	case OpProtectAll:
		return "allied toys are protected from enemy effects"
	case OpProtectFrom:
		return fmt.Sprintf("allied toys are protected from %s", op.Protected)
	case OpAutoWin:
		return "allied toys win tussles on your turn"
	case OpGainCC:
		if op.Condition == CondNotFirstTurn {
			return fmt.Sprintf("gain %d CC (not on the first turn)", op.Amount)
		}
		return fmt.Sprintf("gain %d CC", op.Amount)
	case OpUnsleep:
		return fmt.Sprintf("wake up to %d sleeping cards", op.Amount)
	case OpSleepAll:
		return "sleep every toy in play"
	case OpSleepTarget:
		return "sleep an enemy toy"
	case OpReturnTarget:
		return "return a toy to its owner's hand"
	case OpHeal:
		return fmt.Sprintf("heal %d stamina on %s toys", op.Amount, op.Selector)
	case OpCopyStats:
		return "copy the base stats of one of your toys"
	case OpSteal:
		return "take control of an enemy toy"
	}
	return string(op.Code)
}
