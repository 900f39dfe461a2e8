package effects

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed effect-grammar token. It is a
// configuration error: card definitions fail at load time, never at
// runtime.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid effect token %q: %s", e.Token, e.Reason)
}

func parseError(token, format string, args ...any) error {
	return &ParseError{Token: token, Reason: fmt.Sprintf(format, args...)}
}

// Parse turns a single colon-delimited effect token into a typed Effect.
//
// Grammar:
//
//	stat_boost:<stat>:<delta>[:<selector>]
//	set_tussle_cost:<n>
//	cost_per_sleeping:<n>
//	protect_all
//	protect_from:<op>
//	auto_win
//	on_sleep:<op...> | on_turn_start:<op...> | on_card_played:<op...>
//	activate:<cost>:<op...>
//	<one-shot op...>
//
// One-shot ops: gain_cc:<n>[:not_first_turn], unsleep:<n>, sleep_all,
// sleep_target, return_target, heal:<n>[:<selector>], copy_stats, steal.
func Parse(token string) (Effect, error) {
	parts := strings.Split(strings.TrimSpace(token), ":")
	if len(parts) == 0 || parts[0] == "" {
		return Effect{}, parseError(token, "empty token")
	}

	switch parts[0] {
	case string(OpStatBoost):
		if len(parts) < 3 || len(parts) > 4 {
			return Effect{}, parseError(token, "want stat_boost:<stat>:<delta>[:<selector>]")
		}
		stat := Stat(parts[1])
		if !ValidStat(stat) {
			return Effect{}, parseError(token, "unknown stat %q", parts[1])
		}
		delta, err := strconv.Atoi(parts[2])
		if err != nil {
			return Effect{}, parseError(token, "delta %q is not an integer", parts[2])
		}
		selector := SelectAllied
		if len(parts) == 4 {
			selector = Selector(parts[3])
			if !ValidSelector(selector) {
				return Effect{}, parseError(token, "unknown selector %q", parts[3])
			}
		}
		return Effect{Kind: KindContinuous, Op: Op{Code: OpStatBoost, Stat: stat, Amount: delta, Selector: selector}}, nil

	case string(OpSetTussleCost):
		n, err := parseCount(token, parts, 2)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: KindContinuous, Op: Op{Code: OpSetTussleCost, Amount: n}}, nil

	case string(OpCostPerSleeping):
		n, err := parseCount(token, parts, 2)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: KindContinuous, Op: Op{Code: OpCostPerSleeping, Amount: n}}, nil

	case string(OpProtectAll):
		if len(parts) != 1 {
			return Effect{}, parseError(token, "protect_all takes no arguments")
		}
		return Effect{Kind: KindContinuous, Op: Op{Code: OpProtectAll}}, nil

	case string(OpProtectFrom):
		if len(parts) != 2 {
			return Effect{}, parseError(token, "want protect_from:<op>")
		}
		blocked := OpCode(parts[1])
		if !knownOrigin(blocked) {
			return Effect{}, parseError(token, "unknown effect origin %q", parts[1])
		}
		return Effect{Kind: KindContinuous, Op: Op{Code: OpProtectFrom, Protected: blocked}}, nil

	case string(OpAutoWin):
		if len(parts) != 1 {
			return Effect{}, parseError(token, "auto_win takes no arguments")
		}
		return Effect{Kind: KindContinuous, Op: Op{Code: OpAutoWin}}, nil

	case string(TriggerOnSleep), string(TriggerOnTurnStart), string(TriggerOnCardPlayed):
		if len(parts) < 2 {
			return Effect{}, parseError(token, "trigger needs a payload op")
		}
		op, err := parseOneShotOp(token, parts[1:])
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: KindTriggered, Trigger: TriggerEvent(parts[0]), Op: op}, nil

	case "activate":
		if len(parts) < 3 {
			return Effect{}, parseError(token, "want activate:<cost>:<op...>")
		}
		cost, err := strconv.Atoi(parts[1])
		if err != nil || cost < 0 {
			return Effect{}, parseError(token, "activation cost %q is not a non-negative integer", parts[1])
		}
		op, err := parseOneShotOp(token, parts[2:])
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: KindActivated, ActivationCost: cost, Op: op}, nil
	}

	op, err := parseOneShotOp(token, parts)
	if err != nil {
		return Effect{}, err
	}
	return Effect{Kind: KindOneShot, Op: op}, nil
}

// ParseAll parses an ordered list of tokens, failing on the first bad one.
func ParseAll(tokens []string) ([]Effect, error) {
	parsed := make([]Effect, 0, len(tokens))
	for _, token := range tokens {
		eff, err := Parse(token)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, eff)
	}
	return parsed, nil
}

func parseOneShotOp(token string, parts []string) (Op, error) {
	switch parts[0] {
	case string(OpGainCC):
		if len(parts) < 2 || len(parts) > 3 {
			return Op{}, parseError(token, "want gain_cc:<n>[:not_first_turn]")
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n <= 0 {
			return Op{}, parseError(token, "amount %q is not a positive integer", parts[1])
		}
		cond := CondNone
		if len(parts) == 3 {
			if parts[2] != string(CondNotFirstTurn) {
				return Op{}, parseError(token, "unknown condition %q", parts[2])
			}
			cond = CondNotFirstTurn
		}
		return Op{Code: OpGainCC, Amount: n, Condition: cond}, nil

	case string(OpUnsleep):
		n, err := parseCount(token, parts, 2)
		if err != nil {
			return Op{}, err
		}
		if n <= 0 {
			return Op{}, parseError(token, "unsleep count must be positive")
		}
		return Op{Code: OpUnsleep, Amount: n}, nil

	case string(OpSleepAll):
		if len(parts) != 1 {
			return Op{}, parseError(token, "sleep_all takes no arguments")
		}
		return Op{Code: OpSleepAll}, nil

	case string(OpSleepTarget):
		if len(parts) != 1 {
			return Op{}, parseError(token, "sleep_target takes no arguments")
		}
		return Op{Code: OpSleepTarget}, nil

	case string(OpReturnTarget):
		if len(parts) != 1 {
			return Op{}, parseError(token, "return_target takes no arguments")
		}
		return Op{Code: OpReturnTarget}, nil

	case string(OpHeal):
		if len(parts) < 2 || len(parts) > 3 {
			return Op{}, parseError(token, "want heal:<n>[:<selector>]")
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n <= 0 {
			return Op{}, parseError(token, "amount %q is not a positive integer", parts[1])
		}
		selector := SelectAllied
		if len(parts) == 3 {
			selector = Selector(parts[2])
			if !ValidSelector(selector) {
				return Op{}, parseError(token, "unknown selector %q", parts[2])
			}
		}
		return Op{Code: OpHeal, Amount: n, Selector: selector}, nil

	case string(OpCopyStats):
		if len(parts) != 1 {
			return Op{}, parseError(token, "copy_stats takes no arguments")
		}
		return Op{Code: OpCopyStats}, nil

	case string(OpSteal):
		if len(parts) != 1 {
			return Op{}, parseError(token, "steal takes no arguments")
		}
		return Op{Code: OpSteal}, nil
	}

	return Op{}, parseError(token, "unknown op %q", parts[0])
}

func parseCount(token string, parts []string, want int) (int, error) {
	if len(parts) != want {
		return 0, parseError(token, "want %s with %d segments", parts[0], want)
	}
	n, err := strconv.Atoi(parts[want-1])
	if err != nil || n < 0 {
		return 0, parseError(token, "amount %q is not a non-negative integer", parts[want-1])
	}
	return n, nil
}

// knownOrigin lists op codes that protect_from may name.
func knownOrigin(code OpCode) bool {
	switch code {
	case OpStatBoost, OpSleepTarget, OpSleepAll, OpReturnTarget, OpSteal, OpAutoWin, OpHeal:
		return true
	}
	return false
}
