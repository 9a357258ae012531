package conditional

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/internal/logger"
)

// Eval parses and evaluates an expression against the current form values.
// It is fail-closed: a broken expression or an unresolved reference yields
// false (logged, never surfaced to the filler).
func Eval(expr string, values map[string]any) bool {
	cmp, err := Parse(expr)
	if err != nil {
		logger.L.Warn("conditional expression ignored", "expr", expr, "error", err)
		return false
	}
	return cmp.Eval(values)
}

// Eval evaluates the comparison against the current form values. A missing
// or non-scalar operand on either side makes the whole expression false.
func (c Comparison) Eval(values map[string]any) bool {
	left, ok := resolve(c.Left, values)
	if !ok {
		return false
	}
	right, ok := resolve(c.Right, values)
	if !ok {
		return false
	}
	return compare(left, c.Op, right)
}

// scalar is a resolved operand value: a string or a number.
type scalar struct {
	str      string
	num      float64
	isNumber bool
}

func resolve(op Operand, values map[string]any) (scalar, bool) {
	switch op.kind {
	case operandString:
		return scalar{str: op.str}, true
	case operandNumber:
		return scalar{num: op.num, isNumber: true}, true
	case operandField:
		raw, ok := values[op.field]
		if !ok || raw == nil {
			return scalar{}, false
		}
		return coerceScalar(raw)
	default:
		return scalar{}, false
	}
}

func coerceScalar(raw any) (scalar, bool) {
	switch v := raw.(type) {
	case string:
		return scalar{str: v}, true
	case bool:
		return scalar{str: strconv.FormatBool(v)}, true
	case int:
		return scalar{num: float64(v), isNumber: true}, true
	case int32:
		return scalar{num: float64(v), isNumber: true}, true
	case int64:
		return scalar{num: float64(v), isNumber: true}, true
	case float32:
		return scalar{num: float64(v), isNumber: true}, true
	case float64:
		return scalar{num: v, isNumber: true}, true
	case fmt.Stringer:
		return scalar{str: v.String()}, true
	default:
		// Arrays, maps, files: not comparable, fail closed.
		return scalar{}, false
	}
}

func compare(left scalar, op Op, right scalar) bool {
	// Time-of-day ordering wins when both sides look like HH:MM.
	if lm, lok := clockMinutes(left); lok {
		if rm, rok := clockMinutes(right); rok {
			return applyOrder(float64(lm), op, float64(rm))
		}
	}

	if ln, lok := numeric(left); lok {
		if rn, rok := numeric(right); rok {
			return applyOrder(ln, op, rn)
		}
	}
	if left.isNumber || right.isNumber {
		// A number on one side and a non-numeric string on the other is not
		// comparable; fail closed.
		return false
	}

	ls, rs := left.text(), right.text()
	switch op {
	case OpEQ:
		return ls == rs
	case OpNE:
		return ls != rs
	case OpLT:
		return ls < rs
	case OpGT:
		return ls > rs
	case OpLE:
		return ls <= rs
	case OpGE:
		return ls >= rs
	default:
		return false
	}
}

func applyOrder(left float64, op Op, right float64) bool {
	switch op {
	case OpLT:
		return left < right
	case OpGT:
		return left > right
	case OpLE:
		return left <= right
	case OpGE:
		return left >= right
	case OpEQ:
		return left == right
	case OpNE:
		return left != right
	default:
		return false
	}
}

func (s scalar) text() string {
	if s.isNumber {
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	}
	return s.str
}

func numeric(s scalar) (float64, bool) {
	if s.isNumber {
		return s.num, true
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s.str), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func clockMinutes(s scalar) (int, bool) {
	if s.isNumber {
		return 0, false
	}
	return parseClock(s.str)
}

// parseClock interprets HH:MM (24h) strings, returning minutes since
// midnight.
func parseClock(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 4 || len(trimmed) > 5 {
		return 0, false
	}
	idx := strings.IndexByte(trimmed, ':')
	if idx < 1 || idx > 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(trimmed[:idx])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 || len(trimmed[idx+1:]) != 2 {
		return 0, false
	}
	return hours*60 + mins, true
}
