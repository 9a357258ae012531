// Package conditional parses and evaluates the small templated expressions
// fields use for visibleIf/enableIf/requiredIf logic, e.g.
// `{country} == "India"` or `{openTime} < {closeTime}`.
//
// Expressions compile once into a Comparison AST; evaluation is fail-closed:
// unresolved references, parse failures, and non-comparable operands all
// yield false rather than an error surfaced to the filler.
package conditional

// Op enumerates the supported comparison operators.
type Op string

const (
	OpLT Op = "<"
	OpGT Op = ">"
	OpLE Op = "<="
	OpGE Op = ">="
	OpEQ Op = "=="
	OpNE Op = "!="
)

type operandKind int

const (
	operandField operandKind = iota
	operandString
	operandNumber
)

// Operand is one side of a comparison: a `{field}` reference, a quoted string
// literal, or a numeric literal.
type Operand struct {
	kind  operandKind
	field string
	str   string
	num   float64
}

// FieldOperand references another field's current value.
func FieldOperand(name string) Operand {
	return Operand{kind: operandField, field: name}
}

// StringOperand wraps a literal string.
func StringOperand(value string) Operand {
	return Operand{kind: operandString, str: value}
}

// NumberOperand wraps a literal number.
func NumberOperand(value float64) Operand {
	return Operand{kind: operandNumber, num: value}
}

// FieldRef returns the referenced field name, if any.
func (o Operand) FieldRef() (string, bool) {
	if o.kind == operandField {
		return o.field, true
	}
	return "", false
}

// Comparison is the parsed form of one conditional expression.
type Comparison struct {
	Left  Operand
	Op    Op
	Right Operand
}

// Fields returns the field names the comparison reads, in left-to-right
// order. The interpreter uses this to re-evaluate only the rules whose
// dependencies changed.
func (c Comparison) Fields() []string {
	var out []string
	if name, ok := c.Left.FieldRef(); ok {
		out = append(out, name)
	}
	if name, ok := c.Right.FieldRef(); ok {
		out = append(out, name)
	}
	return out
}
