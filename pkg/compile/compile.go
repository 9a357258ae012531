// Package compile turns an ordered field list into the two artifacts the
// fill-time interpreter needs: an initial-values map and a validation
// ruleset. Compilation is pure apart from logging skipped validators;
// compiling the same fields twice yields behaviourally identical rulesets.
package compile

import (
	"github.com/goliatone/go-formflow/pkg/schema"
)

// ValueKind classifies how a field's value is shaped at fill time.
type ValueKind int

const (
	// KindString covers every text-like input.
	KindString ValueKind = iota
	// KindBoolean covers toggles and single-option checkboxes.
	KindBoolean
	// KindMulti covers multiselects and multi-option checkboxes.
	KindMulti
	// KindFile covers file uploads.
	KindFile
	// KindNumeric covers number, rating, and range inputs.
	KindNumeric
)

// Compiled bundles the initial values and the ruleset for one schema
// snapshot. Sessions hold their own Compiled and never share it.
type Compiled struct {
	ruleset *Ruleset
	initial map[string]any
}

// Compile flattens type, constraint, and custom-validator information into a
// ruleset keyed by field name. Display-only fields (heading, paragraph,
// divider) are skipped entirely. requiredIf conditional rules are NOT
// compiled here; the interpreter layers them on at fill time.
func Compile(fields []schema.Field) Compiled {
	ruleset := &Ruleset{rules: make(map[string]*FieldRules, len(fields))}
	initial := make(map[string]any, len(fields))

	for _, field := range fields {
		if !schema.IsInput(field.Type) || field.Name == "" {
			continue
		}
		if _, dup := ruleset.rules[field.Name]; dup {
			continue
		}

		rules := compileField(field)
		ruleset.order = append(ruleset.order, field.Name)
		ruleset.rules[field.Name] = rules
		initial[field.Name] = initialValue(rules.kind)
	}

	return Compiled{ruleset: ruleset, initial: initial}
}

// InitialValues returns a fresh copy of the initial-values map: empty slices
// for multi-value fields, false for boolean fields, "" otherwise.
func (c Compiled) InitialValues() map[string]any {
	out := make(map[string]any, len(c.initial))
	for name, value := range c.initial {
		out[name] = value
	}
	return out
}

// Ruleset exposes the compiled validation rules.
func (c Compiled) Ruleset() *Ruleset {
	return c.ruleset
}

func initialValue(kind ValueKind) any {
	switch kind {
	case KindMulti:
		return []string{}
	case KindBoolean:
		return false
	default:
		return ""
	}
}

// valueKindOf classifies a field after alias resolution. A checkbox with a
// single option acts as a boolean toggle; with more it collects a value list.
func valueKindOf(field schema.Field) ValueKind {
	switch schema.Canonical(field.Type) {
	case schema.TypeMultiselect:
		return KindMulti
	case schema.TypeCheckbox:
		if len(field.Options) == 1 {
			return KindBoolean
		}
		return KindMulti
	case schema.TypeToggle:
		return KindBoolean
	case schema.TypeFile:
		return KindFile
	case schema.TypeNumber, schema.TypeRating, schema.TypeRange:
		return KindNumeric
	default:
		return KindString
	}
}
