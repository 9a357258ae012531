package compile

import (
	"fmt"
	"strings"
)

// Kind labels the machine-readable category of a violation.
type Kind string

const (
	KindRequired  Kind = "required"
	KindType      Kind = "type"
	KindFormat    Kind = "format"
	KindPattern   Kind = "pattern"
	KindMinLength Kind = "minLength"
	KindMaxLength Kind = "maxLength"
	KindFileType  Kind = "fileType"
	KindFileSize  Kind = "fileSize"
	KindCustom    Kind = "custom"
)

// Violation is one failed rule for one field.
type Violation struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Check inspects a non-empty value and reports a violation, or nil.
type Check func(value any) *Violation

// FieldRules is the compiled validator for one field.
type FieldRules struct {
	name        string
	kind        ValueKind
	required    bool
	requiredMsg string
	checks      []Check
}

// Required reports the field's static isRequired flag. Dynamic requiredIf
// rules are the interpreter's responsibility.
func (r *FieldRules) Required() bool {
	return r.required
}

// Kind reports the field's value classification.
func (r *FieldRules) Kind() ValueKind {
	return r.kind
}

// Validate runs the field's rules against a value. The required argument is
// the effective requiredness for this fill (static flag possibly forced on
// by a requiredIf rule). Empty values only ever fail the required rule;
// the remaining checks run on present values.
func (r *FieldRules) Validate(value any, required bool) []Violation {
	if isEmpty(value, r.kind) {
		if required {
			return []Violation{{Field: r.name, Kind: KindRequired, Message: r.requiredMessage()}}
		}
		return nil
	}

	var out []Violation
	for _, check := range r.checks {
		if v := check(value); v != nil {
			violation := *v
			violation.Field = r.name
			out = append(out, violation)
		}
	}
	return out
}

func (r *FieldRules) requiredMessage() string {
	if r.requiredMsg != "" {
		return r.requiredMsg
	}
	return "this field is required"
}

// Ruleset maps field names to their compiled rules, preserving field order.
type Ruleset struct {
	order []string
	rules map[string]*FieldRules
}

// Names returns field names in schema order.
func (rs *Ruleset) Names() []string {
	return append([]string(nil), rs.order...)
}

// Field returns the rules for a field name.
func (rs *Ruleset) Field(name string) (*FieldRules, bool) {
	rules, ok := rs.rules[name]
	return rules, ok
}

// Validate runs one field's rules; unknown names validate clean.
func (rs *Ruleset) Validate(name string, value any, required bool) []Violation {
	rules, ok := rs.rules[name]
	if !ok {
		return nil
	}
	return rules.Validate(value, required)
}

// isEmpty decides whether a value counts as "not provided" for the required
// rule. Boolean fields use false, multi-value fields use the empty list, and
// file fields use the empty handle; everything else is the blank string.
func isEmpty(value any, kind ValueKind) bool {
	if value == nil {
		return true
	}
	switch kind {
	case KindBoolean:
		b, ok := value.(bool)
		return !ok || !b
	case KindMulti:
		return multiLen(value) == 0
	case KindFile:
		return fileOf(value) == nil
	default:
		s, ok := value.(string)
		if ok {
			return strings.TrimSpace(s) == ""
		}
		return false
	}
}

func multiLen(value any) int {
	switch v := value.(type) {
	case []string:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}
