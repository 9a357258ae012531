package session

import (
	"github.com/goliatone/go-formflow/internal/logger"
	"github.com/goliatone/go-formflow/pkg/conditional"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// FieldState is the live conditional state of one field for this fill.
type FieldState struct {
	// Visible=false excludes the field from rendering, validation, and the
	// submission payload.
	Visible bool
	// Enabled=false keeps the field rendered but read-only and un-validated;
	// its last known value still submits.
	Enabled bool
	// Required is the static isRequired flag possibly forced on by a
	// requiredIf rule.
	Required bool
}

// boundRule is one conditional rule compiled at session start. Rules that
// fail to parse stay bound with parsed=false and evaluate to false, which
// hides/disables/un-requires the field rather than crashing the fill.
type boundRule struct {
	kind   schema.RuleKind
	cmp    conditional.Comparison
	parsed bool
}

func (r boundRule) eval(values map[string]any) bool {
	if !r.parsed {
		return false
	}
	return r.cmp.Eval(values)
}

// bindRules compiles every field's conditional expressions and builds the
// reverse dependency index (changed field -> fields to re-evaluate).
func bindRules(fields []schema.Field) (map[string][]boundRule, map[string][]string) {
	rules := make(map[string][]boundRule)
	deps := make(map[string][]string)

	for _, field := range fields {
		if len(field.Rules) == 0 {
			continue
		}
		for _, rule := range field.Rules {
			bound := boundRule{kind: rule.Kind}
			cmp, err := conditional.Parse(rule.Expression)
			if err != nil {
				logger.L.Warn("conditional rule disabled",
					"field", field.Name, "kind", string(rule.Kind), "error", err)
			} else {
				bound.cmp = cmp
				bound.parsed = true
				for _, dep := range cmp.Fields() {
					deps[dep] = append(deps[dep], field.Name)
				}
			}
			rules[field.Name] = append(rules[field.Name], bound)
		}
	}
	return rules, deps
}

// evalFieldState computes a field's live state from its bound rules and the
// current values. Fields without rules are visible, enabled, and follow
// their static requiredness.
func evalFieldState(field schema.Field, bound []boundRule, values map[string]any) FieldState {
	state := FieldState{Visible: true, Enabled: true, Required: field.IsRequired}
	for _, rule := range bound {
		switch rule.kind {
		case schema.RuleVisibleIf:
			if !rule.eval(values) {
				state.Visible = false
			}
		case schema.RuleEnableIf:
			if !rule.eval(values) {
				state.Enabled = false
			}
		case schema.RuleRequiredIf:
			if rule.eval(values) {
				state.Required = true
			}
		}
	}
	return state
}
