package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option is the single canonical shape for a selectable choice. Persisted
// documents and remote option services deliver options in several duck-typed
// shapes (bare strings, JSON-encoded strings, objects); normalization happens
// here so nothing deeper in the pipeline branches on shape.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// OptionList is an ordered option sequence with shape-tolerant decoding.
type OptionList []Option

// NormalizeOption coerces any supported raw shape into an Option. Supported
// shapes: Option, map with label/value keys, bare string (label; value
// derived), and JSON-encoded strings of either. Returns false for shapes it
// cannot interpret.
func NormalizeOption(raw any) (Option, bool) {
	switch v := raw.(type) {
	case Option:
		return fillValue(v), true
	case *Option:
		if v == nil {
			return Option{}, false
		}
		return fillValue(*v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return Option{}, false
		}
		if strings.HasPrefix(trimmed, "{") {
			var opt Option
			if err := json.Unmarshal([]byte(trimmed), &opt); err == nil && opt.Label+opt.Value != "" {
				return fillValue(opt), true
			}
		}
		return fillValue(Option{Label: trimmed}), true
	case map[string]any:
		opt := Option{
			Label: stringAt(v, "label", "text", "name"),
			Value: stringAt(v, "value", "id"),
		}
		if opt.Label == "" && opt.Value == "" {
			return Option{}, false
		}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		return fillValue(opt), true
	case map[string]string:
		anyMap := make(map[string]any, len(v))
		for k, val := range v {
			anyMap[k] = val
		}
		return NormalizeOption(anyMap)
	default:
		return Option{}, false
	}
}

// NormalizeOptions maps NormalizeOption over a heterogeneous slice, dropping
// entries that cannot be interpreted.
func NormalizeOptions(raw []any) OptionList {
	if len(raw) == 0 {
		return nil
	}
	out := make(OptionList, 0, len(raw))
	for _, item := range raw {
		if opt, ok := NormalizeOption(item); ok {
			out = append(out, opt)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UnmarshalJSON accepts both `{"label":..,"value":..}` objects and bare
// strings.
func (o *Option) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		opt, ok := NormalizeOption(asString)
		if !ok {
			return fmt.Errorf("schema: empty option %q", asString)
		}
		*o = opt
		return nil
	}

	type plain Option
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("schema: decode option: %w", err)
	}
	*o = fillValue(Option(decoded))
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		opt, ok := NormalizeOption(node.Value)
		if !ok {
			return fmt.Errorf("schema: empty option %q", node.Value)
		}
		*o = opt
		return nil
	}

	type plain Option
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return fmt.Errorf("schema: decode option: %w", err)
	}
	*o = fillValue(Option(decoded))
	return nil
}

// Values returns the option values in order.
func (l OptionList) Values() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, opt := range l {
		out = append(out, opt.Value)
	}
	return out
}

// Contains reports whether any option carries the given value.
func (l OptionList) Contains(value string) bool {
	for _, opt := range l {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// fillValue derives a missing Value from the Label using the same slug
// transform field names use.
func fillValue(opt Option) Option {
	opt.Label = strings.TrimSpace(opt.Label)
	opt.Value = strings.TrimSpace(opt.Value)
	if opt.Value == "" {
		opt.Value = DeriveName(opt.Label)
	}
	if opt.Label == "" {
		opt.Label = opt.Value
	}
	return opt
}

func stringAt(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := m[key]; ok {
			switch v := raw.(type) {
			case string:
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					return trimmed
				}
			case fmt.Stringer:
				return v.String()
			case float64, int, int64, bool:
				return fmt.Sprint(v)
			}
		}
	}
	return ""
}
