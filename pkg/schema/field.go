package schema

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NewField constructs a field of the given type with type-appropriate
// defaults: a fresh ID, an empty (non-nil) option list for option-bearing
// types, and nothing else. Callers assign Title/Name/Position.
func NewField(t FieldType) Field {
	field := Field{
		ID:   uuid.NewString(),
		Type: t,
	}
	if NeedsOptions(t) {
		field.Options = OptionList{}
	}
	return field
}

// DeriveName turns a human title into the machine key used in submission
// payloads: lowercase, runs of non-alphanumeric characters collapse to a
// single underscore, leading/trailing underscores stripped. The transform is
// pure and idempotent.
func DeriveName(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizePositions re-sorts fields by their current Position (stable, so
// ties keep insertion order) and reassigns contiguous zero-based positions.
// It returns the same slice for convenience.
func NormalizePositions(fields []Field) []Field {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Position < fields[j].Position
	})
	for i := range fields {
		fields[i].Position = i
	}
	return fields
}
