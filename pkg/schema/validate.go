package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Issue describes one schema problem found at save time.
type Issue struct {
	Page    int    `json:"page"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaError aggregates the issues that block a save.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "schema: invalid form"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
			continue
		}
		parts = append(parts, issue.Message)
	}
	return "schema: " + strings.Join(parts, "; ")
}

// Validate checks the model invariants the builder must uphold: known field
// types, options present on option-bearing fields (unless remotely sourced),
// unique names per page, parseable file size limits, and contiguous
// zero-based positions. A nil return means the form is safe to persist.
func (f Form) Validate() error {
	var issues []Issue
	for i, page := range f.Pages {
		issues = append(issues, validatePage(i, page)...)
	}
	if len(issues) == 0 {
		return nil
	}
	return &SchemaError{Issues: issues}
}

func validatePage(pageIndex int, page Page) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{
			Page:    pageIndex,
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	names := make(map[string]struct{}, len(page.Elements))
	positions := make([]int, 0, len(page.Elements))

	for _, field := range page.Elements {
		if !Known(field.Type) {
			add(field.Name, "unknown field type %q", field.Type)
		}
		if NeedsOptions(field.Type) && len(field.Options) == 0 && field.OptionSource == nil {
			add(field.Name, "field type %q requires options", field.Type)
		}
		if field.FileSizeLimit != "" {
			if _, err := ParseFileSize(field.FileSizeLimit); err != nil {
				add(field.Name, "invalid file size limit %q", field.FileSizeLimit)
			}
		}
		if IsInput(field.Type) {
			if field.Name == "" {
				add(field.ID, "field is missing a name")
			} else if _, dup := names[field.Name]; dup {
				add(field.Name, "duplicate field name")
			} else {
				names[field.Name] = struct{}{}
			}
		}
		positions = append(positions, field.Position)
	}

	if !contiguous(positions) {
		add("", "positions are not a contiguous zero-based sequence")
	}
	return issues
}

// contiguous reports whether positions are a permutation of 0..N-1.
func contiguous(positions []int) bool {
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	for i, p := range sorted {
		if p != i {
			return false
		}
	}
	return true
}
