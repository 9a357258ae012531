package compile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func intPtr(v int) *int { return &v }

func TestInitialValuesByKind(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Type: schema.TypeText, Name: "name", Position: 0},
		{Type: schema.TypeCheckbox, Name: "terms", Position: 1,
			Options: schema.OptionList{{Label: "I agree", Value: "yes"}}},
		{Type: schema.TypeCheckbox, Name: "days", Position: 2,
			Options: schema.OptionList{{Value: "mon"}, {Value: "tue"}, {Value: "wed"}}},
		{Type: schema.TypeMultiselect, Name: "tracks", Position: 3,
			Options: schema.OptionList{{Value: "go"}, {Value: "rust"}}},
		{Type: schema.TypeHeading, Name: "ignored", Position: 4},
	}

	got := Compile(fields).InitialValues()
	want := map[string]any{
		"name":   "",
		"terms":  false,
		"days":   []string{},
		"tracks": []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleOptionCheckboxRequiresTrue(t *testing.T) {
	t.Parallel()

	compiled := Compile([]schema.Field{{
		Type: schema.TypeCheckbox, Name: "terms", IsRequired: true,
		Options: schema.OptionList{{Label: "I agree", Value: "yes"}},
	}})
	ruleset := compiled.Ruleset()

	if violations := ruleset.Validate("terms", false, true); len(violations) != 1 {
		t.Fatalf("false should fail the boolean required rule, got %v", violations)
	} else if violations[0].Kind != KindRequired {
		t.Fatalf("expected required kind, got %q", violations[0].Kind)
	}
	if violations := ruleset.Validate("terms", true, true); len(violations) != 0 {
		t.Fatalf("true should pass, got %v", violations)
	}
}

func TestMultiOptionCheckboxRequiresSelection(t *testing.T) {
	t.Parallel()

	compiled := Compile([]schema.Field{{
		Type: schema.TypeCheckbox, Name: "days", IsRequired: true,
		Options: schema.OptionList{{Value: "mon"}, {Value: "tue"}, {Value: "wed"}},
	}})
	ruleset := compiled.Ruleset()

	if violations := ruleset.Validate("days", []string{}, true); len(violations) != 1 {
		t.Fatalf("empty selection should fail, got %v", violations)
	}
	if violations := ruleset.Validate("days", []string{"mon"}, true); len(violations) != 0 {
		t.Fatalf("one selection should pass, got %v", violations)
	}
}

func TestEmailFormat(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{{
		Type: schema.TypeEmail, Name: "email", IsRequired: true,
	}}).Ruleset()

	if violations := ruleset.Validate("email", "", true); len(violations) != 1 || violations[0].Kind != KindRequired {
		t.Fatalf("empty required email should fail required, got %v", violations)
	}
	if violations := ruleset.Validate("email", "not-an-email", true); len(violations) != 1 || violations[0].Kind != KindFormat {
		t.Fatalf("malformed email should fail format, got %v", violations)
	}
	if violations := ruleset.Validate("email", "a@b.com", true); len(violations) != 0 {
		t.Fatalf("valid email should pass, got %v", violations)
	}
}

func TestNumberCoercion(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{{
		Type: schema.TypeNumber, Name: "guests",
	}}).Ruleset()

	if violations := ruleset.Validate("guests", "abc", false); len(violations) != 1 || violations[0].Kind != KindType {
		t.Fatalf("non-numeric should produce a type violation, got %v", violations)
	}
	for _, value := range []any{"2", 2, 2.5} {
		if violations := ruleset.Validate("guests", value, false); len(violations) != 0 {
			t.Fatalf("%v should coerce cleanly, got %v", value, violations)
		}
	}
}

func TestTelPattern(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{{
		Type: schema.TypePhone, Name: "phone",
	}}).Ruleset()

	if violations := ruleset.Validate("phone", "+91 (22) 1234-5678", false); len(violations) != 0 {
		t.Fatalf("valid phone should pass, got %v", violations)
	}
	if violations := ruleset.Validate("phone", "call me", false); len(violations) != 1 || violations[0].Kind != KindFormat {
		t.Fatalf("letters should fail the tel pattern, got %v", violations)
	}
}

func TestURLFormat(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{{
		Type: schema.TypeURL, Name: "site",
	}}).Ruleset()

	if violations := ruleset.Validate("site", "https://example.com/x", false); len(violations) != 0 {
		t.Fatalf("valid url should pass, got %v", violations)
	}
	if violations := ruleset.Validate("site", "nope", false); len(violations) != 1 || violations[0].Kind != KindFormat {
		t.Fatalf("bare word should fail url format, got %v", violations)
	}
}

func TestLengthBoundsOnlyOnStrings(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{
		{Type: schema.TypeText, Name: "bio", MinLength: intPtr(3), MaxLength: intPtr(5)},
		{Type: schema.TypeNumber, Name: "score", MinLength: intPtr(3)},
	}).Ruleset()

	if violations := ruleset.Validate("bio", "ab", false); len(violations) != 1 || violations[0].Kind != KindMinLength {
		t.Fatalf("short string should fail minLength, got %v", violations)
	}
	if violations := ruleset.Validate("bio", "abcdef", false); len(violations) != 1 || violations[0].Kind != KindMaxLength {
		t.Fatalf("long string should fail maxLength, got %v", violations)
	}
	if violations := ruleset.Validate("bio", "abcd", false); len(violations) != 0 {
		t.Fatalf("in-bounds string should pass, got %v", violations)
	}
	// Numeric fields never get length checks.
	if violations := ruleset.Validate("score", "7", false); len(violations) != 0 {
		t.Fatalf("length bounds must not apply to numeric types, got %v", violations)
	}
}

func TestFileConstraints(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{{
		Type: schema.TypeFile, Name: "resume", IsRequired: true,
		FileTypes: []string{"pdf", "docx"}, FileSizeLimit: "1MB",
	}}).Ruleset()

	if violations := ruleset.Validate("resume", schema.File{}, true); len(violations) != 1 || violations[0].Kind != KindRequired {
		t.Fatalf("empty handle should fail required, got %v", violations)
	}

	bad := schema.File{Name: "resume.exe", Size: 100}
	if violations := ruleset.Validate("resume", bad, true); len(violations) == 0 || violations[0].Kind != KindFileType {
		t.Fatalf("exe should fail with a fileType violation, got %v", violations)
	}

	big := schema.File{Name: "resume.pdf", Size: 2 << 20}
	if violations := ruleset.Validate("resume", big, true); len(violations) != 1 || violations[0].Kind != KindFileSize {
		t.Fatalf("2MB should fail with a fileSize violation, got %v", violations)
	}

	good := schema.File{Name: "Resume.PDF", Size: 500 << 10}
	if violations := ruleset.Validate("resume", good, true); len(violations) != 0 {
		t.Fatalf("valid file should pass (extension match is case-insensitive), got %v", violations)
	}
}

func TestCustomValidators(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{{
		Type: schema.TypeText, Name: "code",
		Validators: []schema.CustomValidator{
			{Regex: `^[A-Z]{3}-\d{4}$`, Text: "use the AAA-0000 format"},
			{Regex: `([`, Text: "never compiled"},
		},
	}}).Ruleset()

	violations := ruleset.Validate("code", "nope", false)
	if len(violations) != 1 {
		t.Fatalf("the malformed regex must be skipped, not fail: %v", violations)
	}
	if violations[0].Kind != KindCustom || violations[0].Message != "use the AAA-0000 format" {
		t.Fatalf("unexpected violation: %+v", violations[0])
	}
	if violations := ruleset.Validate("code", "ABC-1234", false); len(violations) != 0 {
		t.Fatalf("matching value should pass, got %v", violations)
	}
}

func TestRulesetOrderAndLookup(t *testing.T) {
	t.Parallel()

	ruleset := Compile([]schema.Field{
		{Type: schema.TypeText, Name: "b"},
		{Type: schema.TypeText, Name: "a"},
	}).Ruleset()

	if diff := cmp.Diff([]string{"b", "a"}, ruleset.Names()); diff != "" {
		t.Fatalf("ruleset should preserve schema order (-want +got):\n%s", diff)
	}
	if _, ok := ruleset.Field("a"); !ok {
		t.Fatalf("lookup failed")
	}
	if violations := ruleset.Validate("unknown", "x", true); violations != nil {
		t.Fatalf("unknown fields validate clean, got %v", violations)
	}
}
