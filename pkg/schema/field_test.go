package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeriveName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  string
	}{
		{"Full Name", "full_name"},
		{"  Email Address  ", "email_address"},
		{"What's your T-shirt size?", "what_s_your_t_shirt_size"},
		{"--already--slugged--", "already_slugged"},
		{"征件表格", ""},
		{"Session #2 (PM)", "session_2_pm"},
	}

	for _, tc := range cases {
		if got := DeriveName(tc.title); got != tc.want {
			t.Fatalf("DeriveName(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestDeriveNameIdempotent(t *testing.T) {
	t.Parallel()

	titles := []string{
		"Full Name",
		"full_name",
		"  spaced   out  ",
		"MIXED-case_Title!!",
		"",
	}
	for _, title := range titles {
		once := DeriveName(title)
		if twice := DeriveName(once); twice != once {
			t.Fatalf("DeriveName not idempotent for %q: %q != %q", title, twice, once)
		}
	}
}

func TestNewFieldDefaults(t *testing.T) {
	t.Parallel()

	sel := NewField(TypeSelect)
	if sel.ID == "" {
		t.Fatalf("expected generated id")
	}
	if sel.Options == nil {
		t.Fatalf("option-bearing field should start with an empty option list")
	}
	if len(sel.Options) != 0 {
		t.Fatalf("expected no options, got %d", len(sel.Options))
	}

	text := NewField(TypeText)
	if text.Options != nil {
		t.Fatalf("text field should not carry options")
	}
	if text.ID == sel.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestNormalizePositions(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{ID: "c", Position: 7},
		{ID: "a", Position: -1},
		{ID: "b", Position: 3},
	}
	NormalizePositions(fields)

	got := make([]string, 0, len(fields))
	for i, f := range fields {
		if f.Position != i {
			t.Fatalf("position %d not contiguous: got %d", i, f.Position)
		}
		got = append(got, f.ID)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalAliases(t *testing.T) {
	t.Parallel()

	if got := Canonical(TypePhone); got != TypeTel {
		t.Fatalf("phone should resolve to tel, got %q", got)
	}
	if got := Canonical(TypeCountry); got != TypeSelect {
		t.Fatalf("country should resolve to select, got %q", got)
	}
	if got := Canonical(TypeEmail); got != TypeEmail {
		t.Fatalf("base types pass through, got %q", got)
	}
	if !NeedsOptions(TypeCountry) {
		t.Fatalf("country inherits select's option requirement")
	}
}
