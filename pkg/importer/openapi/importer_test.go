package openapi

import (
	"context"
	"testing"

	"github.com/goliatone/go-formflow/pkg/schema"
)

const registrationDoc = `
openapi: 3.0.3
info:
  title: Registration API
  version: "1.0"
paths:
  /registrations:
    post:
      operationId: createRegistration
      summary: Register an attendee
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [full_name, email]
              properties:
                full_name:
                  type: string
                  minLength: 2
                  maxLength: 120
                email:
                  type: string
                  format: email
                guests:
                  type: integer
                city:
                  type: string
                  enum: [pune, mumbai, delhi]
                newsletter:
                  type: boolean
                website:
                  type: string
                  format: uri
                ticket_code:
                  type: string
                  pattern: "^TKT-[0-9]{6}$"
      responses:
        "201":
          description: created
`

func TestFormFromOperation(t *testing.T) {
	t.Parallel()

	form, err := New().FormFromOperation(context.Background(), []byte(registrationDoc), "createRegistration")
	if err != nil {
		t.Fatalf("FormFromOperation: %v", err)
	}
	if form.Title != "Register an attendee" {
		t.Fatalf("unexpected title %q", form.Title)
	}
	if len(form.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(form.Pages))
	}

	byName := make(map[string]schema.Field)
	for i, field := range form.Pages[0].Elements {
		if field.Position != i {
			t.Fatalf("positions not contiguous: %+v", field)
		}
		if field.ID == "" {
			t.Fatalf("field %q has no id", field.Name)
		}
		byName[field.Name] = field
	}

	checks := []struct {
		name     string
		want     schema.FieldType
		required bool
	}{
		{"full_name", schema.TypeText, true},
		{"email", schema.TypeEmail, true},
		{"guests", schema.TypeNumber, false},
		{"city", schema.TypeSelect, false},
		{"newsletter", schema.TypeToggle, false},
		{"website", schema.TypeURL, false},
		{"ticket_code", schema.TypeText, false},
	}
	for _, check := range checks {
		field, ok := byName[check.name]
		if !ok {
			t.Fatalf("missing field %q", check.name)
		}
		if field.Type != check.want {
			t.Fatalf("%s: got type %s, want %s", check.name, field.Type, check.want)
		}
		if field.IsRequired != check.required {
			t.Fatalf("%s: required = %v", check.name, field.IsRequired)
		}
		if !field.NameOverridden {
			t.Fatalf("%s: imported names must be pinned", check.name)
		}
	}

	if got := byName["city"].Options.Values(); len(got) != 3 || got[0] != "pune" {
		t.Fatalf("city options wrong: %v", byName["city"].Options)
	}
	fullName := byName["full_name"]
	if fullName.MinLength == nil || *fullName.MinLength != 2 || fullName.MaxLength == nil || *fullName.MaxLength != 120 {
		t.Fatalf("length bounds not imported: %+v", fullName)
	}
	if len(byName["ticket_code"].Validators) != 1 || byName["ticket_code"].Validators[0].Regex != "^TKT-[0-9]{6}$" {
		t.Fatalf("pattern not imported: %+v", byName["ticket_code"].Validators)
	}
	if byName["full_name"].Title != "Full Name" {
		t.Fatalf("title not derived: %q", byName["full_name"].Title)
	}
}

func TestFormFromOperationErrors(t *testing.T) {
	t.Parallel()

	imp := New()
	if _, err := imp.FormFromOperation(context.Background(), nil, "x"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := imp.FormFromOperation(context.Background(), []byte(registrationDoc), "nope"); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
	if _, err := imp.FormFromOperation(context.Background(), []byte("]["), "x"); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}
