package builder

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func seedBuilder(t *testing.T, types ...schema.FieldType) (*Builder, []string) {
	t.Helper()
	b := New(schema.Form{Title: "Registration"})
	ids := make([]string, 0, len(types))
	for _, fieldType := range types {
		field, err := b.AddField(0, fieldType)
		if err != nil {
			t.Fatalf("AddField(%s): %v", fieldType, err)
		}
		ids = append(ids, field.ID)
	}
	return b, ids
}

func assertContiguous(t *testing.T, page schema.Page) {
	t.Helper()
	positions := make([]int, len(page.Elements))
	for i, field := range page.Elements {
		positions[i] = field.Position
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	for i, p := range sorted {
		if p != i {
			t.Fatalf("positions not contiguous: %v", positions)
		}
	}
}

func TestAddFieldAppendsWithContiguousPositions(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText, schema.TypeEmail, schema.TypeSelect)
	page := b.Form().Pages[0]

	if len(page.Elements) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(page.Elements))
	}
	assertContiguous(t, page)
	for i, field := range page.Elements {
		if field.ID != ids[i] {
			t.Fatalf("field %d lost its identity", i)
		}
		if field.Position != i {
			t.Fatalf("field %d has position %d", i, field.Position)
		}
	}
}

func TestInsertFieldAtShiftsLaterFields(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText, schema.TypeEmail)
	inserted, err := b.InsertFieldAt(0, 1, schema.TypeNumber)
	if err != nil {
		t.Fatalf("InsertFieldAt: %v", err)
	}

	page := b.Form().Pages[0]
	got := []string{page.Elements[0].ID, page.Elements[1].ID, page.Elements[2].ID}
	want := []string{ids[0], inserted.ID, ids[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	assertContiguous(t, page)
}

func TestInsertFieldRejectsUnknownType(t *testing.T) {
	t.Parallel()

	b := New(schema.Form{})
	if _, err := b.AddField(0, schema.FieldType("hologram")); err == nil {
		t.Fatalf("expected an error for an unknown type")
	}
}

func TestReorderPreservesIdentity(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText, schema.TypeEmail, schema.TypeNumber, schema.TypeDate)
	if err := b.Reorder(0, 2, 0); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	page := b.Form().Pages[0]
	got := make([]string, len(page.Elements))
	for i, field := range page.Elements {
		got[i] = field.ID
	}
	want := []string{ids[2], ids[0], ids[1], ids[3]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	assertContiguous(t, page)
	for i, field := range page.Elements {
		if field.Position != i {
			t.Fatalf("position %d not renumbered: %d", i, field.Position)
		}
	}
}

func TestReorderByID(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText, schema.TypeEmail, schema.TypeNumber)
	if err := b.ReorderByID(ids[2], ids[0]); err != nil {
		t.Fatalf("ReorderByID: %v", err)
	}

	page := b.Form().Pages[0]
	if page.Elements[0].ID != ids[2] {
		t.Fatalf("active field did not land at the over slot")
	}
	assertContiguous(t, page)

	if err := b.ReorderByID("missing", ids[0]); err == nil {
		t.Fatalf("expected error for unknown active id")
	}
	if err := b.ReorderByID(ids[0], ids[0]); err != nil {
		t.Fatalf("self-drop should be a no-op, got %v", err)
	}
}

func TestRemoveFieldRenumbers(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText, schema.TypeEmail, schema.TypeNumber)
	if err := b.RemoveField(ids[1]); err != nil {
		t.Fatalf("RemoveField: %v", err)
	}

	page := b.Form().Pages[0]
	if len(page.Elements) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(page.Elements))
	}
	assertContiguous(t, page)

	if err := b.RemoveField("missing"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestUpdateFieldRederivesName(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText)

	updated, err := b.UpdateField(ids[0], func(f *schema.Field) {
		f.Title = "Full Name"
	})
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if updated.Name != "full_name" {
		t.Fatalf("expected derived name full_name, got %q", updated.Name)
	}

	// Explicit names stick across later title edits.
	if _, err := b.UpdateField(ids[0], func(f *schema.Field) {
		f.Name = "attendee"
	}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	updated, err = b.UpdateField(ids[0], func(f *schema.Field) {
		f.Title = "Attendee Full Name"
	})
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if updated.Name != "attendee" {
		t.Fatalf("overridden name must survive title edits, got %q", updated.Name)
	}
}

func TestUpdateFieldPinsIdentityAndPosition(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeText, schema.TypeEmail)
	updated, err := b.UpdateField(ids[1], func(f *schema.Field) {
		f.ID = "hijacked"
		f.Position = 99
		f.IsRequired = true
	})
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if updated.ID != ids[1] || updated.Position != 1 {
		t.Fatalf("identity or position not pinned: %+v", updated)
	}
	if !updated.IsRequired {
		t.Fatalf("edit not applied")
	}
}

func TestPageOperations(t *testing.T) {
	t.Parallel()

	b := New(schema.Form{})
	if err := b.UpdatePage(0, "Attendee", "Who is coming"); err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	index := b.AddPage("Travel")
	if index != 1 {
		t.Fatalf("expected new page at index 1, got %d", index)
	}
	if err := b.RemovePage(1); err != nil {
		t.Fatalf("RemovePage: %v", err)
	}
	if err := b.RemovePage(0); err == nil {
		t.Fatalf("the last page must not be removable")
	}

	form := b.Form()
	if form.Pages[0].Title != "Attendee" || form.Pages[0].Description != "Who is coming" {
		t.Fatalf("page metadata not applied: %+v", form.Pages[0])
	}
}

type recordingSaver struct {
	calls int
	saved schema.Form
}

func (r *recordingSaver) Save(_ context.Context, form schema.Form) error {
	r.calls++
	r.saved = form
	return nil
}

func TestSaveBlocksMalformedForms(t *testing.T) {
	t.Parallel()

	b, ids := seedBuilder(t, schema.TypeSelect)
	if _, err := b.UpdateField(ids[0], func(f *schema.Field) {
		f.Title = "City"
		f.Options = schema.OptionList{}
	}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	saver := &recordingSaver{}
	err := b.Save(context.Background(), saver)
	var schemaErr *schema.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if saver.calls != 0 {
		t.Fatalf("malformed forms must never reach storage")
	}

	if _, err := b.UpdateField(ids[0], func(f *schema.Field) {
		f.Options = schema.OptionList{{Label: "Pune", Value: "pune"}}
	}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if err := b.Save(context.Background(), saver); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saver.calls != 1 || saver.saved.Pages[0].Elements[0].Name != "city" {
		t.Fatalf("save did not persist the edited form: %+v", saver.saved)
	}
}
