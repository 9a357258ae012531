// Package builder is the admin-side editing surface over a schema.Form. It
// owns every mutation the form ever sees: adding, moving, editing and
// removing fields, and page metadata. After each operation the form's
// structural invariants hold (unique names per page, contiguous zero-based
// positions), so a fill session can always be compiled from the result.
package builder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Saver persists a form. pkg/store implements it for the filesystem and
// HTTP backends.
type Saver interface {
	Save(ctx context.Context, form schema.Form) error
}

// Builder wraps a form and applies edits in place. It is not safe for
// concurrent use; an editing surface drives one builder from one goroutine.
type Builder struct {
	form schema.Form
}

// New starts editing the given form. A zero form gets an ID and one empty
// page so field operations have somewhere to land.
func New(form schema.Form) *Builder {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if len(form.Pages) == 0 {
		form.Pages = []schema.Page{{}}
	}
	return &Builder{form: form}
}

// Form returns a copy of the current state. Callers can hand it to a
// compiler or store without racing later edits.
func (b *Builder) Form() schema.Form {
	out := b.form
	out.Pages = make([]schema.Page, len(b.form.Pages))
	for i, page := range b.form.Pages {
		out.Pages[i] = page
		out.Pages[i].Elements = append([]schema.Field(nil), page.Elements...)
	}
	return out
}

// AddField appends a new field of the given type to a page and returns it.
func (b *Builder) AddField(pageIndex int, fieldType schema.FieldType) (schema.Field, error) {
	return b.InsertFieldAt(pageIndex, -1, fieldType)
}

// InsertFieldAt creates a new field of the given type and inserts it at the
// target index within a page, shifting later fields down. An index of -1 or
// past the end appends. This is also the palette-drop path: a catalog entry
// dragged into the page becomes a fresh field with its own identity.
func (b *Builder) InsertFieldAt(pageIndex, index int, fieldType schema.FieldType) (schema.Field, error) {
	page, err := b.page(pageIndex)
	if err != nil {
		return schema.Field{}, err
	}
	if !schema.Known(fieldType) {
		return schema.Field{}, fmt.Errorf("builder: unknown field type %q", fieldType)
	}

	field := schema.NewField(fieldType)
	if index < 0 || index > len(page.Elements) {
		index = len(page.Elements)
	}

	page.Elements = append(page.Elements, schema.Field{})
	copy(page.Elements[index+1:], page.Elements[index:])
	page.Elements[index] = field
	b.renumber(page)
	return page.Elements[index], nil
}

// Reorder moves the field at sourceIndex to targetIndex within a page,
// preserving field identity. The drag collaborator reports drops as index
// pairs; out-of-range indexes are rejected.
func (b *Builder) Reorder(pageIndex, sourceIndex, targetIndex int) error {
	page, err := b.page(pageIndex)
	if err != nil {
		return err
	}
	n := len(page.Elements)
	if sourceIndex < 0 || sourceIndex >= n {
		return fmt.Errorf("builder: source index %d out of range", sourceIndex)
	}
	if targetIndex < 0 || targetIndex >= n {
		return fmt.Errorf("builder: target index %d out of range", targetIndex)
	}
	if sourceIndex == targetIndex {
		return nil
	}

	moved := page.Elements[sourceIndex]
	page.Elements = append(page.Elements[:sourceIndex], page.Elements[sourceIndex+1:]...)
	page.Elements = append(page.Elements, schema.Field{})
	copy(page.Elements[targetIndex+1:], page.Elements[targetIndex:])
	page.Elements[targetIndex] = moved
	b.renumber(page)
	return nil
}

// ReorderByID translates a drag collaborator's (activeID, overID) drop into
// an index reorder: the active field lands at the over field's slot. Both
// fields must live on the same page.
func (b *Builder) ReorderByID(activeID, overID string) error {
	if activeID == overID {
		return nil
	}
	activePage, activeIndex, ok := b.locate(activeID)
	if !ok {
		return fmt.Errorf("builder: no field with id %q", activeID)
	}
	overPage, overIndex, ok := b.locate(overID)
	if !ok {
		return fmt.Errorf("builder: no field with id %q", overID)
	}
	if activePage != overPage {
		return fmt.Errorf("builder: cannot reorder across pages")
	}
	return b.Reorder(activePage, activeIndex, overIndex)
}

// RemoveField deletes a field by ID and renumbers the remaining positions.
func (b *Builder) RemoveField(id string) error {
	pageIndex, index, ok := b.locate(id)
	if !ok {
		return fmt.Errorf("builder: no field with id %q", id)
	}
	page := &b.form.Pages[pageIndex]
	page.Elements = append(page.Elements[:index], page.Elements[index+1:]...)
	b.renumber(page)
	return nil
}

// UpdateField applies an edit to the field with the given ID. The callback
// receives a copy; identity and ordering are pinned afterwards so an editor
// panel cannot corrupt them. When the title changes on a field whose name
// was never explicitly set, the machine name follows the new title.
func (b *Builder) UpdateField(id string, edit func(*schema.Field)) (schema.Field, error) {
	pageIndex, index, ok := b.locate(id)
	if !ok {
		return schema.Field{}, fmt.Errorf("builder: no field with id %q", id)
	}
	page := &b.form.Pages[pageIndex]
	current := page.Elements[index]

	next := current
	edit(&next)

	next.ID = current.ID
	next.Position = current.Position
	if next.Name != current.Name && next.Name != "" {
		next.NameOverridden = true
	}
	if !next.NameOverridden && next.Title != current.Title {
		next.Name = schema.DeriveName(next.Title)
	}

	page.Elements[index] = next
	return next, nil
}

// UpdatePage edits a page's title and description.
func (b *Builder) UpdatePage(pageIndex int, title, description string) error {
	page, err := b.page(pageIndex)
	if err != nil {
		return err
	}
	page.Title = title
	page.Description = description
	return nil
}

// AddPage appends an empty page and returns its index.
func (b *Builder) AddPage(title string) int {
	b.form.Pages = append(b.form.Pages, schema.Page{Title: title})
	return len(b.form.Pages) - 1
}

// RemovePage deletes a page and its fields. The last page cannot be removed.
func (b *Builder) RemovePage(pageIndex int) error {
	if pageIndex < 0 || pageIndex >= len(b.form.Pages) {
		return fmt.Errorf("builder: page index %d out of range", pageIndex)
	}
	if len(b.form.Pages) == 1 {
		return fmt.Errorf("builder: a form needs at least one page")
	}
	b.form.Pages = append(b.form.Pages[:pageIndex], b.form.Pages[pageIndex+1:]...)
	return nil
}

// SetTitle updates the form's title and description.
func (b *Builder) SetTitle(title, description string) {
	b.form.Title = title
	b.form.Description = description
}

// SetSettings replaces the form-level settings.
func (b *Builder) SetSettings(settings schema.Settings) {
	b.form.Settings = settings
}

// Save validates the form and, when clean, persists it through the saver.
// A malformed form never reaches storage; the schema error lists every
// issue so the editor can surface them all at once.
func (b *Builder) Save(ctx context.Context, saver Saver) error {
	if err := b.form.Validate(); err != nil {
		return err
	}
	return saver.Save(ctx, b.Form())
}

func (b *Builder) page(index int) (*schema.Page, error) {
	if index < 0 || index >= len(b.form.Pages) {
		return nil, fmt.Errorf("builder: page index %d out of range", index)
	}
	return &b.form.Pages[index], nil
}

func (b *Builder) locate(id string) (pageIndex, index int, ok bool) {
	for p := range b.form.Pages {
		for i := range b.form.Pages[p].Elements {
			if b.form.Pages[p].Elements[i].ID == id {
				return p, i, true
			}
		}
	}
	return 0, 0, false
}

func (b *Builder) renumber(page *schema.Page) {
	for i := range page.Elements {
		page.Elements[i].Position = i
	}
}
