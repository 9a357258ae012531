// Package formflow builds, validates, and fills dynamic forms. Forms are
// schema documents (pages of typed fields with conditional logic) authored
// through the builder, persisted through a store, and filled through a
// session that enforces validation and visibility rules.
package formflow

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/builder"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/store"
)

// Form is the persisted schema document: pages of fields plus settings.
type Form = schema.Form

// Page groups an ordered run of fields with display metadata.
type Page = schema.Page

// Field is one form field definition.
type Field = schema.Field

// Option is one label/value choice for option-bearing fields.
type Option = schema.Option

// Rule attaches conditional logic (visibleIf, enableIf, requiredIf) to a
// field.
type Rule = schema.Rule

// Settings carries form-level presentation settings.
type Settings = schema.Settings

// Builder is the admin editing surface over a form.
type Builder = builder.Builder

// Session is one filler's interaction with a form.
type Session = session.Session

// Submitter receives accepted submission payloads.
type Submitter = session.Submitter

// Store persists and fetches form documents.
type Store = store.Store

// NewBuilder starts editing a form. A zero Form yields a fresh single-page
// document.
func NewBuilder(form Form) *Builder {
	return builder.New(form)
}

// NewField creates a field of the given type with type-appropriate defaults.
func NewField(fieldType schema.FieldType) Field {
	return schema.NewField(fieldType)
}

// DeriveName turns a human title into a machine name, e.g. "Full Name!"
// becomes "full_name".
func DeriveName(title string) string {
	return schema.DeriveName(title)
}

// Open fetches a form from the store and starts a fill session over it.
func Open(ctx context.Context, st Store, formID string, options ...session.Option) (*Session, error) {
	form, err := st.Fetch(ctx, formID)
	if err != nil {
		return nil, err
	}
	return session.New(form, options...), nil
}

// Fill starts a session directly over an in-memory form.
func Fill(form Form, options ...session.Option) *Session {
	return session.New(form, options...)
}

// WithSubmitter wires the submit collaborator into a session.
func WithSubmitter(s Submitter) session.Option {
	return session.WithSubmitter(s)
}
