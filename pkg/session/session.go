// Package session implements the fill-time interpreter: one Session owns the
// transient values for one form fill, re-evaluates conditional logic on every
// edit, and drives the Idle → Validating → Submitting → Succeeded/Failed
// state machine around an opaque submit collaborator.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formflow/pkg/compile"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// State names a point in the fill lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Submitter is the opaque collaborator that receives an accepted payload.
type Submitter interface {
	Submit(ctx context.Context, payload map[string]any) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, payload map[string]any) error

// Submit delegates to the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, payload map[string]any) error {
	return fn(ctx, payload)
}

// Option customises a session at construction time.
type Option func(*Session)

// WithSubmitter wires the submit collaborator.
func WithSubmitter(s Submitter) Option {
	return func(sess *Session) {
		sess.submitter = s
	}
}

// Session interprets one form for one filler. It holds a private compiled
// ruleset snapshot; schema edits made elsewhere never reach an open session.
// Sessions are safe for use from a single goroutine at a time; the internal
// mutex only guards the in-flight submission handoff.
type Session struct {
	mu sync.Mutex

	form      schema.Form
	fields    []schema.Field
	pages     [][]string
	compiled  compile.Compiled
	ruleset   *compile.Ruleset
	submitter Submitter

	rules map[string][]boundRule
	deps  map[string][]string

	state    State
	values   map[string]any
	states   map[string]FieldState
	errs     map[string]string
	captures map[string]any
	accepted map[string]any
}

// New compiles the form (all pages flattened into one ruleset) and returns a
// session in the Idle state seeded with initial values.
func New(form schema.Form, options ...Option) *Session {
	fields := form.Flatten()
	compiled := compile.Compile(fields)

	pages := make([][]string, len(form.Pages))
	for i, page := range form.Pages {
		for _, field := range page.Elements {
			if schema.IsInput(field.Type) && field.Name != "" {
				pages[i] = append(pages[i], field.Name)
			}
		}
	}

	rules, deps := bindRules(fields)

	sess := &Session{
		form:     form,
		fields:   fields,
		pages:    pages,
		compiled: compiled,
		ruleset:  compiled.Ruleset(),
		rules:    rules,
		deps:     deps,
		state:    StateIdle,
		values:   compiled.InitialValues(),
		errs:     make(map[string]string),
		captures: make(map[string]any),
	}
	for _, opt := range options {
		if opt != nil {
			opt(sess)
		}
	}

	sess.states = make(map[string]FieldState, len(fields))
	sess.recomputeAll()
	return sess
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Values returns a copy of the current form values.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}

// Value returns one field's current value.
func (s *Session) Value(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[name]
	return value, ok
}

// FieldState returns the live conditional state for a field. Unknown fields
// report the zero state.
func (s *Session) FieldState(name string) FieldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[name]
}

// Errors returns a copy of the current field error map.
func (s *Session) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errs))
	for name, msg := range s.errs {
		out[name] = msg
	}
	return out
}

// Set applies one edit. It clears any existing error for the field,
// transitions Failed back to Idle, and re-evaluates conditional logic for
// the fields that depend on the edited one. Edits to disabled fields are
// rejected; edits during an in-flight submission are rejected.
func (s *Session) Set(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting || s.state == StateValidating {
		return ErrSubmitInFlight
	}
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("session: unknown field %q", name)
	}
	if state, ok := s.states[name]; ok && !state.Enabled {
		return ErrFieldDisabled
	}

	s.values[name] = value
	delete(s.errs, name)
	if s.state == StateFailed || s.state == StateSucceeded {
		s.state = StateIdle
	}
	s.recomputeDependents(name)
	return nil
}

// AttachCapture stores an out-of-band payload (camera frame, QR decode)
// under a reserved key. It merges into the submission payload verbatim.
func (s *Session) AttachCapture(key string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures[key] = payload
}

// Capture runs a device capture collaborator and attaches its payload under
// key. A collaborator failure is wrapped in a *CaptureError and leaves the
// session untouched; capture hardware failing never blocks form edits.
func (s *Session) Capture(key string, source func() (any, error)) error {
	payload, err := source()
	if err != nil {
		return &CaptureError{Key: key, Err: err}
	}
	s.AttachCapture(key, payload)
	return nil
}

// ValidatePage runs the ruleset over one page's fields only, respecting the
// current visibility/enable state. It never changes the session state; the
// builder preview uses it for per-page feedback.
func (s *Session) ValidatePage(index int) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pages) {
		return nil
	}
	return s.validate(s.pages[index])
}

// Submit validates every page's fields together and, when clean, hands the
// payload to the submit collaborator. Validation failures return a
// *ValidationError and never contact the collaborator. Collaborator
// failures return a *SubmissionError with values preserved for a manual
// retry. At most one submission is in flight at a time.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateSubmitting || s.state == StateValidating {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.state = StateValidating

	failures := s.validate(s.ruleset.Names())
	if len(failures) > 0 {
		s.errs = failures
		s.state = StateFailed
		s.mu.Unlock()
		return &ValidationError{Fields: failures}
	}

	if s.submitter == nil {
		s.state = StateFailed
		s.mu.Unlock()
		return &SubmissionError{Err: fmt.Errorf("no submitter configured")}
	}

	payload := s.buildPayload()
	s.state = StateSubmitting
	s.mu.Unlock()

	err := s.submitter.Submit(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Values survive so the filler can retry; retrying is always a user
		// action, never automatic.
		s.state = StateFailed
		return &SubmissionError{Err: err}
	}

	s.state = StateSucceeded
	s.accepted = payload
	s.values = s.compiled.InitialValues()
	s.errs = make(map[string]string)
	s.captures = make(map[string]any)
	s.recomputeAll()
	return nil
}

// AcceptedPayload returns a copy of the payload handed to the submit
// collaborator by the most recent successful submission, with richtext
// sanitised and captures merged. It is nil before the first success. The
// confirmation message renders against this, not the raw edit values.
func (s *Session) AcceptedPayload() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accepted == nil {
		return nil
	}
	out := make(map[string]any, len(s.accepted))
	for name, value := range s.accepted {
		out[name] = value
	}
	return out
}

// Reset returns the session to Idle with initial values, dropping errors,
// captures, and the last accepted payload.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.values = s.compiled.InitialValues()
	s.errs = make(map[string]string)
	s.captures = make(map[string]any)
	s.accepted = nil
	s.recomputeAll()
}

// validate runs the compiled rules for the named fields, skipping hidden
// and disabled ones, and returns the first failure message per field.
func (s *Session) validate(names []string) map[string]string {
	failures := make(map[string]string)
	for _, name := range names {
		state := s.states[name]
		if !state.Visible || !state.Enabled {
			continue
		}
		violations := s.ruleset.Validate(name, s.values[name], state.Required)
		if len(violations) > 0 {
			failures[name] = violations[0].Message
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return failures
}

// buildPayload assembles the outbound submission: every visible field's
// value (disabled fields included, with their last known value), richtext
// sanitised, plus any attached captures under their reserved keys.
func (s *Session) buildPayload() map[string]any {
	payload := make(map[string]any, len(s.values)+len(s.captures))
	for _, field := range s.fields {
		if !schema.IsInput(field.Type) || field.Name == "" {
			continue
		}
		state := s.states[field.Name]
		if !state.Visible {
			continue
		}
		value := s.values[field.Name]
		if schema.Canonical(field.Type) == schema.TypeRichtext {
			if str, ok := value.(string); ok {
				value = schema.SanitizeRich(str)
			}
		}
		payload[field.Name] = value
	}
	for key, capture := range s.captures {
		payload[key] = capture
	}
	return payload
}

func (s *Session) recomputeAll() {
	for _, field := range s.fields {
		if !schema.IsInput(field.Type) || field.Name == "" {
			continue
		}
		s.states[field.Name] = evalFieldState(field, s.rules[field.Name], s.values)
	}
}

// recomputeDependents re-evaluates only the fields whose declared rule
// dependencies include the changed key.
func (s *Session) recomputeDependents(changed string) {
	dependents, ok := s.deps[changed]
	if !ok {
		return
	}
	for _, name := range dependents {
		field, found := s.fieldByName(name)
		if !found {
			continue
		}
		s.states[name] = evalFieldState(field, s.rules[name], s.values)
	}
}

func (s *Session) fieldByName(name string) (schema.Field, bool) {
	for _, field := range s.fields {
		if field.Name == name {
			return field, true
		}
	}
	return schema.Field{}, false
}
