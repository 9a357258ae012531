package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSubmitInFlight rejects a second submit while one is running; a session
// never runs concurrent submissions.
var ErrSubmitInFlight = errors.New("session: submission already in flight")

// ErrFieldDisabled rejects edits to a field whose enableIf rule currently
// holds it read-only.
var ErrFieldDisabled = errors.New("session: field is disabled")

// ValidationError carries the per-field messages produced by a failed submit
// attempt. The submit collaborator is never contacted when this is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "session: validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("session: validation failed for %s", strings.Join(names, ", "))
}

// SubmissionError wraps a submit collaborator failure. The session keeps the
// entered values so the user can retry manually; nothing retries on its own.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("session: submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// CaptureError reports a device-side capture failure (camera, QR scanner),
// as returned by Session.Capture. It concerns hardware, not form data, and
// never blocks editing other fields.
type CaptureError struct {
	Key string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("session: capture %q failed: %v", e.Key, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
