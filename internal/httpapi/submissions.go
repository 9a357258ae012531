package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/session"
)

// Submission is one accepted payload.
type Submission struct {
	ID         string         `json:"id"`
	FormID     string         `json:"formId"`
	ReceivedAt time.Time      `json:"receivedAt"`
	Payload    map[string]any `json:"payload"`
}

// SubmissionSink receives payloads that passed validation.
type SubmissionSink interface {
	Accept(ctx context.Context, sub Submission) error
}

// submitter adapts the sink to the session's collaborator interface for one
// form.
func (a *api) sinkSubmitter(formID string) session.Submitter {
	return session.SubmitterFunc(func(ctx context.Context, payload map[string]any) error {
		return a.sink.Accept(ctx, Submission{
			ID:         uuid.NewString(),
			FormID:     formID,
			ReceivedAt: time.Now().UTC(),
			Payload:    payload,
		})
	})
}

// MemorySink keeps submissions in memory, mainly for development and tests.
type MemorySink struct {
	mu   sync.Mutex
	subs []Submission
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Accept(_ context.Context, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return nil
}

// Submissions returns a copy of everything accepted so far.
func (s *MemorySink) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.subs...)
}
