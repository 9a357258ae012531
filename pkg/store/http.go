package store

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// HTTPStore talks to a remote form service exposing
// GET/PUT /api/forms/{id}.
type HTTPStore struct {
	base string
	http *resty.Client
}

var _ Store = (*HTTPStore)(nil)

type HTTPOption func(*HTTPStore)

// WithToken sets the Authorization token for every request.
func WithToken(token string) HTTPOption {
	return func(s *HTTPStore) {
		s.http.SetAuthToken(token)
	}
}

// WithHTTPClient swaps the underlying resty client.
func WithHTTPClient(client *resty.Client) HTTPOption {
	return func(s *HTTPStore) {
		s.http = client
	}
}

// NewHTTP returns a store for the service at the given base URL.
func NewHTTP(base string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{base: base, http: resty.New()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *HTTPStore) Fetch(ctx context.Context, formID string) (schema.Form, error) {
	if !safeID(formID) {
		return schema.Form{}, fmt.Errorf("store: invalid form id %q", formID)
	}
	var form schema.Form
	resp, err := s.http.R().SetContext(ctx).SetResult(&form).Get(s.base + "/api/forms/" + formID)
	if err != nil {
		return schema.Form{}, fmt.Errorf("store: fetch form %q: %w", formID, err)
	}
	if resp.IsError() {
		return schema.Form{}, fmt.Errorf("store: fetch form %q: %s", formID, resp.Status())
	}
	return form, nil
}

func (s *HTTPStore) Save(ctx context.Context, form schema.Form) error {
	if !safeID(form.ID) {
		return fmt.Errorf("store: invalid form id %q", form.ID)
	}
	resp, err := s.http.R().SetContext(ctx).SetBody(form).Put(s.base + "/api/forms/" + form.ID)
	if err != nil {
		return fmt.Errorf("store: save form %q: %w", form.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("store: save form %q: %s", form.ID, resp.Status())
	}
	return nil
}
