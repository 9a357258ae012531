// Package store persists and fetches forms. Builders save through it;
// fill sessions read from it. Two backends are provided: a filesystem
// store for local documents and an HTTP store for a remote form service.
package store

import (
	"context"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Store is the persistence collaborator for form schemas. Implementations
// must treat fetched forms as read-only snapshots; edits flow back only
// through Save.
type Store interface {
	Fetch(ctx context.Context, formID string) (schema.Form, error)
	Save(ctx context.Context, form schema.Form) error
}

// safeID rejects form IDs that could escape a directory or URL segment.
func safeID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\")
}
