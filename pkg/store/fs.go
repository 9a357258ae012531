package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// FSStore keeps one document per form under a root directory. Documents are
// written as YAML; both YAML and JSON are accepted on read, so forms
// exported from other tools drop straight in.
type FSStore struct {
	root string
}

var _ Store = (*FSStore)(nil)

// NewFS returns a store rooted at dir. The directory is created on first
// save, not here, so read-only callers can point at locations they cannot
// write to.
func NewFS(dir string) *FSStore {
	return &FSStore{root: dir}
}

// Fetch reads <id>.yaml, <id>.yml, or <id>.json under the root, first match
// wins.
func (s *FSStore) Fetch(ctx context.Context, formID string) (schema.Form, error) {
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}
	if !safeID(formID) {
		return schema.Form{}, fmt.Errorf("store: invalid form id %q", formID)
	}

	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(s.root, formID+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return schema.Form{}, fmt.Errorf("store: read %s: %w", path, err)
		}
		return decodeForm(path, data)
	}
	return schema.Form{}, fmt.Errorf("store: form %q not found in %s", formID, s.root)
}

// Save writes the form as <id>.yaml, creating the root directory when
// needed. The write goes through a temp file and rename so a crash never
// leaves a half-written document behind.
func (s *FSStore) Save(ctx context.Context, form schema.Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !safeID(form.ID) {
		return fmt.Errorf("store: invalid form id %q", form.ID)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", s.root, err)
	}

	data, err := yaml.Marshal(form)
	if err != nil {
		return fmt.Errorf("store: encode form %q: %w", form.ID, err)
	}

	path := filepath.Join(s.root, form.ID+".yaml")
	tmp, err := os.CreateTemp(s.root, form.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

// List returns the IDs of every form document under the root.
func (s *FSStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.root, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		switch ext {
		case ".yaml", ".yml", ".json":
			ids = append(ids, name[:len(name)-len(ext)])
		}
	}
	return ids, nil
}

func decodeForm(path string, data []byte) (schema.Form, error) {
	var form schema.Form
	var err error
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &form)
	} else {
		err = yaml.Unmarshal(data, &form)
	}
	if err != nil {
		return schema.Form{}, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return form, nil
}
