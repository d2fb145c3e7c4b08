package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLStore keeps the configuration record in a single YAML file.
type YAMLStore struct {
	path string
}

// NewYAMLStore returns a store backed by the YAML file at path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Get reads and decodes the record. A missing file surfaces as an
// error satisfying errors.Is(err, fs.ErrNotExist) so callers can seed
// a fresh record.
func (s *YAMLStore) Get(ctx context.Context) (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Record{}, fmt.Errorf("read record %s: %w", s.path, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse record %s: %w", s.path, err)
	}
	return rec, nil
}

// Put writes the record, creating the parent directory if needed.
func (s *YAMLStore) Put(ctx context.Context, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir record dir: %w", err)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", s.path, err)
	}
	return nil
}
