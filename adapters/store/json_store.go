package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"adept/domain/plan"
	"adept/ports"
)

// JSONStore persists the project collection as a single JSON file. It is the
// development default; the postgres adapter replaces it when DATABASE_URL is
// configured.
type JSONStore struct {
	path string
}

// NewJSONStore creates a file-backed project store, ensuring the directory exists
func NewJSONStore(path string) (*JSONStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &JSONStore{path: path}, nil
}

var _ ports.ProjectRepository = (*JSONStore)(nil)

// LoadProjects reads the stored collection. A missing file is an empty
// collection, not an error.
func (s *JSONStore) LoadProjects(ctx context.Context) ([]plan.Project, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []plan.Project{}, nil
		}
		return nil, fmt.Errorf("failed to read project store: %w", err)
	}

	var projects []plan.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse project store %s: %w", s.path, err)
	}
	return projects, nil
}

// SaveProjects writes the full collection atomically (temp file + rename)
func (s *JSONStore) SaveProjects(ctx context.Context, projects []plan.Project) error {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace project store: %w", err)
	}
	return nil
}
