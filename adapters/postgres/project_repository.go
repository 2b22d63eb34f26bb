package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"adept/domain/plan"
	"adept/internal/errors"
	"adept/ports"

	"github.com/jmoiron/sqlx"
)

// ProjectRepositoryImpl implements ProjectRepository for PostgreSQL. Projects
// are stored as JSONB payloads keyed by id; the collection is small enough that
// Save replaces it wholesale inside one transaction.
type ProjectRepositoryImpl struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new PostgreSQL project repository
func NewProjectRepository(db *sqlx.DB) ports.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

// EnsureSchema creates the projects table if it does not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create projects table")
	}
	return nil
}

// LoadProjects returns the stored collection ordered by creation time
func (r *ProjectRepositoryImpl) LoadProjects(ctx context.Context) ([]plan.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM projects ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, errors.StoreError(fmt.Errorf("failed to load projects: %w", err))
	}
	defer rows.Close()

	var projects []plan.Project
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.StoreError(fmt.Errorf("failed to scan project row: %w", err))
		}
		var p plan.Project
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.StoreError(fmt.Errorf("failed to decode project payload: %w", err))
		}
		projects = append(projects, p)
	}
	if projects == nil {
		projects = []plan.Project{}
	}
	return projects, rows.Err()
}

// SaveProjects replaces the stored collection with the given one
func (r *ProjectRepositoryImpl) SaveProjects(ctx context.Context, projects []plan.Project) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.StoreError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return errors.StoreError(fmt.Errorf("failed to clear projects: %w", err))
	}

	for _, p := range projects {
		payload, err := json.Marshal(p)
		if err != nil {
			return errors.StoreError(fmt.Errorf("failed to encode project payload: %w", err))
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects (id, payload, created_at)
			VALUES ($1, $2, $3)
		`, p.ID, payload, p.CreatedAt)
		if err != nil {
			return errors.StoreError(fmt.Errorf("failed to insert project: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StoreError(fmt.Errorf("failed to commit projects: %w", err))
	}
	return nil
}
