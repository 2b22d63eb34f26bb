package ports

import (
	"context"

	"adept/domain/plan"
)

// ProjectRepository persists the project collection. The contract is
// deliberately coarse: load everything, save everything. Format and location
// are the adapter's concern.
type ProjectRepository interface {
	LoadProjects(ctx context.Context) ([]plan.Project, error)
	SaveProjects(ctx context.Context, projects []plan.Project) error
}
