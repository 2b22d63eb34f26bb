package app

import (
	"context"
	"sort"
	"sync"

	"adept/domain/core"
	"adept/domain/plan"
	"adept/domain/refine"
	"adept/internal"
	"adept/internal/errors"
	"adept/ports"
)

// PlannerService owns the project collection. It keeps the working set in
// memory and writes through to the repository on every mutation, so the
// stored scores can never lag their inputs.
type PlannerService struct {
	repo   ports.ProjectRepository
	logger *internal.Logger

	mu       sync.RWMutex
	projects map[core.ProjectID]plan.Project
}

// ProjectUpdate carries field-level edits from the planning surface.
// Nil fields are left untouched; score inputs trigger a rescore.
type ProjectUpdate struct {
	Title    *string        `json:"title,omitempty"`
	Horizon  *plan.Horizon  `json:"horizon,omitempty"`
	Swimlane *plan.Swimlane `json:"swimlane,omitempty"`
	Status   *plan.Status   `json:"status,omitempty"`
	Dice     *plan.Dice     `json:"dice,omitempty"`
	Rice     *plan.Rice     `json:"rice,omitempty"`
}

// NewPlannerService creates a planner service backed by the given repository
func NewPlannerService(repo ports.ProjectRepository, logger *internal.Logger) *PlannerService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PlannerService{
		repo:     repo,
		logger:   logger,
		projects: make(map[core.ProjectID]plan.Project),
	}
}

// Load pulls the stored projects into memory. Every project is rescored on
// the way in: the derived score is a function of its inputs, never trusted
// from storage.
func (s *PlannerService) Load(ctx context.Context) error {
	projects, err := s.repo.LoadProjects(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load projects")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[core.ProjectID]plan.Project, len(projects))
	for _, p := range projects {
		p.Rescore()
		s.projects[p.ID] = p
	}
	s.logger.Info("planner: loaded %d projects", len(projects))
	return nil
}

// ListProjects returns all projects, newest first
func (s *PlannerService) ListProjects() []plan.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]plan.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// GetProject returns one project by ID
func (s *PlannerService) GetProject(id core.ProjectID) (plan.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return plan.Project{}, errors.NotFound("project")
	}
	return p, nil
}

// CreateProject wraps an accepted specification into a project with default
// scores and persists the collection.
func (s *PlannerService) CreateProject(ctx context.Context, spec refine.Specification, rawIdea string) (plan.Project, error) {
	if err := spec.Validate(); err != nil {
		return plan.Project{}, errors.ValidationError(err.Error())
	}
	project := plan.NewProject(spec, rawIdea)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	if err := s.persistLocked(ctx); err != nil {
		delete(s.projects, project.ID)
		return plan.Project{}, err
	}
	s.logger.Info("planner: project %s created (%q)", project.ID, project.Title)
	return project, nil
}

// UpdateProject applies field-level edits. Any change to a DICE or RICE
// input recomputes that score in the same update, before anything persists.
func (s *PlannerService) UpdateProject(ctx context.Context, id core.ProjectID, update ProjectUpdate) (plan.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return plan.Project{}, errors.NotFound("project")
	}
	previous := project

	if update.Title != nil {
		project.Title = *update.Title
	}
	if update.Horizon != nil {
		project.Horizon = *update.Horizon
	}
	if update.Swimlane != nil {
		project.Swimlane = *update.Swimlane
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	if update.Dice != nil {
		project.SetDice(*update.Dice)
	}
	if update.Rice != nil {
		project.SetRice(*update.Rice)
	}

	s.projects[id] = project
	if err := s.persistLocked(ctx); err != nil {
		s.projects[id] = previous
		return plan.Project{}, err
	}
	return project, nil
}

// DeleteProject removes a project and persists the collection
func (s *PlannerService) DeleteProject(ctx context.Context, id core.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return errors.NotFound("project")
	}
	delete(s.projects, id)
	if err := s.persistLocked(ctx); err != nil {
		s.projects[id] = project
		return err
	}
	s.logger.Info("planner: project %s deleted", id)
	return nil
}

// persistLocked writes the full collection through the repository.
// Caller must hold s.mu.
func (s *PlannerService) persistLocked(ctx context.Context) error {
	out := make([]plan.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if err := s.repo.SaveProjects(ctx, out); err != nil {
		return errors.Wrap(err, "failed to save projects")
	}
	return nil
}
