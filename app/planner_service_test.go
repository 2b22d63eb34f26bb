package app

import (
	"context"
	"math"
	"testing"

	"adept/domain/plan"
	"adept/internal/errors"
)

func TestPlanner_CreateUpdateDelete(t *testing.T) {
	_, planner, repo := newTestServices(&fakeRefinery{})

	project, err := planner.CreateProject(context.Background(), testSpec(), "raw idea")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	// Field edit with a score input must rescore before persisting
	updated, err := planner.UpdateProject(context.Background(), project.ID, ProjectUpdate{
		Rice: &plan.Rice{Reach: 1000, Impact: 3, Confidence: 0.8, Effort: 4},
	})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Rice.Score != 600 {
		t.Fatalf("rice score = %v, want 600", updated.Rice.Score)
	}
	stored, _ := repo.LoadProjects(context.Background())
	if len(stored) != 1 || stored[0].Rice.Score != 600 {
		t.Fatalf("persisted stale score: %+v", stored)
	}

	horizon := plan.HorizonNow
	updated, err = planner.UpdateProject(context.Background(), project.ID, ProjectUpdate{Horizon: &horizon})
	if err != nil {
		t.Fatalf("UpdateProject horizon: %v", err)
	}
	if updated.Horizon != plan.HorizonNow || updated.Rice.Score != 600 {
		t.Fatalf("horizon edit disturbed scores: %+v", updated)
	}

	if err := planner.DeleteProject(context.Background(), project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := planner.DeleteProject(context.Background(), project.ID); errors.GetCode(err) != errors.CodeNotFound {
		t.Fatalf("second delete should be NOT_FOUND, got %v", err)
	}
	if len(planner.ListProjects()) != 0 {
		t.Fatal("project list not empty after delete")
	}
}

func TestPlanner_UpdateRollsBackOnStoreFailure(t *testing.T) {
	_, planner, repo := newTestServices(&fakeRefinery{})
	project, err := planner.CreateProject(context.Background(), testSpec(), "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	repo.mu.Lock()
	repo.saveErr = errors.StoreError(nil)
	repo.mu.Unlock()

	title := "renamed"
	_, err = planner.UpdateProject(context.Background(), project.ID, ProjectUpdate{Title: &title})
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	got, _ := planner.GetProject(project.ID)
	if got.Title != project.Title {
		t.Fatalf("in-memory state mutated despite failed save: %q", got.Title)
	}
}

func TestPlanner_LoadRescoresStoredProjects(t *testing.T) {
	repo := &memoryRepo{}
	stale := plan.NewProject(testSpec(), "")
	stale.Rice = plan.Rice{Reach: 1000, Impact: 3, Confidence: 0.8, Effort: 4, Score: -99}
	stale.Dice = plan.Dice{Duration: 3, Integrity: 4, Commitment: 5, Effort: 3, Score: -99}
	repo.projects = []plan.Project{stale}

	planner := NewPlannerService(repo, nil)
	if err := planner.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := planner.GetProject(stale.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Rice.Score != 600 || got.Dice.Score != 24 {
		t.Fatalf("stored scores were trusted: rice=%v dice=%v", got.Rice.Score, got.Dice.Score)
	}
}

func TestMatrixData_UsesTheUniformEffortRule(t *testing.T) {
	_, planner, _ := newTestServices(&fakeRefinery{})
	project, _ := planner.CreateProject(context.Background(), testSpec(), "")
	planner.UpdateProject(context.Background(), project.ID, ProjectUpdate{
		Rice: &plan.Rice{Reach: 100, Impact: 3, Confidence: 1, Effort: 0},
	})

	points := planner.MatrixData()
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	// Zero effort falls back to 1 in both the score and the ratio
	if points[0].Z != 300 || points[0].IERatio != 3 {
		t.Fatalf("z=%v ieRatio=%v, want 300 and 3", points[0].Z, points[0].IERatio)
	}
}

func TestPortfolioAnalytics(t *testing.T) {
	_, planner, _ := newTestServices(&fakeRefinery{})

	summary := planner.PortfolioAnalytics()
	if summary.Projects != 0 || summary.MeanRice != 0 {
		t.Fatalf("empty portfolio should be all zeros: %+v", summary)
	}

	first, _ := planner.CreateProject(context.Background(), testSpec(), "")
	second, _ := planner.CreateProject(context.Background(), testSpec(), "")
	planner.UpdateProject(context.Background(), first.ID, ProjectUpdate{
		Rice: &plan.Rice{Reach: 100, Impact: 2, Confidence: 1, Effort: 2}, // score 100
		Dice: &plan.Dice{Duration: 5, Integrity: 5, Commitment: 5, Effort: 5}, // 30, high
	})
	planner.UpdateProject(context.Background(), second.ID, ProjectUpdate{
		Rice: &plan.Rice{Reach: 300, Impact: 4, Confidence: 0.5, Effort: 2}, // score 300
		Dice: &plan.Dice{Duration: 1, Integrity: 1, Commitment: 1, Effort: 1}, // 6, low
	})

	summary = planner.PortfolioAnalytics()
	if summary.Projects != 2 {
		t.Fatalf("projects = %d", summary.Projects)
	}
	if summary.MeanRice != 200 || summary.MedianRice != 200 {
		t.Fatalf("mean/median = %v/%v, want 200/200", summary.MeanRice, summary.MedianRice)
	}
	if summary.HighRiskCount != 1 || summary.LowRiskCount != 1 || summary.MediumRiskCount != 0 {
		t.Fatalf("risk counts = %d/%d/%d", summary.HighRiskCount, summary.MediumRiskCount, summary.LowRiskCount)
	}
	// Same effort on both projects means correlation is undefined (NaN) or
	// zero depending on impl; it must not be a positive artifact
	if summary.EffortImpactCorr > 0 && !math.IsNaN(summary.EffortImpactCorr) {
		t.Fatalf("unexpected correlation: %v", summary.EffortImpactCorr)
	}
}
