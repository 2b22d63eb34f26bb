package app

import (
	"context"
	"sync"

	"adept/domain/plan"
	"adept/domain/refine"
	"adept/internal"
	"adept/internal/errors"
)

// fakeRefinery is a scriptable ports.RefineryPort
type fakeRefinery struct {
	mu            sync.Mutex
	questionCalls int
	specCalls     int

	questions    refine.QuestionSet
	questionErr  error
	spec         refine.Specification
	specErr      error
	lastIdea     string
	lastAnswers  refine.AnswerSet
	blockOnEntry chan struct{} // when set, calls wait here (for busy-flag tests)
}

func (f *fakeRefinery) GenerateQuestions(ctx context.Context, rawIdea string) (*refine.QuestionSet, error) {
	f.mu.Lock()
	f.questionCalls++
	f.lastIdea = rawIdea
	block := f.blockOnEntry
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.questionErr != nil {
		return nil, f.questionErr
	}
	qs := f.questions
	return &qs, nil
}

func (f *fakeRefinery) GenerateSpecification(ctx context.Context, rawIdea string, answers refine.AnswerSet) (*refine.Specification, error) {
	f.mu.Lock()
	f.specCalls++
	f.lastIdea = rawIdea
	f.lastAnswers = answers
	f.mu.Unlock()
	if f.specErr != nil {
		return nil, f.specErr
	}
	spec := f.spec
	return &spec, nil
}

func (f *fakeRefinery) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.questionCalls, f.specCalls
}

// memoryRepo is an in-memory ports.ProjectRepository
type memoryRepo struct {
	mu       sync.Mutex
	projects []plan.Project
	saveErr  error
	saves    int
}

func (r *memoryRepo) LoadProjects(ctx context.Context) ([]plan.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]plan.Project, len(r.projects))
	copy(out, r.projects)
	return out, nil
}

func (r *memoryRepo) SaveProjects(ctx context.Context, projects []plan.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.projects = make([]plan.Project, len(projects))
	copy(r.projects, projects)
	r.saves++
	return nil
}

func testQuestions() refine.QuestionSet {
	return refine.QuestionSet{
		ProblemVision: []string{"pv1", "pv2", "pv3"},
		ValueRisk:     []string{"vr1", "vr2", "vr3"},
		DataReadiness: []string{"dr1", "dr2", "dr3"},
	}
}

func testSpec() refine.Specification {
	return refine.Specification{
		Title:                   "Lead Prioritizer",
		Problem:                 "Reps waste time on cold leads.",
		Vision:                  "Rank every lead automatically.",
		UserStories:             []string{"As a rep I want ranked leads, so that I call the hottest first."},
		AcceptanceCriteria:      []string{"Ranking precision above 80%"},
		TechStackRecommendation: "FastAPI, LangChain, Pinecone",
		RiskAnalysis:            "CRM data bias may skew rankings.",
	}
}

func newTestServices(refinery *fakeRefinery) (*RefinerService, *PlannerService, *memoryRepo) {
	repo := &memoryRepo{}
	logger := internal.NewLogger(internal.LogLevelError)
	planner := NewPlannerService(repo, logger)
	refiner := NewRefinerService(refinery, planner, logger)
	return refiner, planner, repo
}

var errTransient = errors.ServiceUnavailable(nil)
