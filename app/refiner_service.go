package app

import (
	"context"
	"strings"
	"sync"

	"adept/domain/core"
	"adept/domain/plan"
	"adept/domain/refine"
	"adept/internal"
	"adept/internal/errors"
	"adept/ports"
)

// RefinerService owns refinement sessions and drives them through the fixed
// stage sequence: Idle -> ProblemVision -> ValueRisk -> DataReadiness ->
// Reviewing. Each session is independent; the registry mutex serializes
// state mutation while generative calls run outside the lock, guarded by the
// session's busy flag.
type RefinerService struct {
	refinery ports.RefineryPort
	planner  *PlannerService
	logger   *internal.Logger

	mu       sync.Mutex
	sessions map[core.SessionID]*refine.Session
}

// NewRefinerService creates a refiner service
func NewRefinerService(refinery ports.RefineryPort, planner *PlannerService, logger *internal.Logger) *RefinerService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RefinerService{
		refinery: refinery,
		planner:  planner,
		logger:   logger,
		sessions: make(map[core.SessionID]*refine.Session),
	}
}

// CreateSession starts a fresh refinement session in the Idle stage
func (s *RefinerService) CreateSession() refine.Session {
	session := refine.NewSession()
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	s.logger.Info("refiner: session %s created", session.ID)
	return *session
}

// GetSession returns a snapshot of a session's current state
func (s *RefinerService) GetSession(id core.SessionID) (refine.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return refine.Session{}, errors.NotFound("session")
	}
	return snapshot(session), nil
}

// SubmitIdea validates the raw idea, generates the clarifying questions and
// advances Idle -> ProblemVision. On failure the session stays in Idle with
// the idea text preserved so the user can resubmit.
func (s *RefinerService) SubmitIdea(ctx context.Context, id core.SessionID, rawIdea string) (refine.Session, error) {
	if strings.TrimSpace(rawIdea) == "" {
		// Rejected locally, never sent to the service
		return refine.Session{}, errors.InvalidInput("idea text cannot be empty")
	}

	session, err := s.beginCall(id, refine.StageIdle)
	if err != nil {
		return session, err
	}

	s.mu.Lock()
	if current, ok := s.sessions[id]; ok {
		current.RawIdea = rawIdea
	}
	s.mu.Unlock()

	questions, genErr := s.refinery.GenerateQuestions(ctx, rawIdea)

	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[id]
	if !ok {
		// Discarded while the call was in flight
		return refine.Session{}, errors.NotFound("session")
	}
	live.Busy = false
	if genErr != nil {
		s.logger.Warn("refiner: question generation failed for session %s: %v", id, genErr)
		return snapshot(live), genErr
	}

	live.Questions = *questions
	live.Stage = refine.StageProblemVision
	s.logger.Info("refiner: session %s advanced to %s", id, live.Stage)
	return snapshot(live), nil
}

// SetAnswer upserts the answer for (category, question). Legal at any
// answering stage regardless of which category is currently displayed.
func (s *RefinerService) SetAnswer(id core.SessionID, category refine.Category, question, answer string) (refine.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return refine.Session{}, errors.NotFound("session")
	}
	if session.Stage < refine.StageProblemVision || session.Stage > refine.StageDataReadiness {
		return snapshot(session), errors.ValidationError("answers can only be recorded during the answering stages")
	}
	session.Answers.Set(category, question, answer)
	return snapshot(session), nil
}

// Advance moves forward one answering stage (1->2 or 2->3). Answer
// completeness is deliberately not validated: the generation step is
// expected to cope with sparse input.
func (s *RefinerService) Advance(id core.SessionID) (refine.Session, error) {
	return s.navigate(id, +1)
}

// Back moves backward one answering stage. Previously entered answers are
// never discarded.
func (s *RefinerService) Back(id core.SessionID) (refine.Session, error) {
	return s.navigate(id, -1)
}

func (s *RefinerService) navigate(id core.SessionID, delta refine.Stage) (refine.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return refine.Session{}, errors.NotFound("session")
	}
	if session.Busy {
		return snapshot(session), errors.New(errors.CodeBusy, "a generation call is in progress")
	}
	next := session.Stage + delta
	if session.Stage < refine.StageProblemVision || session.Stage > refine.StageDataReadiness ||
		next < refine.StageProblemVision || next > refine.StageDataReadiness {
		return snapshot(session), errors.ValidationError("navigation is only available between the answering stages")
	}
	session.Stage = next
	return snapshot(session), nil
}

// GenerateSpecification runs the final synthesis call and advances
// DataReadiness -> Reviewing. On failure the stage does not move and the
// transition stays re-triggerable.
func (s *RefinerService) GenerateSpecification(ctx context.Context, id core.SessionID) (refine.Session, error) {
	session, err := s.beginCall(id, refine.StageDataReadiness)
	if err != nil {
		return session, err
	}

	s.mu.Lock()
	current, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return refine.Session{}, errors.NotFound("session")
	}
	rawIdea := current.RawIdea
	// Copy the maps: answer upserts stay legal while the call is in flight
	answers := snapshot(current).Answers
	s.mu.Unlock()

	spec, genErr := s.refinery.GenerateSpecification(ctx, rawIdea, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[id]
	if !ok {
		return refine.Session{}, errors.NotFound("session")
	}
	live.Busy = false
	if genErr != nil {
		s.logger.Warn("refiner: specification generation failed for session %s: %v", id, genErr)
		return snapshot(live), genErr
	}

	live.Result = spec
	live.Stage = refine.StageReviewing
	s.logger.Info("refiner: session %s reached review with spec %q", id, spec.Title)
	return snapshot(live), nil
}

// Accept hands the reviewed specification to the planner as a new project and
// ends the session's lifecycle.
func (s *RefinerService) Accept(ctx context.Context, id core.SessionID) (plan.Project, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return plan.Project{}, errors.NotFound("session")
	}
	if session.Stage != refine.StageReviewing || session.Result == nil {
		s.mu.Unlock()
		return plan.Project{}, errors.ValidationError("no reviewed specification to accept")
	}
	spec := *session.Result
	rawIdea := session.RawIdea
	delete(s.sessions, id)
	s.mu.Unlock()

	project, err := s.planner.CreateProject(ctx, spec, rawIdea)
	if err != nil {
		// Restore the session so the accepted spec is not lost on store failure
		s.mu.Lock()
		s.sessions[id] = session
		s.mu.Unlock()
		return plan.Project{}, err
	}
	s.logger.Info("refiner: session %s accepted as project %s", id, project.ID)
	return project, nil
}

// DiscardSession drops a session and its in-progress state
func (s *RefinerService) DiscardSession(id core.SessionID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// beginCall marks a session busy for an outgoing generative call. It fails
// when the session is missing, already busy, or not at the required stage, so
// rapid double-triggers collapse to a no-op.
func (s *RefinerService) beginCall(id core.SessionID, requiredStage refine.Stage) (refine.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return refine.Session{}, errors.NotFound("session")
	}
	if session.Busy {
		return snapshot(session), errors.New(errors.CodeBusy, "a generation call is already in progress")
	}
	if session.Stage != requiredStage {
		return snapshot(session), errors.ValidationError("action not available at the current stage")
	}
	session.Busy = true
	return snapshot(session), nil
}

// snapshot copies a session for return outside the lock, deep-copying the
// answer maps so callers cannot mutate owned state.
func snapshot(session *refine.Session) refine.Session {
	copied := *session
	copied.Answers = refine.AnswerSet{
		ProblemVision: copyMap(session.Answers.ProblemVision),
		ValueRisk:     copyMap(session.Answers.ValueRisk),
		DataReadiness: copyMap(session.Answers.DataReadiness),
	}
	if session.Result != nil {
		result := *session.Result
		copied.Result = &result
	}
	return copied
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
