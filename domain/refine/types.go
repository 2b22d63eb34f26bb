package refine

import (
	"fmt"
	"strings"

	"adept/domain/core"
)

// Category names the three question/answer groups of a refinement session.
type Category string

const (
	CategoryProblemVision Category = "problemVision"
	CategoryValueRisk     Category = "valueRisk"
	CategoryDataReadiness Category = "dataReadiness"
)

// Categories returns the groups in workflow order.
func Categories() []Category {
	return []Category{CategoryProblemVision, CategoryValueRisk, CategoryDataReadiness}
}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryProblemVision, CategoryValueRisk, CategoryDataReadiness:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown answer category: %q", s)
}

// QuestionSet holds the clarifying questions produced once per session.
// Each category targets 3 questions, but any count is tolerated downstream.
type QuestionSet struct {
	ProblemVision []string `json:"problemVision"`
	ValueRisk     []string `json:"valueRisk"`
	DataReadiness []string `json:"dataReadiness"`
}

// Questions returns the question list for a category
func (qs QuestionSet) Questions(cat Category) []string {
	switch cat {
	case CategoryProblemVision:
		return qs.ProblemVision
	case CategoryValueRisk:
		return qs.ValueRisk
	case CategoryDataReadiness:
		return qs.DataReadiness
	}
	return nil
}

// Validate checks the runtime contract for question generation output:
// all three categories must be present (non-nil). Counts are not enforced.
func (qs QuestionSet) Validate() error {
	if qs.ProblemVision == nil {
		return fmt.Errorf("missing required field: problemVision")
	}
	if qs.ValueRisk == nil {
		return fmt.Errorf("missing required field: valueRisk")
	}
	if qs.DataReadiness == nil {
		return fmt.Errorf("missing required field: dataReadiness")
	}
	return nil
}

// AnswerSet mirrors QuestionSet's categories. Answers accumulate as the user
// responds; any category may stay empty, which is valid input for generation.
type AnswerSet struct {
	ProblemVision map[string]string `json:"problemVision"`
	ValueRisk     map[string]string `json:"valueRisk"`
	DataReadiness map[string]string `json:"dataReadiness"`
}

// NewAnswerSet returns an AnswerSet with all category maps allocated
func NewAnswerSet() AnswerSet {
	return AnswerSet{
		ProblemVision: make(map[string]string),
		ValueRisk:     make(map[string]string),
		DataReadiness: make(map[string]string),
	}
}

// Set upserts the answer for (category, question)
func (as *AnswerSet) Set(cat Category, question, answer string) {
	switch cat {
	case CategoryProblemVision:
		if as.ProblemVision == nil {
			as.ProblemVision = make(map[string]string)
		}
		as.ProblemVision[question] = answer
	case CategoryValueRisk:
		if as.ValueRisk == nil {
			as.ValueRisk = make(map[string]string)
		}
		as.ValueRisk[question] = answer
	case CategoryDataReadiness:
		if as.DataReadiness == nil {
			as.DataReadiness = make(map[string]string)
		}
		as.DataReadiness[question] = answer
	}
}

// Answers returns the answer map for a category
func (as AnswerSet) Answers(cat Category) map[string]string {
	switch cat {
	case CategoryProblemVision:
		return as.ProblemVision
	case CategoryValueRisk:
		return as.ValueRisk
	case CategoryDataReadiness:
		return as.DataReadiness
	}
	return nil
}

// Count returns the total number of recorded answers
func (as AnswerSet) Count() int {
	return len(as.ProblemVision) + len(as.ValueRisk) + len(as.DataReadiness)
}

// Specification is the structured product specification synthesized from the
// raw idea and the collected answers. It is produced atomically: either every
// field is populated or the generation call fails.
type Specification struct {
	Title                   string   `json:"title"`
	Problem                 string   `json:"problem"`
	Vision                  string   `json:"vision"`
	UserStories             []string `json:"userStories"`
	AcceptanceCriteria      []string `json:"acceptanceCriteria"`
	TechStackRecommendation string   `json:"techStackRecommendation"`
	RiskAnalysis            string   `json:"riskAnalysis"`
}

// Validate checks that every required field is populated
func (s Specification) Validate() error {
	type field struct {
		name  string
		empty bool
	}
	fields := []field{
		{"title", strings.TrimSpace(s.Title) == ""},
		{"problem", strings.TrimSpace(s.Problem) == ""},
		{"vision", strings.TrimSpace(s.Vision) == ""},
		{"userStories", len(s.UserStories) == 0},
		{"acceptanceCriteria", len(s.AcceptanceCriteria) == 0},
		{"techStackRecommendation", strings.TrimSpace(s.TechStackRecommendation) == ""},
		{"riskAnalysis", strings.TrimSpace(s.RiskAnalysis) == ""},
	}
	for _, f := range fields {
		if f.empty {
			return fmt.Errorf("missing required field: %s", f.name)
		}
	}
	return nil
}

// Stage is one discrete step of the refinement workflow
type Stage int

const (
	StageIdle Stage = iota
	StageProblemVision
	StageValueRisk
	StageDataReadiness
	StageReviewing
)

// String returns a human-readable stage name
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageProblemVision:
		return "problem_vision"
	case StageValueRisk:
		return "value_risk"
	case StageDataReadiness:
		return "data_readiness"
	case StageReviewing:
		return "reviewing"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Category returns the answer category collected at this stage, if any
func (s Stage) Category() (Category, bool) {
	switch s {
	case StageProblemVision:
		return CategoryProblemVision, true
	case StageValueRisk:
		return CategoryValueRisk, true
	case StageDataReadiness:
		return CategoryDataReadiness, true
	}
	return "", false
}

// Session is the in-progress refinement state. It is owned by exactly one
// RefinerService and mutated only through its transitions.
type Session struct {
	ID        core.SessionID `json:"id"`
	Stage     Stage          `json:"stage"`
	RawIdea   string         `json:"rawIdea"`
	Busy      bool           `json:"busy"`
	Questions QuestionSet    `json:"questions"`
	Answers   AnswerSet      `json:"answers"`
	Result    *Specification `json:"result,omitempty"`
}

// NewSession returns a fresh session in the Idle stage
func NewSession() *Session {
	return &Session{
		ID:      core.SessionID(core.NewID()),
		Stage:   StageIdle,
		Answers: NewAnswerSet(),
	}
}
