package plan

import (
	"time"

	"adept/domain/core"
	"adept/domain/refine"
)

// Horizon is the coarse time-bucket classification for a project
type Horizon string

const (
	HorizonNow   Horizon = "NOW"
	HorizonNext  Horizon = "NEXT"
	HorizonLater Horizon = "LATER"
)

// Horizons returns all horizons in roadmap order
func Horizons() []Horizon {
	return []Horizon{HorizonNow, HorizonNext, HorizonLater}
}

// Swimlane is the strategic category a project belongs to
type Swimlane string

const (
	SwimlaneRetention  Swimlane = "retention"
	SwimlaneExpansion  Swimlane = "market_expansion"
	SwimlaneEfficiency Swimlane = "operational_efficiency"
	SwimlaneInnovation Swimlane = "innovation_ai"
)

// Swimlanes returns all swimlanes in display order
func Swimlanes() []Swimlane {
	return []Swimlane{SwimlaneRetention, SwimlaneExpansion, SwimlaneEfficiency, SwimlaneInnovation}
}

// Status tracks a project through the delivery pipeline
type Status string

const (
	StatusDraft      Status = "Draft"
	StatusBacklog    Status = "Backlog"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Dice holds change-management risk inputs (each 1-5) and the derived score.
// Score is never stored stale: every mutation path recomputes it.
type Dice struct {
	Duration   int     `json:"duration"`
	Integrity  int     `json:"integrity"`
	Commitment int     `json:"commitment"`
	Effort     int     `json:"effort"`
	Score      float64 `json:"score"`
}

// Rice holds prioritization inputs and the derived score
type Rice struct {
	Reach      float64 `json:"reach"`
	Impact     float64 `json:"impact"`
	Confidence float64 `json:"confidence"`
	Effort     float64 `json:"effort"`
	Score      float64 `json:"score"`
}

// Project wraps an accepted Specification with prioritization state
type Project struct {
	ID        core.ProjectID       `json:"id" db:"id"`
	Title     string               `json:"title"`
	RawIdea   string               `json:"rawIdea"`
	Spec      refine.Specification `json:"spec"`
	Dice      Dice                 `json:"dice"`
	Rice      Rice                 `json:"rice"`
	Horizon   Horizon              `json:"horizon"`
	Swimlane  Swimlane             `json:"swimlane"`
	Status    Status               `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

// NewProject creates a project from an accepted specification with the
// default scores a freshly refined idea starts from.
func NewProject(spec refine.Specification, rawIdea string) Project {
	p := Project{
		ID:        core.ProjectID(core.NewID()),
		Title:     spec.Title,
		RawIdea:   rawIdea,
		Spec:      spec,
		Dice:      Dice{Duration: 3, Integrity: 3, Commitment: 3, Effort: 3},
		Rice:      Rice{Reach: 500, Impact: 2, Confidence: 0.5, Effort: 3},
		Horizon:   HorizonNext,
		Swimlane:  SwimlaneInnovation,
		Status:    StatusBacklog,
		CreatedAt: time.Now(),
	}
	p.Rescore()
	return p
}

// Rescore recomputes both derived scores from the current inputs
func (p *Project) Rescore() {
	p.Dice.Score = DiceScore(p.Dice.Duration, p.Dice.Integrity, p.Dice.Commitment, p.Dice.Effort)
	p.Rice.Score = RiceScore(p.Rice.Reach, p.Rice.Impact, p.Rice.Confidence, p.Rice.Effort)
}

// SetDice replaces the DICE inputs and recomputes the score in the same update
func (p *Project) SetDice(d Dice) {
	p.Dice = d
	p.Dice.Score = DiceScore(d.Duration, d.Integrity, d.Commitment, d.Effort)
}

// SetRice replaces the RICE inputs and recomputes the score in the same update
func (p *Project) SetRice(r Rice) {
	p.Rice = r
	p.Rice.Score = RiceScore(r.Reach, r.Impact, r.Confidence, r.Effort)
}

// RiskBand returns the DICE risk band for this project
func (p Project) RiskBand() RiskBand {
	return DiceRiskBand(p.Dice.Score)
}
