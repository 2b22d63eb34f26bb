package app

import (
	"adept/domain/core"
	"adept/domain/plan"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// MatrixPoint is one project positioned on the impact/effort matrix.
// X is RICE effort, Y is RICE impact, Z scales with the overall RICE score.
type MatrixPoint struct {
	ID       core.ProjectID `json:"id"`
	Title    string         `json:"title"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Z        float64        `json:"z"`
	IERatio  float64        `json:"ieRatio"`
	RiskBand plan.RiskBand  `json:"riskBand"`
}

// PortfolioSummary aggregates score statistics across the project collection
type PortfolioSummary struct {
	Projects        int     `json:"projects"`
	MeanRice        float64 `json:"meanRice"`
	MedianRice      float64 `json:"medianRice"`
	P90Rice         float64 `json:"p90Rice"`
	MeanDice        float64 `json:"meanDice"`
	HighRiskCount   int     `json:"highRiskCount"`
	MediumRiskCount int     `json:"mediumRiskCount"`
	LowRiskCount    int     `json:"lowRiskCount"`
	// EffortImpactCorr is the Pearson correlation between RICE effort and
	// impact across the portfolio; near 1 suggests the team only rates big
	// bets as impactful.
	EffortImpactCorr float64 `json:"effortImpactCorr"`
}

// MatrixData assembles the 2x2 prioritization matrix points for the host chart
func (s *PlannerService) MatrixData() []MatrixPoint {
	projects := s.ListProjects()
	points := make([]MatrixPoint, 0, len(projects))
	for _, p := range projects {
		points = append(points, MatrixPoint{
			ID:       p.ID,
			Title:    p.Title,
			X:        p.Rice.Effort,
			Y:        p.Rice.Impact,
			Z:        p.Rice.Score,
			IERatio:  plan.ImpactEffortRatio(p.Rice.Impact, p.Rice.Effort),
			RiskBand: p.RiskBand(),
		})
	}
	return points
}

// PortfolioAnalytics computes summary statistics over the current portfolio
func (s *PlannerService) PortfolioAnalytics() PortfolioSummary {
	projects := s.ListProjects()
	summary := PortfolioSummary{Projects: len(projects)}
	if len(projects) == 0 {
		return summary
	}

	riceScores := make([]float64, 0, len(projects))
	diceScores := make([]float64, 0, len(projects))
	efforts := make([]float64, 0, len(projects))
	impacts := make([]float64, 0, len(projects))
	for _, p := range projects {
		riceScores = append(riceScores, p.Rice.Score)
		diceScores = append(diceScores, p.Dice.Score)
		efforts = append(efforts, p.Rice.Effort)
		impacts = append(impacts, p.Rice.Impact)
		switch p.RiskBand() {
		case plan.RiskHigh:
			summary.HighRiskCount++
		case plan.RiskMedium:
			summary.MediumRiskCount++
		default:
			summary.LowRiskCount++
		}
	}

	// stats errors only on empty input, which is handled above
	summary.MeanRice, _ = stats.Mean(riceScores)
	summary.MedianRice, _ = stats.Median(riceScores)
	summary.P90Rice, _ = stats.Percentile(riceScores, 90)
	summary.MeanDice, _ = stats.Mean(diceScores)

	if len(projects) > 1 {
		summary.EffortImpactCorr = stat.Correlation(efforts, impacts, nil)
	}
	return summary
}
