package plan

// Scoring formulas from the DICE and RICE methodologies. The weights and
// band thresholds are the methodology's published constants; do not re-derive
// them.

// RiskBand classifies a DICE score
type RiskBand string

const (
	RiskHigh   RiskBand = "high"
	RiskMedium RiskBand = "medium"
	RiskLow    RiskBand = "low"
)

// DiceScore computes the weighted DICE sum. Integrity and commitment weigh
// twice as much as duration and effort. Higher = riskier.
func DiceScore(duration, integrity, commitment, effort int) float64 {
	return float64(duration + 2*integrity + 2*commitment + effort)
}

// DiceRiskBand maps a DICE score to its risk band. Boundaries are exclusive:
// exactly 14 is still low, exactly 20 is still medium.
func DiceRiskBand(score float64) RiskBand {
	switch {
	case score > 20:
		return RiskHigh
	case score > 14:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiceScore computes (reach * impact * confidence) / effort.
//
// Zero or negative effort substitutes 1, the same rule the impact/effort
// ratio uses, so the function is total and a half-filled planner row never
// divides by zero.
func RiceScore(reach, impact, confidence, effort float64) float64 {
	return (reach * impact * confidence) / positiveEffort(effort)
}

// ImpactEffortRatio computes the priority ratio used by the 2x2 matrix view
func ImpactEffortRatio(impact, effort float64) float64 {
	return impact / positiveEffort(effort)
}

func positiveEffort(effort float64) float64 {
	if effort <= 0 {
		return 1
	}
	return effort
}
