package score

import (
	"strings"

	"github.com/ppiankov/privdiag/internal/model"
)

// exposureCheck deducts weight when fact differs from its sentinel
type exposureCheck struct {
	fact   model.FactName
	weight int
}

// Weights and order are fixed; they carry no calibration.
var exposureChecks = []exposureCheck{
	{fact: model.FactDeviceSerial, weight: 15},
	{fact: model.FactWifiMac, weight: 10},
	{fact: model.FactBluetoothMac, weight: 10},
	{fact: model.FactLocationMode, weight: 15},
	{fact: model.FactNetworkType, weight: 5},
	{fact: model.FactPhoneNumber, weight: 10},
	{fact: model.FactSimSerial, weight: 10},
}

const (
	maxScore = 100
	minScore = 0
)

var recommendations = map[model.RiskLevel]string{
	model.RiskLow:      "Good privacy practices. Consider disabling location services when not needed.",
	model.RiskMedium:   "Moderate privacy exposure. Review app permissions and disable unnecessary features.",
	model.RiskHigh:     "High privacy exposure. Consider using privacy-focused apps and VPN services.",
	model.RiskVeryHigh: "Very high privacy exposure. Immediate action recommended: review all permissions, use privacy tools.",
}

// Scorer calculates the privacy score of a fact snapshot
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate deducts a fixed weight for every exposed sensitive fact.
// Missing facts count as unavailable. It never fails.
func (s *Scorer) Calculate(facts model.FactSet) model.ScoreResult {
	total := maxScore
	deductions := make([]model.Deduction, 0, len(exposureChecks))

	for _, check := range exposureChecks {
		sentinel := model.Sentinel(check.fact)
		observed := facts.Value(check.fact)
		if observed == sentinel {
			continue
		}
		total -= check.weight
		deductions = append(deductions, model.Deduction{
			Fact:     check.fact,
			Weight:   check.weight,
			Sentinel: sentinel,
			Observed: Mask(observed),
		})
	}

	total = clamp(total)
	level := RiskLevelFor(total)

	return model.ScoreResult{
		Score:          total,
		RiskLevel:      level,
		Recommendation: recommendations[level],
		Deductions:     deductions,
	}
}

// MaxDeduction is the sum of all check weights
func MaxDeduction() int {
	sum := 0
	for _, c := range exposureChecks {
		sum += c.weight
	}
	return sum
}

// RiskLevelFor maps a score to its band
func RiskLevelFor(score int) model.RiskLevel {
	if score >= 80 {
		return model.RiskLow
	} else if score >= 60 {
		return model.RiskMedium
	} else if score >= 40 {
		return model.RiskHigh
	}
	return model.RiskVeryHigh
}

// Recommendation returns the fixed advice text for a band
func Recommendation(level model.RiskLevel) string {
	return recommendations[level]
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// Mask hides all but the last two characters of a sensitive value
func Mask(value string) string {
	runes := []rune(value)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-2:])
}
