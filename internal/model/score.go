package model

// RiskLevel is the four-tier privacy risk classification
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "VeryHigh"
)

// Label returns the display label used in text reports
func (r RiskLevel) Label() string {
	switch r {
	case RiskLow:
		return "Low Risk 🟢"
	case RiskMedium:
		return "Medium Risk 🟡"
	case RiskHigh:
		return "High Risk 🟠"
	case RiskVeryHigh:
		return "Very High Risk 🔴"
	default:
		return string(r)
	}
}

// ScoreResult is the privacy score derived from one FactSet
type ScoreResult struct {
	Score          int         `json:"score"`          // 0-100, higher is more private
	RiskLevel      RiskLevel   `json:"risk_level"`     // Derived from score bands
	Recommendation string      `json:"recommendation"` // Fixed text per band
	Deductions     []Deduction `json:"deductions"`     // Checks that fired, in table order
}

// Deduction records one fired exposure check
type Deduction struct {
	Fact     FactName `json:"fact"`
	Weight   int      `json:"weight"`
	Sentinel string   `json:"sentinel"`
	Observed string   `json:"observed"` // Masked observed value
}

// ExposedFacts returns the names of the facts that cost points
func (s ScoreResult) ExposedFacts() []FactName {
	names := make([]FactName, 0, len(s.Deductions))
	for _, d := range s.Deductions {
		names = append(names, d.Fact)
	}
	return names
}
