package score

import (
	"strings"
	"testing"

	"github.com/ppiankov/privdiag/internal/model"
)

func allSentinels() map[model.FactName]string {
	values := make(map[model.FactName]string)
	for _, c := range exposureChecks {
		values[c.fact] = model.Sentinel(c.fact)
	}
	return values
}

func allExposed() map[model.FactName]string {
	return map[model.FactName]string{
		model.FactDeviceSerial: "R58M123ABC",
		model.FactWifiMac:      "02:00:00:00:00:00",
		model.FactBluetoothMac: "AC:37:43:11:22:33",
		model.FactLocationMode: "High Accuracy",
		model.FactNetworkType:  "WIFI",
		model.FactPhoneNumber:  "+15555550100",
		model.FactSimSerial:    "8901260000000000000",
	}
}

func TestScorer_Calculate_AllExposed(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.NewFactSet(allExposed()))

	if result.Score != 25 {
		t.Errorf("Expected score 25, got %d", result.Score)
	}
	if result.RiskLevel != model.RiskVeryHigh {
		t.Errorf("Expected VeryHigh, got %s", result.RiskLevel)
	}
	if len(result.Deductions) != 7 {
		t.Errorf("Expected 7 deductions, got %d", len(result.Deductions))
	}
	if result.Recommendation != recommendations[model.RiskVeryHigh] {
		t.Errorf("Unexpected recommendation: %s", result.Recommendation)
	}
}

func TestScorer_Calculate_AllSentinels(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.NewFactSet(allSentinels()))

	if result.Score != 100 {
		t.Errorf("Expected score 100, got %d", result.Score)
	}
	if result.RiskLevel != model.RiskLow {
		t.Errorf("Expected Low, got %s", result.RiskLevel)
	}
	if len(result.Deductions) != 0 {
		t.Errorf("Expected no deductions, got %v", result.Deductions)
	}
}

func TestScorer_Calculate_EmptyFactSet(t *testing.T) {
	scorer := NewScorer()

	// Missing facts are treated as unavailable
	result := scorer.Calculate(model.FactSet{})

	if result.Score != 100 {
		t.Errorf("Expected score 100 for empty facts, got %d", result.Score)
	}
	if result.RiskLevel != model.RiskLow {
		t.Errorf("Expected Low, got %s", result.RiskLevel)
	}
}

func TestScorer_Calculate_SerialOnly(t *testing.T) {
	scorer := NewScorer()

	values := allSentinels()
	values[model.FactDeviceSerial] = "ABC123"

	result := scorer.Calculate(model.NewFactSet(values))

	if result.Score != 85 {
		t.Errorf("Expected score 85, got %d", result.Score)
	}
	if result.RiskLevel != model.RiskLow {
		t.Errorf("Expected Low, got %s", result.RiskLevel)
	}
	if len(result.Deductions) != 1 || result.Deductions[0].Fact != model.FactDeviceSerial {
		t.Fatalf("Expected single serial deduction, got %v", result.Deductions)
	}
	if result.Deductions[0].Observed != "****23" {
		t.Errorf("Expected masked observed value, got %q", result.Deductions[0].Observed)
	}
}

func TestScorer_Calculate_SentinelIsExact(t *testing.T) {
	scorer := NewScorer()

	values := allSentinels()
	values[model.FactWifiMac] = "not accessible" // wrong case still counts as exposed

	result := scorer.Calculate(model.NewFactSet(values))

	if result.Score != 90 {
		t.Errorf("Expected score 90 for near-miss sentinel, got %d", result.Score)
	}
}

func TestScorer_Calculate_Monotonic(t *testing.T) {
	scorer := NewScorer()
	exposed := allExposed()

	// Flip facts from sentinel to exposed one at a time; the score must never rise.
	values := allSentinels()
	previous := scorer.Calculate(model.NewFactSet(values)).Score
	for _, c := range exposureChecks {
		values[c.fact] = exposed[c.fact]
		current := scorer.Calculate(model.NewFactSet(values)).Score
		if current > previous {
			t.Errorf("Score increased from %d to %d after exposing %s", previous, current, c.fact)
		}
		if previous-current != c.weight {
			t.Errorf("Expected %s to cost %d, cost %d", c.fact, c.weight, previous-current)
		}
		previous = current
	}
}

func TestScorer_Calculate_AlwaysInRange(t *testing.T) {
	scorer := NewScorer()
	exposed := allExposed()

	// Every subset of the seven checks
	for mask := 0; mask < 1<<len(exposureChecks); mask++ {
		values := allSentinels()
		for i, c := range exposureChecks {
			if mask&(1<<i) != 0 {
				values[c.fact] = exposed[c.fact]
			}
		}
		result := scorer.Calculate(model.NewFactSet(values))
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("mask %07b: score %d out of range", mask, result.Score)
		}
		if result.RiskLevel != RiskLevelFor(result.Score) {
			t.Errorf("mask %07b: risk level %s does not match score %d", mask, result.RiskLevel, result.Score)
		}
	}
}

func TestScorer_IgnoresDescriptiveFacts(t *testing.T) {
	scorer := NewScorer()

	values := allSentinels()
	values[model.FactManufacturer] = "Google"
	values[model.FactAndroidID] = "9774d56d682e549c"

	result := scorer.Calculate(model.NewFactSet(values))
	if result.Score != 100 {
		t.Errorf("Descriptive facts should not affect score, got %d", result.Score)
	}
}

func TestRiskLevelFor_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  model.RiskLevel
	}{
		{100, model.RiskLow},
		{80, model.RiskLow},
		{79, model.RiskMedium},
		{60, model.RiskMedium},
		{59, model.RiskHigh},
		{40, model.RiskHigh},
		{39, model.RiskVeryHigh},
		{0, model.RiskVeryHigh},
	}

	for _, tt := range tests {
		if got := RiskLevelFor(tt.score); got != tt.want {
			t.Errorf("RiskLevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(-10); got != 0 {
		t.Errorf("clamp(-10) = %d, want 0", got)
	}
	if got := clamp(130); got != 100 {
		t.Errorf("clamp(130) = %d, want 100", got)
	}
	if got := clamp(55); got != 55 {
		t.Errorf("clamp(55) = %d, want 55", got)
	}
}

func TestMaxDeduction(t *testing.T) {
	if got := MaxDeduction(); got != 75 {
		t.Errorf("Expected total weight 75, got %d", got)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("ab"); got != "**" {
		t.Errorf("Mask(ab) = %q", got)
	}
	if got := Mask("+15555550100"); !strings.HasSuffix(got, "00") || strings.Contains(got, "555") {
		t.Errorf("Mask leaked value: %q", got)
	}
}

func TestRiskLevel_Label(t *testing.T) {
	if !strings.HasPrefix(model.RiskVeryHigh.Label(), "Very High Risk") {
		t.Errorf("Unexpected label: %s", model.RiskVeryHigh.Label())
	}
}
