package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/privdiag/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *AdviseResponse
	err       error
	lastReq   AdviseRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func exposedReport() *model.DeviceReport {
	facts := model.NewFactSetBuilder().
		Set(model.FactDeviceSerial, "R58N123ABC").
		Set(model.FactWifiMac, "AA:BB:CC:DD:EE:FF").
		Unavailable(model.FactPhoneNumber).
		Build()
	return &model.DeviceReport{
		Source: "snapshot.yaml",
		Facts:  facts,
		Score: model.ScoreResult{
			Score:     75,
			RiskLevel: model.RiskMedium,
			Deductions: []model.Deduction{
				{Fact: model.FactDeviceSerial, Weight: 15},
				{Fact: model.FactWifiMac, Weight: 10},
			},
		},
		Emulator: "Real device",
	}
}

func TestNewAdvisor_DisabledProvider(t *testing.T) {
	advisor, err := NewAdvisor(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if advisor.IsEnabled() {
		t.Error("Expected advisor to be disabled")
	}
	if advisor.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	advice, err := advisor.Advise(context.Background(), exposedReport())
	if err != nil || advice != nil {
		t.Errorf("Expected nil advice and no error when disabled, got %v, %v", advice, err)
	}
}

func TestNewAdvisor_UnknownProvider(t *testing.T) {
	if _, err := NewAdvisor(Config{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

func TestAdvisor_ProviderUnavailable(t *testing.T) {
	advisor := newAdvisor(&MockProvider{name: "mock", available: false}, Config{Strict: true})

	advice, err := advisor.Advise(context.Background(), exposedReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if advice == nil || advice.Enabled {
		t.Fatal("Expected disabled advice with warnings")
	}
	if len(advice.Warnings) == 0 || !strings.Contains(advice.Warnings[0], "not available") {
		t.Errorf("Expected availability warning, got %v", advice.Warnings)
	}
}

func TestAdvisor_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "mock",
		available: true,
		response:  &AdviseResponse{Text: "Randomize your WiFi MAC address.", Model: "m1", TokensUsed: 42},
	}
	advisor := newAdvisor(mock, Config{Strict: true, MaxTokens: 300})

	report := exposedReport()
	before := report.Score

	advice, err := advisor.Advise(context.Background(), report)
	if err != nil {
		t.Fatalf("Advise failed: %v", err)
	}
	if !advice.Enabled || advice.Text == "" || advice.TokensUsed != 42 || advice.Model != "m1" {
		t.Errorf("Unexpected advice: %+v", advice)
	}
	if report.Score.Score != before.Score || report.Score.RiskLevel != before.RiskLevel {
		t.Error("Advice must not change the score")
	}
	if mock.lastReq.MaxTokens != 300 {
		t.Errorf("Expected max tokens to be forwarded, got %d", mock.lastReq.MaxTokens)
	}
}

func TestAdvisor_ProviderError(t *testing.T) {
	mock := &MockProvider{name: "mock", available: true, err: errors.New("boom")}
	advisor := newAdvisor(mock, Config{})

	if _, err := advisor.Advise(context.Background(), exposedReport()); err == nil {
		t.Error("Expected provider error")
	}
}

func TestAdvisor_StrictRejectsEchoedValue(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"exact serial", "Your serial R58N123ABC is visible."},
		{"lowercase mac", "The address aa:bb:cc:dd:ee:ff can be tracked."},
		{"mac without separators", "Address AABBCCDDEEFF was seen."},
	}

	for _, tt := range tests {
		mock := &MockProvider{name: "mock", available: true, response: &AdviseResponse{Text: tt.text}}
		advisor := newAdvisor(mock, Config{Strict: true})

		_, err := advisor.Advise(context.Background(), exposedReport())
		if !errors.Is(err, ErrLeak) {
			t.Errorf("%s: expected LEAK error, got %v", tt.name, err)
			continue
		}
		if strings.Contains(err.Error(), "R58N123ABC") {
			t.Errorf("%s: leak error must not repeat the value", tt.name)
		}
	}
}

func TestAdvisor_NonStrictAllowsEcho(t *testing.T) {
	mock := &MockProvider{name: "mock", available: true, response: &AdviseResponse{Text: "Serial R58N123ABC"}}
	advisor := newAdvisor(mock, Config{Strict: false})

	advice, err := advisor.Advise(context.Background(), exposedReport())
	if err != nil {
		t.Fatalf("Expected no error in non-strict mode, got %v", err)
	}
	if advice.Strict {
		t.Error("Expected strict flag to be false")
	}
}

func TestAdvisor_SentinelIsNotALeak(t *testing.T) {
	mock := &MockProvider{name: "mock", available: true, response: &AdviseResponse{Text: "Phone number: Permission required."}}
	advisor := newAdvisor(mock, Config{Strict: true})

	if _, err := advisor.Advise(context.Background(), exposedReport()); err != nil {
		t.Errorf("Sentinel text should not count as a leak: %v", err)
	}
}

func TestAdvisor_PlaceholderIsNotALeak(t *testing.T) {
	report := exposedReport()
	report.Facts = model.NewFactSetBuilder().
		Set(model.FactDeviceSerial, "R58N123ABC").
		Set(model.FactAdvertisingID, model.PlaceholderPlayServices).
		Build()

	mock := &MockProvider{name: "mock", available: true, response: &AdviseResponse{
		Text: "Advertising ID: Requires Google Play Services, so reset it from Play settings.",
	}}
	advisor := newAdvisor(mock, Config{Strict: true})

	if _, err := advisor.Advise(context.Background(), report); err != nil {
		t.Errorf("Placeholder text should not count as a leak: %v", err)
	}
}

func TestBuildPrompt_NamesOnly(t *testing.T) {
	report := exposedReport()
	prompt := BuildPrompt(AdviseRequest{Score: report.Score, Emulator: report.Emulator, Missing: 2})

	for _, want := range []string{"75/100", "Medium", "- deviceSerial", "- wifiMac", "Real device", "not granted to the scanner: 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected %q in prompt:\n%s", want, prompt)
		}
	}
	for _, raw := range []string{"R58N123ABC", "AA:BB:CC"} {
		if strings.Contains(prompt, raw) {
			t.Errorf("Prompt must not contain raw value %q", raw)
		}
	}
}

func TestBuildPrompt_NothingExposed(t *testing.T) {
	prompt := BuildPrompt(AdviseRequest{Score: model.ScoreResult{Score: 100, RiskLevel: model.RiskLow}})
	if !strings.Contains(prompt, "- (none)") {
		t.Errorf("Expected empty exposure marker:\n%s", prompt)
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{Provider: "ollama", Model: "llama3", Timeout: 5, Strict: true, MaxTokens: 100})
	if cfg.Provider != "ollama" || cfg.Model != "llama3" || !cfg.Strict || cfg.MaxTokens != 100 || cfg.Timeout != 5 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "" {
		t.Error("Expected LLM disabled by default")
	}
	if !cfg.Strict {
		t.Error("Expected strict mode by default")
	}
}
