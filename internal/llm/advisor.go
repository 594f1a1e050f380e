package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/validate"
)

// ErrLeak is returned in strict mode when advice repeats a raw sensitive value
var ErrLeak = errors.New("LEAK")

// Advisor generates optional advice for a scored device.
// Advice is produced after scoring and never changes the score.
type Advisor struct {
	provider   Provider
	config     Config
	classifier *validate.SensitivityClassifier
}

// NewAdvisor creates an advisor; an empty provider yields a disabled advisor
func NewAdvisor(config Config) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return newAdvisor(provider, config), nil
}

func newAdvisor(provider Provider, config Config) *Advisor {
	return &Advisor{
		provider:   provider,
		config:     config,
		classifier: validate.NewSensitivityClassifier(),
	}
}

// IsEnabled reports whether a provider is configured
func (a *Advisor) IsEnabled() bool {
	return a.provider != nil
}

// ProviderName returns the configured provider name, or ""
func (a *Advisor) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// Advise asks the provider for guidance on report.
// It returns nil, nil when disabled.
func (a *Advisor) Advise(ctx context.Context, report *model.DeviceReport) (*model.Advice, error) {
	if a.provider == nil {
		return nil, nil
	}

	advice := &model.Advice{
		Provider: a.provider.Name(),
		Strict:   a.config.Strict,
	}

	if !a.provider.IsAvailable(ctx) {
		advice.Warnings = append(advice.Warnings, fmt.Sprintf("LLM provider %s is not available", a.provider.Name()))
		return advice, nil
	}

	resp, err := a.provider.Advise(ctx, AdviseRequest{
		Score:     report.Score,
		Emulator:  report.Emulator,
		Missing:   len(report.Missing),
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	if a.config.Strict {
		if err := a.checkLeak(resp.Text, report.Facts); err != nil {
			return nil, err
		}
	}

	advice.Enabled = true
	advice.Model = resp.Model
	advice.Text = resp.Text
	advice.TokensUsed = resp.TokensUsed
	return advice, nil
}

// checkLeak fails when text contains any sensitive fact value.
// Matching ignores case and MAC-style separators.
func (a *Advisor) checkLeak(text string, facts model.FactSet) error {
	haystack := compact(text)
	for _, value := range a.classifier.SensitiveValues(facts) {
		needle := compact(value)
		if needle == "" {
			continue
		}
		if strings.Contains(haystack, needle) {
			return fmt.Errorf("%w: advice echoed a raw sensitive value", ErrLeak)
		}
	}
	return nil
}

var separators = strings.NewReplacer(":", "", "-", "", " ", "")

func compact(s string) string {
	return strings.ToLower(separators.Replace(s))
}
