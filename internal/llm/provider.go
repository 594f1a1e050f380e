package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/privdiag/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Advise generates privacy guidance for a scored device
	Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AdviseRequest contains the input for advice generation.
// It carries fact names only; raw fact values never reach a provider.
type AdviseRequest struct {
	Score    model.ScoreResult
	Emulator string
	Missing  int // Permissions the collector lacked

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AdviseResponse contains the LLM output
type AdviseResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Strict rejects advice that echoes a raw sensitive fact value
	Strict bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		Strict:    true,
		MaxTokens: 600,
	}
}

const systemPrompt = "You are a privacy advisor for Android device owners. You only describe which identifiers are exposed and how to reduce that exposure."

// BuildPrompt constructs the default advice prompt
func BuildPrompt(req AdviseRequest) string {
	var sb strings.Builder

	sb.WriteString(`A privacy diagnostic scored an Android device. The score is a heuristic: 100 means no exposed identifiers were observed.

RULES:
1. Only discuss the exposed identifiers listed below.
2. Never invent identifier values, serial numbers or addresses.
3. Give concrete settings changes where possible.
4. Do not change or dispute the score.

`)
	fmt.Fprintf(&sb, "Privacy Score: %d/100\n", req.Score.Score)
	fmt.Fprintf(&sb, "Risk Level: %s\n", req.Score.RiskLevel)
	if req.Emulator != "" {
		fmt.Fprintf(&sb, "Device Type: %s\n", req.Emulator)
	}
	if req.Missing > 0 {
		fmt.Fprintf(&sb, "Permissions not granted to the scanner: %d\n", req.Missing)
	}

	sb.WriteString("\nExposed identifiers:\n")
	exposed := req.Score.ExposedFacts()
	if len(exposed) == 0 {
		sb.WriteString("- (none)\n")
	}
	for _, name := range exposed {
		fmt.Fprintf(&sb, "- %s\n", name)
	}

	sb.WriteString("\nProvide 3-5 short recommendations.")
	return sb.String()
}

func resolveModel(req AdviseRequest, config Config, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return fallback
}

func resolveMaxTokens(req AdviseRequest, config Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if config.MaxTokens > 0 {
		return config.MaxTokens
	}
	return 600
}
