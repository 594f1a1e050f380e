package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceReport is the complete result of one device privacy scan
type DeviceReport struct {
	ID        uuid.UUID   `json:"id"`                // Report identifier
	Source    string      `json:"source"`            // Where the facts came from (file path, adb:<serial>)
	Device    string      `json:"device,omitempty"`  // Human label, e.g. "Google Pixel 7"
	ScannedAt time.Time   `json:"scanned_at"`        // When the facts were collected
	Facts     FactSet     `json:"facts"`             // Snapshot the score was computed from
	Score     ScoreResult `json:"score"`             // Privacy score breakdown
	Emulator  string      `json:"emulator"`          // "Emulator detected" or "Real device"
	Missing   []string    `json:"missing,omitempty"` // Permissions the collector lacked

	Advice *Advice `json:"advice,omitempty"` // Optional LLM advice (separate, never affects score)
}

// NewDeviceReport stamps a fresh report id and scan time
func NewDeviceReport(source string, facts FactSet, score ScoreResult) *DeviceReport {
	return &DeviceReport{
		ID:        uuid.New(),
		Source:    source,
		Device:    DeviceLabel(facts),
		ScannedAt: time.Now().UTC(),
		Facts:     facts,
		Score:     score,
	}
}

// DeviceLabel builds "Manufacturer Model" from the facts, if known
func DeviceLabel(facts FactSet) string {
	manufacturer, okM := facts.Lookup(FactManufacturer)
	deviceModel, okD := facts.Lookup(FactModel)
	switch {
	case okM && okD:
		return manufacturer + " " + deviceModel
	case okD:
		return deviceModel
	case okM:
		return manufacturer
	default:
		return ""
	}
}

// Advice contains optional LLM-generated guidance
type Advice struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"` // openai, ollama
	Model      string   `json:"model,omitempty"`
	Strict     bool     `json:"strict"` // Whether echoed-value checking was enabled
	Text       string   `json:"text,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
}
