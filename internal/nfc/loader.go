package nfc

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/privdiag/internal/model"
)

// LoadTag reads a tag dump from a YAML or JSON file
func LoadTag(path string) (model.TagDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.TagDescriptor{}, fmt.Errorf("read tag file: %w", err)
	}
	return ParseTag(data)
}

// ParseTag decodes a tag dump. JSON is valid YAML, so one decoder serves both.
// Attribute keys may use Android class names (android.nfc.tech.NfcA).
func ParseTag(data []byte) (model.TagDescriptor, error) {
	var raw struct {
		ID           model.HexBytes                  `yaml:"id"`
		Technologies []string                        `yaml:"technologies"`
		Attributes   map[string]model.TechAttributes `yaml:"attributes"`
		ScannedAt    yaml.Node                       `yaml:"scanned_at"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return model.TagDescriptor{}, fmt.Errorf("parse tag: %w", err)
	}

	tag := model.TagDescriptor{
		ID:           raw.ID,
		Technologies: raw.Technologies,
	}

	if len(raw.Attributes) > 0 {
		tag.Attributes = make(map[model.TechnologyName]model.TechAttributes, len(raw.Attributes))
		for key, attrs := range raw.Attributes {
			kind := model.ParseTechnology(key)
			if kind == model.TechUnknown {
				kind = model.TechnologyName(key) // validate reports it
			}
			tag.Attributes[kind] = attrs
		}
	}

	if raw.ScannedAt.Value != "" {
		scannedAt, err := time.Parse(time.RFC3339, raw.ScannedAt.Value)
		if err != nil {
			return model.TagDescriptor{}, fmt.Errorf("parse scanned_at: %w", err)
		}
		tag.ScannedAt = scannedAt
	}

	return tag, nil
}
