package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// HexBytes is a byte slice that serialises as an uppercase hex string.
// Tag dumps carry ids and protocol fields this way.
type HexBytes []byte

// String renders the bytes as uppercase hex
func (h HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(h))
}

// MarshalJSON implements json.Marshaler
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("hex bytes: %w", err)
	}
	return h.set(s)
}

// MarshalYAML implements yaml.Marshaler
func (h HexBytes) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (h *HexBytes) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("hex bytes: %w", err)
	}
	return h.set(s)
}

func (h *HexBytes) set(s string) error {
	s = strings.NewReplacer(":", "", " ", "").Replace(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("hex bytes %q: %w", s, err)
	}
	*h = decoded
	return nil
}
