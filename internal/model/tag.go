package model

import (
	"strings"
	"time"
)

// TechnologyName is a low-level NFC communication mode a tag supports
type TechnologyName string

const (
	TechIsoDep  TechnologyName = "IsoDep"
	TechNdef    TechnologyName = "Ndef"
	TechNfcA    TechnologyName = "NfcA"
	TechNfcB    TechnologyName = "NfcB"
	TechNfcF    TechnologyName = "NfcF"
	TechNfcV    TechnologyName = "NfcV"
	TechUnknown TechnologyName = "Unknown"
)

const androidTechPrefix = "android.nfc.tech."

// ParseTechnology maps a reported technology string to a TechnologyName.
// Both "IsoDep" and "android.nfc.tech.IsoDep" are accepted.
func ParseTechnology(reported string) TechnologyName {
	name := strings.TrimPrefix(strings.TrimSpace(reported), androidTechPrefix)
	switch TechnologyName(name) {
	case TechIsoDep, TechNdef, TechNfcA, TechNfcB, TechNfcF, TechNfcV:
		return TechnologyName(name)
	default:
		return TechUnknown
	}
}

// TagDescriptor is everything the tag reader reported for one touch
type TagDescriptor struct {
	ID           HexBytes                          `json:"id" yaml:"id"`
	Technologies []string                          `json:"technologies" yaml:"technologies"` // As reported, in device order
	Attributes   map[TechnologyName]TechAttributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	ScannedAt    time.Time                         `json:"scanned_at,omitempty" yaml:"scanned_at,omitempty"`
}

// HasTechnology reports whether any reported technology maps to tech
func (t TagDescriptor) HasTechnology(tech TechnologyName) bool {
	for _, reported := range t.Technologies {
		if ParseTechnology(reported) == tech {
			return true
		}
	}
	return false
}

// TechAttributes is the raw attribute bundle for one technology.
// Exactly one bundle pointer is expected to be set; Error marks a failed lookup.
type TechAttributes struct {
	Error  string            `json:"error,omitempty" yaml:"error,omitempty"`
	IsoDep *IsoDepAttributes `json:"iso_dep,omitempty" yaml:"iso_dep,omitempty"`
	Ndef   *NdefAttributes   `json:"ndef,omitempty" yaml:"ndef,omitempty"`
	NfcA   *NfcAAttributes   `json:"nfc_a,omitempty" yaml:"nfc_a,omitempty"`
	NfcB   *NfcBAttributes   `json:"nfc_b,omitempty" yaml:"nfc_b,omitempty"`
	NfcF   *NfcFAttributes   `json:"nfc_f,omitempty" yaml:"nfc_f,omitempty"`
	NfcV   *NfcVAttributes   `json:"nfc_v,omitempty" yaml:"nfc_v,omitempty"`
}

// IsoDepAttributes holds ISO-DEP (ISO14443-4) data
type IsoDepAttributes struct {
	HistoricalBytes HexBytes `json:"historical_bytes,omitempty" yaml:"historical_bytes,omitempty"`
}

// NdefAttributes holds NDEF tag data
type NdefAttributes struct {
	Type      string       `json:"type" yaml:"type"`
	Writable  bool         `json:"writable" yaml:"writable"`
	MaxSize   int          `json:"max_size" yaml:"max_size"`
	Message   *NdefMessage `json:"message,omitempty" yaml:"message,omitempty"`
	ReadError string       `json:"read_error,omitempty" yaml:"read_error,omitempty"` // Set when content was unreadable
}

// NdefMessage is the cached NDEF message read from the tag
type NdefMessage struct {
	Records []NdefRecord `json:"records" yaml:"records"`
}

// NdefRecord is one record of an NDEF message
type NdefRecord struct {
	TNF     int      `json:"tnf" yaml:"tnf"`
	Type    HexBytes `json:"type,omitempty" yaml:"type,omitempty"`
	Payload HexBytes `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// NfcAAttributes holds ISO14443-A data
type NfcAAttributes struct {
	ATQA                HexBytes `json:"atqa" yaml:"atqa"`
	SAK                 int      `json:"sak" yaml:"sak"`
	MaxTransceiveLength int      `json:"max_transceive_length" yaml:"max_transceive_length"`
}

// NfcBAttributes holds ISO14443-B data
type NfcBAttributes struct {
	ApplicationData     HexBytes `json:"application_data" yaml:"application_data"`
	ProtocolInfo        HexBytes `json:"protocol_info" yaml:"protocol_info"`
	MaxTransceiveLength int      `json:"max_transceive_length" yaml:"max_transceive_length"`
}

// NfcFAttributes holds FeliCa data
type NfcFAttributes struct {
	MaxTransceiveLength int `json:"max_transceive_length" yaml:"max_transceive_length"`
}

// NfcVAttributes holds ISO15693 data
type NfcVAttributes struct {
	ResponseFlags       int `json:"response_flags" yaml:"response_flags"`
	DSFID               int `json:"dsf_id" yaml:"dsf_id"`
	MaxTransceiveLength int `json:"max_transceive_length" yaml:"max_transceive_length"`
}
