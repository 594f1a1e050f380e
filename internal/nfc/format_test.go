package nfc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/privdiag/internal/model"
)

func TestBytesToHex(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{0x00, 0xFF, 0x0A}, "00FF0A"},
		{[]byte{0xde, 0xad}, "DEAD"},
		{[]byte{}, ""},
		{nil, "null"},
	}

	for _, tt := range tests {
		if got := BytesToHex(tt.in); got != tt.want {
			t.Errorf("BytesToHex(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHexToBytes_RoundTrip(t *testing.T) {
	in := []byte{0x00, 0xFF, 0x0A, 0x7F}

	out, err := HexToBytes(BytesToHex(in))
	if err != nil {
		t.Fatalf("HexToBytes failed: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Errorf("Round trip mismatch: %v != %v", in, out)
	}

	lower, err := HexToBytes("00ff0a")
	if err != nil || !bytes.Equal(lower, []byte{0x00, 0xFF, 0x0A}) {
		t.Errorf("Lowercase decode failed: %v, %v", lower, err)
	}

	if _, err := HexToBytes("ABC"); err == nil {
		t.Error("Expected error for odd-length input")
	}
}

func TestBytesToDecimal(t *testing.T) {
	if got := BytesToDecimal([]byte{0x00, 0xFF}); got != "0, 255" {
		t.Errorf("BytesToDecimal = %q, want %q", got, "0, 255")
	}
	if got := BytesToDecimal(nil); got != "null" {
		t.Errorf("BytesToDecimal(nil) = %q", got)
	}
}

func TestByteHex(t *testing.T) {
	if got, err := byteHex("SAK", 8); err != nil || got != "0x08" {
		t.Errorf("byteHex(8) = %q, %v", got, err)
	}
	if _, err := byteHex("SAK", 256); err == nil {
		t.Error("Expected error for value outside a byte")
	}
}

func TestLoadTag(t *testing.T) {
	dump := `id: "04:A2:2B"
technologies:
  - android.nfc.tech.NfcA
  - android.nfc.tech.Ndef
attributes:
  android.nfc.tech.NfcA:
    nfc_a:
      atqa: "4400"
      sak: 0
      max_transceive_length: 253
  Ndef:
    ndef:
      type: org.nfcforum.ndef.type2
      writable: false
      max_size: 46
scanned_at: "2024-03-01T12:30:00Z"
`
	path := filepath.Join(t.TempDir(), "tag.yaml")
	if err := os.WriteFile(path, []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}

	tag, err := LoadTag(path)
	if err != nil {
		t.Fatalf("LoadTag failed: %v", err)
	}

	if BytesToHex(tag.ID) != "04A22B" {
		t.Errorf("Unexpected id: %s", BytesToHex(tag.ID))
	}
	if len(tag.Technologies) != 2 {
		t.Errorf("Expected 2 technologies, got %v", tag.Technologies)
	}
	nfcA, ok := tag.Attributes[model.TechNfcA]
	if !ok || nfcA.NfcA == nil || nfcA.NfcA.MaxTransceiveLength != 253 {
		t.Errorf("NfcA attributes not decoded: %+v", tag.Attributes)
	}
	if _, ok := tag.Attributes[model.TechNdef]; !ok {
		t.Error("Expected short-name Ndef attributes")
	}
	if tag.ScannedAt.IsZero() {
		t.Error("Expected scan time")
	}
}

func TestParseTag_JSON(t *testing.T) {
	tag, err := ParseTag([]byte(`{"id": "0102", "technologies": ["IsoDep"], "attributes": {"IsoDep": {"iso_dep": {"historical_bytes": "8031"}}}}`))
	if err != nil {
		t.Fatalf("ParseTag failed: %v", err)
	}
	iso := tag.Attributes[model.TechIsoDep].IsoDep
	if iso == nil || BytesToHex(iso.HistoricalBytes) != "8031" {
		t.Errorf("IsoDep attributes not decoded: %+v", tag.Attributes)
	}
}

func TestLoadTag_Missing(t *testing.T) {
	if _, err := LoadTag(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
