package nfc

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// nilBytes is what the formatters print for an absent byte field
const nilBytes = "null"

// BytesToHex renders each byte as two uppercase hex digits, no separator
func BytesToHex(b []byte) string {
	if b == nil {
		return nilBytes
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

// BytesToDecimal renders each byte's unsigned value joined with ", "
func BytesToDecimal(b []byte) string {
	if b == nil {
		return nilBytes
	}
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ", ")
}

// HexToBytes decodes the output of BytesToHex (case-insensitive)
func HexToBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex %q: %w", s, err)
	}
	return b, nil
}

// byteHex renders a single-byte field as 0xNN; values outside 0-255 are an error
func byteHex(field string, v int) (string, error) {
	if v < 0 || v > 0xFF {
		return "", fmt.Errorf("%s out of byte range: %d", field, v)
	}
	return fmt.Sprintf("0x%02X", v), nil
}
