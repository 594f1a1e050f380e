package nfc

import (
	"errors"
	"fmt"

	"github.com/ppiankov/privdiag/internal/model"
)

// errNoAttributes is reported when the reader listed a technology without its bundle
var errNoAttributes = errors.New("no attributes reported")

// analyzer turns one technology's attribute bundle into report lines
type analyzer func(attrs model.TechAttributes) ([]string, error)

var analyzers = map[model.TechnologyName]analyzer{
	model.TechIsoDep: analyzeIsoDep,
	model.TechNdef:   analyzeNdef,
	model.TechNfcA:   analyzeNfcA,
	model.TechNfcB:   analyzeNfcB,
	model.TechNfcF:   analyzeNfcF,
	model.TechNfcV:   analyzeNfcV,
}

func analyzeIsoDep(attrs model.TechAttributes) ([]string, error) {
	iso := attrs.IsoDep
	if iso == nil {
		return nil, errNoAttributes
	}

	lines := []string{
		"ISO14443A (ISO-DEP) Analysis:",
		"• Technology: ISO14443A - commonly used in passports, credit cards",
		"• Communication: Can transmit personal identification data",
		"• Security: May require authentication (PIN, password)",
		"• Data Types: Personal info, biometric data, travel history",
	}
	if len(iso.HistoricalBytes) > 0 {
		lines = append(lines, "• Historical Bytes: "+BytesToHex(iso.HistoricalBytes))
	}
	return lines, nil
}

func analyzeNdef(attrs model.TechAttributes) ([]string, error) {
	ndef := attrs.Ndef
	if ndef == nil {
		return nil, errNoAttributes
	}

	lines := []string{
		"NDEF Analysis:",
		"• Type: " + ndef.Type,
		"• Writable: " + model.YesNo(ndef.Writable),
		fmt.Sprintf("• Size: %d bytes", ndef.MaxSize),
	}

	// Unreadable content degrades to a note, never a section error
	switch {
	case ndef.ReadError != "":
		lines = append(lines, "• Could not read NDEF content: "+ndef.ReadError)
	case ndef.Message != nil:
		lines = append(lines, fmt.Sprintf("• NDEF Records: %d", len(ndef.Message.Records)))
		for i, record := range ndef.Message.Records {
			lines = append(lines, fmt.Sprintf("  Record %d: %d - %s", i+1, record.TNF, BytesToHex(record.Type)))
		}
	}
	return lines, nil
}

func analyzeNfcA(attrs model.TechAttributes) ([]string, error) {
	a := attrs.NfcA
	if a == nil {
		return nil, errNoAttributes
	}

	sak, err := byteHex("SAK", a.SAK)
	if err != nil {
		return nil, err
	}

	return []string{
		"NFC-A (ISO14443A) Analysis:",
		"• Technology: ISO14443A - used in passports, credit cards, access cards",
		"• ATQA: " + BytesToHex(a.ATQA),
		"• SAK: " + sak,
		fmt.Sprintf("• Max Transceive Length: %d bytes", a.MaxTransceiveLength),
	}, nil
}

func analyzeNfcB(attrs model.TechAttributes) ([]string, error) {
	b := attrs.NfcB
	if b == nil {
		return nil, errNoAttributes
	}

	return []string{
		"NFC-B (ISO14443B) Analysis:",
		"• Technology: ISO14443B - used in some government IDs, transit cards",
		"• Application Data: " + BytesToHex(b.ApplicationData),
		"• Protocol Info: " + BytesToHex(b.ProtocolInfo),
		fmt.Sprintf("• Max Transceive Length: %d bytes", b.MaxTransceiveLength),
	}, nil
}

func analyzeNfcF(attrs model.TechAttributes) ([]string, error) {
	f := attrs.NfcF
	if f == nil {
		return nil, errNoAttributes
	}

	return []string{
		"NFC-F (FeliCa) Analysis:",
		"• Technology: FeliCa - used in Japanese transit cards, some payment systems",
		fmt.Sprintf("• Max Transceive Length: %d bytes", f.MaxTransceiveLength),
	}, nil
}

func analyzeNfcV(attrs model.TechAttributes) ([]string, error) {
	v := attrs.NfcV
	if v == nil {
		return nil, errNoAttributes
	}

	flags, err := byteHex("response flags", v.ResponseFlags)
	if err != nil {
		return nil, err
	}
	dsfid, err := byteHex("DSF ID", v.DSFID)
	if err != nil {
		return nil, err
	}

	return []string{
		"NFC-V (ISO15693) Analysis:",
		"• Technology: ISO15693 - used in library books, some access cards",
		"• Response Flags: " + flags,
		"• DSF ID: " + dsfid,
		fmt.Sprintf("• Max Transceive Length: %d bytes", v.MaxTransceiveLength),
	}, nil
}
