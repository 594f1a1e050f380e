package validate

import (
	"regexp"
	"sort"

	"github.com/ppiankov/privdiag/internal/model"
)

// Sensitivity tiers a fact can belong to
type Sensitivity string

const (
	SensitivityIdentifier  Sensitivity = "identifier"  // Hardware or account identifiers
	SensitivityTelephony   Sensitivity = "telephony"   // SIM and phone number data
	SensitivityLocation    Sensitivity = "location"    // Location state
	SensitivityNetwork     Sensitivity = "network"     // Connectivity metadata
	SensitivityDescriptive Sensitivity = "descriptive" // Build and settings data
)

var factTiers = map[model.FactName]Sensitivity{
	model.FactDeviceSerial:   SensitivityIdentifier,
	model.FactWifiMac:        SensitivityIdentifier,
	model.FactBluetoothMac:   SensitivityIdentifier,
	model.FactAndroidID:      SensitivityIdentifier,
	model.FactAdvertisingID:  SensitivityIdentifier,
	model.FactInstallationID: SensitivityIdentifier,
	model.FactDeviceID:       SensitivityIdentifier,

	model.FactPhoneNumber:  SensitivityTelephony,
	model.FactLine1Number:  SensitivityTelephony,
	model.FactSimSerial:    SensitivityTelephony,
	model.FactSubscriberID: SensitivityTelephony,

	model.FactLocationMode:      SensitivityLocation,
	model.FactLastKnownLocation: SensitivityLocation,
	model.FactGPSEnabled:        SensitivityLocation,

	model.FactNetworkType:     SensitivityNetwork,
	model.FactNetworkOperator: SensitivityNetwork,
	model.FactNetworkCountry:  SensitivityNetwork,
	model.FactSimOperator:     SensitivityNetwork,
	model.FactSimCountry:      SensitivityNetwork,
}

type shapePattern struct {
	pattern *regexp.Regexp
	want    string
}

var shapes = map[model.FactName]shapePattern{
	model.FactWifiMac:      {regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`), "a MAC address"},
	model.FactBluetoothMac: {regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`), "a MAC address"},
	model.FactPhoneNumber:  {regexp.MustCompile(`^\+?[0-9 ()-]{3,20}$`), "a phone number"},
	model.FactSimSerial:    {regexp.MustCompile(`^[0-9]{18,22}F?$`), "an ICCID"},
	model.FactLocationMode: {regexp.MustCompile(`^(Sensors Only|Battery Saving|High Accuracy|Unknown)$`), "a location mode"},
}

// SensitivityClassifier assigns facts to sensitivity tiers
type SensitivityClassifier struct {
	tiers map[model.FactName]Sensitivity
}

// NewSensitivityClassifier creates a classifier with the built-in tiers
func NewSensitivityClassifier() *SensitivityClassifier {
	return &SensitivityClassifier{tiers: factTiers}
}

// Classify returns the tier of a fact; unlisted facts are descriptive
func (c *SensitivityClassifier) Classify(name model.FactName) Sensitivity {
	if tier, ok := c.tiers[name]; ok {
		return tier
	}
	return SensitivityDescriptive
}

// IsSensitive reports whether raw values of this fact must never leave the device report
func (c *SensitivityClassifier) IsSensitive(name model.FactName) bool {
	switch c.Classify(name) {
	case SensitivityIdentifier, SensitivityTelephony:
		return true
	default:
		return false
	}
}

// SensitiveValues returns the exposed raw values of sensitive facts, sorted.
// Sentinels, placeholders and very short values are skipped; they are
// not identifying.
func (c *SensitivityClassifier) SensitiveValues(facts model.FactSet) []string {
	var values []string
	for _, name := range facts.Names() {
		if !c.IsSensitive(name) {
			continue
		}
		v, _ := facts.Lookup(name)
		if model.IsUnavailable(name, v) || len(v) < 4 {
			continue
		}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// CheckShape returns a message when an exposed value does not look like
// what the fact normally holds. Sentinels always pass.
func (c *SensitivityClassifier) CheckShape(name model.FactName, value string) string {
	if model.IsUnavailable(name, value) {
		return ""
	}
	shape, ok := shapes[name]
	if !ok {
		return ""
	}
	if shape.pattern.MatchString(value) {
		return ""
	}
	return "value does not look like " + shape.want + "; scored as exposed"
}
