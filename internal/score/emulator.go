package score

import (
	"strings"

	"github.com/ppiankov/privdiag/internal/model"
)

const (
	VerdictEmulator   = "Emulator detected"
	VerdictRealDevice = "Real device"
)

// DetectEmulator applies build-property heuristics to the facts.
// Missing properties never match.
func DetectEmulator(facts model.FactSet) string {
	get := func(name model.FactName) string {
		v, _ := facts.Lookup(name)
		return v
	}

	fingerprint := get(model.FactFingerprint)
	deviceModel := get(model.FactModel)
	manufacturer := get(model.FactManufacturer)
	brand := get(model.FactBrand)
	device := get(model.FactDevice)
	product := get(model.FactProduct)

	switch {
	case strings.HasPrefix(fingerprint, "generic"), strings.HasPrefix(fingerprint, "unknown"):
		return VerdictEmulator
	case strings.Contains(deviceModel, "google_sdk"),
		strings.Contains(deviceModel, "Emulator"),
		strings.Contains(deviceModel, "Android SDK built for x86"):
		return VerdictEmulator
	case strings.Contains(manufacturer, "Genymotion"):
		return VerdictEmulator
	case strings.HasPrefix(brand, "generic") && strings.HasPrefix(device, "generic"):
		return VerdictEmulator
	case product == "google_sdk":
		return VerdictEmulator
	}
	return VerdictRealDevice
}
