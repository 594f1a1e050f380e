package model

import (
	"encoding/json"
	"sort"
)

// FactName identifies a single observation about a device
type FactName string

// Scoring facts
const (
	FactDeviceSerial FactName = "deviceSerial"
	FactWifiMac      FactName = "wifiMac"
	FactBluetoothMac FactName = "bluetoothMac"
	FactLocationMode FactName = "locationMode"
	FactNetworkType  FactName = "networkType"
	FactPhoneNumber  FactName = "phoneNumber"
	FactSimSerial    FactName = "simSerial"
)

// Descriptive facts (reported, never scored)
const (
	FactManufacturer     FactName = "manufacturer"
	FactModel            FactName = "model"
	FactDevice           FactName = "device"
	FactProduct          FactName = "product"
	FactBrand            FactName = "brand"
	FactHardware         FactName = "hardware"
	FactAndroidVersion   FactName = "androidVersion"
	FactSDKLevel         FactName = "sdkLevel"
	FactBuildID          FactName = "buildId"
	FactFingerprint      FactName = "fingerprint"
	FactBootloader       FactName = "bootloader"
	FactRadio            FactName = "radio"
	FactCPUAbi           FactName = "cpuAbi"
	FactCPUAbi2          FactName = "cpuAbi2"
	FactScreenResolution FactName = "screenResolution"
	FactScreenDensity    FactName = "screenDensity"
	FactSensorCount      FactName = "sensorCount"
	FactSensorDetails    FactName = "sensorDetails"

	FactNetworkOperator FactName = "networkOperator"
	FactSimCountry      FactName = "simCountry"
	FactSimOperator     FactName = "simOperator"
	FactNetworkCountry  FactName = "networkCountry"

	FactGPSEnabled        FactName = "gpsEnabled"
	FactLastKnownLocation FactName = "lastKnownLocation"
	FactLocationProviders FactName = "locationProviders"

	FactTotalApps     FactName = "totalApps"
	FactSystemApps    FactName = "systemApps"
	FactUserApps      FactName = "userApps"
	FactAppListSample FactName = "appListSample"

	FactExternalStorage    FactName = "externalStorage"
	FactInternalStorage    FactName = "internalStorage"
	FactDownloadDirectory  FactName = "downloadDirectory"
	FactCameraDirectory    FactName = "cameraDirectory"
	FactDocumentsDirectory FactName = "documentsDirectory"

	FactCameraPermission     FactName = "cameraPermission"
	FactMicrophonePermission FactName = "microphonePermission"
	FactStoragePermission    FactName = "storagePermission"
	FactCameraHardware       FactName = "cameraHardware"
	FactFrontCamera          FactName = "frontCamera"
	FactBackCamera           FactName = "backCamera"
	FactFlash                FactName = "flash"
	FactAutofocus            FactName = "autofocus"

	FactLanguage         FactName = "language"
	FactCountry          FactName = "country"
	FactTimeZone         FactName = "timeZone"
	FactAutoTime         FactName = "autoTime"
	FactAutoTimeZone     FactName = "autoTimeZone"
	FactScreenTimeout    FactName = "screenTimeout"
	FactBrightnessMode   FactName = "brightnessMode"
	FactScreenBrightness FactName = "screenBrightness"
	FactVolumeSettings   FactName = "volumeSettings"

	FactAndroidID      FactName = "androidId"
	FactAdvertisingID  FactName = "advertisingId"
	FactInstallationID FactName = "installationId"
	FactDeviceID       FactName = "deviceId"
	FactSubscriberID   FactName = "subscriberId"
	FactLine1Number    FactName = "line1Number"

	FactPermissionStatus FactName = "permissionStatus"

	FactRootDetection    FactName = "rootDetection"
	FactDebugMode        FactName = "debugMode"
	FactDeveloperOptions FactName = "developerOptions"
	FactUSBDebugging     FactName = "usbDebugging"
)

// Sentinel strings signalling that a fact could not be obtained.
// Comparison against them is exact.
const (
	SentinelPermissionDenied   = "Permission denied"
	SentinelNotAccessible      = "Not accessible"
	SentinelOff                = "Off"
	SentinelUnknown            = "Unknown"
	SentinelPermissionRequired = "Permission required"
)

var sentinels = map[FactName]string{
	FactDeviceSerial: SentinelPermissionDenied,
	FactWifiMac:      SentinelNotAccessible,
	FactBluetoothMac: SentinelNotAccessible,
	FactLocationMode: SentinelOff,
	FactNetworkType:  SentinelUnknown,
	FactPhoneNumber:  SentinelPermissionRequired,
	FactSimSerial:    SentinelPermissionRequired,

	FactNetworkOperator: SentinelPermissionRequired,
	FactSimCountry:      SentinelPermissionRequired,
	FactSimOperator:     SentinelPermissionRequired,
	FactNetworkCountry:  SentinelPermissionRequired,
	FactDeviceID:        SentinelPermissionRequired,
	FactSubscriberID:    SentinelPermissionRequired,
	FactLine1Number:     SentinelPermissionRequired,
}

// Sentinel returns the "unavailable" placeholder for a fact
func Sentinel(name FactName) string {
	if s, ok := sentinels[name]; ok {
		return s
	}
	return SentinelUnknown
}

// Explanatory values the report shows instead of an identifier the
// collector can never read. They identify nothing.
const (
	PlaceholderPlayServices       = "Requires Google Play Services"
	PlaceholderLocationPermission = "Requires location permission"
)

var placeholders = map[FactName]string{
	FactAdvertisingID:     PlaceholderPlayServices,
	FactLastKnownLocation: PlaceholderLocationPermission,
}

// IsUnavailable reports whether value is the fact's sentinel or its
// explanatory placeholder
func IsUnavailable(name FactName, value string) bool {
	if value == Sentinel(name) {
		return true
	}
	p, ok := placeholders[name]
	return ok && value == p
}

var knownFacts = map[FactName]bool{}

func init() {
	for _, n := range []FactName{
		FactDeviceSerial, FactWifiMac, FactBluetoothMac, FactLocationMode, FactNetworkType,
		FactPhoneNumber, FactSimSerial, FactManufacturer, FactModel, FactDevice, FactProduct,
		FactBrand, FactHardware, FactAndroidVersion, FactSDKLevel, FactBuildID, FactFingerprint,
		FactBootloader, FactRadio, FactCPUAbi, FactCPUAbi2, FactScreenResolution,
		FactScreenDensity, FactSensorCount, FactSensorDetails, FactNetworkOperator,
		FactSimCountry, FactSimOperator, FactNetworkCountry, FactGPSEnabled,
		FactLastKnownLocation, FactLocationProviders, FactTotalApps, FactSystemApps,
		FactUserApps, FactAppListSample, FactExternalStorage, FactInternalStorage,
		FactDownloadDirectory, FactCameraDirectory, FactDocumentsDirectory,
		FactCameraPermission, FactMicrophonePermission, FactStoragePermission,
		FactCameraHardware, FactFrontCamera, FactBackCamera, FactFlash, FactAutofocus,
		FactLanguage, FactCountry, FactTimeZone, FactAutoTime, FactAutoTimeZone,
		FactScreenTimeout, FactBrightnessMode, FactScreenBrightness, FactVolumeSettings,
		FactAndroidID, FactAdvertisingID, FactInstallationID, FactDeviceID, FactSubscriberID,
		FactLine1Number, FactPermissionStatus, FactRootDetection, FactDebugMode,
		FactDeveloperOptions, FactUSBDebugging,
	} {
		knownFacts[n] = true
	}
}

// IsKnownFact reports whether name belongs to the fixed fact set
func IsKnownFact(name FactName) bool {
	return knownFacts[name]
}

// FactSet is an immutable snapshot of device facts taken by one scan
type FactSet struct {
	values map[FactName]string
}

// NewFactSet copies values into a new FactSet
func NewFactSet(values map[FactName]string) FactSet {
	copied := make(map[FactName]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return FactSet{values: copied}
}

// Lookup returns the raw value and whether it was recorded
func (f FactSet) Lookup(name FactName) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Value returns the recorded value, or the fact's sentinel when absent
func (f FactSet) Value(name FactName) string {
	if v, ok := f.values[name]; ok {
		return v
	}
	return Sentinel(name)
}

// Len returns the number of recorded facts
func (f FactSet) Len() int {
	return len(f.values)
}

// Names returns the recorded fact names in sorted order
func (f FactSet) Names() []FactName {
	names := make([]FactName, 0, len(f.values))
	for n := range f.values {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// MarshalJSON encodes the set as a flat object
func (f FactSet) MarshalJSON() ([]byte, error) {
	if f.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.values)
}

// UnmarshalJSON decodes a flat object of string values
func (f *FactSet) UnmarshalJSON(data []byte) error {
	var values map[FactName]string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*f = NewFactSet(values)
	return nil
}

// FactSetBuilder accumulates facts during acquisition.
// Unavailable facts are recorded as their sentinel.
type FactSetBuilder struct {
	values map[FactName]string
}

// NewFactSetBuilder creates an empty builder
func NewFactSetBuilder() *FactSetBuilder {
	return &FactSetBuilder{values: make(map[FactName]string)}
}

// Set records an available value
func (b *FactSetBuilder) Set(name FactName, value string) *FactSetBuilder {
	b.values[name] = value
	return b
}

// SetBool records a boolean fact as Yes/No
func (b *FactSetBuilder) SetBool(name FactName, value bool) *FactSetBuilder {
	return b.Set(name, YesNo(value))
}

// SetOptional records value when ok, the sentinel otherwise
func (b *FactSetBuilder) SetOptional(name FactName, value string, ok bool) *FactSetBuilder {
	if !ok {
		return b.Unavailable(name)
	}
	return b.Set(name, value)
}

// Unavailable records the fact's sentinel
func (b *FactSetBuilder) Unavailable(name FactName) *FactSetBuilder {
	b.values[name] = Sentinel(name)
	return b
}

// Build freezes the accumulated facts
func (b *FactSetBuilder) Build() FactSet {
	return NewFactSet(b.values)
}

// YesNo renders a boolean the way the report does
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
