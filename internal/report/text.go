package report

import (
	"fmt"
	"strings"

	"github.com/ppiankov/privdiag/internal/model"
)

const (
	dangerousPermissions = "Camera, Location, Microphone, Storage, Phone State, Contacts, SMS, Calendar"
	normalPermissions    = "Internet, Network State, Wake Lock, Vibrate"
	signaturePermissions = "System Alert Window, Write Settings, Modify Phone State"
)

type factLine struct {
	label string
	fact  model.FactName
}

type section struct {
	title string
	rule  int // Underline length
	lines []factLine
}

var deviceSections = []section{
	{"📱 DEVICE INFORMATION", 22, []factLine{
		{"Manufacturer", model.FactManufacturer},
		{"Model", model.FactModel},
		{"Device", model.FactDevice},
		{"Product", model.FactProduct},
		{"Brand", model.FactBrand},
		{"Hardware", model.FactHardware},
		{"Serial", model.FactDeviceSerial},
		{"Android Version", model.FactAndroidVersion},
		{"SDK Level", model.FactSDKLevel},
		{"Build ID", model.FactBuildID},
		{"Fingerprint", model.FactFingerprint},
		{"Bootloader", model.FactBootloader},
		{"Radio", model.FactRadio},
	}},
	{"🔧 HARDWARE INFORMATION", 24, []factLine{
		{"CPU Architecture", model.FactCPUAbi},
		{"CPU Architecture 2", model.FactCPUAbi2},
		{"Screen Resolution", model.FactScreenResolution},
		{"Screen Density", model.FactScreenDensity},
		{"Available Sensors", model.FactSensorCount},
		{"Sensor Details", model.FactSensorDetails},
	}},
	{"🌐 NETWORK INFORMATION", 22, []factLine{
		{"WiFi MAC Address", model.FactWifiMac},
		{"Bluetooth MAC Address", model.FactBluetoothMac},
		{"Network Type", model.FactNetworkType},
		{"Network Operator", model.FactNetworkOperator},
		{"SIM Country", model.FactSimCountry},
		{"SIM Operator", model.FactSimOperator},
		{"SIM Serial", model.FactSimSerial},
		{"Phone Number", model.FactPhoneNumber},
		{"Network Country", model.FactNetworkCountry},
	}},
	{"📍 LOCATION INFORMATION", 25, []factLine{
		{"GPS Enabled", model.FactGPSEnabled},
		{"Location Mode", model.FactLocationMode},
		{"Last Known Location", model.FactLastKnownLocation},
		{"Location Providers", model.FactLocationProviders},
	}},
	{"📱 INSTALLED APPLICATIONS", 27, []factLine{
		{"Total Apps", model.FactTotalApps},
		{"System Apps", model.FactSystemApps},
		{"User Apps", model.FactUserApps},
		{"App List Sample", model.FactAppListSample},
	}},
	{"💾 FILE SYSTEM ACCESS", 22, []factLine{
		{"External Storage", model.FactExternalStorage},
		{"Internal Storage", model.FactInternalStorage},
		{"Download Directory", model.FactDownloadDirectory},
		{"Camera Directory", model.FactCameraDirectory},
		{"Documents Directory", model.FactDocumentsDirectory},
	}},
	{"📷 CAMERA & MEDIA ACCESS", 25, []factLine{
		{"Camera Permission", model.FactCameraPermission},
		{"Microphone Permission", model.FactMicrophonePermission},
		{"Storage Permission", model.FactStoragePermission},
		{"Camera Hardware", model.FactCameraHardware},
		{"Front Camera", model.FactFrontCamera},
		{"Back Camera", model.FactBackCamera},
		{"Flash Available", model.FactFlash},
		{"Autofocus Available", model.FactAutofocus},
	}},
	{"⚙️ SYSTEM SETTINGS", 19, []factLine{
		{"Language", model.FactLanguage},
		{"Country", model.FactCountry},
		{"Time Zone", model.FactTimeZone},
		{"Auto Time", model.FactAutoTime},
		{"Auto Time Zone", model.FactAutoTimeZone},
		{"Screen Timeout", model.FactScreenTimeout},
		{"Brightness Mode", model.FactBrightnessMode},
		{"Screen Brightness", model.FactScreenBrightness},
		{"Volume Settings", model.FactVolumeSettings},
	}},
	{"🆔 UNIQUE IDENTIFIERS", 22, []factLine{
		{"Android ID", model.FactAndroidID},
		{"Advertising ID", model.FactAdvertisingID},
		{"Installation ID", model.FactInstallationID},
		{"Device ID", model.FactDeviceID},
		{"Subscriber ID", model.FactSubscriberID},
		{"Line 1 Number", model.FactLine1Number},
	}},
}

// RenderText renders a device report in the classic plain-text layout
func (r *Renderer) RenderText(report *model.DeviceReport) string {
	var sb strings.Builder
	facts := report.Facts

	sb.WriteString("🔍 PRIVACY DIAGNOSTIC SCAN RESULTS\n")
	sb.WriteString("=====================================\n")
	sb.WriteString("Scan completed: " + report.ScannedAt.Local().Format(timestampLayout) + "\n")
	sb.WriteString("Source: " + report.Source + "\n\n")

	for _, sec := range deviceSections {
		writeHeader(&sb, sec.title, sec.rule)
		for _, l := range sec.lines {
			sb.WriteString(l.label + ": " + facts.Value(l.fact) + "\n")
		}
		sb.WriteString("\n")
	}

	writeHeader(&sb, "🔐 PERMISSION ANALYSIS", 24)
	sb.WriteString("Dangerous Permissions: " + dangerousPermissions + "\n")
	sb.WriteString("Normal Permissions: " + normalPermissions + "\n")
	sb.WriteString("Signature Permissions: " + signaturePermissions + "\n")
	sb.WriteString("Permission Status: " + facts.Value(model.FactPermissionStatus) + "\n\n")

	if len(report.Missing) > 0 {
		writeHeader(&sb, "⚠️ MISSING PERMISSIONS", 22)
		sb.WriteString("Some permissions are not granted. To get more comprehensive results:\n")
		for _, perm := range report.Missing {
			sb.WriteString("• " + shortPermission(perm) + "\n")
		}
		sb.WriteString("\n")
	}

	result := report.Score
	writeHeader(&sb, "📊 PRIVACY SCORE", 17)
	sb.WriteString(fmt.Sprintf("Overall Privacy Score: %d/100\n", result.Score))
	sb.WriteString("Risk Level: " + result.RiskLevel.Label() + "\n")
	sb.WriteString("Recommendations: " + result.Recommendation + "\n")
	if len(result.Deductions) > 0 {
		sb.WriteString("Exposed:\n")
		for _, d := range result.Deductions {
			sb.WriteString(fmt.Sprintf("• %s (-%d)\n", d.Fact, d.Weight))
		}
	}
	sb.WriteString("\n")

	writeHeader(&sb, "⚠️ ADDITIONAL PRIVACY CONCERNS", 32)
	sb.WriteString("Root Detection: " + facts.Value(model.FactRootDetection) + "\n")
	sb.WriteString("Emulator Detection: " + report.Emulator + "\n")
	sb.WriteString("Debug Mode: " + facts.Value(model.FactDebugMode) + "\n")
	sb.WriteString("Developer Options: " + facts.Value(model.FactDeveloperOptions) + "\n")
	sb.WriteString("USB Debugging: " + facts.Value(model.FactUSBDebugging) + "\n\n")

	if report.Advice != nil && report.Advice.Text != "" {
		writeHeader(&sb, "🤖 ADVISOR NOTES", 17)
		sb.WriteString(fmt.Sprintf("(%s/%s, does not affect the score)\n", report.Advice.Provider, report.Advice.Model))
		sb.WriteString(strings.TrimSpace(report.Advice.Text) + "\n")
		for _, w := range report.Advice.Warnings {
			sb.WriteString("⚠️ " + w + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeHeader(sb *strings.Builder, title string, rule int) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", rule) + "\n")
}

// shortPermission turns android.permission.READ_SMS into READ_SMS
func shortPermission(perm string) string {
	if i := strings.LastIndex(perm, "."); i >= 0 {
		return perm[i+1:]
	}
	return perm
}
