package facts

import "testing"

func TestParseGetprop(t *testing.T) {
	props := parseGetprop("[ro.product.model]: [Pixel 7]\ngarbage line\n[ro.empty]: []\n[dalvik.vm.heapsize]: [512m]")

	if props["ro.product.model"] != "Pixel 7" {
		t.Errorf("model = %q", props["ro.product.model"])
	}
	if v, ok := props["ro.empty"]; !ok || v != "" {
		t.Errorf("empty prop = %q, %v", v, ok)
	}
	if len(props) != 3 {
		t.Errorf("Expected 3 props, got %d", len(props))
	}
}

func TestLocationModeName(t *testing.T) {
	tests := map[string]string{
		"0":  "Off",
		"1":  "Sensors Only",
		"2":  "Battery Saving",
		"3":  "High Accuracy",
		"7":  "Unknown",
		"":   "Unknown",
		" 3": "High Accuracy",
	}
	for in, want := range tests {
		if got := locationModeName(in); got != want {
			t.Errorf("locationModeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRouteInterface(t *testing.T) {
	tests := []struct {
		out  string
		want string
		ok   bool
	}{
		{"8.8.8.8 via 10.0.0.1 dev wlan0 src 10.0.0.5", "WIFI", true},
		{"8.8.8.8 dev rmnet_data1 src 100.64.1.2", "MOBILE", true},
		{"8.8.8.8 dev tun0 src 10.8.0.2", "VPN", true},
		{"RTNETLINK answers: Network is unreachable", "", false},
	}
	for _, tt := range tests {
		got, ok := parseRouteInterface(tt.out)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseRouteInterface(%q) = %q, %v", tt.out, got, ok)
		}
	}
}

func TestParseWm(t *testing.T) {
	size, ok := parseWmSize("Physical size: 1440x3120\nOverride size: 1080x2340")
	if !ok || size != "1080x2340" {
		t.Errorf("parseWmSize = %q, %v", size, ok)
	}

	density, ok := parseWmDensity("Physical density: 480")
	if !ok || density != "3" {
		t.Errorf("parseWmDensity = %q, %v", density, ok)
	}

	if _, ok := parseWmDensity("error"); ok {
		t.Error("Expected failure for unparseable density")
	}
}

func TestParseDf(t *testing.T) {
	out := `Filesystem     1K-blocks     Used Available Use% Mounted on
/dev/block/dm-8 115343360 62914560  52428800  55% /data`

	got, ok := parseDf(out)
	if !ok || got != "50.00 GB free of 110.00 GB" {
		t.Errorf("parseDf = %q, %v", got, ok)
	}

	if _, ok := parseDf("df: /data: Permission denied"); ok {
		t.Error("Expected failure for error output")
	}
}

func TestSettingValue(t *testing.T) {
	if _, ok := settingValue("null"); ok {
		t.Error("null should be unset")
	}
	if v, ok := flagValue("1"); !ok || v != "Yes" {
		t.Errorf("flagValue(1) = %q, %v", v, ok)
	}
	if v, ok := flagValue("0"); !ok || v != "No" {
		t.Errorf("flagValue(0) = %q, %v", v, ok)
	}
}

func TestSplitLocale(t *testing.T) {
	if lang, country := splitLocale("de_DE"); lang != "de" || country != "DE" {
		t.Errorf("splitLocale(de_DE) = %s, %s", lang, country)
	}
	if lang, country := splitLocale("fr"); lang != "fr" || country != "" {
		t.Errorf("splitLocale(fr) = %s, %s", lang, country)
	}
}
