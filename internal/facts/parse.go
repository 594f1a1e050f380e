package facts

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// parseGetprop parses `getprop` output lines of the form "[key]: [value]"
func parseGetprop(out string) map[string]string {
	props := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		key, value, ok := strings.Cut(line, "]: [")
		if !ok {
			continue
		}
		key = strings.TrimPrefix(key, "[")
		value = strings.TrimSuffix(value, "]")
		props[key] = value
	}
	return props
}

// locationModeName maps Settings.Secure.LOCATION_MODE values
func locationModeName(raw string) string {
	switch strings.TrimSpace(raw) {
	case "0":
		return "Off"
	case "1":
		return "Sensors Only"
	case "2":
		return "Battery Saving"
	case "3":
		return "High Accuracy"
	default:
		return "Unknown"
	}
}

// settingValue treats adb's "null" as unset
func settingValue(out string) (string, bool) {
	v := strings.TrimSpace(out)
	if v == "" || v == "null" {
		return "", false
	}
	return v, true
}

// flagValue renders a 0/1 setting as Yes/No
func flagValue(out string) (string, bool) {
	v, ok := settingValue(out)
	if !ok {
		return "", false
	}
	if v == "1" {
		return "Yes", true
	}
	return "No", true
}

// parseWmSize extracts "1080x2400" from `wm size`; an override wins
func parseWmSize(out string) (string, bool) {
	return lastField(out, "size:")
}

// parseWmDensity converts `wm density` dpi to the density scale factor
func parseWmDensity(out string) (string, bool) {
	dpi, ok := lastField(out, "density:")
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(dpi)
	if err != nil || n <= 0 {
		return "", false
	}
	return strconv.FormatFloat(float64(n)/160, 'f', -1, 64), true
}

func lastField(out, marker string) (string, bool) {
	var value string
	for _, line := range strings.Split(out, "\n") {
		if _, after, ok := strings.Cut(line, marker); ok {
			value = strings.TrimSpace(after)
		}
	}
	return value, value != ""
}

// parseRouteInterface maps `ip route get` output to a connectivity type name
func parseRouteInterface(out string) (string, bool) {
	fields := strings.Fields(out)
	for i := 0; i < len(fields)-1; i++ {
		if fields[i] != "dev" {
			continue
		}
		dev := fields[i+1]
		switch {
		case strings.HasPrefix(dev, "wlan"):
			return "WIFI", true
		case strings.HasPrefix(dev, "rmnet"), strings.HasPrefix(dev, "ccmni"), strings.HasPrefix(dev, "seth"):
			return "MOBILE", true
		case strings.HasPrefix(dev, "eth"):
			return "ETHERNET", true
		case strings.HasPrefix(dev, "tun"):
			return "VPN", true
		case strings.HasPrefix(dev, "bt-pan"):
			return "BLUETOOTH", true
		default:
			return "", false
		}
	}
	return "", false
}

// parsePackages returns package names from `pm list packages`
func parsePackages(out string) []string {
	return parsePrefixed(out, "package:")
}

// parseFeatures returns the set of features from `pm list features`
func parseFeatures(out string) map[string]bool {
	features := make(map[string]bool)
	for _, name := range parsePrefixed(out, "feature:") {
		// "feature:android.hardware.camera.flash=1" on some builds
		name, _, _ = strings.Cut(name, "=")
		features[name] = true
	}
	return features
}

func parsePrefixed(out, prefix string) []string {
	var items []string
	for _, line := range strings.Split(out, "\n") {
		if item, ok := strings.CutPrefix(strings.TrimSpace(line), prefix); ok && item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseDf formats the last line of `df -k <path>` as "X GB free of Y GB"
func parseDf(out string) (string, bool) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return "", false
	}
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 4 {
		return "", false
	}
	total, err1 := strconv.ParseFloat(fields[1], 64)
	free, err2 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil {
		return "", false
	}
	const kbPerGB = 1024 * 1024
	return fmt.Sprintf("%.2f GB free of %.2f GB", free/kbPerGB, total/kbPerGB), true
}

// splitLocale splits "en-US" or "en_US" into language and country
func splitLocale(locale string) (language, country string) {
	locale = strings.ReplaceAll(locale, "_", "-")
	language, country, _ = strings.Cut(locale, "-")
	return language, country
}
