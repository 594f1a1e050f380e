package facts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/model"
)

const (
	defaultADBPath    = "adb"
	defaultADBTimeout = 10 * time.Second
	defaultPacerKey   = "default"
	appSampleSize     = 5
)

// rootPaths are probed in order; the first hit is reported
var rootPaths = []string{
	"/system/app/Superuser.apk",
	"/sbin/su",
	"/system/bin/su",
	"/system/xbin/su",
	"/data/local/xbin/su",
	"/data/local/bin/su",
	"/system/sd/xbin/su",
	"/system/bin/failsafe/su",
	"/data/local/su",
}

// propFacts maps descriptive facts to the build properties that carry them
var propFacts = []struct {
	fact model.FactName
	keys []string // First non-empty wins
}{
	{model.FactManufacturer, []string{"ro.product.manufacturer"}},
	{model.FactModel, []string{"ro.product.model"}},
	{model.FactDevice, []string{"ro.product.device"}},
	{model.FactProduct, []string{"ro.product.name"}},
	{model.FactBrand, []string{"ro.product.brand"}},
	{model.FactHardware, []string{"ro.hardware"}},
	{model.FactAndroidVersion, []string{"ro.build.version.release"}},
	{model.FactSDKLevel, []string{"ro.build.version.sdk"}},
	{model.FactBuildID, []string{"ro.build.id"}},
	{model.FactFingerprint, []string{"ro.build.fingerprint"}},
	{model.FactBootloader, []string{"ro.bootloader", "ro.boot.bootloader"}},
	{model.FactRadio, []string{"gsm.version.baseband"}},
	{model.FactCPUAbi, []string{"ro.product.cpu.abi"}},
	{model.FactTimeZone, []string{"persist.sys.timezone"}},
	{model.FactNetworkOperator, []string{"gsm.operator.alpha"}},
	{model.FactNetworkCountry, []string{"gsm.operator.iso-country"}},
	{model.FactSimOperator, []string{"gsm.sim.operator.alpha"}},
	{model.FactSimCountry, []string{"gsm.sim.operator.iso-country"}},
}

// settingFacts maps facts to `settings get <namespace> <key>` lookups
var settingFacts = []struct {
	fact      model.FactName
	namespace string
	key       string
	convert   func(string) (string, bool)
}{
	{model.FactAndroidID, "secure", "android_id", settingValue},
	{model.FactInstallationID, "secure", "android_id", settingValue},
	{model.FactBluetoothMac, "secure", "bluetooth_address", settingValue},
	{model.FactLocationProviders, "secure", "location_providers_allowed", settingValue},
	{model.FactAutoTime, "global", "auto_time", flagValue},
	{model.FactAutoTimeZone, "global", "auto_time_zone", flagValue},
	{model.FactDeveloperOptions, "global", "development_settings_enabled", flagValue},
	{model.FactUSBDebugging, "global", "adb_enabled", flagValue},
	{model.FactScreenTimeout, "system", "screen_off_timeout", screenTimeout},
	{model.FactBrightnessMode, "system", "screen_brightness_mode", brightnessMode},
	{model.FactScreenBrightness, "system", "screen_brightness", settingValue},
}

// cameraFeatures maps camera facts to `pm list features` names
var cameraFeatures = []struct {
	fact    model.FactName
	feature string
}{
	{model.FactCameraHardware, "android.hardware.camera"},
	{model.FactFrontCamera, "android.hardware.camera.front"},
	{model.FactBackCamera, "android.hardware.camera.any"},
	{model.FactFlash, "android.hardware.camera.flash"},
	{model.FactAutofocus, "android.hardware.camera.autofocus"},
}

// Facts that need privileged telephony APIs adb shell cannot call
var telephonyFacts = []model.FactName{
	model.FactPhoneNumber,
	model.FactSimSerial,
	model.FactDeviceID,
	model.FactSubscriberID,
	model.FactLine1Number,
}

// ADBProvider collects facts from a live device over adb
type ADBProvider struct {
	path    string
	serial  string
	runner  CommandRunner
	pacer   Pacer
	timeout time.Duration
	log     *logger.Logger
}

// NewADBProvider creates a provider for serial ("" = the only attached device)
func NewADBProvider(serial string, opts Options) *ADBProvider {
	p := &ADBProvider{
		path:    opts.ADBPath,
		serial:  serial,
		runner:  opts.Runner,
		pacer:   opts.Pacer,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
	if p.path == "" {
		p.path = defaultADBPath
	}
	if p.runner == nil {
		p.runner = ExecRunner{}
	}
	if p.timeout <= 0 {
		p.timeout = defaultADBTimeout
	}
	if p.log == nil {
		p.log = logger.Global()
	}
	p.log = p.log.WithComponent("facts.adb").WithSource(p.Name())
	return p
}

// Name returns "adb" or "adb:<serial>"
func (p *ADBProvider) Name() string {
	if p.serial == "" {
		return adbScheme
	}
	return adbScheme + ":" + p.serial
}

// Collect reads build properties, settings and probes from the device.
// Only an unreachable device fails the scan; any single lookup that
// fails leaves its fact unavailable.
func (p *ADBProvider) Collect(ctx context.Context) (model.FactSet, error) {
	out, err := p.shell(ctx, "getprop")
	if err != nil {
		return model.FactSet{}, fmt.Errorf("read device properties from %s: %w", p.Name(), err)
	}
	props := parseGetprop(out)
	p.log.Debug().Int("props", len(props)).Msg("properties read")

	b := model.NewFactSetBuilder()

	for _, pf := range propFacts {
		v, ok := firstProp(props, pf.keys...)
		b.SetOptional(pf.fact, v, ok)
	}

	serial, ok := firstProp(props, "ro.serialno", "ro.boot.serialno")
	b.SetOptional(model.FactDeviceSerial, serial, ok && serial != "unknown")

	abi2, ok := firstProp(props, "ro.product.cpu.abi2")
	if !ok {
		if list, found := firstProp(props, "ro.product.cpu.abilist"); found {
			if abis := strings.Split(list, ","); len(abis) > 1 {
				abi2, ok = abis[1], true
			}
		}
	}
	b.SetOptional(model.FactCPUAbi2, abi2, ok)

	if locale, ok := firstProp(props, "persist.sys.locale", "ro.product.locale"); ok {
		language, country := splitLocale(locale)
		b.SetOptional(model.FactLanguage, language, language != "")
		b.SetOptional(model.FactCountry, country, country != "")
	}

	b.SetBool(model.FactDebugMode, props["ro.debuggable"] == "1")

	for _, sf := range settingFacts {
		v, ok := p.setting(ctx, sf.namespace, sf.key)
		if ok {
			v, ok = sf.convert(v)
		}
		b.SetOptional(sf.fact, v, ok)
	}

	p.collectLocation(ctx, b)
	p.collectNetwork(ctx, b)
	p.collectHardware(ctx, b)
	p.collectApps(ctx, b)
	p.collectStorage(ctx, b)

	for _, fact := range telephonyFacts {
		b.Unavailable(fact)
	}
	b.Set(model.FactAdvertisingID, model.PlaceholderPlayServices)
	b.Set(model.FactLastKnownLocation, model.PlaceholderLocationPermission)
	b.Set(model.FactRootDetection, p.detectRoot(ctx))

	if err := ctx.Err(); err != nil {
		return model.FactSet{}, err
	}
	return b.Build(), nil
}

func (p *ADBProvider) collectLocation(ctx context.Context, b *model.FactSetBuilder) {
	// An unreadable or unmapped mode is "Unknown", not the "Off" sentinel,
	// and still counts as exposed when scored
	raw, _ := p.setting(ctx, "secure", "location_mode")
	mode := locationModeName(raw)
	b.Set(model.FactLocationMode, mode)

	providers, _ := p.setting(ctx, "secure", "location_providers_allowed")
	gps := strings.Contains(providers, "gps") || mode == "High Accuracy" || mode == "Sensors Only"
	b.SetBool(model.FactGPSEnabled, gps)
}

func (p *ADBProvider) collectNetwork(ctx context.Context, b *model.FactSetBuilder) {
	out, err := p.shell(ctx, "ip", "route", "get", "8.8.8.8")
	if err != nil {
		b.Unavailable(model.FactNetworkType)
	} else {
		v, ok := parseRouteInterface(out)
		b.SetOptional(model.FactNetworkType, v, ok)
	}

	mac, err := p.shell(ctx, "cat", "/sys/class/net/wlan0/address")
	b.SetOptional(model.FactWifiMac, strings.ToUpper(mac), err == nil && mac != "")
}

func (p *ADBProvider) collectHardware(ctx context.Context, b *model.FactSetBuilder) {
	if out, err := p.shell(ctx, "wm", "size"); err == nil {
		v, ok := parseWmSize(out)
		b.SetOptional(model.FactScreenResolution, v, ok)
	}
	if out, err := p.shell(ctx, "wm", "density"); err == nil {
		v, ok := parseWmDensity(out)
		b.SetOptional(model.FactScreenDensity, v, ok)
	}

	out, err := p.shell(ctx, "pm", "list", "features")
	if err != nil {
		return
	}
	features := parseFeatures(out)
	for _, cf := range cameraFeatures {
		b.SetBool(cf.fact, features[cf.feature])
	}
}

func (p *ADBProvider) collectApps(ctx context.Context, b *model.FactSetBuilder) {
	all, err := p.shell(ctx, "pm", "list", "packages")
	if err != nil {
		return
	}
	pkgs := parsePackages(all)
	b.Set(model.FactTotalApps, strconv.Itoa(len(pkgs)))

	if out, err := p.shell(ctx, "pm", "list", "packages", "-s"); err == nil {
		b.Set(model.FactSystemApps, strconv.Itoa(len(parsePackages(out))))
	}
	if out, err := p.shell(ctx, "pm", "list", "packages", "-3"); err == nil {
		b.Set(model.FactUserApps, strconv.Itoa(len(parsePackages(out))))
	}

	if len(pkgs) == 0 {
		b.Set(model.FactAppListSample, "None")
		return
	}
	sample := pkgs
	if len(sample) > appSampleSize {
		sample = sample[:appSampleSize]
	}
	b.Set(model.FactAppListSample, strings.Join(sample, ", ")+"...")
}

func (p *ADBProvider) collectStorage(ctx context.Context, b *model.FactSetBuilder) {
	if out, err := p.shell(ctx, "df", "-k", "/data"); err == nil {
		v, ok := parseDf(out)
		b.SetOptional(model.FactInternalStorage, v, ok)
	}

	state, err := p.shell(ctx, "ls", "-d", "/sdcard")
	b.SetBool(model.FactExternalStorage, err == nil && state != "")

	dirs := []struct {
		fact model.FactName
		path string
	}{
		{model.FactDownloadDirectory, "/sdcard/Download"},
		{model.FactCameraDirectory, "/sdcard/DCIM"},
		{model.FactDocumentsDirectory, "/sdcard/Documents"},
	}
	for _, d := range dirs {
		_, err := p.shell(ctx, "ls", "-d", d.path)
		b.SetOptional(d.fact, d.path, err == nil)
	}
}

// detectRoot lists every root path in one call; ls prints the ones that exist
func (p *ADBProvider) detectRoot(ctx context.Context) string {
	args := append([]string{"ls"}, rootPaths...)
	out, _ := p.shell(ctx, args...)

	found := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		found[strings.TrimSpace(line)] = true
	}
	for _, path := range rootPaths {
		if found[path] {
			return "Root detected - " + path
		}
	}
	return "No root detected"
}

func (p *ADBProvider) setting(ctx context.Context, namespace, key string) (string, bool) {
	out, err := p.shell(ctx, "settings", "get", namespace, key)
	if err != nil {
		p.log.Debug().Err(err).Str("setting", namespace+"/"+key).Msg("setting unavailable")
		return "", false
	}
	return settingValue(out)
}

// shell runs `adb [-s serial] shell args...`, paced per device
func (p *ADBProvider) shell(ctx context.Context, args ...string) (string, error) {
	if p.pacer != nil {
		key := p.serial
		if key == "" {
			key = defaultPacerKey
		}
		if err := p.pacer.Wait(ctx, key); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	full := make([]string, 0, len(args)+3)
	if p.serial != "" {
		full = append(full, "-s", p.serial)
	}
	full = append(full, "shell")
	full = append(full, args...)

	out, err := p.runner.Run(ctx, p.path, full...)
	if err != nil && errors.Is(err, ErrADBNotFound) {
		return "", err
	}
	return strings.TrimSpace(string(out)), err
}

func firstProp(props map[string]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if v := strings.TrimSpace(props[key]); v != "" {
			return v, true
		}
	}
	return "", false
}

func screenTimeout(raw string) (string, bool) {
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(ms/1000) + " seconds", true
}

func brightnessMode(raw string) (string, bool) {
	if raw == "1" {
		return "Automatic", true
	}
	return "Manual", true
}
