package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/privdiag/internal/cache"
	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false

	store := cache.NewStore(cache.NewMemoryCache(time.Minute, time.Minute))
	p := pipeline.NewPipeline(cfg, pipeline.Options{Store: store, Logger: logger.Nop()})
	h := NewHandlers(p, "test", logger.Nop())

	server := httptest.NewServer(NewRouter(cfg.Server, h, logger.Nop()).Setup())
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("Unexpected health response: %+v", health)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON response, got %s", resp.Header.Get("Content-Type"))
	}
}

func TestScore(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server.URL+"/api/v1/privacy/score", `{
		"facts": {
			"fingerprint": "generic/sdk_gphone_x86/generic_x86:11/RSR1/test-keys",
			"deviceSerial": "Permission denied",
			"wifiMac": "AA:BB:CC:DD:EE:FF",
			"bluetoothMac": "Not accessible",
			"locationMode": "Off",
			"networkType": "Unknown",
			"phoneNumber": "Permission required",
			"simSerial": "Permission required"
		}
	}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var got ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Score.Score != 90 || got.Score.RiskLevel != model.RiskLow {
		t.Errorf("Unexpected score: %+v", got.Score)
	}
	if got.Emulator != "Emulator detected" {
		t.Errorf("Unexpected emulator verdict: %s", got.Emulator)
	}
	if len(got.Score.Deductions) != 1 || got.Score.Deductions[0].Observed == "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Expected one masked deduction, got %+v", got.Score.Deductions)
	}
}

func TestScore_EmptyFactsScoresZero(t *testing.T) {
	server := newTestServer(t)

	// Absent facts count as unavailable: nothing is exposed
	resp := post(t, server.URL+"/api/v1/privacy/score", `{"facts": {}}`)
	var got ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Score.Score != 100 {
		t.Errorf("Expected 100 for empty facts, got %d", got.Score.Score)
	}
}

func TestScore_BadRequest(t *testing.T) {
	server := newTestServer(t)

	for _, body := range []string{`{not json`, `{"device": "x"}`} {
		resp := post(t, server.URL+"/api/v1/privacy/score", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestReport_AndLast(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/privacy/last")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 before any scan, got %d", resp.StatusCode)
	}

	resp = post(t, server.URL+"/api/v1/privacy/report", `{
		"device": "Lab phone",
		"facts": {"manufacturer": "Google", "model": "Pixel 7", "deviceSerial": "R58N123ABC"},
		"missing_permissions": ["READ_SMS"]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var got DeviceReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Report == nil || got.Report.Score.Score != 85 {
		t.Fatalf("Unexpected report: %+v", got.Report)
	}
	for _, want := range []string{"PRIVACY DIAGNOSTIC SCAN RESULTS", "Overall Privacy Score: 85/100", "• READ_SMS"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("Expected %q in text", want)
		}
	}

	resp, err = http.Get(server.URL + "/api/v1/privacy/last")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected last report after scan, got %d", resp.StatusCode)
	}
}

func TestTagReport(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server.URL+"/api/v1/nfc/report", `{
		"id": "04A22B",
		"technologies": ["android.nfc.tech.IsoDep", "android.nfc.tech.Ndef"],
		"attributes": {
			"IsoDep": {"iso_dep": {"historical_bytes": "8031"}},
			"Ndef": {"ndef": {"type": "org.nfcforum.ndef.type4", "writable": false, "max_size": 2048}}
		}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var got TagReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Report == nil || got.Report.TagIDHex != "04A22B" {
		t.Fatalf("Unexpected report: %+v", got.Report)
	}
	if len(got.Report.Risks) != 2 {
		t.Errorf("Expected HIGH and MEDIUM risks, got %+v", got.Report.Risks)
	}
	if !strings.Contains(got.Text, "• Historical Bytes: 8031") {
		t.Errorf("Unexpected text:\n%s", got.Text)
	}
}

func TestTagReport_ValidationError(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server.URL+"/api/v1/nfc/report", `{
		"id": "01",
		"technologies": ["NfcA"],
		"attributes": {"NfcB": {"nfc_b": {"max_transceive_length": 253}}}
	}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", resp.StatusCode)
	}

	var got ValidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Issues) == 0 || got.Issues[0].Field != "attributes.NfcB" {
		t.Errorf("Unexpected issues: %+v", got.Issues)
	}
}

func TestTagReport_Malformed(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server.URL+"/api/v1/nfc/report", `{"id": "zz"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad hex id, got %d", resp.StatusCode)
	}
}

func TestReport_NumericIdentifiersKeepDigits(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server.URL+"/api/v1/privacy/report", `{
		"facts": {"model": "Pixel 7", "simSerial": 8901260012345678901234, "totalApps": 212}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var got DeviceReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if v := got.Report.Facts.Value(model.FactSimSerial); v != "8901260012345678901234" {
		t.Errorf("simSerial = %q, want the digits as sent", v)
	}
	if v := got.Report.Facts.Value(model.FactTotalApps); v != "212" {
		t.Errorf("totalApps = %q", v)
	}
}

func TestBodyErrors(t *testing.T) {
	server := newTestServer(t)
	huge := `{"facts": {"model": "` + strings.Repeat("x", maxBodyBytes) + `"}}`

	for _, path := range []string{"/api/v1/privacy/score", "/api/v1/nfc/report"} {
		if resp := post(t, server.URL+path, huge); resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Errorf("%s: expected 413 for oversized body, got %d", path, resp.StatusCode)
		}
	}
	if resp := post(t, server.URL+"/api/v1/privacy/score", `{"facts": `); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for truncated body, got %d", resp.StatusCode)
	}
}
