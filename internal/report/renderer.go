package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/nfc"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	fileStampLayout = "2006-01-02T15-04-05-000"
	exportPrefix    = "PrivacyScan_"
)

// Renderer writes device and tag reports
type Renderer struct {
	now func() time.Time
}

// NewRenderer creates a renderer using the wall clock
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// RenderJSON writes v as indented JSON to path ("-" for stdout)
func (r *Renderer) RenderJSON(v any, path string) error {
	if path == "-" {
		return r.WriteJSON(os.Stdout, v)
	}

	data, err := marshalJSON(v)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// WriteJSON writes v as indented JSON to w
func (r *Renderer) WriteJSON(w io.Writer, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderTag writes the tag report text
func (r *Renderer) RenderTag(w io.Writer, report *nfc.TagReport) error {
	_, err := io.WriteString(w, report.Text())
	return err
}

// RenderSummary prints a one-screen summary of a device report
func (r *Renderer) RenderSummary(w io.Writer, report *model.DeviceReport) {
	device := report.Device
	if device == "" {
		device = report.Source
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", device)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Privacy Score:  %d/100\n", report.Score.Score)
	fmt.Fprintf(w, "  Risk Level:     %s\n", report.Score.RiskLevel.Label())
	fmt.Fprintf(w, "  Emulator:       %s\n", report.Emulator)

	if exposed := report.Score.ExposedFacts(); len(exposed) > 0 {
		names := make([]string, len(exposed))
		for i, f := range exposed {
			names[i] = string(f)
		}
		fmt.Fprintf(w, "  Exposed:        %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "\n  %s\n\n", report.Score.Recommendation)
}

// ExportResult describes a written export file
type ExportResult struct {
	Path string
	Size int64
}

// Export writes text to dir as PrivacyScan_<timestamp>.txt behind the
// export header. facts supply the device and Android version lines.
func (r *Renderer) Export(text, dir string, facts model.FactSet) (*ExportResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to export")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	now := r.now()

	var sb strings.Builder
	sb.WriteString("PRIVACY DIAGNOSTIC APP - EXPORT RESULTS\n")
	sb.WriteString("========================================\n")
	sb.WriteString("Export Date: " + now.Format(timestampLayout) + "\n")
	sb.WriteString("Device: " + facts.Value(model.FactManufacturer) + " " + facts.Value(model.FactModel) + "\n")
	sb.WriteString("Android Version: " + facts.Value(model.FactAndroidVersion) + "\n\n")
	sb.WriteString(text)

	path := filepath.Join(dir, exportPrefix+now.Format(fileStampLayout)+".txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat export: %w", err)
	}

	return &ExportResult{Path: path, Size: info.Size()}, nil
}
