package nfc

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/privdiag/internal/model"
)

// Risk levels used by the security summary
const (
	RiskHigh   = "HIGH"
	RiskMedium = "MEDIUM"
)

// Recommendation is always appended to the security summary
const Recommendation = "Keep passport in RFID-blocking sleeve when not in use"

const notAnalyzed = "Technology not specifically analyzed"

// TagReport is the structured analysis of one tag
type TagReport struct {
	TagIDHex       string           `json:"tag_id_hex"`
	TagIDDecimal   string           `json:"tag_id_decimal"`
	Technologies   []string         `json:"technologies"` // As reported
	ScannedAt      time.Time        `json:"scanned_at,omitempty"`
	Sections       []Section        `json:"sections"`
	Risks          []RiskAnnotation `json:"risks"`
	Recommendation string           `json:"recommendation"`
}

// Section is the analysis of one reported technology.
// Either Lines or Error is set, never both.
type Section struct {
	Technology string               `json:"technology"` // Reported name
	Kind       model.TechnologyName `json:"kind"`
	Lines      []string             `json:"lines,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// RiskAnnotation flags a technology that can leak personal data
type RiskAnnotation struct {
	Level  string `json:"level"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

var (
	isoDepRisk = RiskAnnotation{
		Level:  RiskHigh,
		Title:  "ISO14443A (Passport/Credit Card)",
		Detail: "This technology is commonly used in passports and can transmit personal data",
	}
	ndefRisk = RiskAnnotation{
		Level:  RiskMedium,
		Title:  "NDEF",
		Detail: "Can contain URLs, text, or contact information",
	}
)

// Builder turns TagDescriptors into TagReports
type Builder struct{}

// NewBuilder creates a tag report builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build analyses every reported technology. It never fails: a broken
// section becomes a single error line and the rest still render.
func (b *Builder) Build(tag model.TagDescriptor) *TagReport {
	report := &TagReport{
		TagIDHex:       BytesToHex(tag.ID),
		TagIDDecimal:   BytesToDecimal(tag.ID),
		Technologies:   append([]string{}, tag.Technologies...),
		ScannedAt:      tag.ScannedAt,
		Sections:       make([]Section, 0, len(tag.Technologies)),
		Risks:          []RiskAnnotation{},
		Recommendation: Recommendation,
	}

	for _, reported := range tag.Technologies {
		report.Sections = append(report.Sections, b.analyze(reported, tag))
	}

	if tag.HasTechnology(model.TechIsoDep) {
		report.Risks = append(report.Risks, isoDepRisk)
	}
	if tag.HasTechnology(model.TechNdef) {
		report.Risks = append(report.Risks, ndefRisk)
	}

	return report
}

func (b *Builder) analyze(reported string, tag model.TagDescriptor) (sec Section) {
	kind := model.ParseTechnology(reported)
	sec = Section{Technology: reported, Kind: kind}

	if kind == model.TechUnknown {
		sec.Lines = []string{notAnalyzed}
		return sec
	}

	attrs, ok := tag.Attributes[kind]
	if !ok {
		sec.Error = errNoAttributes.Error()
		return sec
	}
	if attrs.Error != "" {
		sec.Error = attrs.Error
		return sec
	}

	defer func() {
		if r := recover(); r != nil {
			sec.Lines = nil
			sec.Error = fmt.Sprint(r)
		}
	}()

	lines, err := analyzers[kind](attrs)
	if err != nil {
		sec.Error = err.Error()
		return sec
	}
	sec.Lines = lines
	return sec
}

// Text renders the report in the classic plain-text layout
func (r *TagReport) Text() string {
	var sb strings.Builder

	sb.WriteString("🔍 NFC TAG ANALYSIS RESULTS\n")
	sb.WriteString("============================\n")
	if !r.ScannedAt.IsZero() {
		sb.WriteString("Scan completed: " + r.ScannedAt.Format("2006-01-02 15:04:05") + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("📱 TAG INFORMATION\n")
	sb.WriteString("-------------------\n")
	sb.WriteString("Tag ID: " + r.TagIDHex + "\n")
	sb.WriteString("Tag ID (Decimal): " + r.TagIDDecimal + "\n")
	sb.WriteString("Supported Technologies: [" + strings.Join(r.Technologies, ", ") + "]\n\n")

	for _, sec := range r.Sections {
		sb.WriteString("🔧 TECHNOLOGY: " + sec.Technology + "\n")
		sb.WriteString("-----------------\n")
		if sec.Error != "" {
			sb.WriteString("Error analyzing " + sec.Technology + ": " + sec.Error + "\n")
		} else {
			for _, line := range sec.Lines {
				sb.WriteString(line + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("🔒 SECURITY ANALYSIS\n")
	sb.WriteString("--------------------\n")
	sb.WriteString("Potential Data Exposure:\n")
	for _, risk := range r.Risks {
		sb.WriteString(fmt.Sprintf("• %s - %s RISK\n", risk.Title, risk.Level))
		sb.WriteString("  " + risk.Detail + "\n")
	}
	sb.WriteString("\nRecommendation: " + r.Recommendation + "\n")

	return sb.String()
}

// HasRisk reports whether the summary carries an annotation at level
func (r *TagReport) HasRisk(level string) bool {
	for _, risk := range r.Risks {
		if risk.Level == level {
			return true
		}
	}
	return false
}
