package validate

import (
	"fmt"
	"sort"

	"github.com/ppiankov/privdiag/internal/model"
)

// Severity of a validation issue
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one problem found in scan input
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// HasErrors reports whether any issue is error-level
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-level issues
func Errors(issues []Issue) []Issue {
	var errs []Issue
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// ValidateTag checks the TagDescriptor invariants the builder relies on:
// no duplicate technologies, and attributes only for reported technologies.
func ValidateTag(tag model.TagDescriptor) []Issue {
	var issues []Issue

	if len(tag.ID) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Field:    "id",
			Message:  "tag id is empty",
		})
	}

	seen := make(map[string]bool, len(tag.Technologies))
	present := make(map[model.TechnologyName]bool, len(tag.Technologies))
	for _, reported := range tag.Technologies {
		if seen[reported] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Field:    "technologies",
				Message:  fmt.Sprintf("duplicate technology %q", reported),
			})
			continue
		}
		seen[reported] = true

		kind := model.ParseTechnology(reported)
		if kind == model.TechUnknown {
			continue
		}
		if present[kind] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Field:    "technologies",
				Message:  fmt.Sprintf("technology %s reported twice under different names", kind),
			})
		}
		present[kind] = true
	}

	keys := make([]string, 0, len(tag.Attributes))
	for kind := range tag.Attributes {
		keys = append(keys, string(kind))
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind := model.TechnologyName(key)
		if !present[kind] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Field:    "attributes." + key,
				Message:  "attributes given for a technology the tag does not report",
			})
			continue
		}
		if msg := bundleMismatch(kind, tag.Attributes[kind]); msg != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "attributes." + key,
				Message:  msg,
			})
		}
	}

	return issues
}

// bundleMismatch flags a bundle that carries no data for its own technology
func bundleMismatch(kind model.TechnologyName, attrs model.TechAttributes) string {
	if attrs.Error != "" {
		return ""
	}
	var ok bool
	switch kind {
	case model.TechIsoDep:
		ok = attrs.IsoDep != nil
	case model.TechNdef:
		ok = attrs.Ndef != nil
	case model.TechNfcA:
		ok = attrs.NfcA != nil
	case model.TechNfcB:
		ok = attrs.NfcB != nil
	case model.TechNfcF:
		ok = attrs.NfcF != nil
	case model.TechNfcV:
		ok = attrs.NfcV != nil
	default:
		return ""
	}
	if ok {
		return ""
	}
	return fmt.Sprintf("no %s attributes in bundle", kind)
}

// ValidateFacts checks raw snapshot facts before they become a FactSet
func ValidateFacts(raw map[string]string) []Issue {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	classifier := NewSensitivityClassifier()

	var issues []Issue
	for _, name := range names {
		fact := model.FactName(name)
		if !model.IsKnownFact(fact) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    name,
				Message:  "unknown fact name, dropped",
			})
			continue
		}
		if msg := classifier.CheckShape(fact, raw[name]); msg != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    name,
				Message:  msg,
			})
		}
	}
	return issues
}
