package domain

import "fmt"

// Severity represents the cross-checker severity of a finding.
// Every checker maps its native levels onto exactly these three.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// IsValid reports whether s is one of the three enumerated severities
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return true
	}
	return false
}

// Rank returns an ordering value for sorting (critical first)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMajor:
		return 1
	default:
		return 2
	}
}

// ParseSeverity maps a checker-native severity level onto the shared
// taxonomy. Unmapped levels default to minor rather than being dropped.
func ParseSeverity(native string) Severity {
	switch native {
	case "critical", "error":
		return SeverityCritical
	case "major", "warning":
		return SeverityMajor
	case "minor", "info":
		return SeverityMinor
	default:
		return SeverityMinor
	}
}

// Finding is one reported issue against a documentation artifact.
// Findings are value objects: created once, never mutated.
type Finding struct {
	// File is the path or URL identifying where the issue was found
	File string `json:"file"`

	// Line is the 1-based line number; 0 for file-level issues
	Line int `json:"line,omitempty"`

	// Category is the checker-specific issue type tag
	// (e.g. broken_link, missing_alt, touch_target_small)
	Category string `json:"category"`

	// Severity is the cross-checker severity
	Severity Severity `json:"severity"`

	// Message is a human-readable description of the issue
	Message string `json:"message"`

	// Recommendation is an optional actionable fix suggestion
	Recommendation string `json:"recommendation,omitempty"`
}

// NewFinding constructs a validated Finding. It is the only supported
// way to create findings; severity values outside the taxonomy are
// rejected rather than passed through.
func NewFinding(file string, line int, category string, severity Severity, message string) (Finding, error) {
	if file == "" {
		return Finding{}, NewInvalidInputError("finding requires a file", nil)
	}
	if category == "" {
		return Finding{}, NewInvalidInputError("finding requires a category", nil)
	}
	if message == "" {
		return Finding{}, NewInvalidInputError("finding requires a message", nil)
	}
	if !severity.IsValid() {
		return Finding{}, NewInvalidInputError(
			fmt.Sprintf("invalid severity %q, must be one of: critical, major, minor", severity), nil)
	}
	return Finding{
		File:     file,
		Line:     line,
		Category: category,
		Severity: severity,
		Message:  message,
	}, nil
}

// WithRecommendation returns a copy of the finding carrying a fix suggestion
func (f Finding) WithRecommendation(rec string) Finding {
	f.Recommendation = rec
	return f
}

// Location formats the finding position as file or file:line
func (f Finding) Location() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}
