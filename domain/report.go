package domain

import "time"

// ModuleReport is the normalized output of one checker run.
// A report is created once per invocation and never merged with
// another run; re-running a checker produces a fresh report.
type ModuleReport struct {
	// ModuleName is the unique registry key of the checker
	ModuleName string `json:"module_name"`

	// Findings are the individual issues discovered
	Findings []Finding `json:"findings"`

	// ModuleScore is the checker-specific quality score in [0,100]
	ModuleScore float64 `json:"module_score"`

	// Summary holds free-form checker statistics for display only;
	// it is not used in aggregation math
	Summary map[string]any `json:"summary,omitempty"`

	// Recommendations are checker-specific actionable suggestions
	Recommendations []string `json:"recommendations,omitempty"`

	// Error is set instead of findings/score when the checker failed
	// to run; an errored report scores 0 but keeps its weight
	Error string `json:"error,omitempty"`

	// Duration is the checker wall-clock run time in milliseconds
	Duration int64 `json:"duration_ms"`
}

// Failed reports whether the checker failed to run
func (r *ModuleReport) Failed() bool {
	return r.Error != ""
}

// CountBySeverity returns the number of findings at the given severity
func (r *ModuleReport) CountBySeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// ErrorReport builds the zero-score report used when a checker fails.
// Failure degrades the weighted score instead of inflating issue counts.
func ErrorReport(module, message string) *ModuleReport {
	return &ModuleReport{
		ModuleName:  module,
		ModuleScore: 0,
		Error:       message,
	}
}

// SeverityPenalty computes the common max(0, 100 - Σ penalty·count)
// score formula. The per-severity penalty weights are checker-internal
// tuning parameters and legitimately differ between checkers.
func SeverityPenalty(findings []Finding, critical, major, minor float64) float64 {
	score := 100.0
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			score -= critical
		case SeverityMajor:
			score -= major
		case SeverityMinor:
			score -= minor
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// QualityReport is the final aggregated, gate-evaluated output of one run
type QualityReport struct {
	GeneratedAt string `json:"generated_at"`
	Duration    int64  `json:"duration_ms"`
	Version     string `json:"version"`

	// ModuleReports maps module name to its report for this run
	ModuleReports map[string]*ModuleReport `json:"module_reports"`

	// ModulesExecuted lists the modules that ran, in registration order
	ModulesExecuted []string `json:"modules_executed"`

	// ModulesSkipped lists the modules excluded from this run
	ModulesSkipped []string `json:"modules_skipped,omitempty"`

	// OverallScore is the re-normalized weighted blend of module scores
	OverallScore float64 `json:"overall_score"`

	CriticalIssues       int `json:"critical_issues"`
	TotalIssues          int `json:"total_issues"`
	RecommendationsCount int `json:"recommendations_count"`

	// GateResults holds per-gate outcomes plus the synthetic overall gate
	GateResults GateResults `json:"gate_results"`

	// Recommendations is the deduplicated, module-prefixed merge of all
	// checker recommendations plus the fixed process-level tail
	Recommendations []string `json:"recommendations"`
}

// Passed reports whether the synthetic overall gate passed
func (r *QualityReport) Passed() bool {
	return r.GateResults.Overall.Passed
}

// Metrics flattens the report into the metric map gates resolve against
func (r *QualityReport) Metrics() map[string]float64 {
	m := map[string]float64{
		"overall_score":   r.OverallScore,
		"critical_issues": float64(r.CriticalIssues),
		"total_issues":    float64(r.TotalIssues),
	}
	for name, mr := range r.ModuleReports {
		m[name+"_score"] = mr.ModuleScore
	}
	return m
}

// Timestamp returns the generation time parsed from GeneratedAt,
// or the zero time if it cannot be parsed.
func (r *QualityReport) Timestamp() time.Time {
	t, err := time.Parse(time.RFC3339, r.GeneratedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
