package domain

// Comparison determines which direction a gate threshold is applied
type Comparison string

const (
	// CompareAtLeast passes when actual >= threshold (scores)
	CompareAtLeast Comparison = "at_least"

	// CompareAtMost passes when actual <= threshold (issue counts)
	CompareAtMost Comparison = "at_most"
)

// IsValid reports whether c is a known comparison
func (c Comparison) IsValid() bool {
	return c == CompareAtLeast || c == CompareAtMost
}

// GateSpec is a named pass/fail threshold over the aggregated metrics
type GateSpec struct {
	// Name matches a key in the flat metrics map
	// (overall_score, critical_issues, total_issues, <module>_score)
	Name string `json:"name" mapstructure:"metric" yaml:"metric"`

	Threshold float64 `json:"threshold" mapstructure:"threshold" yaml:"threshold"`

	Comparison Comparison `json:"comparison" mapstructure:"comparison" yaml:"comparison"`
}

// GateResult is the outcome of evaluating one gate
type GateResult struct {
	Threshold float64 `json:"threshold"`

	// Actual is the resolved metric value; zero when the metric is missing
	Actual float64 `json:"actual"`

	Passed bool `json:"passed"`

	// MissingMetric marks a gate whose metric was absent from the run.
	// Such gates fail closed so a misconfigured gate is noticed instead
	// of silently passing.
	MissingMetric bool `json:"missing_metric,omitempty"`
}

// OverallGate is the synthetic AND of all named gates
type OverallGate struct {
	Passed      bool `json:"passed"`
	PassedCount int  `json:"passed_count"`
	TotalCount  int  `json:"total_count"`
}

// GateResults holds the per-gate outcomes plus the synthetic overall gate
type GateResults struct {
	Gates   map[string]GateResult `json:"gates"`
	Overall OverallGate           `json:"overall"`
}

// FailedGates returns the names of gates that did not pass, sorted by
// the order they appear in the supplied spec list.
func (gr GateResults) FailedGates(specs []GateSpec) []string {
	var failed []string
	for _, spec := range specs {
		if result, ok := gr.Gates[spec.Name]; ok && !result.Passed {
			failed = append(failed, spec.Name)
		}
	}
	return failed
}

// DefaultGates returns the built-in quality gate set
func DefaultGates() []GateSpec {
	return []GateSpec{
		{Name: "overall_score", Threshold: 85, Comparison: CompareAtLeast},
		{Name: "links_score", Threshold: 95, Comparison: CompareAtLeast},
		{Name: "formatting_score", Threshold: 90, Comparison: CompareAtLeast},
		{Name: "accessibility_score", Threshold: 85, Comparison: CompareAtLeast},
		{Name: "mobile_score", Threshold: 80, Comparison: CompareAtLeast},
		{Name: "performance_score", Threshold: 75, Comparison: CompareAtLeast},
		{Name: "critical_issues", Threshold: 0, Comparison: CompareAtMost},
		{Name: "total_issues", Threshold: 50, Comparison: CompareAtMost},
	}
}

// EvaluateGates applies each gate spec against the flat metrics map.
// Pure and deterministic: no state, no I/O, identical inputs always
// produce identical outcomes. A gate naming a missing metric fails
// closed rather than returning an error.
func EvaluateGates(metrics map[string]float64, gates []GateSpec) GateResults {
	results := GateResults{
		Gates: make(map[string]GateResult, len(gates)),
	}

	passed := 0
	for _, gate := range gates {
		actual, ok := metrics[gate.Name]
		result := GateResult{
			Threshold: gate.Threshold,
			Actual:    actual,
		}

		switch {
		case !ok:
			result.MissingMetric = true
		case gate.Comparison == CompareAtMost:
			result.Passed = actual <= gate.Threshold
		default:
			result.Passed = actual >= gate.Threshold
		}

		if result.Passed {
			passed++
		}
		results.Gates[gate.Name] = result
	}

	results.Overall = OverallGate{
		Passed:      passed == len(gates),
		PassedCount: passed,
		TotalCount:  len(gates),
	}
	return results
}
