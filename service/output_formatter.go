package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/medianest/docqa/domain"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss degrades to plain text automatically when stdout is not a TTY.
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style

	Critical lipgloss.Style
	Major    lipgloss.Style
	Minor    lipgloss.Style

	Pass lipgloss.Style
	Fail lipgloss.Style

	ScoreGood lipgloss.Style
	ScoreWarn lipgloss.Style
	ScoreBad  lipgloss.Style

	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Critical:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Major:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Minor:     lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		Pass:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
		Fail:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		ScoreGood: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		ScoreWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		ScoreBad:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// PlainStyles returns an unstyled theme for CI logs and file output
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header: plain, SubHeader: plain,
		Critical: plain, Major: plain, Minor: plain,
		Pass: plain, Fail: plain,
		ScoreGood: plain, ScoreWarn: plain, ScoreBad: plain,
		Muted: plain,
	}
}

// OutputFormatterImpl renders quality reports in the supported formats
type OutputFormatterImpl struct {
	styles      Styles
	showDetails bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(styles Styles, showDetails bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{styles: styles, showDetails: showDetails}
}

// Write renders the quality report in the specified format
func (f *OutputFormatterImpl) Write(report *domain.QualityReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, report)
	case domain.OutputFormatText:
		return f.writeText(report, writer)
	case domain.OutputFormatHTML:
		return WriteHTML(report, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeText(report *domain.QualityReport, w io.Writer) error {
	s := f.styles

	fmt.Fprintln(w, s.Header.Render("Documentation Quality Report"))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("Generated: %s  (docqa %s, %dms)",
		report.GeneratedAt, report.Version, report.Duration)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Overall Score: %s\n", f.renderScore(report.OverallScore))
	fmt.Fprintf(w, "Issues: %d total, %s critical\n",
		report.TotalIssues, f.renderCriticalCount(report.CriticalIssues))
	fmt.Fprintln(w)

	// Module breakdown in execution order
	fmt.Fprintln(w, s.Header.Render("Modules"))
	for _, name := range report.ModulesExecuted {
		mr := report.ModuleReports[name]
		if mr == nil {
			continue
		}
		if mr.Failed() {
			fmt.Fprintf(w, "  %-15s %s  %s\n", name,
				s.Fail.Render("ERROR"), s.Muted.Render(mr.Error))
			continue
		}
		fmt.Fprintf(w, "  %-15s %s  (%d findings, %dms)\n",
			name, f.renderScore(mr.ModuleScore), len(mr.Findings), mr.Duration)
	}
	for _, name := range report.ModulesSkipped {
		fmt.Fprintf(w, "  %-15s %s\n", name, s.Muted.Render("skipped"))
	}
	fmt.Fprintln(w)

	if f.showDetails {
		f.writeFindings(report, w)
	}

	// Gates are sorted by name for stable output
	fmt.Fprintln(w, s.Header.Render("Quality Gates"))
	for _, name := range sortedGateNames(report.GateResults.Gates) {
		result := report.GateResults.Gates[name]
		status := s.Pass.Render("PASS")
		if !result.Passed {
			status = s.Fail.Render("FAIL")
		}
		detail := fmt.Sprintf("actual %.1f, threshold %.1f", result.Actual, result.Threshold)
		if result.MissingMetric {
			detail = "metric not produced by this run"
		}
		fmt.Fprintf(w, "  %s %-22s %s\n", status, name, s.Muted.Render(detail))
	}

	overall := report.GateResults.Overall
	fmt.Fprintln(w)
	if overall.Passed {
		fmt.Fprintf(w, "%s (%d/%d gates)\n",
			s.Pass.Render("QUALITY GATES PASSED"), overall.PassedCount, overall.TotalCount)
	} else {
		fmt.Fprintf(w, "%s (%d/%d gates)\n",
			s.Fail.Render("QUALITY GATES FAILED"), overall.PassedCount, overall.TotalCount)
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Header.Render("Recommendations"))
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	return nil
}

func (f *OutputFormatterImpl) writeFindings(report *domain.QualityReport, w io.Writer) {
	for _, name := range report.ModulesExecuted {
		mr := report.ModuleReports[name]
		if mr == nil || len(mr.Findings) == 0 {
			continue
		}
		fmt.Fprintln(w, f.styles.Header.Render("Findings: "+name))
		for _, finding := range mr.Findings {
			fmt.Fprintf(w, "  %s %s %s: %s\n",
				f.renderSeverity(finding.Severity),
				finding.Location(),
				f.styles.Muted.Render(finding.Category),
				finding.Message)
		}
		fmt.Fprintln(w)
	}
}

func (f *OutputFormatterImpl) renderSeverity(severity domain.Severity) string {
	label := strings.ToUpper(string(severity))
	switch severity {
	case domain.SeverityCritical:
		return f.styles.Critical.Render(label)
	case domain.SeverityMajor:
		return f.styles.Major.Render(label)
	default:
		return f.styles.Minor.Render(label)
	}
}

func (f *OutputFormatterImpl) renderScore(score float64) string {
	text := fmt.Sprintf("%.1f/100", score)
	switch {
	case score >= 90:
		return f.styles.ScoreGood.Render(text)
	case score >= 70:
		return f.styles.ScoreWarn.Render(text)
	default:
		return f.styles.ScoreBad.Render(text)
	}
}

func (f *OutputFormatterImpl) renderCriticalCount(critical int) string {
	text := fmt.Sprintf("%d", critical)
	if critical > 0 {
		return f.styles.Fail.Render(text)
	}
	return f.styles.Pass.Render(text)
}

func sortedGateNames(gates map[string]domain.GateResult) []string {
	names := make([]string, 0, len(gates))
	for name := range gates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteCIReport writes a markdown summary suitable for CI job logs
// and pull request comments.
func WriteCIReport(report *domain.QualityReport, w io.Writer) error {
	status := "PASSED"
	if !report.Passed() {
		status = "FAILED"
	}

	fmt.Fprintf(w, "## Documentation Quality: %s\n\n", status)
	fmt.Fprintf(w, "**Overall Score:** %.1f/100 | **Issues:** %d (%d critical)\n\n",
		report.OverallScore, report.TotalIssues, report.CriticalIssues)

	fmt.Fprintln(w, "| Module | Score | Findings |")
	fmt.Fprintln(w, "|--------|-------|----------|")
	for _, name := range report.ModulesExecuted {
		mr := report.ModuleReports[name]
		if mr == nil {
			continue
		}
		if mr.Failed() {
			fmt.Fprintf(w, "| %s | error | %s |\n", name, mr.Error)
			continue
		}
		fmt.Fprintf(w, "| %s | %.1f | %d |\n", name, mr.ModuleScore, len(mr.Findings))
	}
	fmt.Fprintln(w)

	var failed []string
	for _, name := range sortedGateNames(report.GateResults.Gates) {
		if !report.GateResults.Gates[name].Passed {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "### Failed Gates\n\n")
		for _, name := range failed {
			result := report.GateResults.Gates[name]
			if result.MissingMetric {
				fmt.Fprintf(w, "- `%s`: metric not produced by this run\n", name)
				continue
			}
			fmt.Fprintf(w, "- `%s`: actual %.1f, threshold %.1f\n", name, result.Actual, result.Threshold)
		}
		fmt.Fprintln(w)
	}

	return nil
}
