package service

import (
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/medianest/docqa/domain"
)

// HTMLData represents the data for the HTML dashboard template
type HTMLData struct {
	Report  *domain.QualityReport
	Modules []moduleRow
	Gates   []gateRow
}

type moduleRow struct {
	Name     string
	Report   *domain.ModuleReport
	Skipped  bool
	Findings []domain.Finding
}

type gateRow struct {
	Name   string
	Result domain.GateResult
}

// WriteHTML writes the quality report as a standalone HTML dashboard
func WriteHTML(report *domain.QualityReport, writer io.Writer) error {
	data := HTMLData{Report: report}

	for _, name := range report.ModulesExecuted {
		mr := report.ModuleReports[name]
		if mr == nil {
			continue
		}
		data.Modules = append(data.Modules, moduleRow{
			Name:     name,
			Report:   mr,
			Findings: mr.Findings,
		})
	}
	for _, name := range report.ModulesSkipped {
		data.Modules = append(data.Modules, moduleRow{Name: name, Skipped: true})
	}

	names := make([]string, 0, len(report.GateResults.Gates))
	for name := range report.GateResults.Gates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data.Gates = append(data.Gates, gateRow{Name: name, Result: report.GateResults.Gates[name]})
	}

	funcMap := template.FuncMap{
		"scoreClass": func(score float64) string {
			switch {
			case score >= 90:
				return "score-good"
			case score >= 70:
				return "score-fair"
			default:
				return "score-poor"
			}
		},
		"severityClass": func(s domain.Severity) string {
			return "severity-" + string(s)
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}

	tmpl := template.Must(template.New("dashboard").Funcs(funcMap).Parse(htmlTemplate))
	if err := tmpl.Execute(writer, data); err != nil {
		return domain.NewOutputError("failed to render HTML report", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Documentation Quality Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
        }
        .container {
            max-width: 1100px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .header h1 { color: #667eea; margin-bottom: 10px; }
        .header .subtitle { color: #666; font-size: 14px; }
        .score-badge {
            display: inline-block;
            padding: 10px 24px;
            border-radius: 50px;
            font-size: 26px;
            font-weight: bold;
            margin: 10px 0;
            color: white;
        }
        .score-good { background: #4caf50; }
        .score-fair { background: #ff9800; }
        .score-poor { background: #f44336; }
        .gate-banner {
            display: inline-block;
            margin-left: 15px;
            padding: 6px 16px;
            border-radius: 6px;
            font-weight: bold;
            color: white;
        }
        .gate-pass { background: #4caf50; }
        .gate-fail { background: #f44336; }
        .card {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .card h2 { color: #667eea; margin-bottom: 15px; }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            text-align: center;
        }
        .metric-card .value { font-size: 28px; font-weight: bold; color: #333; }
        .metric-card .label { font-size: 13px; color: #888; text-transform: uppercase; }
        .metric-card .error-label { font-size: 13px; color: #f44336; }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-top: 10px;
        }
        th, td {
            text-align: left;
            padding: 10px 12px;
            border-bottom: 1px solid #eee;
            font-size: 14px;
        }
        th { color: #888; text-transform: uppercase; font-size: 12px; }
        .severity-critical { color: #f44336; font-weight: bold; }
        .severity-major { color: #ff9800; font-weight: bold; }
        .severity-minor { color: #fbc02d; }
        .pass { color: #4caf50; font-weight: bold; }
        .fail { color: #f44336; font-weight: bold; }
        .muted { color: #999; }
        ul.recommendations { margin-left: 20px; }
        ul.recommendations li { margin: 6px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Documentation Quality Report</h1>
            <div class="subtitle">Generated {{.Report.GeneratedAt}} &bull; docqa {{.Report.Version}} &bull; {{.Report.Duration}}ms</div>
            <div>
                <span class="score-badge {{scoreClass .Report.OverallScore}}">{{printf "%.1f" .Report.OverallScore}}</span>
                {{if .Report.Passed}}<span class="gate-banner gate-pass">GATES PASSED</span>
                {{else}}<span class="gate-banner gate-fail">GATES FAILED</span>{{end}}
            </div>
        </div>

        <div class="card">
            <h2>Modules</h2>
            <div class="metric-grid">
                {{range .Modules}}
                <div class="metric-card">
                    {{if .Skipped}}
                    <div class="value muted">&mdash;</div>
                    <div class="label">{{title .Name}} (skipped)</div>
                    {{else if .Report.Failed}}
                    <div class="value">0.0</div>
                    <div class="label">{{title .Name}}</div>
                    <div class="error-label">{{.Report.Error}}</div>
                    {{else}}
                    <div class="value">{{printf "%.1f" .Report.ModuleScore}}</div>
                    <div class="label">{{title .Name}} ({{len .Findings}} findings)</div>
                    {{end}}
                </div>
                {{end}}
                <div class="metric-card">
                    <div class="value">{{.Report.TotalIssues}}</div>
                    <div class="label">Total Issues</div>
                </div>
                <div class="metric-card">
                    <div class="value">{{.Report.CriticalIssues}}</div>
                    <div class="label">Critical Issues</div>
                </div>
            </div>
        </div>

        <div class="card">
            <h2>Quality Gates ({{.Report.GateResults.Overall.PassedCount}}/{{.Report.GateResults.Overall.TotalCount}})</h2>
            <table>
                <tr><th>Gate</th><th>Status</th><th>Actual</th><th>Threshold</th></tr>
                {{range .Gates}}
                <tr>
                    <td>{{.Name}}</td>
                    {{if .Result.Passed}}<td class="pass">PASS</td>{{else}}<td class="fail">FAIL</td>{{end}}
                    {{if .Result.MissingMetric}}
                    <td class="muted" colspan="2">metric not produced by this run</td>
                    {{else}}
                    <td>{{printf "%.1f" .Result.Actual}}</td>
                    <td>{{printf "%.1f" .Result.Threshold}}</td>
                    {{end}}
                </tr>
                {{end}}
            </table>
        </div>

        {{range .Modules}}{{if and (not .Skipped) .Findings}}
        <div class="card">
            <h2>{{title .Name}} Findings</h2>
            <table>
                <tr><th>Severity</th><th>Location</th><th>Category</th><th>Message</th></tr>
                {{range .Findings}}
                <tr>
                    <td class="{{severityClass .Severity}}">{{.Severity}}</td>
                    <td>{{.Location}}</td>
                    <td class="muted">{{.Category}}</td>
                    <td>{{.Message}}</td>
                </tr>
                {{end}}
            </table>
        </div>
        {{end}}{{end}}

        {{if .Report.Recommendations}}
        <div class="card">
            <h2>Recommendations</h2>
            <ul class="recommendations">
                {{range .Report.Recommendations}}<li>{{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}
    </div>
</body>
</html>
`
