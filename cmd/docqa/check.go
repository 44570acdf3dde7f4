package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/service"
)

// CheckExitError carries a process exit code through cobra's error path
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkConfigPath string
	checkSkip       []string
	checkSiteURL    string
	checkJSON       bool
	checkVerbose    bool
	checkMinScore   float64
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [docs-dir]",
		Short: "Fast quality gate check for CI/CD pipelines",
		Long: `Run the quality suite and report gate pass/fail with minimal output.

Exit codes:
  0 - All quality gates pass
  1 - Quality gate(s) violated
  2 - Run error (bad config, missing directory, etc.)

Examples:
  # Gate check with config defaults
  docqa check docs/

  # Stricter overall score for release branches
  docqa check --min-score 90 docs/

  # Skip live-site checkers in offline CI
  docqa check --skip mobile,performance docs/

  # JSON output for machine parsing
  docqa check --json docs/`,
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringSliceVar(&checkSkip, "skip", nil, "Checkers to skip (comma-separated)")
	cmd.Flags().StringVar(&checkSiteURL, "site-url", "", "Rendered site base URL for live checks")
	cmd.Flags().BoolVar(&checkJSON, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Show every gate, not just failures")
	cmd.Flags().Float64Var(&checkMinScore, "min-score", 0,
		"Override the overall_score gate threshold (0 = use config)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	docsDir, err := resolveDocsDir(args)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := config.LoadConfigWithTarget(checkConfigPath, docsDir)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}
	if checkSiteURL != "" {
		cfg.Analysis.SiteURL = checkSiteURL
	}
	if cmd.Flags().Changed("min-score") {
		for i := range cfg.Gates {
			if cfg.Gates[i].Name == "overall_score" {
				cfg.Gates[i].Threshold = checkMinScore
			}
		}
	}

	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	engine, err := buildEngine(cfg, pm)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	report, err := engine.Run(cmd.Context(), domain.Target{
		DocsDir: docsDir,
		SiteURL: cfg.Analysis.SiteURL,
	}, skipSet(checkSkip))
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}
	if report == nil {
		return &CheckExitError{Code: 2, Message: "run cancelled"}
	}

	if checkJSON {
		if err := service.WriteJSON(os.Stdout, report); err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}
	} else {
		printCheckSummary(report)
	}

	if !report.Passed() {
		return &CheckExitError{Code: 1}
	}
	return nil
}

func printCheckSummary(report *domain.QualityReport) {
	s := styles(false)

	names := make([]string, 0, len(report.GateResults.Gates))
	for name := range report.GateResults.Gates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := report.GateResults.Gates[name]
		if result.Passed && !checkVerbose {
			continue
		}
		status := s.Pass.Render("PASS")
		if !result.Passed {
			status = s.Fail.Render("FAIL")
		}
		if result.MissingMetric {
			fmt.Printf("%s %s (metric not produced by this run)\n", status, name)
			continue
		}
		fmt.Printf("%s %s (actual %.1f, threshold %.1f)\n", status, name, result.Actual, result.Threshold)
	}

	overall := report.GateResults.Overall
	if overall.Passed {
		fmt.Printf("%s score %.1f, %d/%d gates\n",
			s.Pass.Render("OK"), report.OverallScore, overall.PassedCount, overall.TotalCount)
	} else {
		fmt.Printf("%s score %.1f, %d/%d gates\n",
			s.Fail.Render("FAILED"), report.OverallScore, overall.PassedCount, overall.TotalCount)
	}
}
