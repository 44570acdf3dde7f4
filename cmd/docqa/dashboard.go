package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/service"
)

var (
	dashConfigPath string
	dashSkip       []string
	dashSiteURL    string
	dashJSON       bool
	dashHTML       bool
	dashCI         bool
	dashDetails    bool
	dashResultsDir string
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [docs-dir]",
		Short: "Run all quality checkers and print the quality dashboard",
		Long: `Run the full documentation quality suite over a docs tree, aggregate
module scores into a weighted overall score, and evaluate quality gates.

Exit codes:
  0 - all quality gates passed
  1 - one or more gates failed
  2 - setup or run error

Examples:
  docqa dashboard docs/
  docqa dashboard --skip mobile,performance docs/
  docqa dashboard --site-url https://docs.example.com docs/
  docqa dashboard --json docs/
  docqa dashboard --html --results-dir qa-results docs/`,
		RunE:          runDashboard,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&dashConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringSliceVar(&dashSkip, "skip", nil,
		"Checkers to skip (comma-separated): links,formatting,accessibility,mobile,performance")
	cmd.Flags().StringVar(&dashSiteURL, "site-url", "", "Rendered site base URL for live checks")
	cmd.Flags().BoolVar(&dashJSON, "json", false, "Output the full report as JSON")
	cmd.Flags().BoolVar(&dashHTML, "html", false, "Write the HTML dashboard to the results directory")
	cmd.Flags().BoolVar(&dashCI, "ci", false, "Print a markdown summary for CI logs")
	cmd.Flags().BoolVarP(&dashDetails, "details", "d", false, "Show per-finding breakdown")
	cmd.Flags().StringVar(&dashResultsDir, "results-dir", "", "Directory for saved report files")

	return cmd
}

func runDashboard(cmd *cobra.Command, args []string) error {
	docsDir, err := resolveDocsDir(args)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := config.LoadConfigWithTarget(dashConfigPath, docsDir)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}
	if dashSiteURL != "" {
		cfg.Analysis.SiteURL = dashSiteURL
	}
	if dashResultsDir != "" {
		cfg.Output.Directory = dashResultsDir
	}
	if dashDetails {
		cfg.Output.ShowDetails = true
	}

	// Progress bars interfere with machine-readable output
	pm := service.NewProgressManager(!dashJSON && !dashCI)
	defer pm.Close()

	engine, err := buildEngine(cfg, pm)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	report, err := engine.Run(cmd.Context(), domain.Target{
		DocsDir: docsDir,
		SiteURL: cfg.Analysis.SiteURL,
	}, skipSet(dashSkip))
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}
	if report == nil {
		return &CheckExitError{Code: 2, Message: "run cancelled"}
	}

	if cfg.Output.Directory != "" {
		store := service.NewReportStore(cfg.Output.Directory, logger)
		if err := store.Save(report); err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}
		if dashHTML {
			if _, err := store.SaveDashboard(report); err != nil {
				return &CheckExitError{Code: 2, Message: err.Error()}
			}
		}
	}

	if err := writeDashboard(report, cfg, os.Stdout); err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	if !report.Passed() {
		return &CheckExitError{Code: 1}
	}
	return nil
}

func writeDashboard(report *domain.QualityReport, cfg *config.Config, out *os.File) error {
	if dashCI {
		return service.WriteCIReport(report, out)
	}

	format := resolveFormat(cfg.Output.Format, dashJSON, dashHTML && cfg.Output.Directory == "")
	formatter := service.NewOutputFormatter(styles(cfg.Output.NoColor), cfg.Output.ShowDetails)
	return formatter.Write(report, format, out)
}
