package main

import (
	"fmt"
	"os"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/checker/accessibility"
	"github.com/medianest/docqa/internal/checker/formatting"
	"github.com/medianest/docqa/internal/checker/links"
	"github.com/medianest/docqa/internal/checker/mobile"
	"github.com/medianest/docqa/internal/checker/performance"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
	"github.com/medianest/docqa/service"
)

// resolveDocsDir picks the docs directory from positional args
func resolveDocsDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", domain.NewFileNotFoundError(dir, err)
	}
	if !info.IsDir() {
		return "", domain.NewInvalidInputError(fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return dir, nil
}

// buildEngine assembles the checker registry and engine from configuration
func buildEngine(cfg *config.Config, pm domain.ProgressManager) (*service.Engine, error) {
	collector := docfs.NewCollector(cfg.Analysis.ExcludePatterns)

	registry := service.NewRegistry()
	if cfg.Checkers.Links.Enabled {
		if err := registry.Register(links.New(cfg.Checkers.Links, collector)); err != nil {
			return nil, err
		}
	}
	if cfg.Checkers.Formatting.Enabled {
		if err := registry.Register(formatting.New(cfg.Checkers.Formatting, collector)); err != nil {
			return nil, err
		}
	}
	if cfg.Checkers.Accessibility.Enabled {
		if err := registry.Register(accessibility.New(cfg.Checkers.Accessibility, collector)); err != nil {
			return nil, err
		}
	}
	if cfg.Checkers.Mobile.Enabled {
		if err := registry.Register(mobile.New(cfg.Checkers.Mobile, collector)); err != nil {
			return nil, err
		}
	}
	if cfg.Checkers.Performance.Enabled {
		if err := registry.Register(performance.New(cfg.Checkers.Performance, collector)); err != nil {
			return nil, err
		}
	}

	return service.NewEngine(registry, cfg.Weights, cfg.Gates,
		service.WithCheckerTimeout(cfg.Analysis.CheckerTimeout),
		service.WithMaxConcurrency(cfg.Analysis.MaxConcurrency),
		service.WithProgress(pm),
		service.WithLogger(logger),
	)
}

// skipSet turns the --skip flag values into the engine's skip set
func skipSet(skip []string) map[string]bool {
	if len(skip) == 0 {
		return nil
	}
	set := make(map[string]bool, len(skip))
	for _, name := range skip {
		set[name] = true
	}
	return set
}

// resolveFormat maps output flags onto the report format
func resolveFormat(configured string, jsonFlag, htmlFlag bool) domain.OutputFormat {
	switch {
	case jsonFlag:
		return domain.OutputFormatJSON
	case htmlFlag:
		return domain.OutputFormatHTML
	case configured != "":
		return domain.OutputFormat(configured)
	default:
		return domain.OutputFormatText
	}
}

// styles picks the terminal theme, honoring no-color configuration
func styles(noColor bool) service.Styles {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return service.PlainStyles()
	}
	return service.DefaultStyles()
}
