package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/version"
)

// Default values for the aggregation engine
const (
	DefaultCheckerTimeout = 2 * time.Minute
	DefaultMaxConcurrency = 4
)

// processRecommendations is the fixed tail appended after all
// module-specific recommendations.
var processRecommendations = []string{
	"Integrate documentation QA into the CI/CD pipeline for continuous monitoring",
	"Set up automated quality gates to prevent regression",
	"Establish a documentation review process with a quality checklist",
	"Monitor quality metric trends over time",
	"Prioritize critical and major issues first",
	"Create a documentation style guide and enforce consistency",
	"Include documentation QA in the development workflow",
	"Ensure a mobile-first approach in documentation design",
}

// Engine runs the registered checkers and aggregates their module
// reports into one quality report.
type Engine struct {
	registry *Registry
	policy   domain.WeightingPolicy
	gates    []domain.GateSpec

	checkerTimeout time.Duration
	maxConcurrency int
	progress       domain.ProgressManager
	logger         *charmlog.Logger
}

// EngineOption customizes engine construction
type EngineOption func(*Engine)

// WithCheckerTimeout sets the per-checker wall-clock budget
func WithCheckerTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.checkerTimeout = d
		}
	}
}

// WithMaxConcurrency caps how many checkers run at once; 0 means unlimited
func WithMaxConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n >= 0 {
			e.maxConcurrency = n
		}
	}
}

// WithProgress attaches a progress manager
func WithProgress(pm domain.ProgressManager) EngineOption {
	return func(e *Engine) {
		if pm != nil {
			e.progress = pm
		}
	}
}

// WithLogger attaches a structured logger
func WithLogger(l *charmlog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine validates the configuration and builds an engine.
// Configuration problems are the only errors the engine ever returns
// from construction or Run; everything later degrades the report.
func NewEngine(registry *Registry, weights map[string]float64, gates []domain.GateSpec, opts ...EngineOption) (*Engine, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, domain.NewConfigError("no checkers registered", nil)
	}

	policy, err := domain.NewWeightingPolicy(weights)
	if err != nil {
		return nil, err
	}

	for _, name := range registry.Names() {
		if _, ok := policy.Weight(name); !ok {
			return nil, domain.NewConfigError(
				fmt.Sprintf("registered checker %q has no weight", name), nil)
		}
	}

	for i, gate := range gates {
		if gate.Name == "" {
			return nil, domain.NewConfigError(fmt.Sprintf("gate %d has no metric name", i), nil)
		}
		if !gate.Comparison.IsValid() {
			return nil, domain.NewConfigError(
				fmt.Sprintf("gate %q has invalid comparison %q", gate.Name, gate.Comparison), nil)
		}
	}

	e := &Engine{
		registry:       registry,
		policy:         policy,
		gates:          gates,
		checkerTimeout: DefaultCheckerTimeout,
		maxConcurrency: DefaultMaxConcurrency,
		progress:       &NoOpProgressManager{},
		logger:         charmlog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes every registered checker not in skip and aggregates the
// results. Checker failures, panics, and timeouts become zero-score
// module reports; Run itself fails only when the context is cancelled
// before aggregation completes.
func (e *Engine) Run(ctx context.Context, target domain.Target, skip map[string]bool) (*domain.QualityReport, error) {
	start := time.Now()

	var toRun []string
	var skipped []string
	for _, name := range e.registry.Names() {
		if skip[name] {
			skipped = append(skipped, name)
			continue
		}
		toRun = append(toRun, name)
	}
	sort.Strings(skipped)

	if len(toRun) == 0 {
		return nil, domain.NewConfigError("all registered checkers are skipped", nil)
	}

	task := e.progress.StartTask("Checking documentation quality", len(toRun))
	defer task.Complete()

	reports := make(map[string]*domain.ModuleReport, len(toRun))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}

	for _, name := range toRun {
		name := name
		checker, _ := e.registry.Get(name)
		g.Go(func() error {
			report := e.runChecker(gctx, name, checker, target)
			task.Describe("Finished " + name)
			task.Increment(1)

			mu.Lock()
			reports[name] = report
			mu.Unlock()

			// Checker failures are recorded in the report, never
			// propagated, so the remaining checkers keep running.
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		// A cancelled run produces no report
		return nil, err
	}

	report := e.aggregate(toRun, skipped, reports)
	report.Duration = time.Since(start).Milliseconds()
	e.logger.Info("aggregation complete",
		"modules", len(toRun),
		"overall_score", report.OverallScore,
		"passed", report.Passed())
	return report, nil
}

// runChecker invokes one checker under its timeout with panic recovery
func (e *Engine) runChecker(ctx context.Context, name string, checker domain.Checker, target domain.Target) (report *domain.ModuleReport) {
	checkerCtx, cancel := context.WithTimeout(ctx, e.checkerTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("checker panicked", "module", name, "panic", r)
			report = domain.ErrorReport(name, fmt.Sprintf("panic: %v", r))
			report.Duration = time.Since(start).Milliseconds()
		}
	}()

	result, err := checker.Check(checkerCtx, target)
	elapsed := time.Since(start).Milliseconds()

	switch {
	case err != nil && checkerCtx.Err() == context.DeadlineExceeded:
		e.logger.Error("checker timed out", "module", name, "timeout", e.checkerTimeout)
		report = domain.ErrorReport(name, "timeout")
	case err != nil:
		e.logger.Error("checker failed", "module", name, "err", err)
		report = domain.ErrorReport(name, err.Error())
	case result == nil:
		report = domain.ErrorReport(name, "checker returned no report")
	default:
		report = result
		report.ModuleName = name
		if report.ModuleScore < 0 {
			report.ModuleScore = 0
		} else if report.ModuleScore > 100 {
			report.ModuleScore = 100
		}
		if report.Failed() {
			e.logger.Warn("checker self-reported failure", "module", name, "err", report.Error)
			report.ModuleScore = 0
		}
	}
	report.Duration = elapsed
	return report
}

// aggregate computes the weighted overall score, issue counts, merged
// recommendations, and gate results. Deterministic for fixed inputs.
func (e *Engine) aggregate(ran, skipped []string, reports map[string]*domain.ModuleReport) *domain.QualityReport {
	effective := e.policy.Effective(ran)

	overall := 0.0
	for _, name := range ran {
		overall += effective[name] * reports[name].ModuleScore
	}
	overall = math.Round(overall*10) / 10

	critical := 0
	total := 0
	for _, name := range ran {
		r := reports[name]
		total += len(r.Findings)
		critical += r.CountBySeverity(domain.SeverityCritical)
	}

	recommendations := mergeRecommendations(ran, reports)

	report := &domain.QualityReport{
		GeneratedAt:          time.Now().UTC().Format(time.RFC3339),
		Version:              version.GetVersion(),
		ModuleReports:        reports,
		ModulesExecuted:      ran,
		ModulesSkipped:       skipped,
		OverallScore:         overall,
		CriticalIssues:       critical,
		TotalIssues:          total,
		Recommendations:      recommendations,
		RecommendationsCount: len(recommendations),
	}
	report.GateResults = domain.EvaluateGates(report.Metrics(), e.gates)
	return report
}

// mergeRecommendations walks modules in registration order, prefixes
// each checker recommendation with its module name, deduplicates by
// exact string keeping first occurrence, then appends the fixed
// process-level tail. Errored modules contribute nothing.
func mergeRecommendations(ran []string, reports map[string]*domain.ModuleReport) []string {
	seen := make(map[string]bool)
	var merged []string

	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			merged = append(merged, rec)
		}
	}

	for _, name := range ran {
		r := reports[name]
		if r.Failed() {
			continue
		}
		prefix := "[" + titleCase(name) + "] "
		for _, rec := range r.Recommendations {
			add(prefix + rec)
		}
	}

	for _, rec := range processRecommendations {
		add(rec)
	}
	return merged
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
