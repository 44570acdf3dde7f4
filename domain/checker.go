package domain

import "context"

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatHTML OutputFormat = "html"
)

// Target describes what a checker run is pointed at
type Target struct {
	// DocsDir is the documentation content root
	DocsDir string

	// SiteURL is the base URL of the rendered site. Only checkers that
	// need a live server use it; source-level checkers ignore it.
	SiteURL string
}

// Checker is an independent analyzer producing findings against a
// content root. Implementations must classify every native issue into
// the shared severity taxonomy before returning, keep ModuleScore in
// [0,100], and prefer self-reporting expected failures (ErrorReport)
// over returning an error.
type Checker interface {
	// Name returns the unique module name used for registration,
	// weighting, and per-module gates.
	Name() string

	// Check runs the analysis. A returned error is converted by the
	// aggregation engine into a zero-score errored module report; it
	// never aborts the run.
	Check(ctx context.Context, target Target) (*ModuleReport, error)
}

// CheckerFunc adapts a function to the Checker interface
type CheckerFunc struct {
	ModuleName string
	Fn         func(ctx context.Context, target Target) (*ModuleReport, error)
}

// Name implements Checker
func (c CheckerFunc) Name() string { return c.ModuleName }

// Check implements Checker
func (c CheckerFunc) Check(ctx context.Context, target Target) (*ModuleReport, error) {
	return c.Fn(ctx, target)
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
