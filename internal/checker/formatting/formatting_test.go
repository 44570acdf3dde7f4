package formatting

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func newChecker(t *testing.T) *Checker {
	t.Helper()
	return New(config.DefaultConfig().Checkers.Formatting, docfs.NewCollector(nil))
}

func categories(findings []domain.Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}
	return counts
}

func TestCheck_CleanDocument(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"---\ntitle: Home\ndescription: Landing page\ntags: [docs]\n---\n\n# Home\n\n## Section\n\nSome text.\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 0 {
		t.Errorf("Expected no findings, got %v", report.Findings)
	}
	if report.ModuleScore != 100 {
		t.Errorf("Expected score 100, got %g", report.ModuleScore)
	}
}

func TestCheck_MissingFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "bare.md", "# No frontmatter here\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	if counts["missing_frontmatter"] != 1 {
		t.Errorf("Expected missing_frontmatter finding, got %v", counts)
	}
	if report.Findings[0].Severity != domain.SeverityMajor {
		t.Errorf("Missing frontmatter should be major, got %s", report.Findings[0].Severity)
	}
	// one major = 100 - 3
	if report.ModuleScore != 97 {
		t.Errorf("Expected score 97, got %g", report.ModuleScore)
	}
}

func TestCheck_FrontmatterFields(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "partial.md", "---\ndescription: present\n---\n\n# Page\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	var major, minor int
	for _, f := range report.Findings {
		if f.Category != "missing_frontmatter_field" {
			t.Errorf("Unexpected category %s", f.Category)
		}
		switch f.Severity {
		case domain.SeverityMajor:
			major++
		case domain.SeverityMinor:
			minor++
		}
	}
	// title required (major); tags recommended (minor); description present
	if major != 1 || minor != 1 {
		t.Errorf("Expected 1 major + 1 minor, got %d major %d minor", major, minor)
	}
}

func TestCheck_InvalidFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "broken.md", "---\ntitle: [unclosed\n---\n\n# Page\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	if counts["invalid_frontmatter"] != 1 {
		t.Errorf("Expected invalid_frontmatter finding, got %v", counts)
	}
}

func TestCheck_StyleRules(t *testing.T) {
	root := t.TempDir()
	longLine := strings.Repeat("x", 130)
	writeDoc(t, root, "style.md",
		"---\ntitle: Style\ndescription: d\ntags: [t]\n---\n\n# One\n\n### Skipped\n\n"+longLine+"\n\ntrailing  \n\n# Two\n\n```\ncode\n```\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	for category, want := range map[string]int{
		"heading_skip":          1,
		"line_too_long":         1,
		"trailing_whitespace":   1,
		"multiple_h1":           1,
		"missing_code_language": 1,
	} {
		if counts[category] != want {
			t.Errorf("Expected %d %s findings, got %d (all: %v)", want, category, counts[category], counts)
		}
	}
}

func TestCheck_CodeFenceContentIgnored(t *testing.T) {
	root := t.TempDir()
	longLine := strings.Repeat("y", 200)
	writeDoc(t, root, "code.md",
		"---\ntitle: Code\ndescription: d\ntags: [t]\n---\n\n# Code\n\n```go\n"+longLine+"\n#### not a heading\n```\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 0 {
		t.Errorf("Fenced content should be skipped, got %v", report.Findings)
	}
}

func TestCheck_TabsAndMultipleSpaces(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "spacing.md",
		"---\ntitle: Spacing\ndescription: d\ntags: [t]\n---\n\n# Spacing\n\n\tindented with a tab\n\nword  word\n\n| a  | b  |\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	if counts["tab_character"] != 1 {
		t.Errorf("Expected 1 tab_character finding, got %v", counts)
	}
	// Table rows align with space runs and are exempt
	if counts["multiple_spaces"] != 1 {
		t.Errorf("Expected 1 multiple_spaces finding, got %v", counts)
	}
}

func TestCheck_HeadingPresence(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "notes.md",
		"---\ntitle: Notes\ndescription: d\ntags: [t]\n---\n\nJust some text.\n\n##\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	if counts["missing_h1"] != 1 {
		t.Errorf("Expected 1 missing_h1 finding, got %v", counts)
	}
	if counts["empty_heading"] != 1 {
		t.Errorf("Expected 1 empty_heading finding, got %v", counts)
	}
}

func TestCheck_ConsistentStyles(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "list.md",
		"---\ntitle: List\ndescription: d\ntags: [t]\n---\n\n# List\n\n- one\n- two\n* three\n\n**strong** and __also strong__\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	if counts["inconsistent_list_marker"] != 1 {
		t.Errorf("Expected 1 inconsistent_list_marker finding, got %v", counts)
	}
	if counts["inconsistent_emphasis"] != 1 {
		t.Errorf("Expected 1 inconsistent_emphasis finding, got %v", counts)
	}
}

func TestCheck_NavConsistency(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"---\ntitle: Home\ndescription: d\ntags: [t]\n---\n\n# Home\n")
	writeDoc(t, root, "extra.md",
		"---\ntitle: Extra\ndescription: d\ntags: [t]\n---\n\n# Extra\n")
	writeDoc(t, root, "mkdocs.yml",
		"site_name: Test Docs\nnav:\n  - Home: index.md\n  - Guide:\n      - Missing: guide/missing.md\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := categories(report.Findings)
	if counts["nav_missing_file"] != 1 {
		t.Errorf("Expected 1 nav_missing_file finding, got %v", counts)
	}
	if counts["orphaned_file"] != 1 {
		t.Errorf("Expected 1 orphaned_file finding for extra.md, got %v", counts)
	}

	for _, f := range report.Findings {
		if f.Category == "nav_missing_file" && !strings.Contains(f.Message, "guide/missing.md") {
			t.Errorf("nav_missing_file should name the missing page, got %q", f.Message)
		}
		if f.Category == "orphaned_file" && f.File != "extra.md" {
			t.Errorf("orphaned_file should point at extra.md, got %q", f.File)
		}
	}
}

func TestCheck_NoNavNoFindings(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"---\ntitle: Home\ndescription: d\ntags: [t]\n---\n\n# Home\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if counts := categories(report.Findings); counts["orphaned_file"] != 0 {
		t.Errorf("Nav check should be skipped without mkdocs.yml, got %v", counts)
	}
}

func TestCheck_LineNumbersAccountForFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "lines.md",
		"---\ntitle: Lines\ndescription: d\ntags: [t]\n---\n# Lines\n### Jump\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	if report.Findings[0].Line != 7 {
		t.Errorf("Expected heading_skip at line 7, got %d", report.Findings[0].Line)
	}
}
