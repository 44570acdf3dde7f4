package accessibility

import (
	"context"
	"os"
	"path/filepath"
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
	return New(config.DefaultConfig().Checkers.Accessibility, docfs.NewCollector(nil))
}

func TestCheck_CleanDocument(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"# Home\n\n![architecture diagram](arch.png)\n\nSee the [installation guide](install.md).\n")

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
	if report.Summary["images_checked"] != 1 {
		t.Errorf("Expected 1 image checked, got %v", report.Summary["images_checked"])
	}
}

func TestCheck_MissingAlt(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "# Home\n\n![](diagram.png)\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	f := report.Findings[0]
	if f.Category != "missing_alt" || f.Severity != domain.SeverityCritical {
		t.Errorf("Expected critical missing_alt, got %s/%s", f.Category, f.Severity)
	}
	if f.Line != 3 {
		t.Errorf("Expected line 3, got %d", f.Line)
	}
	// one critical = 100 - 15
	if report.ModuleScore != 85 {
		t.Errorf("Expected score 85, got %g", report.ModuleScore)
	}
}

func TestCheck_PlaceholderAlt(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "![screenshot](login.png)\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	if report.Findings[0].Category != "poor_alt" || report.Findings[0].Severity != domain.SeverityMajor {
		t.Errorf("Expected major poor_alt, got %+v", report.Findings[0])
	}
}

func TestCheck_HTMLImages(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"<img src=\"a.png\">\n<img src=\"b.png\" alt=\"\">\n<img src=\"c.png\" alt=\"good description\">\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := map[string]int{}
	for _, f := range report.Findings {
		counts[f.Category]++
	}
	if counts["missing_alt"] != 1 {
		t.Errorf("Expected 1 missing_alt, got %v", counts)
	}
	if counts["empty_alt"] != 1 {
		t.Errorf("Expected 1 empty_alt, got %v", counts)
	}
}

func TestCheck_GenericLinkText(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"Go [here](install.md) for setup.\n\nRead the [configuration reference](config.md).\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	f := report.Findings[0]
	if f.Category != "generic_link_text" || f.Severity != domain.SeverityMajor {
		t.Errorf("Expected major generic_link_text, got %s/%s", f.Category, f.Severity)
	}
}

func TestCheck_CodeBlocksIgnored(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "# Code\n\n```markdown\n![](in-code.png)\n[here](nope.md)\n```\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Findings) != 0 {
		t.Errorf("Fenced content should be skipped, got %v", report.Findings)
	}
}

func TestCheck_RawURLs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md",
		"# Links\n\nSee https://example.com/docs for details.\n\nOr use [https://example.com](https://example.com).\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	counts := map[string]int{}
	for _, f := range report.Findings {
		counts[f.Category]++
	}
	if counts["raw_url"] != 1 {
		t.Errorf("Expected 1 raw_url finding, got %v", counts)
	}
	if counts["url_link_text"] != 1 {
		t.Errorf("Expected 1 url_link_text finding, got %v", counts)
	}
}

func TestCheck_TableHeaders(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "tables.md",
		"# Tables\n\n| Name | Value |\n|------|-------|\n| a | 1 |\n\n| b | 2 |\n| c | 3 |\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	f := report.Findings[0]
	if f.Category != "table_missing_header" || f.Line != 7 {
		t.Errorf("Expected table_missing_header at line 7, got %s at line %d", f.Category, f.Line)
	}
}

func TestCheck_HeadingJump(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "# Title\n\n### Deep Section\n\n## Back Up\n\n### Fine Now\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	f := report.Findings[0]
	if f.Category != "heading_jump" || f.Severity != domain.SeverityMajor || f.Line != 3 {
		t.Errorf("Expected major heading_jump at line 3, got %+v", f)
	}
}

func TestCheck_LongParagraph(t *testing.T) {
	root := t.TempDir()
	para := ""
	for i := 0; i < 160; i++ {
		para += "word "
	}
	writeDoc(t, root, "wall.md", "# Wall\n\n"+para+"\n\nShort paragraph.\n")

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", report.Findings)
	}
	f := report.Findings[0]
	if f.Category != "long_paragraph" || f.Severity != domain.SeverityMinor || f.Line != 3 {
		t.Errorf("Expected minor long_paragraph at line 3, got %+v", f)
	}
}

func TestCheck_ScoreClampsAtZero(t *testing.T) {
	root := t.TempDir()
	content := "# Images\n"
	for i := 0; i < 10; i++ {
		content += "![](a.png)\n"
	}
	writeDoc(t, root, "index.md", content)

	checker := newChecker(t)
	report, err := checker.Check(context.Background(), domain.Target{DocsDir: root})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.ModuleScore != 0 {
		t.Errorf("Expected clamped score 0, got %g", report.ModuleScore)
	}
}
