// Package formatting validates markdown style and frontmatter
// conventions across a documentation tree.
package formatting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
)

var (
	headingRe      = regexp.MustCompile(`^(#{1,6})\s+\S`)
	emptyHeadingRe = regexp.MustCompile(`^#{1,6}\s*$`)
	bareFenceRe    = regexp.MustCompile("^```\\s*$")
	fenceRe        = regexp.MustCompile("^```")
	multiSpaceRe   = regexp.MustCompile(`\S {2,}\S`)
	listMarkerRe   = regexp.MustCompile(`^\s*([-*+]) +\S`)
	strongStarRe   = regexp.MustCompile(`\*\*[^*]+\*\*`)
	strongUnderRe  = regexp.MustCompile(`__[^_]+__`)
)

// score penalties per severity
const (
	criticalPenalty = 10
	majorPenalty    = 3
	minorPenalty    = 1
)

// Checker validates markdown formatting
type Checker struct {
	cfg       config.FormattingConfig
	collector *docfs.Collector
}

// New creates a formatting checker
func New(cfg config.FormattingConfig, collector *docfs.Collector) *Checker {
	return &Checker{cfg: cfg, collector: collector}
}

// Name implements domain.Checker
func (c *Checker) Name() string { return "formatting" }

// Check implements domain.Checker
func (c *Checker) Check(ctx context.Context, target domain.Target) (*domain.ModuleReport, error) {
	files, err := c.collector.CollectMarkdown(target.DocsDir)
	if err != nil {
		return nil, domain.NewCheckerError("formatting", "failed to collect markdown files", err)
	}

	var findings []domain.Finding
	for _, rel := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := docfs.ReadFile(target.DocsDir, rel)
		if err != nil {
			return nil, domain.NewCheckerError("formatting", "failed to read "+rel, err)
		}
		findings = append(findings, c.checkFile(rel, string(data))...)
	}
	findings = append(findings, c.checkNav(target.DocsDir, files)...)

	score := domain.SeverityPenalty(findings, criticalPenalty, majorPenalty, minorPenalty)

	report := &domain.ModuleReport{
		ModuleName:  "formatting",
		Findings:    findings,
		ModuleScore: score,
		Summary: map[string]any{
			"files_checked": len(files),
			"total_issues":  len(findings),
		},
		Recommendations: buildRecommendations(findings),
	}
	return report, nil
}

func (c *Checker) checkFile(rel, content string) []domain.Finding {
	var findings []domain.Finding

	frontmatter, body, bodyOffset := splitFrontmatter(content)
	findings = append(findings, c.checkFrontmatter(rel, frontmatter)...)
	findings = append(findings, c.checkBody(rel, body, bodyOffset)...)
	return findings
}

// splitFrontmatter separates a leading --- delimited YAML block from the
// body. bodyOffset is the number of lines the block occupies so body
// findings still report true line numbers.
func splitFrontmatter(content string) (string, string, int) {
	if !strings.HasPrefix(content, "---\n") && content != "---" {
		return "", content, 0
	}

	rest := content[4:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", content, 0
	}

	frontmatter := rest[:idx]
	body := rest[idx+4:]
	body = strings.TrimPrefix(body, "\n")
	// opening ---, block lines, closing ---
	offset := strings.Count(frontmatter, "\n") + 3
	return frontmatter, body, offset
}

func (c *Checker) checkFrontmatter(rel, frontmatter string) []domain.Finding {
	var findings []domain.Finding

	if frontmatter == "" {
		if len(c.cfg.RequiredFrontmatter) > 0 {
			f, _ := domain.NewFinding(rel, 1, "missing_frontmatter", domain.SeverityMajor,
				"Document has no frontmatter block")
			findings = append(findings, f.WithRecommendation(
				fmt.Sprintf("Add frontmatter with at least: %s", strings.Join(c.cfg.RequiredFrontmatter, ", "))))
		}
		return findings
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(frontmatter), &fields); err != nil {
		f, _ := domain.NewFinding(rel, 1, "invalid_frontmatter", domain.SeverityMajor,
			fmt.Sprintf("Frontmatter is not valid YAML: %v", err))
		return append(findings, f.WithRecommendation("Fix the YAML syntax in the frontmatter block"))
	}

	for _, field := range c.cfg.RequiredFrontmatter {
		if _, ok := fields[field]; !ok {
			f, _ := domain.NewFinding(rel, 1, "missing_frontmatter_field", domain.SeverityMajor,
				fmt.Sprintf("Missing required frontmatter field: %s", field))
			findings = append(findings, f)
		}
	}
	for _, field := range c.cfg.RecommendedFrontmatter {
		if _, ok := fields[field]; !ok {
			f, _ := domain.NewFinding(rel, 1, "missing_frontmatter_field", domain.SeverityMinor,
				fmt.Sprintf("Missing recommended frontmatter field: %s", field))
			findings = append(findings, f)
		}
	}
	return findings
}

func (c *Checker) checkBody(rel, body string, offset int) []domain.Finding {
	var findings []domain.Finding

	lines := strings.Split(body, "\n")
	inFence := false
	h1Count := 0
	lastLevel := 0
	listMarker := ""
	strongStyle := ""
	hasContent := false

	for i, line := range lines {
		lineNo := offset + i + 1

		if fenceRe.MatchString(line) {
			if !inFence && bareFenceRe.MatchString(line) {
				f, _ := domain.NewFinding(rel, lineNo, "missing_code_language", domain.SeverityMinor,
					"Code fence without a language tag")
				findings = append(findings, f.WithRecommendation("Tag code fences with a language for syntax highlighting"))
			}
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.TrimSpace(line) != "" {
			hasContent = true
		}

		if c.cfg.MaxLineLength > 0 && len(line) > c.cfg.MaxLineLength {
			f, _ := domain.NewFinding(rel, lineNo, "line_too_long", domain.SeverityMinor,
				fmt.Sprintf("Line exceeds %d characters (%d)", c.cfg.MaxLineLength, len(line)))
			findings = append(findings, f)
		}

		if trimmed := strings.TrimRight(line, " \t"); trimmed != line && trimmed != "" {
			f, _ := domain.NewFinding(rel, lineNo, "trailing_whitespace", domain.SeverityMinor,
				"Trailing whitespace")
			findings = append(findings, f)
		}

		if strings.Contains(line, "\t") {
			f, _ := domain.NewFinding(rel, lineNo, "tab_character", domain.SeverityMinor,
				"Tab character in markdown source")
			findings = append(findings, f.WithRecommendation("Use spaces for indentation in markdown"))
		}

		// Tables align columns with runs of spaces, skip them
		if !strings.HasPrefix(strings.TrimSpace(line), "|") && multiSpaceRe.MatchString(line) {
			f, _ := domain.NewFinding(rel, lineNo, "multiple_spaces", domain.SeverityMinor,
				"Multiple consecutive spaces")
			findings = append(findings, f)
		}

		if m := listMarkerRe.FindStringSubmatch(line); m != nil {
			if listMarker == "" {
				listMarker = m[1]
			} else if m[1] != listMarker {
				f, _ := domain.NewFinding(rel, lineNo, "inconsistent_list_marker", domain.SeverityMinor,
					fmt.Sprintf("List marker %q differs from %q used earlier in the document", m[1], listMarker))
				findings = append(findings, f.WithRecommendation("Use one list marker style per document"))
			}
		}

		for _, s := range []struct {
			style string
			re    *regexp.Regexp
		}{{"**", strongStarRe}, {"__", strongUnderRe}} {
			style := s.style
			if !s.re.MatchString(line) {
				continue
			}
			if strongStyle == "" {
				strongStyle = style
			} else if style != strongStyle {
				f, _ := domain.NewFinding(rel, lineNo, "inconsistent_emphasis", domain.SeverityMinor,
					fmt.Sprintf("Strong emphasis style %q differs from %q used earlier in the document", style, strongStyle))
				findings = append(findings, f.WithRecommendation("Use one strong emphasis style per document"))
			}
		}

		if emptyHeadingRe.MatchString(line) {
			f, _ := domain.NewFinding(rel, lineNo, "empty_heading", domain.SeverityMajor,
				"Heading without any text")
			findings = append(findings, f)
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			if level == 1 {
				h1Count++
				if h1Count > 1 {
					f, _ := domain.NewFinding(rel, lineNo, "multiple_h1", domain.SeverityMajor,
						"Multiple top-level headings in one document")
					findings = append(findings, f.WithRecommendation("Keep one H1 per page and demote the rest"))
				}
			}
			if lastLevel > 0 && level > lastLevel+1 {
				f, _ := domain.NewFinding(rel, lineNo, "heading_skip", domain.SeverityMajor,
					fmt.Sprintf("Heading level jumps from H%d to H%d", lastLevel, level))
				findings = append(findings, f.WithRecommendation("Use consecutive heading levels"))
			}
			lastLevel = level
		}
	}

	if hasContent && h1Count == 0 {
		f, _ := domain.NewFinding(rel, offset+1, "missing_h1", domain.SeverityMajor,
			"Document has no top-level heading")
		findings = append(findings, f.WithRecommendation("Start every page with a single H1"))
	}

	return findings
}

// checkNav compares an mkdocs.yml nav against the markdown tree. Pages
// listed in nav must exist; pages on disk not reachable from nav are
// orphaned. Sites without mkdocs.yml skip the check entirely.
func (c *Checker) checkNav(docsDir string, files []string) []domain.Finding {
	navFiles, ok := loadMkDocsNav(docsDir)
	if !ok {
		return nil
	}

	onDisk := make(map[string]bool, len(files))
	for _, rel := range files {
		onDisk[rel] = true
	}

	var findings []domain.Finding
	for _, nav := range navFiles {
		if !onDisk[nav] {
			f, _ := domain.NewFinding("mkdocs.yml", 0, "nav_missing_file", domain.SeverityMajor,
				fmt.Sprintf("Nav references missing page: %s", nav))
			findings = append(findings, f.WithRecommendation("Remove the nav entry or restore the page"))
		}
	}

	inNav := make(map[string]bool, len(navFiles))
	for _, nav := range navFiles {
		inNav[nav] = true
	}
	for _, rel := range files {
		if !inNav[rel] {
			f, _ := domain.NewFinding(rel, 0, "orphaned_file", domain.SeverityMinor,
				"Page is not reachable from the site nav")
			findings = append(findings, f)
		}
	}
	return findings
}

// loadMkDocsNav reads the nav page list from mkdocs.yml next to or above
// the docs dir. Returns ok=false when no usable nav exists.
func loadMkDocsNav(docsDir string) ([]string, bool) {
	var data []byte
	for _, dir := range []string{docsDir, filepath.Dir(docsDir)} {
		b, err := os.ReadFile(filepath.Join(dir, "mkdocs.yml"))
		if err == nil {
			data = b
			break
		}
	}
	if data == nil {
		return nil, false
	}

	var site struct {
		Nav []any `yaml:"nav"`
	}
	if err := yaml.Unmarshal(data, &site); err != nil || len(site.Nav) == 0 {
		return nil, false
	}

	var pages []string
	collectNavPages(site.Nav, &pages)
	return pages, true
}

// collectNavPages walks the nested nav structure gathering .md paths
func collectNavPages(nodes []any, pages *[]string) {
	for _, node := range nodes {
		switch v := node.(type) {
		case string:
			if strings.HasSuffix(v, ".md") {
				*pages = append(*pages, filepath.ToSlash(v))
			}
		case map[string]any:
			for _, child := range v {
				switch cv := child.(type) {
				case string:
					if strings.HasSuffix(cv, ".md") {
						*pages = append(*pages, filepath.ToSlash(cv))
					}
				case []any:
					collectNavPages(cv, pages)
				}
			}
		}
	}
}

func buildRecommendations(findings []domain.Finding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}

	var recs []string
	if n := counts["missing_frontmatter"] + counts["missing_frontmatter_field"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Complete frontmatter metadata on %d pages", n))
	}
	if n := counts["line_too_long"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Wrap %d overlong lines", n))
	}
	if n := counts["heading_skip"] + counts["multiple_h1"] + counts["missing_h1"] + counts["empty_heading"]; n > 0 {
		recs = append(recs, "Normalize heading structure across documents")
	}
	if n := counts["inconsistent_list_marker"] + counts["inconsistent_emphasis"]; n > 0 {
		recs = append(recs, "Pick one list marker and emphasis style per document")
	}
	if n := counts["missing_code_language"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Add language tags to %d code fences", n))
	}
	if n := counts["nav_missing_file"] + counts["orphaned_file"]; n > 0 {
		recs = append(recs, "Reconcile the site nav with the pages on disk")
	}
	return recs
}

var _ domain.Checker = (*Checker)(nil)
