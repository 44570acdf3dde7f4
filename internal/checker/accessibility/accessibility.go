// Package accessibility checks documentation content for common
// assistive-technology problems: missing image alternatives and
// link text that carries no meaning out of context.
package accessibility

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
)

var (
	mdImageRe   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	htmlImageRe = regexp.MustCompile(`<img[^>]*>`)
	altAttrRe   = regexp.MustCompile(`alt=["']([^"']*)["']`)
	mdLinkRe    = regexp.MustCompile(`(?:^|[^!])\[([^\]]+)\]\(([^)]+)\)`)
	rawURLRe    = regexp.MustCompile(`(?:^|\s)(https?://\S+)`)
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+\S`)
	tableRowRe  = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableSepRe  = regexp.MustCompile(`^\s*\|[\s:|-]+\|\s*$`)
	codeFenceRe = regexp.MustCompile("(?ms)^```.*?^```")
)

// longParagraphWords is the word count past which a paragraph becomes
// hard to follow for screen reader users
const longParagraphWords = 150

// genericLinkText lists phrases that tell a screen reader user nothing
// about the link destination.
var genericLinkText = map[string]bool{
	"here":       true,
	"click here": true,
	"this":       true,
	"link":       true,
	"read more":  true,
	"more":       true,
	"this page":  true,
}

// placeholderAlt lists alt values that describe nothing
var placeholderAlt = map[string]bool{
	"image":      true,
	"img":        true,
	"picture":    true,
	"photo":      true,
	"screenshot": true,
}

// score penalties per severity
const (
	criticalPenalty = 15
	majorPenalty    = 5
	minorPenalty    = 1
)

// Checker runs source-level accessibility checks
type Checker struct {
	cfg       config.AccessibilityConfig
	collector *docfs.Collector
}

// New creates an accessibility checker
func New(cfg config.AccessibilityConfig, collector *docfs.Collector) *Checker {
	return &Checker{cfg: cfg, collector: collector}
}

// Name implements domain.Checker
func (c *Checker) Name() string { return "accessibility" }

// Check implements domain.Checker
func (c *Checker) Check(ctx context.Context, target domain.Target) (*domain.ModuleReport, error) {
	files, err := c.collector.CollectMarkdown(target.DocsDir)
	if err != nil {
		return nil, domain.NewCheckerError("accessibility", "failed to collect markdown files", err)
	}

	var findings []domain.Finding
	imagesChecked := 0
	linksChecked := 0

	for _, rel := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := docfs.ReadFile(target.DocsDir, rel)
		if err != nil {
			return nil, domain.NewCheckerError("accessibility", "failed to read "+rel, err)
		}

		fileFindings, images, links := checkFile(rel, string(data))
		findings = append(findings, fileFindings...)
		imagesChecked += images
		linksChecked += links
	}

	score := domain.SeverityPenalty(findings, criticalPenalty, majorPenalty, minorPenalty)

	report := &domain.ModuleReport{
		ModuleName:  "accessibility",
		Findings:    findings,
		ModuleScore: score,
		Summary: map[string]any{
			"files_checked":  len(files),
			"images_checked": imagesChecked,
			"links_checked":  linksChecked,
			"total_issues":   len(findings),
		},
		Recommendations: buildRecommendations(findings),
	}
	return report, nil
}

func checkFile(rel, content string) ([]domain.Finding, int, int) {
	masked := codeFenceRe.ReplaceAllStringFunc(content, func(s string) string {
		return strings.Repeat("\n", strings.Count(s, "\n"))
	})

	var findings []domain.Finding
	images := 0
	links := 0

	lines := strings.Split(masked, "\n")
	lastHeading := 0
	paraStart := 0
	paraWords := 0
	endParagraph := func() {
		if paraWords > longParagraphWords {
			f, _ := domain.NewFinding(rel, paraStart, "long_paragraph", domain.SeverityMinor,
				fmt.Sprintf("Paragraph runs %d words; hard to follow with assistive tech", paraWords))
			findings = append(findings, f.WithRecommendation("Split long paragraphs into shorter ones"))
		}
		paraWords = 0
	}

	for i, line := range lines {
		lineNo := i + 1

		trimmedLine := strings.TrimSpace(line)
		isProse := trimmedLine != "" && !strings.HasPrefix(trimmedLine, "#") &&
			!strings.HasPrefix(trimmedLine, "|") && !strings.HasPrefix(trimmedLine, "-") &&
			!strings.HasPrefix(trimmedLine, "*") && !strings.HasPrefix(trimmedLine, ">")
		if isProse {
			if paraWords == 0 {
				paraStart = lineNo
			}
			paraWords += len(strings.Fields(trimmedLine))
		} else {
			endParagraph()
		}

		// Screen readers navigate by heading level; a skipped level
		// drops sections out of the outline
		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			if lastHeading > 0 && level > lastHeading+1 {
				f, _ := domain.NewFinding(rel, lineNo, "heading_jump", domain.SeverityMajor,
					fmt.Sprintf("Heading level jumps from H%d to H%d", lastHeading, level))
				findings = append(findings, f.WithRecommendation("Use consecutive heading levels"))
			}
			lastHeading = level
		}

		// A table needs a header separator right after its first row
		if tableRowRe.MatchString(line) && (i == 0 || !tableRowRe.MatchString(lines[i-1])) {
			if i+1 >= len(lines) || !tableSepRe.MatchString(lines[i+1]) {
				f, _ := domain.NewFinding(rel, lineNo, "table_missing_header", domain.SeverityMajor,
					"Table without a header row")
				findings = append(findings, f.WithRecommendation("Start tables with a header row and separator"))
			}
		}

		for _, m := range mdImageRe.FindAllStringSubmatch(line, -1) {
			images++
			alt := strings.TrimSpace(m[1])
			switch {
			case alt == "":
				f, _ := domain.NewFinding(rel, lineNo, "missing_alt", domain.SeverityCritical,
					fmt.Sprintf("Image without alt text: %s", m[2]))
				findings = append(findings, f.WithRecommendation("Describe what the image shows"))
			case placeholderAlt[strings.ToLower(alt)]:
				f, _ := domain.NewFinding(rel, lineNo, "poor_alt", domain.SeverityMajor,
					fmt.Sprintf("Placeholder alt text %q on %s", alt, m[2]))
				findings = append(findings, f.WithRecommendation("Replace placeholder alt text with a real description"))
			}
		}

		for _, m := range htmlImageRe.FindAllString(line, -1) {
			images++
			alt := altAttrRe.FindStringSubmatch(m)
			if alt == nil {
				f, _ := domain.NewFinding(rel, lineNo, "missing_alt", domain.SeverityCritical,
					"HTML image without an alt attribute")
				findings = append(findings, f.WithRecommendation("Add an alt attribute to the img tag"))
			} else if strings.TrimSpace(alt[1]) == "" {
				// alt="" is a deliberate decorative-image marker; flag
				// only as minor so it is reviewed, not demanded.
				f, _ := domain.NewFinding(rel, lineNo, "empty_alt", domain.SeverityMinor,
					"HTML image with empty alt; confirm it is decorative")
				findings = append(findings, f)
			}
		}

		for _, m := range mdLinkRe.FindAllStringSubmatch(line, -1) {
			links++
			text := strings.ToLower(strings.TrimSpace(m[1]))
			switch {
			case genericLinkText[text]:
				f, _ := domain.NewFinding(rel, lineNo, "generic_link_text", domain.SeverityMajor,
					fmt.Sprintf("Link text %q is meaningless out of context", m[1]))
				findings = append(findings, f.WithRecommendation("Use link text that names the destination"))
			case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
				f, _ := domain.NewFinding(rel, lineNo, "url_link_text", domain.SeverityMajor,
					fmt.Sprintf("Raw URL used as link text: %s", m[1]))
				findings = append(findings, f.WithRecommendation("Name the destination instead of showing the URL"))
			}
		}

		// Bare URLs in prose are read out character by character
		withoutLinks := mdImageRe.ReplaceAllString(mdLinkRe.ReplaceAllString(line, ""), "")
		for range rawURLRe.FindAllString(withoutLinks, -1) {
			f, _ := domain.NewFinding(rel, lineNo, "raw_url", domain.SeverityMinor,
				"Bare URL in text; wrap it in a named link")
			findings = append(findings, f)
		}
	}
	endParagraph()

	return findings, images, links
}

func buildRecommendations(findings []domain.Finding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}

	var recs []string
	if n := counts["missing_alt"] + counts["poor_alt"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Add descriptive alt text to %d images", n))
	}
	if n := counts["generic_link_text"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Rewrite %d generic link labels", n))
	}
	if counts["empty_alt"] > 0 {
		recs = append(recs, "Confirm empty-alt images are purely decorative")
	}
	if n := counts["raw_url"] + counts["url_link_text"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Replace %d raw URLs with named links", n))
	}
	if counts["table_missing_header"] > 0 {
		recs = append(recs, "Add header rows to tables for screen reader navigation")
	}
	if counts["heading_jump"] > 0 {
		recs = append(recs, "Keep heading levels consecutive for outline navigation")
	}
	return recs
}

var _ domain.Checker = (*Checker)(nil)
