// Package mobile checks documentation for content that breaks on
// small viewports, such as wide tables, fixed pixel sizing and
// undersized fonts, and verifies the rendered site carries a viewport
// meta tag, responsive styling, and adequately sized tap targets.
package mobile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
)

var (
	tableRowRe    = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	fixedWidthRe  = regexp.MustCompile(`(?:width|min-width)\s*[:=]\s*["']?(\d+)(?:px)?`)
	fontSizeRe    = regexp.MustCompile(`font-size\s*:\s*(\d+)px`)
	viewportRe    = regexp.MustCompile(`<meta[^>]+name=["']viewport["']`)
	mediaQueryRe  = regexp.MustCompile(`@media\b`)
	stylesheetRe  = regexp.MustCompile(`rel=["']stylesheet["']`)
	touchTargetRe = regexp.MustCompile(`(?i)<(?:a|button)\b[^>]*>`)
	dimensionRe   = regexp.MustCompile(`(?i)(?:width|height)\s*[:=]\s*["']?(\d+)(?:px)?`)
	codeFenceRe   = regexp.MustCompile("(?ms)^```.*?^```")
)

// maxTableColumns is the widest table that still fits a phone screen
const maxTableColumns = 6

// fixedWidthLimitPx flags hard-coded widths wider than a small viewport
const fixedWidthLimitPx = 400

// minFontSizePx is the smallest font size still readable on a phone
const minFontSizePx = 12

// score penalties per severity
const (
	criticalPenalty = 20
	majorPenalty    = 5
	minorPenalty    = 1
)

// Checker runs mobile responsiveness checks
type Checker struct {
	cfg       config.MobileConfig
	collector *docfs.Collector
	client    *http.Client
}

// New creates a mobile checker
func New(cfg config.MobileConfig, collector *docfs.Collector) *Checker {
	return &Checker{
		cfg:       cfg,
		collector: collector,
		client:    &http.Client{},
	}
}

// Name implements domain.Checker
func (c *Checker) Name() string { return "mobile" }

// Check implements domain.Checker
func (c *Checker) Check(ctx context.Context, target domain.Target) (*domain.ModuleReport, error) {
	files, err := c.collector.CollectMarkdown(target.DocsDir)
	if err != nil {
		return nil, domain.NewCheckerError("mobile", "failed to collect markdown files", err)
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
			return nil, domain.NewCheckerError("mobile", "failed to read "+rel, err)
		}
		findings = append(findings, checkSource(rel, string(data))...)
	}

	// Live checks are opt-in via site URL. An unreachable site is an
	// expected condition in local runs, reported as a checker failure
	// rather than an error return so the run continues.
	if target.SiteURL != "" {
		liveFindings, err := c.checkLive(ctx, target.SiteURL)
		if err != nil {
			return domain.ErrorReport("mobile",
				fmt.Sprintf("site unreachable: %v", err)), nil
		}
		findings = append(findings, liveFindings...)
	}

	score := domain.SeverityPenalty(findings, criticalPenalty, majorPenalty, minorPenalty)

	report := &domain.ModuleReport{
		ModuleName:  "mobile",
		Findings:    findings,
		ModuleScore: score,
		Summary: map[string]any{
			"files_checked": len(files),
			"total_issues":  len(findings),
			"live_checked":  target.SiteURL != "",
		},
		Recommendations: buildRecommendations(findings),
	}
	return report, nil
}

func checkSource(rel, content string) []domain.Finding {
	masked := codeFenceRe.ReplaceAllStringFunc(content, func(s string) string {
		return strings.Repeat("\n", strings.Count(s, "\n"))
	})

	var findings []domain.Finding
	lines := strings.Split(masked, "\n")
	inTable := false

	for i, line := range lines {
		lineNo := i + 1

		if tableRowRe.MatchString(line) {
			if !inTable {
				inTable = true
				cols := strings.Count(strings.Trim(strings.TrimSpace(line), "|"), "|") + 1
				if cols > maxTableColumns {
					f, _ := domain.NewFinding(rel, lineNo, "wide_table", domain.SeverityMajor,
						fmt.Sprintf("Table with %d columns will overflow small screens", cols))
					findings = append(findings, f.WithRecommendation(
						"Split the table or restructure it as a definition list"))
				}
			}
		} else {
			inTable = false
		}

		for _, m := range fixedWidthRe.FindAllStringSubmatch(line, -1) {
			px, err := strconv.Atoi(m[1])
			if err != nil || px <= fixedWidthLimitPx {
				continue
			}
			f, _ := domain.NewFinding(rel, lineNo, "fixed_width", domain.SeverityCritical,
				fmt.Sprintf("Fixed width of %dpx forces horizontal scrolling on phones", px))
			findings = append(findings, f.WithRecommendation("Use relative units or max-width instead"))
		}

		for _, m := range fontSizeRe.FindAllStringSubmatch(line, -1) {
			px, err := strconv.Atoi(m[1])
			if err != nil || px >= minFontSizePx {
				continue
			}
			f, _ := domain.NewFinding(rel, lineNo, "small_font", domain.SeverityMajor,
				fmt.Sprintf("Font size of %dpx is too small to read on phones", px))
			findings = append(findings, f.WithRecommendation(
				fmt.Sprintf("Use at least %dpx or a relative font size", minFontSizePx)))
		}
	}

	return findings
}

// checkLive fetches the site root and verifies it is mobile-ready
func (c *Checker) checkLive(ctx context.Context, siteURL string) ([]domain.Finding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "docqa-mobile-checker")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var findings []domain.Finding
	if !viewportRe.Match(body) {
		f, _ := domain.NewFinding(siteURL, 0, "missing_viewport", domain.SeverityCritical,
			"Rendered site has no viewport meta tag")
		findings = append(findings, f.WithRecommendation(
			`Add <meta name="viewport" content="width=device-width, initial-scale=1"> to the page template`))
	}
	// An interactive element sized below the touch target minimum in
	// either dimension is hard to hit on a phone
	for _, tag := range touchTargetRe.FindAllString(string(body), -1) {
		for _, m := range dimensionRe.FindAllStringSubmatch(tag, -1) {
			px, err := strconv.Atoi(m[1])
			if err != nil || px >= c.cfg.MinTouchTargetPx {
				continue
			}
			f, _ := domain.NewFinding(siteURL, 0, "touch_target_small", domain.SeverityMajor,
				fmt.Sprintf("Interactive element sized %dpx, below the %dpx touch target minimum",
					px, c.cfg.MinTouchTargetPx))
			findings = append(findings, f.WithRecommendation(
				fmt.Sprintf("Size tap targets at least %dpx in both dimensions", c.cfg.MinTouchTargetPx)))
			break
		}
	}
	// Linked stylesheets may carry media queries we cannot see, so only
	// a page with neither is worth flagging
	if !mediaQueryRe.Match(body) && !stylesheetRe.Match(body) {
		f, _ := domain.NewFinding(siteURL, 0, "no_responsive_hints", domain.SeverityMinor,
			"Rendered site shows no media queries or linked stylesheets")
		findings = append(findings, f.WithRecommendation(
			"Add responsive styling so pages adapt to small viewports"))
	}
	return findings, nil
}

func buildRecommendations(findings []domain.Finding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}

	var recs []string
	if n := counts["wide_table"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Restructure %d oversized tables for small screens", n))
	}
	if counts["fixed_width"] > 0 {
		recs = append(recs, "Replace fixed pixel widths with responsive units")
	}
	if counts["small_font"] > 0 {
		recs = append(recs, "Bump undersized font sizes to a readable minimum")
	}
	if counts["missing_viewport"] > 0 {
		recs = append(recs, "Add a viewport meta tag to the site template")
	}
	if counts["no_responsive_hints"] > 0 {
		recs = append(recs, "Add responsive styling to the site template")
	}
	if n := counts["touch_target_small"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Enlarge %d undersized tap targets", n))
	}
	return recs
}

var _ domain.Checker = (*Checker)(nil)
