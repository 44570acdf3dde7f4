// Package performance checks the documentation tree against size
// budgets: per-page size, per-image size, and total tree size, plus
// load time and transfer budgets for the rendered site when one is
// configured.
package performance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
)

// Checker runs performance budget checks
type Checker struct {
	cfg       config.PerformanceConfig
	collector *docfs.Collector
	client    *http.Client
}

// New creates a performance checker
func New(cfg config.PerformanceConfig, collector *docfs.Collector) *Checker {
	return &Checker{cfg: cfg, collector: collector, client: &http.Client{}}
}

// Name implements domain.Checker
func (c *Checker) Name() string { return "performance" }

// Check implements domain.Checker. The score is the share of budget
// checks that passed, so one oversized asset among many good ones only
// dents the score proportionally.
func (c *Checker) Check(ctx context.Context, target domain.Target) (*domain.ModuleReport, error) {
	pages, err := c.collector.CollectMarkdown(target.DocsDir)
	if err != nil {
		return nil, domain.NewCheckerError("performance", "failed to collect markdown files", err)
	}
	images, err := c.collector.CollectImages(target.DocsDir)
	if err != nil {
		return nil, domain.NewCheckerError("performance", "failed to collect images", err)
	}

	var findings []domain.Finding
	checks := 0
	passed := 0
	var totalBytes int64
	var largestFile string
	var largestBytes int64

	pageBudget := int64(c.cfg.MaxPageSizeKB) * 1024
	for _, rel := range pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		size, err := docfs.FileSize(target.DocsDir, rel)
		if err != nil {
			return nil, domain.NewCheckerError("performance", "failed to stat "+rel, err)
		}
		totalBytes += size
		if size > largestBytes {
			largestFile, largestBytes = rel, size
		}

		checks++
		if size <= pageBudget {
			passed++
			continue
		}
		f, _ := domain.NewFinding(rel, 0, "page_too_large", domain.SeverityMajor,
			fmt.Sprintf("Page is %d KB, budget is %d KB", size/1024, c.cfg.MaxPageSizeKB))
		findings = append(findings, f.WithRecommendation("Split the page or move bulk content into linked sub-pages"))
	}

	imageBudget := int64(c.cfg.MaxImageSizeKB) * 1024
	for _, rel := range images {
		size, err := docfs.FileSize(target.DocsDir, rel)
		if err != nil {
			return nil, domain.NewCheckerError("performance", "failed to stat "+rel, err)
		}
		totalBytes += size
		if size > largestBytes {
			largestFile, largestBytes = rel, size
		}

		checks++
		if size <= imageBudget {
			passed++
			continue
		}
		f, _ := domain.NewFinding(rel, 0, "image_too_large", domain.SeverityMajor,
			fmt.Sprintf("Image is %d KB, budget is %d KB", size/1024, c.cfg.MaxImageSizeKB))
		findings = append(findings, f.WithRecommendation("Compress the image or convert it to WebP"))
	}

	checks++
	totalBudget := int64(c.cfg.MaxTotalSizeMB) * 1024 * 1024
	if totalBytes <= totalBudget {
		passed++
	} else {
		f, _ := domain.NewFinding(target.DocsDir, 0, "total_size_exceeded", domain.SeverityCritical,
			fmt.Sprintf("Documentation tree is %d MB, budget is %d MB", totalBytes/(1024*1024), c.cfg.MaxTotalSizeMB))
		findings = append(findings, f.WithRecommendation("Audit large assets; serve videos and archives from external storage"))
	}

	// Live budgets are opt-in via site URL. An unreachable site is an
	// expected condition in local runs, reported as a checker failure
	// rather than an error return so the run continues.
	if target.SiteURL != "" {
		liveFindings, liveChecks, livePassed, err := c.checkLive(ctx, target.SiteURL)
		if err != nil {
			return domain.ErrorReport("performance",
				fmt.Sprintf("site unreachable: %v", err)), nil
		}
		findings = append(findings, liveFindings...)
		checks += liveChecks
		passed += livePassed
	}

	score := 100.0
	if checks > 0 {
		score = float64(passed) / float64(checks) * 100
	}

	report := &domain.ModuleReport{
		ModuleName:  "performance",
		Findings:    findings,
		ModuleScore: score,
		Summary: map[string]any{
			"pages_checked":  len(pages),
			"images_checked": len(images),
			"budget_checks":  checks,
			"budgets_passed": passed,
			"total_bytes":    totalBytes,
			"largest_file":   largestFile,
			"largest_bytes":  largestBytes,
			"live_checked":   target.SiteURL != "",
		},
		Recommendations: buildRecommendations(findings),
	}
	return report, nil
}

// checkLive fetches the site root and measures it against the load
// time and transfer size budgets
func (c *Checker) checkLive(ctx context.Context, siteURL string) ([]domain.Finding, int, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	req.Header.Set("User-Agent", "docqa-performance-checker")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, 0, 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	transferred, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	elapsed := time.Since(start)

	var findings []domain.Finding
	checks := 0
	passed := 0

	if c.cfg.MaxLoadTimeMS > 0 {
		checks++
		if elapsed <= time.Duration(c.cfg.MaxLoadTimeMS)*time.Millisecond {
			passed++
		} else {
			f, _ := domain.NewFinding(siteURL, 0, "slow_page_load", domain.SeverityMajor,
				fmt.Sprintf("Site root loaded in %d ms, budget is %d ms",
					elapsed.Milliseconds(), c.cfg.MaxLoadTimeMS))
			findings = append(findings, f.WithRecommendation(
				"Enable caching or a CDN for the rendered site"))
		}
	}

	if c.cfg.MaxTransferKB > 0 {
		checks++
		if transferred <= int64(c.cfg.MaxTransferKB)*1024 {
			passed++
		} else {
			f, _ := domain.NewFinding(siteURL, 0, "transfer_too_large", domain.SeverityMajor,
				fmt.Sprintf("Site root transferred %d KB, budget is %d KB",
					transferred/1024, c.cfg.MaxTransferKB))
			findings = append(findings, f.WithRecommendation(
				"Enable compression and trim page weight on the rendered site"))
		}
	}

	return findings, checks, passed, nil
}

func buildRecommendations(findings []domain.Finding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}

	var recs []string
	if n := counts["page_too_large"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Split %d oversized pages", n))
	}
	if n := counts["image_too_large"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Compress %d oversized images", n))
	}
	if counts["total_size_exceeded"] > 0 {
		recs = append(recs, "Reduce total documentation size below the budget")
	}
	if counts["slow_page_load"] > 0 {
		recs = append(recs, "Speed up page delivery on the rendered site")
	}
	if counts["transfer_too_large"] > 0 {
		recs = append(recs, "Shrink the rendered site's transfer size")
	}
	return recs
}

var _ domain.Checker = (*Checker)(nil)
