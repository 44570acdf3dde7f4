// Package links validates internal links, anchors, and external URLs
// across a markdown documentation tree.
package links

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/medianest/docqa/domain"
	"github.com/medianest/docqa/internal/config"
	"github.com/medianest/docqa/internal/docfs"
)

// link extraction patterns
var (
	inlineLinkRe    = regexp.MustCompile(`!?\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	referenceDefRe  = regexp.MustCompile(`(?m)^\s*\[[^\]]+\]:\s*(\S+)`)
	htmlHrefRe      = regexp.MustCompile(`<a[^>]+href=["']([^"']+)["']`)
	htmlSrcRe       = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	autolinkRe      = regexp.MustCompile(`<(https?://[^>\s]+)>`)
	headingRe       = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	anchorIDRe      = regexp.MustCompile(`<[^>]+id=["']([^"']+)["']`)
	slugStripRe     = regexp.MustCompile("[`*_~!?:;.,()\\[\\]{}'\"#]")
	codeFenceRe     = regexp.MustCompile("(?ms)^```.*?^```")
	inlineCodeRe    = regexp.MustCompile("`[^`]*`")
)

type linkRef struct {
	file   string
	line   int
	target string
}

// slowLinkThreshold marks external links whose response time degrades
// the reading experience even though they resolve.
const slowLinkThreshold = 5 * time.Second

// Checker validates documentation links
type Checker struct {
	cfg       config.LinksConfig
	collector *docfs.Collector
	client    *http.Client

	mu    sync.Mutex
	cache map[string]error         // external URL -> result
	slow  map[string]time.Duration // external URL -> response time over threshold
}

// New creates a link checker
func New(cfg config.LinksConfig, collector *docfs.Collector) *Checker {
	return &Checker{
		cfg:       cfg,
		collector: collector,
		client: &http.Client{
			Timeout: cfg.ExternalTimeout,
		},
		cache: make(map[string]error),
		slow:  make(map[string]time.Duration),
	}
}

// Name implements domain.Checker
func (c *Checker) Name() string { return "links" }

// Check implements domain.Checker
func (c *Checker) Check(ctx context.Context, target domain.Target) (*domain.ModuleReport, error) {
	files, err := c.collector.CollectMarkdown(target.DocsDir)
	if err != nil {
		return nil, domain.NewCheckerError("links", "failed to collect markdown files", err)
	}

	contents := make(map[string]string, len(files))
	for _, rel := range files {
		data, err := docfs.ReadFile(target.DocsDir, rel)
		if err != nil {
			return nil, domain.NewCheckerError("links", "failed to read "+rel, err)
		}
		contents[rel] = string(data)
	}

	var internal, external, anchors []linkRef
	for _, rel := range files {
		for _, ref := range extractLinks(rel, contents[rel]) {
			switch classify(ref.target) {
			case kindExternal:
				external = append(external, ref)
			case kindAnchor:
				anchors = append(anchors, ref)
			case kindInternal:
				internal = append(internal, ref)
			}
		}
	}

	var findings []domain.Finding
	total := 0
	broken := 0

	// Internal links resolve against the source file's directory first,
	// then against the docs root.
	for _, ref := range internal {
		total++
		if f, ok := c.checkInternal(target.DocsDir, contents, ref); !ok {
			findings = append(findings, f)
			broken++
		}
	}

	if c.cfg.CheckAnchors {
		for _, ref := range anchors {
			total++
			if f, ok := checkAnchor(contents, ref); !ok {
				findings = append(findings, f)
				broken++
			}
		}
	}

	if c.cfg.CheckExternal {
		extFindings, extBroken, err := c.checkExternal(ctx, external)
		if err != nil {
			return nil, err
		}
		total += len(external)
		broken += extBroken
		findings = append(findings, extFindings...)
	}

	score := 100.0
	if total > 0 {
		score = float64(total-broken) / float64(total) * 100
	}

	report := &domain.ModuleReport{
		ModuleName:  "links",
		Findings:    findings,
		ModuleScore: score,
		Summary: map[string]any{
			"files_checked":  len(files),
			"total_links":    total,
			"broken_links":   broken,
			"internal_links": len(internal),
			"external_links": len(external),
			"anchor_links":   len(anchors),
			"success_rate":   score,
		},
		Recommendations: buildRecommendations(findings),
	}
	return report, nil
}

type linkKind int

const (
	kindInternal linkKind = iota
	kindExternal
	kindAnchor
	kindSkip
)

func classify(target string) linkKind {
	switch {
	case target == "":
		return kindSkip
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return kindExternal
	case strings.HasPrefix(target, "#"):
		return kindAnchor
	case strings.HasPrefix(target, "mailto:"), strings.HasPrefix(target, "tel:"),
		strings.HasPrefix(target, "javascript:"), strings.HasPrefix(target, "data:"):
		return kindSkip
	default:
		return kindInternal
	}
}

// extractLinks pulls link targets with their line numbers. Code blocks
// are masked first so fenced examples do not produce false positives.
func extractLinks(file, content string) []linkRef {
	masked := codeFenceRe.ReplaceAllStringFunc(content, func(s string) string {
		return strings.Repeat("\n", strings.Count(s, "\n"))
	})

	var refs []linkRef
	lines := strings.Split(masked, "\n")
	for i, line := range lines {
		line = inlineCodeRe.ReplaceAllString(line, "")
		for _, re := range []*regexp.Regexp{inlineLinkRe, htmlHrefRe, htmlSrcRe, autolinkRe} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				refs = append(refs, linkRef{file: file, line: i + 1, target: m[1]})
			}
		}
	}
	for _, m := range referenceDefRe.FindAllStringSubmatch(masked, -1) {
		refs = append(refs, linkRef{file: file, target: m[1]})
	}
	return refs
}

func (c *Checker) checkInternal(root string, contents map[string]string, ref linkRef) (domain.Finding, bool) {
	path, fragment, _ := strings.Cut(ref.target, "#")
	if path == "" {
		return domain.Finding{}, true
	}
	path, _ = url.PathUnescape(path)

	resolved, ok := resolveInternal(root, ref.file, path)
	if !ok {
		f, _ := domain.NewFinding(ref.file, ref.line, "broken_link", domain.SeverityCritical,
			fmt.Sprintf("Broken internal link: %s", ref.target))
		return f.WithRecommendation("Fix the path or restore the missing file"), false
	}

	if fragment != "" && c.cfg.CheckAnchors {
		if content, ok := contents[resolved]; ok && !hasAnchor(content, fragment) {
			f, _ := domain.NewFinding(ref.file, ref.line, "broken_anchor", domain.SeverityMinor,
				fmt.Sprintf("Link anchor not found: %s#%s", path, fragment))
			return f.WithRecommendation("Update the anchor to match a heading in the target file"), false
		}
	}
	return domain.Finding{}, true
}

// resolveInternal tries the source-relative path, then docs-root-relative,
// then directory index conventions. Returns the root-relative path of the
// markdown file it landed on, when it is one.
func resolveInternal(root, fromFile, path string) (string, bool) {
	candidates := []string{
		filepath.Join(filepath.Dir(fromFile), path),
		strings.TrimPrefix(path, "/"),
	}

	for _, rel := range candidates {
		rel = filepath.Clean(rel)
		if strings.HasPrefix(rel, "..") {
			continue
		}
		abs := filepath.Join(root, rel)
		if info, err := os.Stat(abs); err == nil {
			if info.IsDir() {
				// Directory links resolve via their index page
				for _, index := range []string{"index.md", "README.md"} {
					if _, err := os.Stat(filepath.Join(abs, index)); err == nil {
						return filepath.Join(rel, index), true
					}
				}
				return rel, true
			}
			return rel, true
		}
		// Extensionless links to markdown pages
		if filepath.Ext(rel) == "" {
			if _, err := os.Stat(abs + ".md"); err == nil {
				return rel + ".md", true
			}
		}
	}
	return "", false
}

func checkAnchor(contents map[string]string, ref linkRef) (domain.Finding, bool) {
	fragment := strings.TrimPrefix(ref.target, "#")
	if hasAnchor(contents[ref.file], fragment) {
		return domain.Finding{}, true
	}
	f, _ := domain.NewFinding(ref.file, ref.line, "broken_anchor", domain.SeverityMinor,
		fmt.Sprintf("Anchor not found in this file: #%s", fragment))
	return f.WithRecommendation("Update the anchor to match an existing heading"), false
}

// hasAnchor checks whether a fragment resolves to a heading slug or an
// explicit HTML id in the file.
func hasAnchor(content, fragment string) bool {
	want := strings.ToLower(fragment)
	for _, m := range headingRe.FindAllStringSubmatch(content, -1) {
		if Slugify(m[1]) == want {
			return true
		}
	}
	for _, m := range anchorIDRe.FindAllStringSubmatch(content, -1) {
		if strings.ToLower(m[1]) == want {
			return true
		}
	}
	return false
}

// Slugify converts a heading into its generated anchor id
func Slugify(heading string) string {
	s := strings.TrimSpace(heading)
	s = slugStripRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// checkExternal requests each distinct external URL once with bounded
// concurrency. Results are cached for the life of the checker.
func (c *Checker) checkExternal(ctx context.Context, refs []linkRef) ([]domain.Finding, int, error) {
	distinct := make(map[string][]linkRef)
	for _, ref := range refs {
		if c.ignored(ref.target) {
			continue
		}
		distinct[ref.target] = append(distinct[ref.target], ref)
	}
	urls := make([]string, 0, len(distinct))
	for rawURL := range distinct {
		urls = append(urls, rawURL)
	}
	// Findings come out in URL order so repeated runs produce
	// identical reports
	sort.Strings(urls)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)

	results := make(map[string]error, len(distinct))
	var mu sync.Mutex

	for _, rawURL := range urls {
		rawURL := rawURL
		g.Go(func() error {
			err := c.fetch(gctx, rawURL)
			mu.Lock()
			results[rawURL] = err
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var findings []domain.Finding
	broken := 0
	for _, rawURL := range urls {
		fetchErr := results[rawURL]
		if fetchErr == nil {
			c.mu.Lock()
			elapsed, isSlow := c.slow[rawURL]
			c.mu.Unlock()
			if isSlow {
				for _, ref := range distinct[rawURL] {
					f, _ := domain.NewFinding(ref.file, ref.line, "slow_link", domain.SeverityMinor,
						fmt.Sprintf("External link responded in %.1fs: %s", elapsed.Seconds(), rawURL))
					findings = append(findings, f)
				}
			}
			continue
		}
		for _, ref := range distinct[rawURL] {
			broken++
			f, _ := domain.NewFinding(ref.file, ref.line, "broken_external_link", domain.SeverityMajor,
				fmt.Sprintf("External link failed: %s (%v)", rawURL, fetchErr))
			findings = append(findings, f.WithRecommendation("Verify the URL or remove the dead link"))
		}
	}
	return findings, broken, nil
}

func (c *Checker) ignored(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, host := range c.cfg.IgnoreHosts {
		if u.Host == host || strings.HasSuffix(u.Host, "."+host) {
			return true
		}
	}
	return false
}

// fetch issues a HEAD request, retrying as GET for servers that reject HEAD
func (c *Checker) fetch(ctx context.Context, rawURL string) error {
	c.mu.Lock()
	if cached, ok := c.cache[rawURL]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	start := time.Now()
	err := c.request(ctx, http.MethodHead, rawURL)
	if err != nil {
		err = c.request(ctx, http.MethodGet, rawURL)
	}
	elapsed := time.Since(start)

	c.mu.Lock()
	c.cache[rawURL] = err
	if err == nil && elapsed > slowLinkThreshold {
		c.slow[rawURL] = elapsed
	}
	c.mu.Unlock()
	return err
}

func (c *Checker) request(ctx context.Context, method, rawURL string) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.ExternalTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "docqa-link-checker")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

func buildRecommendations(findings []domain.Finding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Category]++
	}

	var recs []string
	if n := counts["broken_link"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d broken internal links", n))
	}
	if n := counts["broken_external_link"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Review %d failing external links", n))
	}
	if n := counts["broken_anchor"]; n > 0 {
		recs = append(recs, fmt.Sprintf("Update %d stale anchors to match current headings", n))
	}
	return recs
}

var _ domain.Checker = (*Checker)(nil)
