package config

import "strconv"

// SiteProfile represents the documentation site generator in use
type SiteProfile string

const (
	SiteProfileGeneric    SiteProfile = "generic"
	SiteProfileMkDocs     SiteProfile = "mkdocs"
	SiteProfileHugo       SiteProfile = "hugo"
	SiteProfileDocusaurus SiteProfile = "docusaurus"
)

// Strictness represents the quality gate strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// SitePreset holds per-generator path conventions
type SitePreset struct {
	DocsDir         string
	ExcludePatterns []string
}

// StrictnessPreset holds gate thresholds for different strictness levels
type StrictnessPreset struct {
	OverallScore float64
	LinksScore   float64
	TotalIssues  float64
}

// GetSitePresets returns presets for common documentation generators
func GetSitePresets() map[SiteProfile]SitePreset {
	return map[SiteProfile]SitePreset{
		SiteProfileGeneric: {
			DocsDir: "docs",
			ExcludePatterns: []string{
				"node_modules",
				".git",
				"build",
			},
		},
		SiteProfileMkDocs: {
			DocsDir: "docs",
			ExcludePatterns: []string{
				"node_modules",
				".git",
				"site",
				".cache",
			},
		},
		SiteProfileHugo: {
			DocsDir: "content",
			ExcludePatterns: []string{
				"node_modules",
				".git",
				"public",
				"resources",
				"themes",
			},
		},
		SiteProfileDocusaurus: {
			DocsDir: "docs",
			ExcludePatterns: []string{
				"node_modules",
				".git",
				"build",
				".docusaurus",
				"static",
			},
		},
	}
}

// GetStrictnessPresets returns gate thresholds for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			OverallScore: 70,
			LinksScore:   85,
			TotalIssues:  100,
		},
		StrictnessStandard: {
			OverallScore: 85,
			LinksScore:   95,
			TotalIssues:  50,
		},
		StrictnessStrict: {
			OverallScore: 92,
			LinksScore:   99,
			TotalIssues:  20,
		},
	}
}

// ApplyPresets produces a config from the chosen site profile and strictness
func ApplyPresets(profile SiteProfile, strictness Strictness) *Config {
	cfg := DefaultConfig()

	if preset, ok := GetSitePresets()[profile]; ok {
		cfg.Analysis.ExcludePatterns = preset.ExcludePatterns
	}

	if strict, ok := GetStrictnessPresets()[strictness]; ok {
		for i, gate := range cfg.Gates {
			switch gate.Name {
			case "overall_score":
				cfg.Gates[i].Threshold = strict.OverallScore
			case "links_score":
				cfg.Gates[i].Threshold = strict.LinksScore
			case "total_issues":
				cfg.Gates[i].Threshold = strict.TotalIssues
			}
		}
	}

	return cfg
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(profile SiteProfile, strictness Strictness) string {
	sitePresets := GetSitePresets()
	strictnessPresets := GetStrictnessPresets()

	preset, ok := sitePresets[profile]
	if !ok {
		preset = sitePresets[SiteProfileGeneric]
	}
	strict, ok := strictnessPresets[strictness]
	if !ok {
		strict = strictnessPresets[StrictnessStandard]
	}

	excludePatterns := formatYAMLList(preset.ExcludePatterns, "    ")

	return `# docqa configuration
# Documentation: https://github.com/medianest/docqa

# ==============================================================================
# MODULE WEIGHTS
# ==============================================================================
# Relative contribution of each checker to the overall score.
# Must be positive and sum to 1.0.
weights:
  links: 0.25
  formatting: 0.20
  accessibility: 0.25
  mobile: 0.15
  performance: 0.15

# ==============================================================================
# QUALITY GATES
# ==============================================================================
# Thresholds over the aggregated metrics. A run passes only when every
# gate passes. Comparisons: at_least (scores), at_most (issue counts).
gates:
  - metric: overall_score
    threshold: ` + formatFloat(strict.OverallScore) + `
    comparison: at_least
  - metric: links_score
    threshold: ` + formatFloat(strict.LinksScore) + `
    comparison: at_least
  - metric: formatting_score
    threshold: 90
    comparison: at_least
  - metric: accessibility_score
    threshold: 85
    comparison: at_least
  - metric: mobile_score
    threshold: 80
    comparison: at_least
  - metric: performance_score
    threshold: 75
    comparison: at_least
  - metric: critical_issues
    threshold: 0
    comparison: at_most
  - metric: total_issues
    threshold: ` + formatFloat(strict.TotalIssues) + `
    comparison: at_most

# ==============================================================================
# CHECKERS
# ==============================================================================
checkers:
  links:
    enabled: true
    # Request external URLs (disable for offline runs)
    check_external: true
    # Resolve #fragment targets against headings
    check_anchors: true
    external_timeout: 10s
    concurrency: 10
    # Hosts to skip entirely (rate-limited APIs etc.)
    ignore_hosts: []

  formatting:
    enabled: true
    # 0 disables the line length check
    max_line_length: 120
    required_frontmatter: [title]
    recommended_frontmatter: [description, tags]

  accessibility:
    enabled: true

  mobile:
    enabled: true
    min_touch_target_px: 44

  performance:
    enabled: true
    max_page_size_kb: 500
    max_image_size_kb: 200
    max_total_size_mb: 50
    # Live budgets apply only when a site URL is configured
    max_load_time_ms: 3000
    max_transfer_kb: 1024

# ==============================================================================
# OUTPUT SETTINGS
# ==============================================================================
output:
  # Output format: text, json, html
  format: text
  # Show per-finding breakdown
  show_details: false
  # Where report files are written (empty = stdout only)
  directory: ""

# ==============================================================================
# ANALYSIS SCOPE
# ==============================================================================
analysis:
  # gitignore-style patterns to skip
  exclude_patterns:
` + excludePatterns + `
  # Upper bound on a single checker run
  checker_timeout: 120s
  # How many checkers run at once (0 = unlimited)
  max_concurrency: 4
  # Rendered site base URL for live checks (mobile, performance)
  site_url: ""
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# docqa configuration (minimal)
# See full options: https://github.com/medianest/docqa

weights:
  links: 0.25
  formatting: 0.20
  accessibility: 0.25
  mobile: 0.15
  performance: 0.15

checkers:
  links:
    enabled: true
    check_external: true
  formatting:
    enabled: true
    max_line_length: 120

output:
  format: text
`
}

// formatYAMLList formats a string slice as an indented YAML list
func formatYAMLList(items []string, indent string) string {
	result := ""
	for _, item := range items {
		result += indent + "- " + item + "\n"
	}
	return result
}

// formatFloat renders a threshold without a trailing .0 for whole numbers
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
