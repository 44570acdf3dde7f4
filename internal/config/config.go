package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/medianest/docqa/domain"
)

// Default analysis settings
const (
	// DefaultCheckerTimeout bounds a single checker run
	DefaultCheckerTimeout = 120 * time.Second

	// DefaultMaxConcurrency caps how many checkers run at once
	DefaultMaxConcurrency = 4

	// DefaultExternalTimeout bounds one external link request
	DefaultExternalTimeout = 10 * time.Second

	// DefaultLinkConcurrency caps in-flight external link requests
	DefaultLinkConcurrency = 10

	// DefaultMaxLineLength is the formatting line length limit
	DefaultMaxLineLength = 120
)

// Config represents the main configuration structure
type Config struct {
	// Weights maps module names to their share of the overall score
	Weights map[string]float64 `json:"weights" mapstructure:"weights" yaml:"weights"`

	// Gates holds the quality gate thresholds; empty means built-in defaults
	Gates []domain.GateSpec `json:"gates" mapstructure:"gates" yaml:"gates"`

	// Checkers holds per-checker configuration
	Checkers CheckersConfig `json:"checkers" mapstructure:"checkers" yaml:"checkers"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds general analysis configuration
	Analysis AnalysisConfig `json:"analysis,omitempty" mapstructure:"analysis" yaml:"analysis"`
}

// CheckersConfig groups the per-module checker settings
type CheckersConfig struct {
	Links         LinksConfig         `json:"links" mapstructure:"links" yaml:"links"`
	Formatting    FormattingConfig    `json:"formatting" mapstructure:"formatting" yaml:"formatting"`
	Accessibility AccessibilityConfig `json:"accessibility" mapstructure:"accessibility" yaml:"accessibility"`
	Mobile        MobileConfig        `json:"mobile" mapstructure:"mobile" yaml:"mobile"`
	Performance   PerformanceConfig   `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// LinksConfig holds configuration for link validation
type LinksConfig struct {
	// Enabled controls whether link validation is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// CheckExternal controls whether external URLs are requested
	CheckExternal bool `json:"check_external" mapstructure:"check_external" yaml:"check_external"`

	// CheckAnchors controls whether #fragment targets are resolved
	CheckAnchors bool `json:"check_anchors" mapstructure:"check_anchors" yaml:"check_anchors"`

	// ExternalTimeout bounds one external request
	ExternalTimeout time.Duration `json:"external_timeout" mapstructure:"external_timeout" yaml:"external_timeout"`

	// Concurrency caps in-flight external requests
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`

	// IgnoreHosts lists hosts whose links are skipped (rate-limited APIs etc.)
	IgnoreHosts []string `json:"ignore_hosts" mapstructure:"ignore_hosts" yaml:"ignore_hosts"`
}

// FormattingConfig holds configuration for markdown style validation
type FormattingConfig struct {
	// Enabled controls whether formatting validation is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// MaxLineLength is the line length limit; 0 disables the check
	MaxLineLength int `json:"max_line_length" mapstructure:"max_line_length" yaml:"max_line_length"`

	// RequiredFrontmatter lists frontmatter fields that must be present
	RequiredFrontmatter []string `json:"required_frontmatter" mapstructure:"required_frontmatter" yaml:"required_frontmatter"`

	// RecommendedFrontmatter lists fields reported as minor when absent
	RecommendedFrontmatter []string `json:"recommended_frontmatter" mapstructure:"recommended_frontmatter" yaml:"recommended_frontmatter"`
}

// AccessibilityConfig holds configuration for accessibility checks
type AccessibilityConfig struct {
	// Enabled controls whether accessibility checks are performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
}

// MobileConfig holds configuration for mobile responsiveness checks
type MobileConfig struct {
	// Enabled controls whether mobile checks are performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// MinTouchTargetPx is the minimum acceptable touch target size
	MinTouchTargetPx int `json:"min_touch_target_px" mapstructure:"min_touch_target_px" yaml:"min_touch_target_px"`
}

// PerformanceConfig holds configuration for performance budget checks
type PerformanceConfig struct {
	// Enabled controls whether performance checks are performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// MaxPageSizeKB is the budget for a single rendered page
	MaxPageSizeKB int `json:"max_page_size_kb" mapstructure:"max_page_size_kb" yaml:"max_page_size_kb"`

	// MaxImageSizeKB is the budget for a single image asset
	MaxImageSizeKB int `json:"max_image_size_kb" mapstructure:"max_image_size_kb" yaml:"max_image_size_kb"`

	// MaxTotalSizeMB is the budget for the whole docs tree
	MaxTotalSizeMB int `json:"max_total_size_mb" mapstructure:"max_total_size_mb" yaml:"max_total_size_mb"`

	// MaxLoadTimeMS is the budget for fetching the rendered site root,
	// checked only when a site URL is given
	MaxLoadTimeMS int `json:"max_load_time_ms" mapstructure:"max_load_time_ms" yaml:"max_load_time_ms"`

	// MaxTransferKB is the budget for the rendered site root's transfer
	// size, checked only when a site URL is given
	MaxTransferKB int `json:"max_transfer_kb" mapstructure:"max_transfer_kb" yaml:"max_transfer_kb"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show per-finding breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// Directory specifies where report files are written
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`

	// NoColor disables terminal styling
	NoColor bool `json:"no_color" mapstructure:"no_color" yaml:"no_color"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// ExcludePatterns specifies gitignore-style patterns to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// CheckerTimeout bounds a single checker run
	CheckerTimeout time.Duration `json:"checker_timeout" mapstructure:"checker_timeout" yaml:"checker_timeout"`

	// MaxConcurrency caps how many checkers run at once; 0 means unlimited
	MaxConcurrency int `json:"max_concurrency" mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// SiteURL is the rendered site base URL for live checks
	SiteURL string `json:"site_url" mapstructure:"site_url" yaml:"site_url"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Weights: domain.DefaultWeights(),
		Gates:   domain.DefaultGates(),
		Checkers: CheckersConfig{
			Links: LinksConfig{
				Enabled:         true,
				CheckExternal:   true,
				CheckAnchors:    true,
				ExternalTimeout: DefaultExternalTimeout,
				Concurrency:     DefaultLinkConcurrency,
			},
			Formatting: FormattingConfig{
				Enabled:                true,
				MaxLineLength:          DefaultMaxLineLength,
				RequiredFrontmatter:    []string{"title"},
				RecommendedFrontmatter: []string{"description", "tags"},
			},
			Accessibility: AccessibilityConfig{
				Enabled: true,
			},
			Mobile: MobileConfig{
				Enabled:          true,
				MinTouchTargetPx: 44,
			},
			Performance: PerformanceConfig{
				Enabled:        true,
				MaxPageSizeKB:  500,
				MaxImageSizeKB: 200,
				MaxTotalSizeMB: 50,
				MaxLoadTimeMS:  3000,
				MaxTransferKB:  1024,
			},
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			Directory:   "",
		},
		Analysis: AnalysisConfig{
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				".git",
				"site",
				"build",
				".cache",
			},
			CheckerTimeout: DefaultCheckerTimeout,
			MaxConcurrency: DefaultMaxConcurrency,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// If no config path is given, discovery walks upward from the target.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Weights from file fully replace the default table; merging the two
	// maps would silently break the sum-to-1.0 requirement.
	if v.IsSet("weights") {
		config.Weights = map[string]float64{}
		if err := v.UnmarshalKey("weights", &config.Weights); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
		}
	}
	if v.IsSet("gates") {
		config.Gates = nil
		if err := v.UnmarshalKey("gates", &config.Gates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal gates: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the docs directory being analyzed.
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"docqa.yaml",
		"docqa.yml",
		".docqa.yaml",
		".docqa.yml",
		"docqa.json",
		".docqa.json",
	}

	// Search from the target directory up to the filesystem root
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "docqa"), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/docqa/ and the home directory itself
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "docqa")

		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check DOCQA_CONFIG environment variable as fallback
	if envConfig := os.Getenv("DOCQA_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	// Validate weights
	if len(c.Weights) == 0 {
		return fmt.Errorf("weights cannot be empty")
	}
	sum := 0.0
	for module, w := range c.Weights {
		if w <= 0 {
			return fmt.Errorf("weights.%s must be > 0, got %g", module, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > domain.WeightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %g", sum)
	}

	// Validate gates
	for i, gate := range c.Gates {
		if gate.Name == "" {
			return fmt.Errorf("gates[%d] is missing a metric name", i)
		}
		if !gate.Comparison.IsValid() {
			return fmt.Errorf("invalid gates[%d].comparison '%s', must be one of: at_least, at_most",
				i, gate.Comparison)
		}
	}

	// Validate output format
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"html": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, html", c.Output.Format)
	}

	// Validate checker settings
	if c.Checkers.Links.Concurrency < 1 {
		return fmt.Errorf("checkers.links.concurrency must be >= 1, got %d", c.Checkers.Links.Concurrency)
	}
	if c.Checkers.Links.ExternalTimeout <= 0 {
		return fmt.Errorf("checkers.links.external_timeout must be > 0, got %s", c.Checkers.Links.ExternalTimeout)
	}
	if c.Checkers.Formatting.MaxLineLength < 0 {
		return fmt.Errorf("checkers.formatting.max_line_length must be >= 0, got %d", c.Checkers.Formatting.MaxLineLength)
	}
	if c.Checkers.Mobile.MinTouchTargetPx < 1 {
		return fmt.Errorf("checkers.mobile.min_touch_target_px must be >= 1, got %d", c.Checkers.Mobile.MinTouchTargetPx)
	}
	if c.Checkers.Performance.MaxPageSizeKB < 1 {
		return fmt.Errorf("checkers.performance.max_page_size_kb must be >= 1, got %d", c.Checkers.Performance.MaxPageSizeKB)
	}

	// Validate analysis settings
	if c.Analysis.CheckerTimeout <= 0 {
		return fmt.Errorf("analysis.checker_timeout must be > 0, got %s", c.Analysis.CheckerTimeout)
	}
	if c.Analysis.MaxConcurrency < 0 {
		return fmt.Errorf("analysis.max_concurrency must be >= 0, got %d", c.Analysis.MaxConcurrency)
	}

	if !c.anyCheckerEnabled() {
		return fmt.Errorf("at least one checker must be enabled")
	}

	return nil
}

// anyCheckerEnabled reports whether the config enables at least one module
func (c *Config) anyCheckerEnabled() bool {
	return c.Checkers.Links.Enabled ||
		c.Checkers.Formatting.Enabled ||
		c.Checkers.Accessibility.Enabled ||
		c.Checkers.Mobile.Enabled ||
		c.Checkers.Performance.Enabled
}

// EnabledModules returns the enabled module names in registration order
func (c *Config) EnabledModules() []string {
	var modules []string
	if c.Checkers.Links.Enabled {
		modules = append(modules, "links")
	}
	if c.Checkers.Formatting.Enabled {
		modules = append(modules, "formatting")
	}
	if c.Checkers.Accessibility.Enabled {
		modules = append(modules, "accessibility")
	}
	if c.Checkers.Mobile.Enabled {
		modules = append(modules, "mobile")
	}
	if c.Checkers.Performance.Enabled {
		modules = append(modules, "performance")
	}
	return modules
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("weights", config.Weights)
	v.Set("gates", config.Gates)
	v.Set("checkers", config.Checkers)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
