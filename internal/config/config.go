package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"vetgate/internal/analyzers"
)

// Config is the full effective configuration for one pipeline run. It is
// passed explicitly through every call boundary; nothing in the pipeline
// reads process-wide state, so concurrent runs with different configs are
// safe.
type Config struct {
	Rules      map[string]Rule `yaml:"rules" toml:"rules" json:"rules"`
	AI         AI              `yaml:"ai_review" toml:"ai_review" json:"ai_review"`
	AutoReject AutoReject      `yaml:"auto_reject" toml:"auto_reject" json:"auto_reject"`

	// Format selects the report renderer: text, markdown, or json.
	Format string `yaml:"format" toml:"format" json:"format"`
	// AnalyzerTimeoutSeconds bounds each individual analyzer invocation.
	AnalyzerTimeoutSeconds int `yaml:"analyzer_timeout_seconds" toml:"analyzer_timeout_seconds" json:"analyzer_timeout_seconds"`
}

// Rule configures one rule-based analyzer category. Tool is the command to
// exec; "none" disables the category.
type Rule struct {
	Tool string `yaml:"tool" toml:"tool" json:"tool"`
	// Threshold caps the findings kept for this category; 0 keeps all.
	// The pointer keeps "not set in this layer" distinct from an
	// explicit 0 during merging.
	Threshold *int `yaml:"threshold,omitempty" toml:"threshold,omitempty" json:"threshold,omitempty"`
}

// AI configures the generative review branch.
type AI struct {
	Provider       string  `yaml:"provider" toml:"provider" json:"provider"`
	Model          string  `yaml:"model" toml:"model" json:"model"`
	Temperature    float64 `yaml:"temperature" toml:"temperature" json:"temperature"`
	MinConfidence  float64 `yaml:"min_confidence" toml:"min_confidence" json:"min_confidence"`
	MaxComments    int     `yaml:"max_comments" toml:"max_comments" json:"max_comments"`
	TimeoutSeconds int     `yaml:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds"`
	// CacheDir enables response caching when non-empty ("default" selects
	// the platform cache directory).
	CacheDir string `yaml:"cache_dir" toml:"cache_dir" json:"cache_dir"`
}

// AutoReject configures the accept/reject gate on the aggregate report.
type AutoReject struct {
	Enabled          bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	OverallThreshold int  `yaml:"overall_threshold" toml:"overall_threshold" json:"overall_threshold"`
}

// Default returns the configuration used when no file, env, or flag says
// otherwise. Thresholds default to unlimited and auto-reject to disabled.
func Default() Config {
	return Config{
		Rules: map[string]Rule{
			string(analyzers.CategoryNaming):     {Tool: "flake8"},
			string(analyzers.CategoryComplexity): {Tool: "radon"},
			string(analyzers.CategorySecurity):   {Tool: "bandit"},
		},
		AI: AI{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			Temperature:    0.2,
			MinConfidence:  0.7,
			MaxComments:    5,
			TimeoutSeconds: 120,
		},
		Format:                 "text",
		AnalyzerTimeoutSeconds: 60,
	}
}

// Thresholds maps the configured per-category limits into the form the
// analyzer runner consumes. Unset thresholds mean unlimited. Unknown rule
// keys are dropped here; Validate rejects them earlier.
func (c Config) Thresholds() map[analyzers.Category]int {
	m := make(map[analyzers.Category]int, len(c.Rules))
	for _, cat := range analyzers.Categories {
		if r, ok := c.Rules[string(cat)]; ok && r.Threshold != nil {
			m[cat] = *r.Threshold
		}
	}
	return m
}

// Tools maps each configured category to its tool command. Categories
// absent from the rules section, or configured with tool "none", do not
// run.
func (c Config) Tools() map[analyzers.Category]string {
	m := make(map[analyzers.Category]string, len(c.Rules))
	for _, cat := range analyzers.Categories {
		if r, ok := c.Rules[string(cat)]; ok && r.Tool != "" && r.Tool != "none" {
			m[cat] = r.Tool
		}
	}
	return m
}

// ValidationError is a configuration problem detected at load time, before
// any analyzer or model call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the whole config. The first problem found is returned as
// a *ValidationError.
func (c Config) Validate() error {
	known := make(map[string]bool, len(analyzers.Categories))
	for _, cat := range analyzers.Categories {
		known[string(cat)] = true
	}
	for name, rule := range c.Rules {
		if !known[name] {
			return &ValidationError{Field: "rules." + name, Reason: "unknown category"}
		}
		if rule.Threshold != nil && *rule.Threshold < 0 {
			return &ValidationError{Field: "rules." + name + ".threshold", Reason: "must not be negative"}
		}
	}
	if c.AI.MinConfidence < 0 || c.AI.MinConfidence > 1 {
		return &ValidationError{Field: "ai_review.min_confidence", Reason: "must be in [0,1]"}
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return &ValidationError{Field: "ai_review.temperature", Reason: "must be in [0,2]"}
	}
	if c.AI.MaxComments < 0 {
		return &ValidationError{Field: "ai_review.max_comments", Reason: "must not be negative"}
	}
	if c.AI.TimeoutSeconds < 0 {
		return &ValidationError{Field: "ai_review.timeout_seconds", Reason: "must not be negative"}
	}
	if c.AutoReject.OverallThreshold < 0 {
		return &ValidationError{Field: "auto_reject.overall_threshold", Reason: "must not be negative"}
	}
	if c.AnalyzerTimeoutSeconds < 0 {
		return &ValidationError{Field: "analyzer_timeout_seconds", Reason: "must not be negative"}
	}
	switch c.Format {
	case "", "text", "markdown", "json":
	default:
		return &ValidationError{Field: "format", Reason: "must be text, markdown, or json"}
	}
	return nil
}

// Load builds the effective config by merging defaults <- file <- env <-
// overrides, then validates it. path may be empty, in which case the
// default locations are probed; a missing file is not an error.
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, found, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	if found {
		mergeFile(&cfg, fileCfg)
	}
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultPaths are probed in order when no explicit config path is given.
var defaultPaths = []string{"vetgate.yaml", "vetgate.yml", "vetgate.toml"}

func loadFile(path string) (Config, bool, error) {
	if path == "" {
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return Config{}, false, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, false, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, false, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, true, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.Rules) > 0 {
		for name, rule := range src.Rules {
			base := dst.Rules[name]
			if rule.Tool != "" {
				base.Tool = rule.Tool
			}
			if rule.Threshold != nil {
				base.Threshold = rule.Threshold
			}
			dst.Rules[name] = base
		}
	}
	if src.AI.Provider != "" {
		dst.AI.Provider = src.AI.Provider
	}
	if src.AI.Model != "" {
		dst.AI.Model = src.AI.Model
	}
	if src.AI.Temperature > 0 {
		dst.AI.Temperature = src.AI.Temperature
	}
	if src.AI.MinConfidence > 0 {
		dst.AI.MinConfidence = src.AI.MinConfidence
	}
	if src.AI.MaxComments > 0 {
		dst.AI.MaxComments = src.AI.MaxComments
	}
	if src.AI.TimeoutSeconds > 0 {
		dst.AI.TimeoutSeconds = src.AI.TimeoutSeconds
	}
	if src.AI.CacheDir != "" {
		dst.AI.CacheDir = src.AI.CacheDir
	}
	dst.AutoReject.Enabled = src.AutoReject.Enabled || dst.AutoReject.Enabled
	if src.AutoReject.OverallThreshold > 0 {
		dst.AutoReject.OverallThreshold = src.AutoReject.OverallThreshold
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.AnalyzerTimeoutSeconds > 0 {
		dst.AnalyzerTimeoutSeconds = src.AnalyzerTimeoutSeconds
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("VETGATE_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("VETGATE_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("VETGATE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("VETGATE_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AI.MinConfidence = f
		}
	}
	if v := os.Getenv("VETGATE_MAX_COMMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AI.MaxComments = n
		}
	}
	if v := os.Getenv("VETGATE_AUTO_REJECT"); v != "" {
		cfg.AutoReject.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.AI.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.AI.Model = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["minConfidence"]; ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AI.MinConfidence = f
		}
	}
	if v, ok := overrides["maxComments"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AI.MaxComments = n
		}
	}
	if v, ok := overrides["autoReject"]; ok && v != "" {
		cfg.AutoReject.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v, ok := overrides["overallThreshold"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AutoReject.OverallThreshold = n
		}
	}
}
