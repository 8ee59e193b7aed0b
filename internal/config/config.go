package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	LibraryRoot  string `toml:"library_root"`
	StateDir     string `toml:"state_dir"`
	ReviewDB     string `toml:"review_db"`
	TaxonomyFile string `toml:"taxonomy_file"`
}

// Classification contains the cascade thresholds.
type Classification struct {
	// ConfidenceThreshold is the quarantine floor: anything below it is never accepted.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	// SkipConfidenceThreshold accepts a taxonomic match immediately.
	SkipConfidenceThreshold float64 `toml:"skip_confidence_threshold"`
	// BundleInheritanceThreshold is the minimum bundle confidence a pack may inherit.
	BundleInheritanceThreshold float64 `toml:"bundle_inheritance_threshold"`
	// FastPassWeight is the keyword weight at which a hit boosts confidence by 1.2.
	FastPassWeight         float64 `toml:"fast_pass_weight"`
	MinTaxonomicScore      float64 `toml:"min_taxonomic_score"`
	KeywordFallbackPenalty float64 `toml:"keyword_fallback_penalty"`
}

// AI contains the AI fallback connection and batching settings.
type AI struct {
	Enabled               bool   `toml:"enabled"`
	APIKey                string `toml:"api_key"`
	BaseURL               string `toml:"base_url"`
	Model                 string `toml:"model"`
	Referer               string `toml:"referer"`
	Title                 string `toml:"title"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
	BatchSize             int    `toml:"batch_size"`
	BatchDelayMS          int    `toml:"batch_delay_ms"`
	MaxFailures           int    `toml:"max_failures"`
	BreakerTimeoutSeconds int    `toml:"breaker_timeout_seconds"`
}

// Clustering contains folder clustering settings.
type Clustering struct {
	Strategy            string  `toml:"strategy"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MergeThreshold      float64 `toml:"merge_threshold"`
	MinClusterSize      int     `toml:"min_cluster_size"`
	MaxClusterSize      int     `toml:"max_cluster_size"`
	MinPts              int     `toml:"min_pts"`
	HierarchicalLimit   int     `toml:"hierarchical_limit"`
	Workers             int     `toml:"workers"`
}

// Fusion contains fusion group promotion settings.
type Fusion struct {
	MinPacks    int     `toml:"min_packs"`
	CohesionBar float64 `toml:"cohesion_bar"`
}

// Proposals contains structure proposal settings.
type Proposals struct {
	MaxProposals        int     `toml:"max_proposals"`
	BalanceWeight       float64 `toml:"balance_weight"`
	CompatibilityWeight float64 `toml:"compatibility_weight"`
	SimplicityWeight    float64 `toml:"simplicity_weight"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for samplesort.
//
// Configuration sections by subsystem:
//   - Paths: library root for fusion targets, state dir, review database, taxonomy file
//   - Classification: cascade confidence thresholds
//   - AI: AI fallback connection, batching and circuit breaker
//   - Clustering: folder similarity clustering
//   - Fusion: fusion group promotion
//   - Proposals: structure proposal ranking
//   - Logging: log format, level and optional file
type Config struct {
	Paths          Paths          `toml:"paths"`
	Classification Classification `toml:"classification"`
	AI             AI             `toml:"ai"`
	Clustering     Clustering     `toml:"clustering"`
	Fusion         Fusion         `toml:"fusion"`
	Proposals      Proposals      `toml:"proposals"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("samplesort.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory holding the review database and run lock.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, filepath.Dir(c.Paths.ReviewDB)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "samplesort.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the AI connection settings in the shape the LLM client expects.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// AIEnabled reports whether the AI fallback can be used.
func (c *Config) AIEnabled() bool {
	return c.AI.Enabled && strings.TrimSpace(c.AI.APIKey) != ""
}

// GetLLM returns the AI connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.AI.APIKey),
		BaseURL:        strings.TrimSpace(c.AI.BaseURL),
		Model:          strings.TrimSpace(c.AI.Model),
		Referer:        strings.TrimSpace(c.AI.Referer),
		Title:          strings.TrimSpace(c.AI.Title),
		TimeoutSeconds: c.AI.TimeoutSeconds,
	}
}
