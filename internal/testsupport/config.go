package testsupport

import (
	"path/filepath"
	"testing"

	"samplesort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// AI is disabled, the AI pacing delay is zero and clustering runs on two
// workers unless an option says otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryRoot = filepath.Join(base, "library")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.ReviewDB = filepath.Join(base, "state", "review.db")
	cfgVal.AI.Enabled = false
	cfgVal.AI.APIKey = ""
	cfgVal.AI.BatchDelayMS = 0
	cfgVal.Clustering.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithAI enables the AI fallback with the given key and batch size.
func WithAI(key string, batchSize int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AI.Enabled = true
		b.cfg.AI.APIKey = key
		if batchSize > 0 {
			b.cfg.AI.BatchSize = batchSize
		}
	}
}

// WithTaxonomyFile points the config at a taxonomy document.
func WithTaxonomyFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.TaxonomyFile = path
	}
}

// WithConfig applies an arbitrary mutation to the config.
func WithConfig(mutate func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		mutate(b.cfg)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
