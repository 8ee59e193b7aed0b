package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAI()
	c.normalizeClustering()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryRoot) == "" {
		c.Paths.LibraryRoot = defaultLibraryRoot
	}
	if c.Paths.LibraryRoot, err = expandPath(c.Paths.LibraryRoot); err != nil {
		return fmt.Errorf("paths.library_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReviewDB) == "" {
		c.Paths.ReviewDB = filepath.Join(c.Paths.StateDir, defaultReviewDBName)
	}
	if c.Paths.ReviewDB, err = expandPath(c.Paths.ReviewDB); err != nil {
		return fmt.Errorf("paths.review_db: %w", err)
	}
	if c.Paths.TaxonomyFile, err = expandPath(strings.TrimSpace(c.Paths.TaxonomyFile)); err != nil {
		return fmt.Errorf("paths.taxonomy_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeAI() {
	if c.AI.APIKey == "" {
		for _, key := range []string{"SAMPLESORT_AI_API_KEY", "OPENROUTER_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.AI.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	c.AI.BaseURL = strings.TrimSpace(c.AI.BaseURL)
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = defaultAIBaseURL
	}
	c.AI.Model = strings.TrimSpace(c.AI.Model)
	if c.AI.Model == "" {
		c.AI.Model = defaultAIModel
	}
	if strings.TrimSpace(c.AI.Title) == "" {
		c.AI.Title = defaultAITitle
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeoutSeconds
	}
}

func (c *Config) normalizeClustering() {
	c.Clustering.Strategy = strings.ToLower(strings.TrimSpace(c.Clustering.Strategy))
	if c.Clustering.Strategy == "" {
		c.Clustering.Strategy = defaultClusteringStrategy
	}
	if c.Clustering.Workers <= 0 {
		c.Clustering.Workers = runtime.NumCPU()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
