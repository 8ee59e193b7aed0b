package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"samplesort/internal/config"
	"samplesort/internal/logging"
	"samplesort/internal/review"
	"samplesort/internal/taxonomy"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// loggerFor builds the process logger once. Logs go to stderr so stdout stays
// reserved for command output.
func (c *commandContext) loggerFor() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) openReview() (*review.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return review.Open(cfg.Paths.ReviewDB)
}

func (c *commandContext) withReview(fn func(*review.Store) error) error {
	store, err := c.openReview()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// loadIndex reads the taxonomy named by override, falling back to the
// configured file and then the built-in taxonomy.
func (c *commandContext) loadIndex(override string) *taxonomy.Index {
	path := strings.TrimSpace(override)
	if path == "" && c.config != nil {
		path = c.config.Paths.TaxonomyFile
	}
	if path != "" {
		if expanded, err := config.ExpandPath(path); err == nil {
			path = expanded
		}
	}
	return taxonomy.LoadOrDefault(path, c.loggerFor())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
