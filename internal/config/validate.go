package config

import (
	"errors"
	"fmt"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateClassification,
		c.validateAI,
		c.validateClustering,
		c.validateFusion,
		c.validateProposals,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateClassification() error {
	cl := c.Classification
	if err := ensureUnitRange(map[string]float64{
		"classification.confidence_threshold":         cl.ConfidenceThreshold,
		"classification.skip_confidence_threshold":    cl.SkipConfidenceThreshold,
		"classification.bundle_inheritance_threshold": cl.BundleInheritanceThreshold,
		"classification.min_taxonomic_score":          cl.MinTaxonomicScore,
		"classification.keyword_fallback_penalty":     cl.KeywordFallbackPenalty,
	}); err != nil {
		return err
	}
	if cl.FastPassWeight <= 0 || cl.FastPassWeight > 1.5 {
		return errors.New("classification.fast_pass_weight must be within (0, 1.5]")
	}
	if cl.SkipConfidenceThreshold < cl.ConfidenceThreshold {
		return errors.New("classification.skip_confidence_threshold must not be below confidence_threshold")
	}
	if cl.BundleInheritanceThreshold <= cl.ConfidenceThreshold {
		return errors.New("classification.bundle_inheritance_threshold must be greater than confidence_threshold")
	}
	return nil
}

func (c *Config) validateAI() error {
	if err := ensurePositiveMap(map[string]int{
		"ai.batch_size":              c.AI.BatchSize,
		"ai.timeout_seconds":         c.AI.TimeoutSeconds,
		"ai.max_failures":            c.AI.MaxFailures,
		"ai.breaker_timeout_seconds": c.AI.BreakerTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.AI.BatchDelayMS < 0 {
		return errors.New("ai.batch_delay_ms must be zero or positive")
	}
	return nil
}

func (c *Config) validateClustering() error {
	cl := c.Clustering
	switch cl.Strategy {
	case "adaptive", "hierarchical", "density":
	default:
		return fmt.Errorf("clustering.strategy: unsupported value %q (want adaptive, hierarchical or density)", cl.Strategy)
	}
	if err := ensureUnitRange(map[string]float64{
		"clustering.similarity_threshold": cl.SimilarityThreshold,
		"clustering.merge_threshold":      cl.MergeThreshold,
	}); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"clustering.min_cluster_size":   cl.MinClusterSize,
		"clustering.max_cluster_size":   cl.MaxClusterSize,
		"clustering.min_pts":            cl.MinPts,
		"clustering.hierarchical_limit": cl.HierarchicalLimit,
	}); err != nil {
		return err
	}
	if cl.MaxClusterSize < cl.MinClusterSize {
		return errors.New("clustering.max_cluster_size must be at least min_cluster_size")
	}
	return nil
}

func (c *Config) validateFusion() error {
	if c.Fusion.MinPacks < 1 {
		return errors.New("fusion.min_packs must be positive")
	}
	if c.Fusion.CohesionBar < 0 || c.Fusion.CohesionBar > 1 {
		return errors.New("fusion.cohesion_bar must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateProposals() error {
	p := c.Proposals
	if p.MaxProposals < 1 {
		return errors.New("proposals.max_proposals must be positive")
	}
	if err := ensureUnitRange(map[string]float64{
		"proposals.balance_weight":       p.BalanceWeight,
		"proposals.compatibility_weight": p.CompatibilityWeight,
		"proposals.simplicity_weight":    p.SimplicityWeight,
	}); err != nil {
		return err
	}
	if p.BalanceWeight+p.CompatibilityWeight+p.SimplicityWeight == 0 {
		return errors.New("proposals weights must not all be zero")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for _, key := range sortedKeys(values) {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func ensureUnitRange(values map[string]float64) error {
	for _, key := range sortedKeys(values) {
		if v := values[key]; v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	return nil
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
