package classification

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"samplesort/internal/config"
	"samplesort/internal/logging"
	"samplesort/internal/pack"
	"samplesort/internal/taxonomy"
	"samplesort/internal/textutil"
)

// Adapter classifies packs the deterministic stages could not resolve.
// Results are returned in input order.
type Adapter interface {
	ClassifyBatch(ctx context.Context, packs []pack.Pack) ([]pack.Classification, error)
}

// OverrideSource supplies operator overrides keyed by pack ID. A nil
// classification with a nil error means no override exists.
type OverrideSource interface {
	Override(ctx context.Context, packID string) (*pack.Classification, error)
}

// Thresholds gates every acceptance decision in the cascade.
type Thresholds struct {
	Confidence        float64
	Skip              float64
	BundleInheritance float64
	FastPassWeight    float64
	MinScore          float64
	FallbackPenalty   float64
}

// ThresholdsFromConfig copies the classification section of cfg.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	c := cfg.Classification
	return Thresholds{
		Confidence:        c.ConfidenceThreshold,
		Skip:              c.SkipConfidenceThreshold,
		BundleInheritance: c.BundleInheritanceThreshold,
		FastPassWeight:    c.FastPassWeight,
		MinScore:          c.MinTaxonomicScore,
		FallbackPenalty:   c.KeywordFallbackPenalty,
	}
}

// DefaultThresholds mirrors the documented configuration defaults.
func DefaultThresholds() Thresholds {
	cfg := config.Default()
	return ThresholdsFromConfig(&cfg)
}

// stageFunc returns a terminal outcome, or nil to continue with the next
// stage.
type stageFunc func(ctx context.Context, st *state) *Outcome

type stage struct {
	name string
	run  stageFunc
}

// state is the per-pack scratch space threaded through the stages.
type state struct {
	pack      pack.Pack
	text      string
	bundle    *pack.Classification
	candidate *pack.Classification
}

// Cascade evaluates packs against an ordered list of stages.
type Cascade struct {
	index      *taxonomy.Index
	thresholds Thresholds
	stages     []stage
	adapter    Adapter
	overrides  OverrideSource
	batchSize  int
	batchDelay time.Duration
	logger     *slog.Logger
}

// Option customizes a Cascade.
type Option func(*Cascade)

// WithAdapter enables the AI stage.
func WithAdapter(adapter Adapter) Option {
	return func(c *Cascade) { c.adapter = adapter }
}

// WithOverrides enables the manual stage.
func WithOverrides(source OverrideSource) Option {
	return func(c *Cascade) { c.overrides = source }
}

// WithLogger sets the logger used for stage decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cascade) { c.logger = logger }
}

// WithBatching sets the AI batch size and the minimum spacing between batch
// submissions.
func WithBatching(size int, delay time.Duration) Option {
	return func(c *Cascade) {
		if size > 0 {
			c.batchSize = size
		}
		if delay >= 0 {
			c.batchDelay = delay
		}
	}
}

// New builds a cascade over index.
func New(index *taxonomy.Index, thresholds Thresholds, opts ...Option) *Cascade {
	c := &Cascade{
		index:      index,
		thresholds: thresholds,
		batchSize:  10,
		batchDelay: time.Second,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = logging.NewComponentLogger(c.logger, "classifier")
	c.stages = []stage{
		{name: "manual", run: c.manualStage},
		{name: "taxonomic", run: c.taxonomicStage},
		{name: "bundle-inherited", run: c.bundleStage},
		{name: "needs-ai", run: c.needsAIStage},
	}
	return c
}

// NewFromConfig wires thresholds and batching from cfg.
func NewFromConfig(cfg *config.Config, index *taxonomy.Index, opts ...Option) *Cascade {
	base := []Option{
		WithBatching(cfg.AI.BatchSize, time.Duration(cfg.AI.BatchDelayMS)*time.Millisecond),
	}
	return New(index, ThresholdsFromConfig(cfg), append(base, opts...)...)
}

// Thresholds returns the acceptance gates in use.
func (c *Cascade) Thresholds() Thresholds { return c.thresholds }

// Classify runs the deterministic stages for one pack. bundle is the
// classification of the pack's bundle, when one is known. The result is
// either KindClassified or KindNeedsAI; Run resolves the latter.
func (c *Cascade) Classify(ctx context.Context, p pack.Pack, bundle *pack.Classification) Outcome {
	st := &state{
		pack:   p,
		text:   searchableText(p),
		bundle: bundle,
	}
	for _, s := range c.stages {
		if out := s.run(ctx, st); out != nil {
			return *out
		}
	}
	// needs-ai is always terminal; this is unreachable with the built-in
	// stage list.
	return Outcome{PackID: p.ID, PackName: p.DisplayName(), Kind: KindNeedsAI, Candidate: st.candidate}
}

func searchableText(p pack.Pack) string {
	parts := make([]string, 0, 1+len(p.Tags)+len(p.TaxonomyHints))
	parts = append(parts, p.DisplayName())
	parts = append(parts, p.Tags...)
	parts = append(parts, p.TaxonomyHints...)
	return textutil.NormalizeText(strings.Join(parts, " "))
}

func (c *Cascade) manualStage(ctx context.Context, st *state) *Outcome {
	if c.overrides == nil {
		return nil
	}
	override, err := c.overrides.Override(ctx, st.pack.ID)
	if err != nil {
		logging.WarnWithContext(c.logger, "override lookup failed", "override_lookup_failed",
			logging.String(logging.FieldPackID, st.pack.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "pack continues through automatic stages"),
		)
		return nil
	}
	if override.IsZero() {
		return nil
	}
	result := override.Clone()
	result.Method = pack.MethodManual
	result.Confidence = pack.ClampConfidence(result.Confidence)
	if result.Confidence == 0 {
		result.Confidence = 1
	}
	result.AddReason("operator override")
	out := classified(st.pack, result)
	c.logDecision(st.pack, "manual", "classified", result.Label())
	return &out
}

func (c *Cascade) taxonomicStage(_ context.Context, st *state) *Outcome {
	candidate := c.scoreText(st.text)
	if candidate == nil {
		return nil
	}
	st.candidate = candidate
	if candidate.Confidence < c.thresholds.Skip {
		return nil
	}
	out := classified(st.pack, candidate.Clone())
	c.logDecision(st.pack, "taxonomic", "classified", candidate.Label())
	return &out
}

func (c *Cascade) bundleStage(_ context.Context, st *state) *Outcome {
	if st.bundle.IsZero() || st.bundle.Confidence < c.thresholds.BundleInheritance {
		return nil
	}
	inherited := &pack.Classification{
		Family:          st.bundle.Family,
		Style:           st.bundle.Style,
		Confidence:      st.bundle.Confidence,
		Method:          pack.MethodBundleInherited,
		MatchedKeywords: append([]string(nil), st.bundle.MatchedKeywords...),
	}
	if st.pack.Bundle != nil {
		inherited.AddReason("inherited from bundle %q", st.pack.Bundle.Name)
	} else {
		inherited.AddReason("inherited from bundle")
	}
	out := classified(st.pack, inherited)
	c.logDecision(st.pack, "bundle", "classified", inherited.Label())
	return &out
}

func (c *Cascade) needsAIStage(_ context.Context, st *state) *Outcome {
	return &Outcome{
		PackID:    st.pack.ID,
		PackName:  st.pack.DisplayName(),
		Kind:      KindNeedsAI,
		Candidate: st.candidate.Clone(),
	}
}

func (c *Cascade) logDecision(p pack.Pack, decision, result, reason string) {
	attrs := append(logging.DecisionAttrs(decision, result, reason),
		logging.String(logging.FieldPackID, p.ID),
		logging.String("pack_name", p.DisplayName()),
	)
	c.logger.Debug("classification decision", logging.Args(attrs...)...)
}
