package workflow

import (
	"fmt"
	"log/slog"

	"samplesort/internal/classification"
	"samplesort/internal/clustering"
	"samplesort/internal/config"
	"samplesort/internal/fusion"
	"samplesort/internal/logging"
	"samplesort/internal/proposal"
	"samplesort/internal/review"
	"samplesort/internal/taxonomy"
)

// Manager executes pipeline runs with a fixed set of collaborators.
type Manager struct {
	cfg     *config.Config
	index   *taxonomy.Index
	cascade *classification.Cascade
	engine  *clustering.Engine
	builder *fusion.Builder
	store   *review.Store
	logger  *slog.Logger

	clusterOpts  clustering.Options
	proposalOpts proposal.Options
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	index   *taxonomy.Index
	adapter classification.Adapter
	store   *review.Store
}

// WithIndex supplies a pre-loaded taxonomy instead of reading paths.taxonomy_file.
func WithIndex(index *taxonomy.Index) ManagerOption {
	return func(o *managerOptions) { o.index = index }
}

// WithAdapter enables the AI fallback stage.
func WithAdapter(adapter classification.Adapter) ManagerOption {
	return func(o *managerOptions) { o.adapter = adapter }
}

// WithReviewStore persists quarantine entries and reads manual overrides.
func WithReviewStore(store *review.Store) ManagerOption {
	return func(o *managerOptions) { o.store = store }
}

// NewManager wires the pipeline from cfg. It fails only on configuration
// errors such as an unknown clustering strategy.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("workflow: config is required")
	}
	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	index := options.index
	if index == nil {
		index = taxonomy.LoadOrDefault(cfg.Paths.TaxonomyFile, logger)
	}

	cascadeOpts := []classification.Option{classification.WithLogger(logger)}
	if options.adapter != nil {
		cascadeOpts = append(cascadeOpts, classification.WithAdapter(options.adapter))
	}
	if options.store != nil {
		cascadeOpts = append(cascadeOpts, classification.WithOverrides(options.store))
	}

	clusterOpts := clustering.OptionsFromConfig(cfg)
	engine, err := clustering.NewEngine(clusterOpts, logger)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:          cfg,
		index:        index,
		cascade:      classification.NewFromConfig(cfg, index, cascadeOpts...),
		engine:       engine,
		builder:      fusion.NewBuilder(fusion.OptionsFromConfig(cfg), logger),
		store:        options.store,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		clusterOpts:  clusterOpts,
		proposalOpts: proposal.OptionsFromConfig(cfg),
	}, nil
}

// Index returns the taxonomy the manager classifies against.
func (m *Manager) Index() *taxonomy.Index { return m.index }

// Cascade returns the configured classification cascade.
func (m *Manager) Cascade() *classification.Cascade { return m.cascade }
