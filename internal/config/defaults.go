package config

const (
	defaultConfigPath   = "~/.config/samplesort/config.toml"
	defaultLibraryRoot  = "~/Samples"
	defaultStateDir     = "~/.local/share/samplesort"
	defaultReviewDBName = "review.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	defaultConfidenceThreshold        = 0.6
	defaultSkipConfidenceThreshold    = 0.9
	defaultBundleInheritanceThreshold = 0.70
	defaultFastPassWeight             = 0.9
	defaultMinTaxonomicScore          = 0.3
	defaultKeywordFallbackPenalty     = 0.85

	defaultAIBaseURL               = "https://openrouter.ai/api/v1/chat/completions"
	defaultAIModel                 = "google/gemini-3-flash-preview"
	defaultAIReferer               = "https://github.com/samplesort/samplesort"
	defaultAITitle                 = "samplesort"
	defaultAITimeoutSeconds        = 60
	defaultAIBatchSize             = 10
	defaultAIBatchDelayMS          = 1000
	defaultAIMaxFailures           = 3
	defaultAIBreakerTimeoutSeconds = 60

	defaultClusteringStrategy  = "adaptive"
	defaultSimilarityThreshold = 0.75
	defaultMergeThreshold      = 0.85
	defaultMinClusterSize      = 1
	defaultMaxClusterSize      = 50
	defaultMinPts              = 2
	defaultHierarchicalLimit   = 50

	defaultFusionMinPacks    = 2
	defaultFusionCohesionBar = 0.9

	defaultMaxProposals        = 3
	defaultBalanceWeight       = 0.4
	defaultCompatibilityWeight = 0.4
	defaultSimplicityWeight    = 0.2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryRoot: defaultLibraryRoot,
			StateDir:    defaultStateDir,
		},
		Classification: Classification{
			ConfidenceThreshold:        defaultConfidenceThreshold,
			SkipConfidenceThreshold:    defaultSkipConfidenceThreshold,
			BundleInheritanceThreshold: defaultBundleInheritanceThreshold,
			FastPassWeight:             defaultFastPassWeight,
			MinTaxonomicScore:          defaultMinTaxonomicScore,
			KeywordFallbackPenalty:     defaultKeywordFallbackPenalty,
		},
		AI: AI{
			Enabled:               true,
			BaseURL:               defaultAIBaseURL,
			Model:                 defaultAIModel,
			Referer:               defaultAIReferer,
			Title:                 defaultAITitle,
			TimeoutSeconds:        defaultAITimeoutSeconds,
			BatchSize:             defaultAIBatchSize,
			BatchDelayMS:          defaultAIBatchDelayMS,
			MaxFailures:           defaultAIMaxFailures,
			BreakerTimeoutSeconds: defaultAIBreakerTimeoutSeconds,
		},
		Clustering: Clustering{
			Strategy:            defaultClusteringStrategy,
			SimilarityThreshold: defaultSimilarityThreshold,
			MergeThreshold:      defaultMergeThreshold,
			MinClusterSize:      defaultMinClusterSize,
			MaxClusterSize:      defaultMaxClusterSize,
			MinPts:              defaultMinPts,
			HierarchicalLimit:   defaultHierarchicalLimit,
		},
		Fusion: Fusion{
			MinPacks:    defaultFusionMinPacks,
			CohesionBar: defaultFusionCohesionBar,
		},
		Proposals: Proposals{
			MaxProposals:        defaultMaxProposals,
			BalanceWeight:       defaultBalanceWeight,
			CompatibilityWeight: defaultCompatibilityWeight,
			SimplicityWeight:    defaultSimplicityWeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
