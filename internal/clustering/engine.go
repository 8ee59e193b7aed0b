package clustering

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"samplesort/internal/config"
	"samplesort/internal/logging"
	"samplesort/internal/pack"
)

// clusterNamespace seeds the name-based cluster IDs.
var clusterNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("samplesort/cluster"))

// Options tunes clustering.
type Options struct {
	Strategy            string
	SimilarityThreshold float64
	MergeThreshold      float64
	MinClusterSize      int
	MaxClusterSize      int
	MinPts              int
	HierarchicalLimit   int
	Workers             int
}

// OptionsFromConfig copies the clustering section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	c := cfg.Clustering
	return Options{
		Strategy:            c.Strategy,
		SimilarityThreshold: c.SimilarityThreshold,
		MergeThreshold:      c.MergeThreshold,
		MinClusterSize:      c.MinClusterSize,
		MaxClusterSize:      c.MaxClusterSize,
		MinPts:              c.MinPts,
		HierarchicalLimit:   c.HierarchicalLimit,
		Workers:             c.Workers,
	}
}

// Cluster is a group of folders holding the same kind of content.
// Similarities is the member-by-member slice of the run matrix in Members
// order.
type Cluster struct {
	ID            string            `json:"id"`
	CanonicalName string            `json:"canonical_name"`
	Members       []pack.FolderPath `json:"members"`
	Stats         Stats             `json:"stats"`
	Similarities  [][]float64       `json:"similarities"`
	indices       []int
}

// PackIDs returns the distinct contributing pack IDs in sorted order.
func (c Cluster) PackIDs() []string {
	seen := make(map[string]struct{}, len(c.Members))
	var out []string
	for _, m := range c.Members {
		if _, ok := seen[m.PackID]; ok {
			continue
		}
		seen[m.PackID] = struct{}{}
		out = append(out, m.PackID)
	}
	sort.Strings(out)
	return out
}

// Result is the output of one clustering run.
type Result struct {
	Strategy string    `json:"strategy"`
	Clusters []Cluster `json:"clusters"`
	Matrix   *Matrix   `json:"-"`
}

// Engine clusters folders with a fixed strategy.
type Engine struct {
	opts     Options
	strategy Strategy
	logger   *slog.Logger
}

// NewEngine resolves the strategy named in opts.
func NewEngine(opts Options, logger *slog.Logger) (*Engine, error) {
	strategy, err := StrategyFor(opts.Strategy)
	if err != nil {
		return nil, err
	}
	return &Engine{
		opts:     opts,
		strategy: strategy,
		logger:   logging.NewComponentLogger(logger, "clustering"),
	}, nil
}

// Cluster groups folders. Empty input yields an empty result.
func (e *Engine) Cluster(ctx context.Context, folders []pack.FolderPath) (*Result, error) {
	res := &Result{Strategy: e.strategyName(len(folders))}
	if len(folders) == 0 {
		return res, nil
	}
	m, err := BuildMatrix(ctx, folders, e.opts.Workers)
	if err != nil {
		return nil, err
	}
	res.Matrix = m

	groups := e.strategy.Group(m, e.opts)
	groups = postMerge(m, groups, e.opts.MergeThreshold)

	dropped := 0
	for _, g := range groups {
		if len(g) < max(e.opts.MinClusterSize, 1) {
			dropped++
			continue
		}
		res.Clusters = append(res.Clusters, buildCluster(m, folders, g))
	}
	sort.SliceStable(res.Clusters, func(i, j int) bool {
		a, b := res.Clusters[i], res.Clusters[j]
		if a.Stats.Size != b.Stats.Size {
			return a.Stats.Size > b.Stats.Size
		}
		if a.CanonicalName != b.CanonicalName {
			return a.CanonicalName < b.CanonicalName
		}
		return a.ID < b.ID
	})

	e.logger.Info("folders clustered",
		logging.String(logging.FieldEventType, "clustering_completed"),
		logging.String("strategy", res.Strategy),
		logging.Int("folders", len(folders)),
		logging.Int("clusters", len(res.Clusters)),
		logging.Int("dropped_small", dropped),
	)
	return res, nil
}

func (e *Engine) strategyName(n int) string {
	if a, ok := e.strategy.(Adaptive); ok {
		return StrategyAdaptive + "/" + a.pick(n, e.opts).Name()
	}
	return e.strategy.Name()
}

func buildCluster(m *Matrix, folders []pack.FolderPath, members []int) Cluster {
	c := Cluster{indices: members}
	names := make([]string, 0, len(members))
	ids := make([]string, 0, len(members))
	packs := make(map[string]struct{})
	for _, idx := range members {
		f := folders[idx]
		c.Members = append(c.Members, f)
		names = append(names, f.Name)
		ids = append(ids, f.ID)
		packs[f.PackID] = struct{}{}
	}
	c.Similarities = subMatrix(m, members)
	c.Stats = similarityStats(m, members)
	c.Stats.PackCount = len(packs)
	for _, f := range c.Members {
		c.Stats.FileCount += f.FileCount
		c.Stats.SizeBytes += f.SizeBytes
	}
	c.CanonicalName = canonicalName(names)
	sort.Strings(ids)
	c.ID = uuid.NewSHA1(clusterNamespace, []byte(strings.Join(ids, "\n"))).String()
	return c
}

func subMatrix(m *Matrix, members []int) [][]float64 {
	out := make([][]float64, len(members))
	for i, a := range members {
		row := make([]float64, len(members))
		for j, b := range members {
			row[j] = m.At(a, b)
		}
		out[i] = row
	}
	return out
}
