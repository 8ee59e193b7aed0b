package fusion

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"samplesort/internal/clustering"
	"samplesort/internal/config"
	"samplesort/internal/logging"
	"samplesort/internal/pack"
	"samplesort/internal/textutil"
)

var groupNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("samplesort/fusion"))

const (
	cohesionWeight  = 0.6
	agreementWeight = 0.4
	defaultStyle    = "General"
)

// Options gates promotion.
type Options struct {
	MinPacks    int
	CohesionBar float64
	LibraryRoot string
}

// OptionsFromConfig copies the fusion section and library root of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinPacks:    cfg.Fusion.MinPacks,
		CohesionBar: cfg.Fusion.CohesionBar,
		LibraryRoot: cfg.Paths.LibraryRoot,
	}
}

// Builder turns clusters into fusion groups.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder returns a builder using opts.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	return &Builder{opts: opts, logger: logging.NewComponentLogger(logger, "fusion")}
}

// Promotable reports whether a cluster qualifies for fusion.
func (b *Builder) Promotable(c clustering.Cluster) bool {
	if len(c.PackIDs()) >= max(b.opts.MinPacks, 1) && len(c.Members) > 1 {
		return true
	}
	return len(c.Members) > 1 && c.Stats.Cohesion > b.opts.CohesionBar
}

// Build promotes qualifying clusters. packs supplies display names and
// classifications maps pack IDs to their accepted classification; either may
// be incomplete.
func (b *Builder) Build(clusters []clustering.Cluster, packs []pack.Pack, classifications map[string]*pack.Classification) []Group {
	names := make(map[string]string, len(packs))
	for _, p := range packs {
		names[p.ID] = p.DisplayName()
	}
	var groups []Group
	for _, c := range clusters {
		if !b.Promotable(c) {
			continue
		}
		groups = append(groups, b.buildGroup(c, names, classifications))
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].ExpectedFileCount != groups[j].ExpectedFileCount {
			return groups[i].ExpectedFileCount > groups[j].ExpectedFileCount
		}
		return groups[i].CanonicalName < groups[j].CanonicalName
	})
	b.logger.Info("fusion groups built",
		logging.String(logging.FieldEventType, "fusion_completed"),
		logging.Int("clusters", len(clusters)),
		logging.Int("groups", len(groups)),
	)
	return groups
}

func (b *Builder) buildGroup(c clustering.Cluster, names map[string]string, classifications map[string]*pack.Classification) Group {
	g := Group{
		ID:            uuid.NewSHA1(groupNamespace, []byte(c.ID)).String(),
		ClusterID:     c.ID,
		CanonicalName: c.CanonicalName,
		Cohesion:      c.Stats.Cohesion,
	}
	perPack := make(map[string]int)
	for _, m := range c.Members {
		src := Source{
			PackID:       m.PackID,
			PackName:     names[m.PackID],
			FolderID:     m.ID,
			OriginalPath: m.Path,
			FileCount:    m.FileCount,
			SizeBytes:    m.SizeBytes,
		}
		if cls := classifications[m.PackID]; !cls.IsZero() {
			src.Family = cls.Family
		}
		perPack[m.PackID]++
		g.Sources = append(g.Sources, src)
		g.ExpectedFileCount += m.FileCount
		g.Stats.TotalFiles += m.FileCount
		g.Stats.TotalSize += m.SizeBytes
	}
	g.Stats.DistinctPacks = len(perPack)

	g.Strategy = StrategyMerge
	for _, n := range perPack {
		if n > 1 {
			g.Strategy = StrategyMergePrefixed
			break
		}
	}

	family, agreement, votes := majorityFamily(c.PackIDs(), classifications)
	g.Family = family
	g.Style = majorityStyle(c.PackIDs(), classifications, family)
	g.ConflictPolicy = ConflictRename
	if len(votes) > 1 {
		g.ConflictPolicy = ConflictReview
		g.Warnings = append(g.Warnings, "contributing packs disagree on family: "+formatVotes(votes))
	}
	g.Confidence = pack.ClampConfidence(cohesionWeight*g.Cohesion + agreementWeight*agreement)

	familySeg := UnsortedFamily
	if family != "" {
		familySeg = textutil.SanitizeSegment(family, UnsortedFamily)
	}
	g.TargetPath = filepath.Join(
		b.opts.LibraryRoot,
		familySeg,
		textutil.SanitizeSegment(g.Style, defaultStyle),
		textutil.SanitizeSegment(g.CanonicalName, "Untitled"),
	)
	return g
}

type vote struct {
	family string
	count  int
}

// majorityFamily returns the most common family among packIDs, the fraction
// of packs agreeing with it, and every family vote.
func majorityFamily(packIDs []string, classifications map[string]*pack.Classification) (string, float64, []vote) {
	counts := make(map[string]int)
	for _, id := range packIDs {
		if cls := classifications[id]; !cls.IsZero() {
			counts[cls.Family]++
		}
	}
	if len(counts) == 0 || len(packIDs) == 0 {
		return "", 0, nil
	}
	votes := make([]vote, 0, len(counts))
	for family, n := range counts {
		votes = append(votes, vote{family: family, count: n})
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].count != votes[j].count {
			return votes[i].count > votes[j].count
		}
		return votes[i].family < votes[j].family
	})
	return votes[0].family, float64(votes[0].count) / float64(len(packIDs)), votes
}

func majorityStyle(packIDs []string, classifications map[string]*pack.Classification, family string) string {
	if family == "" {
		return ""
	}
	counts := make(map[string]int)
	for _, id := range packIDs {
		cls := classifications[id]
		if cls.IsZero() || cls.Family != family || strings.TrimSpace(cls.Style) == "" {
			continue
		}
		counts[cls.Style]++
	}
	best, bestN := "", 0
	for style, n := range counts {
		if n > bestN || (n == bestN && style < best) {
			best, bestN = style, n
		}
	}
	return best
}

func formatVotes(votes []vote) string {
	parts := make([]string, len(votes))
	for i, v := range votes {
		parts[i] = fmt.Sprintf("%s (%d)", v.family, v.count)
	}
	return strings.Join(parts, ", ")
}
