package proposal

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"samplesort/internal/config"
	"samplesort/internal/fusion"
	"samplesort/internal/matrix"
	"samplesort/internal/services"
)

// Kind identifies how a proposal orders the axes.
type Kind string

const (
	KindTaxonomic   Kind = "taxonomic"
	KindTypeFirst   Kind = "type-first"
	KindAdaptive    Kind = "adaptive"
	KindFusionAware Kind = "fusion-aware"
)

// largeCollection is the pack count at which the adaptive layout earns full
// compatibility.
const largeCollection = 20

// Proposal is one scored folder layout.
type Proposal struct {
	Kind             Kind          `json:"kind"`
	Axes             []matrix.Axis `json:"axes"`
	Preview          *Node         `json:"preview"`
	EstimatedFolders int           `json:"estimated_folders"`
	Balance          float64       `json:"balance"`
	Compatibility    float64       `json:"compatibility"`
	Simplicity       float64       `json:"simplicity"`
	Score            float64       `json:"score"`
	Recommended      bool          `json:"recommended"`
	Rationale        string        `json:"rationale"`
	Advantages       []string      `json:"advantages"`
	Disadvantages    []string      `json:"disadvantages"`
}

// Levels renders the axis order as "family / type / style".
func (p Proposal) Levels() string {
	parts := make([]string, len(p.Axes))
	for i, a := range p.Axes {
		parts[i] = string(a)
	}
	return strings.Join(parts, " / ")
}

// Options weighs and bounds the generated proposals.
type Options struct {
	MaxProposals        int
	BalanceWeight       float64
	CompatibilityWeight float64
	SimplicityWeight    float64
	FusionGroups        []fusion.Group
}

// OptionsFromConfig copies the proposals section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	p := cfg.Proposals
	return Options{
		MaxProposals:        p.MaxProposals,
		BalanceWeight:       p.BalanceWeight,
		CompatibilityWeight: p.CompatibilityWeight,
		SimplicityWeight:    p.SimplicityWeight,
	}
}

type candidate struct {
	kind      Kind
	axes      []matrix.Axis
	compat    float64
	rationale string
}

// Generate builds, scores and ranks proposals for m. An empty matrix is a
// validation error.
func Generate(m *matrix.Matrix, opts Options) ([]Proposal, error) {
	if m.Empty() {
		return nil, services.Wrap(services.ErrValidation, "proposals", "generate", "matrix has no classified packs", nil)
	}
	candidates := []candidate{
		{
			kind:      KindTaxonomic,
			axes:      []matrix.Axis{matrix.AxisFamily, matrix.AxisStyle, matrix.AxisType},
			compat:    taxonomyFraction(m),
			rationale: "mirrors the genre taxonomy",
		},
		{
			kind:      KindTypeFirst,
			axes:      []matrix.Axis{matrix.AxisType, matrix.AxisFamily, matrix.AxisStyle},
			compat:    typeDiversity(m),
			rationale: "groups by content type before genre",
		},
	}
	if len(opts.FusionGroups) > 0 {
		candidates = append(candidates, candidate{
			kind:      KindFusionAware,
			axes:      []matrix.Axis{matrix.AxisFamily, matrix.AxisType},
			compat:    fusionCoverage(m, opts.FusionGroups),
			rationale: fmt.Sprintf("keeps %d fusion groups together", len(opts.FusionGroups)),
		})
	}
	adaptiveAxes := adaptiveOrder(m)
	if !hasAxes(candidates, adaptiveAxes) {
		candidates = append(candidates, candidate{
			kind:      KindAdaptive,
			axes:      adaptiveAxes,
			compat:    collectionSize(m),
			rationale: "orders levels by how evenly they split the files",
		})
	}

	proposals := make([]Proposal, 0, len(candidates))
	for _, c := range candidates {
		tree := buildTree("", m.Entries, c.axes)
		p := Proposal{
			Kind:             c.kind,
			Axes:             c.axes,
			Preview:          tree,
			EstimatedFolders: countFolders(tree),
			Balance:          balance(tree),
			Compatibility:    c.compat,
			Simplicity:       simplicity(len(c.axes)),
			Rationale:        c.rationale,
		}
		p.Advantages, p.Disadvantages = tradeoffs(c.kind)
		p.Score = opts.BalanceWeight*p.Balance + opts.CompatibilityWeight*p.Compatibility + opts.SimplicityWeight*p.Simplicity
		proposals = append(proposals, p)
	}

	// Candidate order breaks score ties.
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Score > proposals[j].Score
	})
	if opts.MaxProposals > 0 && len(proposals) > opts.MaxProposals {
		proposals = proposals[:opts.MaxProposals]
	}
	proposals[0].Recommended = true
	return proposals, nil
}

// tradeoffs returns the fixed advantage and disadvantage notes of a layout kind.
func tradeoffs(kind Kind) (advantages, disadvantages []string) {
	switch kind {
	case KindTaxonomic:
		return []string{"matches how genre libraries are browsed", "stable as new packs arrive"},
			[]string{"splits one sound type across many genre folders"}
	case KindTypeFirst:
		return []string{"finds a sound type in one place", "suits sound design across genres"},
			[]string{"genre context sits two levels deep"}
	case KindAdaptive:
		return []string{"follows how this collection actually splits"},
			[]string{"level order can change as the collection grows"}
	case KindFusionAware:
		return []string{"keeps merged folders from several packs together", "fewer, larger folders"},
			[]string{"drops the style level"}
	}
	return nil, nil
}

func hasAxes(candidates []candidate, axes []matrix.Axis) bool {
	for _, c := range candidates {
		if equalAxes(c.axes, axes) {
			return true
		}
	}
	return false
}

func equalAxes(a, b []matrix.Axis) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func simplicity(levels int) float64 {
	switch {
	case levels == 2 || levels == 3:
		return 1
	case levels <= 1:
		return 0.6
	default:
		return 0.5
	}
}

// adaptiveOrder sorts axes by ascending variance of per-value file totals
// and drops trailing single-valued axes while keeping at least two levels.
// Single-valued axes never split anything, so they sort last.
func adaptiveOrder(m *matrix.Matrix) []matrix.Axis {
	axes := []matrix.Axis{matrix.AxisFamily, matrix.AxisType, matrix.AxisStyle}
	variance := make(map[matrix.Axis]float64, len(axes))
	single := make(map[matrix.Axis]bool, len(axes))
	for _, a := range axes {
		variance[a] = axisVariance(m, a)
		single[a] = len(m.Values(a)) <= 1
	}
	sort.SliceStable(axes, func(i, j int) bool {
		if single[axes[i]] != single[axes[j]] {
			return !single[axes[i]]
		}
		return variance[axes[i]] < variance[axes[j]]
	})
	for len(axes) > 2 && single[axes[len(axes)-1]] {
		axes = axes[:len(axes)-1]
	}
	return axes
}

func axisVariance(m *matrix.Matrix, axis matrix.Axis) float64 {
	totals := make(map[string]float64)
	for _, e := range m.Entries {
		totals[e.Value(axis)] += float64(e.TotalFiles)
	}
	var mean float64
	for _, v := range totals {
		mean += v
	}
	mean /= float64(len(totals))
	var sq float64
	for _, v := range totals {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(totals))
}

func taxonomyFraction(m *matrix.Matrix) float64 {
	if m.TotalFiles == 0 {
		return 0
	}
	files := 0
	for _, e := range m.Entries {
		if e.TaxonomySourced {
			files += e.TotalFiles
		}
	}
	return float64(files) / float64(m.TotalFiles)
}

func typeDiversity(m *matrix.Matrix) float64 {
	types := len(m.Values(matrix.AxisType))
	families := len(m.Values(matrix.AxisFamily))
	return float64(types) / float64(types+families)
}

func collectionSize(m *matrix.Matrix) float64 {
	return math.Min(1, 0.5+0.5*float64(m.PackCount)/largeCollection)
}

func fusionCoverage(m *matrix.Matrix, groups []fusion.Group) float64 {
	if m.TotalFiles == 0 {
		return 0
	}
	files := 0
	for _, g := range groups {
		files += g.ExpectedFileCount
	}
	return math.Min(1, float64(files)/float64(m.TotalFiles))
}
