package clustering

import (
	"fmt"
	"strings"

	"samplesort/internal/services"
)

const (
	StrategyHierarchical = "hierarchical"
	StrategyDensity      = "density"
	StrategyAdaptive     = "adaptive"
)

// Strategy partitions matrix indices into groups. Every index appears in
// exactly one group.
type Strategy interface {
	Name() string
	Group(m *Matrix, opts Options) [][]int
}

// StrategyFor resolves a configured strategy name.
func StrategyFor(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyHierarchical:
		return Hierarchical{}, nil
	case StrategyDensity:
		return Density{}, nil
	case StrategyAdaptive, "":
		return Adaptive{}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "cluster", "strategy", fmt.Sprintf("unknown strategy %q", name), nil)
	}
}

// Hierarchical is average-linkage agglomerative clustering.
type Hierarchical struct{}

func (Hierarchical) Name() string { return StrategyHierarchical }

func (Hierarchical) Group(m *Matrix, opts Options) [][]int {
	n := m.Len()
	groups := make([][]int, n)
	for i := range groups {
		groups[i] = []int{i}
	}
	// sums[a][b] holds the total pairwise similarity between live groups a
	// and b so each merge updates linkage in linear time.
	sums := make([][]float64, n)
	for i := range sums {
		sums[i] = make([]float64, n)
		for j := range sums[i] {
			if i != j {
				sums[i][j] = m.At(i, j)
			}
		}
	}
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	for {
		bestA, bestB, best := -1, -1, -1.0
		for a := 0; a < n; a++ {
			if !alive[a] {
				continue
			}
			for b := a + 1; b < n; b++ {
				if !alive[b] {
					continue
				}
				avg := sums[a][b] / float64(len(groups[a])*len(groups[b]))
				if avg > best {
					bestA, bestB, best = a, b, avg
				}
			}
		}
		if bestA < 0 || best < opts.SimilarityThreshold {
			break
		}
		groups[bestA] = append(groups[bestA], groups[bestB]...)
		groups[bestB] = nil
		alive[bestB] = false
		for c := 0; c < n; c++ {
			if !alive[c] || c == bestA {
				continue
			}
			sums[bestA][c] += sums[bestB][c]
			sums[c][bestA] = sums[bestA][c]
		}
	}

	out := make([][]int, 0, n)
	for i, g := range groups {
		if alive[i] {
			out = append(out, sortedInts(g))
		}
	}
	return out
}

// Density grows clusters from core folders. A folder is core when at least
// MinPts other folders sit at or above the similarity threshold; folders
// reached from no core folder stay singletons.
type Density struct{}

func (Density) Name() string { return StrategyDensity }

func (Density) Group(m *Matrix, opts Options) [][]int {
	n := m.Len()
	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && m.At(i, j) >= opts.SimilarityThreshold {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}
	minPts := max(opts.MinPts, 1)
	isCore := func(i int) bool { return len(neighbors[i]) >= minPts }

	assigned := make([]int, n)
	for i := range assigned {
		assigned[i] = -1
	}
	var out [][]int
	for seed := 0; seed < n; seed++ {
		if assigned[seed] >= 0 || !isCore(seed) {
			continue
		}
		id := len(out)
		members := []int{seed}
		assigned[seed] = id
		queue := []int{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if !isCore(cur) {
				continue
			}
			for _, nb := range neighbors[cur] {
				if assigned[nb] >= 0 {
					continue
				}
				assigned[nb] = id
				members = append(members, nb)
				queue = append(queue, nb)
			}
		}
		out = append(out, sortedInts(members))
	}
	for i := 0; i < n; i++ {
		if assigned[i] < 0 {
			out = append(out, []int{i})
		}
	}
	return out
}

// Adaptive picks hierarchical below HierarchicalLimit folders and density
// above it.
type Adaptive struct{}

func (Adaptive) Name() string { return StrategyAdaptive }

func (a Adaptive) Group(m *Matrix, opts Options) [][]int {
	return a.pick(m.Len(), opts).Group(m, opts)
}

func (Adaptive) pick(n int, opts Options) Strategy {
	if n < opts.HierarchicalLimit {
		return Hierarchical{}
	}
	return Density{}
}

// postMerge joins groups whose average cross similarity reaches the merge
// threshold, best pair first, until no pair qualifies.
func postMerge(m *Matrix, groups [][]int, threshold float64) [][]int {
	for {
		bestA, bestB, best := -1, -1, -1.0
		for a := 0; a < len(groups); a++ {
			for b := a + 1; b < len(groups); b++ {
				avg := m.average(groups[a], groups[b])
				if avg > best {
					bestA, bestB, best = a, b, avg
				}
			}
		}
		if bestA < 0 || best < threshold {
			return groups
		}
		groups[bestA] = sortedInts(append(groups[bestA], groups[bestB]...))
		groups = append(groups[:bestB], groups[bestB+1:]...)
	}
}
