package clustering

import (
	"math"
	"sort"
)

// Stats describes the internal similarity of a cluster.
type Stats struct {
	Size          int     `json:"size"`
	AvgSimilarity float64 `json:"avg_similarity"`
	MinSimilarity float64 `json:"min_similarity"`
	MaxSimilarity float64 `json:"max_similarity"`
	Variance      float64 `json:"variance"`
	Cohesion      float64 `json:"cohesion"`
	PackCount     int     `json:"pack_count"`
	FileCount     int     `json:"file_count"`
	SizeBytes     int64   `json:"size_bytes"`
}

// similarityStats computes pairwise statistics over members. A singleton is
// perfectly similar to itself.
func similarityStats(m *Matrix, members []int) Stats {
	st := Stats{Size: len(members)}
	if len(members) < 2 {
		st.AvgSimilarity, st.MinSimilarity, st.MaxSimilarity, st.Cohesion = 1, 1, 1, 1
		return st
	}
	var (
		sum   float64
		count int
	)
	st.MinSimilarity = math.Inf(1)
	st.MaxSimilarity = math.Inf(-1)
	for x := 0; x < len(members); x++ {
		for y := x + 1; y < len(members); y++ {
			s := m.At(members[x], members[y])
			sum += s
			count++
			st.MinSimilarity = math.Min(st.MinSimilarity, s)
			st.MaxSimilarity = math.Max(st.MaxSimilarity, s)
		}
	}
	st.AvgSimilarity = sum / float64(count)
	var sq float64
	for x := 0; x < len(members); x++ {
		for y := x + 1; y < len(members); y++ {
			d := m.At(members[x], members[y]) - st.AvgSimilarity
			sq += d * d
		}
	}
	st.Variance = sq / float64(count)
	st.Cohesion = st.AvgSimilarity * (1 - math.Sqrt(st.Variance))
	return st
}

func sortedInts(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	return out
}
