package clustering

import "fmt"

const (
	splitMinSimilarity = 0.6
	mergeCrossAverage  = 0.7
)

// IssueKind names a suggested correction.
type IssueKind string

const (
	IssueSplit IssueKind = "split"
	IssueMerge IssueKind = "merge"
)

// Issue is a validation finding for a cluster, or a pair of clusters for
// merge suggestions.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	ClusterID string    `json:"cluster_id"`
	OtherID   string    `json:"other_id,omitempty"`
	Detail    string    `json:"detail"`
}

// Validate flags loose clusters, oversized clusters, and cluster pairs that
// are still close to each other.
func Validate(clusters []Cluster, m *Matrix, opts Options) []Issue {
	var issues []Issue
	for _, c := range clusters {
		if c.Stats.Size > 1 && c.Stats.MinSimilarity < splitMinSimilarity {
			issues = append(issues, Issue{
				Kind:      IssueSplit,
				ClusterID: c.ID,
				Detail:    fmt.Sprintf("minimum similarity %.2f below %.2f", c.Stats.MinSimilarity, splitMinSimilarity),
			})
		}
		if opts.MaxClusterSize > 0 && c.Stats.Size > opts.MaxClusterSize {
			issues = append(issues, Issue{
				Kind:      IssueSplit,
				ClusterID: c.ID,
				Detail:    fmt.Sprintf("%d members exceed the limit of %d", c.Stats.Size, opts.MaxClusterSize),
			})
		}
	}
	if m == nil {
		return issues
	}
	for a := 0; a < len(clusters); a++ {
		for b := a + 1; b < len(clusters); b++ {
			avg := m.average(memberIndices(clusters[a], m), memberIndices(clusters[b], m))
			if avg > mergeCrossAverage {
				issues = append(issues, Issue{
					Kind:      IssueMerge,
					ClusterID: clusters[a].ID,
					OtherID:   clusters[b].ID,
					Detail:    fmt.Sprintf("average cross similarity %.2f above %.2f", avg, mergeCrossAverage),
				})
			}
		}
	}
	return issues
}

func memberIndices(c Cluster, m *Matrix) []int {
	if c.indices != nil {
		return c.indices
	}
	out := make([]int, 0, len(c.Members))
	for _, f := range c.Members {
		if i, ok := m.Index(f.ID); ok {
			out = append(out, i)
		}
	}
	return out
}
