package fusion

import (
	"fmt"

	"samplesort/internal/services"
)

// Strategy says how source folders are combined.
type Strategy string

const (
	// StrategyMerge moves files from distinct packs into one folder.
	StrategyMerge Strategy = "merge"
	// StrategyMergePrefixed prefixes file names with the source folder when
	// one pack contributes more than one folder.
	StrategyMergePrefixed Strategy = "merge-prefixed"
)

// ConflictPolicy says what happens when two sources hold the same file name.
type ConflictPolicy string

const (
	ConflictRename ConflictPolicy = "rename"
	ConflictReview ConflictPolicy = "review"
)

// UnsortedFamily is the target family segment for unclassified sources.
const UnsortedFamily = "_Unsorted"

// Source is one folder contributing to a group.
type Source struct {
	PackID       string `json:"pack_id"`
	PackName     string `json:"pack_name"`
	FolderID     string `json:"folder_id"`
	OriginalPath string `json:"original_path"`
	FileCount    int    `json:"file_count"`
	SizeBytes    int64  `json:"size_bytes"`
	Family       string `json:"family,omitempty"`
}

// Stats aggregates the sources of a group.
type Stats struct {
	TotalFiles    int   `json:"total_files"`
	TotalSize     int64 `json:"total_size"`
	DistinctPacks int   `json:"distinct_packs"`
}

// Group is a planned merge of similar folders.
type Group struct {
	ID                string         `json:"id"`
	ClusterID         string         `json:"cluster_id"`
	CanonicalName     string         `json:"canonical_name"`
	Family            string         `json:"family"`
	Style             string         `json:"style"`
	TargetPath        string         `json:"target_path"`
	Sources           []Source       `json:"sources"`
	Strategy          Strategy       `json:"strategy"`
	ConflictPolicy    ConflictPolicy `json:"conflict_policy"`
	ExpectedFileCount int            `json:"expected_file_count"`
	Stats             Stats          `json:"stats"`
	Cohesion          float64        `json:"cohesion"`
	Confidence        float64        `json:"confidence"`
	Warnings          []string       `json:"warnings,omitempty"`
}

// VerifyMerge compares the file count observed after a merge with the count
// the group expected.
func VerifyMerge(group Group, observed int) error {
	if observed == group.ExpectedFileCount {
		return nil
	}
	return services.Wrap(services.ErrValidation, "fusion", "verify merge",
		fmt.Sprintf("group %s: expected %d files, found %d", group.CanonicalName, group.ExpectedFileCount, observed), nil)
}
