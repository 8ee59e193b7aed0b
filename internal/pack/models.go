package pack

import (
	"path"
	"strconv"
	"strings"
)

// FileCounts holds aggregate file counts for a pack.
type FileCounts struct {
	Audio  int `json:"audio"`
	Preset int `json:"preset"`
	Total  int `json:"total"`
}

// Folder is a sub-folder detected inside a pack.
type Folder struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	FileCount int    `json:"file_count"`
	SizeBytes int64  `json:"size_bytes"`
}

// InternalStructure describes the folder layout detected inside a pack.
type InternalStructure struct {
	Folders      []Folder       `json:"folders"`
	TypeBuckets  map[string]int `json:"type_buckets"`
	Formats      []string       `json:"formats"`
	Depth        int            `json:"depth"`
	Organization string         `json:"organization"`
}

// FolderNames returns the detected sub-folder names in declaration order.
func (s *InternalStructure) FolderNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Folders))
	for _, f := range s.Folders {
		if name := strings.TrimSpace(f.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// BundleInfo links a pack to the bundle it shipped in.
type BundleInfo struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Siblings []string `json:"siblings"`
	Keywords []string `json:"keywords"`
}

// Key returns the identity used to group packs of the same bundle.
func (b *BundleInfo) Key() string {
	if b == nil {
		return ""
	}
	if p := strings.TrimSpace(b.Path); p != "" {
		return path.Clean(p)
	}
	return strings.ToLower(strings.TrimSpace(b.Name))
}

// Pack is a discrete content collection awaiting classification.
type Pack struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Path          string             `json:"path"`
	Files         FileCounts         `json:"files"`
	SizeBytes     int64              `json:"size_bytes"`
	AverageBPM    *float64           `json:"average_bpm,omitempty"`
	Tags          []string           `json:"tags"`
	TaxonomyHints []string           `json:"taxonomy_hints,omitempty"`
	HasLoops      bool               `json:"has_loops"`
	HasOneShots   bool               `json:"has_one_shots"`
	HasPresets    bool               `json:"has_presets"`
	Structure     *InternalStructure `json:"structure,omitempty"`
	Bundle        *BundleInfo        `json:"bundle,omitempty"`
}

// DisplayName returns the pack name, falling back to the last path element.
func (p Pack) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if p.Path != "" {
		return path.Base(p.Path)
	}
	return p.ID
}

// TotalFiles returns the total file count, deriving it from the audio and
// preset counts when upstream left it empty.
func (p Pack) TotalFiles() int {
	if p.Files.Total > 0 {
		return p.Files.Total
	}
	return p.Files.Audio + p.Files.Preset
}

// FolderPath is a single internal folder considered for clustering.
type FolderPath struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	PackID    string `json:"pack_id"`
	FileCount int    `json:"file_count"`
	SizeBytes int64  `json:"size_bytes"`
	Depth     int    `json:"depth"`
	Parent    string `json:"parent,omitempty"`
}

// FolderPaths flattens the internal folders of every pack into clustering
// units. IDs are stable for a given input order.
func FolderPaths(packs []Pack) []FolderPath {
	var out []FolderPath
	for _, p := range packs {
		if p.Structure == nil {
			continue
		}
		for idx, f := range p.Structure.Folders {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				continue
			}
			folderPath := strings.TrimSpace(f.Path)
			if folderPath == "" {
				folderPath = path.Join(p.Path, name)
			}
			parent := path.Base(path.Dir(folderPath))
			if parent == "." || parent == "/" {
				parent = ""
			}
			out = append(out, FolderPath{
				ID:        folderID(p.ID, idx),
				Name:      name,
				Path:      folderPath,
				PackID:    p.ID,
				FileCount: f.FileCount,
				SizeBytes: f.SizeBytes,
				Depth:     f.Depth,
				Parent:    parent,
			})
		}
	}
	return out
}

func folderID(packID string, idx int) string {
	return packID + "#" + strconv.Itoa(idx)
}
