package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"samplesort/internal/pack"
)

// PackOption customizes a fixture pack.
type PackOption func(*pack.Pack)

// NewPack builds a pack fixture rooted under /library.
func NewPack(id, name string, opts ...PackOption) pack.Pack {
	p := pack.Pack{
		ID:    id,
		Name:  name,
		Path:  filepath.Join("/library", name),
		Files: pack.FileCounts{Audio: 10, Total: 10},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithTags sets the pack tags.
func WithTags(tags ...string) PackOption {
	return func(p *pack.Pack) { p.Tags = tags }
}

// WithHints sets pre-extracted taxonomy hints.
func WithHints(hints ...string) PackOption {
	return func(p *pack.Pack) { p.TaxonomyHints = hints }
}

// WithFiles sets the audio and total file counts.
func WithFiles(audio int) PackOption {
	return func(p *pack.Pack) { p.Files = pack.FileCounts{Audio: audio, Total: audio} }
}

// WithFolders adds internal folders, each holding files audio files.
func WithFolders(files int, names ...string) PackOption {
	return func(p *pack.Pack) {
		if p.Structure == nil {
			p.Structure = &pack.InternalStructure{}
		}
		for _, name := range names {
			p.Structure.Folders = append(p.Structure.Folders, pack.Folder{
				Name:      name,
				Path:      filepath.Join(p.Path, name),
				Depth:     1,
				FileCount: files,
				SizeBytes: int64(files) * 1024,
			})
		}
		p.Structure.Depth = 1
	}
}

// WithTypeBuckets sets the structural type buckets.
func WithTypeBuckets(buckets map[string]int) PackOption {
	return func(p *pack.Pack) {
		if p.Structure == nil {
			p.Structure = &pack.InternalStructure{}
		}
		p.Structure.TypeBuckets = buckets
	}
}

// WithBundle places the pack inside a bundle.
func WithBundle(name string, keywords ...string) PackOption {
	return func(p *pack.Pack) {
		p.Bundle = &pack.BundleInfo{Name: name, Path: filepath.Join("/bundles", name), Keywords: keywords}
	}
}

// WithFlags sets the loop / one-shot / preset flags.
func WithFlags(loops, oneShots, presets bool) PackOption {
	return func(p *pack.Pack) {
		p.HasLoops, p.HasOneShots, p.HasPresets = loops, oneShots, presets
	}
}

// WritePacks encodes packs as a JSON array in a temp file and returns its path.
func WritePacks(t testing.TB, packs []pack.Pack) string {
	t.Helper()
	data, err := json.MarshalIndent(packs, "", "  ")
	if err != nil {
		t.Fatalf("encode packs: %v", err)
	}
	path := filepath.Join(t.TempDir(), "packs.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write packs: %v", err)
	}
	return path
}
