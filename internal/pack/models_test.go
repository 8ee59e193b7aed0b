package pack

import "testing"

func TestFolderPathsFlattensStructure(t *testing.T) {
	packs := []Pack{
		{
			ID:   "p1",
			Path: "/library/Pack One",
			Structure: &InternalStructure{Folders: []Folder{
				{Name: "808_Subs", FileCount: 12},
				{Name: " ", FileCount: 3},
				{Name: "Kicks", Path: "/library/Pack One/Drums/Kicks", Depth: 2, FileCount: 20},
			}},
		},
		{ID: "p2", Path: "/library/Pack Two"},
	}

	got := FolderPaths(packs)
	if len(got) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(got))
	}
	if got[0].ID != "p1#0" || got[0].Path != "/library/Pack One/808_Subs" {
		t.Fatalf("unexpected first folder: %+v", got[0])
	}
	if got[0].Parent != "Pack One" {
		t.Fatalf("parent = %q, want Pack One", got[0].Parent)
	}
	if got[1].ID != "p1#2" || got[1].Parent != "Drums" || got[1].FileCount != 20 {
		t.Fatalf("unexpected second folder: %+v", got[1])
	}
}

func TestBundleKeyPrefersPath(t *testing.T) {
	tests := []struct {
		name   string
		bundle *BundleInfo
		want   string
	}{
		{"nil", nil, ""},
		{"path", &BundleInfo{Name: "Mega Bundle", Path: "/b/mega/"}, "/b/mega"},
		{"name only", &BundleInfo{Name: "  Mega Bundle "}, "mega bundle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bundle.Key(); got != tt.want {
				t.Fatalf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassificationCloneIsDeep(t *testing.T) {
	orig := &Classification{Family: "House", MatchedKeywords: []string{"house"}}
	cp := orig.Clone()
	cp.MatchedKeywords[0] = "techno"
	if orig.MatchedKeywords[0] != "house" {
		t.Fatal("clone shares keyword slice with original")
	}
	if orig.Label() != "House" {
		t.Fatalf("Label() = %q", orig.Label())
	}
}

func TestTotalFilesFallsBackToParts(t *testing.T) {
	p := Pack{Files: FileCounts{Audio: 10, Preset: 4}}
	if p.TotalFiles() != 14 {
		t.Fatalf("TotalFiles() = %d, want 14", p.TotalFiles())
	}
	p.Files.Total = 20
	if p.TotalFiles() != 20 {
		t.Fatalf("TotalFiles() = %d, want 20", p.TotalFiles())
	}
}
