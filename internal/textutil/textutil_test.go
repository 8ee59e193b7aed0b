package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestFolderTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"digit boundary", "808Subs_Wet", []string{"808", "sub", "wet"}},
		{"reversed", "Sub_808", []string{"sub", "808"}},
		{"camel case", "DrumLoops", []string{"drum", "loop"}},
		{"acronym prefix", "FXLoops", []string{"fx", "loop"}},
		{"abbreviation", "Vox Chops", []string{"vocal", "chop"}},
		{"plural abbreviation", "Percs", []string{"percussion"}},
		{"keeps double s", "Bass", []string{"bass"}},
		{"diacritics", "Café-Vox", []string{"cafe", "vocal"}},
		{"oneshot", "OneShots", []string{"one", "shot"}},
		{"empty", "  __ ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FolderTokens(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FolderTokens(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortedTokenKeyMatchesReorderedNames(t *testing.T) {
	if a, b := SortedTokenKey("808_Subs"), SortedTokenKey("Sub_808"); a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if got := SortedTokenKey("Kick Kicks"); got != "kick" {
		t.Fatalf("SortedTokenKey dedupe = %q", got)
	}
}

func TestNormalizeTextAndPhrase(t *testing.T) {
	text := NormalizeText("Hardstyle Kicks Vol.2")
	if text != " hardstyle kicks vol 2 " {
		t.Fatalf("NormalizeText = %q", text)
	}
	if !ContainsPhrase(text, "hardstyle") {
		t.Fatal("expected whole-word match")
	}
	if ContainsPhrase(text, "style") {
		t.Fatal("partial word must not match")
	}
	if !ContainsPhrase(NormalizeText("Deep-House Grooves"), NormalizePhrase("deep house")) {
		t.Fatal("expected phrase match across separators")
	}
	if ContainsPhrase(text, "") {
		t.Fatal("empty phrase must not match")
	}
}

func TestLevenshteinAndEditRatio(t *testing.T) {
	tests := []struct {
		a, b string
		dist int
	}{
		{"", "", 0},
		{"kick", "", 4},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.dist {
			t.Errorf("Levenshtein(%q,%q) = %d, want %d", tt.a, tt.b, got, tt.dist)
		}
	}
	if EditRatio("", "") != 1 {
		t.Fatal("empty strings should be identical")
	}
	if got := EditRatio("abcd", "wxyz"); got != 0 {
		t.Fatalf("EditRatio disjoint = %v", got)
	}
	if got := EditRatio("kitten", "sitting"); math.Abs(got-(1-3.0/7.0)) > 1e-9 {
		t.Fatalf("EditRatio = %v", got)
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("Drum Loops")},
		{"b nil", NewFingerprint("Drum Loops"), nil},
		{"zero norm", &Fingerprint{tokens: map[string]float64{}}, NewFingerprint("Drum Loops")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	same := CosineSimilarity(NewFingerprint("DrumLoops"), NewFingerprint("drum_loops"))
	if math.Abs(same-1) > 1e-9 {
		t.Fatalf("identical tokens = %v, want 1", same)
	}
	if got := CosineSimilarity(NewFingerprint("Kicks"), NewFingerprint("Pads")); got != 0 {
		t.Fatalf("disjoint = %v, want 0", got)
	}
	ab := CosineSimilarity(NewFingerprint("Drum Loops"), NewFingerprint("Drum Hits"))
	ba := CosineSimilarity(NewFingerprint("Drum Hits"), NewFingerprint("Drum Loops"))
	if ab <= 0 || ab >= 1 || ab != ba {
		t.Fatalf("partial overlap = %v / %v", ab, ba)
	}
}

func TestFingerprintNorm(t *testing.T) {
	fp := NewFingerprint("kick kick snare")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if math.Abs(fp.norm-math.Sqrt(5)) > 1e-9 {
		t.Fatalf("norm = %v, want sqrt(5)", fp.norm)
	}
	if fp.TokenCount() != 2 || !fp.Has("snare") {
		t.Fatalf("unexpected tokens: %v", fp.tokens)
	}
	if NewFingerprint("--") != nil {
		t.Fatal("expected nil fingerprint for empty tokens")
	}
}

func TestJaccard(t *testing.T) {
	if got := Jaccard(nil, nil); got != 1 {
		t.Fatalf("Jaccard(nil,nil) = %v", got)
	}
	if got := Jaccard(NewFingerprint("Kicks"), nil); got != 0 {
		t.Fatalf("Jaccard(x,nil) = %v", got)
	}
	if got := Jaccard(NewFingerprint("Drum Loops"), NewFingerprint("Drum Hits")); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Fatalf("Jaccard = %v, want 1/3", got)
	}
}

func TestNameShapeHelpers(t *testing.T) {
	if CountSeparators("Drum_Loops-Wet v2.1") != 4 {
		t.Fatal("CountSeparators miscounted")
	}
	if !HasDigit("Sub808") || HasDigit("Subs") {
		t.Fatal("HasDigit mismatch")
	}
	tests := map[string]bool{
		"DrumLoops": true,
		"drumLoops": true,
		"Kicks":     true,
		"kicks":     false,
		"Drum_Loop": false,
		"808Subs":   false,
		"":          false,
	}
	for in, want := range tests {
		if got := IsPascalOrCamel(in); got != want {
			t.Errorf("IsPascalOrCamel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizeFileName(` Kicks: "Hard"/Soft? `); got != "Kicks- Hard-Soft" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeSegment("..", "_Unsorted"); got != "_Unsorted" {
		t.Fatalf("SanitizeSegment = %q", got)
	}
	if got := SanitizeSegment("Drum & Bass", "x"); got != "Drum & Bass" {
		t.Fatalf("SanitizeSegment = %q", got)
	}
	if got := SanitizeToken("Café Vox!"); got != "cafe_vox" {
		t.Fatalf("SanitizeToken = %q", got)
	}
	if got := SanitizeToken("   "); got != "unknown" {
		t.Fatalf("SanitizeToken empty = %q", got)
	}
}
