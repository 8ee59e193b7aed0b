package similarity

import (
	"samplesort/internal/pack"
	"samplesort/internal/textutil"
)

const (
	LexicalWeight = 0.85
	ContextWeight = 0.15
)

// Features holds the precomputed comparison inputs of one folder. Building
// them once per folder keeps pairwise scoring cheap.
type Features struct {
	ID        string
	key       string
	print     *textutil.Fingerprint
	parentKey string
	depth     int
	packID    string
}

// NewFeatures tokenizes f for scoring.
func NewFeatures(f pack.FolderPath) Features {
	return Features{
		ID:        f.ID,
		key:       textutil.SortedTokenKey(f.Name),
		print:     textutil.NewFingerprint(f.Name),
		parentKey: textutil.SortedTokenKey(f.Parent),
		depth:     f.Depth,
		packID:    f.PackID,
	}
}

// Key is the sorted token key of the folder name.
func (f Features) Key() string { return f.key }

// Score compares two folders. The result is symmetric and lies in [0,1].
func Score(a, b pack.FolderPath) float64 {
	return Compare(NewFeatures(a), NewFeatures(b))
}

// Compare scores two precomputed feature sets.
func Compare(a, b Features) float64 {
	if a.key != "" && a.key == b.key {
		return 1
	}
	s := LexicalWeight*lexical(a, b) + ContextWeight*context(a, b)
	return clamp(s)
}

// Lexical compares two raw names on their tokens alone.
func Lexical(a, b string) float64 {
	fa := Features{key: textutil.SortedTokenKey(a), print: textutil.NewFingerprint(a)}
	fb := Features{key: textutil.SortedTokenKey(b), print: textutil.NewFingerprint(b)}
	if fa.key != "" && fa.key == fb.key {
		return 1
	}
	return lexical(fa, fb)
}

func lexical(a, b Features) float64 {
	if a.key == "" || b.key == "" {
		return 0
	}
	return 0.5*textutil.Jaccard(a.print, b.print) + 0.5*textutil.EditRatio(a.key, b.key)
}

func context(a, b Features) float64 {
	var parent float64
	switch {
	case a.parentKey == "" && b.parentKey == "":
		parent = 1
	case a.parentKey == "" || b.parentKey == "":
		parent = 0.5
	default:
		parent = textutil.EditRatio(a.parentKey, b.parentKey)
	}

	diff := a.depth - b.depth
	if diff < 0 {
		diff = -diff
	}
	depth := 1 / float64(1+diff)

	same := 0.5
	if a.packID != "" && a.packID == b.packID {
		same = 1
	}
	return (parent + depth + same) / 3
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
