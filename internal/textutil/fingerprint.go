package textutil

import (
	"math"
	"sort"
	"strings"
)

// Fingerprint is a term-frequency vector over folder tokens.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint builds a fingerprint from the folder tokens of text.
// Returns nil if the text produces no tokens.
func NewFingerprint(text string) *Fingerprint {
	return FingerprintOf(FolderTokens(text))
}

// FingerprintOf builds a fingerprint from already-tokenized input.
func FingerprintOf(tokens []string) *Fingerprint {
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(norm),
	}
}

// TokenCount returns the number of unique tokens in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// Has reports whether token appears in the fingerprint.
func (f *Fingerprint) Has(token string) bool {
	if f == nil {
		return false
	}
	_, ok := f.tokens[token]
	return ok
}

// CosineSimilarity returns the cosine of the angle between two fingerprints.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a, b
	if len(small.tokens) > len(large.tokens) {
		small, large = large, small
	}
	var dot float64
	for token, weight := range small.tokens {
		dot += weight * large.tokens[token]
	}
	sim := dot / (a.norm * b.norm)
	if sim > 1 {
		return 1
	}
	return sim
}

// Jaccard returns |A∩B| / |A∪B| over the unique tokens of both fingerprints.
// Two empty inputs are considered identical.
func Jaccard(a, b *Fingerprint) float64 {
	if a.TokenCount() == 0 && b.TokenCount() == 0 {
		return 1
	}
	if a.TokenCount() == 0 || b.TokenCount() == 0 {
		return 0
	}
	inter := 0
	for token := range a.tokens {
		if _, ok := b.tokens[token]; ok {
			inter++
		}
	}
	union := len(a.tokens) + len(b.tokens) - inter
	return float64(inter) / float64(union)
}

// SortedTokenKey returns the unique tokens of name sorted and space-joined, so
// "808_Subs" and "Sub_808" share the key "808 sub".
func SortedTokenKey(name string) string {
	tokens := FolderTokens(name)
	seen := make(map[string]struct{}, len(tokens))
	uniq := tokens[:0:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, " ")
}
