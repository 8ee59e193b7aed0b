package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// abbreviations maps sample-library shorthand onto a shared token.
var abbreviations = map[string][]string{
	"vox":     {"vocal"},
	"vocs":    {"vocal"},
	"sfx":     {"fx"},
	"efx":     {"fx"},
	"perc":    {"percussion"},
	"percs":   {"percussion"},
	"hh":      {"hat"},
	"hihat":   {"hat"},
	"oneshot": {"one", "shot"},
	"bd":      {"kick"},
	"sd":      {"snare"},
	"synths":  {"synth"},
	"fxs":     {"fx"},
}

// FoldDiacritics strips combining marks so accented letters compare equal to
// their base letter.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeText lowercases s, folds diacritics and collapses every run of
// non-alphanumeric characters into a single space. The result is padded with
// one leading and trailing space so phrase lookups can match whole words with
// strings.Contains(text, " "+phrase+" ").
func NormalizeText(s string) string {
	s = strings.ToLower(FoldDiacritics(s))
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// NormalizePhrase is NormalizeText without the padding, suitable for use as
// the needle in a ContainsPhrase lookup.
func NormalizePhrase(s string) string {
	return strings.TrimSpace(NormalizeText(s))
}

// ContainsPhrase reports whether the padded normalized text holds phrase as a
// whole-word sequence. phrase must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(text, " "+phrase+" ")
}

// SplitWords breaks a raw name into words at separators, camelCase humps and
// letter/digit boundaries. "808Subs_Wet" yields ["808", "Subs", "Wet"].
func SplitWords(name string) []string {
	name = FoldDiacritics(name)
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(name)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				// "FXLoops" splits before the "L".
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// FolderTokens returns the comparable tokens of a folder name: lowercased,
// de-pluralized and with common abbreviations expanded.
func FolderTokens(name string) []string {
	words := SplitWords(name)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if expanded, ok := abbreviations[w]; ok {
			tokens = append(tokens, expanded...)
			continue
		}
		w = stem(w)
		if expanded, ok := abbreviations[w]; ok {
			tokens = append(tokens, expanded...)
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func stem(w string) string {
	if len(w) <= 3 || !strings.HasSuffix(w, "s") {
		return w
	}
	for _, keep := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(w, keep) {
			return w
		}
	}
	if w[len(w)-2] >= '0' && w[len(w)-2] <= '9' {
		return w
	}
	return w[:len(w)-1]
}

// CountSeparators counts separator characters (underscore, dash, dot, space).
func CountSeparators(name string) int {
	n := 0
	for _, r := range name {
		switch r {
		case '_', '-', '.', ' ':
			n++
		}
	}
	return n
}

// HasDigit reports whether s contains any decimal digit.
func HasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsPascalOrCamel reports whether s is a single separator-free identifier with
// at least one internal capital, e.g. "DrumLoops" or "drumLoops".
func IsPascalOrCamel(s string) bool {
	if s == "" || CountSeparators(s) > 0 {
		return false
	}
	rs := []rune(s)
	if !unicode.IsLetter(rs[0]) {
		return false
	}
	humps := 0
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(rs[i-1]) {
			humps++
		}
	}
	if humps > 0 {
		return true
	}
	// Single capitalized word ("Kicks") also counts as Pascal case.
	return unicode.IsUpper(rs[0]) && len(rs) > 1 && unicode.IsLower(rs[1])
}
