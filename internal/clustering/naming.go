package clustering

import (
	"regexp"
	"sort"
	"strings"

	"samplesort/internal/similarity"
	"samplesort/internal/textutil"
)

var (
	leadingIndex = regexp.MustCompile(`^\d{1,2}(\s*[-_.)]\s*|\s+)`)
	repeatedSep  = regexp.MustCompile(`([ _.\-])[ _.\-]+`)
)

// cleanName strips a leading track-style index ("01 - ") and collapses runs
// of separators.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if stripped := leadingIndex.ReplaceAllString(name, ""); stripped != "" {
		name = stripped
	}
	name = repeatedSep.ReplaceAllString(name, "$1")
	return strings.Trim(name, " _.-")
}

type nameCandidate struct {
	name  string
	seps  int
	score float64
}

// canonicalName picks the most representative member name. Short names with
// few separators, Pascal or camel case and no digits score higher, as do
// names lexically close to the other members.
func canonicalName(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if c := cleanName(n); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	candidates := make([]nameCandidate, 0, len(cleaned))
	seen := make(map[string]struct{}, len(cleaned))
	for _, name := range cleaned {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		c := nameCandidate{name: name, seps: textutil.CountSeparators(name)}
		c.score = 1 / (1 + float64(len([]rune(name)))/10)
		c.score += 1 / float64(1+c.seps)
		if textutil.IsPascalOrCamel(name) {
			c.score += 0.3
		}
		if !textutil.HasDigit(name) {
			c.score += 0.2
		}
		c.score += 0.5 * averageLexical(name, cleaned)
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.seps != b.seps {
			return a.seps < b.seps
		}
		return a.name < b.name
	})
	return candidates[0].name
}

func averageLexical(name string, all []string) float64 {
	var (
		sum   float64
		count int
	)
	skipped := false
	for _, other := range all {
		if other == name && !skipped {
			skipped = true
			continue
		}
		sum += similarity.Lexical(name, other)
		count++
	}
	if count == 0 {
		return 1
	}
	return sum / float64(count)
}
