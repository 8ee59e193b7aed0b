package matrix

import (
	"regexp"
	"sort"
	"strings"

	"samplesort/internal/pack"
	"samplesort/internal/textutil"
)

// Canonical content types.
const (
	TypeConstructionKits = "Construction Kits"
	TypeMIDI             = "MIDI"
	TypePresets          = "Presets"
	TypeLoops            = "Loops"
	TypeOneShots         = "One-Shots"
	TypeVocals           = "Vocals"
	TypeFX               = "FX"
	TypeMixed            = "Mixed"
)

var typeAliases = map[string]string{
	"construction kit":  TypeConstructionKits,
	"construction kits": TypeConstructionKits,
	"kits":              TypeConstructionKits,
	"midi":              TypeMIDI,
	"midi files":        TypeMIDI,
	"preset":            TypePresets,
	"presets":           TypePresets,
	"patches":           TypePresets,
	"loop":              TypeLoops,
	"loops":             TypeLoops,
	"one shot":          TypeOneShots,
	"one shots":         TypeOneShots,
	"oneshots":          TypeOneShots,
	"hits":              TypeOneShots,
	"vocal":             TypeVocals,
	"vocals":            TypeVocals,
	"vox":               TypeVocals,
	"fx":                TypeFX,
	"sfx":               TypeFX,
	"effects":           TypeFX,
}

type typePattern struct {
	kind string
	re   *regexp.Regexp
}

// typePatterns are tried in priority order against the pack name and tags.
var typePatterns = []typePattern{
	{TypeConstructionKits, regexp.MustCompile(`\bconstruction\s*kits?\b`)},
	{TypeMIDI, regexp.MustCompile(`\bmidi\b`)},
	{TypePresets, regexp.MustCompile(`\b(presets?|patch(es)?|serum|vital|massive|sylenth)\b`)},
	{TypeLoops, regexp.MustCompile(`\bloops?\b`)},
	{TypeOneShots, regexp.MustCompile(`\b(one\s*shots?|oneshots?|hits)\b`)},
	{TypeVocals, regexp.MustCompile(`\b(vocals?|vox|acapellas?)\b`)},
	{TypeFX, regexp.MustCompile(`\b(s?fx|effects|risers?|impacts?)\b`)},
}

// canonicalType maps a bucket or folder label onto a canonical type.
func canonicalType(label string) string {
	key := textutil.NormalizePhrase(label)
	if t, ok := typeAliases[key]; ok {
		return t
	}
	return titleCase(key)
}

// detectType picks the content type of a pack.
func detectType(p pack.Pack) string {
	if p.Structure != nil && len(p.Structure.TypeBuckets) > 0 {
		labels := make([]string, 0, len(p.Structure.TypeBuckets))
		for label := range p.Structure.TypeBuckets {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		best, bestN := "", -1
		for _, label := range labels {
			if n := p.Structure.TypeBuckets[label]; n > bestN {
				best, bestN = label, n
			}
		}
		if t := canonicalType(best); t != "" {
			return t
		}
	}
	text := strings.TrimSpace(textutil.NormalizeText(p.DisplayName() + " " + strings.Join(p.Tags, " ")))
	for _, tp := range typePatterns {
		if tp.re.MatchString(text) {
			return tp.kind
		}
	}
	switch {
	case p.HasPresets && !p.HasLoops && !p.HasOneShots:
		return TypePresets
	case p.HasLoops && !p.HasOneShots:
		return TypeLoops
	case p.HasOneShots && !p.HasLoops:
		return TypeOneShots
	default:
		return TypeMixed
	}
}
