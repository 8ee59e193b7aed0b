package matrix

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"samplesort/internal/pack"
	"samplesort/internal/textutil"
)

// Signal kinds.
const (
	SignalFunction = "function"
	SignalVariant  = "variant"
	SignalContext  = "context"
)

const (
	maxSignalConfidence = 0.95
	minSignalConfidence = 0.3
)

// Signal is a naming hint found in a pack.
type Signal struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

type signalFamily struct {
	kind   string
	weight float64
	re     *regexp.Regexp
}

var signalFamilies = []signalFamily{
	{SignalFunction, 1.0, regexp.MustCompile(`kick|snare|hat|clap|perc|bass|808|lead|pad|pluck|chord|arp|vocal|drum|synth|keys|guitar|piano|atmos|fx`)},
	{SignalVariant, 0.8, regexp.MustCompile(`wet|dry|processed|clean|dirty|distorted|layered|stereo|mono|tonal|\d+ ?bpm|\b[a-g][#b]? ?(?:min|maj)(?:or)?\b`)},
	{SignalContext, 0.6, regexp.MustCompile(`festival|live|cinematic|vintage|analog|retro|modern|dark|uplifting|melodic|underground`)},
}

// sourceReliability ranks where a signal was seen.
var sourceReliability = map[string]float64{
	"name":   0.2,
	"tag":    0.15,
	"folder": 0.1,
}

type signalSource struct {
	kind string
	text string
}

func signalSources(p pack.Pack) []signalSource {
	out := []signalSource{{"name", p.DisplayName()}}
	for _, tag := range p.Tags {
		out = append(out, signalSource{"tag", tag})
	}
	for _, folder := range p.Structure.FolderNames() {
		out = append(out, signalSource{"folder", folder})
	}
	return out
}

// extractSignals finds naming signals in p, keeping the strongest per
// (type, value) and dropping weak ones.
func extractSignals(p pack.Pack) []Signal {
	best := make(map[[2]string]Signal)
	for _, src := range signalSources(p) {
		text := strings.TrimSpace(textutil.NormalizeText(src.text))
		if text == "" {
			continue
		}
		words := make(map[string]struct{})
		for _, w := range strings.Fields(text) {
			words[w] = struct{}{}
		}
		for _, fam := range signalFamilies {
			for _, loc := range fam.re.FindAllStringIndex(text, -1) {
				value := text[loc[0]:loc[1]]
				exactness := 0.1
				if _, ok := words[value]; ok {
					exactness = 0.2
				}
				edge := 0.0
				if loc[0] == 0 || loc[1] == len(text) {
					edge = 0.1
				}
				conf := math.Min(maxSignalConfidence, (0.5+exactness+sourceReliability[src.kind]+edge)*fam.weight)
				if conf < minSignalConfidence {
					continue
				}
				key := [2]string{fam.kind, value}
				if cur, ok := best[key]; !ok || conf > cur.Confidence {
					best[key] = Signal{Type: fam.kind, Value: value, Confidence: conf, Source: src.kind}
				}
			}
		}
	}
	out := make([]Signal, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Value < out[j].Value
	})
	return out
}
