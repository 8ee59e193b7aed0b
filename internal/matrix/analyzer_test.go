package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplesort/internal/pack"
	"samplesort/internal/testsupport"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		p    pack.Pack
		want string
	}{
		{"largest bucket", testsupport.NewPack("p", "Whatever", testsupport.WithTypeBuckets(map[string]int{"one_shots": 40, "Loops": 12})), TypeOneShots},
		{"unknown bucket title cased", testsupport.NewPack("p", "Whatever", testsupport.WithTypeBuckets(map[string]int{"drum breaks": 5})), "Drum Breaks"},
		{"construction kit beats loop", testsupport.NewPack("p", "Trap Construction Kits Loops"), TypeConstructionKits},
		{"midi", testsupport.NewPack("p", "Chord MIDI Pack"), TypeMIDI},
		{"preset via synth name", testsupport.NewPack("p", "Serum Leads"), TypePresets},
		{"loops from tags", testsupport.NewPack("p", "Groove", testsupport.WithTags("loops")), TypeLoops},
		{"one shots", testsupport.NewPack("p", "Drum One-Shots"), TypeOneShots},
		{"vocal", testsupport.NewPack("p", "Vox Chops"), TypeVocals},
		{"fx", testsupport.NewPack("p", "Risers and Impacts"), TypeFX},
		{"flags loops", testsupport.NewPack("p", "Grooves", testsupport.WithFlags(true, false, false)), TypeLoops},
		{"flags presets", testsupport.NewPack("p", "Bank", testsupport.WithFlags(false, false, true)), TypePresets},
		{"mixed", testsupport.NewPack("p", "Bank", testsupport.WithFlags(true, true, false)), TypeMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectType(tt.p))
		})
	}
}

func TestAnalyzeAggregatesEntries(t *testing.T) {
	packs := []pack.Pack{
		testsupport.NewPack("a", "Hardstyle Kicks Vol 1", testsupport.WithFiles(20), testsupport.WithFlags(false, true, false)),
		testsupport.NewPack("b", "Rawstyle Kicks", testsupport.WithFiles(30), testsupport.WithFlags(false, true, false)),
		testsupport.NewPack("c", "Euphoric Loops", testsupport.WithFiles(15)),
		testsupport.NewPack("d", "Unclassified", testsupport.WithFiles(99)),
	}
	classes := map[string]*pack.Classification{
		"a": {Family: "Hard Dance", Style: "Hardstyle", Confidence: 0.9, Method: pack.MethodTaxonomic},
		"b": {Family: "hard dance", Style: "hardstyle", Confidence: 0.7, Method: pack.MethodAIFallback},
		"c": {Family: "Hard Dance", Confidence: 0.8, Method: pack.MethodBundleInherited},
	}

	m := Analyze(packs, classes)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, 65, m.TotalFiles)
	assert.Equal(t, 3, m.PackCount)

	loops := m.Entries[0]
	assert.Equal(t, Key("Hard Dance", TypeLoops, DefaultStyle), loops.Key)
	assert.Equal(t, []string{"c"}, loops.PackIDs)

	kicks := m.Entries[1]
	assert.Equal(t, "Hard Dance|One-Shots|Hardstyle", kicks.Key)
	assert.Equal(t, 2, kicks.PackCount)
	assert.Equal(t, 50, kicks.TotalFiles)
	assert.InDelta(t, 0.8, kicks.AvgConfidence, 1e-9)
	assert.Equal(t, []string{"Hardstyle Kicks Vol 1", "Rawstyle Kicks"}, kicks.Examples)
	assert.True(t, kicks.TaxonomySourced)
	assert.True(t, kicks.Discovered)
	assert.Contains(t, kicks.Functions, "kick")

	total := 0
	for _, e := range m.Entries {
		total += e.TotalFiles
	}
	assert.Equal(t, m.TotalFiles, total)
	assert.Equal(t, []string{"Hard Dance"}, m.Values(AxisFamily))
	assert.Equal(t, []string{TypeLoops, TypeOneShots}, m.Values(AxisType))
}

func TestAnalyzeEmpty(t *testing.T) {
	m := Analyze([]pack.Pack{testsupport.NewPack("a", "Kicks")}, nil)
	assert.True(t, m.Empty())
	assert.Zero(t, m.TotalFiles)
	var nilMatrix *Matrix
	assert.True(t, nilMatrix.Empty())
}

func TestExamplesAreCapped(t *testing.T) {
	var packs []pack.Pack
	classes := map[string]*pack.Classification{}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		packs = append(packs, testsupport.NewPack(id, "Pack "+id, testsupport.WithTags("loops")))
		classes[id] = &pack.Classification{Family: "Techno", Confidence: 0.9, Method: pack.MethodTaxonomic}
	}
	m := Analyze(packs, classes)
	require.Len(t, m.Entries, 1)
	assert.Len(t, m.Entries[0].Examples, 3)
	assert.Equal(t, 5, m.Entries[0].PackCount)
}

func TestExtractSignals(t *testing.T) {
	p := testsupport.NewPack("a", "Dark Kicks 150 BPM",
		testsupport.WithTags("distorted", "kick"),
		testsupport.WithFolders(5, "Wet Snares"))
	signals := extractSignals(p)

	byValue := map[string]Signal{}
	for _, s := range signals {
		byValue[s.Type+":"+s.Value] = s
		assert.GreaterOrEqual(t, s.Confidence, minSignalConfidence)
		assert.LessOrEqual(t, s.Confidence, maxSignalConfidence)
	}

	kick, ok := byValue["function:kick"]
	require.True(t, ok)
	assert.Equal(t, "tag", kick.Source, "exact tag match beats the partial match in the name")
	assert.InDelta(t, 0.95, kick.Confidence, 1e-9)

	assert.Contains(t, byValue, "variant:150 bpm")
	assert.Contains(t, byValue, "variant:distorted")
	assert.Contains(t, byValue, "variant:wet")
	assert.Contains(t, byValue, "context:dark")
	assert.Contains(t, byValue, "function:snare")
}
