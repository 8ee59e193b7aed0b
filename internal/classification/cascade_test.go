package classification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplesort/internal/pack"
	"samplesort/internal/taxonomy"
	"samplesort/internal/testsupport"
)

func TestHardstylePackClassifiesTaxonomically(t *testing.T) {
	c := newTestCascade(t)
	p := testsupport.NewPack("p1", "Hardstyle Euphoria", testsupport.WithTags("hardstyle", "kicks"))

	out := c.Classify(context.Background(), p, nil)

	require.Equal(t, KindClassified, out.Kind)
	cls := out.Classification
	assert.Equal(t, "Hard Dance", cls.Family)
	assert.Equal(t, "Hardstyle", cls.Style)
	assert.Equal(t, pack.MethodTaxonomic, cls.Method)
	assert.InDelta(t, 0.95, cls.Confidence, 1e-9)
	assert.Contains(t, cls.Rules, "fast-pass")
	assert.Equal(t, []string{"hardstyle"}, cls.MatchedKeywords)
}

func TestTaxonomicConfidenceFormula(t *testing.T) {
	tests := []struct {
		name   string
		pack   string
		family string
		want   float64
		kind   Kind
	}{
		{"fast pass boost below skip", "Techno Tools", "Techno", 0.864, KindNeedsAI},
		{"no fast pass", "House Grooves", "House", 0.64, KindNeedsAI},
		{"score saturates", "Deep House Grooves", "House", 0.95, KindClassified},
		{"family exclusion", "Hard Techno Kicks", "Techno", 0.95, KindClassified},
	}
	c := newTestCascade(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := c.Classify(context.Background(), testsupport.NewPack("p", tt.pack), nil)
			require.Equal(t, tt.kind, out.Kind)
			cls := out.Classification
			if cls == nil {
				cls = out.Candidate
			}
			require.NotNil(t, cls)
			assert.Equal(t, tt.family, cls.Family)
			assert.InDelta(t, tt.want, cls.Confidence, 1e-9)
		})
	}
}

func TestGlobalExclusionSuppressesCandidate(t *testing.T) {
	c := newTestCascade(t)
	out := c.Classify(context.Background(), testsupport.NewPack("p", "Techno Production Course"), nil)
	require.Equal(t, KindNeedsAI, out.Kind)
	assert.Nil(t, out.Candidate)
}

func TestTiesBreakByFamilyID(t *testing.T) {
	idx, err := taxonomy.New([]taxonomy.Family{
		{ID: "zeta", Name: "Zeta", Keywords: map[string]float64{"shared": 1}},
		{ID: "alpha", Name: "Alpha", Keywords: map[string]float64{"shared": 1}},
	}, nil, nil)
	require.NoError(t, err)
	c := New(idx, DefaultThresholds())

	out := c.Classify(context.Background(), testsupport.NewPack("p", "Shared Sounds"), nil)
	require.Equal(t, KindClassified, out.Kind)
	assert.Equal(t, "Alpha", out.Classification.Family)
	require.Len(t, out.Classification.Alternates, 1)
	assert.Equal(t, "Zeta", out.Classification.Alternates[0].Family)
}

func TestConfidenceIsMonotonicInMatchedKeywords(t *testing.T) {
	c := newTestCascade(t)
	tagSets := [][]string{
		{"grooves"},
		{"grooves", "house"},
		{"grooves", "house", "garage"},
		{"grooves", "house", "garage", "trap"},
		{"grooves", "house", "garage", "trap", "deep house"},
	}
	prev := 0.0
	for _, tags := range tagSets {
		out := c.Classify(context.Background(), testsupport.NewPack("p", "Pack", testsupport.WithTags(tags...)), nil)
		cls := out.Classification
		if cls == nil {
			cls = out.Candidate
		}
		got := 0.0
		if cls != nil {
			got = cls.Confidence
		}
		assert.GreaterOrEqual(t, got, prev, "tags %v", tags)
		prev = got
	}
	assert.InDelta(t, 0.95, prev, 1e-9)
}

func TestBundleInheritanceGate(t *testing.T) {
	c := newTestCascade(t)
	p := testsupport.NewPack("p", "Mystery Sounds", testsupport.WithBundle("Mega"))

	low := &pack.Classification{Family: "Techno", Style: "Minimal", Confidence: 0.65, Method: pack.MethodTaxonomic}
	out := c.Classify(context.Background(), p, low)
	assert.Equal(t, KindNeedsAI, out.Kind)

	high := &pack.Classification{Family: "Techno", Style: "Minimal", Confidence: 0.85, Method: pack.MethodTaxonomic}
	out = c.Classify(context.Background(), p, high)
	require.Equal(t, KindClassified, out.Kind)
	assert.Equal(t, pack.MethodBundleInherited, out.Classification.Method)
	assert.Equal(t, high.Family, out.Classification.Family)
	assert.Equal(t, high.Style, out.Classification.Style)
	assert.Equal(t, high.Confidence, out.Classification.Confidence)
}

func TestTaxonomicMatchBeatsBundle(t *testing.T) {
	c := newTestCascade(t)
	p := testsupport.NewPack("p", "Rawstyle Screeches", testsupport.WithBundle("Mega"))
	bundle := &pack.Classification{Family: "Techno", Confidence: 0.9}

	out := c.Classify(context.Background(), p, bundle)
	require.Equal(t, KindClassified, out.Kind)
	assert.Equal(t, "Hard Dance", out.Classification.Family)
	assert.Equal(t, "Rawstyle", out.Classification.Style)
}

func TestManualOverrideWins(t *testing.T) {
	overrides := fakeOverrides{byID: map[string]*pack.Classification{
		"p1": {Family: "Ambient", Style: "Drone"},
	}}
	c := newTestCascade(t, WithOverrides(overrides))

	out := c.Classify(context.Background(), testsupport.NewPack("p1", "Hardstyle Euphoria"), nil)
	require.Equal(t, KindClassified, out.Kind)
	assert.Equal(t, pack.MethodManual, out.Classification.Method)
	assert.Equal(t, "Ambient", out.Classification.Family)
	assert.Equal(t, 1.0, out.Classification.Confidence)

	out = c.Classify(context.Background(), testsupport.NewPack("p2", "Hardstyle Euphoria"), nil)
	assert.Equal(t, pack.MethodTaxonomic, out.Classification.Method)
}

func TestOverrideErrorFallsThrough(t *testing.T) {
	c := newTestCascade(t, WithOverrides(fakeOverrides{err: errors.New("db locked")}))
	out := c.Classify(context.Background(), testsupport.NewPack("p1", "Hardstyle Euphoria"), nil)
	require.Equal(t, KindClassified, out.Kind)
	assert.Equal(t, pack.MethodTaxonomic, out.Classification.Method)
}

func TestRunIsDeterministic(t *testing.T) {
	packs := []pack.Pack{
		testsupport.NewPack("a", "Hardstyle Euphoria"),
		testsupport.NewPack("b", "House Grooves"),
		testsupport.NewPack("c", "Techno Tools"),
		testsupport.NewPack("d", "Mystery Sounds"),
		testsupport.NewPack("e", "Deep Tech Vol 2", testsupport.WithTags("house", "tech house")),
	}
	first := newTestCascade(t).Run(context.Background(), packs, nil)
	second := newTestCascade(t).Run(context.Background(), packs, nil)
	assert.Equal(t, first.Outcomes, second.Outcomes)
	assert.Equal(t, first.Stats, second.Stats)
}
