package taxonomy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplesort/internal/services"
	"samplesort/internal/textutil"
)

func TestNewOrdersFamiliesAndDefaultsWeights(t *testing.T) {
	idx, err := New([]Family{
		{ID: "techno", Name: "Techno", Keywords: map[string]float64{"techno": 0}},
		{ID: "ambient", Name: "Ambient", Keywords: map[string]float64{"Ambient": 1.2, "ambient": 0.5}},
	}, nil, nil)
	require.NoError(t, err)

	fams := idx.Families()
	require.Len(t, fams, 2)
	assert.Equal(t, "ambient", fams[0].ID)
	assert.Equal(t, "techno", fams[1].ID)

	assert.Equal(t, []Term{{Phrase: "techno", Weight: DefaultKeywordWeight}}, idx.Terms("techno"))
	assert.Equal(t, []Term{{Phrase: "ambient", Weight: 1.2}}, idx.Terms("ambient"), "duplicate spellings keep the larger weight")
}

func TestNewRejectsInvalidFamilies(t *testing.T) {
	tests := []struct {
		name     string
		families []Family
	}{
		{"empty", nil},
		{"weight too high", []Family{{ID: "x", Name: "X", Keywords: map[string]float64{"x": 1.6}}}},
		{"negative weight", []Family{{ID: "x", Name: "X", Keywords: map[string]float64{"x": -0.1}}}},
		{"missing name", []Family{{ID: "x"}}},
		{"duplicate id", []Family{{ID: "x", Name: "X"}, {ID: "x", Name: "Y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.families, nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, services.ErrValidation))
		})
	}
}

func TestLookupsAndExclusions(t *testing.T) {
	idx := Default()

	fam, ok := idx.FamilyByName("hard dance")
	require.True(t, ok)
	assert.Equal(t, "hard-dance", fam.ID)

	_, ok = idx.FamilyByName("house")
	assert.True(t, ok)
	_, ok = idx.Family("polka")
	assert.False(t, ok)

	text := textutil.NormalizeText("Hard Techno Tools Vol 1")
	assert.True(t, idx.FamilyExcluded("hard-dance", text))
	assert.False(t, idx.FamilyExcluded("techno", text))
	assert.True(t, idx.Excluded(textutil.NormalizeText("Serum Sound Design Course")))
	assert.False(t, idx.Excluded(text))
}

func TestStyleMatchingAndSynonyms(t *testing.T) {
	idx := Default()
	assert.Equal(t, "Deep House", idx.MatchStyle("house", textutil.NormalizeText("Deep House Grooves")))
	assert.Equal(t, "Neurofunk", idx.MatchStyle("drum-and-bass", textutil.NormalizeText("Neuro Bass Weapons")))
	assert.Equal(t, "", idx.MatchStyle("house", textutil.NormalizeText("Random Loops")))
	assert.Equal(t, "", idx.MatchStyle("missing", "anything"))

	assert.Equal(t, "Lo-Fi", idx.CanonicalStyle("lo-fi"))
	assert.Equal(t, "Boom Bap", idx.CanonicalStyle(" Boom Bap "))
}
