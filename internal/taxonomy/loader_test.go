package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplesort/internal/logging"
)

const sampleYAML = `
families:
  - id: hard-dance
    name: Hard Dance
    styles: [Hardstyle, Rawstyle]
    confidence: 0.95
    keywords:
      - hardstyle
      - term: rawstyle
        weight: 1.2
      - term: euphoric
        weight: 0.4
    exclusions: [hard techno]
  - name: Techno
    keywords: [techno]
style_synonyms:
  raw: Rawstyle
exclusions: [tutorial]
`

func TestParseYAMLKeywordForms(t *testing.T) {
	idx, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	fam, ok := idx.Family("hard-dance")
	require.True(t, ok)
	assert.Equal(t, 1.0, fam.Keywords["hardstyle"])
	assert.Equal(t, 1.2, fam.Keywords["rawstyle"])
	assert.Equal(t, 0.4, fam.Keywords["euphoric"])
	assert.Equal(t, 0.95, fam.Confidence)

	_, ok = idx.Family("techno")
	assert.True(t, ok, "missing id derives from the name")
	assert.Equal(t, "Rawstyle", idx.CanonicalStyle("raw"))
}

func TestParseJSONDocument(t *testing.T) {
	doc := `{"families":[{"id":"house","name":"House","keywords":["house",{"term":"deep house","weight":1.5}]}]}`
	idx, err := Parse([]byte(doc))
	require.NoError(t, err)
	fam, ok := idx.Family("house")
	require.True(t, ok)
	assert.Equal(t, 1.5, fam.Keywords["deep house"])
}

func TestParseRejectsBadDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"not yaml":      "families: [",
		"zero weight":   "families:\n  - name: X\n    keywords:\n      - {term: x, weight: 0}\n",
		"weight range":  "families:\n  - name: X\n    keywords:\n      - {term: x, weight: 3}\n",
		"keyword shape": "families:\n  - name: X\n    keywords:\n      - [a, b]\n",
		"no families":   "exclusions: [x]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	logger := logging.NewNop()

	assert.Equal(t, Default().Len(), LoadOrDefault("", logger).Len())
	assert.Equal(t, Default().Len(), LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"), logger).Len())

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("families: ["), 0o644))
	assert.Equal(t, Default().Len(), LoadOrDefault(bad, logger).Len())

	good := filepath.Join(t.TempDir(), "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(sampleYAML), 0o644))
	assert.Equal(t, 2, LoadOrDefault(good, logger).Len())
}
