package aifallback

import (
	"encoding/json"
	"fmt"

	"samplesort/internal/pack"
	"samplesort/internal/taxonomy"
)

// SystemPrompt is sent with every classification batch.
const SystemPrompt = `You classify audio sample packs into music genre families.

Rules:
- Use ONLY the family names listed in the request. Never invent a family.
- Pick a style only from the styles listed under the chosen family, or leave it empty.
- Base the decision on the pack name, tags, hints and bundle name.
- Confidence is 0.0-1.0. Use values below 0.5 when the genre is a guess.
- Return exactly one entry per pack, keyed by the pack id.

Respond ONLY with JSON: {"classifications": [{"id": "pack id", "family": "family name", "style": "style or empty", "confidence": 0.0-1.0, "reason": "brief explanation"}]}`

type promptFamily struct {
	Name   string   `json:"name"`
	Styles []string `json:"styles,omitempty"`
}

type promptPack struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Tags   []string `json:"tags,omitempty"`
	Hints  []string `json:"hints,omitempty"`
	Bundle string   `json:"bundle,omitempty"`
}

type promptPayload struct {
	Families []promptFamily `json:"families"`
	Packs    []promptPack   `json:"packs"`
}

// BatchResponse is the JSON document the model is asked to produce.
type BatchResponse struct {
	Classifications []Answer `json:"classifications"`
}

// Answer is one model verdict.
type Answer struct {
	ID         string  `json:"id"`
	Family     string  `json:"family"`
	Style      string  `json:"style"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// buildUserPrompt renders the families and packs as JSON.
func buildUserPrompt(index *taxonomy.Index, packs []pack.Pack) (string, error) {
	payload := promptPayload{
		Families: make([]promptFamily, 0, index.Len()),
		Packs:    make([]promptPack, 0, len(packs)),
	}
	for _, fam := range index.Families() {
		payload.Families = append(payload.Families, promptFamily{Name: fam.Name, Styles: fam.Styles})
	}
	for _, p := range packs {
		entry := promptPack{
			ID:    p.ID,
			Name:  p.DisplayName(),
			Tags:  p.Tags,
			Hints: p.TaxonomyHints,
		}
		if p.Bundle != nil {
			entry.Bundle = p.Bundle.Name
		}
		payload.Packs = append(payload.Packs, entry)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}
	return "Classify these packs:\n" + string(data), nil
}
