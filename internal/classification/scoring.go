package classification

import (
	"math"
	"sort"

	"samplesort/internal/pack"
	"samplesort/internal/textutil"
)

const (
	// maxTaxonomicConfidence caps every keyword-derived confidence.
	maxTaxonomicConfidence = 0.95
	scoreScale             = 0.8
	fastPassBoost          = 1.2
	maxAlternates          = 3
)

type familyScore struct {
	id         string
	name       string
	score      float64
	fastPass   bool
	matched    []string
	confidence float64
}

// scoreText returns the best taxonomic candidate for normalized text, or nil
// when nothing reaches the minimum score.
func (c *Cascade) scoreText(text string) *pack.Classification {
	if c.index == nil || c.index.Excluded(text) {
		return nil
	}
	var scores []familyScore
	for _, fam := range c.index.Families() {
		if c.index.FamilyExcluded(fam.ID, text) {
			continue
		}
		fs := familyScore{id: fam.ID, name: fam.Name}
		for _, term := range c.index.Terms(fam.ID) {
			if !textutil.ContainsPhrase(text, term.Phrase) {
				continue
			}
			fs.score += term.Weight
			fs.matched = append(fs.matched, term.Phrase)
			if term.Weight >= c.thresholds.FastPassWeight {
				fs.fastPass = true
			}
		}
		if fs.score >= c.thresholds.MinScore && fs.score > 0 {
			fs.confidence = confidenceFor(fs)
			scores = append(scores, fs)
		}
	}
	if len(scores) == 0 {
		return nil
	}
	// Rank by confidence so the result is the maximum over families, then
	// break ties by raw score and family ID.
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].confidence != scores[j].confidence {
			return scores[i].confidence > scores[j].confidence
		}
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].id < scores[j].id
	})

	best := scores[0]
	result := &pack.Classification{
		Family:          best.name,
		Style:           c.index.MatchStyle(best.id, text),
		Confidence:      best.confidence,
		Method:          pack.MethodTaxonomic,
		MatchedKeywords: best.matched,
	}
	result.AddReason("matched %d keyword(s) for %s, score %.2f", len(best.matched), best.name, best.score)
	if best.fastPass {
		result.Rules = append(result.Rules, "fast-pass")
		result.AddReason("fast-pass keyword present")
	}
	for _, alt := range scores[1:] {
		if len(result.Alternates) == maxAlternates {
			break
		}
		result.Alternates = append(result.Alternates, pack.Alternate{
			Family:     alt.name,
			Style:      c.index.MatchStyle(alt.id, text),
			Confidence: alt.confidence,
			Source:     string(pack.MethodTaxonomic),
		})
	}
	return result
}

// confidenceFor maps a raw keyword score onto [0, 0.95]. It depends only on
// the score and the fast-pass flag, so a higher score never yields a lower
// confidence.
func confidenceFor(fs familyScore) float64 {
	conf := math.Min(maxTaxonomicConfidence, fs.score*scoreScale)
	if fs.fastPass {
		conf = math.Min(maxTaxonomicConfidence, conf*fastPassBoost)
	}
	return pack.ClampConfidence(conf)
}
