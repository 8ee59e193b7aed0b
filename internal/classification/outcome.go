package classification

import "samplesort/internal/pack"

// Kind is the terminal state of a pack after the cascade.
type Kind int

const (
	KindClassified Kind = iota
	KindNeedsAI
	KindQuarantined
)

func (k Kind) String() string {
	switch k {
	case KindClassified:
		return "classified"
	case KindNeedsAI:
		return "needs-ai"
	case KindQuarantined:
		return "quarantined"
	default:
		return "unknown"
	}
}

// Quarantine reasons.
const (
	ReasonAIFailed         = "AI failed"
	ReasonBundleUnresolved = "bundle unresolved"
	ReasonNoTaxonomicMatch = "no taxonomic match"
	ReasonLowConfidence    = "low confidence"
	ReasonCancelled        = "run cancelled"
)

// Quarantine marks a pack that needs manual review.
type Quarantine struct {
	Reason       string               `json:"reason"`
	ManualReview bool                 `json:"manual_review"`
	Candidate    *pack.Classification `json:"candidate,omitempty"`
}

// Outcome is the cascade result for one pack. Classification is set for
// KindClassified, Quarantine for KindQuarantined. Candidate carries the best
// low-confidence taxonomic match for packs that did not classify outright.
type Outcome struct {
	PackID         string               `json:"pack_id"`
	PackName       string               `json:"pack_name"`
	Kind           Kind                 `json:"-"`
	Classification *pack.Classification `json:"classification,omitempty"`
	Candidate      *pack.Classification `json:"candidate,omitempty"`
	Quarantine     *Quarantine          `json:"quarantine,omitempty"`
}

// Status renders the kind for tables and JSON.
func (o Outcome) Status() string { return o.Kind.String() }

func classified(p pack.Pack, c *pack.Classification) Outcome {
	return Outcome{PackID: p.ID, PackName: p.DisplayName(), Kind: KindClassified, Classification: c}
}

func quarantined(p pack.Pack, reason string, candidate *pack.Classification) Outcome {
	return Outcome{
		PackID:    p.ID,
		PackName:  p.DisplayName(),
		Kind:      KindQuarantined,
		Candidate: candidate,
		Quarantine: &Quarantine{
			Reason:       reason,
			ManualReview: true,
			Candidate:    candidate.Clone(),
		},
	}
}
