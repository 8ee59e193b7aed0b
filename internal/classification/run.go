package classification

import (
	"context"

	"samplesort/internal/logging"
	"samplesort/internal/pack"
)

// Stats summarizes a classification run.
type Stats struct {
	Total       int                 `json:"total"`
	Classified  int                 `json:"classified"`
	Quarantined int                 `json:"quarantined"`
	ByMethod    map[pack.Method]int `json:"by_method"`
	ByReason    map[string]int      `json:"by_reason"`
	AIBatches   int                 `json:"ai_batches"`
	AIFailures  int                 `json:"ai_failures"`
}

// Result holds the outcome of every pack in input order.
type Result struct {
	Outcomes []Outcome   `json:"outcomes"`
	Bundles  BundleCache `json:"-"`
	Stats    Stats       `json:"stats"`
}

// Classifications returns the accepted classification of each classified
// pack keyed by pack ID.
func (r *Result) Classifications() map[string]*pack.Classification {
	out := make(map[string]*pack.Classification)
	if r == nil {
		return out
	}
	for _, o := range r.Outcomes {
		if o.Kind == KindClassified {
			out[o.PackID] = o.Classification
		}
	}
	return out
}

// Quarantined returns the quarantined outcomes in input order.
func (r *Result) Quarantined() []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Kind == KindQuarantined {
			out = append(out, o)
		}
	}
	return out
}

// Run classifies packs end to end. bundles is the cache produced by
// PreclassifyBundles and may be nil. Every pack ends either classified or
// quarantined; a cancelled context quarantines packs whose AI batch was never
// submitted.
func (c *Cascade) Run(ctx context.Context, packs []pack.Pack, bundles BundleCache) *Result {
	result := &Result{
		Outcomes: make([]Outcome, len(packs)),
		Bundles:  bundles,
		Stats: Stats{
			Total:    len(packs),
			ByMethod: make(map[pack.Method]int),
			ByReason: make(map[string]int),
		},
	}

	var (
		pending    []pack.Pack
		pendingIdx []int
	)
	for i, p := range packs {
		out := c.Classify(ctx, p, bundles.Lookup(p.Bundle))
		result.Outcomes[i] = out
		if out.Kind == KindNeedsAI {
			pending = append(pending, p)
			pendingIdx = append(pendingIdx, i)
		}
	}

	if len(pending) > 0 {
		answers, stats := c.submitAI(ctx, pending)
		result.Stats.AIBatches = stats.batches
		result.Stats.AIFailures = stats.failures
		for j, idx := range pendingIdx {
			p := packs[idx]
			result.Outcomes[idx] = c.resolve(p, result.Outcomes[idx].Candidate, answers[j], c.bundleUnresolved(p, bundles))
		}
	}

	for _, o := range result.Outcomes {
		switch o.Kind {
		case KindClassified:
			result.Stats.Classified++
			result.Stats.ByMethod[o.Classification.Method]++
		case KindQuarantined:
			result.Stats.Quarantined++
			result.Stats.ByReason[o.Quarantine.Reason]++
		}
	}

	c.logger.Info("classification completed",
		logging.String(logging.FieldEventType, "classification_completed"),
		logging.Int("packs", result.Stats.Total),
		logging.Int("classified", result.Stats.Classified),
		logging.Int("quarantined", result.Stats.Quarantined),
		logging.Int("ai_batches", result.Stats.AIBatches),
		logging.Int("ai_failures", result.Stats.AIFailures),
	)
	return result
}

func (c *Cascade) bundleUnresolved(p pack.Pack, bundles BundleCache) bool {
	if p.Bundle == nil {
		return false
	}
	cls := bundles.Lookup(p.Bundle)
	return cls.IsZero() || cls.Confidence < c.thresholds.BundleInheritance
}
