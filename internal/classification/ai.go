package classification

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"samplesort/internal/logging"
	"samplesort/internal/pack"
)

type aiStatus int

const (
	aiDisabled aiStatus = iota
	aiUnavailable
	aiAnswered
	aiCancelled
)

type aiResult struct {
	status aiStatus
	class  *pack.Classification
	err    error
}

type batchStats struct {
	batches  int
	failures int
}

func (c *Cascade) newLimiter() *rate.Limiter {
	if c.batchDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(c.batchDelay), 1)
}

// submitAI sends packs to the adapter in strictly sequential batches and
// returns one result per pack, in input order. Once ctx is cancelled no new
// batch is submitted; a batch already handed to the adapter runs to
// completion on a context detached from cancellation.
func (c *Cascade) submitAI(ctx context.Context, packs []pack.Pack) ([]aiResult, batchStats) {
	results := make([]aiResult, len(packs))
	var stats batchStats
	if len(packs) == 0 {
		return results, stats
	}
	if c.adapter == nil {
		return results, stats
	}
	size := c.batchSize
	if size <= 0 {
		size = len(packs)
	}
	limiter := c.newLimiter()
	for start := 0; start < len(packs); start += size {
		end := min(start+size, len(packs))
		if err := ctx.Err(); err != nil {
			markCancelled(results[start:], err)
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			markCancelled(results[start:], err)
			break
		}
		batch := packs[start:end]
		stats.batches++
		classes, err := c.adapter.ClassifyBatch(context.WithoutCancel(ctx), batch)
		if err == nil && len(classes) < len(batch) {
			err = fmt.Errorf("adapter returned %d of %d results", len(classes), len(batch))
		}
		if err != nil {
			stats.failures++
			logging.WarnWithContext(c.logger, "ai batch unavailable", "ai_batch_failed",
				logging.Int("batch_start", start),
				logging.Int("batch_size", len(batch)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the ai section of the config and the provider status"),
				logging.String(logging.FieldImpact, "affected packs use keyword fallback or quarantine"),
			)
			for i := start; i < end; i++ {
				results[i] = aiResult{status: aiUnavailable, err: err}
			}
			continue
		}
		if len(classes) > len(batch) {
			c.logger.Debug("ai batch returned extra results",
				logging.Int("expected", len(batch)),
				logging.Int("received", len(classes)),
			)
		}
		for i := range batch {
			cls := classes[i]
			results[start+i] = aiResult{status: aiAnswered, class: &cls}
		}
		c.logger.Debug("ai batch completed",
			logging.Int("batch_start", start),
			logging.Int("batch_size", len(batch)),
		)
	}
	return results, stats
}

func markCancelled(results []aiResult, err error) {
	for i := range results {
		results[i] = aiResult{status: aiCancelled, err: err}
	}
}

// acceptAI validates an adapter answer: the family must exist in the
// taxonomy and its confidence must reach the acceptance floor.
func (c *Cascade) acceptAI(cls *pack.Classification) (*pack.Classification, error) {
	if cls.IsZero() {
		return nil, errors.New("empty family")
	}
	fam, ok := c.index.FamilyByName(cls.Family)
	if !ok {
		return nil, fmt.Errorf("unknown family %q", cls.Family)
	}
	out := cls.Clone()
	out.Family = fam.Name
	if out.Style != "" {
		out.Style = c.index.CanonicalStyle(out.Style)
	}
	out.Method = pack.MethodAIFallback
	out.Confidence = pack.ClampConfidence(out.Confidence)
	return out, nil
}

// keywordFallback degrades the taxonomic candidate when the AI stage cannot
// answer. It returns nil when the reduced confidence misses the floor.
func (c *Cascade) keywordFallback(candidate *pack.Classification) *pack.Classification {
	if candidate.IsZero() {
		return nil
	}
	conf := candidate.Confidence * c.thresholds.FallbackPenalty
	if conf < c.thresholds.Confidence {
		return nil
	}
	out := candidate.Clone()
	out.Confidence = conf
	out.Method = pack.MethodTaxonomic
	out.Rules = append(out.Rules, "keyword-fallback")
	out.AddReason("no usable ai answer, keyword candidate reduced to %.2f", conf)
	return out
}

// resolve turns an AI answer (or its absence) into a terminal outcome.
func (c *Cascade) resolve(p pack.Pack, candidate *pack.Classification, res aiResult, bundleUnresolved bool) Outcome {
	switch res.status {
	case aiCancelled:
		return quarantined(p, ReasonCancelled, candidate)
	case aiAnswered:
		cls, err := c.acceptAI(res.class)
		if err != nil {
			c.logger.Debug("ai answer rejected",
				logging.String(logging.FieldPackID, p.ID),
				logging.Error(err),
			)
			return c.fallbackOrQuarantine(p, candidate, ReasonAIFailed)
		}
		if cls.Confidence < c.thresholds.Confidence {
			if fb := c.keywordFallback(candidate); fb != nil {
				c.logDecision(p, "keyword_fallback", "classified", fb.Label())
				return classified(p, fb)
			}
			best := candidate
			if best.IsZero() || cls.Confidence > best.Confidence {
				best = cls
			}
			c.logDecision(p, "ai", "quarantined", ReasonLowConfidence)
			return quarantined(p, ReasonLowConfidence, best)
		}
		cls.AddReason("classified by ai fallback")
		c.logDecision(p, "ai", "classified", cls.Label())
		return classified(p, cls)
	case aiUnavailable:
		return c.fallbackOrQuarantine(p, candidate, ReasonAIFailed)
	default:
		reason := ReasonLowConfidence
		switch {
		case candidate.IsZero() && bundleUnresolved:
			reason = ReasonBundleUnresolved
		case candidate.IsZero():
			reason = ReasonNoTaxonomicMatch
		}
		return c.fallbackOrQuarantine(p, candidate, reason)
	}
}

func (c *Cascade) fallbackOrQuarantine(p pack.Pack, candidate *pack.Classification, reason string) Outcome {
	if fb := c.keywordFallback(candidate); fb != nil {
		c.logDecision(p, "keyword_fallback", "classified", fb.Label())
		return classified(p, fb)
	}
	c.logDecision(p, "quarantine", "quarantined", reason)
	return quarantined(p, reason, candidate)
}
