package aifallback

import (
	"context"

	"samplesort/internal/pack"
)

// Static answers from a fixed table keyed by pack ID. Err, when set, fails
// every batch. Packs with no entry receive Default.
type Static struct {
	Results map[string]pack.Classification
	Default pack.Classification
	Err     error
}

// ClassifyBatch implements the cascade adapter.
func (s Static) ClassifyBatch(ctx context.Context, packs []pack.Pack) ([]pack.Classification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]pack.Classification, len(packs))
	for i, p := range packs {
		cls, ok := s.Results[p.ID]
		if !ok {
			cls = s.Default
		}
		out[i] = *cls.Clone()
		out[i].Method = pack.MethodAIFallback
	}
	return out, nil
}
