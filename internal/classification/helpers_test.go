package classification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"samplesort/internal/pack"
	"samplesort/internal/taxonomy"
)

type fakeAdapter struct {
	mu      sync.Mutex
	batches [][]string
	respond func(call int, ctx context.Context, batch []pack.Pack) ([]pack.Classification, error)
}

func (f *fakeAdapter) ClassifyBatch(ctx context.Context, batch []pack.Pack) ([]pack.Classification, error) {
	f.mu.Lock()
	call := len(f.batches)
	ids := make([]string, len(batch))
	for i, p := range batch {
		ids[i] = p.ID
	}
	f.batches = append(f.batches, ids)
	f.mu.Unlock()
	if f.respond == nil {
		return nil, errors.New("no responder")
	}
	return f.respond(call, ctx, batch)
}

func (f *fakeAdapter) calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.batches...)
}

// answerAll returns the same classification for every pack in a batch.
func answerAll(family string, confidence float64) func(int, context.Context, []pack.Pack) ([]pack.Classification, error) {
	return func(_ int, _ context.Context, batch []pack.Pack) ([]pack.Classification, error) {
		out := make([]pack.Classification, len(batch))
		for i := range out {
			out[i] = pack.Classification{Family: family, Confidence: confidence}
		}
		return out, nil
	}
}

type fakeOverrides struct {
	byID map[string]*pack.Classification
	err  error
}

func (f fakeOverrides) Override(_ context.Context, packID string) (*pack.Classification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[packID], nil
}

func newTestCascade(t *testing.T, opts ...Option) *Cascade {
	t.Helper()
	base := []Option{WithBatching(10, 0)}
	return New(taxonomy.Default(), DefaultThresholds(), append(base, opts...)...)
}
