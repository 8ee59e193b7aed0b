package clustering

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"samplesort/internal/pack"
	"samplesort/internal/services"
	"samplesort/internal/similarity"
)

// Matrix is a read-only symmetric similarity matrix with a unit diagonal.
type Matrix struct {
	ids    []string
	index  map[string]int
	values []float64
}

// BuildMatrix scores every folder pair. Rows are computed concurrently on up
// to workers goroutines; each cell is written exactly once.
func BuildMatrix(ctx context.Context, folders []pack.FolderPath, workers int) (*Matrix, error) {
	n := len(folders)
	m := &Matrix{
		ids:    make([]string, n),
		index:  make(map[string]int, n),
		values: make([]float64, n*n),
	}
	features := make([]similarity.Features, n)
	for i, f := range folders {
		if _, dup := m.index[f.ID]; dup {
			return nil, services.Wrap(services.ErrValidation, "cluster", "build matrix", fmt.Sprintf("duplicate folder id %q", f.ID), nil)
		}
		m.ids[i] = f.ID
		m.index[f.ID] = i
		features[i] = similarity.NewFeatures(f)
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.values[i*n+i] = 1
			for j := i + 1; j < n; j++ {
				s := similarity.Compare(features[i], features[j])
				m.values[i*n+j] = s
				m.values[j*n+i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "cluster", "build matrix", "cancelled", err)
	}
	return m, nil
}

// Len returns the number of folders.
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// At returns the similarity of folders i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.values[i*len(m.ids)+j]
}

// ID returns the folder ID at index i.
func (m *Matrix) ID(i int) string { return m.ids[i] }

// Index returns the position of a folder ID.
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Similarity looks a pair up by folder ID. Unknown IDs score 0.
func (m *Matrix) Similarity(a, b string) float64 {
	i, ok := m.Index(a)
	if !ok {
		return 0
	}
	j, ok := m.Index(b)
	if !ok {
		return 0
	}
	return m.At(i, j)
}

// average returns the mean similarity between two disjoint index groups.
func (m *Matrix) average(a, b []int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sum float64
	for _, i := range a {
		for _, j := range b {
			sum += m.At(i, j)
		}
	}
	return sum / float64(len(a)*len(b))
}
