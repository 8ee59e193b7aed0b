package testsupport

import (
	"testing"

	"samplesort/internal/config"
	"samplesort/internal/review"
)

// MustOpenReview opens the review store for tests and registers cleanup.
func MustOpenReview(t testing.TB, cfg *config.Config) *review.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := review.Open(cfg.Paths.ReviewDB)
	if err != nil {
		t.Fatalf("review.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
