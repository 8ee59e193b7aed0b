package review

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"samplesort/internal/pack"
	"samplesort/internal/services"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "review.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if err := store.SetOverride(ctx, Override{PackID: "p1", Family: "House"}); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	_ = store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	got, err := store.Override(ctx, "p1")
	if err != nil || got == nil || got.Family != "House" {
		t.Fatalf("override after reopen = %+v, %v", got, err)
	}
}

func TestRecordQuarantineKeepsLatestEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := store.RecordQuarantine(ctx, []Entry{{
		PackID: "p1", PackName: "Mystery Pack", Reason: "no taxonomic match",
		ManualReview: true, RunID: "run-1", RecordedAt: first,
	}}); err != nil {
		t.Fatalf("RecordQuarantine: %v", err)
	}

	candidate := &pack.Classification{Family: "Techno", Confidence: 0.4, Method: pack.MethodTaxonomic}
	if err := store.RecordQuarantine(ctx, []Entry{{
		PackID: "p1", PackName: "Mystery Pack", Reason: "low confidence",
		ManualReview: true, Candidate: candidate, RunID: "run-2", RecordedAt: first.Add(time.Hour),
	}}); err != nil {
		t.Fatalf("RecordQuarantine second: %v", err)
	}

	entries, err := store.ListQuarantine(ctx, "")
	if err != nil {
		t.Fatalf("ListQuarantine: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry per pack, got %d", len(entries))
	}
	got := entries[0]
	if got.Reason != "low confidence" || got.RunID != "run-2" || !got.ManualReview {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.Candidate == nil || got.Candidate.Family != "Techno" || got.Candidate.Confidence != 0.4 {
		t.Fatalf("candidate not round-tripped: %+v", got.Candidate)
	}
	if !got.RecordedAt.Equal(first.Add(time.Hour)) {
		t.Fatalf("recorded_at = %v", got.RecordedAt)
	}
}

func TestRecordQuarantineRequiresReason(t *testing.T) {
	store := openTestStore(t)
	err := store.RecordQuarantine(context.Background(), []Entry{{PackID: "p1", PackName: "x"}})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	entries, _ := store.ListQuarantine(context.Background(), "")
	if len(entries) != 0 {
		t.Fatalf("rejected batch must not be written, got %d entries", len(entries))
	}
}

func TestListQuarantineFiltersByReason(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{PackID: "a", PackName: "A", Reason: "AI failed", RecordedAt: base},
		{PackID: "b", PackName: "B", Reason: "low confidence", RecordedAt: base.Add(time.Minute)},
		{PackID: "c", PackName: "C", Reason: "AI failed", RecordedAt: base.Add(2 * time.Minute)},
	}
	if err := store.RecordQuarantine(ctx, entries); err != nil {
		t.Fatalf("RecordQuarantine: %v", err)
	}

	failed, err := store.ListQuarantine(ctx, "AI failed")
	if err != nil {
		t.Fatalf("ListQuarantine: %v", err)
	}
	if len(failed) != 2 || failed[0].PackID != "c" || failed[1].PackID != "a" {
		t.Fatalf("unexpected filtered entries: %+v", failed)
	}

	if err := store.Resolve(ctx, []string{"c"}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	all, _ := store.ListQuarantine(ctx, "")
	if len(all) != 2 {
		t.Fatalf("expected 2 entries after resolve, got %d", len(all))
	}
}

func TestOverrideLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.Override(ctx, "p1")
	if err != nil || got != nil {
		t.Fatalf("missing override = %+v, %v", got, err)
	}

	if err := store.SetOverride(ctx, Override{PackID: "p1", Family: "Trance", Style: "Uplifting", Note: "label says so"}); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	got, err = store.Override(ctx, "p1")
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if got.Family != "Trance" || got.Style != "Uplifting" || got.Method != pack.MethodManual {
		t.Fatalf("unexpected classification: %+v", got)
	}
	if got.Confidence != 1 {
		t.Fatalf("default override confidence = %v, want 1", got.Confidence)
	}
	if len(got.Reasoning) != 1 {
		t.Fatalf("expected operator note in reasoning, got %v", got.Reasoning)
	}

	if err := store.SetOverride(ctx, Override{PackID: "p1", Family: "House", Confidence: 0.8}); err != nil {
		t.Fatalf("SetOverride replace: %v", err)
	}
	list, err := store.ListOverrides(ctx)
	if err != nil || len(list) != 1 || list[0].Family != "House" || list[0].Style != "" {
		t.Fatalf("ListOverrides = %+v, %v", list, err)
	}

	if err := store.RemoveOverride(ctx, "p1"); err != nil {
		t.Fatalf("RemoveOverride: %v", err)
	}
	if err := store.RemoveOverride(ctx, "p1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second remove should be not found, got %v", err)
	}
}

func TestSetOverrideValidates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	tests := []struct {
		name string
		in   Override
	}{
		{"missing family", Override{PackID: "p1"}},
		{"missing pack", Override{Family: "House"}},
		{"confidence above one", Override{PackID: "p1", Family: "House", Confidence: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SetOverride(ctx, tt.in); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.RecordQuarantine(ctx, []Entry{{PackID: "a", PackName: "A", Reason: "AI failed"}}); err != nil {
		t.Fatalf("RecordQuarantine: %v", err)
	}
	if err := store.SetOverride(ctx, Override{PackID: "b", Family: "Techno"}); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}

	removed, err := store.Clear(ctx, false)
	if err != nil || removed != 1 {
		t.Fatalf("Clear(false) = %d, %v", removed, err)
	}
	if got, _ := store.Override(ctx, "b"); got == nil {
		t.Fatal("Clear without overrides removed an override")
	}

	removed, err = store.Clear(ctx, true)
	if err != nil || removed != 1 {
		t.Fatalf("Clear(true) = %d, %v", removed, err)
	}
}

type busyError struct{ code int }

func (e busyError) Error() string { return "database is locked" }
func (e busyError) Code() int     { return e.code }

func TestRetryOnBusy(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := retryOnBusy(ctx, func() error {
		calls++
		if calls < 3 {
			return busyError{code: sqliteBusyCode}
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third attempt, got calls=%d err=%v", calls, err)
	}

	calls = 0
	err = retryOnBusy(ctx, func() error {
		calls++
		return sql.ErrConnDone
	})
	if !errors.Is(err, sql.ErrConnDone) || calls != 1 {
		t.Fatalf("non-busy errors must not retry: calls=%d err=%v", calls, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = retryOnBusy(cancelled, func() error { return busyError{code: sqliteBusyCode} })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
