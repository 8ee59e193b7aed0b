package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"samplesort/internal/pack"
	"samplesort/internal/services"
)

// Store manages the review database.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is the latest quarantine record for a pack.
type Entry struct {
	PackID       string
	PackName     string
	Reason       string
	ManualReview bool
	Candidate    *pack.Classification
	RunID        string
	RecordedAt   time.Time
}

// Override is an operator-supplied classification.
type Override struct {
	PackID     string
	Family     string
	Style      string
	Confidence float64
	Note       string
	UpdatedAt  time.Time
}

// Open initializes or connects to the review database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "review", "open", "review database path is empty", nil)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// RecordQuarantine upserts the quarantine entries, replacing any earlier
// entry for the same pack. A pack that later classifies cleanly is removed
// with Resolve.
func (s *Store) RecordQuarantine(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin quarantine tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		now := time.Now().UTC()
		for _, e := range entries {
			if strings.TrimSpace(e.PackID) == "" {
				return services.Wrap(services.ErrValidation, "review", "record quarantine", "entry has no pack id", nil)
			}
			if strings.TrimSpace(e.Reason) == "" {
				return services.Wrap(services.ErrValidation, "review", "record quarantine",
					fmt.Sprintf("entry %s has no reason", e.PackID), nil)
			}
			candidate, err := encodeCandidate(e.Candidate)
			if err != nil {
				return err
			}
			recorded := e.RecordedAt
			if recorded.IsZero() {
				recorded = now
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO quarantine
				(pack_id, pack_name, reason, manual_review, candidate_json, run_id, recorded_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(pack_id) DO UPDATE SET
					pack_name = excluded.pack_name,
					reason = excluded.reason,
					manual_review = excluded.manual_review,
					candidate_json = excluded.candidate_json,
					run_id = excluded.run_id,
					recorded_at = excluded.recorded_at`,
				e.PackID, e.PackName, e.Reason, boolToInt(e.ManualReview), candidate,
				nullableString(e.RunID), recorded.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("upsert quarantine %s: %w", e.PackID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit quarantine: %w", err)
		}
		return nil
	})
}

// Resolve drops quarantine entries for packs that are no longer quarantined.
func (s *Store) Resolve(ctx context.Context, packIDs []string) error {
	for _, id := range packIDs {
		if err := s.exec(ctx, "DELETE FROM quarantine WHERE pack_id = ?", id); err != nil {
			return fmt.Errorf("resolve %s: %w", id, err)
		}
	}
	return nil
}

// ListQuarantine returns quarantine entries, newest first. A non-empty reason
// filters on the exact reason string.
func (s *Store) ListQuarantine(ctx context.Context, reason string) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT pack_id, pack_name, reason, manual_review, candidate_json, run_id, recorded_at
		FROM quarantine`
	var args []any
	if reason = strings.TrimSpace(reason); reason != "" {
		query += " WHERE reason = ?"
		args = append(args, reason)
	}
	query += " ORDER BY recorded_at DESC, pack_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quarantine: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			manual    int
			candidate sql.NullString
			runID     sql.NullString
			recorded  string
		)
		if err := rows.Scan(&e.PackID, &e.PackName, &e.Reason, &manual, &candidate, &runID, &recorded); err != nil {
			return nil, fmt.Errorf("scan quarantine: %w", err)
		}
		e.ManualReview = manual != 0
		e.RunID = runID.String
		e.RecordedAt = parseTime(recorded)
		if candidate.Valid && candidate.String != "" {
			var c pack.Classification
			if err := json.Unmarshal([]byte(candidate.String), &c); err != nil {
				return nil, fmt.Errorf("decode candidate for %s: %w", e.PackID, err)
			}
			e.Candidate = &c
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetOverride stores or replaces the manual classification for a pack.
func (s *Store) SetOverride(ctx context.Context, o Override) error {
	if strings.TrimSpace(o.PackID) == "" || strings.TrimSpace(o.Family) == "" {
		return services.Wrap(services.ErrValidation, "review", "set override", "pack id and family are required", nil)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return services.Wrap(services.ErrValidation, "review", "set override",
			fmt.Sprintf("confidence %.2f outside [0,1]", o.Confidence), nil)
	}
	if o.Confidence == 0 {
		o.Confidence = 1
	}
	return s.exec(ctx, `INSERT INTO overrides (pack_id, family, style, confidence, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pack_id) DO UPDATE SET
			family = excluded.family,
			style = excluded.style,
			confidence = excluded.confidence,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		o.PackID, o.Family, nullableString(o.Style), o.Confidence, nullableString(o.Note),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// RemoveOverride deletes the override for packID. Removing a missing override
// returns ErrNotFound.
func (s *Store) RemoveOverride(ctx context.Context, packID string) error {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM overrides WHERE pack_id = ?", packID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("remove override: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "review", "remove override",
			fmt.Sprintf("no override for pack %s", packID), nil)
	}
	return nil
}

// ListOverrides returns every override ordered by pack id.
func (s *Store) ListOverrides(ctx context.Context) ([]Override, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT pack_id, family, style, confidence, note, updated_at FROM overrides ORDER BY pack_id")
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// Override returns the manual classification for packID, or nil when the
// operator has not set one.
func (s *Store) Override(ctx context.Context, packID string) (*pack.Classification, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT pack_id, family, style, confidence, note, updated_at FROM overrides WHERE pack_id = ?", packID)
	o, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := &pack.Classification{
		Family:     o.Family,
		Style:      o.Style,
		Confidence: o.Confidence,
		Method:     pack.MethodManual,
		Rules:      []string{"manual-override"},
	}
	if o.Note != "" {
		c.AddReason("operator note: %s", o.Note)
	}
	return c, nil
}

// Clear removes quarantine entries and, when overrides is true, every
// override as well. It returns the number of rows removed.
func (s *Store) Clear(ctx context.Context, overrides bool) (int64, error) {
	ctx = ensureContext(ctx)
	tables := []string{"quarantine"}
	if overrides {
		tables = append(tables, "overrides")
	}
	var total int64
	for _, table := range tables {
		var affected int64
		err := retryOnBusy(ctx, func() error {
			res, err := s.db.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return err
			}
			affected, err = res.RowsAffected()
			return err
		})
		if err != nil {
			return total, fmt.Errorf("clear %s: %w", table, err)
		}
		total += affected
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverride(row rowScanner) (*Override, error) {
	var (
		o       Override
		style   sql.NullString
		note    sql.NullString
		updated string
	)
	if err := row.Scan(&o.PackID, &o.Family, &style, &o.Confidence, &note, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan override: %w", err)
	}
	o.Style = style.String
	o.Note = note.String
	o.UpdatedAt = parseTime(updated)
	return &o, nil
}

func encodeCandidate(c *pack.Classification) (any, error) {
	if c.IsZero() {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode candidate: %w", err)
	}
	return string(data), nil
}
