// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists harvest runs and their per-URL outcomes in a
// SQLite database so past runs can be inspected with the report command.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-harvester/pkg/types"
)

const defaultMaxRuns = 10

// timestampFormat is fixed-width (nanoseconds never trimmed) so the
// TEXT columns order chronologically under SQLite's lexicographic
// comparison; RFC3339Nano would drop trailing zeros and break that.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the outcome ledger database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// NewStore opens or creates the ledger database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed_url TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			downloaded INTEGER DEFAULT 0,
			skipped_existing INTEGER DEFAULT 0,
			skipped_not_pdf INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0,
			ignored_absolute INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			url TEXT NOT NULL,
			kind TEXT NOT NULL,
			filename TEXT,
			reason TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a harvest run.
func (s *Store) BeginRun(ctx context.Context, runID, seedURL string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed_url, started_at) VALUES (?, ?, ?)`,
		runID, seedURL, time.Now().UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("recording run start: %w", err)
	}
	return nil
}

// RecordOutcome appends one download outcome to the run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, o types.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, url, kind, filename, reason, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, o.URL, string(o.Kind), o.Filename, o.Reason,
		time.Now().UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and completion time for a run.
func (s *Store) FinishRun(ctx context.Context, runID string, counts types.RunCounts) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, downloaded = ?, skipped_existing = ?,
		 skipped_not_pdf = ?, failed = ?, ignored_absolute = ? WHERE id = ?`,
		time.Now().UTC().Format(timestampFormat),
		counts.Downloaded, counts.SkippedExisting, counts.SkippedNotPDF,
		counts.Failed, counts.IgnoredAbsolute, runID)
	if err != nil {
		return fmt.Errorf("recording run completion: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first. A limit of 0
// uses the configured default.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed_url, started_at, COALESCE(finished_at, ''),
		        downloaded, skipped_existing, skipped_not_pdf, failed, ignored_absolute
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var r types.RunRecord
		var started, finished string
		if err := rows.Scan(&r.ID, &r.SeedURL, &started, &finished,
			&r.Downloaded, &r.SkippedExisting, &r.SkippedNotPDF,
			&r.Failed, &r.IgnoredAbsolute); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(timestampFormat, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(timestampFormat, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns every outcome recorded for a run, in recording order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]types.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, kind, COALESCE(filename, ''), COALESCE(reason, '')
		 FROM outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.Outcome
	for rows.Next() {
		var o types.Outcome
		var kind string
		if err := rows.Scan(&o.URL, &kind, &o.Filename, &o.Reason); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Kind = types.OutcomeKind(kind)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
