// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-harvester/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.LedgerConfig{
		Path: filepath.Join(t.TempDir(), "harvest.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	runID := uuid.NewString()

	require.NoError(t, s.BeginRun(ctx, runID, "https://example.com/sds/"))

	outcomes := []types.Outcome{
		{URL: "https://example.com/a.pdf", Kind: types.OutcomeDownloaded, Filename: "a.pdf"},
		{URL: "https://example.com/b.pdf", Kind: types.OutcomeSkippedExisting, Filename: "b.pdf"},
		{URL: "https://example.com/c.pdf", Kind: types.OutcomeFetchFailed, Reason: "HTTP 404"},
	}
	for _, o := range outcomes {
		require.NoError(t, s.RecordOutcome(ctx, runID, o))
	}

	counts := types.RunCounts{Downloaded: 1, SkippedExisting: 1, Failed: 1}
	require.NoError(t, s.FinishRun(ctx, runID, counts))

	runs, err := s.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "https://example.com/sds/", runs[0].SeedURL)
	assert.Equal(t, counts, runs[0].RunCounts)
	assert.False(t, runs[0].StartedAt.IsZero())
	assert.False(t, runs[0].FinishedAt.IsZero())

	got, err := s.Outcomes(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, outcomes, got)
}

func TestTimestampsAreFixedWidth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	runID := uuid.NewString()

	require.NoError(t, s.BeginRun(ctx, runID, "https://example.com/"))
	require.NoError(t, s.RecordOutcome(ctx, runID, types.Outcome{
		URL: "https://example.com/a.pdf", Kind: types.OutcomeDownloaded, Filename: "a.pdf",
	}))

	// Lexicographic TEXT ordering is only chronological when every
	// timestamp has the same width, trailing zeros included.
	fixedWidth := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{9}Z$`)

	var started, recorded string
	require.NoError(t, s.db.QueryRow(
		`SELECT started_at FROM runs WHERE id = ?`, runID).Scan(&started))
	require.NoError(t, s.db.QueryRow(
		`SELECT recorded_at FROM outcomes WHERE run_id = ?`, runID).Scan(&recorded))
	assert.Regexp(t, fixedWidth, started)
	assert.Regexp(t, fixedWidth, recorded)
}

func TestRecentRunsTieBreak(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Two runs with an identical start timestamp: insertion order must
	// decide, newest insert first.
	const started = "2026-08-27T10:00:00.100000000Z"
	first, second := uuid.NewString(), uuid.NewString()
	for _, id := range []string{first, second} {
		_, err := s.db.Exec(
			`INSERT INTO runs (id, seed_url, started_at) VALUES (?, ?, ?)`,
			id, "https://example.com/", started)
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		ids = append(ids, id)
		require.NoError(t, s.BeginRun(ctx, id, "https://example.com/"))
	}

	runs, err := s.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Newest first.
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestOutcomesUnknownRun(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Outcomes(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := types.LedgerConfig{Path: filepath.Join(dir, "harvest.db")}
	ctx := context.Background()
	runID := uuid.NewString()

	s, err := NewStore(cfg)
	require.NoError(t, err)
	require.NoError(t, s.BeginRun(ctx, runID, "https://example.com/"))
	require.NoError(t, s.Close())

	s2, err := NewStore(cfg)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
}
