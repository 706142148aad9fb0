package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-categorizer/internal/category"
)

// seedCleanupFixture creates real files on disk, records them, then
// deletes the ones named in missing so the database disagrees with the
// filesystem.
func seedCleanupFixture(t *testing.T, s *Store, names []string, missing []string) map[string]FileRecord {
	t.Helper()

	dir := t.TempDir()
	byName := make(map[string]FileRecord, len(names))
	records := make([]FileRecord, 0, len(names))

	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		c, ok := category.Classify(path)
		require.True(t, ok, "fixture %s must be categorizable", name)

		rec := testRecord(path, c, 1, time.Now())
		byName[name] = rec
		records = append(records, rec)
	}
	require.NoError(t, s.UpsertBatch(context.Background(), records))

	for _, name := range missing {
		require.NoError(t, os.Remove(byName[name].Path))
	}
	return byName
}

func TestReconcileDryRunDoesNotWrite(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	recs := seedCleanupFixture(t, s,
		[]string{"keep.jpg", "gone.svg", "also-keep.lbrn2"},
		[]string{"gone.svg"},
	)

	result, err := s.ReconcileExistence(ctx, true, 0, nil)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 3, result.TotalChecked)
	assert.Equal(t, 1, result.AffectedCount)
	assert.Equal(t, []string{recs["gone.svg"].Path}, result.AffectedPaths)

	// The record itself is untouched.
	got, err := s.GetByPath(ctx, recs["gone.svg"].Path)
	require.NoError(t, err)
	assert.True(t, got.Exists)
}

func TestReconcileMarksMissing(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	recs := seedCleanupFixture(t, s,
		[]string{"keep.jpg", "gone.svg"},
		[]string{"gone.svg"},
	)

	result, err := s.ReconcileExistence(ctx, false, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AffectedCount)

	got, err := s.GetByPath(ctx, recs["gone.svg"].Path)
	require.NoError(t, err)
	assert.False(t, got.Exists)

	got, err = s.GetByPath(ctx, recs["keep.jpg"].Path)
	require.NoError(t, err)
	assert.True(t, got.Exists)
}

func TestReconcileRestoresReappearedFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	recs := seedCleanupFixture(t, s, []string{"back.jpg"}, nil)

	// Flag the record missing, then reconcile against the live file.
	rec := recs["back.jpg"]
	rec.Exists = false
	require.NoError(t, s.UpsertBatch(ctx, []FileRecord{rec}))

	result, err := s.ReconcileExistence(ctx, false, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AffectedCount)

	got, err := s.GetByPath(ctx, rec.Path)
	require.NoError(t, err)
	assert.True(t, got.Exists)
}

func TestPurgeMissingDeletesRecords(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	recs := seedCleanupFixture(t, s,
		[]string{"keep.jpg", "gone.svg", "gone-too.png"},
		[]string{"gone.svg", "gone-too.png"},
	)

	result, err := s.PurgeMissing(ctx, false, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.AffectedCount)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.GetByPath(ctx, recs["gone.svg"].Path)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = s.GetByPath(ctx, recs["keep.jpg"].Path)
	assert.NoError(t, err)
}

func TestPurgeMissingDryRun(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	seedCleanupFixture(t, s,
		[]string{"keep.jpg", "gone.svg"},
		[]string{"gone.svg"},
	)

	result, err := s.PurgeMissing(ctx, true, 0, nil)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.AffectedCount)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSweepReportsBatchProgress(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	seedCleanupFixture(t, s,
		[]string{"a.jpg", "b.svg", "c.png", "d.lbrn", "e.eps"},
		[]string{"b.svg"},
	)

	var calls int
	var lastChecked, lastAffected int
	result, err := s.ReconcileExistence(ctx, true, 2, func(checked, affected int) {
		calls++
		lastChecked = checked
		lastAffected = affected
	})
	require.NoError(t, err)

	// 5 records at batch size 2 -> 3 batches.
	assert.Equal(t, 3, calls)
	assert.Equal(t, result.TotalChecked, lastChecked)
	assert.Equal(t, result.AffectedCount, lastAffected)
	assert.Equal(t, 5, result.TotalChecked)
}

func TestSweepCancellationBetweenBatches(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	seedCleanupFixture(t, s,
		[]string{"a.jpg", "b.svg", "c.png", "d.lbrn"},
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := s.ReconcileExistence(ctx, false, 1, func(checked, affected int) {
		if checked >= 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanupRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, CleanupResult{}.CleanupRate())
	assert.Equal(t, 0.25, CleanupResult{TotalChecked: 4, AffectedCount: 1}.CleanupRate())
}
