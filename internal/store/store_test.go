package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-categorizer/internal/category"
)

// newTestStore opens a store on a throwaway database with a no-delay
// retry policy so failure tests don't sleep.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "files.db")
	policy := RetryPolicy{MaxRetries: 2, Delay: time.Millisecond, BackoffFactor: 1.0}
	s, err := NewWithPolicies(context.Background(), dbPath, policy, NewBreaker(5, 50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testRecord builds a record without touching the filesystem.
func testRecord(path string, c category.Category, size int64, modified time.Time) FileRecord {
	return FileRecord{
		ID:           newTestID(path),
		Path:         path,
		Filename:     filepath.Base(path),
		Category:     c,
		Size:         size,
		ModifiedDate: modified,
		ScannedDate:  time.Now(),
		Exists:       true,
	}
}

// newTestID derives a stable fake identifier from the path so tests can
// assert on it without generating UUIDs.
func newTestID(path string) string {
	return "id-" + filepath.Base(path)
}

func TestNewCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "files.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
	assert.Equal(t, dbPath, s.Path())
}

func TestUpsertBatchAndGetByPath(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	modified := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord("/photos/cat.jpg", category.Graphics, 2048, modified)
	require.NoError(t, s.UpsertBatch(ctx, []FileRecord{rec}))

	got, err := s.GetByPath(ctx, "/photos/cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "cat.jpg", got.Filename)
	assert.Equal(t, category.Graphics, got.Category)
	assert.Equal(t, int64(2048), got.Size)
	assert.Equal(t, modified.Unix(), got.ModifiedDate.Unix())
	assert.True(t, got.Exists)
}

func TestUpsertBatchPreservesIDOnRescan(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	first := testRecord("/photos/cat.jpg", category.Graphics, 100, time.Now())
	require.NoError(t, s.UpsertBatch(ctx, []FileRecord{first}))

	// A re-scan produces a fresh ID for the same path; the stored
	// identifier must survive the conflict update.
	second := first
	second.ID = "id-different"
	second.Size = 999
	require.NoError(t, s.UpsertBatch(ctx, []FileRecord{second}))

	got, err := s.GetByPath(ctx, "/photos/cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, int64(999), got.Size)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertBatchEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.UpsertBatch(context.Background(), nil))

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUpsertBatchSpansChunks(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	records := make([]FileRecord, upsertChunkSize+7)
	for i := range records {
		path := fmt.Sprintf("/bulk/file-%03d.svg", i)
		records[i] = testRecord(path, category.Vector, int64(i), time.Now())
	}
	require.NoError(t, s.UpsertBatch(ctx, records))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(records), count)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord("/projects/sign.lbrn2", category.LightBurn, 512, time.Now())
	require.NoError(t, s.UpsertBatch(ctx, []FileRecord{rec}))

	removed, err := s.Remove(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Remove(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second remove should report no row deleted")
}

func TestGetByPathNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.GetByPath(context.Background(), "/nowhere/nothing.jpg")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	assert.NoError(t, s.HealthCheck(context.Background()))
	assert.Equal(t, "closed", s.BreakerState())
}

func TestCountAcrossOperations(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	records := []FileRecord{
		testRecord("/a/one.jpg", category.Graphics, 1, time.Now()),
		testRecord("/a/two.svg", category.Vector, 2, time.Now()),
	}
	require.NoError(t, s.UpsertBatch(ctx, records))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = s.Remove(ctx, records[0].ID)
	require.NoError(t, err)

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
