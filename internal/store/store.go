package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"file-categorizer/internal/logging"
	"file-categorizer/internal/metrics"
)

// Default timeout for single database operations.
const defaultTimeout = 5 * time.Second

// upsertChunkSize bounds transaction size and lock duration for batch
// upserts. Each chunk commits independently.
const upsertChunkSize = 100

// DefaultCleanupBatchSize is the number of records probed per
// reconciliation batch when the caller does not specify one.
const DefaultCleanupBatchSize = 1000

// Store manages the files table. It is safe for concurrent use; SQLite's
// WAL journal plus the retry policy are the only serialization between
// readers and the single writer.
type Store struct {
	db      *sql.DB
	dbPath  string
	retry   RetryPolicy
	breaker *Breaker
}

// New opens (creating if needed) the database at dbPath and ensures the
// schema exists. The parent directory is created when missing.
func New(ctx context.Context, dbPath string) (*Store, error) {
	return NewWithPolicies(ctx, dbPath, DefaultRetryPolicy(), NewBreaker(5, 30*time.Second))
}

// NewWithPolicies is New with explicit retry and circuit-breaker policies,
// used by tests to avoid real backoff delays.
func NewWithPolicies(ctx context.Context, dbPath string, retry RetryPolicy, breaker *Breaker) (*Store, error) {
	logging.Info("Database path: %s", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, &Error{Kind: KindUnavailable, Op: "open", Err: fmt.Errorf("create database directory: %w", err)}
	}

	// WAL keeps readers unblocked by the writer; busy_timeout bounds the
	// wait for a lock before the driver reports SQLITE_BUSY.
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Op: "open", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, &Error{Kind: KindUnavailable, Op: "open", Err: err}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:      db,
		dbPath:  dbPath,
		retry:   retry,
		breaker: breaker,
	}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, err
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		category TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		modified_date INTEGER NOT NULL,
		scanned_date INTEGER NOT NULL,
		file_exists INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_files_category ON files(category);
	CREATE INDEX IF NOT EXISTS idx_files_filename ON files(filename COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_files_modified_date ON files(modified_date);
	CREATE INDEX IF NOT EXISTS idx_files_exists ON files(file_exists);
	`

	return s.execWrite(ctx, "initialize", func() error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.dbPath }

// execWrite runs a write operation through the retry policy and circuit
// breaker, classifying driver errors along the way.
func (s *Store) execWrite(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := s.retry.Do(op, func() error {
		if err := ctx.Err(); err != nil {
			return classify(op, err)
		}
		callErr := s.breaker.Call(func() error {
			return fn()
		})
		return classify(op, callErr)
	})
	recordQuery(op, start, err)
	return err
}

// UpsertBatch inserts or updates records keyed by path. Large batches
// are applied in chunks of 100 with one transaction per chunk; a failure
// mid-batch leaves earlier chunks committed. Re-applying the same batch
// is idempotent (last write wins per path, record IDs are preserved).
func (s *Store) UpsertBatch(ctx context.Context, records []FileRecord) error {
	if len(records) == 0 {
		return nil
	}

	totalChunks := (len(records) + upsertChunkSize - 1) / upsertChunkSize

	for i := 0; i < len(records); i += upsertChunkSize {
		end := i + upsertChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[i:end]
		chunkNum := i/upsertChunkSize + 1
		logging.Debug("Upserting chunk %d/%d (%d records)", chunkNum, totalChunks, len(chunk))

		if err := s.execWrite(ctx, "upsert_batch", func() error {
			return s.upsertChunk(ctx, chunk)
		}); err != nil {
			return fmt.Errorf("chunk %d/%d: %w", chunkNum, totalChunks, err)
		}
	}

	metrics.DBRowsAffected.WithLabelValues("upsert_batch").Observe(float64(len(records)))
	return nil
}

func (s *Store) upsertChunk(ctx context.Context, chunk []FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO files (id, path, filename, category, size, modified_date, scanned_date, file_exists)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		filename = excluded.filename,
		category = excluded.category,
		size = excluded.size,
		modified_date = excluded.modified_date,
		scanned_date = excluded.scanned_date,
		file_exists = excluded.file_exists
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunk {
		r := &chunk[i]
		if _, err := stmt.ExecContext(ctx,
			r.ID,
			r.Path,
			r.Filename,
			string(r.Category),
			r.Size,
			r.ModifiedDate.Unix(),
			r.ScannedDate.Unix(),
			boolToInt(r.Exists),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Remove deletes one record by identifier and reports whether a row was
// actually removed.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.execWrite(ctx, "remove", func() error {
		result, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		removed = rows > 0
		return nil
	})
	return removed, err
}

// GetByPath retrieves a single record by absolute path.
func (s *Store) GetByPath(ctx context.Context, path string) (*FileRecord, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_by_path", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, filename, category, size, modified_date, scanned_date, file_exists
		FROM files WHERE path = ?`, path)

	record, scanErr := scanRecord(row)
	if scanErr != nil {
		err = classify("get_by_path", scanErr)
		return nil, err
	}
	return record, nil
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&count)
	if err != nil {
		return 0, classify("count", err)
	}
	return count, nil
}

// HealthCheck verifies the database is reachable and structurally sound.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var result string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return classify("health_check", err)
	}
	if result != "ok" {
		return &Error{Kind: KindCorruption, Op: "health_check", Err: fmt.Errorf("integrity check failed: %s", result)}
	}
	return nil
}

// BreakerState exposes the circuit breaker position for health reporting.
func (s *Store) BreakerState() string {
	return s.breaker.State()
}

// UpdateDBMetrics refreshes connection-pool gauges.
func (s *Store) UpdateDBMetrics() {
	stats := s.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// recordQuery records database query metrics.
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
