package store

import (
	"context"
	"fmt"
	"os"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/metrics"
)

// BatchProgress is invoked after each reconciliation batch with the
// running totals. Used by the operation coordinator for live snapshots.
type BatchProgress func(checked, affected int)

// candidateRow is one row of a reconciliation batch.
type candidateRow struct {
	id     string
	path   string
	exists bool
}

// fetchBatch returns up to batchSize rows with id greater than afterID,
// ordered by id. Keyset pagination keeps iteration deterministic even
// while rows are being deleted underneath it.
func (s *Store) fetchBatch(ctx context.Context, afterID string, batchSize int, existingOnly bool) ([]candidateRow, error) {
	query := "SELECT id, path, file_exists FROM files WHERE id > ?"
	if existingOnly {
		query += " AND file_exists = 1"
	}
	query += " ORDER BY id LIMIT ?"

	rows, err := s.db.QueryContext(ctx, query, afterID, batchSize)
	if err != nil {
		return nil, classify("cleanup", err)
	}
	defer rows.Close()

	var batch []candidateRow
	for rows.Next() {
		var row candidateRow
		var exists int
		if err := rows.Scan(&row.id, &row.path, &exists); err != nil {
			return nil, classify("cleanup", err)
		}
		row.exists = exists != 0
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("cleanup", err)
	}
	return batch, nil
}

// ReconcileExistence probes the filesystem for every stored record and
// updates the existence flag where it disagrees with reality. With
// dryRun the mismatches are reported but nothing is written. Batches
// commit independently; cancellation between batches leaves applied
// batches applied.
func (s *Store) ReconcileExistence(ctx context.Context, dryRun bool, batchSize int, onProgress BatchProgress) (CleanupResult, error) {
	return s.sweep(ctx, sweepOptions{
		dryRun:    dryRun,
		batchSize: batchSize,
		onBatch:   onProgress,
	})
}

// PurgeMissing deletes records whose files have vanished. Only records
// currently flagged as existing are probed. With dryRun the would-be
// deletions are reported but nothing is removed.
func (s *Store) PurgeMissing(ctx context.Context, dryRun bool, batchSize int, onProgress BatchProgress) (CleanupResult, error) {
	return s.sweep(ctx, sweepOptions{
		dryRun:    dryRun,
		batchSize: batchSize,
		purge:     true,
		onBatch:   onProgress,
	})
}

type sweepOptions struct {
	dryRun    bool
	batchSize int
	purge     bool
	onBatch   BatchProgress
}

func (s *Store) sweep(ctx context.Context, opts sweepOptions) (CleanupResult, error) {
	if opts.batchSize <= 0 {
		opts.batchSize = DefaultCleanupBatchSize
	}

	result := CleanupResult{DryRun: opts.dryRun}
	afterID := ""

	mode := "reconcile"
	if opts.purge {
		mode = "purge"
	}
	logging.Info("Starting %s sweep (dry_run=%v, batch_size=%d)", mode, opts.dryRun, opts.batchSize)

	for {
		if err := ctx.Err(); err != nil {
			// Cancellation between batches; applied batches stay applied.
			return result, err
		}

		batch, err := s.fetchBatch(ctx, afterID, opts.batchSize, opts.purge)
		if err != nil {
			return result, err
		}
		if len(batch) == 0 {
			break
		}
		afterID = batch[len(batch)-1].id

		type update struct {
			id     string
			exists bool
		}
		var pending []update

		for _, row := range batch {
			actualExists, probeErr := probePath(row.path)
			if probeErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("error checking %s: %v", row.path, probeErr))
				continue
			}

			if opts.purge {
				if !actualExists {
					result.AffectedPaths = append(result.AffectedPaths, row.path)
					pending = append(pending, update{id: row.id})
				}
			} else if row.exists != actualExists {
				result.AffectedPaths = append(result.AffectedPaths, row.path)
				pending = append(pending, update{id: row.id, exists: actualExists})
			}
		}

		if len(pending) > 0 && !opts.dryRun {
			err := s.execWrite(ctx, "cleanup", func() error {
				tx, err := s.db.BeginTx(ctx, nil)
				if err != nil {
					return err
				}
				for _, u := range pending {
					if opts.purge {
						_, err = tx.ExecContext(ctx, "DELETE FROM files WHERE id = ?", u.id)
					} else {
						_, err = tx.ExecContext(ctx, "UPDATE files SET file_exists = ? WHERE id = ?", boolToInt(u.exists), u.id)
					}
					if err != nil {
						_ = tx.Rollback()
						return err
					}
				}
				return tx.Commit()
			})
			if err != nil {
				return result, err
			}
			metrics.DBRowsAffected.WithLabelValues("cleanup_" + mode).Observe(float64(len(pending)))
		}

		result.TotalChecked += len(batch)
		result.AffectedCount = len(result.AffectedPaths)

		if opts.onBatch != nil {
			opts.onBatch(result.TotalChecked, result.AffectedCount)
		}

		if len(batch) < opts.batchSize {
			break
		}
	}

	result.AffectedCount = len(result.AffectedPaths)
	logging.Info("%s sweep finished: checked=%d affected=%d errors=%d dry_run=%v",
		mode, result.TotalChecked, result.AffectedCount, len(result.Errors), result.DryRun)
	return result, nil
}

// probePath reports whether a path currently exists, distinguishing
// "definitely gone" from "could not check".
func probePath(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
