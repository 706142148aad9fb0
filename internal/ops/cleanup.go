package ops

import (
	"context"
	"errors"
	"time"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/metrics"
	"file-categorizer/internal/store"
)

// CleanupService runs existence reconciliation and purge sweeps as
// coordinated background operations.
type CleanupService struct {
	coord *Coordinator
	store *store.Store
}

// NewCleanupService creates the cleanup coordinator around a store.
func NewCleanupService(st *store.Store) *CleanupService {
	return &CleanupService{
		coord: NewCoordinator("cleanup"),
		store: st,
	}
}

// Coordinator exposes the underlying coordinator for status and
// cancellation endpoints.
func (s *CleanupService) Coordinator() *Coordinator { return s.coord }

// Start launches a cleanup sweep in the background. With purge set,
// missing records are deleted; otherwise their existence flag is
// updated. dryRun reports what would change without mutating rows.
// Returns ErrAlreadyActive when a cleanup is already in flight.
func (s *CleanupService) Start(purge, dryRun bool, batchSize int) error {
	if batchSize <= 0 {
		batchSize = store.DefaultCleanupBatchSize
	}
	return s.coord.Start(func(ctx context.Context) {
		s.run(ctx, purge, dryRun, batchSize)
	})
}

func (s *CleanupService) run(ctx context.Context, purge, dryRun bool, batchSize int) {
	metrics.CleanupRunsTotal.Inc()
	metrics.CleanupIsRunning.Set(1)
	defer metrics.CleanupIsRunning.Set(0)

	start := time.Now()
	snap := Snapshot{
		Status:    StatusRunning,
		StartTime: &start,
		DryRun:    dryRun,
		Purge:     purge,
	}
	s.coord.publish(snap)

	onBatch := func(checked, affected int) {
		snap.TotalChecked = checked
		snap.AffectedCount = affected
		snap.CurrentBatch++
		s.coord.publish(snap)
	}

	var (
		result store.CleanupResult
		err    error
	)
	if purge {
		result, err = s.store.PurgeMissing(ctx, dryRun, batchSize, onBatch)
	} else {
		result, err = s.store.ReconcileExistence(ctx, dryRun, batchSize, onBatch)
	}

	end := time.Now()
	snap.EndTime = &end
	snap.TotalChecked = result.TotalChecked
	snap.AffectedCount = result.AffectedCount
	snap.Errors = append(snap.Errors, result.Errors...)

	switch {
	case errors.Is(err, context.Canceled):
		snap.Status = StatusCancelled
		logging.Info("Cleanup cancelled after %d records checked", snap.TotalChecked)
	case err != nil:
		snap.Status = StatusError
		snap.Error = err.Error()
		metrics.OperationErrors.WithLabelValues("cleanup").Inc()
		logging.Error("Cleanup failed: %v", err)
	default:
		snap.Status = StatusCompleted
		logging.Info("Cleanup completed: %d checked, %d affected in %v (dry-run=%v, purge=%v)",
			snap.TotalChecked, snap.AffectedCount, end.Sub(start), dryRun, purge)
	}
	s.coord.publish(snap)
}
