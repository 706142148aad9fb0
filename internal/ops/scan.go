package ops

import (
	"context"
	"errors"
	"time"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/metrics"
	"file-categorizer/internal/scanner"
	"file-categorizer/internal/store"
)

// saveTimeout bounds the persistence of collected records after the
// walk finished or was cancelled.
const saveTimeout = 2 * time.Minute

// ScanService runs directory scans as coordinated background
// operations.
type ScanService struct {
	coord *Coordinator
	store *store.Store

	// fileHook, when set, observes every walk entry. Tests use it to
	// interrupt a scan at a known file.
	fileHook func(path string)
}

// NewScanService creates the scan coordinator around a store.
func NewScanService(st *store.Store) *ScanService {
	return &ScanService{
		coord: NewCoordinator("scan"),
		store: st,
	}
}

// Coordinator exposes the underlying coordinator for status and
// cancellation endpoints.
func (s *ScanService) Coordinator() *Coordinator { return s.coord }

// Start validates the root synchronously, then launches the scan in the
// background. Returns ErrAlreadyActive when a scan is in flight, or a
// validation error when the root is unusable; in both cases no worker
// is started.
func (s *ScanService) Start(root string, opts scanner.Options) error {
	if err := scanner.ValidateRoot(root); err != nil {
		return err
	}
	return s.coord.Start(func(ctx context.Context) {
		s.run(ctx, root, opts)
	})
}

func (s *ScanService) run(ctx context.Context, root string, opts scanner.Options) {
	metrics.ScanRunsTotal.Inc()
	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)

	start := time.Now()
	snap := Snapshot{Status: StatusCounting, StartTime: &start}
	s.coord.publish(snap)

	sc := scanner.New(opts)

	// Best-effort pre-pass so progress can show a total.
	total, err := sc.Count(ctx, root)
	if err != nil {
		s.finish(ctx, snap, err)
		return
	}
	snap.TotalFiles = total
	snap.Status = StatusScanning
	s.coord.publish(snap)

	var (
		records   []store.FileRecord
		processed int
	)
	warnings, err := sc.Walk(ctx, root, func(path string, record *store.FileRecord) error {
		if s.fileHook != nil {
			s.fileHook(path)
		}
		processed++
		if processed > snap.TotalFiles {
			snap.TotalFiles = processed
		}
		snap.CurrentFile = path
		if record != nil {
			records = append(records, *record)
			snap.CategorizedFiles = len(records)
		}
		s.coord.publish(snap)
		return nil
	})
	snap.Errors = append(snap.Errors, warnings...)
	cancelled := errors.Is(err, context.Canceled)
	if err != nil && !cancelled {
		s.finish(ctx, snap, err)
		return
	}

	metrics.ScanFilesProcessed.Add(float64(processed))
	metrics.ScanFilesCategorized.Add(float64(len(records)))

	// Persist what was collected. On cancellation the records gathered
	// before the request are preserved, not rolled back.
	if len(records) > 0 {
		snap.Status = StatusSaving
		snap.CurrentFile = ""
		s.coord.publish(snap)

		saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.store.UpsertBatch(saveCtx, records); err != nil {
			s.finish(ctx, snap, err)
			return
		}
		snap.NewFiles = len(records)
	}

	end := time.Now()
	snap.EndTime = &end
	snap.CurrentFile = ""
	if cancelled {
		snap.Status = StatusCancelled
		logging.Info("Scan cancelled: %d/%d files categorized before stop", len(records), processed)
	} else {
		snap.Status = StatusCompleted
		metrics.ScanLastRunDuration.Set(end.Sub(start).Seconds())
		logging.Info("Scan completed: %d files examined, %d categorized in %v", processed, len(records), end.Sub(start))
	}
	s.coord.publish(snap)
}

// finish publishes a terminal snapshot for an aborted run, mapping a
// cancelled context to the cancelled state rather than error.
func (s *ScanService) finish(ctx context.Context, snap Snapshot, err error) {
	end := time.Now()
	snap.EndTime = &end
	snap.CurrentFile = ""
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		snap.Status = StatusCancelled
		logging.Info("Scan cancelled")
	} else {
		snap.Status = StatusError
		snap.Error = err.Error()
		metrics.OperationErrors.WithLabelValues("scan").Inc()
		logging.Error("Scan failed: %v", err)
	}
	s.coord.publish(snap)
}
