package ops

import "time"

// Status is the state of a long-running operation.
type Status string

const (
	// StatusIdle means no operation has run yet.
	StatusIdle Status = "idle"
	// StatusCounting is the optional up-front enumeration pass.
	StatusCounting Status = "counting"
	// StatusScanning means the traversal is producing records.
	StatusScanning Status = "scanning"
	// StatusRunning means a cleanup sweep is probing the filesystem.
	StatusRunning Status = "running"
	// StatusSaving means collected records are being persisted.
	StatusSaving Status = "saving"
	// StatusCompleted is the successful terminal state.
	StatusCompleted Status = "completed"
	// StatusError is the failed terminal state.
	StatusError Status = "error"
	// StatusCancelled is the terminal state after a cancellation request.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status ends the operation.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusCancelled:
		return true
	}
	return false
}

// Snapshot is the observable state of one operation. Snapshots are
// immutable values: the worker publishes a fresh copy on every change
// and readers never see a partial update.
type Snapshot struct {
	Status           Status     `json:"status"`
	TotalFiles       int        `json:"total_files"`
	CategorizedFiles int        `json:"categorized_files"`
	NewFiles         int        `json:"new_files"`
	CurrentFile      string     `json:"current_file,omitempty"`
	Errors           []string   `json:"errors,omitempty"`
	Error            string     `json:"error,omitempty"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`

	// Cleanup-only fields.
	TotalChecked  int  `json:"total_checked,omitempty"`
	AffectedCount int  `json:"affected_count,omitempty"`
	CurrentBatch  int  `json:"current_batch,omitempty"`
	DryRun        bool `json:"dry_run,omitempty"`
	Purge         bool `json:"purge,omitempty"`
}

// clone deep-copies the snapshot so published values stay immutable
// while the worker keeps appending to its own error list.
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Errors != nil {
		out.Errors = make([]string, len(s.Errors))
		copy(out.Errors, s.Errors)
	}
	return out
}
