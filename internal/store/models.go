package store

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"file-categorizer/internal/category"
)

// Limits applied to search pagination.
const (
	MinSearchLimit = 1
	MaxSearchLimit = 1000
)

// FileRecord is the persisted representation of one categorized file.
// Records are keyed by absolute path; ID is a synthetic identifier that
// stays stable across re-scans of the same path.
type FileRecord struct {
	ID           string            `json:"id"`
	Path         string            `json:"path"`
	Filename     string            `json:"filename"`
	Category     category.Category `json:"category"`
	Size         int64             `json:"size"`
	ModifiedDate time.Time         `json:"modified_date"`
	ScannedDate  time.Time         `json:"scanned_date"`
	Exists       bool              `json:"exists"`
}

// NewFileRecord builds a record for a live file from its stat info.
// The path must already be absolute.
func NewFileRecord(absPath string, c category.Category, info os.FileInfo) FileRecord {
	return FileRecord{
		ID:           uuid.New().String(),
		Path:         absPath,
		Filename:     info.Name(),
		Category:     c,
		Size:         info.Size(),
		ModifiedDate: info.ModTime(),
		ScannedDate:  time.Now(),
		Exists:       true,
	}
}

// SearchCriteria filters and paginates record queries. Zero values mean
// "no filter"; Limit of 0 falls back to DefaultLimit.
type SearchCriteria struct {
	Query          string
	Category       category.Category
	MinSize        *int64
	MaxSize        *int64
	ModifiedAfter  *time.Time
	ModifiedBefore *time.Time
	ExistsOnly     bool
	Limit          int
	Offset         int
}

// DefaultLimit is applied when criteria specify no limit.
const DefaultLimit = 100

// Validate rejects criteria that must never reach the database.
func (c SearchCriteria) Validate() error {
	if c.Category != "" && !c.Category.Valid() {
		return &Error{
			Kind: KindValidation,
			Op:   "search",
			Err:  fmt.Errorf("invalid category %q (valid: %v)", c.Category, category.All),
		}
	}
	if c.MinSize != nil && *c.MinSize < 0 {
		return &Error{Kind: KindValidation, Op: "search", Err: fmt.Errorf("minimum size must be non-negative")}
	}
	if c.MaxSize != nil && *c.MaxSize < 0 {
		return &Error{Kind: KindValidation, Op: "search", Err: fmt.Errorf("maximum size must be non-negative")}
	}
	if c.MinSize != nil && c.MaxSize != nil && *c.MinSize > *c.MaxSize {
		return &Error{Kind: KindValidation, Op: "search", Err: fmt.Errorf("minimum size cannot be greater than maximum size")}
	}
	if c.Limit != 0 && (c.Limit < MinSearchLimit || c.Limit > MaxSearchLimit) {
		return &Error{
			Kind: KindValidation,
			Op:   "search",
			Err:  fmt.Errorf("limit must be between %d and %d", MinSearchLimit, MaxSearchLimit),
		}
	}
	if c.Offset < 0 {
		return &Error{Kind: KindValidation, Op: "search", Err: fmt.Errorf("offset must be non-negative")}
	}
	return nil
}

// limit returns the effective page size.
func (c SearchCriteria) limit() int {
	if c.Limit == 0 {
		return DefaultLimit
	}
	return c.Limit
}

// CategoryStats holds per-category record counts.
type CategoryStats struct {
	Counts map[category.Category]int `json:"counts"`
	Total  int                       `json:"total"`
}

// CleanupResult reports one existence-reconciliation sweep.
type CleanupResult struct {
	TotalChecked  int      `json:"total_checked"`
	AffectedCount int      `json:"affected_count"`
	AffectedPaths []string `json:"affected_paths"`
	Errors        []string `json:"errors"`
	DryRun        bool     `json:"dry_run"`
}

// CleanupRate returns the fraction of checked records that were affected.
func (r CleanupResult) CleanupRate() float64 {
	if r.TotalChecked == 0 {
		return 0
	}
	return float64(r.AffectedCount) / float64(r.TotalChecked)
}
