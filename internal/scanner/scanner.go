package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"file-categorizer/internal/category"
	"file-categorizer/internal/logging"
	"file-categorizer/internal/store"
)

// Sentinel errors for scan-root validation. Callers match these to map
// failures to their own taxonomy (CLI exit codes, HTTP statuses).
var (
	// ErrNotFound indicates the scan root does not exist.
	ErrNotFound = errors.New("path does not exist")

	// ErrNotDirectory indicates the scan root is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrPermission indicates the scan root cannot be read.
	ErrPermission = errors.New("permission denied")
)

// Options control one directory walk. MaxDepth counts from the scan
// root: its immediate children are depth 0 and the boundary is
// inclusive. A nil MaxDepth means unlimited. The hidden filter matches
// the entry's own name; walks still descend into dot-named directories.
type Options struct {
	Recursive     bool
	IncludeHidden bool
	MaxDepth      *int
	Verbose       bool

	// MaxFileSize skips files larger than this many bytes when > 0.
	MaxFileSize int64
}

// DefaultOptions mirror the configuration defaults: recursive, skipping
// hidden files, unlimited depth.
func DefaultOptions() Options {
	return Options{Recursive: true}
}

// WalkFunc receives every candidate regular file in enumeration order.
// record is nil when the file is not categorizable (unsupported
// extension, vanished mid-walk, oversized). Returning a non-nil error
// stops the walk.
type WalkFunc func(path string, record *store.FileRecord) error

// Scanner traverses directories and extracts file metadata.
type Scanner struct {
	opts Options
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// ValidateRoot checks that root exists, is a directory, and is readable
// before any walk starts. The returned error wraps one of the sentinel
// errors above.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermission, root)
		}
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	// Probe readability with one listing attempt.
	f, err := os.Open(root)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermission, root)
		}
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	defer f.Close()

	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermission, root)
		}
		return fmt.Errorf("cannot read %s: %w", root, err)
	}
	return nil
}

// Extract stats a path and produces a store record for it. It returns
// (nil, nil) when the path is out of scope: missing, not a regular
// file, uncategorizable extension, or over the size limit. Filesystem
// errors other than not-exist are returned so the walk can record them
// as warnings.
func (s *Scanner) Extract(path string) (*store.FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Race-deleted between enumeration and stat.
			return nil, nil
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	c, ok := category.Classify(path)
	if !ok {
		return nil, nil
	}

	if s.opts.MaxFileSize > 0 && info.Size() > s.opts.MaxFileSize {
		logging.Debug("Skipping %s: size %d exceeds limit %d", path, info.Size(), s.opts.MaxFileSize)
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	record := store.NewFileRecord(absPath, c, info)
	return &record, nil
}

// Walk enumerates candidate files under root and invokes fn for each.
// Per-entry errors are collected as warnings and never abort the walk;
// the returned error is non-nil only for a failed precondition check,
// a cancelled context, or an error returned by fn.
func (s *Scanner) Walk(ctx context.Context, root string, fn WalkFunc) ([]string, error) {
	if err := ValidateRoot(root); err != nil {
		return nil, err
	}

	var warnings []string
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		if s.opts.Verbose {
			logging.Warn("%s", msg)
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			warn("could not access %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".")

		if d.IsDir() {
			if !s.opts.Recursive {
				return filepath.SkipDir
			}
			if s.opts.MaxDepth != nil && s.dirDepth(root, path) > *s.opts.MaxDepth {
				// Files directly inside this directory would already
				// exceed the depth limit.
				return filepath.SkipDir
			}
			return nil
		}

		if hidden && !s.opts.IncludeHidden {
			return nil
		}
		if s.opts.MaxDepth != nil && s.fileDepth(root, path) > *s.opts.MaxDepth {
			return nil
		}

		record, err := s.Extract(path)
		if err != nil {
			warn("could not access %s: %v", path, err)
			return nil
		}
		return fn(path, record)
	})

	if err != nil {
		return warnings, err
	}

	if len(warnings) > 0 {
		logging.Warn("Walk of %s completed with %d access errors", root, len(warnings))
	}
	return warnings, nil
}

// Count runs a lightweight pre-pass that counts candidate files so
// progress can be reported as a fraction. Best effort: errors yield a
// zero total and the caller grows the count during the real walk.
func (s *Scanner) Count(ctx context.Context, root string) (int, error) {
	total := 0
	_, err := s.Walk(ctx, root, func(string, *store.FileRecord) error {
		total++
		return nil
	})
	return total, err
}

// fileDepth returns the depth of a file relative to root; root's
// immediate children are depth 0.
func (s *Scanner) fileDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator))
}

// dirDepth returns the depth files directly inside dir would have.
func (s *Scanner) dirDepth(root, dir string) int {
	return s.fileDepth(root, dir) + 1
}
