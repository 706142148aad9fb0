package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorKind classifies store failures so callers can match behavior
// explicitly rather than inspecting driver error strings.
type ErrorKind int

const (
	// KindValidation marks bad input rejected before touching the database.
	KindValidation ErrorKind = iota
	// KindNotFound marks lookups that matched no record.
	KindNotFound
	// KindRetryable marks transient failures (lock contention, I/O blips)
	// that are safe to retry.
	KindRetryable
	// KindCorruption marks structural failures (malformed database,
	// schema mismatch, constraint violations). Never retried.
	KindCorruption
	// KindUnavailable marks the store refusing work, either because the
	// circuit breaker is open or the connection could not be established.
	KindUnavailable
)

// String returns the kind's name for logs and API error bodies.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRetryable:
		return "retryable"
	case KindCorruption:
		return "corruption"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is the store's tagged error variant.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the error represents a transient condition.
func (e *Error) Retryable() bool { return e.Kind == KindRetryable }

// ErrCircuitOpen is returned while the circuit breaker is failing fast.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// KindOf extracts the ErrorKind from err, defaulting to KindCorruption
// for untyped errors so that unknown failures are never retried.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, ErrCircuitOpen) {
		return KindUnavailable
	}
	return KindCorruption
}

// IsRetryable reports whether err should be retried.
func IsRetryable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return false
}

// classify translates driver-level errors into tagged store errors.
// Lock contention and disk I/O hiccups are retryable; corruption,
// schema problems, and constraint violations are structural.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindNotFound, Op: op, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		// A cancelled operation is never retried; the caller asked
		// for the stop and is waiting on it.
		return &Error{Kind: KindUnavailable, Op: op, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindRetryable, Op: op, Err: err}
	}
	if errors.Is(err, ErrCircuitOpen) {
		return &Error{Kind: KindUnavailable, Op: op, Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &Error{Kind: KindRetryable, Op: op, Err: err}
		case sqlite3.ErrIoErr:
			return &Error{Kind: KindRetryable, Op: op, Err: err}
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB, sqlite3.ErrSchema:
			return &Error{Kind: KindCorruption, Op: op, Err: err}
		case sqlite3.ErrConstraint:
			return &Error{Kind: KindCorruption, Op: op, Err: err}
		case sqlite3.ErrCantOpen:
			return &Error{Kind: KindUnavailable, Op: op, Err: err}
		}
	}

	var se *Error
	if errors.As(err, &se) {
		// Already classified further down the call stack.
		return err
	}
	return &Error{Kind: KindCorruption, Op: op, Err: err}
}
