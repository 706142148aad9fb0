// Package ops coordinates the long-running operations (scan, cleanup).
// Each operation kind has one coordinator that enforces single-flight
// execution, owns the cancellation function, and publishes progress as
// an atomically swapped immutable snapshot that any number of observers
// may read concurrently.
package ops
