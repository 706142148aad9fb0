// Package store persists categorized file records in a local SQLite
// database. It owns the single files table, batched upserts, filtered
// search, and the two existence-reconciliation sweeps (flag-only and
// destructive). Transient failures are retried with exponential backoff
// behind a circuit breaker; structural failures surface immediately as
// typed errors.
package store
