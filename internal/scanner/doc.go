// Package scanner walks directory trees and turns categorizable files
// into store records. The walk tolerates per-entry filesystem errors,
// honors hidden-file and depth filters, and stops cooperatively when
// the caller's context is cancelled.
package scanner
