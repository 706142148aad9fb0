// Package logging provides a simple leveled logging interface for the
// file categorizer application.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level defaults to INFO and can be changed through the
// LOG_LEVEL environment variable or SetLevel (used by the config layer
// and the --log-level flag).
package logging
