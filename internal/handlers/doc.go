// Package handlers provides HTTP request handlers for the file
// categorizer API.
//
// It includes handlers for:
//   - File record search, listing, and deletion
//   - Category statistics and recent files
//   - Scan and cleanup operation control and status
//   - Server-Sent Events progress streams
//   - Health checks and version info
package handlers
