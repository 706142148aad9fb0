// Package middleware provides HTTP middleware for the file categorizer
// API server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - Response compression (gzip) with an SSE bypass
package middleware
