// Package metrics defines the Prometheus collectors for the file
// categorizer: HTTP request metrics (recorded by the middleware),
// database query metrics (recorded by the store), and scan/cleanup
// operation metrics (recorded by the operation coordinator).
package metrics
