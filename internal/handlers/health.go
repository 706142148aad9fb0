package handlers

import (
	"net/http"
	"runtime"
	"time"

	"file-categorizer/internal/store"
	"file-categorizer/internal/version"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	DatabaseReady bool   `json:"database_ready"`
	BreakerState  string `json:"breaker_state"`
	TotalFiles    int    `json:"total_files"`
	ScanActive    bool   `json:"scan_active"`
	CleanupActive bool   `json:"cleanup_active"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	GoVersion     string `json:"goVersion"`
	NumGoroutine  int    `json:"numGoroutine"`
	Timestamp     string `json:"timestamp"`
	Error         string `json:"error,omitempty"`
}

// HealthCheck reports database reachability and operation activity.
// An unreachable database yields 503; an open circuit breaker degrades
// the status but keeps the endpoint at 200 so probes see a live server.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        statusHealthy,
		DatabaseReady: true,
		BreakerState:  h.store.BreakerState(),
		ScanActive:    h.scan.Coordinator().Active(),
		CleanupActive: h.cleanup.Coordinator().Active(),
		Version:       version.Version,
		Uptime:        time.Since(h.started).Round(time.Second).String(),
		GoVersion:     runtime.Version(),
		NumGoroutine:  runtime.NumGoroutine(),
		Timestamp:     time.Now().Format(time.RFC3339),
	}

	code := http.StatusOK
	if err := h.store.HealthCheck(r.Context()); err != nil {
		response.DatabaseReady = false
		response.Error = err.Error()
		if store.KindOf(err) == store.KindCorruption {
			response.Status = statusDegraded
		} else {
			response.Status = statusUnhealthy
			code = http.StatusServiceUnavailable
		}
	} else if response.BreakerState != "closed" {
		response.Status = statusDegraded
	}

	if response.DatabaseReady {
		if count, err := h.store.Count(r.Context()); err == nil {
			response.TotalFiles = count
		}
	}

	h.store.UpdateDBMetrics()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	writeJSON(w, response)
}
