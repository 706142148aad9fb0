package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/store"
)

// CleanupRequest is the POST /api/cleanup body. DryRun defaults to
// true so a bare POST never mutates the database.
type CleanupRequest struct {
	DryRun    *bool `json:"dry_run,omitempty"`
	Purge     bool  `json:"purge,omitempty"`
	BatchSize int   `json:"batch_size,omitempty"`
}

// StartCleanup serves POST /api/cleanup. Without purge the sweep only
// updates existence flags; with purge, missing records are deleted.
func (h *Handlers) StartCleanup(w http.ResponseWriter, r *http.Request) {
	req := CleanupRequest{BatchSize: store.DefaultCleanupBatchSize}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.BatchSize < 0 {
		writeJSONError(w, "batch_size must be non-negative", http.StatusBadRequest)
		return
	}

	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	if err := h.cleanup.Start(req.Purge, dryRun, req.BatchSize); err != nil {
		logging.Warn("Cleanup rejected: %v", err)
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"status":  "started",
		"message": "cleanup started",
		"dry_run": dryRun,
		"purge":   req.Purge,
	})
}

// CleanupStatus serves GET /api/cleanup and /api/cleanup/status.
func (h *Handlers) CleanupStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, OperationStatusResponse{
		Active:   h.cleanup.Coordinator().Active(),
		Progress: h.cleanup.Coordinator().Snapshot(),
	})
}

// StopCleanup serves DELETE /api/cleanup.
func (h *Handlers) StopCleanup(w http.ResponseWriter, _ *http.Request) {
	if !h.cleanup.Coordinator().Cancel() {
		writeJSONError(w, "no cleanup in progress", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"message": "cleanup stop requested"})
}
