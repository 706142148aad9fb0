package handlers

import (
	"encoding/json"
	"net/http"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/ops"
	"file-categorizer/internal/scanner"
)

// ScanRequest is the POST /api/scan body.
type ScanRequest struct {
	Path          string `json:"path"`
	Recursive     *bool  `json:"recursive,omitempty"`
	IncludeHidden bool   `json:"include_hidden,omitempty"`
	MaxDepth      *int   `json:"max_depth,omitempty"`
}

// OperationStatusResponse is shared by the scan and cleanup status
// endpoints.
type OperationStatusResponse struct {
	Active   bool         `json:"active"`
	Progress ops.Snapshot `json:"progress"`
}

// StartScan serves POST /api/scan. A second scan while one is running
// is rejected with 409.
func (h *Handlers) StartScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "directory path is required", http.StatusBadRequest)
		return
	}
	if req.MaxDepth != nil && *req.MaxDepth < 0 {
		writeJSONError(w, "max_depth must be non-negative", http.StatusBadRequest)
		return
	}

	opts := scanner.DefaultOptions()
	if req.Recursive != nil {
		opts.Recursive = *req.Recursive
	}
	opts.IncludeHidden = req.IncludeHidden
	opts.MaxDepth = req.MaxDepth

	if err := h.scan.Start(req.Path, opts); err != nil {
		logging.Warn("Scan of %s rejected: %v", req.Path, err)
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{
		"status":  "started",
		"message": "scan started",
	})
}

// ScanStatus serves GET /api/scan and /api/scan/status.
func (h *Handlers) ScanStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, OperationStatusResponse{
		Active:   h.scan.Coordinator().Active(),
		Progress: h.scan.Coordinator().Snapshot(),
	})
}

// StopScan serves DELETE /api/scan, requesting cooperative
// cancellation. Records collected before the stop are still saved.
func (h *Handlers) StopScan(w http.ResponseWriter, _ *http.Request) {
	if !h.scan.Coordinator().Cancel() {
		writeJSONError(w, "no scan in progress", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"message": "scan stop requested"})
}
