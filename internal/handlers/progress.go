package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/ops"
)

// progressInterval is how often the stream polls the coordinator.
const progressInterval = 500 * time.Millisecond

// heartbeatEvery sends a keepalive once per this many quiet polls.
const heartbeatEvery = 10

// progressEvent is one Server-Sent Events payload. Type is one of
// connected, progress, heartbeat, finished, error.
type progressEvent struct {
	Type     string        `json:"type"`
	Message  string        `json:"message,omitempty"`
	Active   bool          `json:"active,omitempty"`
	Progress *ops.Snapshot `json:"progress,omitempty"`
}

// ScanProgressStream serves GET /api/progress/scan.
func (h *Handlers) ScanProgressStream(w http.ResponseWriter, r *http.Request) {
	h.streamProgress(w, r, h.scan.Coordinator())
}

// CleanupProgressStream serves GET /api/progress/cleanup.
func (h *Handlers) CleanupProgressStream(w http.ResponseWriter, r *http.Request) {
	h.streamProgress(w, r, h.cleanup.Coordinator())
}

// streamProgress polls the coordinator's snapshot and pushes an event
// whenever it changes, ending the stream once the operation reaches a
// terminal state or the client goes away.
func (h *Handlers) streamProgress(w http.ResponseWriter, r *http.Request, coord *ops.Coordinator) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(ev progressEvent) bool {
		data, err := json.Marshal(ev)
		if err != nil {
			logging.Error("Failed to marshal %s progress event: %v", coord.Kind(), err)
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(progressEvent{
		Type:    "connected",
		Message: fmt.Sprintf("connected to %s progress stream", coord.Kind()),
	}) {
		return
	}

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	var lastSent []byte
	quiet := 0

	for {
		select {
		case <-r.Context().Done():
			logging.Debug("Progress stream client for %s disconnected", coord.Kind())
			return
		case <-ticker.C:
		}

		snap := coord.Snapshot()
		active := coord.Active()

		encoded, err := json.Marshal(snap)
		if err != nil {
			send(progressEvent{Type: "error", Message: err.Error()})
			return
		}

		if !bytes.Equal(encoded, lastSent) {
			if !send(progressEvent{Type: "progress", Active: active, Progress: &snap}) {
				return
			}
			lastSent = encoded
			quiet = 0
		} else {
			quiet++
			if quiet >= heartbeatEvery {
				if !send(progressEvent{Type: "heartbeat"}) {
					return
				}
				quiet = 0
			}
		}

		if !active && snap.Status.Terminal() {
			send(progressEvent{
				Type:    "finished",
				Message: fmt.Sprintf("%s %s", coord.Kind(), snap.Status),
			})
			return
		}
	}
}
