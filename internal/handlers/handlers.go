package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"file-categorizer/internal/ops"
	"file-categorizer/internal/store"
)

type Handlers struct {
	store   *store.Store
	scan    *ops.ScanService
	cleanup *ops.CleanupService
	started time.Time
}

func New(st *store.Store, scan *ops.ScanService, cleanup *ops.CleanupService) *Handlers {
	return &Handlers{
		store:   st,
		scan:    scan,
		cleanup: cleanup,
		started: time.Now(),
	}
}

// Router builds the full route table.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/files", h.ListFiles).Methods("GET")
	api.HandleFunc("/files/stats", h.FileStats).Methods("GET")
	api.HandleFunc("/files/recent", h.RecentFiles).Methods("GET")
	api.HandleFunc("/files/{id}", h.DeleteFile).Methods("DELETE")
	api.HandleFunc("/search", h.ListFiles).Methods("GET")

	api.HandleFunc("/scan", h.StartScan).Methods("POST")
	api.HandleFunc("/scan", h.StopScan).Methods("DELETE")
	api.HandleFunc("/scan", h.ScanStatus).Methods("GET")
	api.HandleFunc("/scan/status", h.ScanStatus).Methods("GET")

	api.HandleFunc("/cleanup", h.StartCleanup).Methods("POST")
	api.HandleFunc("/cleanup", h.StopCleanup).Methods("DELETE")
	api.HandleFunc("/cleanup", h.CleanupStatus).Methods("GET")
	api.HandleFunc("/cleanup/status", h.CleanupStatus).Methods("GET")

	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/progress/scan", h.ScanProgressStream).Methods("GET")
	api.HandleFunc("/progress/cleanup", h.CleanupProgressStream).Methods("GET")

	return r
}

// LivenessCheck always returns 200 while the server is running.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}
