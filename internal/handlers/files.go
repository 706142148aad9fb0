package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"file-categorizer/internal/category"
	"file-categorizer/internal/logging"
	"file-categorizer/internal/store"
)

// FileListResponse wraps a page of file records.
type FileListResponse struct {
	Files  []store.FileRecord `json:"files"`
	Count  int                `json:"count"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// ListFiles serves GET /api/files and GET /api/search.
//
// Query parameters: query, category, min_size, max_size, exists_only,
// limit (default 100, max 1000), offset.
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	files, err := h.store.Search(r.Context(), criteria)
	if err != nil {
		logging.Error("File search failed: %v", err)
		writeErr(w, err)
		return
	}

	if files == nil {
		files = []store.FileRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FileListResponse{
		Files:  files,
		Count:  len(files),
		Limit:  criteria.Limit,
		Offset: criteria.Offset,
	})
}

func parseCriteria(r *http.Request) (store.SearchCriteria, error) {
	q := r.URL.Query()
	criteria := store.SearchCriteria{
		Query:    q.Get("query"),
		Category: category.Category(q.Get("category")),
		Limit:    store.DefaultLimit,
	}

	if v := q.Get("min_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return criteria, validationErrf("invalid min_size %q", v)
		}
		criteria.MinSize = &n
	}
	if v := q.Get("max_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return criteria, validationErrf("invalid max_size %q", v)
		}
		criteria.MaxSize = &n
	}
	if v := q.Get("limit"); v != "" {
		// Checked here rather than left to Validate: an explicit zero
		// would be indistinguishable from the unset default.
		n, err := strconv.Atoi(v)
		if err != nil || n < store.MinSearchLimit || n > store.MaxSearchLimit {
			return criteria, validationErrf("invalid limit %q", v)
		}
		criteria.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return criteria, validationErrf("invalid offset %q", v)
		}
		criteria.Offset = n
	}
	if v := q.Get("exists_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, validationErrf("invalid exists_only %q", v)
		}
		criteria.ExistsOnly = b
	}

	// Validate here so bad input is rejected before a worker or the
	// database sees it.
	return criteria, criteria.Validate()
}

// FileStats serves GET /api/files/stats with per-category counts.
func (h *Handlers) FileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		logging.Error("Stats query failed: %v", err)
		writeErr(w, err)
		return
	}

	// Flat shape: one key per category plus the total.
	body := make(map[string]int, len(stats.Counts)+1)
	for c, n := range stats.Counts {
		body[string(c)] = n
	}
	body["total"] = stats.Total

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, body)
}

// RecentFiles serves GET /api/files/recent, returning the most recently
// modified records.
func (h *Handlers) RecentFiles(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < store.MinSearchLimit || n > store.MaxSearchLimit {
			writeErr(w, validationErrf("invalid limit %q", v))
			return
		}
		limit = n
	}

	files, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		logging.Error("Recent files query failed: %v", err)
		writeErr(w, err)
		return
	}
	if files == nil {
		files = []store.FileRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{"files": files})
}

// DeleteFile serves DELETE /api/files/{id}, removing one record by its
// synthetic identifier.
func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	removed, err := h.store.Remove(r.Context(), id)
	if err != nil {
		logging.Error("Delete of record %s failed: %v", id, err)
		writeErr(w, err)
		return
	}
	if !removed {
		writeJSONError(w, "file record not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"message": "file record deleted"})
}
