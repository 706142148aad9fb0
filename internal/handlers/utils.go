package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"file-categorizer/internal/logging"
	"file-categorizer/internal/ops"
	"file-categorizer/internal/scanner"
	"file-categorizer/internal/store"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// validationErrf builds a request-validation error that maps to 400.
func validationErrf(format string, args ...interface{}) error {
	return &store.Error{Kind: store.KindValidation, Err: fmt.Errorf(format, args...)}
}

// writeErr maps a domain error onto an HTTP status and writes it.
func writeErr(w http.ResponseWriter, err error) {
	writeJSONError(w, err.Error(), statusFor(err))
}

// statusFor translates the error taxonomy into HTTP status codes:
// validation 400, not-found 404, permission 403, unavailable 503,
// operation conflict 409, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ops.ErrAlreadyActive):
		return http.StatusConflict
	case errors.Is(err, scanner.ErrNotFound), errors.Is(err, scanner.ErrNotDirectory):
		return http.StatusBadRequest
	case errors.Is(err, scanner.ErrPermission):
		return http.StatusForbidden
	}

	switch store.KindOf(err) {
	case store.KindValidation:
		return http.StatusBadRequest
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
