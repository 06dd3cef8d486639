package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"booknest/internal/domain"
)

// ErrorResponse is the JSON body for every non-2xx answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes an ErrorResponse with the given status, code, and message.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondError maps a service error onto the HTTP error contract:
// ErrNotFound to 404, ErrValidation to 422, ErrConflict to 409, anything
// else to an opaque 500 (the detail goes to the log, not the client).
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err, "not found"))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, "validation error"))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", unwrapMessage(err, "conflict"))
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.LibraryService.CheckOut: validation error: borrower
// name is required" becomes "borrower name is required". When nothing
// follows the sentinel, the sentinel text itself is returned.
func unwrapMessage(err error, sentinel string) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, sentinel+": "); i >= 0 {
		return msg[i+len(sentinel)+2:]
	}
	// Strip "pkg.Type.Method: " prefixes when the sentinel has no detail.
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
