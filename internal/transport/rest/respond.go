// Package rest implements the JSON HTTP transport: game ingestion and query
// handlers, health probes, and the response envelope shared by all of them.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// successResponse is the envelope for every successful call.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// failResponse is the envelope for every failed call. Status repeats the HTTP
// status code so clients reading only the body can still classify the failure.
type failResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successResponse{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failResponse{Success: false, Message: message, Status: status})
}

// respondError maps a service error onto the failure envelope. Validation
// details and conflict messages are safe to show; anything unclassified is
// logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeFail(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, "not found")

	case errors.Is(err, domain.ErrAlreadyExists):
		writeFail(w, http.StatusConflict, conflictMessage(err))

	default:
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeFail(w, http.StatusInternalServerError, "internal server error")
	}
}

func conflictMessage(err error) string {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return conflict.Error()
	}
	return "ID or slug already exists"
}
