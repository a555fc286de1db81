// Package handlers provides HTTP response utilities for JSON APIs.
// These stateless functions standardize response formatting across handlers.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a JSON error response.
// The response body contains {"error": "<error message>"}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	RespondErrorKind(w, logger, status, "", err)
}

// RespondErrorKind logs the error and writes a JSON error response carrying
// a stable error kind. Client errors log at warn, server errors at error.
func RespondErrorKind(w http.ResponseWriter, logger *slog.Logger, status int, kind string, err error) {
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "handler error", "error", err, "status", status, "kind", kind)

	RespondJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}
