package handlers_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/JaimeStill/bookshelf/pkg/handlers"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondJSON(w, http.StatusCreated, map[string]int{"pages": 3})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["pages"] != 3 {
		t.Errorf("pages = %d, want 3", body["pages"])
	}
}

func TestRespondErrorKind(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
	}{
		{"client error", http.StatusConflict, "AlreadyExists"},
		{"server error", http.StatusInternalServerError, "StorageError"},
		{"no kind", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.RespondErrorKind(w, discardLogger(), tt.status, tt.kind, errors.New("boom"))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}

			var body handlers.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != "boom" || body.Kind != tt.kind {
				t.Errorf("body = %+v, want boom/%s", body, tt.kind)
			}
		})
	}
}
