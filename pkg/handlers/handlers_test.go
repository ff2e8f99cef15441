package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/topk/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusOK, map[string]any{
		"status":       "ready",
		"can_classify": true,
	})

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("cache-control: got %s", cc)
	}

	var body struct {
		Status      string `json:"status"`
		CanClassify bool   `json:"can_classify"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ready" || !body.CanClassify {
		t.Errorf("body: got %+v", body)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantLevel string
	}{
		{"client error", http.StatusRequestEntityTooLarge, errors.New("file too large"), "level=WARN"},
		{"not found", http.StatusNotFound, errors.New("not found"), "level=WARN"},
		{"server error", http.StatusInternalServerError, errors.New("render failed"), "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			handlers.RespondError(rec, logger, tt.status, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error: got %q, want %q", body["error"], tt.err.Error())
			}
			if !strings.Contains(logs.String(), tt.wantLevel) {
				t.Errorf("log level: want %s in %s", tt.wantLevel, logs.String())
			}
		})
	}
}
