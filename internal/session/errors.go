package session

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/topk/internal/workflow"
	"github.com/JaimeStill/topk/pkg/storage"
)

// ErrNotFound indicates the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// MapHTTPStatus maps session, workflow, and storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, workflow.ErrInFlight) {
		return http.StatusConflict
	}
	if errors.Is(err, workflow.ErrNoSelection) {
		return http.StatusBadRequest
	}
	return storage.MapHTTPStatus(err)
}
