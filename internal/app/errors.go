package app

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/topk/internal/session"
)

// Page errors.
var (
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidForm  = errors.New("invalid form submission")
	ErrInvalidBase  = errors.New("backend URL must be an http or https address")
)

// MapHTTPStatus maps page errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidForm) || errors.Is(err, ErrInvalidBase) {
		return http.StatusBadRequest
	}
	return session.MapHTTPStatus(err)
}
