package predict

import (
	"errors"
	"fmt"
)

// Sentinel errors for prediction requests.
var (
	ErrEmptyFile   = errors.New("no file to classify")
	ErrDecode      = errors.New("invalid prediction response")
	ErrInvalidBase = errors.New("invalid backend base url")
)

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
