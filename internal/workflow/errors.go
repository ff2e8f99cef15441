package workflow

import "errors"

// Transition errors.
var (
	ErrNoSelection = errors.New("no file selected")
	ErrInFlight    = errors.New("classification already in progress")
	ErrNotLoading  = errors.New("no classification in progress")
)
