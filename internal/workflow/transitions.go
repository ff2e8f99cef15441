package workflow

import "github.com/JaimeStill/topk/internal/predict"

// Select stores sel and clears any result or error.
// A nil selection leaves the state unchanged, as does selecting while Loading.
func Select(s State, sel *Selection) (State, error) {
	if sel == nil {
		return s, ErrNoSelection
	}
	if s.status == Loading {
		return s, ErrInFlight
	}
	return State{status: Ready, selection: sel}, nil
}

// Begin moves a state with a selection into Loading.
func Begin(s State) (State, error) {
	if s.status == Loading {
		return s, ErrInFlight
	}
	if s.selection == nil {
		return s, ErrNoSelection
	}
	return State{status: Loading, selection: s.selection}, nil
}

// Succeed completes a Loading state with p.
func Succeed(s State, p *predict.Prediction) (State, error) {
	if s.status != Loading {
		return s, ErrNotLoading
	}
	if p == nil {
		p = &predict.Prediction{}
	}
	return State{status: Success, selection: s.selection, result: p}, nil
}

// Fail completes a Loading state with a human readable message.
func Fail(s State, message string) (State, error) {
	if s.status != Loading {
		return s, ErrNotLoading
	}
	if message == "" {
		message = "Failed to classify"
	}
	return State{status: Error, selection: s.selection, message: message}, nil
}

// Reset returns to Idle unconditionally.
func Reset(State) State {
	return State{}
}

// CanClassify reports whether the classify action is enabled.
func CanClassify(s State) bool {
	return s.selection != nil && s.status != Loading
}
