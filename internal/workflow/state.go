// Package workflow models the upload/classify/display cycle as a tagged
// state with pure transition functions.
//
//	Idle --select--> Ready --begin--> Loading --succeed--> Success
//	                                          --fail-----> Error
//	Success/Error --select--> Ready; any --reset--> Idle
package workflow

import "github.com/JaimeStill/topk/internal/predict"

// Status identifies the active workflow state.
type Status int

const (
	Idle Status = iota
	Ready
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Selection is the file chosen by the user.
// PreviewKey addresses the preview blob in the preview store.
type Selection struct {
	Name        string
	ContentType string
	Data        []byte
	PreviewKey  string
}

// Size returns the byte length of the selected file.
func (s *Selection) Size() int64 {
	if s == nil {
		return 0
	}
	return int64(len(s.Data))
}

// State is the workflow state. Construct it only through the transition
// functions; each status carries exactly its own payload.
type State struct {
	status    Status
	selection *Selection
	result    *predict.Prediction
	message   string
}

// Status returns the active status.
func (s State) Status() Status { return s.status }

// Selection returns the selected file, nil when Idle.
func (s State) Selection() *Selection { return s.selection }

// Result returns the prediction, non-nil only in Success.
func (s State) Result() *predict.Prediction { return s.result }

// Message returns the error message, non-empty only in Error.
func (s State) Message() string { return s.message }

// Loading reports whether a request is in flight.
func (s State) Loading() bool { return s.status == Loading }
