// Package session keeps per-visitor classification state on the server.
// A visitor is identified by a cookie; each session owns a workflow state,
// its preview blob, and the backend base URL resolved when it was opened.
package session

import (
	"context"
	"time"

	"github.com/JaimeStill/topk/internal/predict"
	"github.com/JaimeStill/topk/internal/workflow"
)

// Predictor sends an image to a prediction backend.
type Predictor interface {
	Predict(ctx context.Context, base, filename, contentType string, data []byte) (*predict.Prediction, error)
}

// Upload is a file received from the visitor.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID      string
	APIBase string
	State   workflow.State
	Created bool
}

// Options tunes a session store.
type Options struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	MaxInFlight   int64
	Timeout       time.Duration
}

func (o *Options) normalize() {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 30 * time.Minute
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = time.Minute
	}
	if o.MaxInFlight < 1 {
		o.MaxInFlight = 8
	}
}
