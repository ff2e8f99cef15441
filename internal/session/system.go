package session

import (
	"context"
	"time"

	"github.com/JaimeStill/topk/pkg/lifecycle"
	"github.com/JaimeStill/topk/pkg/storage"
)

// System defines the public contract for session operations.
type System interface {
	// Start registers the idle sweep and the shutdown drain with lc.
	// Classifications started afterwards are cancelled when lc shuts down.
	Start(lc *lifecycle.Coordinator) error

	// Open returns the session for id, creating one when id is empty or
	// unknown. resolve is called once, only for a new session.
	Open(id string, resolve func() string) Snapshot
	Get(id string) (Snapshot, error)
	// Rebind replaces the backend base URL used by later classifications.
	Rebind(id, base string) (Snapshot, error)

	// Select replaces the selection, releasing the previous preview first.
	Select(ctx context.Context, id string, file Upload) (Snapshot, error)
	// Classify starts a background prediction for the current selection.
	Classify(id string) (Snapshot, error)
	// Reset clears selection, preview, result, and error.
	Reset(ctx context.Context, id string) (Snapshot, error)

	Preview(ctx context.Context, key string) (*storage.Blob, error)

	// Sweep drops sessions idle since before now minus the idle timeout.
	Sweep(now time.Time) int
	// Wait blocks until every running classification has completed.
	Wait()
	Len() int
}
