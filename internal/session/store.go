package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/topk/internal/predict"
	"github.com/JaimeStill/topk/internal/workflow"
	"github.com/JaimeStill/topk/pkg/lifecycle"
	"github.com/JaimeStill/topk/pkg/storage"
)

type entry struct {
	mu       sync.Mutex
	id       string
	apiBase  string
	state    workflow.State
	gen      uint64
	lastSeen time.Time
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{ID: e.id, APIBase: e.apiBase, State: e.state}
}

type store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	storage   storage.System
	predictor Predictor
	sem       *semaphore.Weighted
	opts      Options
	logger    *slog.Logger

	ctx     context.Context
	running sync.WaitGroup
	now     func() time.Time
}

// New creates a session store implementing the System interface.
func New(
	blobs storage.System,
	predictor Predictor,
	logger *slog.Logger,
	opts Options,
) System {
	opts.normalize()
	return newStore(blobs, predictor, logger, opts, time.Now)
}

func newStore(
	blobs storage.System,
	predictor Predictor,
	logger *slog.Logger,
	opts Options,
	now func() time.Time,
) *store {
	return &store{
		sessions:  make(map[string]*entry),
		storage:   blobs,
		predictor: predictor,
		sem:       semaphore.NewWeighted(opts.MaxInFlight),
		opts:      opts,
		logger:    logger.With("system", "session"),
		ctx:       context.Background(),
		now:       now,
	}
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info(
		"starting session system",
		"idle_timeout", s.opts.IdleTimeout,
		"max_in_flight", s.opts.MaxInFlight,
	)

	s.mu.Lock()
	s.ctx = lc.Context()
	s.mu.Unlock()

	lc.Every(s.opts.SweepInterval, func(now time.Time) {
		if n := s.Sweep(now); n > 0 {
			s.logger.Info("sessions expired", "count", n)
		}
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.Wait()
		s.logger.Info("session system stopped", "sessions", s.Len())
	})

	return nil
}

func (s *store) Open(id string, resolve func() string) Snapshot {
	if e, ok := s.lookup(id); ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.lastSeen = s.now()
		return e.snapshot()
	}

	e := &entry{
		id:       uuid.NewString(),
		apiBase:  resolve(),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[e.id] = e
	s.mu.Unlock()

	s.logger.Info("session opened", "session", e.id, "api_base", e.apiBase)

	snap := e.snapshot()
	snap.Created = true
	return snap
}

func (s *store) Get(id string) (Snapshot, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()
	return e.snapshot(), nil
}

func (s *store) Rebind(id, base string) (Snapshot, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()

	if e.apiBase != base {
		s.logger.Info("session rebound", "session", e.id, "api_base", base)
		e.apiBase = base
	}
	return e.snapshot(), nil
}

func (s *store) Select(ctx context.Context, id string, file Upload) (Snapshot, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()

	if e.state.Loading() {
		return e.snapshot(), workflow.ErrInFlight
	}

	s.release(ctx, e.state.Selection())

	sel := &workflow.Selection{
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
		PreviewKey:  uuid.NewString(),
	}

	if err := s.storage.Upload(ctx, sel.PreviewKey, bytes.NewReader(file.Data), file.ContentType); err != nil {
		e.state = workflow.Reset(e.state)
		e.gen++
		return e.snapshot(), fmt.Errorf("store preview: %w", err)
	}

	next, err := workflow.Select(e.state, sel)
	if err != nil {
		s.release(ctx, sel)
		return e.snapshot(), err
	}

	e.state = next
	e.gen++

	s.logger.Info(
		"file selected",
		"session", e.id,
		"name", sel.Name,
		"size", sel.Size(),
	)

	return e.snapshot(), nil
}

func (s *store) Classify(id string) (Snapshot, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()

	next, err := workflow.Begin(e.state)
	if err != nil {
		return e.snapshot(), err
	}

	e.state = next
	e.gen++

	s.running.Add(1)
	go s.run(ctx, e, e.gen, e.apiBase, next.Selection())

	return e.snapshot(), nil
}

func (s *store) Reset(ctx context.Context, id string) (Snapshot, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()

	s.release(ctx, e.state.Selection())
	e.state = workflow.Reset(e.state)
	e.gen++

	return e.snapshot(), nil
}

func (s *store) Preview(ctx context.Context, key string) (*storage.Blob, error) {
	return s.storage.Download(ctx, key)
}

func (s *store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	var expired []*entry
	for id, e := range s.sessions {
		e.mu.Lock()
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e)
			delete(s.sessions, id)
		}
		e.mu.Unlock()
	}
	s.mu.Unlock()

	for _, e := range expired {
		e.mu.Lock()
		s.release(context.Background(), e.state.Selection())
		e.state = workflow.Reset(e.state)
		e.gen++
		e.mu.Unlock()
	}

	return len(expired)
}

func (s *store) Wait() {
	s.running.Wait()
}

func (s *store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *store) lookup(id string) (*entry, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

// release deletes the preview blob owned by sel. Caller holds the entry lock.
func (s *store) release(ctx context.Context, sel *workflow.Selection) {
	if sel == nil || sel.PreviewKey == "" {
		return
	}
	if err := s.storage.Delete(ctx, sel.PreviewKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("preview release failed", "key", sel.PreviewKey, "error", err)
	}
}

func (s *store) run(ctx context.Context, e *entry, gen uint64, base string, sel *workflow.Selection) {
	defer s.running.Done()

	var (
		result *predict.Prediction
		err    error
	)

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("classification panicked: %v", r)
			s.logger.Error("classification panic", "session", e.id, "panic", r)
		}
		s.complete(e, gen, result, err)
	}()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	if err = s.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer s.sem.Release(1)

	result, err = s.predictor.Predict(ctx, base, sel.Name, sel.ContentType, sel.Data)
}

// complete applies the outcome unless the session moved on since gen.
func (s *store) complete(e *entry, gen uint64, result *predict.Prediction, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gen != gen || !e.state.Loading() {
		s.logger.Info("discarding stale classification", "session", e.id)
		return
	}

	var next workflow.State
	if err != nil {
		next, _ = workflow.Fail(e.state, err.Error())
		s.logger.Warn("classification failed", "session", e.id, "error", err)
	} else {
		next, _ = workflow.Succeed(e.state, result)
		s.logger.Info("classification complete", "session", e.id, "entries", len(next.Result().Top))
	}

	e.state = next
	e.gen++
}
