// Package storage provides process-local blob storage for transient uploads.
// Blobs live only as long as the process; callers delete them when the
// reference that owns them is released.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/topk/pkg/lifecycle"
)

// Blob is a downloaded blob. The caller must close Body.
type Blob struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a shutdown hook that drops all stored blobs.
	Start(lc *lifecycle.Coordinator) error
	// Upload reads data from reader and stores it at key with the given content type.
	// Returns ErrCapacity if storing the blob would exceed the configured size.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns the blob at key. Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (*Blob, error)
	// Delete removes the blob at key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at key.
	Exists(ctx context.Context, key string) (bool, error)
	// Size returns the total number of stored bytes.
	Size() int64
}

type object struct {
	data        []byte
	contentType string
}

type memory struct {
	mu      sync.RWMutex
	objects map[string]object
	size    int64
	limit   int64
	logger  *slog.Logger
}

// New creates a storage system from the given configuration.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	limit, err := cfg.MaxSizeBytes()
	if err != nil {
		return nil, fmt.Errorf("storage max size: %w", err)
	}

	return &memory{
		objects: make(map[string]object),
		limit:   limit,
		logger:  logger.With("system", "storage"),
	}, nil
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting storage system", "limit", m.limit)

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		m.mu.Lock()
		count := len(m.objects)
		m.objects = make(map[string]object)
		m.size = 0
		m.mu.Unlock()

		m.logger.Info("storage released", "blobs", count)
	})

	return nil
}

func (m *memory) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := int64(len(m.objects[key].data))
	next := m.size - prev + int64(len(data))
	if m.limit > 0 && next > m.limit {
		return ErrCapacity
	}

	m.objects[key] = object{data: data, contentType: contentType}
	m.size = next
	return nil
}

func (m *memory) Download(ctx context.Context, key string) (*Blob, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	return &Blob{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentType:   obj.contentType,
		ContentLength: int64(len(obj.data)),
	}, nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return ErrNotFound
	}

	delete(m.objects, key)
	m.size -= int64(len(obj.data))
	return nil
}

func (m *memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()

	return ok, nil
}

func (m *memory) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
