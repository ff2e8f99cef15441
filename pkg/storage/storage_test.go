package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/topk/pkg/lifecycle"
	"github.com/JaimeStill/topk/pkg/storage"
)

func newStore(t *testing.T, maxSize string) storage.System {
	t.Helper()
	cfg := &storage.Config{MaxSize: maxSize}
	store, err := storage.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestUploadDownloadDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")

	if err := store.Upload(ctx, "previews/a", strings.NewReader("image"), "image/png"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	ok, err := store.Exists(ctx, "previews/a")
	if err != nil || !ok {
		t.Fatalf("exists: got %v %v", ok, err)
	}

	blob, err := store.Download(ctx, "previews/a")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer blob.Body.Close()

	data, _ := io.ReadAll(blob.Body)
	if string(data) != "image" {
		t.Errorf("body: got %q", data)
	}
	if blob.ContentType != "image/png" {
		t.Errorf("content type: got %q", blob.ContentType)
	}
	if blob.ContentLength != 5 {
		t.Errorf("length: got %d", blob.ContentLength)
	}
	if store.Size() != 5 {
		t.Errorf("size: got %d, want 5", store.Size())
	}

	if err := store.Delete(ctx, "previews/a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Download(ctx, "previews/a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("download after delete: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "previews/a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
	if store.Size() != 0 {
		t.Errorf("size after delete: got %d", store.Size())
	}
}

func TestUploadReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")

	store.Upload(ctx, "k", strings.NewReader("12345"), "text/plain")
	store.Upload(ctx, "k", strings.NewReader("12"), "text/plain")

	if store.Size() != 2 {
		t.Errorf("size: got %d, want 2", store.Size())
	}
}

func TestCapacity(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "8B")

	if err := store.Upload(ctx, "a", strings.NewReader("12345"), ""); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	err := store.Upload(ctx, "b", strings.NewReader("12345"), "")
	if !errors.Is(err, storage.ErrCapacity) {
		t.Errorf("over capacity: got %v, want ErrCapacity", err)
	}
	if ok, _ := store.Exists(ctx, "b"); ok {
		t.Error("rejected blob was stored")
	}
}

func TestInvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", storage.ErrEmptyKey},
		{"traversal", "../etc/passwd", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Upload(ctx, tt.key, strings.NewReader("x"), ""); !errors.Is(err, tt.want) {
				t.Errorf("upload: got %v, want %v", err, tt.want)
			}
			if _, err := store.Download(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("download: got %v, want %v", err, tt.want)
			}
			if err := store.Delete(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("delete: got %v, want %v", err, tt.want)
			}
			if _, err := store.Exists(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("exists: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestShutdownReleasesBlobs(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")
	lc := lifecycle.New()

	if err := store.Start(lc); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.Upload(ctx, "a", strings.NewReader("abc"), "")

	lc.WaitForStartup()
	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if store.Size() != 0 {
		t.Errorf("size after shutdown: got %d", store.Size())
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{storage.ErrCapacity, http.StatusInsufficientStorage},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestConfigFinalize(t *testing.T) {
	cfg := &storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.MaxSize != "512MB" {
		t.Errorf("default max size: got %q", cfg.MaxSize)
	}

	t.Setenv("TOPK_TEST_STORAGE_MAX_SIZE", "1GB")
	cfg = &storage.Config{}
	if err := cfg.Finalize(&storage.Env{MaxSize: "TOPK_TEST_STORAGE_MAX_SIZE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	n, _ := cfg.MaxSizeBytes()
	if n != 1<<30 {
		t.Errorf("env max size: got %d", n)
	}

	cfg = &storage.Config{MaxSize: "lots"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected validation error")
	}
}
