package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/topk/pkg/lifecycle"
)

func TestStartupReadiness(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			<-release
			count.Add(1)
		})
	}

	if lc.Ready() {
		t.Error("ready before startup hooks finished")
	}

	close(release)
	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}
	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestEveryRunsUntilShutdown(t *testing.T) {
	lc := lifecycle.New()

	var ticks atomic.Int32
	lc.Every(5*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})

	lc.WaitForStartup()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if ticks.Load() < 2 {
		t.Errorf("ticks: got %d, want at least 2", ticks.Load())
	}

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("loop kept running after shutdown")
	}
}
