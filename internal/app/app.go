// Package app assembles the classification page module: session handling,
// page rendering, uploads, previews, and embedded static assets.
package app

import (
	"fmt"

	"github.com/JaimeStill/topk/internal/config"
	"github.com/JaimeStill/topk/internal/infrastructure"
	"github.com/JaimeStill/topk/internal/session"
	"github.com/JaimeStill/topk/pkg/middleware"
	"github.com/JaimeStill/topk/pkg/module"
)

// NewModule creates the page module mounted at cfg.Web.BasePath and starts
// the session system on the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	sessions := session.New(
		runtime.Storage,
		runtime.Classifier,
		runtime.Logger,
		session.Options{
			IdleTimeout:   cfg.Session.IdleTimeoutDuration(),
			SweepInterval: cfg.Session.SweepIntervalDuration(),
			MaxInFlight:   int64(cfg.Classifier.MaxInFlight),
			Timeout:       cfg.Classifier.TimeoutDuration(),
		},
	)
	if err := sessions.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("session start failed: %w", err)
	}

	handler, err := NewHandler(sessions, runtime)
	if err != nil {
		return nil, err
	}

	m := module.New(cfg.Web.BasePath, handler.Router())
	m.Use(middleware.CORS(&cfg.Web.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	return m, nil
}
