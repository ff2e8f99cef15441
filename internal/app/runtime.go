package app

import (
	"github.com/JaimeStill/topk/internal/config"
	"github.com/JaimeStill/topk/internal/infrastructure"
)

// Runtime extends Infrastructure with page-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Web      config.WebConfig
	Cookie   string
	Override string
}

// NewRuntime creates a page runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "app"),
			Storage:    infra.Storage,
			Classifier: infra.Classifier,
		},
		Web:      cfg.Web,
		Cookie:   cfg.Session.CookieName,
		Override: cfg.Classifier.APIBase,
	}
}
