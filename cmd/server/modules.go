package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/topk/internal/app"
	"github.com/JaimeStill/topk/internal/config"
	"github.com/JaimeStill/topk/internal/infrastructure"
	"github.com/JaimeStill/topk/pkg/module"
)

type Modules struct {
	App *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	appModule, err := app.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		App: appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.App)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.Redirect("GET /{$}", cfg.Web.BasePath+"/", http.StatusFound)

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
