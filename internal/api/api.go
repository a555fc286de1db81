// Package api assembles the HTTP API module: domain systems, routes,
// the OpenAPI document, and the middleware stack.
package api

import (
	"net/http"

	"github.com/JaimeStill/bookshelf/internal/config"
	"github.com/JaimeStill/bookshelf/internal/infrastructure"
	"github.com/JaimeStill/bookshelf/pkg/middleware"
	"github.com/JaimeStill/bookshelf/pkg/module"
	"github.com/JaimeStill/bookshelf/pkg/openapi"
)

// NewModule builds the API module mounted at the configured base path.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.API.OpenAPI.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
