package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/bookshelf/internal/books"
	"github.com/JaimeStill/bookshelf/internal/config"
	"github.com/JaimeStill/bookshelf/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener.
type Server struct {
	infra       *infrastructure.Infrastructure
	modules     *Modules
	http        *httpServer
	databaseURL string
}

// NewServer wires every subsystem without touching the network or disk.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.API.OpenAPI.Version,
		"storage", cfg.Storage.BasePath,
		"formats", infra.Formats.Formats(),
	)

	return &Server{
		infra:       infra,
		modules:     modules,
		http:        newHTTPServer(&cfg.Server, router, infra.Logger),
		databaseURL: cfg.Database.URL(),
	}, nil
}

// Start applies pending schema migrations, starts the infrastructure, and
// begins serving. Readiness is reported once every startup hook has run.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := books.Migrate(s.databaseURL, s.infra.Logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops all subsystems, waiting at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
