// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/bookshelf/internal/config"
	"github.com/JaimeStill/bookshelf/internal/notify"
	"github.com/JaimeStill/bookshelf/pkg/database"
	"github.com/JaimeStill/bookshelf/pkg/formats"
	"github.com/JaimeStill/bookshelf/pkg/lifecycle"
	"github.com/JaimeStill/bookshelf/pkg/locks"
	"github.com/JaimeStill/bookshelf/pkg/logging"
	"github.com/JaimeStill/bookshelf/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Each document-level system is constructed once here and passed down
// explicitly; none of them is a process global.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Formats   *formats.Registry
	Locks     *locks.Manager
	Hub       *notify.Hub
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Formats:   formats.New(),
		Locks:     locks.New(),
		Hub:       notify.NewHub(cfg.Notify.SendBuffer, logger),
	}, nil
}

// Start registers every infrastructure system with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Hub.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("notify start failed: %w", err)
	}
	return nil
}
