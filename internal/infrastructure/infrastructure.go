// Package infrastructure provides core service initialization for
// application startup. It assembles the shared dependencies (logging,
// database, blob storage, event bus) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/events"
	"github.com/campusdesk/campusdesk/pkg/database"
	"github.com/campusdesk/campusdesk/pkg/lifecycle"
	"github.com/campusdesk/campusdesk/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, blob storage, and event distribution.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Events    *events.RedisBus
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	bus := events.NewRedisBus(cfg.Events, logger)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Events:    bus,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Events.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("events start failed: %w", err)
	}
	return nil
}
