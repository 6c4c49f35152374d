// Package postgres implements the storage.Backend interface on PostgreSQL
// through the GORM backend. When the server cannot be reached it falls
// back to SQLite, the same way the database manager does.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/runwaysim/runways/internal/database"
	gormstorage "github.com/runwaysim/runways/internal/storage/gorm"
)

// Backend wraps the GORM backend over a managed connection.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
}

// New connects through manager and migrates the schema.
func New(manager *database.Manager, log *slog.Logger) (*Backend, error) {
	if err := manager.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: manager.DB, Logger: log}),
		manager: manager,
	}, nil
}

// Fallback reports whether the backend ended up on SQLite.
func (b *Backend) Fallback() bool {
	return b.manager.ShouldSaveLocal
}

// Init migrates the schema through the manager.
func (b *Backend) Init() error {
	return b.manager.Setup()
}

// Close closes the manager's pool.
func (b *Backend) Close() error {
	return b.manager.Close()
}
