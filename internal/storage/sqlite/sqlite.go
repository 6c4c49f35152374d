// Package sqlitestorage implements the storage.Backend interface using a
// SQLite database. It wraps the GORM backend; the only SQLite-specific
// concern is copying an in-memory database to disk on close.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/database"
	gormstorage "github.com/runwaysim/runways/internal/storage/gorm"

	"gorm.io/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db  *gorm.DB
	cfg config.SQLiteConfig
	log *slog.Logger
}

// New opens the database at cfg.Path, or the shared in-memory one when
// the path is empty.
func New(cfg config.SQLiteConfig, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := database.GetSqliteDBStandalone(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: log}),
		db:      db,
		cfg:     cfg,
		log:     log,
	}, nil
}

// Dump copies the database to cfg.DumpPath via VACUUM INTO. It is a
// no-op without a dump path.
func (b *Backend) Dump() error {
	if b.cfg.DumpPath == "" {
		return nil
	}
	start := time.Now()
	if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
		return err
	}
	b.log.Debug("dumped saves to disk", "path", b.cfg.DumpPath, "duration", time.Since(start))
	return nil
}

// Close dumps the database and closes the embedded GORM backend.
func (b *Backend) Close() error {
	dumpErr := b.Dump()
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if dumpErr != nil {
		return fmt.Errorf("error dumping to disk: %w", dumpErr)
	}
	return nil
}
