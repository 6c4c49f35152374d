package main

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/database"
	"github.com/runwaysim/runways/internal/storage"
	"github.com/runwaysim/runways/internal/storage/memory"
	pgstorage "github.com/runwaysim/runways/internal/storage/postgres"
	sqlitestorage "github.com/runwaysim/runways/internal/storage/sqlite"
)

// openStorage creates and initialises the configured save backend.
func openStorage(cfg config.StorageConfig, log *slog.Logger, zlog zerolog.Logger) (storage.Backend, error) {
	backend, err := createStorageBackend(cfg, log, zlog)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Type, err)
	}
	return backend, nil
}

func createStorageBackend(cfg config.StorageConfig, log *slog.Logger, zlog zerolog.Logger) (storage.Backend, error) {
	switch cfg.Type {
	case "postgres":
		m := database.NewManager(zlog)
		m.SqliteFilePath = cfg.SQLite.Path
		backend, err := pgstorage.New(m, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		if backend.Fallback() {
			log.Warn("Postgres unreachable, saves go to SQLite", "path", cfg.SQLite.Path)
		} else {
			log.Info("Postgres storage backend initialized")
		}
		return backend, nil

	case "sqlite":
		backend, err := sqlitestorage.New(cfg.SQLite, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		log.Info("SQLite storage backend initialized", "path", cfg.SQLite.Path, "dumpPath", cfg.SQLite.DumpPath)
		return backend, nil

	case "memory", "":
		log.Info("Memory storage backend initialized", "outputDir", cfg.Memory.OutputDir)
		return memory.New(cfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
