// Package gormstorage implements the storage.Backend interface on top of any
// GORM dialect. The sqlite and postgres backends wrap it.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/runwaysim/runways/internal/database"
	"github.com/runwaysim/runways/internal/model"
	"github.com/runwaysim/runways/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps Dependencies
}

var (
	_ storage.Backend       = (*Backend)(nil)
	_ storage.StatsRecorder = (*Backend)(nil)
)

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{deps: deps}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB { return b.deps.DB }

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend has no database")
	}
	if err := database.Migrate(b.deps.DB); err != nil {
		return err
	}
	b.deps.Logger.Debug("save schema ready", "dialect", b.deps.DB.Dialector.Name())
	return nil
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveGame upserts g by name. The airport rows of an older save are
// replaced.
func (b *Backend) SaveGame(g *model.SavedGame) error {
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var prev model.SavedGame
		err := tx.Unscoped().Select("id", "created_at").Where("name = ?", g.Name).Take(&prev).Error
		switch {
		case err == nil:
			g.ID = prev.ID
			g.CreatedAt = prev.CreatedAt
			g.DeletedAt = gorm.DeletedAt{}
			if err := tx.Where("saved_game_id = ?", prev.ID).Delete(&model.AirportRow{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			g.ID = 0
		default:
			return err
		}

		if err := tx.Omit("Airports").Save(g).Error; err != nil {
			return err
		}
		if len(g.Airports) == 0 {
			return nil
		}
		for i := range g.Airports {
			g.Airports[i].ID = 0
			g.Airports[i].SavedGameID = g.ID
		}
		return tx.Create(&g.Airports).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save game %q: %w", g.Name, err)
	}
	b.deps.Logger.Info("game saved", "name", g.Name, "uuid", g.UUID, "gameTime", g.GameTime)
	return nil
}

// LoadGame returns the save called name with its airports.
func (b *Backend) LoadGame(name string) (*model.SavedGame, error) {
	var g model.SavedGame
	err := b.deps.DB.
		Preload("Airports", func(db *gorm.DB) *gorm.DB { return db.Order("airport_id") }).
		Where("name = ?", name).
		Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %q: %w", name, err)
	}
	return &g, nil
}

// ListGames returns every save by name, without state.
func (b *Backend) ListGames() ([]model.SavedGame, error) {
	var out []model.SavedGame
	err := b.deps.DB.
		Select("id", "created_at", "updated_at", "uuid", "name", "seed", "game_time", "cash", "fleet_size", "saved_at").
		Order("name").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return out, nil
}

// DeleteGame removes the save and its airports.
func (b *Backend) DeleteGame(name string) error {
	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var g model.SavedGame
		err := tx.Select("id").Where("name = ?", name).Take(&g).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("saved_game_id = ?", g.ID).Delete(&model.AirportRow{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.SavedGame{}, g.ID).Error
	})
}

// RecordStats upserts rows on (game_uuid, day).
func (b *Backend) RecordStats(rows []model.DailyStatRow) error {
	if len(rows) == 0 {
		return nil
	}
	err := b.deps.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_uuid"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"seed", "income", "expenses", "net_cash", "fleet_size", "deliveries", "departures", "recorded_at"}),
	}).CreateInBatches(rows, 500).Error
	if err != nil {
		return fmt.Errorf("failed to record %d stats rows: %w", len(rows), err)
	}
	return nil
}

// Stats returns the recorded days of a run in day order.
func (b *Backend) Stats(gameUUID string) ([]model.DailyStatRow, error) {
	var out []model.DailyStatRow
	if err := b.deps.DB.Where("game_uuid = ?", gameUUID).Order("day").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return out, nil
}
