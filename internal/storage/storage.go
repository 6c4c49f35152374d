// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/internal/model"
	"github.com/runwaysim/runways/internal/model/convert"
)

// ErrNotFound is returned when no save has the requested name.
var ErrNotFound = errors.New("saved game not found")

// Backend is the interface all save stores must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveGame stores the row under its name, replacing an older save of
	// the same name.
	SaveGame(g *model.SavedGame) error
	LoadGame(name string) (*model.SavedGame, error)
	// ListGames returns every save without its state, ordered by name.
	ListGames() ([]model.SavedGame, error)
	DeleteGame(name string) error
}

// StatsRecorder is an optional interface for backends that keep the daily
// statistics of a run.
type StatsRecorder interface {
	RecordStats(rows []model.DailyStatRow) error
	Stats(gameUUID string) ([]model.DailyStatRow, error)
}

// Save snapshots g into b under name. An existing save of that name keeps
// its UUID.
func Save(b Backend, name string, g *game.Game) (*model.SavedGame, error) {
	var id string
	if prev, err := b.LoadGame(name); err == nil {
		id = prev.UUID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	row, err := convert.GameToSavedGame(name, id, g, now)
	if err != nil {
		return nil, err
	}
	if err := b.SaveGame(&row); err != nil {
		return nil, fmt.Errorf("saving %q: %w", name, err)
	}
	if rec, ok := b.(StatsRecorder); ok {
		if err := rec.RecordStats(convert.StatsToRows(row.UUID, row.Seed, g.Stats(), now)); err != nil {
			return nil, fmt.Errorf("saving stats of %q: %w", name, err)
		}
	}
	return &row, nil
}

// Load restores the game saved under name.
func Load(b Backend, name string, opts ...game.Option) (*game.Game, error) {
	row, err := b.LoadGame(name)
	if err != nil {
		return nil, err
	}
	return convert.SavedGameToGame(*row, opts...)
}
