// internal/storage/memory/memory.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/model"
	"github.com/runwaysim/runways/internal/storage"
)

const (
	jsonExt = ".json"
	gzipExt = ".json.gz"
)

// Backend keeps saves in memory. With an OutputDir every save is also
// written there as JSON and read back on Init.
type Backend struct {
	cfg config.MemoryConfig

	games map[string]*model.SavedGame              // keyed by Name
	stats map[string]map[uint64]model.DailyStatRow // keyed by GameUUID, then Day

	idCounter uint
	mu        sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		games: make(map[string]*model.SavedGame),
		stats: make(map[string]map[uint64]model.DailyStatRow),
	}
}

// Init loads any saves already present in the output directory.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	entries, err := os.ReadDir(b.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, jsonExt) || strings.HasSuffix(name, gzipExt)) {
			continue
		}
		g, err := readSave(filepath.Join(b.cfg.OutputDir, name))
		if err != nil {
			return err
		}
		b.idCounter++
		g.ID = b.idCounter
		b.games[g.Name] = g
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveGame stores a copy of g, replacing any save with the same name.
func (b *Backend) SaveGame(g *model.SavedGame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.games[g.Name]; ok {
		g.ID = prev.ID
		g.CreatedAt = prev.CreatedAt
	} else {
		b.idCounter++
		g.ID = b.idCounter
		g.CreatedAt = g.SavedAt
	}
	g.UpdatedAt = g.SavedAt

	saved := *g
	saved.State = append([]byte(nil), g.State...)
	saved.Airports = append([]model.AirportRow(nil), g.Airports...)
	for i := range saved.Airports {
		saved.Airports[i].SavedGameID = saved.ID
	}

	if b.cfg.OutputDir != "" {
		if err := b.writeSave(&saved); err != nil {
			return err
		}
	}
	b.games[g.Name] = &saved
	return nil
}

// LoadGame returns a copy of the save called name.
func (b *Backend) LoadGame(name string) (*model.SavedGame, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	g, ok := b.games[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *g
	out.State = append([]byte(nil), g.State...)
	out.Airports = append([]model.AirportRow(nil), g.Airports...)
	return &out, nil
}

// ListGames returns the saves by name, without state or airports.
func (b *Backend) ListGames() ([]model.SavedGame, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.SavedGame, 0, len(b.games))
	for _, g := range b.games {
		row := *g
		row.State = nil
		row.Airports = nil
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteGame removes the save and its file. Deleting an unknown name
// returns storage.ErrNotFound.
func (b *Backend) DeleteGame(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.games[name]; !ok {
		return storage.ErrNotFound
	}
	delete(b.games, name)
	if b.cfg.OutputDir != "" {
		for _, ext := range []string{jsonExt, gzipExt} {
			err := os.Remove(filepath.Join(b.cfg.OutputDir, fileName(name)+ext))
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove save file: %w", err)
			}
		}
	}
	return nil
}

// RecordStats stores daily rows; a row for a day already recorded
// replaces it.
func (b *Backend) RecordStats(rows []model.DailyStatRow) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range rows {
		days, ok := b.stats[r.GameUUID]
		if !ok {
			days = make(map[uint64]model.DailyStatRow)
			b.stats[r.GameUUID] = days
		}
		days[r.Day] = r
	}
	return nil
}

// Stats returns the recorded days of a run in day order.
func (b *Backend) Stats(gameUUID string) ([]model.DailyStatRow, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	days := b.stats[gameUUID]
	out := make([]model.DailyStatRow, 0, len(days))
	for _, r := range days {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// fileName makes a save name safe to use as a file name.
func fileName(name string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")
	return r.Replace(name)
}

func (b *Backend) writeSave(g *model.SavedGame) error {
	ext := jsonExt
	if b.cfg.CompressOutput {
		ext = gzipExt
	}
	path := filepath.Join(b.cfg.OutputDir, fileName(g.Name)+ext)

	tmp, err := os.CreateTemp(b.cfg.OutputDir, ".save-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var gz *gzip.Writer
	if b.cfg.CompressOutput {
		gz = gzip.NewWriter(tmp)
		w = gz
	}
	if err := json.NewEncoder(w).Encode(g); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move save file: %w", err)
	}
	return nil
}

func readSave(path string) (*model.SavedGame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, gzipExt) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	var g model.SavedGame
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &g, nil
}
