package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI parses args and runs the command, returning its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)

	var opts options
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse(append([]string{"--log-level", "error"}, args...)))

	var out bytes.Buffer
	err := run(context.Background(), fs, opts, &out)
	viper.Reset()
	return out.String(), err
}

func TestSteps(t *testing.T) {
	tests := []struct {
		hours, step uint64
		want        []uint64
	}{
		{10, 3, []uint64{3, 3, 3, 1}},
		{4, 4, []uint64{4}},
		{3, 0, []uint64{1, 1, 1}},
		{0, 5, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, steps(tt.hours, tt.step), "%d/%d", tt.hours, tt.step)
	}
}

func TestRun_SingleSaveLoadDelete(t *testing.T) {
	dir := t.TempDir()
	saves := filepath.Join(dir, "saves")
	csvPath := filepath.Join(dir, "stats.csv")

	out, err := runCLI(t, "--seed", "5", "--airports", "6", "--hours", "50", "--step", "7",
		"--save-dir", saves, "--save", "first", "--stats-csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seed")
	assert.Contains(t, out, "2d 2h")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "day,income,expenses,net_cash,fleet_size,deliveries,departures", lines[0])

	out, err = runCLI(t, "--save-dir", saves, "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "first")

	out, err = runCLI(t, "--save-dir", saves, "--load", "first", "--hours", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "2d 12h")

	out, err = runCLI(t, "--save-dir", saves, "--delete", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted first")

	_, err = runCLI(t, "--save-dir", saves, "--load", "first")
	assert.Error(t, err)
}

func TestRun_Batch(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "results.csv")

	out, err := runCLI(t, "--seed", "1", "--instances", "4", "--hours", "10", "--results-csv", csvPath)
	require.NoError(t, err)
	for _, seed := range []string{"1", "2", "3", "4"} {
		assert.Contains(t, out, seed)
	}

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "seed,time,cash", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,10,"), lines[1])
}

func TestRun_WorldFile(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(world, []byte(`
airports:
  - id: 0
    name: A
    location: {x: 1000, y: 1000}
    runway_length_m: 3000
    fuel_price_per_l: 1.0
  - id: 1
    name: B
    location: {x: 1200, y: 1000}
    runway_length_m: 3000
    fuel_price_per_l: 1.0
`), 0644))

	out, err := runCLI(t, "--world", world, "--hours", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "3h")
}

func TestRun_ConfigDirMissing(t *testing.T) {
	_, err := runCLI(t, "--config-dir", t.TempDir())
	assert.Error(t, err)
}

func TestRun_InfluxBackup(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "cfg")
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	backup := filepath.Join(dir, "stats.lp.gz")
	cfg := `{"influx": {"host": "127.0.0.1", "port": "1", "backupPath": "` + filepath.ToSlash(backup) + `"}}`
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, config.ConfigFileName), []byte(cfg), 0644))

	_, err := runCLI(t, "--config-dir", cfgDir, "--influx", "--hours", "30")
	require.NoError(t, err)

	info, err := os.Stat(backup)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestCreateStorageBackend(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	b, err := createStorageBackend(config.StorageConfig{Type: "memory"}, log, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	b, err = createStorageBackend(config.StorageConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "saves.db")},
	}, log, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	_, err = createStorageBackend(config.StorageConfig{Type: "floppy"}, log, zerolog.Nop())
	assert.Error(t, err)
}

func TestPrintSaves(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	printSaves(&buf, []model.SavedGame{{Name: "alpha", Seed: 3, GameTime: 30, Cash: 1234567.891, FleetSize: 2, SavedAt: now.Add(-time.Hour)}}, now)

	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "1d 6h")
	assert.Contains(t, out, "$1,234,567.89")
	assert.Contains(t, out, "1 hour ago")
}
