package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/runwaysim/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorld = `
seed: 7
starting_cash: 250000
airports:
  - id: 0
    name: HUB
    location: {x: 1000, y: 1000}
    runway_length_m: 3000
    fuel_price_per_l: 1.2
    orders:
      - cargo: Food
        weight: 800
        value: 5000
        deadline_hours: 48
        destination_id: 1
  - id: 1
    name: Spoke
    location: {x: 1300, y: 1000}
    runway_length_m: 1200
    fuel_price_per_l: 1.5
    landing_fee_per_ton: 3.5
    orders:
      - passengers: 3
        value: 900
        deadline_hours: 12
        destination_id: 0
gameplay:
  restock_cycle_hours: 72
  fuel:
    elasticity: 0.1
airplanes:
  strategy: add
  models:
    - name: Hopper
      mtow: 3000
      cruise_speed_kmh: 300
      fuel_capacity_l: 400
      fuel_consumption_lph: 50
      operating_cost_per_hour: 200
      payload_capacity_kg: 900
      passenger_capacity: 4
      role: mixed
      purchase_price: 150000
`

func TestParseWorld_Sample(t *testing.T) {
	cfg, err := ParseWorld([]byte(sampleWorld))
	require.NoError(t, err)

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
	require.NotNil(t, cfg.StartingCash)
	assert.Equal(t, 250000.0, *cfg.StartingCash)
	require.Len(t, cfg.Airports, 2)
	assert.Nil(t, cfg.Airports[0].LandingFee)
	require.NotNil(t, cfg.Airports[1].LandingFee)
	assert.Equal(t, 3.5, *cfg.Airports[1].LandingFee)

	// set fields override, the rest keep their defaults
	def := core.DefaultGameplay()
	assert.Equal(t, uint64(72), cfg.Gameplay.RestockCycleHours)
	assert.Equal(t, 0.1, cfg.Gameplay.Fuel.Elasticity)
	assert.Equal(t, def.Fuel.MaxMultiplier, cfg.Gameplay.Fuel.MaxMultiplier)
	assert.Equal(t, def.Orders, cfg.Gameplay.Orders)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 9, cat.Len())
	hopper, err := cat.Lookup("hopper")
	require.NoError(t, err)
	assert.Equal(t, core.RoleMixed, hopper.Role)
	assert.Greater(t, hopper.MinRunwayLength, 0.0)

	p, err := cfg.Airports[1].Orders[0].Payload()
	require.NoError(t, err)
	assert.Equal(t, core.PayloadPassenger, p.Kind)
	assert.Equal(t, 3, p.Passengers)
}

func TestParseWorld_Empty(t *testing.T) {
	cfg, err := ParseWorld(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Seed)
	assert.Empty(t, cfg.Airports)
	assert.Equal(t, core.DefaultGameplay(), cfg.Gameplay)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 8, cat.Len())
}

func TestParseWorld_ReplaceCatalog(t *testing.T) {
	doc := `
airplanes:
  strategy: replace
  models:
    - name: Solo
      mtow: 2000
      cruise_speed_kmh: 250
      fuel_capacity_l: 300
      fuel_consumption_lph: 40
      operating_cost_per_hour: 100
      payload_capacity_kg: 500
      role: cargo
      purchase_price: 90000
`
	cfg, err := ParseWorld([]byte(doc))
	require.NoError(t, err)
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, cat.Names())
}

func TestParseWorld_Rejects(t *testing.T) {
	airport := func(id int, name string, x float64) string {
		return `
  - id: ` + itoa(id) + `
    name: ` + name + `
    location: {x: ` + ftoa(x) + `, y: 10}
    runway_length_m: 1000
    fuel_price_per_l: 1`
	}

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"duplicate id", "airports:" + airport(1, "A", 1) + airport(1, "B", 2), "duplicate airport id"},
		{"duplicate name", "airports:" + airport(1, "Alpha", 1) + airport(2, "ALPHA", 2), "duplicate airport name"},
		{"out of bounds", "airports:" + airport(1, "A", 10001), "out of bounds"},
		{"negative x", "airports:" + airport(1, "A", -1), "out of bounds"},
		{"zero runway", "airports:\n  - {id: 1, name: A, location: {x: 1, y: 1}, runway_length_m: 0, fuel_price_per_l: 1}", "runway_length_m must be positive"},
		{"zero fuel", "airports:\n  - {id: 1, name: A, location: {x: 1, y: 1}, runway_length_m: 900, fuel_price_per_l: 0}", "fuel_price_per_l must be positive"},
		{"elasticity one", "gameplay:\n  fuel: {elasticity: 1}", "elasticity"},
		{"elasticity zero", "gameplay:\n  fuel: {elasticity: 0}", "elasticity"},
		{"inverted multipliers", "gameplay:\n  fuel: {min_multiplier: 2, max_multiplier: 1}", "max_multiplier"},
		{"unknown key", "airprots: []", "error parsing world config"},
		{"bad strategy", "airplanes: {strategy: merge}", "unknown catalog strategy"},
		{"bad cargo", "airports:" + airport(1, "A", 1) + airport(2, "B", 2) + "\n    orders:\n      - {cargo: Gold, weight: 1, value: 1, deadline_hours: 1, destination_id: 1}", "unknown cargo type"},
		{"self destination", "airports:" + airport(1, "A", 1) + "\n    orders:\n      - {passengers: 2, value: 1, deadline_hours: 1, destination_id: 1}", "destination must differ"},
		{"both counts", "num_airports: 3\nairports:" + airport(1, "A", 1), "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorld([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadWorld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 3\nnum_airports: 6\n"), 0644))

	cfg, err := LoadWorld(path)
	require.NoError(t, err)
	assert.Equal(t, 6, *cfg.NumAirports)

	_, err = LoadWorld(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading world file")
}

func itoa(i int) string { return fmt.Sprint(i) }

func ftoa(f float64) string { return fmt.Sprint(f) }
