package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/pkg/core"
	"gopkg.in/yaml.v3"
)

// WorldConfig is the declarative world description. Either Airports or
// NumAirports selects the map; every other field falls back to the stock
// value when left out.
type WorldConfig struct {
	Seed         *uint64          `yaml:"seed"`
	StartingCash *float64         `yaml:"starting_cash"`
	NumAirports  *int             `yaml:"num_airports"`
	Airports     []AirportConfig  `yaml:"airports"`
	Gameplay     core.Gameplay    `yaml:"gameplay"`
	Airplanes    *AirplanesConfig `yaml:"airplanes"`
}

// AirportConfig describes one hand-placed airport. Fees left out are
// derived from the runway the same way generated airports get them.
type AirportConfig struct {
	ID           int             `yaml:"id"`
	Name         string          `yaml:"name"`
	Location     core.Coordinate `yaml:"location"`
	RunwayLength float64         `yaml:"runway_length_m"`
	FuelPrice    float64         `yaml:"fuel_price_per_l"`
	LandingFee   *float64        `yaml:"landing_fee_per_ton"`
	ParkingFee   *float64        `yaml:"parking_fee_per_hour"`
	Orders       []OrderConfig   `yaml:"orders"`
}

// OrderConfig is a manual order seeded at its airport. Exactly one of
// Cargo+Weight or Passengers is set.
type OrderConfig struct {
	Cargo         string  `yaml:"cargo"`
	Weight        float64 `yaml:"weight"`
	Passengers    int     `yaml:"passengers"`
	Value         float64 `yaml:"value"`
	DeadlineHours uint64  `yaml:"deadline_hours"`
	Destination   int     `yaml:"destination_id"`
}

// Payload resolves the order's payload.
func (o OrderConfig) Payload() (core.Payload, error) {
	switch {
	case o.Passengers > 0 && o.Cargo != "":
		return core.Payload{}, errors.New("order must be cargo or passenger, not both")
	case o.Passengers > 0:
		return core.PassengerPayload(o.Passengers), nil
	case o.Passengers < 0:
		return core.Payload{}, errors.New("passengers must be positive")
	}
	t, err := core.ParseCargoType(o.Cargo)
	if err != nil {
		return core.Payload{}, err
	}
	if o.Weight <= 0 {
		return core.Payload{}, errors.New("cargo weight must be positive")
	}
	return core.CargoPayload(t, o.Weight), nil
}

// AirplanesConfig extends or replaces the stock catalog.
type AirplanesConfig struct {
	Strategy string        `yaml:"strategy"`
	Models   []ModelConfig `yaml:"models"`
}

// ModelConfig is one custom airplane model.
type ModelConfig struct {
	Name              string  `yaml:"name"`
	MTOW              float64 `yaml:"mtow"`
	CruiseSpeed       float64 `yaml:"cruise_speed_kmh"`
	FuelCapacity      float64 `yaml:"fuel_capacity_l"`
	FuelConsumption   float64 `yaml:"fuel_consumption_lph"`
	OperatingCost     float64 `yaml:"operating_cost_per_hour"`
	PayloadCapacity   float64 `yaml:"payload_capacity_kg"`
	PassengerCapacity int     `yaml:"passenger_capacity"`
	Role              string  `yaml:"role"`
	Price             float64 `yaml:"purchase_price"`
}

// Specs converts the entry into catalog specs.
func (m ModelConfig) Specs() (core.Specs, error) {
	role := core.RoleMixed
	if m.Role != "" {
		r, err := core.ParseRole(m.Role)
		if err != nil {
			return core.Specs{}, fmt.Errorf("%s: %w", m.Name, err)
		}
		role = r
	}
	return core.Specs{
		Model:             strings.TrimSpace(m.Name),
		MTOW:              m.MTOW,
		CruiseSpeed:       m.CruiseSpeed,
		FuelCapacity:      m.FuelCapacity,
		FuelConsumption:   m.FuelConsumption,
		OperatingCost:     m.OperatingCost,
		PayloadCapacity:   m.PayloadCapacity,
		PassengerCapacity: m.PassengerCapacity,
		Role:              role,
		Price:             m.Price,
	}, nil
}

// LoadWorld reads and validates a YAML world file.
func LoadWorld(path string) (*WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading world file: %w", err)
	}
	cfg, err := ParseWorld(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseWorld decodes and validates a YAML world document. Unknown keys are
// rejected; an empty document yields the stock world.
func ParseWorld(data []byte) (*WorldConfig, error) {
	cfg := &WorldConfig{Gameplay: core.DefaultGameplay()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing world config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the whole configuration.
func (w *WorldConfig) Validate() error {
	if w.NumAirports != nil && *w.NumAirports < 0 {
		return errors.New("num_airports must not be negative")
	}
	if w.NumAirports != nil && len(w.Airports) > 0 {
		return errors.New("num_airports and airports are mutually exclusive")
	}
	if w.StartingCash != nil && *w.StartingCash < 0 {
		return errors.New("starting_cash must not be negative")
	}
	if err := validateAirports(w.Airports); err != nil {
		return err
	}
	if err := ValidateGameplay(w.Gameplay); err != nil {
		return err
	}
	if _, err := w.Catalog(); err != nil {
		return err
	}
	return nil
}

func validateAirports(airports []AirportConfig) error {
	ids := make(map[int]struct{}, len(airports))
	names := make(map[string]struct{}, len(airports))
	for _, a := range airports {
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("duplicate airport id %d", a.ID)
		}
		ids[a.ID] = struct{}{}

		name := strings.ToUpper(strings.TrimSpace(a.Name))
		if name == "" {
			return fmt.Errorf("airport %d: name must not be empty", a.ID)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("duplicate airport name %q", a.Name)
		}
		names[name] = struct{}{}

		switch {
		case a.ID < 0:
			return fmt.Errorf("airport %d: id must not be negative", a.ID)
		case !a.Location.InBounds():
			return fmt.Errorf("airport %s: location (%g, %g) out of bounds", a.Name, a.Location.X, a.Location.Y)
		case a.RunwayLength <= 0:
			return fmt.Errorf("airport %s: runway_length_m must be positive", a.Name)
		case a.FuelPrice <= 0:
			return fmt.Errorf("airport %s: fuel_price_per_l must be positive", a.Name)
		case a.LandingFee != nil && *a.LandingFee < 0:
			return fmt.Errorf("airport %s: landing_fee_per_ton must not be negative", a.Name)
		case a.ParkingFee != nil && *a.ParkingFee < 0:
			return fmt.Errorf("airport %s: parking_fee_per_hour must not be negative", a.Name)
		}
	}
	for _, a := range airports {
		for i, o := range a.Orders {
			if err := validateOrder(o, a.ID, ids); err != nil {
				return fmt.Errorf("airport %s order %d: %w", a.Name, i, err)
			}
		}
	}
	return nil
}

func validateOrder(o OrderConfig, origin int, ids map[int]struct{}) error {
	if _, err := o.Payload(); err != nil {
		return err
	}
	switch {
	case o.Destination == origin:
		return errors.New("destination must differ from origin")
	case o.Value < 0:
		return errors.New("value must not be negative")
	case o.DeadlineHours == 0:
		return errors.New("deadline_hours must be positive")
	}
	if _, ok := ids[o.Destination]; !ok {
		return fmt.Errorf("unknown destination_id %d", o.Destination)
	}
	return nil
}

// ValidateGameplay checks the tuning block.
func ValidateGameplay(g core.Gameplay) error {
	if err := economy.ValidateFuel(g.Fuel); err != nil {
		return err
	}
	o := g.Orders
	switch {
	case g.RestockCycleHours == 0:
		return errors.New("restock_cycle_hours must be positive")
	case g.FuelIntervalHours == 0:
		return errors.New("fuel_interval_hours must be positive")
	case g.ClusterRadiusKm < 0:
		return errors.New("cluster_radius_km must not be negative")
	case o.MaxDeadlineHours == 0:
		return errors.New("orders.max_deadline_hours must be positive")
	case o.MinWeight <= 0 || o.MaxWeight < o.MinWeight:
		return errors.New("orders weight range is malformed")
	case o.MinPassengers <= 0 || o.MaxPassengers < o.MinPassengers:
		return errors.New("orders passenger range is malformed")
	case o.PassengerShare < 0 || o.PassengerShare > 1:
		return errors.New("orders.passenger_share must be within [0, 1]")
	case o.Alpha < 0 || o.Beta < 0:
		return errors.New("orders alpha and beta must not be negative")
	case g.Maintenance.CheckIntervalHours == 0:
		return errors.New("maintenance.check_interval_hours must be positive")
	case g.Maintenance.BreakdownFloor < 0 || g.Maintenance.BreakdownRate < 0:
		return errors.New("maintenance breakdown floor and rate must not be negative")
	case g.Maintenance.BreakdownMax < g.Maintenance.BreakdownFloor || g.Maintenance.BreakdownMax > 1:
		return errors.New("maintenance.breakdown_max must be within [breakdown_floor, 1]")
	case g.WorldEvents.IntervalHours > 0 && g.WorldEvents.DurationHours == 0:
		return errors.New("world_events.duration_hours must be positive")
	}
	return nil
}

// Catalog resolves the airplane catalog the world runs with.
func (w *WorldConfig) Catalog() (*catalog.Catalog, error) {
	base := catalog.Default()
	if w.Airplanes == nil {
		return base, nil
	}
	strategy, err := catalog.ParseStrategy(w.Airplanes.Strategy)
	if err != nil {
		return nil, err
	}
	entries := make([]core.Specs, 0, len(w.Airplanes.Models))
	for _, m := range w.Airplanes.Models {
		s, err := m.Specs()
		if err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return base.Merge(strategy, entries)
}
