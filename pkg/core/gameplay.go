// pkg/core/gameplay.go
package core

// OrderTuning drives order generation.
type OrderTuning struct {
	GenerateInitial  bool    `json:"generate_initial" yaml:"generate_initial"`
	MaxDeadlineHours uint64  `json:"max_deadline_hours" yaml:"max_deadline_hours"`
	MinWeight        float64 `json:"min_weight" yaml:"min_weight"`
	MaxWeight        float64 `json:"max_weight" yaml:"max_weight"`
	MinPassengers    int     `json:"min_passengers" yaml:"min_passengers"`
	MaxPassengers    int     `json:"max_passengers" yaml:"max_passengers"`
	PassengerShare   float64 `json:"passenger_share" yaml:"passenger_share"`
	Alpha            float64 `json:"alpha" yaml:"alpha"`
	Beta             float64 `json:"beta" yaml:"beta"`
}

// FuelTuning bounds the dynamic fuel price.
type FuelTuning struct {
	Elasticity    float64 `json:"elasticity" yaml:"elasticity"`
	MinMultiplier float64 `json:"min_multiplier" yaml:"min_multiplier"`
	MaxMultiplier float64 `json:"max_multiplier" yaml:"max_multiplier"`
}

// MaintenanceTuning shapes the breakdown risk curve.
type MaintenanceTuning struct {
	CheckIntervalHours uint64  `json:"check_interval_hours" yaml:"check_interval_hours"`
	BreakdownFloor     float64 `json:"breakdown_floor" yaml:"breakdown_floor"`
	BreakdownRate      float64 `json:"breakdown_rate" yaml:"breakdown_rate"` // per hour since maintenance
	BreakdownMax       float64 `json:"breakdown_max" yaml:"breakdown_max"`
}

// WorldEventTuning controls random airport disturbances. An interval of
// zero disables them.
type WorldEventTuning struct {
	IntervalHours uint64 `json:"interval_hours" yaml:"interval_hours"`
	DurationHours uint64 `json:"duration_hours" yaml:"duration_hours"`
}

// Gameplay gathers every tuning knob of a world.
type Gameplay struct {
	RestockCycleHours uint64            `json:"restock_cycle_hours" yaml:"restock_cycle_hours"`
	FuelIntervalHours uint64            `json:"fuel_interval_hours" yaml:"fuel_interval_hours"`
	ClusterRadiusKm   float64           `json:"cluster_radius_km" yaml:"cluster_radius_km"`
	Orders            OrderTuning       `json:"orders" yaml:"orders"`
	Fuel              FuelTuning        `json:"fuel" yaml:"fuel"`
	Maintenance       MaintenanceTuning `json:"maintenance" yaml:"maintenance"`
	WorldEvents       WorldEventTuning  `json:"world_events" yaml:"world_events"`
}

// DefaultGameplay returns the stock tuning.
func DefaultGameplay() Gameplay {
	return Gameplay{
		RestockCycleHours: 7 * HoursPerDay,
		FuelIntervalHours: 6,
		ClusterRadiusKm:   600,
		Orders: OrderTuning{
			GenerateInitial:  true,
			MaxDeadlineHours: 14 * HoursPerDay,
			MinWeight:        100,
			MaxWeight:        20000,
			MinPassengers:    5,
			MaxPassengers:    150,
			PassengerShare:   0.3,
			Alpha:            0.5,
			Beta:             0.7,
		},
		Fuel: FuelTuning{
			Elasticity:    0.05,
			MinMultiplier: 0.5,
			MaxMultiplier: 2.0,
		},
		Maintenance: MaintenanceTuning{
			CheckIntervalHours: HoursPerDay,
			BreakdownFloor:     0,
			BreakdownRate:      0.0002,
			BreakdownMax:       0.5,
		},
		WorldEvents: WorldEventTuning{
			IntervalHours: 96,
			DurationHours: HoursPerDay,
		},
	}
}
