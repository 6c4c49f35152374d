// pkg/core/airplane.go
package core

import (
	"fmt"
	"strings"
)

// NoAirport marks an airplane that is between airports.
const NoAirport = -1

// Role describes which payload kinds a model is built for.
type Role uint8

const (
	RoleCargo Role = iota
	RolePassenger
	RoleMixed
)

var roleNames = [...]string{"Cargo", "Passenger", "Mixed"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", r)
}

// ParseRole resolves a role name, ignoring case.
func ParseRole(s string) (Role, error) {
	for i, n := range roleNames {
		if strings.EqualFold(n, s) {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown role: %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Specs is a catalog entry for one airplane model.
type Specs struct {
	Model             string  `json:"model"`
	MTOW              float64 `json:"mtow"`
	CruiseSpeed       float64 `json:"cruise_speed"`     // km/h
	FuelCapacity      float64 `json:"fuel_capacity"`    // litres
	FuelConsumption   float64 `json:"fuel_consumption"` // litres per hour
	OperatingCost     float64 `json:"operating_cost"`   // per hour
	PayloadCapacity   float64 `json:"payload_capacity"` // kg
	PassengerCapacity int     `json:"passenger_capacity"`
	Role              Role    `json:"role"`
	Price             float64 `json:"price"`
	MinRunwayLength   float64 `json:"min_runway_length"` // metres, derived
}

// Range is the distance a full tank covers.
func (s Specs) Range() float64 {
	if s.FuelConsumption <= 0 {
		return 0
	}
	return s.FuelCapacity / s.FuelConsumption * s.CruiseSpeed
}

// Status is the airplane state machine position.
type Status uint8

const (
	StatusParked Status = iota
	StatusLoading
	StatusUnloading
	StatusRefueling
	StatusInTransit
	StatusUnderMaintenance
	StatusGrounded
)

var statusNames = [...]string{"Parked", "Loading", "Unloading", "Refueling", "InTransit", "UnderMaintenance", "Grounded"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for i, n := range statusNames {
		if n == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status: %q", b)
}

// Transit describes a flight leg in progress.
type Transit struct {
	Origin      int      `json:"origin"`
	Destination int      `json:"destination"`
	DepartedAt  GameTime `json:"departed_at"`
	ArrivesAt   GameTime `json:"arrives_at"`
	Distance    float64  `json:"distance"`
}

// Remaining returns the hours left until arrival.
func (t Transit) Remaining(now GameTime) GameTime {
	if now >= t.ArrivesAt {
		return 0
	}
	return t.ArrivesAt - now
}

// Airplane is an owned aircraft.
type Airplane struct {
	ID              int        `json:"id"`
	Specs           Specs      `json:"specs"`
	Status          Status     `json:"status"`
	AirportID       int        `json:"airport_id"`
	Transit         *Transit   `json:"transit,omitempty"`
	Position        Coordinate `json:"position"`
	Fuel            float64    `json:"fuel"`
	Wear            float64    `json:"wear"`
	LastMaintenance GameTime   `json:"last_maintenance"`
	ParkedSince     GameTime   `json:"parked_since"`
	Manifest        []Order    `json:"manifest"`
	PendingLoad     *int       `json:"pending_load,omitempty"`
	PendingUnload   []int      `json:"pending_unload,omitempty"`
	Reserved        float64    `json:"reserved"` // cash held for the current flight
}

// CargoWeight sums the weight of cargo orders on board.
func (p *Airplane) CargoWeight() float64 {
	var w float64
	for _, o := range p.Manifest {
		if o.Payload.Kind == PayloadCargo {
			w += o.Payload.Weight
		}
	}
	return w
}

// Passengers sums the headcount of passenger orders on board.
func (p *Airplane) Passengers() int {
	var n int
	for _, o := range p.Manifest {
		if o.Payload.Kind == PayloadPassenger {
			n += o.Payload.Passengers
		}
	}
	return n
}

// ManifestIndex returns the position of the order in the manifest, or -1.
func (p *Airplane) ManifestIndex(id int) int {
	for i := range p.Manifest {
		if p.Manifest[i].ID == id {
			return i
		}
	}
	return -1
}

// AtAirport reports the airport the plane sits at, if any.
func (p *Airplane) AtAirport() (int, bool) {
	if p.Transit != nil || p.AirportID == NoAirport {
		return NoAirport, false
	}
	return p.AirportID, true
}
