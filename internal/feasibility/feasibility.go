// Package feasibility holds the pure checks that gate every plane
// movement and load.
package feasibility

import (
	"math"

	"github.com/runwaysim/runways/internal/geo"
	"github.com/runwaysim/runways/pkg/core"
)

// Simplified kinematics for the runway requirement.
const (
	TakeoffSpeedFactor  = 0.65  // fraction of cruise speed
	MaxTakeoffSpeed     = 150.0 // m/s, ceiling for fast jets
	TakeoffAcceleration = 2.5   // m/s²
	LandingDeceleration = 4.0   // m/s²
)

// Distance is the straight-line distance between two airports.
func Distance(a, b *core.Airport) float64 {
	return geo.Distance(a.Location, b.Location)
}

// FuelRequired returns the litres burned flying distance km.
func FuelRequired(specs core.Specs, distance float64) float64 {
	return distance / specs.CruiseSpeed * specs.FuelConsumption
}

// FlightHours is the whole number of hours a leg occupies. Partial hours
// round up and every flight takes at least one hour.
func FlightHours(specs core.Specs, distance float64) core.GameTime {
	h := math.Ceil(distance / specs.CruiseSpeed)
	if h < 1 {
		h = 1
	}
	return core.GameTime(h)
}

// MinRunwayLength derives the runway a model needs in metres: the longer
// of the takeoff roll and the landing roll at 65% of cruise speed, capped
// at MaxTakeoffSpeed.
func MinRunwayLength(specs core.Specs) float64 {
	v := math.Min(specs.CruiseSpeed*TakeoffSpeedFactor/3.6, MaxTakeoffSpeed)
	takeoff := v * v / (2 * TakeoffAcceleration)
	landing := v * v / (2 * LandingDeceleration)
	return math.Max(takeoff, landing)
}

// CheckRunway fails when the airport cannot handle the model.
func CheckRunway(specs core.Specs, airport *core.Airport) error {
	required := specs.MinRunwayLength
	if required == 0 {
		required = MinRunwayLength(specs)
	}
	if airport.RunwayLength < required {
		return &core.RunwayTooShortError{Required: required, Available: airport.RunwayLength}
	}
	return nil
}

// Report is the full breakdown of one leg, good enough to explain a
// refusal without recomputing anything.
type Report struct {
	Origin            int     `json:"origin"`
	Destination       int     `json:"destination"`
	Distance          float64 `json:"distance"`
	FuelRequired      float64 `json:"fuel_required"`
	FuelOnBoard       float64 `json:"fuel_on_board"`
	FuelCapacity      float64 `json:"fuel_capacity"`
	Range             float64 `json:"range"`
	FlightHours       uint64  `json:"flight_hours"`
	RunwayRequired    float64 `json:"runway_required"`
	OriginRunway      float64 `json:"origin_runway"`
	DestinationRunway float64 `json:"destination_runway"`
	Err               error   `json:"-"`
}

// OK reports whether the leg can be flown right now.
func (r Report) OK() bool {
	return r.Err == nil
}

// Reason renders the failure, or an empty string.
func (r Report) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Evaluate fills a report for flying plane from origin to dest. Checks run
// in order: range, fuel on board, origin runway, destination runway.
func Evaluate(plane *core.Airplane, origin, dest *core.Airport) Report {
	specs := plane.Specs
	dist := Distance(origin, dest)
	r := Report{
		Origin:            origin.ID,
		Destination:       dest.ID,
		Distance:          dist,
		FuelRequired:      FuelRequired(specs, dist),
		FuelOnBoard:       plane.Fuel,
		FuelCapacity:      specs.FuelCapacity,
		Range:             specs.Range(),
		FlightHours:       uint64(FlightHours(specs, dist)),
		RunwayRequired:    specs.MinRunwayLength,
		OriginRunway:      origin.RunwayLength,
		DestinationRunway: dest.RunwayLength,
	}

	switch {
	case r.FuelRequired > specs.FuelCapacity:
		r.Err = &core.OutOfRangeError{Distance: dist, Range: r.Range}
	case r.FuelRequired > plane.Fuel:
		r.Err = &core.InsufficientFuelError{Have: plane.Fuel, Need: r.FuelRequired}
	default:
		if err := CheckRunway(specs, origin); err != nil {
			r.Err = err
		} else if err := CheckRunway(specs, dest); err != nil {
			r.Err = err
		}
	}
	return r
}

// CanFly is Evaluate reduced to its error.
func CanFly(plane *core.Airplane, origin, dest *core.Airport) error {
	return Evaluate(plane, origin, dest).Err
}

// CheckCapacity fails when the order does not fit next to the manifest.
// Cargo weight and passenger seats are counted separately.
func CheckCapacity(plane *core.Airplane, order core.Order) error {
	switch order.Payload.Kind {
	case core.PayloadPassenger:
		current := plane.Passengers()
		if current+order.Payload.Passengers > plane.Specs.PassengerCapacity {
			return &core.MaxPayloadReachedError{
				Current: float64(current),
				Maximum: float64(plane.Specs.PassengerCapacity),
				Added:   float64(order.Payload.Passengers),
			}
		}
	default:
		current := plane.CargoWeight()
		if current+order.Payload.Weight > plane.Specs.PayloadCapacity {
			return &core.MaxPayloadReachedError{
				Current: current,
				Maximum: plane.Specs.PayloadCapacity,
				Added:   order.Payload.Weight,
			}
		}
	}
	return nil
}
