// Package airplane is the per-aircraft state machine. Every Begin*
// function validates the current status, mutates the plane only on
// success and returns the completion event the caller must schedule.
package airplane

import (
	"fmt"
	"math"

	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/internal/geo"
	"github.com/runwaysim/runways/pkg/core"
)

// TaskHours is how long loading, unloading, refueling and maintenance take.
const TaskHours core.GameTime = 1

// Operation is a transition a caller can request.
type Operation uint8

const (
	OpLoad Operation = iota
	OpUnload
	OpRefuel
	OpDepart
	OpMaintain
	OpSell
)

var opNames = [...]string{"load", "unload", "refuel", "depart", "maintain", "sell"}

func (o Operation) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Operation(%d)", o)
}

// allowed lists the operations each status accepts. Statuses absent from
// the table accept nothing.
var allowed = map[core.Status][]Operation{
	core.StatusParked:   {OpLoad, OpUnload, OpRefuel, OpDepart, OpMaintain, OpSell},
	core.StatusGrounded: {OpMaintain},
}

// Allows reports whether op is legal from status.
func Allows(status core.Status, op Operation) bool {
	for _, o := range allowed[status] {
		if o == op {
			return true
		}
	}
	return false
}

// Ready checks that the plane can start op right now.
func Ready(p *core.Airplane, op Operation) error {
	if p.Status == core.StatusInTransit {
		return &core.PlaneNotAtAirportError{PlaneID: p.ID}
	}
	if !Allows(p.Status, op) {
		return &core.PlaneNotReadyError{State: p.Status}
	}
	if _, ok := p.AtAirport(); !ok {
		return &core.PlaneNotAtAirportError{PlaneID: p.ID}
	}
	return nil
}

// New returns a freshly bought plane parked at airport with a full tank.
func New(id int, specs core.Specs, airport *core.Airport, now core.GameTime) *core.Airplane {
	return &core.Airplane{
		ID:              id,
		Specs:           specs,
		Status:          core.StatusParked,
		AirportID:       airport.ID,
		Position:        airport.Location,
		Fuel:            specs.FuelCapacity,
		LastMaintenance: now,
		ParkedSince:     now,
		Manifest:        []core.Order{},
	}
}

// BeginLoad starts loading order onto the plane.
func BeginLoad(p *core.Airplane, order core.Order) (core.Event, error) {
	if err := Ready(p, OpLoad); err != nil {
		return core.Event{}, err
	}
	if err := feasibility.CheckCapacity(p, order); err != nil {
		return core.Event{}, err
	}
	id := order.ID
	p.PendingLoad = &id
	p.Status = core.StatusLoading
	return core.Event{Kind: core.EventLoadingComplete, Plane: p.ID, Order: order.ID}, nil
}

// CompleteLoad puts the order in the manifest. A missing order (expired
// while loading) only clears the reservation.
func CompleteLoad(p *core.Airplane, order *core.Order) {
	p.PendingLoad = nil
	if order != nil {
		p.Manifest = append(p.Manifest, *order)
		if p.CargoWeight() > p.Specs.PayloadCapacity || p.Passengers() > p.Specs.PassengerCapacity {
			panic(fmt.Sprintf("plane %d manifest over capacity after load of order %d", p.ID, order.ID))
		}
	}
	finish(p, core.StatusLoading)
}

// BeginUnload starts unloading the given orders, or the whole manifest
// when ids is empty.
func BeginUnload(p *core.Airplane, ids []int) (core.Event, error) {
	if err := Ready(p, OpUnload); err != nil {
		return core.Event{}, err
	}
	if len(p.Manifest) == 0 {
		return core.Event{}, &core.NoCargoError{}
	}
	if len(ids) == 0 {
		for _, o := range p.Manifest {
			ids = append(ids, o.ID)
		}
	}
	for _, id := range ids {
		if p.ManifestIndex(id) < 0 {
			return core.Event{}, &core.OrderIDInvalidError{ID: id}
		}
	}
	p.PendingUnload = append([]int(nil), ids...)
	p.Status = core.StatusUnloading
	return core.Event{Kind: core.EventUnloadingComplete, Plane: p.ID}, nil
}

// CompleteUnload removes the pending orders from the manifest and returns
// them in manifest order. Orders that expired meanwhile are skipped.
func CompleteUnload(p *core.Airplane) []core.Order {
	pending := make(map[int]bool, len(p.PendingUnload))
	for _, id := range p.PendingUnload {
		pending[id] = true
	}
	var out []core.Order
	kept := p.Manifest[:0]
	for _, o := range p.Manifest {
		if pending[o.ID] {
			out = append(out, o)
		} else {
			kept = append(kept, o)
		}
	}
	p.Manifest = kept
	p.PendingUnload = nil
	finish(p, core.StatusUnloading)
	return out
}

// BeginRefuel starts topping up the tank. A full tank is refused.
func BeginRefuel(p *core.Airplane) (core.Event, error) {
	if err := Ready(p, OpRefuel); err != nil {
		return core.Event{}, err
	}
	if p.Fuel >= p.Specs.FuelCapacity {
		return core.Event{}, &core.InvalidCommandError{Msg: fmt.Sprintf("plane %d already has a full tank", p.ID)}
	}
	p.Status = core.StatusRefueling
	return core.Event{Kind: core.EventRefuelComplete, Plane: p.ID}, nil
}

// CompleteRefuel fills the tank.
func CompleteRefuel(p *core.Airplane) {
	p.Fuel = p.Specs.FuelCapacity
	finish(p, core.StatusRefueling)
}

// CheckDepart validates a departure and returns the leg report.
func CheckDepart(p *core.Airplane, origin, dest *core.Airport) (feasibility.Report, error) {
	if err := Ready(p, OpDepart); err != nil {
		return feasibility.Report{}, err
	}
	if origin.ID == dest.ID {
		return feasibility.Report{}, &core.SameAirportError{}
	}
	r := feasibility.Evaluate(p, origin, dest)
	return r, r.Err
}

// Depart puts the plane in the air. reserved is the cash held back for
// the arrival settlement. Returns the takeoff and arrival events and the
// arrival hour.
func Depart(p *core.Airplane, r feasibility.Report, now core.GameTime, reserved float64) (takeoff, arrival core.Event, at core.GameTime) {
	at = now + core.GameTime(r.FlightHours)
	p.Fuel = math.Max(0, p.Fuel-r.FuelRequired)
	p.Transit = &core.Transit{
		Origin:      r.Origin,
		Destination: r.Destination,
		DepartedAt:  now,
		ArrivesAt:   at,
		Distance:    r.Distance,
	}
	p.AirportID = core.NoAirport
	p.Status = core.StatusInTransit
	p.Reserved = reserved
	takeoff = core.Event{Kind: core.EventFlightTakeoff, Plane: p.ID, Airport: r.Origin}
	arrival = core.Event{Kind: core.EventFlightArrival, Plane: p.ID, Airport: r.Destination}
	return takeoff, arrival, at
}

// Arrive parks the plane at the destination and returns the reserved
// settlement amount.
func Arrive(p *core.Airplane, airport *core.Airport, now core.GameTime) float64 {
	settled := p.Reserved
	p.Reserved = 0
	p.Transit = nil
	p.AirportID = airport.ID
	p.Position = airport.Location
	p.ParkedSince = now
	p.Status = core.StatusParked
	return settled
}

// BeginMaintenance starts a maintenance hour. Allowed when parked or
// grounded.
func BeginMaintenance(p *core.Airplane) (core.Event, error) {
	if err := Ready(p, OpMaintain); err != nil {
		return core.Event{}, err
	}
	p.Status = core.StatusUnderMaintenance
	return core.Event{Kind: core.EventMaintenanceComplete, Plane: p.ID}, nil
}

// CompleteMaintenance clears wear and returns the plane to service.
func CompleteMaintenance(p *core.Airplane, now core.GameTime, t core.MaintenanceTuning) {
	p.Wear = t.BreakdownFloor
	p.LastMaintenance = now
	finish(p, core.StatusUnderMaintenance)
}

// UpdateWear recomputes the breakdown probability from the hours since
// the last maintenance.
func UpdateWear(p *core.Airplane, now core.GameTime, t core.MaintenanceTuning) float64 {
	var hours float64
	if now > p.LastMaintenance {
		hours = float64(now - p.LastMaintenance)
	}
	p.Wear = math.Min(t.BreakdownMax, t.BreakdownFloor+t.BreakdownRate*hours)
	return p.Wear
}

// CanBreakDown reports whether a breakdown may ground the plane now.
func CanBreakDown(p *core.Airplane) bool {
	switch p.Status {
	case core.StatusParked, core.StatusLoading, core.StatusUnloading, core.StatusRefueling:
		return true
	}
	return false
}

// Ground takes the plane out of service. Returns false when the plane's
// state does not allow it.
func Ground(p *core.Airplane) bool {
	if !CanBreakDown(p) {
		return false
	}
	p.Status = core.StatusGrounded
	return true
}

// CurrentPosition interpolates the position of a plane in the air.
func CurrentPosition(p *core.Airplane, now core.GameTime, from, to core.Coordinate) core.Coordinate {
	if p.Transit == nil {
		return p.Position
	}
	total := float64(p.Transit.ArrivesAt - p.Transit.DepartedAt)
	if total <= 0 {
		return to
	}
	elapsed := float64(now - p.Transit.DepartedAt)
	return geo.Interpolate(from, to, elapsed/total)
}

// finish returns the plane to Parked if it is still in the state the task
// started from. A plane grounded mid-task stays grounded.
func finish(p *core.Airplane, from core.Status) {
	if p.Status == from {
		p.Status = core.StatusParked
	}
}
