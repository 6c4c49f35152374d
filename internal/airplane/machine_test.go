package airplane

import (
	"testing"

	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specs() core.Specs {
	s := core.Specs{Model: "SparrowLight", MTOW: 5000, CruiseSpeed: 250, FuelCapacity: 200, FuelConsumption: 30, OperatingCost: 300, PayloadCapacity: 500, PassengerCapacity: 4, Price: 200_000}
	s.MinRunwayLength = feasibility.MinRunwayLength(s)
	return s
}

func home() *core.Airport {
	return &core.Airport{ID: 0, Location: core.Coordinate{X: 100, Y: 100}, RunwayLength: 1000}
}

func away() *core.Airport {
	return &core.Airport{ID: 1, Location: core.Coordinate{X: 400, Y: 500}, RunwayLength: 1000}
}

func cargo(id int, w float64) core.Order {
	return core.Order{ID: id, Origin: 0, Destination: 1, Payload: core.CargoPayload(core.Food, w), Value: 100, Deadline: 100}
}

func TestNew(t *testing.T) {
	p := New(7, specs(), home(), 12)

	assert.Equal(t, core.StatusParked, p.Status)
	assert.Equal(t, 0, p.AirportID)
	assert.Equal(t, home().Location, p.Position)
	assert.Equal(t, 200.0, p.Fuel)
	assert.Equal(t, core.GameTime(12), p.ParkedSince)
	assert.Empty(t, p.Manifest)
}

func TestAllows(t *testing.T) {
	for _, op := range []Operation{OpLoad, OpUnload, OpRefuel, OpDepart, OpMaintain, OpSell} {
		assert.True(t, Allows(core.StatusParked, op), op.String())
	}
	assert.True(t, Allows(core.StatusGrounded, OpMaintain))
	assert.False(t, Allows(core.StatusGrounded, OpDepart))
	assert.False(t, Allows(core.StatusGrounded, OpSell))
	assert.False(t, Allows(core.StatusLoading, OpLoad))
	assert.False(t, Allows(core.StatusUnderMaintenance, OpMaintain))
	assert.False(t, Allows(core.StatusInTransit, OpUnload))
}

func TestLoadCycle(t *testing.T) {
	p := New(1, specs(), home(), 0)
	o := cargo(5, 300)

	ev, err := BeginLoad(p, o)
	require.NoError(t, err)
	assert.Equal(t, core.Event{Kind: core.EventLoadingComplete, Plane: 1, Order: 5}, ev)
	assert.Equal(t, core.StatusLoading, p.Status)
	require.NotNil(t, p.PendingLoad)

	_, err = BeginLoad(p, cargo(6, 10))
	var nr *core.PlaneNotReadyError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, core.StatusLoading, nr.State)

	CompleteLoad(p, &o)
	assert.Equal(t, core.StatusParked, p.Status)
	assert.Nil(t, p.PendingLoad)
	require.Len(t, p.Manifest, 1)
	assert.Equal(t, 300.0, p.CargoWeight())
}

func TestBeginLoad_OverCapacityLeavesPlaneUntouched(t *testing.T) {
	p := New(1, specs(), home(), 0)
	first := cargo(1, 400)
	_, err := BeginLoad(p, first)
	require.NoError(t, err)
	CompleteLoad(p, &first)

	_, err = BeginLoad(p, cargo(2, 101))
	var mp *core.MaxPayloadReachedError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, core.StatusParked, p.Status)
	assert.Nil(t, p.PendingLoad)
	assert.Len(t, p.Manifest, 1)
}

func TestCompleteLoad_ExpiredOrder(t *testing.T) {
	p := New(1, specs(), home(), 0)
	_, err := BeginLoad(p, cargo(1, 10))
	require.NoError(t, err)

	CompleteLoad(p, nil)
	assert.Empty(t, p.Manifest)
	assert.Equal(t, core.StatusParked, p.Status)
}

func TestUnload(t *testing.T) {
	p := New(1, specs(), home(), 0)

	_, err := BeginUnload(p, nil)
	require.ErrorAs(t, err, new(*core.NoCargoError))

	p.Manifest = []core.Order{cargo(1, 10), cargo(2, 20), cargo(3, 30)}

	_, err = BeginUnload(p, []int{9})
	var bad *core.OrderIDInvalidError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 9, bad.ID)
	assert.Equal(t, core.StatusParked, p.Status)

	ev, err := BeginUnload(p, []int{2})
	require.NoError(t, err)
	assert.Equal(t, core.EventUnloadingComplete, ev.Kind)
	out := CompleteUnload(p)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].ID)
	assert.Len(t, p.Manifest, 2)

	_, err = BeginUnload(p, nil)
	require.NoError(t, err)
	out = CompleteUnload(p)
	assert.Len(t, out, 2)
	assert.Empty(t, p.Manifest)
	assert.Equal(t, core.StatusParked, p.Status)
}

func TestRefuel(t *testing.T) {
	p := New(1, specs(), home(), 0)

	_, err := BeginRefuel(p)
	require.ErrorAs(t, err, new(*core.InvalidCommandError))

	p.Fuel = 20
	_, err = BeginRefuel(p)
	require.NoError(t, err)
	assert.Equal(t, core.StatusRefueling, p.Status)

	CompleteRefuel(p)
	assert.Equal(t, 200.0, p.Fuel)
	assert.Equal(t, core.StatusParked, p.Status)
}

func TestDepartAndArrive(t *testing.T) {
	p := New(1, specs(), home(), 0)

	_, err := CheckDepart(p, home(), home())
	require.ErrorAs(t, err, new(*core.SameAirportError))

	r, err := CheckDepart(p, home(), away())
	require.NoError(t, err)
	assert.InDelta(t, 500, r.Distance, 1e-9)

	takeoff, arrival, at := Depart(p, r, 10, 99)
	assert.Equal(t, core.EventFlightTakeoff, takeoff.Kind)
	assert.Equal(t, core.Event{Kind: core.EventFlightArrival, Plane: 1, Airport: 1}, arrival)
	assert.Equal(t, core.GameTime(12), at)
	assert.Equal(t, core.StatusInTransit, p.Status)
	assert.InDelta(t, 140, p.Fuel, 1e-9)
	_, ok := p.AtAirport()
	assert.False(t, ok)

	_, err = BeginRefuel(p)
	require.ErrorAs(t, err, new(*core.PlaneNotAtAirportError))

	mid := CurrentPosition(p, 11, home().Location, away().Location)
	assert.InDelta(t, 250, mid.X, 1e-9)
	assert.InDelta(t, 300, mid.Y, 1e-9)

	settled := Arrive(p, away(), 12)
	assert.Equal(t, 99.0, settled)
	assert.Equal(t, 0.0, p.Reserved)
	assert.Equal(t, core.StatusParked, p.Status)
	assert.Equal(t, 1, p.AirportID)
	assert.Equal(t, core.GameTime(12), p.ParkedSince)
	assert.Equal(t, away().Location, p.Position)
}

func TestCheckDepart_OutOfRangeKeepsParked(t *testing.T) {
	p := New(1, specs(), home(), 0)
	far := &core.Airport{ID: 2, Location: core.Coordinate{X: 2100, Y: 100}, RunwayLength: 1000}

	_, err := CheckDepart(p, home(), far)
	require.ErrorAs(t, err, new(*core.OutOfRangeError))
	assert.Equal(t, core.StatusParked, p.Status)
	assert.Equal(t, 200.0, p.Fuel)
}

func TestBreakdownAndMaintenance(t *testing.T) {
	tuning := core.MaintenanceTuning{CheckIntervalHours: 24, BreakdownFloor: 0.01, BreakdownRate: 0.001, BreakdownMax: 0.2}
	p := New(1, specs(), home(), 0)

	assert.InDelta(t, 0.11, UpdateWear(p, 100, tuning), 1e-12)
	assert.InDelta(t, 0.2, UpdateWear(p, 10_000, tuning), 1e-12)

	require.True(t, Ground(p))
	assert.Equal(t, core.StatusGrounded, p.Status)
	assert.False(t, Ground(p))

	_, err := BeginRefuel(p)
	require.ErrorAs(t, err, new(*core.PlaneNotReadyError))

	ev, err := BeginMaintenance(p)
	require.NoError(t, err)
	assert.Equal(t, core.EventMaintenanceComplete, ev.Kind)
	assert.False(t, CanBreakDown(p))

	CompleteMaintenance(p, 10_001, tuning)
	assert.Equal(t, core.StatusParked, p.Status)
	assert.Equal(t, 0.01, p.Wear)
	assert.Equal(t, core.GameTime(10_001), p.LastMaintenance)
}

func TestGroundedMidTaskStaysGrounded(t *testing.T) {
	p := New(1, specs(), home(), 0)
	p.Fuel = 10
	_, err := BeginRefuel(p)
	require.NoError(t, err)

	require.True(t, Ground(p))
	CompleteRefuel(p)

	assert.Equal(t, 200.0, p.Fuel)
	assert.Equal(t, core.StatusGrounded, p.Status)
}
