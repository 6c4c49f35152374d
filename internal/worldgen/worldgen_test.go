package worldgen

import (
	"testing"

	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	g := core.DefaultGameplay()
	a := Generate(1, 5, g)
	b := Generate(1, 5, g)
	assert.Equal(t, a, b)

	c := Generate(2, 5, g)
	assert.NotEqual(t, a.Airports[0].Location, c.Airports[0].Location)
}

func TestGenerate_Airports(t *testing.T) {
	w := Generate(42, 20, core.DefaultGameplay())
	require.Len(t, w.Airports, 20)

	names := map[string]bool{}
	for i, a := range w.Airports {
		assert.Equal(t, i, a.ID)
		assert.False(t, names[a.Name], "duplicate name %s", a.Name)
		names[a.Name] = true

		assert.True(t, a.Location.InBounds())
		assert.GreaterOrEqual(t, a.RunwayLength, MinRunway)
		assert.Less(t, a.RunwayLength, MaxRunway)
		assert.GreaterOrEqual(t, a.BaseFuelPrice, MinFuelPrice)
		assert.Less(t, a.BaseFuelPrice, MaxFuelPrice)
		assert.Equal(t, a.BaseFuelPrice, a.FuelPrice)
		assert.Greater(t, a.LandingFee, 0.0)
		assert.Greater(t, a.ParkingFee, 0.0)
		assert.NotEmpty(t, a.Orders)
	}
	assert.Equal(t, "AAA", w.Airports[0].Name)
}

func TestGenerate_Orders(t *testing.T) {
	g := core.DefaultGameplay()
	w := Generate(7, 8, g)

	seen := map[int]bool{}
	total := 0
	for _, a := range w.Airports {
		for _, o := range a.Orders {
			total++
			assert.False(t, seen[o.ID], "order id %d reused", o.ID)
			seen[o.ID] = true
			assert.Equal(t, a.ID, o.Origin)
			assert.NotEqual(t, o.Origin, o.Destination)
			assert.GreaterOrEqual(t, uint64(o.Deadline), uint64(1))
			assert.LessOrEqual(t, uint64(o.Deadline), g.Orders.MaxDeadlineHours)
			assert.Greater(t, o.Value, 0.0)
			switch o.Payload.Kind {
			case core.PayloadCargo:
				assert.GreaterOrEqual(t, o.Payload.Weight, g.Orders.MinWeight)
				assert.LessOrEqual(t, o.Payload.Weight, g.Orders.MaxWeight)
			case core.PayloadPassenger:
				assert.GreaterOrEqual(t, o.Payload.Passengers, g.Orders.MinPassengers)
				assert.LessOrEqual(t, o.Payload.Passengers, g.Orders.MaxPassengers)
			}
		}
	}
	assert.Equal(t, total, w.Orders.Next)
}

func TestGenerate_NoInitialOrders(t *testing.T) {
	g := core.DefaultGameplay()
	g.Orders.GenerateInitial = false
	w := Generate(1, 4, g)
	for _, a := range w.Airports {
		assert.Empty(t, a.Orders)
	}
}

func TestGenerate_SingleAirport(t *testing.T) {
	w := Generate(1, 1, core.DefaultGameplay())
	require.Len(t, w.Airports, 1)
	assert.Empty(t, w.Airports[0].Orders)
}

func TestGenerate_Clustered(t *testing.T) {
	g := core.DefaultGameplay()
	w := Generate(3, 8, g)
	// airports 0 and 2 share cluster 0 of 2
	d := feasibility.Distance(&w.Airports[0], &w.Airports[2])
	assert.LessOrEqual(t, d, 2*g.ClusterRadiusKm)
}

func TestOrderValue(t *testing.T) {
	tune := core.OrderTuning{Alpha: 0.5, Beta: 0.7}
	// no distance, no urgency
	assert.Equal(t, 1000.0, OrderValue(1000, 0, 10, 10, tune))
	// half the map away, deadline of one hour out of ten
	assert.InDelta(t, 1000+0.5*500+0.7*900, OrderValue(1000, 5000, 1, 10, tune), 1e-9)

	tight := OrderValue(1000, 1000, 2, 100, tune)
	loose := OrderValue(1000, 1000, 90, 100, tune)
	assert.Greater(t, tight, loose)
}

func TestRestock_DependsOnTime(t *testing.T) {
	g := core.DefaultGameplay()
	w := Generate(5, 6, g)
	ids := IDs{Next: 1000}
	a := Restock(5, 168, &w.Airports[0], w.Airports, &ids, g.Orders)

	ids2 := IDs{Next: 1000}
	b := Restock(5, 168, &w.Airports[0], w.Airports, &ids2, g.Orders)
	assert.Equal(t, a, b)

	ids3 := IDs{Next: 1000}
	c := Restock(5, 336, &w.Airports[0], w.Airports, &ids3, g.Orders)
	assert.NotEqual(t, a, c)
	for _, o := range c {
		assert.Equal(t, core.GameTime(336), o.CreatedAt)
		assert.Greater(t, o.Deadline, core.GameTime(336))
	}
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(1, 10), DeriveSeed(1, 10))
	assert.NotEqual(t, DeriveSeed(1, 10), DeriveSeed(1, 11))
	assert.NotEqual(t, DeriveSeed(1, 10), DeriveSeed(2, 10))
}

func TestStarterPlane(t *testing.T) {
	airports := []core.Airport{
		{ID: 0, Location: core.Coordinate{X: 0, Y: 0}, RunwayLength: 3000},
		{ID: 1, Location: core.Coordinate{X: 5000, Y: 5000}, RunwayLength: 3000},
		{ID: 2, Location: core.Coordinate{X: 5100, Y: 5000}, RunwayLength: 3000},
	}
	specs, start, err := StarterPlane(catalog.Default(), airports)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, "SparrowLight", specs.Model)
}

func TestStarterPlane_Fallback(t *testing.T) {
	// runways too short for anything
	airports := []core.Airport{
		{ID: 0, Location: core.Coordinate{X: 0, Y: 0}, RunwayLength: 100},
		{ID: 1, Location: core.Coordinate{X: 10, Y: 0}, RunwayLength: 100},
	}
	specs, start, err := StarterPlane(catalog.Default(), airports)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, catalog.FallbackStarter, specs.Model)

	_, _, err = StarterPlane(catalog.Default(), nil)
	require.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	doc := `
seed: 9
airports:
  - id: 5
    name: Beta
    location: {x: 200, y: 200}
    runway_length_m: 2000
    fuel_price_per_l: 1.1
    parking_fee_per_hour: 12
  - id: 2
    name: Alpha
    location: {x: 100, y: 100}
    runway_length_m: 900
    fuel_price_per_l: 1.4
    orders:
      - {cargo: Books, weight: 300, value: 1200, deadline_hours: 30, destination_id: 5}
gameplay:
  orders:
    generate_initial: false
`
	cfg, err := config.ParseWorld([]byte(doc))
	require.NoError(t, err)

	w, err := FromConfig(1, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), w.Seed)
	require.Len(t, w.Airports, 2)
	assert.Equal(t, 2, w.Airports[0].ID)
	assert.Equal(t, 5, w.Airports[1].ID)
	assert.Equal(t, 12.0, w.Airports[1].ParkingFee)
	assert.Equal(t, 1.1, w.Airports[1].BaseFuelPrice)
	assert.Greater(t, w.Airports[0].LandingFee, 0.0)

	require.Len(t, w.Airports[0].Orders, 1)
	o := w.Airports[0].Orders[0]
	assert.Equal(t, 0, o.ID)
	assert.Equal(t, 5, o.Destination)
	assert.Equal(t, core.GameTime(30), o.Deadline)
	assert.Equal(t, core.Books, o.Payload.Cargo)
	assert.Empty(t, w.Airports[1].Orders)
	assert.Equal(t, 1, w.Orders.Next)
}

func TestFromConfig_Count(t *testing.T) {
	cfg, err := config.ParseWorld([]byte("num_airports: 6\n"))
	require.NoError(t, err)
	w, err := FromConfig(11, cfg)
	require.NoError(t, err)
	assert.Equal(t, Generate(11, 6, core.DefaultGameplay()), w)
}

func TestWorldEvent(t *testing.T) {
	w := Generate(4, 3, core.DefaultGameplay())
	ev, ok := WorldEvent(4, 96, w.Airports, 24)
	require.True(t, ok)
	assert.Equal(t, core.GameTime(120), ev.Until)
	assert.Contains(t, []int{0, 1, 2}, ev.Airport)

	for i := range w.Airports {
		w.Airports[i].Event = &ev
	}
	_, ok = WorldEvent(4, 96, w.Airports, 24)
	assert.False(t, ok)
}

func TestSurgeOrders(t *testing.T) {
	g := core.DefaultGameplay()
	w := Generate(4, 3, g)
	ids := IDs{Next: 500}
	orders := SurgeOrders(4, 50, &w.Airports[1], w.Airports, &ids, g.Orders)
	assert.GreaterOrEqual(t, len(orders), MinSurgeOrders)
	assert.LessOrEqual(t, len(orders), MaxSurgeOrders)
	assert.Equal(t, 500+len(orders), ids.Next)
}

func TestDefaultCatalog_FitsLongestRunway(t *testing.T) {
	longest := &core.Airport{RunwayLength: MaxRunway}
	for _, s := range catalog.Default().Models() {
		assert.NoError(t, feasibility.CheckRunway(s, longest), s.Model)
		assert.Less(t, s.MinRunwayLength, 4600.0, s.Model)
	}
}
