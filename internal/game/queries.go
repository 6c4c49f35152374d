package game

import (
	"slices"

	"github.com/runwaysim/runways/internal/airplane"
	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/internal/geo"
	"github.com/runwaysim/runways/pkg/core"
)

// Queries return copies; mutating them does not touch the game.

func (g *Game) Seed() uint64 { return g.seed }

func (g *Game) Time() core.GameTime { return g.sched.Now() }

func (g *Game) Cash() float64 { return g.player.Cash }

// Gameplay returns the tuning the game runs with.
func (g *Game) Gameplay() core.Gameplay { return g.gameplay }

// Catalog returns the airplane models on sale.
func (g *Game) Catalog() *catalog.Catalog { return g.catalog }

// Fleet returns the owned planes in purchase order.
func (g *Game) Fleet() []core.Airplane {
	out := make([]core.Airplane, 0, len(g.player.Fleet))
	for _, p := range g.fleet() {
		out = append(out, copyPlane(p))
	}
	return out
}

// Plane returns one owned plane.
func (g *Game) Plane(id int) (core.Airplane, error) {
	p, err := g.plane(id)
	if err != nil {
		return core.Airplane{}, err
	}
	return copyPlane(p), nil
}

// Airports returns every airport with its pending orders.
func (g *Game) Airports() []core.Airport {
	out := make([]core.Airport, len(g.airports))
	for i := range g.airports {
		out[i] = copyAirport(&g.airports[i])
	}
	return out
}

// Airport returns one airport.
func (g *Game) Airport(id int) (core.Airport, error) {
	a, err := g.airport(id)
	if err != nil {
		return core.Airport{}, err
	}
	return copyAirport(a), nil
}

// Orders returns the orders waiting at an airport.
func (g *Game) Orders(airportID int) ([]core.Order, error) {
	a, err := g.airport(airportID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(a.Orders), nil
}

// Reachability evaluates a flight from the plane's airport to every other
// airport.
func (g *Game) Reachability(planeID int) ([]feasibility.Report, error) {
	p, err := g.plane(planeID)
	if err != nil {
		return nil, err
	}
	at, ok := p.AtAirport()
	if !ok {
		return nil, &core.PlaneNotAtAirportError{PlaneID: p.ID}
	}
	origin, err := g.airport(at)
	if err != nil {
		return nil, err
	}
	out := make([]feasibility.Report, 0, len(g.airports)-1)
	for i := range g.airports {
		if g.airports[i].ID == origin.ID {
			continue
		}
		out = append(out, feasibility.Evaluate(p, origin, &g.airports[i]))
	}
	return out, nil
}

// Stats returns the closed days.
func (g *Game) Stats() []core.DailyStats { return slices.Clone(g.stats) }

// Today returns the running bucket of the current day.
func (g *Game) Today() economy.Ledger { return g.ledger }

// Deliveries returns every paid order.
func (g *Game) Deliveries() []core.Delivery { return slices.Clone(g.player.Deliveries) }

// PendingEvents returns the scheduled events in firing order.
func (g *Game) PendingEvents() []core.ScheduledEvent { return g.sched.Pending() }

// DrainLog returns and clears the message log.
func (g *Game) DrainLog() []Message { return g.messages.Drain() }

// AirportView is the observable state of an airport.
type AirportView struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Location      core.Coordinate  `json:"location"`
	RunwayLength  float64          `json:"runway_length"`
	BaseFuelPrice float64          `json:"base_fuel_price"`
	FuelPrice     float64          `json:"fuel_price"`
	LandingFee    float64          `json:"landing_fee"`
	ParkingFee    float64          `json:"parking_fee"`
	PendingOrders int              `json:"pending_orders"`
	Event         *core.WorldEvent `json:"event,omitempty"`
}

// PlaneView is the observable state of a plane. Route is the WKT line of
// the current flight leg.
type PlaneView struct {
	ID                int             `json:"id"`
	Model             string          `json:"model"`
	Status            core.Status     `json:"status"`
	Position          core.Coordinate `json:"position"`
	Airport           *int            `json:"airport,omitempty"`
	Destination       *int            `json:"destination,omitempty"`
	ArrivesAt         *core.GameTime  `json:"arrives_at,omitempty"`
	Route             string          `json:"route,omitempty"`
	Fuel              float64         `json:"fuel"`
	FuelCapacity      float64         `json:"fuel_capacity"`
	Payload           float64         `json:"payload"`
	PayloadCapacity   float64         `json:"payload_capacity"`
	Passengers        int             `json:"passengers"`
	PassengerCapacity int             `json:"passenger_capacity"`
	Wear              float64         `json:"wear"`
	Manifest          []core.Order    `json:"manifest"`
}

// Observation is the frontend view of the whole game.
type Observation struct {
	Seed     uint64        `json:"seed"`
	Time     core.GameTime `json:"time"`
	Cash     float64       `json:"cash"`
	Airports []AirportView `json:"airports"`
	Planes   []PlaneView   `json:"planes"`
}

// Observe builds the frontend view.
func (g *Game) Observe() Observation {
	now := g.sched.Now()
	obs := Observation{
		Seed:     g.seed,
		Time:     now,
		Cash:     g.player.Cash,
		Airports: make([]AirportView, 0, len(g.airports)),
		Planes:   make([]PlaneView, 0, len(g.player.Fleet)),
	}
	for i := range g.airports {
		a := &g.airports[i]
		var ev *core.WorldEvent
		if a.Event != nil {
			e := *a.Event
			ev = &e
		}
		obs.Airports = append(obs.Airports, AirportView{
			ID:            a.ID,
			Name:          a.Name,
			Location:      a.Location,
			RunwayLength:  a.RunwayLength,
			BaseFuelPrice: a.BaseFuelPrice,
			FuelPrice:     a.FuelPrice,
			LandingFee:    a.LandingFee,
			ParkingFee:    a.ParkingFee,
			PendingOrders: len(a.Orders),
			Event:         ev,
		})
	}
	for _, p := range g.fleet() {
		v := PlaneView{
			ID:                p.ID,
			Model:             p.Specs.Model,
			Status:            p.Status,
			Position:          p.Position,
			Fuel:              p.Fuel,
			FuelCapacity:      p.Specs.FuelCapacity,
			Payload:           p.CargoWeight(),
			PayloadCapacity:   p.Specs.PayloadCapacity,
			Passengers:        p.Passengers(),
			PassengerCapacity: p.Specs.PassengerCapacity,
			Wear:              p.Wear,
			Manifest:          slices.Clone(p.Manifest),
		}
		if at, ok := p.AtAirport(); ok {
			v.Airport = &at
		} else if tr := p.Transit; tr != nil {
			from, errFrom := g.airport(tr.Origin)
			to, errTo := g.airport(tr.Destination)
			if errFrom == nil && errTo == nil {
				v.Position = airplane.CurrentPosition(p, now, from.Location, to.Location)
				v.Route = geo.RouteWKT(from.Location, to.Location)
			}
			dest, arrives := tr.Destination, tr.ArrivesAt
			v.Destination = &dest
			v.ArrivesAt = &arrives
		}
		obs.Planes = append(obs.Planes, v)
	}
	return obs
}

func copyAirport(a *core.Airport) core.Airport {
	out := *a
	out.Orders = slices.Clone(a.Orders)
	if a.Event != nil {
		e := *a.Event
		out.Event = &e
	}
	return out
}

func copyPlane(p *core.Airplane) core.Airplane {
	out := *p
	out.Manifest = slices.Clone(p.Manifest)
	out.PendingUnload = slices.Clone(p.PendingUnload)
	if p.Transit != nil {
		t := *p.Transit
		out.Transit = &t
	}
	if p.PendingLoad != nil {
		id := *p.PendingLoad
		out.PendingLoad = &id
	}
	return out
}
