package game

import (
	"fmt"

	"github.com/runwaysim/runways/internal/airplane"
	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/pkg/core"
)

// Every operation validates fully before it mutates anything: a returned
// error means the game is exactly as it was.

// Advance runs the clock forward by hours, firing every event that falls
// due. It returns the number of events fired.
func (g *Game) Advance(hours uint64) int {
	target := g.sched.Now() + core.GameTime(hours)
	return g.sched.Advance(target, g.fire)
}

// AdvanceTo runs the clock to an absolute hour. A time in the past is a
// no-op.
func (g *Game) AdvanceTo(t core.GameTime) int {
	return g.sched.Advance(t, g.fire)
}

func (g *Game) fire(ev core.ScheduledEvent) {
	if err := g.dispatch.Dispatch(ev); err != nil {
		panic(fmt.Sprintf("seed %d hour %d: %s event seq %d: %v", g.seed, ev.Time, ev.Event.Kind, ev.Seq, err))
	}
}

// LoadOrder starts loading an order waiting at the plane's airport. The
// order stays reserved at the airport until the hour-long load completes.
func (g *Game) LoadOrder(orderID, planeID int) error {
	p, err := g.plane(planeID)
	if err != nil {
		return err
	}
	if err := airplane.Ready(p, airplane.OpLoad); err != nil {
		return err
	}
	a, err := g.airport(p.AirportID)
	if err != nil {
		return err
	}
	i := a.OrderIndex(orderID)
	if i < 0 {
		return &core.OrderIDInvalidError{ID: orderID}
	}
	if other, ok := g.reservedBy(orderID); ok {
		return &core.InvalidCommandError{Msg: fmt.Sprintf("order %d is being loaded by plane %d", orderID, other)}
	}
	ev, err := airplane.BeginLoad(p, a.Orders[i])
	if err != nil {
		return err
	}
	g.schedule(g.sched.Now()+airplane.TaskHours, ev)
	return nil
}

// UnloadOrder starts unloading one order from the plane.
func (g *Game) UnloadOrder(orderID, planeID int) error {
	return g.unload(planeID, []int{orderID})
}

// UnloadAll starts unloading the whole manifest.
func (g *Game) UnloadAll(planeID int) error {
	return g.unload(planeID, nil)
}

func (g *Game) unload(planeID int, ids []int) error {
	p, err := g.plane(planeID)
	if err != nil {
		return err
	}
	ev, err := airplane.BeginUnload(p, ids)
	if err != nil {
		return err
	}
	g.schedule(g.sched.Now()+airplane.TaskHours, ev)
	return nil
}

// Refuel tops the tank up at the airport's current price. Payment is
// taken now; the tank is full when the hour-long refuel completes.
func (g *Game) Refuel(planeID int) error {
	p, err := g.plane(planeID)
	if err != nil {
		return err
	}
	if err := airplane.Ready(p, airplane.OpRefuel); err != nil {
		return err
	}
	a, err := g.airport(p.AirportID)
	if err != nil {
		return err
	}
	litres := economy.RefuelLitres(p)
	cost := economy.FuelCost(a, litres)
	if litres > 0 {
		if err := g.afford(cost); err != nil {
			return err
		}
	}
	ev, err := airplane.BeginRefuel(p)
	if err != nil {
		return err
	}
	g.charge(cost)
	a.FuelSold += litres
	g.schedule(g.sched.Now()+airplane.TaskHours, ev)
	return nil
}

// Depart sends the plane to another airport. Parking is settled now, and
// the flight's operating cost plus the destination landing fee are held
// back until arrival.
func (g *Game) Depart(planeID, destinationID int) error {
	p, err := g.plane(planeID)
	if err != nil {
		return err
	}
	dest, err := g.airport(destinationID)
	if err != nil {
		return err
	}
	if err := airplane.Ready(p, airplane.OpDepart); err != nil {
		return err
	}
	origin, err := g.airport(p.AirportID)
	if err != nil {
		return err
	}
	report, err := airplane.CheckDepart(p, origin, dest)
	if err != nil {
		return err
	}

	now := g.sched.Now()
	parking := economy.ParkingFee(origin, now-p.ParkedSince)
	reserve := economy.OperatingCost(p.Specs, core.GameTime(report.FlightHours)) + economy.LandingFee(dest, p.Specs)
	if err := g.afford(parking + reserve); err != nil {
		return err
	}

	g.charge(parking)
	if err := economy.Debit(&g.player, reserve); err != nil {
		panic(err)
	}
	takeoff, arrival, at := airplane.Depart(p, report, now, reserve)
	g.schedule(now, takeoff)
	g.schedule(at, arrival)
	return nil
}

// Maintain starts an hour of maintenance, which resets wear and clears a
// grounding. It costs one hour of the model's operating cost.
func (g *Game) Maintain(planeID int) error {
	p, err := g.plane(planeID)
	if err != nil {
		return err
	}
	if err := airplane.Ready(p, airplane.OpMaintain); err != nil {
		return err
	}
	cost := economy.MaintenanceCost(p.Specs)
	if err := g.afford(cost); err != nil {
		return err
	}
	ev, err := airplane.BeginMaintenance(p)
	if err != nil {
		return err
	}
	g.charge(cost)
	g.schedule(g.sched.Now()+airplane.TaskHours, ev)
	return nil
}

// BuyPlane purchases a model, parked with a full tank at the airport, and
// returns its id.
func (g *Game) BuyPlane(model string, airportID int) (int, error) {
	specs, err := g.catalog.Lookup(model)
	if err != nil {
		return 0, err
	}
	a, err := g.airport(airportID)
	if err != nil {
		return 0, err
	}
	if err := feasibility.CheckRunway(specs, a); err != nil {
		return 0, err
	}
	if err := g.afford(specs.Price); err != nil {
		return 0, err
	}
	g.charge(specs.Price)
	p := g.addPlane(specs, a)
	g.note("bought %s as plane %d at %s", specs.Model, p.ID, a.Name)
	g.logger.Info("plane bought", "plane", p.ID, "model", specs.Model, "airport", a.ID)
	return p.ID, nil
}

// SellPlane sells a parked, empty plane for 60% of its price and returns
// the refund. Parking accrued at its airport is settled first.
func (g *Game) SellPlane(planeID int) (float64, error) {
	p, err := g.plane(planeID)
	if err != nil {
		return 0, err
	}
	if err := airplane.Ready(p, airplane.OpSell); err != nil {
		return 0, err
	}
	if len(p.Manifest) > 0 {
		return 0, &core.InvalidCommandError{Msg: fmt.Sprintf("plane %d still carries %d orders", p.ID, len(p.Manifest))}
	}
	a, err := g.airport(p.AirportID)
	if err != nil {
		return 0, err
	}
	refund := economy.SaleRefund(p.Specs)
	parking := economy.ParkingFee(a, g.sched.Now()-p.ParkedSince)
	if parking > g.player.Cash+refund {
		return 0, &core.InsufficientFundsError{Have: g.player.Cash + refund, Need: parking}
	}

	g.credit(refund)
	g.charge(parking)
	g.removePlane(p.ID)
	g.note("sold plane %d (%s) for %.2f", p.ID, p.Specs.Model, refund)
	g.logger.Info("plane sold", "plane", p.ID, "model", p.Specs.Model, "refund", refund)
	return refund, nil
}
