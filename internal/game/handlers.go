package game

import (
	"fmt"

	"github.com/runwaysim/runways/internal/airplane"
	"github.com/runwaysim/runways/internal/dispatcher"
	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/internal/worldgen"
	"github.com/runwaysim/runways/pkg/core"
)

func (g *Game) registerHandlers(logged bool) {
	var opts []dispatcher.Option
	if logged {
		opts = append(opts, dispatcher.Logged())
	}
	handlers := map[core.EventKind]dispatcher.HandlerFunc{
		core.EventLoadingComplete:     g.onLoadingComplete,
		core.EventUnloadingComplete:   g.onUnloadingComplete,
		core.EventRefuelComplete:      g.onRefuelComplete,
		core.EventFlightTakeoff:       g.onFlightTakeoff,
		core.EventFlightArrival:       g.onFlightArrival,
		core.EventOrderDeadline:       g.onOrderDeadline,
		core.EventRestock:             g.onRestock,
		core.EventDailyStats:          g.onDailyStats,
		core.EventPricingTick:         g.onPricingTick,
		core.EventMaintenanceCheck:    g.onMaintenanceCheck,
		core.EventMaintenanceComplete: g.onMaintenanceComplete,
		core.EventWorldEventStart:     g.onWorldEventStart,
		core.EventWorldEventEnd:       g.onWorldEventEnd,
		core.EventBreakdown:           g.onBreakdown,
	}
	for _, kind := range core.EventKinds() {
		g.dispatch.Register(kind, handlers[kind], opts...)
	}
}

// eventPlane resolves the plane an event refers to.
func (g *Game) eventPlane(ev core.ScheduledEvent) (*core.Airplane, *core.Airport, error) {
	p, ok := g.planes[ev.Event.Plane]
	if !ok {
		return nil, nil, fmt.Errorf("plane %d not in fleet", ev.Event.Plane)
	}
	id, ok := p.AtAirport()
	if !ok {
		return p, nil, nil
	}
	a, err := g.airport(id)
	if err != nil {
		return nil, nil, err
	}
	return p, a, nil
}

func (g *Game) onLoadingComplete(ev core.ScheduledEvent) error {
	p, a, err := g.eventPlane(ev)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("plane %d finished loading away from an airport", p.ID)
	}
	o, ok := a.RemoveOrder(ev.Event.Order)
	if !ok {
		airplane.CompleteLoad(p, nil)
		return nil
	}
	airplane.CompleteLoad(p, &o)
	g.note("plane %d loaded order %d (%s) at %s", p.ID, o.ID, o.Payload, a.Name)
	return nil
}

func (g *Game) onUnloadingComplete(ev core.ScheduledEvent) error {
	p, a, err := g.eventPlane(ev)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("plane %d finished unloading away from an airport", p.ID)
	}
	now := ev.Time
	for _, o := range airplane.CompleteUnload(p) {
		if o.Destination != a.ID {
			a.Orders = append(a.Orders, o)
			g.note("plane %d dropped order %d at %s", p.ID, o.ID, a.Name)
			continue
		}
		if o.Expired(now) {
			g.note("order %d arrived after its deadline and was forfeited", o.ID)
			continue
		}
		g.credit(o.Value)
		g.ledger.Deliveries++
		g.player.Deliveries = append(g.player.Deliveries, core.Delivery{OrderID: o.ID, Airport: a.ID, Value: o.Value, Time: now})
		g.note("order %d delivered at %s for %.2f", o.ID, a.Name, o.Value)
		g.logger.Info("order delivered", "order", o.ID, "plane", p.ID, "airport", a.ID, "value", o.Value)
	}
	return nil
}

func (g *Game) onRefuelComplete(ev core.ScheduledEvent) error {
	p, _, err := g.eventPlane(ev)
	if err != nil {
		return err
	}
	airplane.CompleteRefuel(p)
	return nil
}

func (g *Game) onFlightTakeoff(ev core.ScheduledEvent) error {
	p, _, err := g.eventPlane(ev)
	if err != nil {
		return err
	}
	g.ledger.Departures++
	if p.Transit != nil {
		g.note("plane %d took off for airport %d, arriving at hour %d", p.ID, p.Transit.Destination, p.Transit.ArrivesAt)
	}
	return nil
}

func (g *Game) onFlightArrival(ev core.ScheduledEvent) error {
	p, ok := g.planes[ev.Event.Plane]
	if !ok {
		return fmt.Errorf("plane %d not in fleet", ev.Event.Plane)
	}
	a, err := g.airport(ev.Event.Airport)
	if err != nil {
		return err
	}
	settled := airplane.Arrive(p, a, ev.Time)
	g.ledger.Spend(settled)
	g.note("plane %d landed at %s", p.ID, a.Name)
	g.logger.Debug("plane arrived", "plane", p.ID, "airport", a.ID, "settled", settled)
	return nil
}

// onOrderDeadline drops the order wherever it is without payment. Orders
// already delivered or replaced by a restock are gone and ignored.
func (g *Game) onOrderDeadline(ev core.ScheduledEvent) error {
	id := ev.Event.Order
	for i := range g.airports {
		if _, ok := g.airports[i].RemoveOrder(id); ok {
			g.note("order %d expired at %s", id, g.airports[i].Name)
			return nil
		}
	}
	for _, p := range g.fleet() {
		if i := p.ManifestIndex(id); i >= 0 {
			p.Manifest = append(p.Manifest[:i], p.Manifest[i+1:]...)
			g.note("order %d expired aboard plane %d", id, p.ID)
			return nil
		}
	}
	return nil
}

// onRestock replaces the orders still waiting at their origin. Orders
// dropped off elsewhere and orders being loaded stay.
func (g *Game) onRestock(ev core.ScheduledEvent) error {
	t := g.gameplay.Orders
	posted := 0
	for i := range g.airports {
		a := &g.airports[i]
		kept := a.Orders[:0]
		for _, o := range a.Orders {
			if _, loading := g.reservedBy(o.ID); loading || o.Origin != a.ID {
				kept = append(kept, o)
			}
		}
		a.Orders = kept

		fresh := worldgen.Restock(g.seed, ev.Time, a, g.airports, &g.orderIDs, t)
		for _, o := range fresh {
			g.scheduleDeadline(o)
		}
		a.Orders = append(a.Orders, fresh...)
		posted += len(fresh)
	}
	g.schedule(ev.Time+core.GameTime(g.gameplay.RestockCycleHours), core.Event{Kind: core.EventRestock})
	g.note("restock posted %d orders", posted)
	return nil
}

func (g *Game) onDailyStats(ev core.ScheduledEvent) error {
	day := uint64(ev.Time/core.HoursPerDay) - 1
	if ev.Time < core.HoursPerDay {
		day = 0
	}
	row := g.ledger.Close(day, g.player.Cash, len(g.player.Fleet))
	g.stats = append(g.stats, row)
	g.schedule(ev.Time+core.HoursPerDay, core.Event{Kind: core.EventDailyStats})
	g.logger.Info("day closed", "day", row.Day, "income", row.Income, "expenses", row.Expenses, "cash", row.NetCash)
	return nil
}

func (g *Game) onPricingTick(ev core.ScheduledEvent) error {
	for i := range g.airports {
		economy.PricingTick(&g.airports[i], g.gameplay.Fuel)
	}
	g.schedule(ev.Time+core.GameTime(g.gameplay.FuelIntervalHours), core.Event{Kind: core.EventPricingTick})
	return nil
}

// onMaintenanceCheck refreshes every plane's wear and rolls for a
// breakdown, which fires in the same hour.
func (g *Game) onMaintenanceCheck(ev core.ScheduledEvent) error {
	t := g.gameplay.Maintenance
	for _, p := range g.fleet() {
		wear := airplane.UpdateWear(p, ev.Time, t)
		if !airplane.CanBreakDown(p) {
			continue
		}
		if worldgen.BreakdownRoll(g.seed, ev.Time, p.ID) < wear {
			g.schedule(ev.Time, core.Event{Kind: core.EventBreakdown, Plane: p.ID})
		}
	}
	g.schedule(ev.Time+core.GameTime(t.CheckIntervalHours), core.Event{Kind: core.EventMaintenanceCheck})
	return nil
}

func (g *Game) onMaintenanceComplete(ev core.ScheduledEvent) error {
	p, _, err := g.eventPlane(ev)
	if err != nil {
		return err
	}
	airplane.CompleteMaintenance(p, ev.Time, g.gameplay.Maintenance)
	g.note("plane %d maintenance complete", p.ID)
	return nil
}

func (g *Game) onBreakdown(ev core.ScheduledEvent) error {
	p, ok := g.planes[ev.Event.Plane]
	if !ok {
		// sold between the check and the breakdown
		return nil
	}
	if airplane.Ground(p) {
		g.note("plane %d broke down and is grounded until maintained", p.ID)
		g.logger.Warn("plane grounded", "plane", p.ID, "wear", p.Wear)
	}
	return nil
}

func (g *Game) onWorldEventStart(ev core.ScheduledEvent) error {
	tune := g.gameplay.WorldEvents
	g.schedule(ev.Time+core.GameTime(tune.IntervalHours), core.Event{Kind: core.EventWorldEventStart})

	we, ok := worldgen.WorldEvent(g.seed, ev.Time, g.airports, tune.DurationHours)
	if !ok {
		return nil
	}
	a, err := g.airport(we.Airport)
	if err != nil {
		return err
	}
	a.Event = &we
	switch we.Kind {
	case core.FuelShortage, core.FuelGlut:
		economy.ApplyShock(a, we.Factor, g.gameplay.Fuel)
	case core.DemandSurge:
		fresh := worldgen.SurgeOrders(g.seed, ev.Time, a, g.airports, &g.orderIDs, g.gameplay.Orders)
		for _, o := range fresh {
			g.scheduleDeadline(o)
		}
		a.Orders = append(a.Orders, fresh...)
	}
	end := we
	g.schedule(we.Until, core.Event{Kind: core.EventWorldEventEnd, Airport: a.ID, World: &end})
	g.note("%s at %s until hour %d", we.Kind, a.Name, we.Until)
	return nil
}

func (g *Game) onWorldEventEnd(ev core.ScheduledEvent) error {
	a, err := g.airport(ev.Event.Airport)
	if err != nil {
		return err
	}
	a.Event = nil
	if we := ev.Event.World; we != nil && we.Factor != 0 && we.Factor != 1 {
		economy.ApplyShock(a, 1/we.Factor, g.gameplay.Fuel)
	}
	g.note("world event at %s is over", a.Name)
	return nil
}
