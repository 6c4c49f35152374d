// Package game is the simulation aggregate: one world, one player, one
// clock. A Game is not safe for concurrent use; independent games share
// nothing and can run side by side.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/runwaysim/runways/internal/airplane"
	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/dispatcher"
	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/internal/logging"
	"github.com/runwaysim/runways/internal/queue"
	"github.com/runwaysim/runways/internal/scheduler"
	"github.com/runwaysim/runways/internal/worldgen"
	"github.com/runwaysim/runways/pkg/core"
)

// Message is one line of the human-readable game log.
type Message struct {
	Time core.GameTime `json:"time"`
	Text string        `json:"text"`
}

// Game owns every entity of one simulation.
type Game struct {
	seed     uint64
	gameplay core.Gameplay
	catalog  *catalog.Catalog

	sched    *scheduler.Scheduler
	dispatch *dispatcher.Dispatcher

	airports []core.Airport
	index    map[int]int // airport id -> position in airports
	planes   map[int]*core.Airplane
	player   core.Player
	ledger   economy.Ledger
	stats    []core.DailyStats

	orderIDs    worldgen.IDs
	nextPlaneID int

	logger   *slog.Logger
	messages *queue.Queue[Message]
}

// New generates a world of airportCount airports from seed and starts a
// game on it.
func New(seed uint64, airportCount int, opts ...Option) (*Game, error) {
	o := buildOptions(opts)
	g := core.DefaultGameplay()
	if o.gameplay != nil {
		g = *o.gameplay
	}
	if err := config.ValidateGameplay(g); err != nil {
		return nil, err
	}
	return start(worldgen.Generate(seed, airportCount, g), g, o)
}

// FromConfig starts a game on the world a configuration describes. seed
// is used when the configuration does not pin one.
func FromConfig(seed uint64, cfg *config.WorldConfig, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	base := []Option{WithCatalog(cat), WithGameplay(cfg.Gameplay)}
	if cfg.StartingCash != nil {
		base = append(base, WithStartingCash(*cfg.StartingCash))
	}
	o := buildOptions(append(base, opts...))
	if err := config.ValidateGameplay(*o.gameplay); err != nil {
		return nil, err
	}

	w, err := worldgen.FromConfig(seed, cfg)
	if err != nil {
		return nil, err
	}
	return start(w, *o.gameplay, o)
}

func start(w *worldgen.World, g core.Gameplay, o options) (*Game, error) {
	if len(w.Airports) == 0 {
		return nil, errors.New("world has no airports")
	}
	cat := o.catalog
	if cat == nil {
		cat = catalog.Default()
	}
	cash := DefaultStartingCash
	if o.startingCash != nil {
		cash = *o.startingCash
	}

	game := &Game{
		seed:     w.Seed,
		gameplay: g,
		catalog:  cat,
		sched:    scheduler.New(0),
		airports: w.Airports,
		planes:   make(map[int]*core.Airplane),
		player:   core.Player{Cash: cash, Fleet: []int{}, Deliveries: []core.Delivery{}},
		orderIDs: w.Orders,
	}
	if err := game.wire(o); err != nil {
		return nil, err
	}

	specs, at, err := worldgen.StarterPlane(cat, game.airports)
	if err != nil {
		return nil, err
	}
	game.addPlane(specs, &game.airports[at])

	for i := range game.airports {
		for _, ord := range game.airports[i].Orders {
			game.scheduleDeadline(ord)
		}
	}
	game.scheduleRecurring()

	game.logger.Info("game started",
		"airports", len(game.airports),
		"orders", game.orderIDs.Next,
		"starter", specs.Model,
		"airport", game.airports[at].Name)
	return game, nil
}

// wire builds the parts shared by new and restored games: airport index,
// logger, message log and dispatcher.
func (g *Game) wire(o options) error {
	g.index = make(map[int]int, len(g.airports))
	for i, a := range g.airports {
		if _, dup := g.index[a.ID]; dup {
			return fmt.Errorf("duplicate airport id %d", a.ID)
		}
		g.index[a.ID] = i
	}

	g.logger = logging.ForGame(o.logger, g.seed, func() uint64 { return uint64(g.sched.Now()) })
	g.messages = queue.New[Message](o.logCapacity)

	eventLogger := o.eventLogger
	if eventLogger == nil {
		eventLogger = logging.NewSlogDispatcherLogger(g.logger)
	}
	d, err := dispatcher.New(eventLogger)
	if err != nil {
		return err
	}
	g.dispatch = d
	g.registerHandlers(o.logEvents)
	return nil
}

func (g *Game) scheduleRecurring() {
	g.scheduleIn(core.GameTime(g.gameplay.RestockCycleHours), core.Event{Kind: core.EventRestock})
	g.scheduleIn(core.HoursPerDay, core.Event{Kind: core.EventDailyStats})
	g.scheduleIn(core.GameTime(g.gameplay.FuelIntervalHours), core.Event{Kind: core.EventPricingTick})
	g.scheduleIn(core.GameTime(g.gameplay.Maintenance.CheckIntervalHours), core.Event{Kind: core.EventMaintenanceCheck})
	if g.gameplay.WorldEvents.IntervalHours > 0 {
		g.scheduleIn(core.GameTime(g.gameplay.WorldEvents.IntervalHours), core.Event{Kind: core.EventWorldEventStart})
	}
}

// scheduleDeadline queues the expiry of an order one hour after its
// deadline, so a delivery completing at the deadline hour still pays.
func (g *Game) scheduleDeadline(o core.Order) {
	at := o.Deadline + 1
	if at < g.sched.Now() {
		at = g.sched.Now()
	}
	g.schedule(at, core.Event{Kind: core.EventOrderDeadline, Order: o.ID, Airport: o.Origin})
}

// scheduleIn panics when now+delay overflows the clock.
func (g *Game) scheduleIn(delay core.GameTime, ev core.Event) {
	if err := g.sched.ScheduleIn(delay, ev); err != nil {
		panic(err)
	}
}

// schedule panics on a past time; callers only pass now or later.
func (g *Game) schedule(at core.GameTime, ev core.Event) {
	if err := g.sched.Schedule(at, ev); err != nil {
		panic(err)
	}
}

func (g *Game) addPlane(specs core.Specs, at *core.Airport) *core.Airplane {
	p := airplane.New(g.nextPlaneID, specs, at, g.sched.Now())
	g.nextPlaneID++
	g.planes[p.ID] = p
	g.player.Fleet = append(g.player.Fleet, p.ID)
	return p
}

func (g *Game) removePlane(id int) {
	delete(g.planes, id)
	for i, f := range g.player.Fleet {
		if f == id {
			g.player.Fleet = append(g.player.Fleet[:i], g.player.Fleet[i+1:]...)
			return
		}
	}
}

func (g *Game) airport(id int) (*core.Airport, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, &core.AirportIDInvalidError{ID: id}
	}
	return &g.airports[i], nil
}

func (g *Game) plane(id int) (*core.Airplane, error) {
	p, ok := g.planes[id]
	if !ok {
		return nil, &core.PlaneIDInvalidError{ID: id}
	}
	return p, nil
}

// fleet returns the owned planes in purchase order.
func (g *Game) fleet() []*core.Airplane {
	out := make([]*core.Airplane, 0, len(g.player.Fleet))
	for _, id := range g.player.Fleet {
		out = append(out, g.planes[id])
	}
	return out
}

// reservedBy returns the plane loading the order, if any.
func (g *Game) reservedBy(orderID int) (int, bool) {
	for _, p := range g.fleet() {
		if p.PendingLoad != nil && *p.PendingLoad == orderID {
			return p.ID, true
		}
	}
	return 0, false
}

func (g *Game) note(format string, args ...any) {
	g.messages.Push(Message{Time: g.sched.Now(), Text: fmt.Sprintf(format, args...)})
}

func (g *Game) credit(amount float64) {
	g.player.Cash += amount
	g.ledger.Earn(amount)
}

// charge debits cash and books the expense. The caller has checked
// affordability.
func (g *Game) charge(amount float64) {
	if err := economy.Debit(&g.player, amount); err != nil {
		panic(err)
	}
	g.ledger.Spend(amount)
}

func (g *Game) afford(amount float64) error {
	if amount > g.player.Cash {
		return &core.InsufficientFundsError{Have: g.player.Cash, Need: amount}
	}
	return nil
}
