package game

import (
	"encoding/json"
	"fmt"

	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/internal/scheduler"
	"github.com/runwaysim/runways/internal/worldgen"
	"github.com/runwaysim/runways/pkg/core"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the complete state of a game. Restoring it yields a game
// that continues exactly as the original would have. The message log is
// not part of it.
type Snapshot struct {
	Version     int                   `json:"version"`
	Seed        uint64                `json:"seed"`
	Time        core.GameTime         `json:"time"`
	NextSeq     uint64                `json:"next_seq"`
	Events      []core.ScheduledEvent `json:"events"`
	Gameplay    core.Gameplay         `json:"gameplay"`
	Catalog     []core.Specs          `json:"catalog"`
	Airports    []core.Airport        `json:"airports"`
	Planes      []core.Airplane       `json:"planes"`
	Player      core.Player           `json:"player"`
	Ledger      economy.Ledger        `json:"ledger"`
	Stats       []core.DailyStats     `json:"stats"`
	NextOrderID int                   `json:"next_order_id"`
	NextPlaneID int                   `json:"next_plane_id"`
}

// Snapshot captures the full game state.
func (g *Game) Snapshot() Snapshot {
	player := g.player
	player.Fleet = append([]int{}, g.player.Fleet...)
	player.Deliveries = append([]core.Delivery{}, g.player.Deliveries...)

	return Snapshot{
		Version:     SnapshotVersion,
		Seed:        g.seed,
		Time:        g.sched.Now(),
		NextSeq:     g.sched.NextSeq(),
		Events:      g.sched.Pending(),
		Gameplay:    g.gameplay,
		Catalog:     g.catalog.Models(),
		Airports:    g.Airports(),
		Planes:      g.Fleet(),
		Player:      player,
		Ledger:      g.ledger,
		Stats:       append([]core.DailyStats{}, g.stats...),
		NextOrderID: g.orderIDs.Next,
		NextPlaneID: g.nextPlaneID,
	}
}

// Restore rebuilds a game from a snapshot. Snapshots with events before
// their clock or references to planes, airports or orders that do not
// exist are rejected. Catalog, gameplay and starting cash options are
// ignored; logging options apply.
func Restore(s Snapshot, opts ...Option) (*Game, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if err := config.ValidateGameplay(s.Gameplay); err != nil {
		return nil, fmt.Errorf("snapshot gameplay: %w", err)
	}
	if len(s.Airports) == 0 {
		return nil, fmt.Errorf("snapshot has no airports")
	}
	for _, spec := range s.Catalog {
		if err := catalog.Validate(spec); err != nil {
			return nil, fmt.Errorf("snapshot catalog: %w", err)
		}
	}
	sched, err := scheduler.Restore(s.Time, s.NextSeq, s.Events)
	if err != nil {
		return nil, err
	}

	g := &Game{
		seed:        s.Seed,
		gameplay:    s.Gameplay,
		catalog:     catalog.New(s.Catalog...),
		sched:       sched,
		airports:    make([]core.Airport, len(s.Airports)),
		planes:      make(map[int]*core.Airplane, len(s.Planes)),
		player:      s.Player,
		ledger:      s.Ledger,
		stats:       append([]core.DailyStats{}, s.Stats...),
		orderIDs:    worldgen.IDs{Next: s.NextOrderID},
		nextPlaneID: s.NextPlaneID,
	}
	for i := range s.Airports {
		g.airports[i] = copyAirport(&s.Airports[i])
	}
	g.player.Fleet = append([]int{}, s.Player.Fleet...)
	g.player.Deliveries = append([]core.Delivery{}, s.Player.Deliveries...)

	if err := g.wire(buildOptions(opts)); err != nil {
		return nil, err
	}
	for i := range s.Planes {
		p := copyPlane(&s.Planes[i])
		if _, dup := g.planes[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plane id %d", p.ID)
		}
		g.planes[p.ID] = &p
	}
	if err := g.checkReferences(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) checkReferences() error {
	if len(g.player.Fleet) != len(g.planes) {
		return fmt.Errorf("fleet lists %d planes, snapshot has %d", len(g.player.Fleet), len(g.planes))
	}
	for _, id := range g.player.Fleet {
		if _, ok := g.planes[id]; !ok {
			return &core.PlaneIDInvalidError{ID: id}
		}
		if id >= g.nextPlaneID {
			return fmt.Errorf("plane id %d not below counter %d", id, g.nextPlaneID)
		}
	}
	for _, p := range g.fleet() {
		if p.Transit != nil {
			if _, err := g.airport(p.Transit.Origin); err != nil {
				return err
			}
			if _, err := g.airport(p.Transit.Destination); err != nil {
				return err
			}
		} else if _, err := g.airport(p.AirportID); err != nil {
			return err
		}
		if p.PendingLoad != nil {
			a, _ := g.airport(p.AirportID)
			if a == nil || a.OrderIndex(*p.PendingLoad) < 0 {
				return &core.OrderIDInvalidError{ID: *p.PendingLoad}
			}
		}
	}
	for _, a := range g.airports {
		for _, o := range a.Orders {
			if o.ID >= g.orderIDs.Next {
				return fmt.Errorf("order id %d not below counter %d", o.ID, g.orderIDs.Next)
			}
			if _, err := g.airport(o.Destination); err != nil {
				return err
			}
		}
	}
	for _, ev := range g.sched.Pending() {
		e := ev.Event
		switch e.Kind {
		case core.EventLoadingComplete, core.EventUnloadingComplete, core.EventRefuelComplete,
			core.EventFlightTakeoff, core.EventFlightArrival, core.EventMaintenanceComplete:
			if _, ok := g.planes[e.Plane]; !ok {
				return fmt.Errorf("%s event refers to unknown plane %d", e.Kind, e.Plane)
			}
		}
		switch e.Kind {
		case core.EventFlightArrival, core.EventWorldEventEnd:
			if _, err := g.airport(e.Airport); err != nil {
				return fmt.Errorf("%s event: %w", e.Kind, err)
			}
		}
	}
	return nil
}

// MarshalState serialises the full game state as JSON.
func (g *Game) MarshalState() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// UnmarshalState restores a game from MarshalState output.
func UnmarshalState(data []byte, opts ...Option) (*Game, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding game state: %w", err)
	}
	return Restore(s, opts...)
}
