package worldgen

import (
	"github.com/runwaysim/runways/pkg/core"
)

// Price factors of the fuel disturbances.
const (
	ShortageFactor = 1.5
	GlutFactor     = 0.6

	MinSurgeOrders = 3
	MaxSurgeOrders = 6
)

// WorldEvent draws the disturbance that starts at now. Airports already
// under an event are skipped; ok is false when every airport is busy.
func WorldEvent(seed uint64, now core.GameTime, airports []core.Airport, duration uint64) (core.WorldEvent, bool) {
	free := make([]int, 0, len(airports))
	for i := range airports {
		if airports[i].Event == nil {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return core.WorldEvent{}, false
	}
	r := At(seed, now, StreamWorldEvent, 0)
	target := airports[free[r.IntN(len(free))]].ID

	ev := core.WorldEvent{Airport: target, Factor: 1, Until: now + core.GameTime(duration)}
	switch r.IntN(3) {
	case 0:
		ev.Kind = core.FuelShortage
		ev.Factor = ShortageFactor
	case 1:
		ev.Kind = core.FuelGlut
		ev.Factor = GlutFactor
	default:
		ev.Kind = core.DemandSurge
	}
	return ev, true
}

// SurgeOrders generates the bonus orders of a demand surge at origin.
func SurgeOrders(seed uint64, now core.GameTime, origin *core.Airport, airports []core.Airport, ids *IDs, t core.OrderTuning) []core.Order {
	r := At(seed, now, StreamSurge, uint64(origin.ID))
	n := between(r, MinSurgeOrders, MaxSurgeOrders)
	return Orders(r, now, n, origin, airports, ids, t)
}

// BreakdownRoll is the uniform draw compared against a plane's wear at a
// maintenance check.
func BreakdownRoll(seed uint64, now core.GameTime, planeID int) float64 {
	return At(seed, now, StreamBreakdown, uint64(planeID)).Float64()
}
