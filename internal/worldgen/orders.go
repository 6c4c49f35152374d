package worldgen

import (
	"math"
	"math/rand/v2"

	"github.com/runwaysim/runways/internal/economy"
	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/pkg/core"
)

// Fare bounds per passenger seat.
const (
	MinFare = 80.0
	MaxFare = 250.0
)

type countTier struct {
	below    float64
	min, max int
}

// bigger airports post more orders per restock
var orderCountTiers = []countTier{
	{500, 2, 4},
	{1500, 5, 8},
	{2500, 9, 15},
	{3500, 15, 24},
	{math.Inf(1), 25, 40},
}

// IDs hands out order ids in creation order.
type IDs struct {
	Next int
}

func (s *IDs) take() int {
	id := s.Next
	s.Next++
	return id
}

// OrderCount is how many orders an airport posts per restock at now.
func OrderCount(seed uint64, now core.GameTime, origin *core.Airport) int {
	r := At(seed, now, StreamOrderCount, uint64(origin.ID))
	for _, t := range orderCountTiers {
		if origin.RunwayLength < t.below {
			return between(r, t.min, t.max)
		}
	}
	return 0
}

// Restock generates the periodic batch of orders for one airport at now.
// airports is the full map; destinations are picked among the others.
func Restock(seed uint64, now core.GameTime, origin *core.Airport, airports []core.Airport, ids *IDs, t core.OrderTuning) []core.Order {
	n := OrderCount(seed, now, origin)
	return Orders(At(seed, now, StreamOrders, uint64(origin.ID)), now, n, origin, airports, ids, t)
}

// Orders draws n orders from r. Nothing is generated when the map has no
// other airport.
func Orders(r *rand.Rand, now core.GameTime, n int, origin *core.Airport, airports []core.Airport, ids *IDs, t core.OrderTuning) []core.Order {
	if len(airports) < 2 || n <= 0 {
		return nil
	}
	out := make([]core.Order, 0, n)
	for range n {
		dest := pickDestination(r, origin, airports)
		out = append(out, drawOrder(r, now, origin, dest, ids.take(), t))
	}
	return out
}

func pickDestination(r *rand.Rand, origin *core.Airport, airports []core.Airport) *core.Airport {
	i := r.IntN(len(airports) - 1)
	for j := range airports {
		if airports[j].ID == origin.ID {
			continue
		}
		if i == 0 {
			return &airports[j]
		}
		i--
	}
	return nil
}

// drawOrder draws payload, deadline and value in that order.
func drawOrder(r *rand.Rand, now core.GameTime, origin, dest *core.Airport, id int, t core.OrderTuning) core.Order {
	var payload core.Payload
	var base float64
	if r.Float64() < t.PassengerShare {
		seats := between(r, t.MinPassengers, t.MaxPassengers)
		payload = core.PassengerPayload(seats)
		base = float64(seats) * uniform(r, MinFare, MaxFare)
	} else {
		types := core.CargoTypes()
		ct := types[r.IntN(len(types))]
		weight := math.Round(uniform(r, t.MinWeight, t.MaxWeight))
		lo, hi := ct.PriceRange()
		payload = core.CargoPayload(ct, weight)
		base = weight * uniform(r, lo, hi)
	}

	maxDL := t.MaxDeadlineHours
	dl := uint64(between(r, 1, int(maxDL)))

	return core.Order{
		ID:          id,
		Origin:      origin.ID,
		Destination: dest.ID,
		Payload:     payload,
		Value:       OrderValue(base, feasibility.Distance(origin, dest), dl, maxDL, t),
		Deadline:    now + core.GameTime(dl),
		CreatedAt:   now,
	}
}

// OrderValue prices an order: the base rate plus a distance premium
// weighted by alpha and an urgency premium weighted by beta. Both premiums
// scale with the base rate. Rounded to cents.
func OrderValue(base, distance float64, deadlineHours, maxDeadline uint64, t core.OrderTuning) float64 {
	distanceTerm := base * distance / core.MapSize
	urgency := 0.0
	if maxDeadline > 0 && deadlineHours < maxDeadline {
		urgency = base * float64(maxDeadline-deadlineHours) / float64(maxDeadline)
	}
	return economy.RoundCents(base + t.Alpha*distanceTerm + t.Beta*urgency)
}
