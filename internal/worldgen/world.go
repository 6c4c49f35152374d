package worldgen

import (
	"fmt"
	"sort"

	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/pkg/core"
)

// World is the generated map with its initial orders already posted at
// their origin airports.
type World struct {
	Seed     uint64
	Airports []core.Airport
	Orders   IDs
}

// Generate builds a world from the seed alone. The result is a pure
// function of (seed, count, gameplay).
func Generate(seed uint64, count int, g core.Gameplay) *World {
	w := &World{Seed: seed, Airports: GenerateAirports(seed, count, g)}
	if g.Orders.GenerateInitial {
		w.postInitialOrders(g.Orders)
	}
	return w
}

func (w *World) postInitialOrders(t core.OrderTuning) {
	for i := range w.Airports {
		a := &w.Airports[i]
		a.Orders = append(a.Orders, Restock(w.Seed, 0, a, w.Airports, &w.Orders, t)...)
	}
}

// FromConfig builds the world described by a validated configuration.
// Hand-placed airports keep their ids and get fees drawn from their runway
// unless set; num_airports falls back to Generate.
func FromConfig(seed uint64, cfg *config.WorldConfig) (*World, error) {
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	if len(cfg.Airports) == 0 {
		count := 0
		if cfg.NumAirports != nil {
			count = *cfg.NumAirports
		}
		return Generate(seed, count, cfg.Gameplay), nil
	}

	w := &World{Seed: seed, Airports: make([]core.Airport, 0, len(cfg.Airports))}
	for _, ac := range cfg.Airports {
		landing, parking := drawFees(seed, uint64(ac.ID), ac.RunwayLength)
		if ac.LandingFee != nil {
			landing = *ac.LandingFee
		}
		if ac.ParkingFee != nil {
			parking = *ac.ParkingFee
		}
		w.Airports = append(w.Airports, core.Airport{
			ID:            ac.ID,
			Name:          ac.Name,
			Location:      ac.Location,
			RunwayLength:  ac.RunwayLength,
			LandingFee:    landing,
			ParkingFee:    parking,
			BaseFuelPrice: ac.FuelPrice,
			FuelPrice:     ac.FuelPrice,
		})
	}
	sort.SliceStable(w.Airports, func(i, j int) bool { return w.Airports[i].ID < w.Airports[j].ID })

	index := make(map[int]int, len(w.Airports))
	for i, a := range w.Airports {
		index[a.ID] = i
	}
	for _, ac := range cfg.Airports {
		origin := &w.Airports[index[ac.ID]]
		for _, oc := range ac.Orders {
			payload, err := oc.Payload()
			if err != nil {
				return nil, fmt.Errorf("airport %s: %w", ac.Name, err)
			}
			if _, ok := index[oc.Destination]; !ok {
				return nil, &core.AirportIDInvalidError{ID: oc.Destination}
			}
			origin.Orders = append(origin.Orders, core.Order{
				ID:          w.Orders.take(),
				Origin:      ac.ID,
				Destination: oc.Destination,
				Payload:     payload,
				Value:       oc.Value,
				Deadline:    core.GameTime(oc.DeadlineHours),
			})
		}
	}
	if cfg.Gameplay.Orders.GenerateInitial {
		w.postInitialOrders(cfg.Gameplay.Orders)
	}
	return w, nil
}

// ClosestPair returns the index of the airport with the nearest neighbour.
// Ties go to the lower index. ok is false with fewer than two airports.
func ClosestPair(airports []core.Airport) (int, bool) {
	best, bestDist := -1, 0.0
	for i := range airports {
		for j := range airports {
			if i == j {
				continue
			}
			d := feasibility.Distance(&airports[i], &airports[j])
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	return best, best >= 0
}

// StarterPlane picks the free first plane and the index of the airport it
// starts at: the cheapest model that can use the runway of the airport
// with the closest neighbour and fly from there to some other airport it
// can land at. Without a candidate the catalog's fallback model starts at
// the first airport.
func StarterPlane(cat *catalog.Catalog, airports []core.Airport) (core.Specs, int, error) {
	if len(airports) == 0 {
		return core.Specs{}, 0, fmt.Errorf("world has no airports")
	}
	if start, ok := ClosestPair(airports); ok {
		origin := &airports[start]
		specs, found := cat.Cheapest(func(s core.Specs) bool {
			if feasibility.CheckRunway(s, origin) != nil {
				return false
			}
			for j := range airports {
				if j == start {
					continue
				}
				dest := &airports[j]
				if feasibility.Distance(origin, dest) <= s.Range() && feasibility.CheckRunway(s, dest) == nil {
					return true
				}
			}
			return false
		})
		if found {
			return specs, start, nil
		}
	}
	if specs, err := cat.Lookup(catalog.FallbackStarter); err == nil {
		return specs, 0, nil
	}
	specs, ok := cat.Cheapest(nil)
	if !ok {
		return core.Specs{}, 0, fmt.Errorf("airplane catalog is empty")
	}
	return specs, 0, nil
}
