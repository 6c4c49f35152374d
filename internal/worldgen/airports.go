package worldgen

import (
	"math"

	"github.com/runwaysim/runways/internal/geo"
	"github.com/runwaysim/runways/internal/util"
	"github.com/runwaysim/runways/pkg/core"
)

const (
	MinRunway = 245.0
	MaxRunway = 5500.0

	MinFuelPrice = 0.5
	MaxFuelPrice = 2.5

	airportsPerCluster = 4
	clusterMargin      = 1500.0
)

type tier struct {
	below    float64
	min, max float64
}

var landingTiers = []tier{
	{500, 2.4, 3.0},
	{1500, 3.1, 4.0},
	{2500, 4.1, 5.0},
	{3500, 5.1, 6.0},
	{math.Inf(1), 6.1, 9.0},
}

// parking tiers are inclusive of the upper bound
var parkingTiers = []tier{
	{1000, 5, 15},
	{3000, 15, 30},
	{math.Inf(1), 30, 50},
}

// GenerateAirports places count airports in clusters. Each field is drawn
// from its own stream keyed by airport id.
func GenerateAirports(seed uint64, count int, g core.Gameplay) []core.Airport {
	if count <= 0 {
		return nil
	}
	centres := clusterCentres(seed, count)
	airports := make([]core.Airport, count)
	for i := range airports {
		id := uint64(i)

		lr := NewRand(seed, StreamLocation, id)
		heading := lr.Float64() * 2 * math.Pi
		dist := g.ClusterRadiusKm * math.Sqrt(lr.Float64())
		loc := geo.Clamp(geo.Offset(centres[i%len(centres)], dist, heading))

		runway := uniform(NewRand(seed, StreamRunway, id), MinRunway, MaxRunway)
		fuel := uniform(NewRand(seed, StreamFuel, id), MinFuelPrice, MaxFuelPrice)
		landing, parking := drawFees(seed, id, runway)

		airports[i] = core.Airport{
			ID:            i,
			Name:          util.AirportName(i),
			Location:      loc,
			RunwayLength:  runway,
			LandingFee:    landing,
			ParkingFee:    parking,
			BaseFuelPrice: fuel,
			FuelPrice:     fuel,
		}
	}
	return airports
}

func clusterCentres(seed uint64, count int) []core.Coordinate {
	k := (count + airportsPerCluster - 1) / airportsPerCluster
	out := make([]core.Coordinate, k)
	for c := range out {
		r := NewRand(seed, StreamCluster, uint64(c))
		out[c] = core.Coordinate{
			X: uniform(r, clusterMargin, core.MapSize-clusterMargin),
			Y: uniform(r, clusterMargin, core.MapSize-clusterMargin),
		}
	}
	return out
}

// drawFees returns the landing fee per tonne and the parking fee per hour
// for a runway length. Landing is drawn before parking.
func drawFees(seed, id uint64, runway float64) (float64, float64) {
	r := NewRand(seed, StreamFees, id)
	var landing, parking float64
	for _, t := range landingTiers {
		if runway < t.below {
			landing = uniform(r, t.min, t.max)
			break
		}
	}
	for _, t := range parkingTiers {
		if runway <= t.below {
			parking = uniform(r, t.min, t.max)
			break
		}
	}
	return landing, parking
}
