// Package worldgen builds the world map and every random draw the
// simulation makes. All randomness comes from PCG streams keyed by the
// world seed, a stream tag and an entity id, so a draw never depends on
// how many draws happened before it elsewhere.
package worldgen

import (
	"math/rand/v2"

	"github.com/runwaysim/runways/pkg/core"
)

// Stream tags one independent source of draws.
type Stream uint64

const (
	StreamCluster Stream = iota + 1
	StreamLocation
	StreamRunway
	StreamFuel
	StreamFees
	StreamOrderCount
	StreamOrders
	StreamSurge
	StreamWorldEvent
	StreamBreakdown
)

// NewRand returns the generator for (seed, stream, id).
func NewRand(seed uint64, s Stream, id uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(s)<<32^id))
}

// At returns the generator for a draw made at game time t.
func At(seed uint64, t core.GameTime, s Stream, id uint64) *rand.Rand {
	return NewRand(DeriveSeed(seed, t), s, id)
}

// DeriveSeed mixes a game time into the world seed (splitmix64 finaliser).
func DeriveSeed(seed uint64, t core.GameTime) uint64 {
	z := seed + 0x9e3779b97f4a7c15*(uint64(t)+1)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// between draws an integer in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
