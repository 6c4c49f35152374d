// pkg/core/time.go
package core

// GameTime counts simulated hours since world creation.
type GameTime uint64

// HoursPerDay is the length of a stats day.
const HoursPerDay = 24

// Day returns the zero-based day the hour falls in.
func (t GameTime) Day() uint64 {
	return uint64(t) / HoursPerDay
}
