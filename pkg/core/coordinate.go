// pkg/core/coordinate.go
package core

// MapSize is the edge length of the square world, in kilometres.
const MapSize = 10000.0

// Coordinate is a point on the world plane.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// InBounds reports whether both axes lie in [0, MapSize].
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X <= MapSize && c.Y >= 0 && c.Y <= MapSize
}
