package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/runwaysim/runways/pkg/core"
)

// The world is a flat square plane measured in kilometres. Points are
// handled as geom.XY so the vector helpers of simplefeatures can be used
// directly; no coordinate reference system is involved.

// XY converts a coordinate to a planar vector.
func XY(c core.Coordinate) geom.XY {
	return geom.XY{X: c.X, Y: c.Y}
}

// FromXY converts a planar vector back to a coordinate.
func FromXY(v geom.XY) core.Coordinate {
	return core.Coordinate{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance between two coordinates.
func Distance(a, b core.Coordinate) float64 {
	return XY(b).Sub(XY(a)).Length()
}

// Interpolate returns the point a fraction t of the way from a to b.
// t is clamped to [0, 1].
func Interpolate(a, b core.Coordinate, t float64) core.Coordinate {
	t = math.Max(0, math.Min(1, t))
	return FromXY(XY(a).Add(XY(b).Sub(XY(a)).Scale(t)))
}

// Clamp pulls a coordinate back inside the map.
func Clamp(c core.Coordinate) core.Coordinate {
	return core.Coordinate{
		X: math.Max(0, math.Min(core.MapSize, c.X)),
		Y: math.Max(0, math.Min(core.MapSize, c.Y)),
	}
}

// Offset moves c by distance along the given heading in radians.
func Offset(c core.Coordinate, distance, heading float64) core.Coordinate {
	return FromXY(XY(c).Add(geom.XY{X: math.Cos(heading), Y: math.Sin(heading)}.Scale(distance)))
}
