package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/runwaysim/runways/pkg/core"
)

// Route builds the straight flight leg between two coordinates. The
// endpoints must be distinct and finite.
func Route(from, to core.Coordinate) (geom.LineString, error) {
	seq := geom.NewSequence([]float64{from.X, from.Y, to.X, to.Y}, geom.DimXY)
	return geom.NewLineString(seq)
}

// RouteWKT renders the flight leg as well-known text for frontends, or ""
// when the leg is degenerate.
func RouteWKT(from, to core.Coordinate) string {
	ls, err := Route(from, to)
	if err != nil {
		return ""
	}
	return ls.AsText()
}
