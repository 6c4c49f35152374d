package geo

import (
	"math"
	"testing"

	"github.com/runwaysim/runways/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b core.Coordinate
		want float64
	}{
		{"same point", core.Coordinate{X: 5, Y: 5}, core.Coordinate{X: 5, Y: 5}, 0},
		{"horizontal", core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 2000, Y: 0}, 2000},
		{"pythagorean", core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 300, Y: 400}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Distance(tt.b, tt.a), 1e-9)
		})
	}
}

func TestInterpolate(t *testing.T) {
	a := core.Coordinate{X: 0, Y: 0}
	b := core.Coordinate{X: 100, Y: 200}

	mid := Interpolate(a, b, 0.5)
	assert.InDelta(t, 50, mid.X, 1e-9)
	assert.InDelta(t, 100, mid.Y, 1e-9)

	assert.Equal(t, a, Interpolate(a, b, -1))
	assert.Equal(t, b, Interpolate(a, b, 2))
}

func TestClamp(t *testing.T) {
	c := Clamp(core.Coordinate{X: -5, Y: 12000})
	assert.Equal(t, core.Coordinate{X: 0, Y: core.MapSize}, c)
	assert.True(t, c.InBounds())
}

func TestOffset(t *testing.T) {
	c := Offset(core.Coordinate{X: 100, Y: 100}, 10, math.Pi/2)
	assert.InDelta(t, 100, c.X, 1e-9)
	assert.InDelta(t, 110, c.Y, 1e-9)
}
