package game

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/rs/zerolog"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogger_StampsGame(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	_, err := New(77, 3, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"game started"`)
	assert.Contains(t, buf.String(), `"game.seed":77`)
	assert.Contains(t, buf.String(), `"game.time":0`)
}

func TestWithEventLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)

	g, err := New(1, 3, WithEventLogger(logging.NewDispatcherLogger(zl)))
	require.NoError(t, err)
	g.Advance(6)
	assert.Contains(t, buf.String(), "handling event")
	assert.Contains(t, buf.String(), "PricingTick")
}

func TestWithStartingCash(t *testing.T) {
	g, err := New(1, 3, WithStartingCash(42))
	require.NoError(t, err)
	assert.Equal(t, 42.0, g.Cash())
}

func TestWithLogCapacity(t *testing.T) {
	cfg, err := config.ParseWorld([]byte(testWorld))
	require.NoError(t, err)
	g, err := FromConfig(1, cfg, WithLogCapacity(1))
	require.NoError(t, err)

	require.NoError(t, g.LoadOrder(orderFood, 0))
	g.Advance(1)
	require.NoError(t, g.Depart(0, 1))
	g.Advance(1)

	msgs := g.DrainLog()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "landed")
}
