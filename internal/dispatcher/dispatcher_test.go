package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/runwaysim/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	require.NoError(t, err)

	return d, logger
}

func fired(kind core.EventKind) core.ScheduledEvent {
	return core.ScheduledEvent{Time: 3, Seq: 1, Event: core.Event{Kind: kind, Plane: 7}}
}

func TestDispatcher_RoutesByKind(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got []core.EventKind
	d.Register(core.EventRestock, func(e core.ScheduledEvent) error {
		got = append(got, e.Event.Kind)
		return nil
	})
	d.Register(core.EventPricingTick, func(e core.ScheduledEvent) error {
		got = append(got, e.Event.Kind)
		return nil
	})

	require.NoError(t, d.Dispatch(fired(core.EventPricingTick)))
	require.NoError(t, d.Dispatch(fired(core.EventRestock)))

	assert.Equal(t, []core.EventKind{core.EventPricingTick, core.EventRestock}, got)
}

func TestDispatcher_UnknownKind(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := d.Dispatch(fired(core.EventBreakdown))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Breakdown")
}

func TestDispatcher_HandlerError(t *testing.T) {
	d, _ := newTestDispatcher(t)
	boom := errors.New("boom")
	d.Register(core.EventRestock, func(core.ScheduledEvent) error { return boom })

	assert.ErrorIs(t, d.Dispatch(fired(core.EventRestock)), boom)
}

func TestDispatcher_Logged(t *testing.T) {
	d, logger := newTestDispatcher(t)
	d.Register(core.EventFlightArrival, func(core.ScheduledEvent) error { return nil }, Logged())
	d.Register(core.EventBreakdown, func(core.ScheduledEvent) error { return errors.New("bad plane") }, Logged())

	require.NoError(t, d.Dispatch(fired(core.EventFlightArrival)))
	require.Error(t, d.Dispatch(fired(core.EventBreakdown)))

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.messages, 4)
	assert.True(t, strings.HasPrefix(logger.messages[0], "DEBUG: handling event"))
	assert.Contains(t, logger.messages[1], "event complete")
	assert.True(t, strings.HasPrefix(logger.messages[3], "ERROR: event failed"))
}

func TestDispatcher_Missing(t *testing.T) {
	d, _ := newTestDispatcher(t)
	assert.Len(t, d.Missing(), len(core.EventKinds()))

	for _, k := range core.EventKinds() {
		d.Register(k, func(core.ScheduledEvent) error { return nil })
	}
	assert.Empty(t, d.Missing())
	assert.True(t, d.HasHandler(core.EventWorldEventEnd))
}
