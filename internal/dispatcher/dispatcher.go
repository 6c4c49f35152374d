package dispatcher

import (
	"fmt"
	"time"

	"github.com/runwaysim/runways/pkg/core"
	"go.opentelemetry.io/otel/metric"
)

// HandlerFunc applies one fired event to the game.
type HandlerFunc func(core.ScheduledEvent) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes fired events to the handler registered for their
// kind. Handlers run synchronously on the caller's goroutine; the order
// events are handed in is the order they are applied.
type Dispatcher struct {
	handlers map[core.EventKind]HandlerFunc
	logger   Logger

	// OTEL metrics
	processed metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[core.EventKind]HandlerFunc),
		logger:   logger,
	}

	if err := d.initMetrics(); err != nil {
		return nil, err
	}

	return d, nil
}

// Register adds a handler for the given kind with optional configuration.
// Registering a kind twice replaces the earlier handler.
func (d *Dispatcher) Register(kind core.EventKind, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := d.withMetrics(kind, h)

	if cfg.logged {
		handler = d.withLogging(kind, handler)
	}

	d.handlers[kind] = handler
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e core.ScheduledEvent) error {
	h, ok := d.handlers[e.Event.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind: %s", e.Event.Kind)
	}
	return h(e)
}

// HasHandler returns true if a handler is registered for the kind.
func (d *Dispatcher) HasHandler(kind core.EventKind) bool {
	_, ok := d.handlers[kind]
	return ok
}

// Missing lists the kinds that have no handler.
func (d *Dispatcher) Missing() []core.EventKind {
	var out []core.EventKind
	for _, k := range core.EventKinds() {
		if !d.HasHandler(k) {
			out = append(out, k)
		}
	}
	return out
}


func (d *Dispatcher) withLogging(kind core.EventKind, h HandlerFunc) HandlerFunc {
	return func(e core.ScheduledEvent) error {
		start := time.Now()
		d.logger.Debug("handling event", "kind", kind.String(), "time", uint64(e.Time), "seq", e.Seq)

		err := h(e)

		if err != nil {
			d.logger.Error("event failed", "kind", kind.String(), "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "kind", kind.String(), "duration", time.Since(start))
		}

		return err
	}
}
