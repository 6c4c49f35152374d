package dispatcher

import (
	"context"
	"fmt"

	"github.com/runwaysim/runways/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/runwaysim/runways/internal/dispatcher"

// initMetrics creates the per-kind event counters on the global meter.
func (d *Dispatcher) initMetrics() error {
	m := otel.Meter(instrumentationName)

	var err error
	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total scheduled events applied"),
	)
	if err != nil {
		return fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.events.failed",
		metric.WithDescription("Total scheduled events whose handler failed"),
	)
	if err != nil {
		return fmt.Errorf("creating failed counter: %w", err)
	}
	return nil
}

// withMetrics counts each application of h under its event kind.
func (d *Dispatcher) withMetrics(kind core.EventKind, h HandlerFunc) HandlerFunc {
	kindAttr := metric.WithAttributes(attribute.String("kind", kind.String()))
	return func(e core.ScheduledEvent) error {
		err := h(e)
		if err != nil {
			d.failed.Add(context.Background(), 1, kindAttr)
		} else {
			d.processed.Add(context.Background(), 1, kindAttr)
		}
		return err
	}
}
