package game

import (
	"log/slog"

	"github.com/runwaysim/runways/internal/catalog"
	"github.com/runwaysim/runways/internal/dispatcher"
	"github.com/runwaysim/runways/pkg/core"
)

// DefaultStartingCash is the player's opening balance.
const DefaultStartingCash = 1_000_000.0

// DefaultLogCapacity bounds the message log between drains.
const DefaultLogCapacity = 512

// Option customises a new or restored game.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	eventLogger  dispatcher.Logger
	catalog      *catalog.Catalog
	gameplay     *core.Gameplay
	startingCash *float64
	logCapacity  int
	logEvents    bool
}

func buildOptions(opts []Option) options {
	o := options{logCapacity: DefaultLogCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the logger. Records get game.seed and game.time
// attributes added.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventLogger sets the logger for per-event dispatch tracing and turns
// the tracing on.
func WithEventLogger(l dispatcher.Logger) Option {
	return func(o *options) {
		o.eventLogger = l
		o.logEvents = true
	}
}

// WithEventTracing logs every dispatched event at debug level through the
// game logger.
func WithEventTracing() Option {
	return func(o *options) { o.logEvents = true }
}

// WithCatalog replaces the stock airplane catalog. Ignored on restore.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithGameplay replaces the stock tuning. Ignored on restore.
func WithGameplay(g core.Gameplay) Option {
	return func(o *options) { o.gameplay = &g }
}

// WithStartingCash sets the opening balance. Ignored on restore.
func WithStartingCash(cash float64) Option {
	return func(o *options) { o.startingCash = &cash }
}

// WithLogCapacity bounds the message log. Zero keeps every message.
func WithLogCapacity(n int) Option {
	return func(o *options) { o.logCapacity = n }
}
