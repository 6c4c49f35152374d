package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes evaluated at log time.
type ContextProvider func() []slog.Attr

// ContextHandler wraps another handler and appends the provider's
// attributes to every record.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds dynamic context to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{
		inner:    inner,
		provider: provider,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}

// ForGame returns a logger that stamps each record with the game seed and
// the simulation hour read from clock when the record is written.
func ForGame(base *slog.Logger, seed uint64, clock func() uint64) *slog.Logger {
	return slog.New(NewContextHandler(base.Handler(), func() []slog.Attr {
		return []slog.Attr{
			slog.Uint64("game.seed", seed),
			slog.Uint64("game.time", clock()),
		}
	}))
}
