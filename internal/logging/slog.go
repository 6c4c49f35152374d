package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InstrumentationName is the otel scope of every record bridged from slog.
const InstrumentationName = "github.com/runwaysim/runways"

// osStdout is swapped out by tests.
var osStdout io.Writer = os.Stdout

// Options configures SlogManager.Setup.
type Options struct {
	Level    string
	Format   string // "text" or "json"
	Provider *sdklog.LoggerProvider
}

// SlogManager owns the process logger: console or file output, plus the
// otel bridge when a provider is configured.
type SlogManager struct {
	logger *slog.Logger
	level  slog.LevelVar

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logger. Records go to w, or to stdout when w is nil,
// and to the otel provider if one is given.
func (m *SlogManager) Setup(w io.Writer, opts Options) {
	m.level.Set(parseLevel(opts.Level))
	m.logProvider = opts.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: &m.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	if w == nil {
		w = osStdout
	}
	var out slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		out = slog.NewJSONHandler(w, handlerOpts)
	} else {
		out = slog.NewTextHandler(w, handlerOpts)
	}

	var bridge slog.Handler
	if opts.Provider != nil {
		bridge = otelslog.NewHandler(InstrumentationName, otelslog.WithLoggerProvider(opts.Provider))
	}

	m.logger = slog.New(NewMultiHandler(out, bridge))
	m.logger.Info("logging initialized", "level", m.level.Level().String())
}

// SetLevel changes the minimum level of an already configured logger.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
