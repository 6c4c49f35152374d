// Command runways builds a world, runs it for a number of game hours and
// reports the outcome. It can run a batch of seeds in parallel, save and
// load games, stream observations to a websocket server and export daily
// stats to InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/runwaysim/runways/internal/batch"
	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/internal/influx"
	"github.com/runwaysim/runways/internal/logging"
	intOtel "github.com/runwaysim/runways/internal/otel"
	"github.com/runwaysim/runways/internal/storage"
	"github.com/runwaysim/runways/internal/stream"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildDate can be set at build time via ldflags
var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

// options holds the flags that are not runtime settings.
type options struct {
	ConfigDir   string
	Save        string
	Load        string
	Delete      string
	List        bool
	Stream      bool
	StatsCSV    string
	ResultsCSV  string
	LogToFile   bool
	TraceEvents bool
	Version     bool
}

// flagKeys maps flags onto the viper keys they override.
var flagKeys = map[string]string{
	"seed":       "sim.seed",
	"airports":   "sim.airports",
	"world":      "sim.worldFile",
	"hours":      "sim.hours",
	"step":       "sim.stepHours",
	"instances":  "sim.instances",
	"cash":       "sim.startingCash",
	"storage":    "storage.type",
	"save-dir":   "storage.memory.outputDir",
	"sqlite":     "storage.sqlite.path",
	"influx":     "influx.enabled",
	"stream-url": "stream.url",
	"log-level":  "logLevel",
	"log-format": "logFormat",
	"logs-dir":   "logsDir",
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("runways", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVar(&opts.ConfigDir, "config-dir", "", "directory holding "+config.ConfigFileName)
	fs.Uint64("seed", 1, "world seed; a batch uses seed, seed+1, ...")
	fs.Int("airports", 12, "number of generated airports")
	fs.String("world", "", "YAML world file instead of a generated world")
	fs.Uint64("hours", 24, "game hours to run")
	fs.Uint64("step", 1, "hours advanced per step")
	fs.Int("instances", 1, "number of games run as a batch")
	fs.Float64("cash", game.DefaultStartingCash, "starting cash")

	fs.String("storage", "memory", "save backend: memory, sqlite or postgres")
	fs.String("save-dir", "./saves", "directory of the memory backend")
	fs.String("sqlite", "", "sqlite database file")
	fs.StringVar(&opts.Save, "save", "", "save the game under this name when the run ends")
	fs.StringVar(&opts.Load, "load", "", "continue the saved game with this name")
	fs.StringVar(&opts.Delete, "delete", "", "delete the saved game with this name and exit")
	fs.BoolVar(&opts.List, "list", false, "list saved games and exit")

	fs.BoolVar(&opts.Stream, "stream", false, "stream observations to stream.url")
	fs.String("stream-url", "", "websocket URL of the observation feed")
	fs.Bool("influx", false, "export daily stats to InfluxDB")
	fs.StringVar(&opts.StatsCSV, "stats-csv", "", "write the daily stats of a single game to this CSV file")
	fs.StringVar(&opts.ResultsCSV, "results-csv", "", "write the results of a batch to this CSV file")

	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-format", "text", "text or json")
	fs.String("logs-dir", "./runwayslogs", "directory of the log file")
	fs.BoolVar(&opts.LogToFile, "log-file", false, "log to a file in logs-dir instead of stdout")
	fs.BoolVar(&opts.TraceEvents, "trace-events", false, "log every dispatched event")
	fs.BoolVar(&opts.Version, "version", false, "print the version and exit")
	return fs
}

// bindFlags lets changed flags override the config file.
func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func main() {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.Version {
		fmt.Printf("runways %s (built %s)\n", Version, BuildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, fs, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries everything set up once per run.
type app struct {
	opts    options
	out     io.Writer
	start   time.Time
	logs    *logging.SlogManager
	log     *slog.Logger
	zlog    zerolog.Logger
	otel    *intOtel.Provider
	logFile *os.File
}

func run(ctx context.Context, fs *pflag.FlagSet, opts options, out io.Writer) error {
	config.SetDefaults()
	if opts.ConfigDir != "" {
		if err := config.Load(opts.ConfigDir); err != nil {
			return err
		}
	}
	if err := bindFlags(fs); err != nil {
		return err
	}

	a := &app{opts: opts, out: out, start: time.Now()}
	if err := a.setupLogging(); err != nil {
		return err
	}
	defer a.shutdown()

	switch {
	case opts.List || opts.Delete != "":
		return a.manageSaves()
	case viper.GetInt("sim.instances") > 1 && opts.Load == "":
		return a.runBatch(ctx)
	default:
		return a.runSingle(ctx)
	}
}

func (a *app) setupLogging() error {
	var w io.Writer
	if a.opts.LogToFile {
		dir := viper.GetString("logsDir")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating logs dir: %w", err)
		}
		path := logging.LogFilePath(dir, "runways", a.start)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		w = f
	}

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    w,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	a.otel = provider

	a.logs = logging.NewSlogManager()
	a.logs.Setup(w, logging.Options{
		Level:    viper.GetString("logLevel"),
		Format:   viper.GetString("logFormat"),
		Provider: provider.LoggerProvider(),
	})
	a.log = a.logs.Logger()

	zw := w
	if zw == nil {
		zw = os.Stderr
	}
	level, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	a.zlog = zerolog.New(zw).Level(level).With().Timestamp().Str("service", provider.ServiceName()).Logger()

	a.log.Info("runways starting", "version", Version, "otel", provider.Enabled())
	return nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.otel.Shutdown(ctx); err != nil {
		a.log.Warn("otel shutdown failed", "error", err)
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func (a *app) gameOptions() []game.Option {
	opts := []game.Option{
		game.WithLogger(a.log),
		game.WithStartingCash(viper.GetFloat64("sim.startingCash")),
	}
	if a.opts.TraceEvents {
		opts = append(opts, game.WithEventLogger(logging.NewDispatcherLogger(a.zlog)))
	}
	return opts
}

// newGame builds a generated or configured world for seed.
func (a *app) newGame(seed uint64, world *config.WorldConfig) (*game.Game, error) {
	if world != nil {
		return game.FromConfig(seed, world, a.gameOptions()...)
	}
	return game.New(seed, viper.GetInt("sim.airports"), a.gameOptions()...)
}

func (a *app) loadWorld() (*config.WorldConfig, error) {
	path := viper.GetString("sim.worldFile")
	if path == "" {
		return nil, nil
	}
	return config.LoadWorld(path)
}

func (a *app) manageSaves() error {
	backend, err := openStorage(config.GetStorageConfig(), a.log, a.zlog)
	if err != nil {
		return err
	}
	defer backend.Close()

	if a.opts.Delete != "" {
		if err := backend.DeleteGame(a.opts.Delete); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "deleted %s\n", a.opts.Delete)
		return nil
	}
	saves, err := backend.ListGames()
	if err != nil {
		return err
	}
	printSaves(a.out, saves, time.Now())
	return nil
}

// steps splits hours into chunks of at most step.
func steps(hours, step uint64) []uint64 {
	if step == 0 {
		step = 1
	}
	var out []uint64
	for hours > 0 {
		n := min(step, hours)
		out = append(out, n)
		hours -= n
	}
	return out
}

func (a *app) runSingle(ctx context.Context) error {
	var backend storage.Backend
	if a.opts.Save != "" || a.opts.Load != "" {
		b, err := openStorage(config.GetStorageConfig(), a.log, a.zlog)
		if err != nil {
			return err
		}
		defer b.Close()
		backend = b
	}

	var g *game.Game
	var err error
	if a.opts.Load != "" {
		g, err = storage.Load(backend, a.opts.Load, a.gameOptions()...)
	} else {
		var world *config.WorldConfig
		if world, err = a.loadWorld(); err == nil {
			g, err = a.newGame(viper.GetUint64("sim.seed"), world)
		}
	}
	if err != nil {
		return err
	}

	var pub *stream.Publisher
	if a.opts.Stream {
		pub = stream.New(config.GetStreamConfig(), a.log)
		if err := pub.Init(); err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		defer pub.Close()
		if err := pub.StartGame(g); err != nil {
			return fmt.Errorf("stream: %w", err)
		}
	}

	interrupted := false
	for _, n := range steps(viper.GetUint64("sim.hours"), viper.GetUint64("sim.stepHours")) {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		g.Advance(n)
		msgs := g.DrainLog()
		for _, m := range msgs {
			a.log.Debug(m.Text, "hour", m.Time)
		}
		if pub != nil {
			if _, err := pub.Observe(g); err != nil {
				return err
			}
			if err := pub.Messages(msgs); err != nil {
				return err
			}
		}
	}
	if interrupted {
		a.log.Warn("run interrupted", "hour", g.Time())
	}

	if pub != nil {
		if err := pub.DailyStats(g.Stats()); err != nil {
			return err
		}
		if err := pub.EndGame(g); err != nil {
			a.log.Warn("stream end failed", "error", err)
		}
		a.log.Info("stream closed", "sent", pub.Sent(), "dropped", pub.Dropped())
	}

	runID := uuid.NewString()
	if a.opts.Save != "" {
		row, err := storage.Save(backend, a.opts.Save, g)
		if err != nil {
			return err
		}
		runID = row.UUID
		a.log.Info("game saved", "name", a.opts.Save, "uuid", row.UUID)
	}

	if viper.GetBool("influx.enabled") {
		if err := a.exportInflux(ctx, runID, g); err != nil {
			return err
		}
	}
	if a.opts.StatsCSV != "" {
		if err := writeStatsCSV(a.opts.StatsCSV, g.Stats()); err != nil {
			return err
		}
	}
	printReport(a.out, g)
	return nil
}

func (a *app) runBatch(ctx context.Context) error {
	world, err := a.loadWorld()
	if err != nil {
		return err
	}
	first := viper.GetUint64("sim.seed")
	n := viper.GetInt("sim.instances")
	games := make([]*game.Game, 0, n)
	for i := range n {
		g, err := a.newGame(first+uint64(i), world)
		if err != nil {
			return fmt.Errorf("seed %d: %w", first+uint64(i), err)
		}
		games = append(games, g)
	}
	b := batch.Of(games...)

	start := time.Now()
	for _, h := range steps(viper.GetUint64("sim.hours"), viper.GetUint64("sim.stepHours")) {
		if err := b.StepAll(ctx, h); err != nil {
			return err
		}
	}
	a.log.Info("batch finished", "games", b.Len(), "elapsed", time.Since(start))

	if a.opts.Save != "" {
		backend, err := openStorage(config.GetStorageConfig(), a.log, a.zlog)
		if err != nil {
			return err
		}
		defer backend.Close()
		for i := range b.Len() {
			g := b.Game(i)
			if _, err := storage.Save(backend, fmt.Sprintf("%s-%d", a.opts.Save, g.Seed()), g); err != nil {
				return err
			}
		}
	}
	if viper.GetBool("influx.enabled") {
		for i := range b.Len() {
			if err := a.exportInflux(ctx, uuid.NewString(), b.Game(i)); err != nil {
				return err
			}
		}
	}

	results := b.Results()
	if a.opts.ResultsCSV != "" {
		if err := writeResultsCSV(a.opts.ResultsCSV, results); err != nil {
			return err
		}
	}
	printResults(a.out, results)
	return nil
}

func (a *app) exportInflux(ctx context.Context, runID string, g *game.Game) error {
	m := influx.NewManager(a.zlog, viper.GetString("influx.backupPath"))
	if err := m.Connect(ctx); err != nil {
		return fmt.Errorf("influx: %w", err)
	}
	defer m.Close()

	if err := m.WriteStats(runID, g.Seed(), g.Stats(), a.start); err != nil {
		return err
	}
	return m.WritePoint(influx.FleetPoint(runID, g.Observe(), a.start))
}
