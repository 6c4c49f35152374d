package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the runtime settings file looked up in the config dir.
const ConfigFileName = "runways.cfg.json"

// MemoryConfig holds file-backed save storage settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite save storage settings. An empty Path keeps the
// database in memory; DumpPath, if set, receives a copy on close.
type SQLiteConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// StorageConfig selects and configures the save storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// StreamConfig holds the observation websocket settings.
type StreamConfig struct {
	URL           string
	Secret        string
	RatePerSecond float64
	Burst         int
}

// SimConfig holds the defaults for a new simulation.
type SimConfig struct {
	Seed         uint64
	Airports     int
	StartingCash float64
	WorldFile    string
	Instances    int
	Hours        uint64
	StepHours    uint64
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers every default value. Load calls it; callers that
// run without a config file call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./runwayslogs")
	viper.SetDefault("logFormat", "text")

	viper.SetDefault("sim.seed", 1)
	viper.SetDefault("sim.airports", 12)
	viper.SetDefault("sim.startingCash", 1_000_000)
	viper.SetDefault("sim.worldFile", "")
	viper.SetDefault("sim.instances", 1)
	viper.SetDefault("sim.hours", 24)
	viper.SetDefault("sim.stepHours", 1)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./saves")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "runways")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "runways")
	viper.SetDefault("influx.bucket", "runways_stats")
	viper.SetDefault("influx.backupPath", "./runways_stats.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "runways")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("stream.url", "")
	viper.SetDefault("stream.secret", "")
	viper.SetDefault("stream.ratePerSecond", 10.0)
	viper.SetDefault("stream.burst", 5)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			DumpPath: viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetStreamConfig returns the observation stream section.
func GetStreamConfig() StreamConfig {
	return StreamConfig{
		URL:           viper.GetString("stream.url"),
		Secret:        viper.GetString("stream.secret"),
		RatePerSecond: viper.GetFloat64("stream.ratePerSecond"),
		Burst:         viper.GetInt("stream.burst"),
	}
}

// GetSimConfig returns the simulation section.
func GetSimConfig() SimConfig {
	return SimConfig{
		Seed:         viper.GetUint64("sim.seed"),
		Airports:     viper.GetInt("sim.airports"),
		StartingCash: viper.GetFloat64("sim.startingCash"),
		WorldFile:    viper.GetString("sim.worldFile"),
		Instances:    viper.GetInt("sim.instances"),
		Hours:        viper.GetUint64("sim.hours"),
		StepHours:    viper.GetUint64("sim.stepHours"),
	}
}
