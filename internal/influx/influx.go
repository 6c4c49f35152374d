// Package influx exports the daily statistics of a run as InfluxDB points.
// When the server is unreachable the points go to a gzip line-protocol
// backup file instead.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/pkg/core"
	"github.com/spf13/viper"
)

// Measurement names.
const (
	MeasurementDailyStats = "daily_stats"
	MeasurementFleet      = "fleet"
)

// retention of the stats bucket
const retentionSeconds = 60 * 60 * 24 * 90

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Bucket       string
	Logger       zerolog.Logger
	BackupPath   string

	backupFile *os.File
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Bucket:     viper.GetString("influx.bucket"),
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB, opening the backup file
// if the server does not answer.
func (m *Manager) Connect(ctx context.Context) error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Str("backupPath", m.BackupPath).
			Msg("InfluxDB not reachable, writing to backup file")
		return m.openBackup()
	}

	if err := m.setupBucket(ctx); err != nil {
		return err
	}
	m.Writer = m.Client.WriteAPI(viper.GetString("influx.org"), m.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.Bucket).Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())

	m.IsValid = true
	m.Logger.Info().Str("bucket", m.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	if m.BackupWriter != nil {
		return nil
	}
	if m.BackupPath == "" {
		return errors.New("no influx backup path configured")
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupBucket(ctx context.Context) error {
	orgName := viper.GetString("influx.org")

	org, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		org, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			return fmt.Errorf("creating organization %q: %w", orgName, err)
		}
	}

	if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, m.Bucket); err == nil {
		return nil
	}
	m.Logger.Info().Str("bucket", m.Bucket).Msg("Bucket not found, creating")
	rule := domain.RetentionRuleTypeExpire
	_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, m.Bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: retentionSeconds,
	})
	if err != nil {
		return fmt.Errorf("creating bucket %q: %w", m.Bucket, err)
	}
	return nil
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}
	if m.BackupWriter == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	// line protocol output is already newline terminated
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// HourTime maps a game hour onto wall time, counting from epoch.
func HourTime(epoch time.Time, t core.GameTime) time.Time {
	return epoch.Add(time.Duration(t) * time.Hour)
}

// StatsPoint builds the point of one closed day. The timestamp is the end
// of that day.
func StatsPoint(runID string, seed uint64, s core.DailyStats, epoch time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		MeasurementDailyStats,
		map[string]string{
			"run":  runID,
			"seed": fmt.Sprintf("%d", seed),
		},
		map[string]any{
			"day":        int64(s.Day),
			"income":     s.Income,
			"expenses":   s.Expenses,
			"net_cash":   s.NetCash,
			"fleet_size": s.FleetSize,
			"deliveries": s.Deliveries,
			"departures": s.Departures,
		},
		HourTime(epoch, core.GameTime(s.Day+1)*core.HoursPerDay),
	)
}

// FleetPoint summarises an observation: cash and plane counts by status.
func FleetPoint(runID string, obs game.Observation, epoch time.Time) *influxdb2_write.Point {
	fields := map[string]any{
		"cash":   obs.Cash,
		"planes": len(obs.Planes),
	}
	for _, p := range obs.Planes {
		key := "status_" + p.Status.String()
		n, _ := fields[key].(int)
		fields[key] = n + 1
	}
	return influxdb2.NewPoint(
		MeasurementFleet,
		map[string]string{
			"run":  runID,
			"seed": fmt.Sprintf("%d", obs.Seed),
		},
		fields,
		HourTime(epoch, obs.Time),
	)
}

// WriteStats writes every day of stats.
func (m *Manager) WriteStats(runID string, seed uint64, stats []core.DailyStats, epoch time.Time) error {
	for _, s := range stats {
		if err := m.WritePoint(StatsPoint(runID, seed, s, epoch)); err != nil {
			return err
		}
	}
	m.Logger.Debug().Str("run", runID).Int("days", len(stats)).Msg("Wrote daily stats")
	return nil
}

// Close flushes pending writes and closes the client or backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		if err := m.BackupWriter.Close(); err != nil {
			return fmt.Errorf("closing backup writer: %w", err)
		}
		m.BackupWriter = nil
	}
	if m.backupFile != nil {
		err := m.backupFile.Close()
		m.backupFile = nil
		return err
	}
	return nil
}
