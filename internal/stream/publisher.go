// Package stream publishes observation snapshots of a running game to a
// websocket server. Observations are rate limited and dropped, not
// queued, once the limit is hit: each one supersedes the last.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/runwaysim/runways/internal/config"
	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/pkg/core"
	"golang.org/x/time/rate"
)

// Publisher streams one game's progress.
type Publisher struct {
	conn    *connection
	cfg     config.StreamConfig
	limiter *rate.Limiter

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// New creates a publisher. A non-positive rate disables limiting.
func New(cfg config.StreamConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Publisher{
		conn:    newConnection(logger.With("component", "stream")),
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Init connects to the server.
func (p *Publisher) Init() error {
	if p.cfg.URL == "" {
		return fmt.Errorf("stream URL not configured")
	}
	return p.conn.dial(p.cfg.URL, p.cfg.Secret)
}

// Close disconnects from the server.
func (p *Publisher) Close() error {
	return p.conn.close()
}

// Sent is the number of messages handed to the write loop.
func (p *Publisher) Sent() uint64 { return p.sent.Load() }

// Dropped is the number of observations skipped by the limiter or a
// full send queue.
func (p *Publisher) Dropped() uint64 { return p.dropped.Load() }

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

func (p *Publisher) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	if !p.conn.send(data) {
		p.dropped.Add(1)
		return nil
	}
	p.sent.Add(1)
	return nil
}

// StartGame announces g and waits for the server's ack.
func (p *Publisher) StartGame(g *game.Game) error {
	data, err := marshalEnvelope(TypeStartGame, StartGamePayload{
		Seed:        g.Seed(),
		Gameplay:    g.Gameplay(),
		Observation: g.Observe(),
	})
	if err != nil {
		return err
	}

	p.conn.mu.Lock()
	p.conn.cachedStart = data
	p.conn.mu.Unlock()

	if err := p.conn.sendAndWait(data, TypeStartGame, ackTimeout); err != nil {
		return err
	}
	p.sent.Add(1)
	return nil
}

// Observe publishes the current view of g unless the limiter says no.
// It reports whether the observation was sent.
func (p *Publisher) Observe(g *game.Game) (bool, error) {
	if !p.limiter.Allow() {
		p.dropped.Add(1)
		return false, nil
	}
	before := p.dropped.Load()
	if err := p.sendEnvelope(TypeObservation, g.Observe()); err != nil {
		return false, err
	}
	return p.dropped.Load() == before, nil
}

// DailyStats publishes closed days. They bypass the limiter.
func (p *Publisher) DailyStats(stats []core.DailyStats) error {
	if len(stats) == 0 {
		return nil
	}
	return p.sendEnvelope(TypeDailyStats, stats)
}

// Messages publishes drained log lines.
func (p *Publisher) Messages(msgs []game.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return p.sendEnvelope(TypeMessages, msgs)
}

// EndGame closes the run on the server and waits for the ack.
func (p *Publisher) EndGame(g *game.Game) error {
	data, err := marshalEnvelope(TypeEndGame, EndGamePayload{Seed: g.Seed(), Time: g.Time(), Cash: g.Cash()})
	if err != nil {
		return err
	}
	err = p.conn.sendAndWait(data, TypeEndGame, ackTimeout)

	p.conn.mu.Lock()
	p.conn.cachedStart = nil
	p.conn.mu.Unlock()
	if err == nil {
		p.sent.Add(1)
	}
	return err
}
