package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/runwaysim/runways/internal/channel"
)

const (
	sendChSize   = 1024
	ackChSize    = 16
	maxReconnect = 5
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
	ackTimeout   = 10 * time.Second
)

// link is one dialled socket. Its loops stop when lost is closed, so a
// reconnect never leaves two writers on the send queue.
type link struct {
	conn *ws.Conn
	lost chan struct{}
	wmu  sync.Mutex // gorilla allows one concurrent writer
}

func newLink(conn *ws.Conn) *link {
	return &link{conn: conn, lost: make(chan struct{})}
}

func (l *link) write(messageType int, data []byte) error {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if err := l.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return l.conn.WriteMessage(messageType, data)
}

// connection owns the socket and its single write goroutine.
type connection struct {
	mu         sync.Mutex
	link       *link
	sendCh     channel.Channel[[]byte]
	ackCh      chan AckMessage
	done       chan struct{} // closed on shutdown
	closed     bool
	reconnects int

	wsURL  string
	secret string

	// start_game is replayed after a reconnect
	cachedStart []byte
	backoff     time.Duration

	logger *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		sendCh:  channel.New[[]byte](sendChSize),
		ackCh:   make(chan AckMessage, ackChSize),
		done:    make(chan struct{}),
		backoff: time.Second,
		logger:  logger,
	}
}

func (c *connection) dial(rawURL, secret string) error {
	c.wsURL = rawURL
	c.secret = secret

	conn, err := c.dialOnce()
	if err != nil {
		return err
	}

	l := newLink(conn)
	c.mu.Lock()
	c.link = l
	c.mu.Unlock()

	c.start(l)
	return nil
}

func (c *connection) start(l *link) {
	go c.writeLoop(l)
	go c.readLoop(l)
}

// dialOnce performs a single dial with the secret query param.
func (c *connection) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	if c.secret != "" {
		q := u.Query()
		q.Set("secret", c.secret)
		u.RawQuery = q.Encode()
	}

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

func (c *connection) writeLoop(l *link) {
	for {
		select {
		case <-c.done:
			return
		case <-l.lost:
			return
		case data := <-c.sendCh.Receive():
			if err := l.write(ws.TextMessage, data); err != nil {
				c.logger.Warn("websocket write error", "error", err)
				c.lose(l)
				return
			}
		}
	}
}

// readLoop routes acks to ackCh and ignores anything else.
func (c *connection) readLoop(l *link) {
	for {
		_, message, err := l.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			case <-l.lost:
				return
			default:
			}
			c.logger.Warn("websocket read error", "error", err)
			c.lose(l)
			return
		}

		var ack AckMessage
		if err := json.Unmarshal(message, &ack); err != nil || ack.Type != "ack" {
			c.logger.Debug("non-ack message received", "raw", string(message))
			continue
		}
		select {
		case c.ackCh <- ack:
		default:
			c.logger.Debug("ack channel full, dropping", "for", ack.For)
		}
	}
}

// lose retires l and starts a reconnect. Only the first loop of a link to
// fail gets here with l still current; later calls are no-ops.
func (c *connection) lose(l *link) {
	c.mu.Lock()
	if c.closed || c.link != l {
		c.mu.Unlock()
		return
	}
	c.link = nil
	close(l.lost)
	c.mu.Unlock()

	_ = l.conn.Close()
	go c.reconnect()
}

// reconnect redials with exponential backoff, replays start_game and
// restarts both loops on the new link.
func (c *connection) reconnect() {
	c.mu.Lock()
	backoff := c.backoff
	c.mu.Unlock()

	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		conn, err := c.dialOnce()
		if err != nil {
			c.logger.Warn("reconnect failed", "attempt", attempt, "error", err)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		cached := c.cachedStart
		c.mu.Unlock()

		if cached != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(ws.TextMessage, cached); err != nil {
				c.logger.Warn("start_game replay failed", "error", err)
				_ = conn.Close()
				continue
			}
		}

		l := newLink(conn)
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.link = l
		c.reconnects++
		c.mu.Unlock()

		c.logger.Info("websocket reconnected", "attempt", attempt)
		c.start(l)
		return
	}
	c.logger.Error("websocket reconnect gave up", "attempts", maxReconnect)
}

// reconnectCount reports how many times a lost socket was replaced.
func (c *connection) reconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnects
}

// send queues data for the write loop and reports whether it fit.
func (c *connection) send(data []byte) bool {
	if c.sendCh.TrySend(data) {
		return true
	}
	c.logger.Warn("websocket send channel full, dropping message")
	return false
}

// sendAndWait sends data and blocks until the matching ack arrives.
func (c *connection) sendAndWait(data []byte, ackFor string, timeout time.Duration) error {
	if !c.send(data) {
		return fmt.Errorf("send queue full for %q", ackFor)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ack := <-c.ackCh:
			if ack.For == ackFor {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close sends a close frame and stops both loops.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	l := c.link
	c.link = nil
	c.mu.Unlock()

	if l == nil {
		return nil
	}
	_ = l.write(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
	return l.conn.Close()
}
