package stream

import (
	"encoding/json"

	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/pkg/core"
)

// Message types of the observation feed.
const (
	TypeStartGame   = "start_game"
	TypeEndGame     = "end_game"
	TypeObservation = "observation"
	TypeDailyStats  = "daily_stats"
	TypeMessages    = "messages"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartGamePayload announces a run and its opening state.
type StartGamePayload struct {
	Seed        uint64           `json:"seed"`
	Gameplay    core.Gameplay    `json:"gameplay"`
	Observation game.Observation `json:"observation"`
}

// EndGamePayload closes a run.
type EndGamePayload struct {
	Seed uint64        `json:"seed"`
	Time core.GameTime `json:"time"`
	Cash float64       `json:"cash"`
}
