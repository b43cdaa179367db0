package events

import (
	"encoding/json"
	"time"

	"github.com/mcdev12/halftimer/go/internal/models"
)

// Event types shared between the relay, the gateway and viewer
// clients.

// TimerEventType identifies a timer change event on the bus and on the
// WebSocket wire.
type TimerEventType string

const (
	// TimerSet announces a newly recorded halftime start.
	TimerSet TimerEventType = "timer_set"
	// TimerCleared announces a removed halftime record.
	TimerCleared TimerEventType = "timer_cleared"
	// TimerSync carries a full snapshot of the store. Emitted on
	// subscribe and periodically so consumers converge even if an
	// individual notification was missed.
	TimerSync TimerEventType = "timer_sync"
)

// Envelope is the wire format for all timer events.
type Envelope struct {
	EventID   string          `json:"event_id"`
	Type      TimerEventType  `json:"type"`
	GameID    string          `json:"game_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// TimerSetPayload is the payload for a TimerSet event.
type TimerSetPayload struct {
	GameID         string `json:"game_id"`
	StartTimestamp int64  `json:"halftime_start_timestamp"`
}

// TimerClearedPayload is the payload for a TimerCleared event.
type TimerClearedPayload struct {
	GameID string `json:"game_id"`
}

// TimerSyncPayload is the payload for a TimerSync event.
type TimerSyncPayload struct {
	Records []models.HalftimeRecord `json:"records"`
}
