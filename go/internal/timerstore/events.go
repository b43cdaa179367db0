package timerstore

import (
	"encoding/json"
	"fmt"
)

// ChangeOp is the kind of store mutation carried by a change event.
type ChangeOp string

const (
	// OpSet is emitted when a halftime record is inserted.
	OpSet ChangeOp = "INSERT"
	// OpClear is emitted when a halftime record is deleted.
	OpClear ChangeOp = "DELETE"
)

// ChangeEvent is one mutation of the halftime_timers table, as carried
// on the Postgres NOTIFY channel and replayed to every subscriber.
// Delivery is at-least-once; applying the same event twice is harmless.
type ChangeEvent struct {
	Op             ChangeOp `json:"op"`
	GameID         string   `json:"game_id"`
	StartTimestamp int64    `json:"halftime_start_timestamp"`
}

// DecodeChangeEvent parses a NOTIFY payload into a ChangeEvent.
func DecodeChangeEvent(payload string) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return ChangeEvent{}, fmt.Errorf("failed to decode change event: %w", err)
	}
	if event.Op != OpSet && event.Op != OpClear {
		return ChangeEvent{}, fmt.Errorf("unknown change op %q", event.Op)
	}
	if event.GameID == "" {
		return ChangeEvent{}, fmt.Errorf("change event missing game_id")
	}
	return event, nil
}
