package models

import "time"

// HalftimeRecord is the shared-store row marking when halftime began
// for a game. The timestamp is epoch milliseconds and is immutable once
// written; the record is deleted when the game leaves halftime.
type HalftimeRecord struct {
	GameID         string `json:"game_id"`
	StartTimestamp int64  `json:"halftime_start_timestamp"`
}

// StartTime returns the start timestamp as a time.Time.
func (r HalftimeRecord) StartTime() time.Time {
	return time.UnixMilli(r.StartTimestamp)
}
