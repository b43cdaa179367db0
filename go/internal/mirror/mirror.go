package mirror

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mcdev12/halftimer/go/internal/events"
	"github.com/rs/zerolog/log"
)

// Mirror is a process-local copy of the shared timer store, maintained
// from an initial snapshot plus change events. It is read-only with
// respect to the store: nothing here ever writes back.
//
// Events may arrive more than once or out of order across keys; set
// and clear are idempotent and a sync event replaces the whole map, so
// the mirror converges regardless.
type Mirror struct {
	mu     sync.RWMutex
	timers map[string]int64
	ready  bool
}

// New creates an empty, not-yet-ready mirror.
func New() *Mirror {
	return &Mirror{
		timers: make(map[string]int64),
	}
}

// Ready reports whether the mirror has received its initial snapshot.
// Until then a missing game cannot be distinguished from a not-yet-
// loaded one, and countdown trackers stay in their waiting state.
func (m *Mirror) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Lookup returns the halftime start timestamp for a game, if mirrored.
func (m *Mirror) Lookup(gameID string) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts, ok := m.timers[gameID]
	return ts, ok
}

// Len returns the number of mirrored records.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.timers)
}

// ApplyEnvelope folds one timer event into the mirror.
func (m *Mirror) ApplyEnvelope(env events.Envelope) error {
	switch env.Type {
	case events.TimerSet:
		var payload events.TimerSetPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode timer_set payload: %w", err)
		}
		m.Set(payload.GameID, payload.StartTimestamp)
	case events.TimerCleared:
		var payload events.TimerClearedPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode timer_cleared payload: %w", err)
		}
		m.Clear(payload.GameID)
	case events.TimerSync:
		var payload events.TimerSyncPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode timer_sync payload: %w", err)
		}
		snapshot := make(map[string]int64, len(payload.Records))
		for _, record := range payload.Records {
			snapshot[record.GameID] = record.StartTimestamp
		}
		m.ReplaceAll(snapshot)
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}
	return nil
}

// Set records a halftime start timestamp.
func (m *Mirror) Set(gameID string, startTimestamp int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[gameID] = startTimestamp
	log.Debug().Str("game_id", gameID).Int64("start", startTimestamp).Msg("mirror set")
}

// Clear removes a game's record.
func (m *Mirror) Clear(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, gameID)
	log.Debug().Str("game_id", gameID).Msg("mirror cleared")
}

// ReplaceAll swaps in a full snapshot and marks the mirror ready.
func (m *Mirror) ReplaceAll(snapshot map[string]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = make(map[string]int64, len(snapshot))
	for gameID, ts := range snapshot {
		m.timers[gameID] = ts
	}
	m.ready = true
	log.Debug().Int("records", len(snapshot)).Msg("mirror replaced from snapshot")
}
