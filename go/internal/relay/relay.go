package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/halftimer/go/internal/events"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/mcdev12/halftimer/go/internal/timerstore"
	"github.com/rs/zerolog/log"
)

// Publisher is the bus side of the relay.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// SnapshotSource reads the full store state for periodic sync events.
type SnapshotSource interface {
	ListAll(ctx context.Context) ([]models.HalftimeRecord, error)
}

// Config holds relay settings.
type Config struct {
	SyncInterval time.Duration // how often to publish a full snapshot
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		SyncInterval: time.Minute,
		MaxRetries:   3,
		RetryDelay:   200 * time.Millisecond,
	}
}

// Relay pumps store change notifications onto the event bus, and
// periodically publishes a full snapshot so consumers converge even if
// a notification was missed. Delivery is at-least-once.
type Relay struct {
	changes   <-chan timerstore.ChangeEvent
	store     SnapshotSource
	publisher Publisher
	cfg       Config
}

// New creates a relay over a store change stream.
func New(changes <-chan timerstore.ChangeEvent, store SnapshotSource, publisher Publisher, cfg Config) *Relay {
	return &Relay{
		changes:   changes,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Start runs the relay until ctx is cancelled or the change stream
// closes.
func (r *Relay) Start(ctx context.Context) error {
	log.Info().
		Dur("sync_interval", r.cfg.SyncInterval).
		Msg("timer relay started")

	syncTicker := time.NewTicker(r.cfg.SyncInterval)
	defer syncTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("timer relay shutting down")
			return nil
		case change, ok := <-r.changes:
			if !ok {
				return fmt.Errorf("store change stream closed")
			}
			if err := r.publishChange(ctx, change); err != nil {
				log.Error().Err(err).Str("game_id", change.GameID).Msg("failed to publish change event")
			}
		case <-syncTicker.C:
			if err := r.publishSync(ctx); err != nil {
				log.Error().Err(err).Msg("failed to publish sync event")
			}
		}
	}
}

func (r *Relay) publishChange(ctx context.Context, change timerstore.ChangeEvent) error {
	env, err := envelopeForChange(change)
	if err != nil {
		return err
	}
	return r.publishWithRetry(ctx, env)
}

func (r *Relay) publishSync(ctx context.Context) error {
	records, err := r.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	payload, err := json.Marshal(events.TimerSyncPayload{Records: records})
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	env := events.Envelope{
		EventID:   uuid.New().String(),
		Type:      events.TimerSync,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	return r.publishWithRetry(ctx, env)
}

func envelopeForChange(change timerstore.ChangeEvent) (events.Envelope, error) {
	var (
		eventType events.TimerEventType
		payload   any
	)
	switch change.Op {
	case timerstore.OpSet:
		eventType = events.TimerSet
		payload = events.TimerSetPayload{
			GameID:         change.GameID,
			StartTimestamp: change.StartTimestamp,
		}
	case timerstore.OpClear:
		eventType = events.TimerCleared
		payload = events.TimerClearedPayload{GameID: change.GameID}
	default:
		return events.Envelope{}, fmt.Errorf("unknown change op %q", change.Op)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return events.Envelope{}, fmt.Errorf("failed to marshal change payload: %w", err)
	}

	return events.Envelope{
		EventID:   uuid.New().String(),
		Type:      eventType,
		GameID:    change.GameID,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}, nil
}

// publishWithRetry attempts to publish an envelope with a linear
// backoff between attempts.
func (r *Relay) publishWithRetry(ctx context.Context, env events.Envelope) error {
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := r.publisher.Publish(ctx, env); err != nil {
			lastErr = err
			log.Error().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", env.EventID).
				Msg("failed to publish, retrying")
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to publish after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}
