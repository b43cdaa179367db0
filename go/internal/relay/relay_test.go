package relay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mcdev12/halftimer/go/internal/events"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/mcdev12/halftimer/go/internal/timerstore"
)

type fakePublisher struct {
	published []events.Envelope
	failures  int
}

func (p *fakePublisher) Publish(ctx context.Context, env events.Envelope) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, env)
	return nil
}

type fakeSnapshotSource struct {
	records []models.HalftimeRecord
}

func (s *fakeSnapshotSource) ListAll(ctx context.Context) ([]models.HalftimeRecord, error) {
	return s.records, nil
}

func TestEnvelopeForChange(t *testing.T) {
	t.Run("insert becomes timer_set", func(t *testing.T) {
		env, err := envelopeForChange(timerstore.ChangeEvent{
			Op: timerstore.OpSet, GameID: "g1", StartTimestamp: 1712000000000,
		})
		if err != nil {
			t.Fatalf("envelopeForChange: %v", err)
		}
		if env.Type != events.TimerSet || env.GameID != "g1" || env.EventID == "" {
			t.Errorf("envelope = %+v", env)
		}

		var payload events.TimerSetPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.GameID != "g1" || payload.StartTimestamp != 1712000000000 {
			t.Errorf("payload = %+v", payload)
		}
	})

	t.Run("delete becomes timer_cleared", func(t *testing.T) {
		env, err := envelopeForChange(timerstore.ChangeEvent{
			Op: timerstore.OpClear, GameID: "g1",
		})
		if err != nil {
			t.Fatalf("envelopeForChange: %v", err)
		}
		if env.Type != events.TimerCleared || env.GameID != "g1" {
			t.Errorf("envelope = %+v", env)
		}
	})

	t.Run("unknown op rejected", func(t *testing.T) {
		if _, err := envelopeForChange(timerstore.ChangeEvent{Op: "TRUNCATE", GameID: "g1"}); err == nil {
			t.Error("unknown op accepted")
		}
	})
}

func TestPublishWithRetryRecovers(t *testing.T) {
	publisher := &fakePublisher{failures: 2}
	r := New(nil, nil, publisher, Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	env := events.Envelope{EventID: "evt-1", Type: events.TimerSet}
	if err := r.publishWithRetry(context.Background(), env); err != nil {
		t.Fatalf("publishWithRetry: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Errorf("published %d envelopes, want 1", len(publisher.published))
	}
}

func TestPublishWithRetryGivesUp(t *testing.T) {
	publisher := &fakePublisher{failures: 10}
	r := New(nil, nil, publisher, Config{MaxRetries: 2, RetryDelay: time.Millisecond})

	env := events.Envelope{EventID: "evt-1", Type: events.TimerSet}
	if err := r.publishWithRetry(context.Background(), env); err == nil {
		t.Error("exhausted retries reported success")
	}
}

func TestPublishSyncCarriesFullSnapshot(t *testing.T) {
	publisher := &fakePublisher{}
	store := &fakeSnapshotSource{records: []models.HalftimeRecord{
		{GameID: "g1", StartTimestamp: 1000},
		{GameID: "g2", StartTimestamp: 2000},
	}}
	r := New(nil, store, publisher, DefaultConfig())

	if err := r.publishSync(context.Background()); err != nil {
		t.Fatalf("publishSync: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("published %d envelopes, want 1", len(publisher.published))
	}

	env := publisher.published[0]
	if env.Type != events.TimerSync {
		t.Errorf("type = %s, want %s", env.Type, events.TimerSync)
	}
	var payload events.TimerSyncPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Records) != 2 {
		t.Errorf("snapshot has %d records, want 2", len(payload.Records))
	}
}
