package mirror_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mcdev12/halftimer/go/internal/events"
	"github.com/mcdev12/halftimer/go/internal/mirror"
	"github.com/mcdev12/halftimer/go/internal/models"
)

func envelope(t *testing.T, eventType events.TimerEventType, gameID string, payload any) events.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return events.Envelope{
		EventID:   "evt-1",
		Type:      eventType,
		GameID:    gameID,
		Timestamp: time.Now(),
		Payload:   data,
	}
}

func TestMirrorNotReadyUntilSnapshot(t *testing.T) {
	m := mirror.New()
	if m.Ready() {
		t.Fatal("fresh mirror reports ready")
	}

	env := envelope(t, events.TimerSync, "", events.TimerSyncPayload{
		Records: []models.HalftimeRecord{{GameID: "g1", StartTimestamp: 1000}},
	})
	if err := m.ApplyEnvelope(env); err != nil {
		t.Fatalf("ApplyEnvelope: %v", err)
	}

	if !m.Ready() {
		t.Error("mirror not ready after snapshot")
	}
	if ts, ok := m.Lookup("g1"); !ok || ts != 1000 {
		t.Errorf("Lookup(g1) = (%d, %v), want (1000, true)", ts, ok)
	}
}

func TestMirrorSetAndClear(t *testing.T) {
	m := mirror.New()

	set := envelope(t, events.TimerSet, "g1", events.TimerSetPayload{GameID: "g1", StartTimestamp: 5000})
	if err := m.ApplyEnvelope(set); err != nil {
		t.Fatalf("apply set: %v", err)
	}
	if ts, ok := m.Lookup("g1"); !ok || ts != 5000 {
		t.Fatalf("Lookup(g1) = (%d, %v), want (5000, true)", ts, ok)
	}

	clear := envelope(t, events.TimerCleared, "g1", events.TimerClearedPayload{GameID: "g1"})
	if err := m.ApplyEnvelope(clear); err != nil {
		t.Fatalf("apply clear: %v", err)
	}
	if _, ok := m.Lookup("g1"); ok {
		t.Error("record survived clear")
	}
}

func TestMirrorDuplicateDeliveryIsIdempotent(t *testing.T) {
	m := mirror.New()

	set := envelope(t, events.TimerSet, "g1", events.TimerSetPayload{GameID: "g1", StartTimestamp: 5000})
	for i := 0; i < 3; i++ {
		if err := m.ApplyEnvelope(set); err != nil {
			t.Fatalf("apply set #%d: %v", i+1, err)
		}
	}
	if m.Len() != 1 {
		t.Errorf("len = %d after duplicate sets, want 1", m.Len())
	}

	clear := envelope(t, events.TimerCleared, "g1", events.TimerClearedPayload{GameID: "g1"})
	for i := 0; i < 3; i++ {
		if err := m.ApplyEnvelope(clear); err != nil {
			t.Fatalf("apply clear #%d: %v", i+1, err)
		}
	}
	if m.Len() != 0 {
		t.Errorf("len = %d after duplicate clears, want 0", m.Len())
	}
}

func TestMirrorSyncReplacesState(t *testing.T) {
	// A snapshot overrides whatever the mirror accumulated, healing any
	// missed notification.
	m := mirror.New()
	m.Set("stale", 1)
	m.Set("g1", 2)

	sync := envelope(t, events.TimerSync, "", events.TimerSyncPayload{
		Records: []models.HalftimeRecord{
			{GameID: "g1", StartTimestamp: 2},
			{GameID: "g2", StartTimestamp: 3},
		},
	})
	if err := m.ApplyEnvelope(sync); err != nil {
		t.Fatalf("apply sync: %v", err)
	}

	if _, ok := m.Lookup("stale"); ok {
		t.Error("record missing from snapshot survived sync")
	}
	if ts, ok := m.Lookup("g2"); !ok || ts != 3 {
		t.Errorf("Lookup(g2) = (%d, %v), want (3, true)", ts, ok)
	}
	if m.Len() != 2 {
		t.Errorf("len = %d, want 2", m.Len())
	}
}

func TestMirrorRejectsUnknownEventType(t *testing.T) {
	m := mirror.New()
	env := events.Envelope{EventID: "evt-1", Type: "timer_exploded", Payload: []byte(`{}`)}
	if err := m.ApplyEnvelope(env); err == nil {
		t.Error("unknown event type accepted")
	}
}
