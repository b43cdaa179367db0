package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/halftimer/go/internal/events"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/rs/zerolog/log"
)

// TimerReader reads the current store state for initial snapshots and
// the REST surface.
type TimerReader interface {
	ListAll(ctx context.Context) ([]models.HalftimeRecord, error)
}

// WebSocketHandler handles viewer WebSocket upgrade requests.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	timers            TimerReader
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(cm *ConnectionManager, timers TimerReader) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		timers:            timers,
	}
}

// HandleViewerConnection upgrades a viewer connection and seeds it with
// a full timer snapshot, so the client mirror is populated before any
// incremental event arrives.
func (h *WebSocketHandler) HandleViewerConnection(w http.ResponseWriter, r *http.Request) {
	initial, err := h.snapshotEnvelope(r.Context())
	if err != nil {
		// A viewer without a snapshot still converges from the
		// periodic sync event; log and continue.
		log.Error().Err(err).Msg("failed to build initial snapshot")
	}

	if err := h.connectionManager.UpgradeConnection(w, r, initial); err != nil {
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

func (h *WebSocketHandler) snapshotEnvelope(ctx context.Context) (*events.Envelope, error) {
	records, err := h.timers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list timers: %w", err)
	}

	payload, err := json.Marshal(events.TimerSyncPayload{Records: records})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return &events.Envelope{
		EventID:   uuid.New().String(),
		Type:      events.TimerSync,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}, nil
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int{
		"total_connections": h.connectionManager.ConnectionCount(),
	})
}

// RegisterRoutes registers WebSocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/timers", h.HandleViewerConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
