package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcdev12/halftimer/go/internal/cache"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/rs/zerolog/log"
)

// GameReader serves cached scoreboard snapshots.
type GameReader interface {
	ReadGames(ctx context.Context, sportKey string) ([]models.Game, error)
}

// RESTHandler serves the read-only HTTP API: current timers and cached
// game lists.
type RESTHandler struct {
	timers TimerReader
	games  GameReader
}

// NewRESTHandler creates the REST handler.
func NewRESTHandler(timers TimerReader, games GameReader) *RESTHandler {
	return &RESTHandler{
		timers: timers,
		games:  games,
	}
}

// HandleListTimers returns every current halftime record.
func (h *RESTHandler) HandleListTimers(w http.ResponseWriter, r *http.Request) {
	records, err := h.timers.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list timers")
		http.Error(w, "failed to list timers", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.HalftimeRecord{}
	}

	writeJSON(w, map[string]any{"timers": records})
}

// HandleListGames returns the cached game list for one sport.
func (h *RESTHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	sportKey := strings.TrimPrefix(r.URL.Path, "/api/games/")
	if sportKey == "" || strings.Contains(sportKey, "/") {
		http.Error(w, "sport is required", http.StatusBadRequest)
		return
	}

	games, err := h.games.ReadGames(r.Context(), sportKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotCached) {
			http.Error(w, "no cached scoreboard for sport", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("sport", sportKey).Msg("failed to read cached games")
		http.Error(w, "failed to read games", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"games": games})
}

// RegisterRoutes registers REST routes with an HTTP mux.
func (h *RESTHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/timers", h.HandleListTimers)
	mux.HandleFunc("/api/games/", h.HandleListGames)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
