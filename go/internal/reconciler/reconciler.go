package reconciler

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/rs/zerolog/log"
)

// TimerStore defines what the reconciler needs from the shared timer
// store. The reconciler is the only component that creates or deletes
// halftime records.
type TimerStore interface {
	CreateIfAbsent(ctx context.Context, gameID string, startTimestamp int64) (bool, error)
	Delete(ctx context.Context, gameID string) error
	ListAll(ctx context.Context) ([]models.HalftimeRecord, error)
}

// SportFeed fetches the current game list for one sport.
type SportFeed interface {
	Key() string
	FetchGames(ctx context.Context) ([]models.Game, error)
}

// Reconciler maintains the truth about which games are at halftime and
// when each window started. One pass: fetch every sport's scoreboard,
// record newly-observed halftimes, then clear records for games no
// longer at halftime.
type Reconciler struct {
	store TimerStore
	feeds []SportFeed
	clock clockwork.Clock
}

// New creates a reconciler over the given sport feeds.
func New(store TimerStore, feeds []SportFeed, clock clockwork.Clock) *Reconciler {
	return &Reconciler{
		store: store,
		feeds: feeds,
		clock: clock,
	}
}

// RunOnce performs a single reconciliation pass. A failure for one
// sport or one game is logged and never aborts the rest of the pass.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	halftimeGameIDs := make(map[string]bool)
	fetchFailed := false

	for _, feed := range r.feeds {
		games, err := feed.FetchGames(ctx)
		if err != nil {
			log.Error().Err(err).Str("sport", feed.Key()).Msg("failed to fetch scoreboard, skipping sport")
			fetchFailed = true
			continue
		}

		for _, game := range games {
			if !game.IsHalftime() {
				continue
			}
			halftimeGameIDs[game.ID] = true

			created, err := r.store.CreateIfAbsent(ctx, game.ID, r.clock.Now().UnixMilli())
			if err != nil {
				log.Error().Err(err).
					Str("sport", feed.Key()).
					Str("game_id", game.ID).
					Msg("failed to record halftime start")
				continue
			}
			if created {
				log.Info().
					Str("sport", feed.Key()).
					Str("game_id", game.ID).
					Msg("halftime started, recorded shared timestamp")
			}
		}
	}

	if fetchFailed {
		// A failed feed leaves its halftime games out of the observed
		// set; deleting their records now would break running
		// countdowns. Cleanup resumes on the next healthy pass.
		log.Warn().Msg("skipping stale cleanup, at least one feed fetch failed")
		return nil
	}

	if err := r.cleanupStale(ctx, halftimeGameIDs); err != nil {
		return fmt.Errorf("stale cleanup failed: %w", err)
	}
	return nil
}

// cleanupStale deletes every stored record whose game is no longer at
// halftime. Per-game delete failures are logged and retried on the
// next pass.
func (r *Reconciler) cleanupStale(ctx context.Context, halftimeGameIDs map[string]bool) error {
	stored, err := r.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored timers: %w", err)
	}

	for _, record := range stored {
		if halftimeGameIDs[record.GameID] {
			continue
		}
		if err := r.store.Delete(ctx, record.GameID); err != nil {
			log.Error().Err(err).Str("game_id", record.GameID).Msg("failed to delete stale halftime record")
			continue
		}
		log.Info().Str("game_id", record.GameID).Msg("halftime over, cleared shared timestamp")
	}
	return nil
}
