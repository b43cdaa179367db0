package countdown_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/countdown"
	"github.com/mcdev12/halftimer/go/internal/models"
)

func halftimeGame(id, sportKey string) models.Game {
	return models.Game{
		ID:       id,
		SportKey: sportKey,
		Status:   models.GameStatus{Description: models.StatusHalftime, State: models.GameStateIn},
	}
}

func inProgressGame(id, sportKey string) models.Game {
	return models.Game{
		ID:       id,
		SportKey: sportKey,
		Status:   models.GameStatus{Description: "2nd Quarter", State: models.GameStateIn},
	}
}

func TestSetCreatesAndUpdatesTrackers(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("g1", clock.Now().UnixMilli())

	set := countdown.NewSet(source, clock, func(string) time.Duration { return 10 * time.Second }, nil)
	defer set.Stop()

	set.ApplyGames([]models.Game{halftimeGame("g1", "nfl"), inProgressGame("g2", "nfl")})

	t1, ok := set.Tracker("g1")
	if !ok {
		t.Fatal("no tracker for g1")
	}
	if got := t1.State(); got != countdown.StateCountingDown {
		t.Errorf("g1 state = %s, want %s", got, countdown.StateCountingDown)
	}

	t2, ok := set.Tracker("g2")
	if !ok {
		t.Fatal("no tracker for g2")
	}
	if got := t2.State(); got != countdown.StateNotHalftime {
		t.Errorf("g2 state = %s, want %s", got, countdown.StateNotHalftime)
	}
}

func TestSetStopsVanishedGames(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("g1", clock.Now().UnixMilli())

	set := countdown.NewSet(source, clock, func(string) time.Duration { return 10 * time.Second }, nil)
	defer set.Stop()

	set.ApplyGames([]models.Game{halftimeGame("g1", "nfl")})
	tracker, _ := set.Tracker("g1")

	set.ApplyGames([]models.Game{inProgressGame("g2", "nfl")})

	if _, ok := set.Tracker("g1"); ok {
		t.Error("tracker for vanished game still present")
	}

	// The stopped tracker ignores further input.
	tracker.SetStatus(models.StatusHalftime)
	tracker.RefreshTimestamp()
}

func TestSetRefreshTimestamps(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()

	set := countdown.NewSet(source, clock, func(string) time.Duration { return 10 * time.Second }, nil)
	defer set.Stop()

	set.ApplyGames([]models.Game{halftimeGame("g1", "nfl")})
	tracker, _ := set.Tracker("g1")
	if got := tracker.State(); got != countdown.StateAwaitingTimestamp {
		t.Fatalf("state = %s, want %s", got, countdown.StateAwaitingTimestamp)
	}

	source.set("g1", clock.Now().UnixMilli())
	set.RefreshTimestamps()

	if got := tracker.State(); got != countdown.StateCountingDown {
		t.Errorf("state after refresh = %s, want %s", got, countdown.StateCountingDown)
	}
}

func TestSetPerSportDurations(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("nfl1", clock.Now().UnixMilli())
	source.set("nba1", clock.Now().UnixMilli())

	durations := map[string]time.Duration{
		"nfl": 740 * time.Second,
		"nba": 870 * time.Second,
	}
	set := countdown.NewSet(source, clock, func(sportKey string) time.Duration {
		return durations[sportKey]
	}, nil)
	defer set.Stop()

	set.ApplyGames([]models.Game{halftimeGame("nfl1", "nfl"), halftimeGame("nba1", "nba")})

	nflTracker, _ := set.Tracker("nfl1")
	if got := nflTracker.Remaining(); got != 740 {
		t.Errorf("nfl remaining = %d, want 740", got)
	}
	nbaTracker, _ := set.Tracker("nba1")
	if got := nbaTracker.Remaining(); got != 870 {
		t.Errorf("nba remaining = %d, want 870", got)
	}
}
