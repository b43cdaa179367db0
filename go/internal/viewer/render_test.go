package viewer_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/countdown"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/mcdev12/halftimer/go/internal/viewer"

	_ "github.com/mcdev12/halftimer/go/internal/sports/nfl" // register plugin
)

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{60, "01:00"},
		{735, "12:15"},
		{740, "12:20"},
		{870, "14:30"},
	}
	for _, tt := range tests {
		if got := viewer.FormatCountdown(tt.seconds); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

type staticSource struct {
	mu     sync.Mutex
	timers map[string]int64
}

func (s *staticSource) Ready() bool { return true }

func (s *staticSource) Lookup(gameID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.timers[gameID]
	return ts, ok
}

func nflGame(status models.GameStatus) models.Game {
	return models.Game{
		ID:       "g1",
		SportKey: "nfl",
		Date:     "2026-01-18T23:30Z",
		Status:   status,
		Home:     models.TeamSide{DisplayName: "Buffalo Bills", Score: "17"},
		Away:     models.TeamSide{DisplayName: "Kansas City Chiefs", Score: "14"},
	}
}

func TestRenderGameLineAbbreviatesTeams(t *testing.T) {
	game := nflGame(models.GameStatus{State: models.GameStateIn, Description: "2nd Quarter", ShortDetail: "8:44 - 2nd"})

	line := viewer.RenderGameLine(game, nil, false)
	if !strings.Contains(line, "KC") || !strings.Contains(line, "BUF") {
		t.Errorf("team names not abbreviated: %q", line)
	}
	if !strings.Contains(line, "In Progress: 8:44 - 2nd") {
		t.Errorf("in-progress detail missing: %q", line)
	}
}

func TestRenderGameLineFavoriteMarker(t *testing.T) {
	game := nflGame(models.GameStatus{State: models.GameStatePre, Description: "Scheduled"})

	if line := viewer.RenderGameLine(game, nil, true); !strings.HasPrefix(line, "* ") {
		t.Errorf("favorite marker missing: %q", line)
	}
	if line := viewer.RenderGameLine(game, nil, false); strings.HasPrefix(line, "* ") {
		t.Errorf("unexpected favorite marker: %q", line)
	}
}

func TestRenderGameLineCountdownStates(t *testing.T) {
	source := &staticSource{timers: map[string]int64{}}
	clock := clockwork.NewFakeClock()
	game := nflGame(models.GameStatus{State: models.GameStateIn, Description: models.StatusHalftime})

	t.Run("counting down", func(t *testing.T) {
		source.mu.Lock()
		source.timers["g1"] = clock.Now().UnixMilli() - 5000
		source.mu.Unlock()

		tracker := countdown.NewTracker("g1", 740*time.Second, source, clock, nil)
		defer tracker.Stop()
		tracker.SetStatus(models.StatusHalftime)

		line := viewer.RenderGameLine(game, tracker, false)
		if !strings.Contains(line, "Halftime: 12:15") {
			t.Errorf("countdown not rendered: %q", line)
		}
	})

	t.Run("expired", func(t *testing.T) {
		source.mu.Lock()
		source.timers["g1"] = clock.Now().UnixMilli() - 800_000
		source.mu.Unlock()

		tracker := countdown.NewTracker("g1", 740*time.Second, source, clock, nil)
		defer tracker.Stop()
		tracker.SetStatus(models.StatusHalftime)

		line := viewer.RenderGameLine(game, tracker, false)
		if !strings.Contains(line, "2nd Half Starting Soon") {
			t.Errorf("expired state not rendered: %q", line)
		}
	})

	t.Run("awaiting timestamp", func(t *testing.T) {
		waiting := &notReadySource{}
		tracker := countdown.NewTracker("g1", 740*time.Second, waiting, clock, nil)
		defer tracker.Stop()
		tracker.SetStatus(models.StatusHalftime)

		line := viewer.RenderGameLine(game, tracker, false)
		if !strings.Contains(line, "Halftime (Initializing Timer...)") {
			t.Errorf("loading state not rendered: %q", line)
		}
	})
}

type notReadySource struct{}

func (notReadySource) Ready() bool                 { return false }
func (notReadySource) Lookup(string) (int64, bool) { return 0, false }
