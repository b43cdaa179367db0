package viewer

import (
	"fmt"
	"strings"

	"github.com/mcdev12/halftimer/go/internal/countdown"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/mcdev12/halftimer/go/internal/sports/base"
)

// FormatCountdown renders remaining seconds as MM:SS.
func FormatCountdown(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// RenderGameLine renders one game's display line: abbreviated matchup,
// score, and the countdown state.
func RenderGameLine(game models.Game, tracker *countdown.Tracker, favorited bool) string {
	var b strings.Builder

	if favorited {
		b.WriteString("* ")
	} else {
		b.WriteString("  ")
	}

	away := game.Away.DisplayName
	home := game.Home.DisplayName
	if plugin, err := base.GetPlugin(game.SportKey); err == nil {
		away = plugin.AbbreviateTeam(away)
		home = plugin.AbbreviateTeam(home)
	}
	fmt.Fprintf(&b, "%s %s @ %s %s  ", away, game.Away.Score, home, game.Home.Score)

	b.WriteString(statusText(game, tracker))
	return b.String()
}

func statusText(game models.Game, tracker *countdown.Tracker) string {
	if game.Status.State == models.GameStatePre {
		return fmt.Sprintf("Scheduled: %s", game.Date)
	}

	if tracker != nil {
		switch tracker.State() {
		case countdown.StateCountingDown:
			return fmt.Sprintf("Halftime: %s", FormatCountdown(tracker.Remaining()))
		case countdown.StateExpired:
			return "2nd Half Starting Soon"
		case countdown.StateAwaitingTimestamp:
			return "Halftime (Initializing Timer...)"
		}
	}

	if game.Status.State == models.GameStateIn && game.Status.ShortDetail != "" {
		return fmt.Sprintf("In Progress: %s", game.Status.ShortDetail)
	}
	return game.Status.Description
}
