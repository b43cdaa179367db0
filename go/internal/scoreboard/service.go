package scoreboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/mcdev12/halftimer/go/clients/espn_client"
	"github.com/mcdev12/halftimer/go/internal/models"
)

// Defaults applied when the upstream feed omits competitor fields. One
// malformed game must not block processing of the others.
const (
	defaultScore    = "0"
	defaultLogo     = "/placeholder.svg"
	defaultTeamName = "N/A"
)

// FeedClient defines what the service needs from the scoreboard feed.
type FeedClient interface {
	FetchScoreboard(ctx context.Context, sportPath string) (*espn_client.Scoreboard, error)
}

// Service fetches and normalizes scoreboard data for one sport.
type Service struct {
	client   FeedClient
	sportKey string
	feedPath string
}

// NewService creates a scoreboard service for a sport feed path.
func NewService(client FeedClient, sportKey, feedPath string) *Service {
	return &Service{
		client:   client,
		sportKey: sportKey,
		feedPath: feedPath,
	}
}

// Key returns the sport key this service serves.
func (s *Service) Key() string {
	return s.sportKey
}

// FetchGames fetches the current scoreboard and normalizes every event
// into a models.Game, defaulting missing competitor fields.
func (s *Service) FetchGames(ctx context.Context) ([]models.Game, error) {
	scoreboard, err := s.client.FetchScoreboard(ctx, s.feedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s games: %w", s.sportKey, err)
	}

	games := make([]models.Game, 0, len(scoreboard.Events))
	for _, event := range scoreboard.Events {
		games = append(games, s.normalizeEvent(event))
	}
	return games, nil
}

func (s *Service) normalizeEvent(event espn_client.Event) models.Game {
	game := models.Game{
		ID:        event.ID,
		SportKey:  s.sportKey,
		Name:      event.Name,
		ShortName: event.ShortName,
		Date:      event.Date,
		Status: models.GameStatus{
			Description: event.Status.Type.Description,
			State:       models.GameState(event.Status.Type.State),
			Detail:      event.Status.Type.Detail,
			ShortDetail: event.Status.Type.ShortDetail,
		},
		Home: defaultTeamSide(),
		Away: defaultTeamSide(),
	}

	if len(event.Competitions) == 0 {
		return game
	}

	for _, competitor := range event.Competitions[0].Competitors {
		side := normalizeCompetitor(competitor)
		switch competitor.HomeAway {
		case "home":
			game.Home = side
		case "away":
			game.Away = side
		}
	}

	return game
}

func normalizeCompetitor(c espn_client.Competitor) models.TeamSide {
	side := models.TeamSide{
		DisplayName: c.Team.DisplayName,
		Logo:        c.Team.Logo,
		Score:       c.Score,
	}
	if side.DisplayName == "" {
		side.DisplayName = defaultTeamName
	}
	if side.Logo == "" {
		side.Logo = defaultLogo
	}
	if side.Score == "" {
		side.Score = defaultScore
	}
	return side
}

func defaultTeamSide() models.TeamSide {
	return models.TeamSide{
		DisplayName: defaultTeamName,
		Logo:        defaultLogo,
		Score:       defaultScore,
	}
}

// SortGames orders games for display: favorited games first, finished
// games last, otherwise preserving feed order.
func SortGames(games []models.Game, isFavorite func(gameID string) bool) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]

		aFav, bFav := isFavorite(a.ID), isFavorite(b.ID)
		if aFav != bFav {
			return aFav
		}

		aDone := a.Status.State == models.GameStatePost
		bDone := b.Status.State == models.GameStatePost
		if aDone != bDone {
			return bDone
		}

		return false
	})
}
