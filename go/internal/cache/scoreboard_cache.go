package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/redis/go-redis/v9"
)

// ScoreboardTTL bounds how stale a cached scoreboard may get before it
// disappears rather than being served.
const ScoreboardTTL = 5 * time.Minute

// ErrNotCached is returned when no scoreboard is cached for a sport.
var ErrNotCached = errors.New("scoreboard not cached")

// ScoreboardCache stores the latest normalized game list per sport so
// the gateway can serve viewers without re-hitting the upstream feed.
type ScoreboardCache struct {
	client *redis.Client
}

// NewScoreboardCache creates a cache over a Redis client.
func NewScoreboardCache(client *redis.Client) *ScoreboardCache {
	return &ScoreboardCache{client: client}
}

func scoreboardKey(sportKey string) string {
	return fmt.Sprintf("scoreboard:%s", sportKey)
}

// WriteGames stores the game list for a sport.
func (c *ScoreboardCache) WriteGames(ctx context.Context, sportKey string, games []models.Game) error {
	data, err := json.Marshal(games)
	if err != nil {
		return fmt.Errorf("marshaling games: %w", err)
	}

	if err := c.client.Set(ctx, scoreboardKey(sportKey), data, ScoreboardTTL).Err(); err != nil {
		return fmt.Errorf("writing scoreboard cache: %w", err)
	}
	return nil
}

// ReadGames returns the cached game list for a sport, or ErrNotCached.
func (c *ScoreboardCache) ReadGames(ctx context.Context, sportKey string) ([]models.Game, error) {
	data, err := c.client.Get(ctx, scoreboardKey(sportKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("reading scoreboard cache: %w", err)
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("unmarshaling cached games: %w", err)
	}
	return games, nil
}
