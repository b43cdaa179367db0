package espn_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/halftimer/go/clients"
)

// EspnClient fetches scoreboard data from the public ESPN site API.
type EspnClient struct {
	*clients.BaseClient
}

func NewEspnClient() *EspnClient {
	client := &EspnClient{
		BaseClient: clients.NewBaseClient(BaseURL),
	}

	client.SetHeader("User-Agent", UserAgent)

	return client
}

// FetchScoreboard fetches the current scoreboard for a sport feed path.
func (c *EspnClient) FetchScoreboard(ctx context.Context, sportPath string) (*Scoreboard, error) {
	body, err := c.Get(ctx, ScoreboardEndpoint(sportPath))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard for %s: %w", sportPath, err)
	}

	var scoreboard Scoreboard
	if err := json.Unmarshal(body, &scoreboard); err != nil {
		return nil, fmt.Errorf("failed to parse scoreboard for %s: %w", sportPath, err)
	}

	return &scoreboard, nil
}
