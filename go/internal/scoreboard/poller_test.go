package scoreboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/clients/espn_client"
	"github.com/mcdev12/halftimer/go/internal/scoreboard"
)

type toggleFeedClient struct {
	mu         sync.Mutex
	scoreboard *espn_client.Scoreboard
	err        error
}

func (f *toggleFeedClient) FetchScoreboard(ctx context.Context, sportPath string) (*espn_client.Scoreboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.scoreboard, nil
}

func (f *toggleFeedClient) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestPollerKeepsLastKnownGamesOnError(t *testing.T) {
	client := &toggleFeedClient{scoreboard: &espn_client.Scoreboard{
		Events: []espn_client.Event{{ID: "g1"}},
	}}
	service := scoreboard.NewService(client, "nfl", "football/nfl")
	clock := clockwork.NewFakeClock()
	poller := scoreboard.NewPoller(service, "nfl", 20*time.Second, clock)

	snapshots := make(chan scoreboard.Snapshot, 8)
	poller.OnUpdate(func(s scoreboard.Snapshot) {
		snapshots <- s
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	// First poll runs immediately and succeeds.
	first := <-snapshots
	if first.Err != nil {
		t.Fatalf("first poll errored: %v", first.Err)
	}
	if len(first.Games) != 1 || first.Games[0].ID != "g1" {
		t.Fatalf("first snapshot games = %+v", first.Games)
	}

	// Feed goes down; the next cycle must keep the old games and only
	// raise the error flag.
	client.setErr(errors.New("upstream 503"))
	clock.BlockUntil(1)
	clock.Advance(20 * time.Second)

	second := <-snapshots
	if second.Err == nil {
		t.Fatal("feed failure not surfaced")
	}
	if len(second.Games) != 1 || second.Games[0].ID != "g1" {
		t.Errorf("last-known games lost on error: %+v", second.Games)
	}

	// Feed recovers.
	client.setErr(nil)
	clock.Advance(20 * time.Second)

	third := <-snapshots
	if third.Err != nil {
		t.Errorf("recovered poll still carries error: %v", third.Err)
	}
}
