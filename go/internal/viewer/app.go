package viewer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/clients/espn_client"
	"github.com/mcdev12/halftimer/go/internal/countdown"
	"github.com/mcdev12/halftimer/go/internal/favorites"
	"github.com/mcdev12/halftimer/go/internal/mirror"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/mcdev12/halftimer/go/internal/scoreboard"
	"github.com/mcdev12/halftimer/go/internal/sports/base"
	"github.com/rs/zerolog/log"
)

// Config holds viewer session settings.
type Config struct {
	GatewayURL    string
	Sports        []string
	PollInterval  time.Duration
	RenderEvery   time.Duration
	FavoritesPath string
}

// App is one viewer session: scoreboard pollers, the shared-store
// mirror fed over WebSocket, and a countdown tracker per game.
type App struct {
	cfg       Config
	clock     clockwork.Clock
	mirror    *mirror.Mirror
	trackers  *countdown.Set
	favorites *favorites.Store
	pollers   []*scoreboard.Poller

	mu    sync.RWMutex
	games map[string][]models.Game // per sport, last-known
	feedE map[string]error
}

// NewApp wires up a viewer session.
func NewApp(cfg Config, clock clockwork.Clock) (*App, error) {
	if cfg.RenderEvery <= 0 {
		cfg.RenderEvery = time.Second
	}

	favStore, err := favorites.Load(cfg.FavoritesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	app := &App{
		cfg:       cfg,
		clock:     clock,
		mirror:    mirror.New(),
		favorites: favStore,
		games:     make(map[string][]models.Game),
		feedE:     make(map[string]error),
	}

	app.trackers = countdown.NewSet(app.mirror, clock, halftimeDuration, nil)

	client := espn_client.NewEspnClient()
	for _, sportKey := range cfg.Sports {
		plugin, err := base.GetPlugin(sportKey)
		if err != nil {
			return nil, err
		}
		service := scoreboard.NewService(client, plugin.Key(), plugin.FeedPath())
		poller := scoreboard.NewPoller(service, plugin.Key(), cfg.PollInterval, clock)

		key := plugin.Key()
		poller.OnUpdate(func(snapshot scoreboard.Snapshot) {
			app.applySnapshot(key, snapshot)
		})
		app.pollers = append(app.pollers, poller)
	}

	return app, nil
}

// halftimeDuration maps a sport key to its fixed halftime window.
func halftimeDuration(sportKey string) time.Duration {
	plugin, err := base.GetPlugin(sportKey)
	if err != nil {
		// Unknown sport in the feed snapshot; fall back to the NFL
		// window rather than a zero-length countdown.
		return 12*time.Minute + 20*time.Second
	}
	return plugin.HalftimeDuration()
}

// Run starts the session and blocks until ctx is cancelled. All
// pollers, trackers and the subscription are torn down on exit.
func (a *App) Run(ctx context.Context) error {
	subscriber := NewSubscriber(DefaultSubscriberConfig(a.cfg.GatewayURL), a.mirror, func(string) {
		a.trackers.RefreshTimestamps()
	})

	subCtx, cancelSub := context.WithCancel(ctx)
	if err := mirror.InitShared(a.mirror, cancelSub); err != nil {
		cancelSub()
		return err
	}
	defer mirror.CloseShared()
	defer a.trackers.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		subscriber.Run(subCtx)
	}()

	for _, poller := range a.pollers {
		p := poller
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(ctx)
		}()
	}

	renderTicker := a.clock.NewTicker(a.cfg.RenderEvery)
	defer renderTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			log.Info().Msg("viewer session ended")
			return nil
		case <-renderTicker.Chan():
			a.render()
		}
	}
}

func (a *App) applySnapshot(sportKey string, snapshot scoreboard.Snapshot) {
	a.mu.Lock()
	if snapshot.Err != nil {
		a.feedE[sportKey] = snapshot.Err
	} else {
		a.feedE[sportKey] = nil
		a.games[sportKey] = snapshot.Games
	}
	a.mu.Unlock()

	a.trackers.ApplyGames(a.allGames())
}

func (a *App) allGames() []models.Game {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var all []models.Game
	for _, games := range a.games {
		all = append(all, games...)
	}
	return all
}

func (a *App) render() {
	games := a.allGames()
	scoreboard.SortGames(games, a.favorites.Contains)

	a.mu.RLock()
	var feedErr error
	for _, err := range a.feedE {
		if err != nil {
			feedErr = err
			break
		}
	}
	a.mu.RUnlock()

	fmt.Fprint(os.Stdout, "\033[H\033[2J")
	if feedErr != nil {
		fmt.Fprintln(os.Stdout, "! feed unavailable, showing last-known scores")
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games currently available.")
		return
	}
	for _, game := range games {
		tracker, _ := a.trackers.Tracker(game.ID)
		fmt.Fprintln(os.Stdout, RenderGameLine(game, tracker, a.favorites.Contains(game.ID)))
	}
}
