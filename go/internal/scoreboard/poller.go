package scoreboard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval matches the refresh cadence of the viewer page.
const DefaultPollInterval = 20 * time.Second

// Snapshot is the poller's latest view of one sport's games. On fetch
// failure the previous game list is preserved and Err is set, so
// consumers can keep rendering stale-but-usable data.
type Snapshot struct {
	Games     []models.Game
	UpdatedAt time.Time
	Err       error
}

// Poller refreshes a sport's scoreboard on a fixed interval and keeps
// the last-known snapshot. A fetch or parse error never stops the loop.
type Poller struct {
	service  *Service
	sportKey string
	interval time.Duration
	clock    clockwork.Clock

	mu       sync.RWMutex
	snapshot Snapshot

	onUpdate func(Snapshot)
}

// NewPoller creates a poller for one sport.
func NewPoller(service *Service, sportKey string, interval time.Duration, clock clockwork.Clock) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		service:  service,
		sportKey: sportKey,
		interval: interval,
		clock:    clock,
	}
}

// OnUpdate registers a callback invoked after every poll cycle with the
// current snapshot. Must be called before Run.
func (p *Poller) OnUpdate(fn func(Snapshot)) {
	p.onUpdate = fn
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	log.Info().
		Str("sport", p.sportKey).
		Dur("interval", p.interval).
		Msg("scoreboard poller started")

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("sport", p.sportKey).Msg("scoreboard poller stopped")
			return
		case <-ticker.Chan():
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	games, err := p.service.FetchGames(ctx)

	p.mu.Lock()
	if err != nil {
		// Keep the last-known game list, surface the error flag.
		p.snapshot.Err = err
		log.Error().Err(err).Str("sport", p.sportKey).Msg("scoreboard poll failed")
	} else {
		p.snapshot = Snapshot{
			Games:     games,
			UpdatedAt: p.clock.Now(),
		}
	}
	snapshot := p.snapshot
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snapshot)
	}
}

// Snapshot returns the last-known snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}
