package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultInterval is how often the reconciliation pass runs.
const DefaultInterval = 30 * time.Second

// Runner drives the reconciler on a fixed schedule. The job is
// stateless between passes except for what it reads back from the
// store, so a missed or failed pass self-heals on the next one.
type Runner struct {
	reconciler *Reconciler
	interval   time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRunner creates a runner with the given pass interval.
func NewRunner(reconciler *Reconciler, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		reconciler: reconciler,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the reconciliation loop. The first pass runs
// immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("reconciler already running")
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(ctx)

	log.Info().Dur("interval", r.interval).Msg("reconciler started")
	return nil
}

// Stop halts the loop and waits for the in-flight pass to finish.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return fmt.Errorf("reconciler not running")
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopChan)
	r.wg.Wait()

	log.Info().Msg("reconciler stopped")
	return nil
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := r.reconciler.clock.NewTicker(r.interval)
	defer ticker.Stop()

	r.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.Chan():
			r.pass(ctx)
		}
	}
}

func (r *Runner) pass(ctx context.Context) {
	if err := r.reconciler.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("reconciliation pass failed")
	}
}
