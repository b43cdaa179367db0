package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/models"
	"github.com/rs/zerolog/log"
)

// State is a tracker's position in the halftime lifecycle.
type State string

const (
	// StateNotHalftime: the game is not at halftime; no timer runs.
	StateNotHalftime State = "NOT_HALFTIME"
	// StateAwaitingTimestamp: the game is at halftime but the shared
	// start timestamp has not arrived yet (mirror still loading).
	StateAwaitingTimestamp State = "AWAITING_TIMESTAMP"
	// StateCountingDown: ticking down from the shared start timestamp.
	StateCountingDown State = "COUNTING_DOWN"
	// StateExpired: the window ran out; second half starting soon.
	StateExpired State = "EXPIRED"
)

// Update is delivered to the tracker's callback on every state change
// and countdown tick.
type Update struct {
	GameID           string
	State            State
	RemainingSeconds int
	// Estimated is true while counting from a local guess instead of
	// the shared timestamp.
	Estimated bool
}

// TimestampSource is where the tracker reads the shared halftime start
// from; in practice the store mirror.
type TimestampSource interface {
	// Ready reports whether the initial snapshot has loaded.
	Ready() bool
	// Lookup returns the halftime start (epoch ms) for a game.
	Lookup(gameID string) (int64, bool)
}

// Tracker runs the per-game countdown state machine. It never writes
// to the shared store: a missing timestamp is waited for, then
// estimated locally, and corrected when the authoritative value
// propagates.
type Tracker struct {
	gameID   string
	duration time.Duration
	clock    clockwork.Clock
	source   TimestampSource
	onUpdate func(Update)

	mu        sync.Mutex
	state     State
	start     int64 // effective halftime start, epoch ms
	estimated bool
	remaining int
	tickStop  chan struct{}
	stopped   bool
}

// NewTracker creates a tracker in StateNotHalftime. The onUpdate
// callback is invoked synchronously and must not call back into the
// tracker.
func NewTracker(gameID string, duration time.Duration, source TimestampSource, clock clockwork.Clock, onUpdate func(Update)) *Tracker {
	return &Tracker{
		gameID:   gameID,
		duration: duration,
		clock:    clock,
		source:   source,
		onUpdate: onUpdate,
		state:    StateNotHalftime,
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the last computed remaining seconds.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// SetStatus feeds the tracker the game's current feed status
// description. Called on every scoreboard refresh.
func (t *Tracker) SetStatus(description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	if description != models.StatusHalftime {
		if t.state != StateNotHalftime {
			t.transitionLocked(StateNotHalftime)
		}
		return
	}

	switch t.state {
	case StateNotHalftime, StateAwaitingTimestamp:
		t.resolveStartLocked()
	case StateCountingDown, StateExpired:
		// Already running off a start timestamp; nothing to do.
	}
}

// RefreshTimestamp re-reads the timestamp source. Called when the
// mirror changes for this game (or receives its snapshot), so a waiting
// tracker can start and an estimating one can adopt the authoritative
// value.
func (t *Tracker) RefreshTimestamp() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	switch t.state {
	case StateAwaitingTimestamp:
		t.resolveStartLocked()
	case StateCountingDown, StateExpired:
		if ts, ok := t.source.Lookup(t.gameID); ok && (t.estimated || ts != t.start) {
			t.start = ts
			t.estimated = false
			t.startCountdownLocked()
		}
	}
}

// resolveStartLocked decides between counting down, waiting, and the
// degraded local estimate, per the shared-timestamp availability.
func (t *Tracker) resolveStartLocked() {
	if ts, ok := t.source.Lookup(t.gameID); ok {
		t.start = ts
		t.estimated = false
		t.startCountdownLocked()
		return
	}

	if !t.source.Ready() {
		// The snapshot has not loaded; show the loading state until a
		// notification or the snapshot supplies the timestamp.
		t.transitionLocked(StateAwaitingTimestamp)
		return
	}

	// Store loaded but has no record yet: the reconciler has not
	// observed this halftime. Count from "now" locally; the
	// authoritative value corrects us when it propagates.
	t.start = t.clock.Now().UnixMilli()
	t.estimated = true
	t.startCountdownLocked()
	log.Debug().Str("game_id", t.gameID).Msg("no shared timestamp yet, counting from local estimate")
}

// transitionLocked moves to a non-counting state, cancelling any
// running ticker.
func (t *Tracker) transitionLocked(next State) {
	t.stopTickerLocked()
	t.state = next
	t.remaining = 0
	t.start = 0
	t.estimated = false
	t.emitLocked()
}

// startCountdownLocked (re)starts the one-second tick loop from the
// current start timestamp. Any prior ticker is cancelled first.
func (t *Tracker) startCountdownLocked() {
	t.stopTickerLocked()

	t.remaining = t.computeRemainingLocked()
	if t.remaining <= 0 {
		t.state = StateExpired
		t.emitLocked()
		return
	}

	t.state = StateCountingDown
	t.emitLocked()

	stop := make(chan struct{})
	t.tickStop = stop
	go t.tickLoop(stop)
}

func (t *Tracker) tickLoop(stop chan struct{}) {
	ticker := t.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			t.mu.Lock()
			if t.stopped || t.tickStop != stop {
				t.mu.Unlock()
				return
			}
			t.remaining = t.computeRemainingLocked()
			if t.remaining <= 0 {
				t.remaining = 0
				t.state = StateExpired
				t.tickStop = nil
				t.emitLocked()
				t.mu.Unlock()
				return
			}
			t.emitLocked()
			t.mu.Unlock()
		}
	}
}

func (t *Tracker) computeRemainingLocked() int {
	elapsed := int((t.clock.Now().UnixMilli() - t.start) / 1000)
	remaining := int(t.duration/time.Second) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (t *Tracker) stopTickerLocked() {
	if t.tickStop != nil {
		close(t.tickStop)
		t.tickStop = nil
	}
}

func (t *Tracker) emitLocked() {
	if t.onUpdate == nil {
		return
	}
	t.onUpdate(Update{
		GameID:           t.gameID,
		State:            t.state,
		RemainingSeconds: t.remaining,
		Estimated:        t.estimated,
	})
}

// Stop tears the tracker down. No ticks or updates are delivered after
// Stop returns.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.stopTickerLocked()
}
