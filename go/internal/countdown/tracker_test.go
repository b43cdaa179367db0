package countdown_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/countdown"
)

type fakeSource struct {
	mu     sync.Mutex
	ready  bool
	timers map[string]int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{timers: make(map[string]int64)}
}

func (f *fakeSource) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeSource) Lookup(gameID string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts, ok := f.timers[gameID]
	return ts, ok
}

func (f *fakeSource) set(gameID string, ts int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = true
	f.timers[gameID] = ts
}

func (f *fakeSource) markReady() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = true
}

func TestTrackerStartsNotHalftime(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()

	tracker := countdown.NewTracker("g1", 10*time.Second, source, clock, nil)
	defer tracker.Stop()

	if got := tracker.State(); got != countdown.StateNotHalftime {
		t.Errorf("initial state = %s, want %s", got, countdown.StateNotHalftime)
	}
}

func TestTrackerCountdownCorrectness(t *testing.T) {
	// remaining = max(0, D - k) for current time T + k seconds.
	tests := []struct {
		name          string
		duration      time.Duration
		elapsed       time.Duration
		wantState     countdown.State
		wantRemaining int
	}{
		{"just started", 740 * time.Second, 0, countdown.StateCountingDown, 740},
		{"five seconds in", 740 * time.Second, 5 * time.Second, countdown.StateCountingDown, 735},
		{"near the end", 740 * time.Second, 730 * time.Second, countdown.StateCountingDown, 10},
		{"exactly expired", 740 * time.Second, 740 * time.Second, countdown.StateExpired, 0},
		{"long past expiry", 740 * time.Second, 2 * time.Hour, countdown.StateExpired, 0},
		{"nba window", 870 * time.Second, 60 * time.Second, countdown.StateCountingDown, 810},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			clock := clockwork.NewFakeClock()
			source.set("g1", clock.Now().UnixMilli())
			clock.Advance(tt.elapsed)

			tracker := countdown.NewTracker("g1", tt.duration, source, clock, nil)
			defer tracker.Stop()

			tracker.SetStatus("Halftime")

			if got := tracker.State(); got != tt.wantState {
				t.Errorf("state = %s, want %s", got, tt.wantState)
			}
			if got := tracker.Remaining(); got != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", got, tt.wantRemaining)
			}
		})
	}
}

func TestTrackerTicksDown(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("g1", clock.Now().UnixMilli())

	updates := make(chan countdown.Update, 64)
	tracker := countdown.NewTracker("g1", 10*time.Second, source, clock, func(u countdown.Update) {
		updates <- u
	})
	defer tracker.Stop()

	tracker.SetStatus("Halftime")

	first := <-updates
	if first.State != countdown.StateCountingDown || first.RemainingSeconds != 10 {
		t.Fatalf("first update = %+v, want COUNTING_DOWN with 10s", first)
	}

	// Wait for the tick loop's ticker before advancing.
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	select {
	case u := <-updates:
		if u.RemainingSeconds != 9 {
			t.Errorf("after one tick remaining = %d, want 9", u.RemainingSeconds)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update after advancing the clock one second")
	}
}

func TestTrackerExpiresOnFinalTick(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("g1", clock.Now().UnixMilli())

	updates := make(chan countdown.Update, 64)
	tracker := countdown.NewTracker("g1", 2*time.Second, source, clock, func(u countdown.Update) {
		updates <- u
	})
	defer tracker.Stop()

	tracker.SetStatus("Halftime")
	<-updates // initial COUNTING_DOWN at 2s

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	u := <-updates
	if u.State != countdown.StateCountingDown || u.RemainingSeconds != 1 {
		t.Fatalf("after 1s: %+v, want COUNTING_DOWN with 1s", u)
	}

	clock.Advance(time.Second)
	u = <-updates
	if u.State != countdown.StateExpired || u.RemainingSeconds != 0 {
		t.Fatalf("after 2s: %+v, want EXPIRED with 0s", u)
	}
}

func TestTrackerAwaitsTimestampUntilSnapshotLoads(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()

	tracker := countdown.NewTracker("g1", 10*time.Second, source, clock, nil)
	defer tracker.Stop()

	// Mirror snapshot not loaded: wait rather than guess.
	tracker.SetStatus("Halftime")
	if got := tracker.State(); got != countdown.StateAwaitingTimestamp {
		t.Fatalf("state = %s, want %s", got, countdown.StateAwaitingTimestamp)
	}

	// Timestamp arrives via notification.
	source.set("g1", clock.Now().UnixMilli()-3000)
	tracker.RefreshTimestamp()

	if got := tracker.State(); got != countdown.StateCountingDown {
		t.Errorf("state = %s, want %s", got, countdown.StateCountingDown)
	}
	if got := tracker.Remaining(); got != 7 {
		t.Errorf("remaining = %d, want 7", got)
	}
}

func TestTrackerLocalEstimateFallback(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.markReady()

	var mu sync.Mutex
	var last countdown.Update
	tracker := countdown.NewTracker("g1", 10*time.Second, source, clock, func(u countdown.Update) {
		mu.Lock()
		last = u
		mu.Unlock()
	})
	defer tracker.Stop()

	// Store loaded but has no record: count from a local estimate.
	tracker.SetStatus("Halftime")

	if got := tracker.State(); got != countdown.StateCountingDown {
		t.Fatalf("state = %s, want %s", got, countdown.StateCountingDown)
	}
	mu.Lock()
	if !last.Estimated {
		t.Error("update not flagged as estimated")
	}
	mu.Unlock()

	// The authoritative timestamp propagates, two seconds older than
	// the local guess; the tracker adopts it.
	source.set("g1", clock.Now().UnixMilli()-2000)
	tracker.RefreshTimestamp()

	if got := tracker.Remaining(); got != 8 {
		t.Errorf("remaining after correction = %d, want 8", got)
	}
	mu.Lock()
	if last.Estimated {
		t.Error("update still flagged as estimated after correction")
	}
	mu.Unlock()
}

func TestTrackerReturnsToNotHalftime(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("g1", clock.Now().UnixMilli())

	tracker := countdown.NewTracker("g1", 10*time.Second, source, clock, nil)
	defer tracker.Stop()

	tracker.SetStatus("Halftime")
	if got := tracker.State(); got != countdown.StateCountingDown {
		t.Fatalf("state = %s, want %s", got, countdown.StateCountingDown)
	}

	tracker.SetStatus("End of 3rd Quarter")
	if got := tracker.State(); got != countdown.StateNotHalftime {
		t.Errorf("state = %s, want %s", got, countdown.StateNotHalftime)
	}
	if got := tracker.Remaining(); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}

func TestTrackerTeardownSafety(t *testing.T) {
	source := newFakeSource()
	clock := clockwork.NewFakeClock()
	source.set("g1", clock.Now().UnixMilli())

	var mu sync.Mutex
	count := 0
	tracker := countdown.NewTracker("g1", 10*time.Second, source, clock, func(countdown.Update) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	tracker.SetStatus("Halftime")
	clock.BlockUntil(1)

	tracker.Stop()
	mu.Lock()
	before := count
	mu.Unlock()

	// Nothing after Stop may mutate state or deliver updates.
	clock.Advance(5 * time.Second)
	tracker.SetStatus("Halftime")
	tracker.RefreshTimestamp()

	mu.Lock()
	after := count
	mu.Unlock()
	if after != before {
		t.Errorf("got %d updates after Stop", after-before)
	}
}
