package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/models"
)

// Set owns one tracker per displayed game. It creates trackers as
// games appear in the feed, feeds them status changes, and stops them
// when the game disappears or the set is torn down.
type Set struct {
	source   TimestampSource
	clock    clockwork.Clock
	duration func(sportKey string) time.Duration
	onUpdate func(Update)

	mu       sync.Mutex
	trackers map[string]*Tracker
	closed   bool
}

// NewSet creates an empty tracker set. The duration function maps a
// sport key to its halftime window length.
func NewSet(source TimestampSource, clock clockwork.Clock, duration func(sportKey string) time.Duration, onUpdate func(Update)) *Set {
	return &Set{
		source:   source,
		clock:    clock,
		duration: duration,
		onUpdate: onUpdate,
		trackers: make(map[string]*Tracker),
	}
}

// ApplyGames reconciles the tracker set against a fresh feed snapshot:
// new games get trackers, every tracker gets the game's current
// status, and trackers for vanished games are stopped.
func (s *Set) ApplyGames(games []models.Game) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	seen := make(map[string]bool, len(games))
	type statusUpdate struct {
		tracker *Tracker
		status  string
	}
	updates := make([]statusUpdate, 0, len(games))

	for _, game := range games {
		seen[game.ID] = true
		tracker, ok := s.trackers[game.ID]
		if !ok {
			tracker = NewTracker(game.ID, s.duration(game.SportKey), s.source, s.clock, s.onUpdate)
			s.trackers[game.ID] = tracker
		}
		updates = append(updates, statusUpdate{tracker, game.Status.Description})
	}

	var stale []*Tracker
	for gameID, tracker := range s.trackers {
		if !seen[gameID] {
			stale = append(stale, tracker)
			delete(s.trackers, gameID)
		}
	}
	s.mu.Unlock()

	for _, u := range updates {
		u.tracker.SetStatus(u.status)
	}
	for _, tracker := range stale {
		tracker.Stop()
	}
}

// RefreshTimestamps re-reads the timestamp source on every tracker.
// Called when the mirror changes.
func (s *Set) RefreshTimestamps() {
	s.mu.Lock()
	trackers := make([]*Tracker, 0, len(s.trackers))
	for _, tracker := range s.trackers {
		trackers = append(trackers, tracker)
	}
	s.mu.Unlock()

	for _, tracker := range trackers {
		tracker.RefreshTimestamp()
	}
}

// Tracker returns the tracker for a game, if any.
func (s *Set) Tracker(gameID string) (*Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tracker, ok := s.trackers[gameID]
	return tracker, ok
}

// Stop tears down every tracker. The set cannot be reused.
func (s *Set) Stop() {
	s.mu.Lock()
	s.closed = true
	trackers := make([]*Tracker, 0, len(s.trackers))
	for _, tracker := range s.trackers {
		trackers = append(trackers, tracker)
	}
	s.trackers = make(map[string]*Tracker)
	s.mu.Unlock()

	for _, tracker := range trackers {
		tracker.Stop()
	}
}
