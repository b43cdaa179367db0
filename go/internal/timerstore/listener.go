package timerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// NotifyChannel is the Postgres channel the halftime_timers trigger
// notifies on. Must match the channel name in the schema.
const NotifyChannel = "halftime_timer_events"

// ListenerConfig holds configuration for the change-event listener.
type ListenerConfig struct {
	DatabaseURL     string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel   string        // Channel name to LISTEN on
	MinReconnect    time.Duration
	MaxReconnect    time.Duration
	PingInterval    time.Duration
	EventBufferSize int
}

func DefaultListenerConfig(databaseURL string) ListenerConfig {
	return ListenerConfig{
		DatabaseURL:     databaseURL,
		NotifyChannel:   NotifyChannel,
		MinReconnect:    10 * time.Second,
		MaxReconnect:    time.Minute,
		PingInterval:    90 * time.Second,
		EventBufferSize: 64,
	}
}

// Listener subscribes to halftime_timers change notifications and
// exposes them as a channel of ChangeEvents. A lost connection is
// retried by pq.Listener; consumers heal missed events from the
// periodic snapshot sync.
type Listener struct {
	listener *pq.Listener
	cfg      ListenerConfig
	events   chan ChangeEvent
}

// NewListener starts LISTENing on the configured channel.
func NewListener(cfg ListenerConfig) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		cfg.MinReconnect,
		cfg.MaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("timer store listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for halftime timer changes")

	return &Listener{
		listener: l,
		cfg:      cfg,
		events:   make(chan ChangeEvent, cfg.EventBufferSize),
	}, nil
}

// Events returns the decoded change-event stream. The channel is
// closed when Start returns.
func (l *Listener) Events() <-chan ChangeEvent {
	return l.events
}

// Start pumps notifications into the event channel until ctx is
// cancelled.
func (l *Listener) Start(ctx context.Context) error {
	defer close(l.events)

	pingTicker := time.NewTicker(l.cfg.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("timer store listener shutting down")
			return l.Stop()
		case note := <-l.listener.Notify:
			if note == nil {
				// nil notification means the connection was lost and
				// re-established; pq.Listener re-LISTENs for us.
				continue
			}
			event, err := DecodeChangeEvent(note.Extra)
			if err != nil {
				log.Error().Err(err).Str("payload", note.Extra).Msg("bad change notification")
				continue
			}
			select {
			case l.events <- event:
			case <-ctx.Done():
				return l.Stop()
			}
		case <-pingTicker.C:
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping timer store listener")
			}
		}
	}
}

// Stop closes the underlying pq listener.
func (l *Listener) Stop() error {
	return l.listener.Close()
}
