package viewer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/halftimer/go/internal/events"
	"github.com/mcdev12/halftimer/go/internal/mirror"
	"github.com/rs/zerolog/log"
)

// SubscriberConfig holds settings for the gateway subscription.
type SubscriberConfig struct {
	GatewayURL    string // ws:// URL of the gateway timer endpoint
	DialTimeout   time.Duration
	ReconnectWait time.Duration
}

func DefaultSubscriberConfig(gatewayURL string) SubscriberConfig {
	return SubscriberConfig{
		GatewayURL:    gatewayURL,
		DialTimeout:   10 * time.Second,
		ReconnectWait: 2 * time.Second,
	}
}

// Subscriber maintains the store mirror from the gateway's WebSocket
// event stream. On connect the gateway sends a full snapshot, so a
// reconnect also resynchronizes the mirror.
type Subscriber struct {
	cfg      SubscriberConfig
	mirror   *mirror.Mirror
	onChange func(gameID string)
}

// NewSubscriber creates a subscriber feeding the given mirror. The
// onChange callback fires after every applied event; a game ID is
// passed for set/clear events and "" for full syncs.
func NewSubscriber(cfg SubscriberConfig, m *mirror.Mirror, onChange func(gameID string)) *Subscriber {
	return &Subscriber{
		cfg:      cfg,
		mirror:   m,
		onChange: onChange,
	}
}

// Run dials the gateway and pumps events into the mirror until ctx is
// cancelled, reconnecting on failure.
func (s *Subscriber) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if err := s.consumeOnce(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("gateway subscription lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.ReconnectWait):
		}
	}
}

func (s *Subscriber) consumeOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.GatewayURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Str("url", s.cfg.GatewayURL).Msg("subscribed to timer events")

	// Close the connection when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env events.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Error().Err(err).Msg("bad timer event from gateway")
			continue
		}

		if err := s.mirror.ApplyEnvelope(env); err != nil {
			log.Error().Err(err).Str("event_id", env.EventID).Msg("failed to apply timer event")
			continue
		}

		if s.onChange != nil {
			s.onChange(env.GameID)
		}
	}
}
