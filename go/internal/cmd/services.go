package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/clients/espn_client"
	"github.com/mcdev12/halftimer/go/internal/cache"
	"github.com/mcdev12/halftimer/go/internal/dbconfig"
	"github.com/mcdev12/halftimer/go/internal/gateway"
	"github.com/mcdev12/halftimer/go/internal/reconciler"
	"github.com/mcdev12/halftimer/go/internal/relay"
	"github.com/mcdev12/halftimer/go/internal/scoreboard"
	"github.com/mcdev12/halftimer/go/internal/sports/base"
	"github.com/mcdev12/halftimer/go/internal/timerstore"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Services struct {
	TimerApp          *timerstore.App
	Listener          *timerstore.Listener
	Publisher         *relay.JetStreamPublisher
	Relay             *relay.Relay
	Reconciler        *reconciler.Runner
	ConnectionManager *gateway.ConnectionManager
	EventConsumer     *gateway.EventConsumer
	WebSocket         *gateway.WebSocketHandler
	REST              *gateway.RESTHandler
	Cache             *cache.ScoreboardCache
	Pollers           []*scoreboard.Poller
}

func setupServices(database *sql.DB, dbConfig dbconfig.Config, plugins map[string]base.SportPlugin) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → transport surfaces
	clock := clockwork.NewRealClock()

	repo := timerstore.NewRepository(database)
	timerApp := timerstore.NewApp(repo)

	// Score feed + reconciliation
	client := espn_client.NewEspnClient()
	feeds := make([]reconciler.SportFeed, 0, len(plugins))
	for _, plugin := range plugins {
		feeds = append(feeds, scoreboard.NewService(client, plugin.Key(), plugin.FeedPath()))
	}
	rec := reconciler.New(timerApp, feeds, clock)
	runner := reconciler.NewRunner(rec, getEnvAsDuration("RECONCILE_INTERVAL", reconciler.DefaultInterval))

	// Store change stream → event bus
	listener, err := timerstore.NewListener(timerstore.DefaultListenerConfig(dbConfig.DSN()))
	if err != nil {
		return nil, fmt.Errorf("failed to create store listener: %w", err)
	}

	publisherConfig := relay.DefaultJetStreamConfig()
	publisherConfig.URL = getEnv("NATS_URL", publisherConfig.URL)
	publisher, err := relay.NewJetStreamPublisher(publisherConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	timerRelay := relay.New(listener.Events(), timerApp, publisher, relay.DefaultConfig())

	// Event bus → viewer WebSockets
	connectionManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())

	consumerConfig := gateway.DefaultJetStreamConsumerConfig()
	consumerConfig.URL = getEnv("NATS_URL", consumerConfig.URL)
	eventConsumer, err := gateway.NewEventConsumer(connectionManager, consumerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}

	// Scoreboard cache for the REST surface
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	scoreboardCache := cache.NewScoreboardCache(redisClient)

	pollInterval := getEnvAsDuration("POLL_INTERVAL", scoreboard.DefaultPollInterval)
	pollers := make([]*scoreboard.Poller, 0, len(plugins))
	for _, plugin := range plugins {
		service := scoreboard.NewService(client, plugin.Key(), plugin.FeedPath())
		poller := scoreboard.NewPoller(service, plugin.Key(), pollInterval, clock)

		key := plugin.Key()
		poller.OnUpdate(func(snapshot scoreboard.Snapshot) {
			if snapshot.Err != nil {
				return
			}
			if err := scoreboardCache.WriteGames(context.Background(), key, snapshot.Games); err != nil {
				log.Error().Err(err).Str("sport", key).Msg("failed to cache scoreboard")
			}
		})
		pollers = append(pollers, poller)
	}

	return &Services{
		TimerApp:          timerApp,
		Listener:          listener,
		Publisher:         publisher,
		Relay:             timerRelay,
		Reconciler:        runner,
		ConnectionManager: connectionManager,
		EventConsumer:     eventConsumer,
		WebSocket:         gateway.NewWebSocketHandler(connectionManager, timerApp),
		REST:              gateway.NewRESTHandler(timerApp, scoreboardCache),
		Cache:             scoreboardCache,
		Pollers:           pollers,
	}, nil
}
