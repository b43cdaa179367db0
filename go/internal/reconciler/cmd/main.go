package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/mcdev12/halftimer/go/clients/espn_client"
	"github.com/mcdev12/halftimer/go/internal/dbconfig"
	"github.com/mcdev12/halftimer/go/internal/reconciler"
	"github.com/mcdev12/halftimer/go/internal/scoreboard"
	"github.com/mcdev12/halftimer/go/internal/sports/base"
	"github.com/mcdev12/halftimer/go/internal/timerstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/mcdev12/halftimer/go/internal/sports/nba" // register plugin
	_ "github.com/mcdev12/halftimer/go/internal/sports/nfl" // register plugin
)

// Standalone reconciliation job. It shares the timer store with the
// halftimer server; store changes reach viewers through the database
// trigger, so this process needs no bus connection of its own.
func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	dbConfig := dbconfig.NewConfigFromEnv()
	database, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create database connection")
	}
	defer database.Close()
	if err := database.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	repo := timerstore.NewRepository(database)
	timerApp := timerstore.NewApp(repo)

	client := espn_client.NewEspnClient()
	var feeds []reconciler.SportFeed
	for _, key := range base.Keys() {
		plugin, err := base.GetPlugin(key)
		if err != nil {
			log.Fatal().Err(err).Str("sport", key).Msg("failed to get sport plugin")
		}
		feeds = append(feeds, scoreboard.NewService(client, plugin.Key(), plugin.FeedPath()))
	}

	interval := reconciler.DefaultInterval
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}

	rec := reconciler.New(timerApp, feeds, clockwork.NewRealClock())
	runner := reconciler.NewRunner(rec, interval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runner.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start reconciler")
	}

	<-ctx.Done()
	if err := runner.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop reconciler")
	}
}
