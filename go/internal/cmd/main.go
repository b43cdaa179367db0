package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/halftimer/go/internal/dbconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/mcdev12/halftimer/go/internal/sports/nba" // register plugin
	_ "github.com/mcdev12/halftimer/go/internal/sports/nfl" // register plugin
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	plugins, err := setupSportsPlugins(config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup sport plugins")
	}

	dbConfig := dbconfig.NewConfigFromEnv()
	database, err := setupDatabase(dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup database")
	}
	defer database.Close()

	services, err := setupServices(database, dbConfig, plugins)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup services")
	}
	defer services.Publisher.Close()
	defer services.EventConsumer.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		services.ConnectionManager.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := services.EventConsumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event consumer failed")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := services.Listener.Start(ctx); err != nil {
			log.Error().Err(err).Msg("store listener failed")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := services.Relay.Start(ctx); err != nil {
			log.Error().Err(err).Msg("timer relay failed")
		}
	}()

	for _, poller := range services.Pollers {
		p := poller
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(ctx)
		}()
	}

	if err := services.Reconciler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start reconciler")
	}

	server := setupServer(services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("halftimer server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := services.Reconciler.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop reconciler")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	wg.Wait()
	log.Info().Msg("halftimer server stopped")
}
