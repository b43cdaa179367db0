package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/halftimer/go/internal/favorites"
	"github.com/mcdev12/halftimer/go/internal/viewer"
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
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	gatewayURL := flag.String("gateway", getEnv("GATEWAY_WS_URL", "ws://localhost:8080/ws/timers"), "gateway timer WebSocket URL")
	sportsFlag := flag.String("sports", getEnv("SPORTS", "nfl,nba"), "comma-separated sport keys")
	pollInterval := flag.Duration("poll", 20*time.Second, "scoreboard poll interval")
	toggleFavorite := flag.String("toggle-favorite", "", "flip a game's favorite status and exit")
	flag.Parse()

	favPath, err := favorites.DefaultPath()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve favorites path")
	}

	if *toggleFavorite != "" {
		store, err := favorites.Load(favPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load favorites")
		}
		favorited, err := store.Toggle(*toggleFavorite)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to save favorites")
		}
		if favorited {
			fmt.Printf("favorited %s\n", *toggleFavorite)
		} else {
			fmt.Printf("unfavorited %s\n", *toggleFavorite)
		}
		return
	}

	cfg := viewer.Config{
		GatewayURL:    *gatewayURL,
		Sports:        strings.Split(*sportsFlag, ","),
		PollInterval:  *pollInterval,
		RenderEvery:   time.Second,
		FavoritesPath: favPath,
	}

	app, err := viewer.NewApp(cfg, clockwork.NewRealClock())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create viewer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("viewer session failed")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
