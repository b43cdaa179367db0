package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/halftimer/go/internal/sports/base"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Sports struct {
		EnabledPlugins []string `yaml:"enabled_plugins"`
	} `yaml:"sports"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

func setupSportsPlugins(config *Config) (map[string]base.SportPlugin, error) {
	plugins := make(map[string]base.SportPlugin)
	for _, key := range config.Sports.EnabledPlugins {
		plg, err := base.GetPlugin(key)
		if err != nil {
			return nil, fmt.Errorf("failed to get plugin %s: %w", key, err)
		}

		log.Info().Str("sport", key).Msg("loaded sport plugin")
		plugins[key] = plg
	}
	return plugins, nil
}
