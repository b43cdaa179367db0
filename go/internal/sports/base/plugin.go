package base

import (
	"fmt"
	"sync"
	"time"
)

// SportPlugin defines the interface each sport plugin must implement.
type SportPlugin interface {
	// Key is the registry key, e.g. "nfl".
	Key() string
	// FeedPath is the upstream scoreboard path, e.g. "football/nfl".
	FeedPath() string
	// HalftimeDuration is the fixed halftime window length for this
	// sport. A policy constant, never derived from feed data.
	HalftimeDuration() time.Duration
	// AbbreviateTeam shortens a full team display name for rendering.
	// Unknown names are returned unchanged.
	AbbreviateTeam(fullName string) string
}

var (
	registry   = make(map[string]SportPlugin)
	registryMu sync.RWMutex
)

// RegisterPlugin adds a plugin implementation under a key.
// It should be called in each sport plugin's init() function.
func RegisterPlugin(plugin SportPlugin) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	key := plugin.Key()
	if key == "" {
		return fmt.Errorf("plugin key cannot be empty")
	}
	if _, exists := registry[key]; exists {
		return fmt.Errorf("plugin already registered for key %q", key)
	}
	registry[key] = plugin
	return nil
}

// GetPlugin retrieves a plugin by key or returns an error if not found.
func GetPlugin(key string) (SportPlugin, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	plugin, exists := registry[key]
	if !exists {
		return nil, fmt.Errorf("no sport plugin registered for key %q", key)
	}
	return plugin, nil
}

// Keys returns the keys of all registered plugins.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	return keys
}
