package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store is a client-local set of favorited game IDs, persisted as a
// JSON file. It only affects display ordering and takes no part in the
// timer coordination protocol.
type Store struct {
	path string

	mu  sync.Mutex
	ids map[string]bool
}

// DefaultPath places the favorites file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "halftimer", "favorites.json"), nil
}

// Load opens (or initializes) the favorites file at path.
func Load(path string) (*Store, error) {
	s := &Store{
		path: path,
		ids:  make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse favorites: %w", err)
	}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s, nil
}

// Contains reports whether a game is favorited.
func (s *Store) Contains(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[gameID]
}

// Toggle flips a game's favorite status and persists the set. It
// returns the new status.
func (s *Store) Toggle(gameID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ids[gameID] {
		delete(s.ids, gameID)
	} else {
		s.ids[gameID] = true
	}
	favorited := s.ids[gameID]

	if err := s.saveLocked(); err != nil {
		return favorited, err
	}
	return favorited, nil
}

func (s *Store) saveLocked() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create favorites dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	return nil
}
