package timerstore

import (
	"context"

	"github.com/mcdev12/halftimer/go/internal/models"
)

// TimerRepository defines what the app layer needs from the repository.
type TimerRepository interface {
	CreateIfAbsent(ctx context.Context, gameID string, startTimestamp int64) (bool, error)
	Delete(ctx context.Context, gameID string) error
	ListAll(ctx context.Context) ([]models.HalftimeRecord, error)
}

// App exposes the shared timer store operations. Creation and deletion
// belong to the reconciliation job; every other consumer is read-only.
type App struct {
	repo TimerRepository
}

// NewApp creates a new timer store App.
func NewApp(repo TimerRepository) *App {
	return &App{repo: repo}
}

// CreateIfAbsent writes the halftime start for a game unless one is
// already recorded. First write wins.
func (a *App) CreateIfAbsent(ctx context.Context, gameID string, startTimestamp int64) (bool, error) {
	return a.repo.CreateIfAbsent(ctx, gameID, startTimestamp)
}

// Delete clears the halftime record for a game.
func (a *App) Delete(ctx context.Context, gameID string) error {
	return a.repo.Delete(ctx, gameID)
}

// Snapshot returns all current records keyed by game ID.
func (a *App) Snapshot(ctx context.Context) (map[string]int64, error) {
	records, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]int64, len(records))
	for _, record := range records {
		snapshot[record.GameID] = record.StartTimestamp
	}
	return snapshot, nil
}

// ListAll returns all current halftime records.
func (a *App) ListAll(ctx context.Context) ([]models.HalftimeRecord, error) {
	return a.repo.ListAll(ctx)
}
