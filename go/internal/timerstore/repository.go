package timerstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mcdev12/halftimer/go/internal/models"
)

// Repository implements halftime record data access. The conflict key
// is game_id and inserts use DO NOTHING, so the first written
// timestamp wins; a racing duplicate insert collapses to one record
// without resetting the timestamp.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new halftime timer repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateIfAbsent inserts a halftime record unless one already exists
// for the game. It reports whether a new record was written.
func (r *Repository) CreateIfAbsent(ctx context.Context, gameID string, startTimestamp int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        INSERT INTO halftime_timers (game_id, halftime_start_timestamp)
        VALUES ($1, $2)
        ON CONFLICT (game_id) DO NOTHING
    `, gameID, startTimestamp)
	if err != nil {
		return false, fmt.Errorf("failed to create halftime record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows == 1, nil
}

// Delete removes the halftime record for a game. Deleting an absent
// record is not an error.
func (r *Repository) Delete(ctx context.Context, gameID string) error {
	if _, err := r.db.ExecContext(ctx, `
        DELETE FROM halftime_timers WHERE game_id = $1
    `, gameID); err != nil {
		return fmt.Errorf("failed to delete halftime record: %w", err)
	}
	return nil
}

// ListAll returns every current halftime record.
func (r *Repository) ListAll(ctx context.Context) ([]models.HalftimeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT game_id, halftime_start_timestamp FROM halftime_timers
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to list halftime records: %w", err)
	}
	defer rows.Close()

	var records []models.HalftimeRecord
	for rows.Next() {
		var record models.HalftimeRecord
		if err := rows.Scan(&record.GameID, &record.StartTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan halftime record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate halftime records: %w", err)
	}
	return records, nil
}

// Get returns the halftime record for a game, or sql.ErrNoRows.
func (r *Repository) Get(ctx context.Context, gameID string) (*models.HalftimeRecord, error) {
	var record models.HalftimeRecord
	err := r.db.QueryRowContext(ctx, `
        SELECT game_id, halftime_start_timestamp FROM halftime_timers WHERE game_id = $1
    `, gameID).Scan(&record.GameID, &record.StartTimestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to get halftime record: %w", err)
	}
	return &record, nil
}
