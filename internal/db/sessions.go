package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SaveSession upserts the JSON snapshot of a session.
func (db *DB) SaveSession(ctx context.Context, id, step string, state []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sessions (id, step, state)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (id) DO UPDATE SET step = $2, state = $3::jsonb, updated_at = NOW()`,
		id, step, string(state),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// LoadSession returns the stored snapshot, or ErrNotFound.
func (db *DB) LoadSession(ctx context.Context, id string) ([]byte, error) {
	var state string
	err := db.pool.QueryRow(ctx,
		`SELECT state::text FROM sessions WHERE id = $1`,
		id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return []byte(state), nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// PurgeSessionsBefore deletes sessions not updated since cutoff and returns how many went.
func (db *DB) PurgeSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
