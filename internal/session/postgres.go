package session

import (
	"context"
	"errors"

	"github.com/jonathan/resume-auditor/internal/db"
)

// PostgresStore keeps snapshots in the sessions table.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// Load implements Store.
func (p *PostgresStore) Load(ctx context.Context, id string) (State, error) {
	data, err := p.db.LoadSession(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return State{}, &NotFoundError{ID: id}
		}
		return State{}, err
	}
	return Decode(data), nil
}

// Save implements Store.
func (p *PostgresStore) Save(ctx context.Context, id string, state State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	return p.db.SaveSession(ctx, id, string(state.Step), data)
}

// Delete implements Store.
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	return p.db.DeleteSession(ctx, id)
}
