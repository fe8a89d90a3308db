package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store persists session snapshots by id.
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

// NotFoundError is returned by Load for an unknown session id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", e.ID)
}

// UserMessage is safe to show to the user.
func (e *NotFoundError) UserMessage() string {
	return "Session not found. Start a new analysis."
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Create saves a default state under a fresh id.
func Create(ctx context.Context, store Store) (string, State, error) {
	id := NewID()
	state := DefaultState()
	if err := store.Save(ctx, id, state); err != nil {
		return "", State{}, err
	}
	return id, state, nil
}
