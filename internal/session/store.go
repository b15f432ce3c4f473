package session

import (
	"context"
	"time"
)

// Store persists sessions. Implementations return
// triz.ErrSessionNotFound (wrapped) when the id is unknown, and wrap
// backend failures in triz.ErrPersistence.
type Store interface {
	// Load returns the session with the given id.
	Load(ctx context.Context, id string) (*Session, error)
	// Save writes the full session record, replacing any previous state.
	Save(ctx context.Context, s *Session) error
	// Delete removes the session. Deleting an unknown id is an error.
	Delete(ctx context.Context, id string) error
	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)
	// Cleanup removes sessions not updated within maxAge and returns
	// how many were removed.
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
	// Close releases backend resources.
	Close() error
}
