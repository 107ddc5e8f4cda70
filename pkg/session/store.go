package session

import (
	"context"
	"time"
)

// SessionStore persists serialized visitor snapshots.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Save persists data under sessionID until expiresAt, overwriting any
	// previous value.
	Save(ctx context.Context, sessionID string, data []byte, expiresAt time.Time) error

	// Load returns the data for sessionID.
	// Returns (nil, nil) if the session doesn't exist or has expired.
	Load(ctx context.Context, sessionID string) ([]byte, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Touch extends a session's expiration without rewriting its data.
	// Touching a missing session is not an error.
	Touch(ctx context.Context, sessionID string, expiresAt time.Time) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "session store is closed"
}
