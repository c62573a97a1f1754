package session

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=session

var ErrNotFound = errors.New("session not found")

// Store keeps session tokens server-side, keyed by the opaque id carried in
// the session cookie. Load returns ErrNotFound for unknown or expired ids.
type Store interface {
	Save(ctx context.Context, id, token string, ttl time.Duration) error
	Load(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
