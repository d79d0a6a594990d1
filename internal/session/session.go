package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Store keeps one serialized catalog snapshot per browsing session.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, snapshot []byte) error
	Clear(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")

// NewID returns id, or a random one when id is empty.
func NewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
