package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type MemoryStore struct {
	cache *expirable.LRU[string, []byte]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	snapshot, ok := m.cache.Get(sessionID)
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), snapshot...), nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, snapshot []byte) error {
	m.cache.Add(sessionID, append([]byte(nil), snapshot...))
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, sessionID string) error {
	m.cache.Remove(sessionID)
	return nil
}
