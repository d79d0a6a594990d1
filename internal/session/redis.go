package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisStore(redisClient *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for session %s: %w", sessionID, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	if err := s.redisClient.Set(ctx, s.key(sessionID), snapshot, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear snapshot for session %s: %w", sessionID, err)
	}
	return nil
}
