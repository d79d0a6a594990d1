package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStore creates a miniredis server and a RedisStore pointing to it
func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
	})

	return NewRedisStore(client, "catalog:session:", 30*time.Minute), mr
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore(4, time.Minute)
		},
		"redis": func(t *testing.T) Store {
			store, _ := setupRedisStore(t)
			return store
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Load(ctx, "abc")
			assert.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, store.Save(ctx, "abc", []byte(`{"categories":[]}`)))
			data, err := store.Load(ctx, "abc")
			require.NoError(t, err)
			assert.JSONEq(t, `{"categories":[]}`, string(data))

			_, err = store.Load(ctx, "other")
			assert.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, store.Clear(ctx, "abc"))
			_, err = store.Load(ctx, "abc")
			assert.ErrorIs(t, err, ErrCacheMiss)

			// Clearing an unknown session is not an error
			assert.NoError(t, store.Clear(ctx, "nonexistent"))
		})
	}
}

func TestMemoryStoreCopiesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(4, time.Minute)

	snapshot := []byte("first")
	require.NoError(t, store.Save(ctx, "abc", snapshot))
	snapshot[0] = 'F'

	data, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(4, 10*time.Millisecond)

	require.NoError(t, store.Save(ctx, "abc", []byte("x")))
	assert.Eventually(t, func() bool {
		_, err := store.Load(ctx, "abc")
		return err == ErrCacheMiss
	}, time.Second, 5*time.Millisecond)
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, store.Save(context.Background(), "abc", []byte("x")))

	assert.True(t, mr.Exists("catalog:session:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("catalog:session:abc"))

	mr.FastForward(31 * time.Minute)
	_, err := store.Load(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	_, err := store.Load(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNewID(t *testing.T) {
	assert.Equal(t, "fixed", NewID("fixed"))

	first, second := NewID(""), NewID("")
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}
