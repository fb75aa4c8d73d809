package names

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkeye/Lobby/internal/config"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "test:")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "names.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  newRedisStore(t),
		"sqlite": newSQLiteStore(t),
	}
}

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "u1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "u1", "alice"))
			got, ok, err := s.Get(ctx, "u1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "alice", got)

			require.NoError(t, s.Set(ctx, "u1", "alice2"))
			got, _, err = s.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "alice2", got, "last write wins")

			_, ok, err = s.Get(ctx, "u2")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						assert.NoError(t, s.Set(ctx, "shared", "n"))
						_, _, err := s.Get(ctx, "shared")
						assert.NoError(t, err)
					}
				}()
			}
			wg.Wait()
		})
	}
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "u1", "bob"))
	got, err := mr.Get(DefaultRedisPrefix + "u1")
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "names.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "u1", "carol"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "carol", got)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

type failingStore struct{ MemoryStore }

func (*failingStore) Get(context.Context, domain.UserID) (string, bool, error) {
	return "", false, errors.New("boom")
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	u := domain.User{ID: "u1", Username: "guest-u1"}

	s := NewMemoryStore()
	assert.Equal(t, u, Resolve(ctx, s, u))

	require.NoError(t, s.Set(ctx, "u1", "alice"))
	assert.Equal(t, "alice", Resolve(ctx, s, u).Username)
	assert.Equal(t, "guest-u1", u.Username, "input is not mutated")

	assert.Equal(t, u, Resolve(ctx, nil, u))
	assert.Equal(t, u, Resolve(ctx, &failingStore{}, u))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.NamesConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	mr := miniredis.RunT(t)
	s, err = Open(ctx, config.NamesConfig{Backend: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, config.NamesConfig{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "n.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.NamesConfig{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
