package names

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "lobby:name:"

// RedisStore keeps names as plain string keys without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(client, prefix), nil
}

func (s *RedisStore) key(id domain.UserID) string { return s.prefix + string(id) }

func (s *RedisStore) Get(ctx context.Context, id domain.UserID) (string, bool, error) {
	name, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("name get error: %w", err)
	}
	return name, true, nil
}

func (s *RedisStore) Set(ctx context.Context, id domain.UserID, name string) error {
	if err := s.client.Set(ctx, s.key(id), name, 0).Err(); err != nil {
		return fmt.Errorf("name set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
