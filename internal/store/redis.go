package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps each key under "<prefix>:<key>" with no expiry.
type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisKV{client: client, prefix: prefix}
}

func OpenRedis(ctx context.Context, addr, prefix string) (*RedisKV, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis backend: missing address")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisKV(client, prefix), nil
}

func (s *RedisKV) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisKV) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
