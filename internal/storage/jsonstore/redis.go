package jsonstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "eats:doc:"

// RedisBackend хранит документ строкой под ключом eats:doc:<name> без TTL.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(ctx context.Context, addr string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return &RedisBackend{client: client}, nil
}

func (r *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "redis get %s", name)
	}
	return data, nil
}

func (r *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, redisKeyPrefix+name, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", name)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close() //nolint:wrapcheck
}
