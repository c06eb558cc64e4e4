package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisDocument keeps a Document as a JSON string under one key.
type RedisDocument[T any] struct {
	client *redis.Client
	key    string
}

// NewRedisDocument connects to url (redis://host:port/db) and verifies the
// connection.
func NewRedisDocument[T any](ctx context.Context, url, key string) (*RedisDocument[T], error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisDocument[T]{client: client, key: key}, nil
}

func (d *RedisDocument[T]) Load(ctx context.Context) (T, bool, error) {
	var v T

	raw, err := d.client.Get(ctx, d.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("reading %s: %w", d.key, err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("unmarshalling %s: %w", d.key, err)
	}
	return v, true, nil
}

func (d *RedisDocument[T]) Store(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}
	if err := d.client.Set(ctx, d.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", d.key, err)
	}
	return nil
}

func (d *RedisDocument[T]) Close() error {
	return d.client.Close()
}
