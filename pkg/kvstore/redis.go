package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/shadowstrength/storefront/pkg/redis"
)

type redisBackend interface {
	GetEntry(ctx context.Context, scope, key string, ttl time.Duration) (string, error)
	SetEntry(ctx context.Context, scope, key, value string, ttl time.Duration) error
	DeleteEntry(ctx context.Context, scope, key string) error
	Ping(ctx context.Context) error
}

// Redis keeps each entry under its own key. Every read or write pushes the
// expiry out to ttl, so only idle sessions lose their data.
type Redis struct {
	client redisBackend
	ttl    time.Duration
}

func NewRedis(client redisBackend, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, scope, key string) (string, error) {
	value, err := r.client.GetEntry(ctx, scope, key, r.ttl)
	switch {
	case errors.Is(err, pkgredis.Nil):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, scope, key, value string) error {
	if err := r.client.SetEntry(ctx, scope, key, value, r.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, scope, key string) error {
	if err := r.client.DeleteEntry(ctx, scope, key); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
