package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLockTTL = 10 * time.Minute

// Lock makes sure one worker sweeps at a time.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// LocalLock always grants the lock. It is enough for a single worker.
type LocalLock struct{}

func (LocalLock) Acquire(context.Context) (bool, error) { return true, nil }
func (LocalLock) Release(context.Context) error         { return nil }

type lockBackend interface {
	AcquireLock(ctx context.Context, name, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, token string) (bool, error)
}

// RedisLock is a named lease in Redis. Each Acquire mints a fresh token and
// only that token can release the lease; an unreleased lease lapses after ttl.
type RedisLock struct {
	backend lockBackend
	name    string
	ttl     time.Duration
	token   string
}

func NewRedisLock(backend lockBackend, name string, ttl time.Duration) (*RedisLock, error) {
	if backend == nil {
		return nil, errors.New("redis client required for lock")
	}
	if name == "" {
		return nil, errors.New("lock name is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{backend: backend, name: name, ttl: ttl}, nil
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.backend.AcquireLock(ctx, l.name, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", l.name, err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release is a no-op when this instance holds no lease. A lease that already
// lapsed or passed to another worker is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""
	if _, err := l.backend.ReleaseLock(ctx, l.name, token); err != nil {
		return fmt.Errorf("release lock %s: %w", l.name, err)
	}
	return nil
}
