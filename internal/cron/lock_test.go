package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLocks struct {
	holders map[string]string
	ttls    map[string]time.Duration
	err     error
}

func newMemoryLocks() *memoryLocks {
	return &memoryLocks{holders: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryLocks) AcquireLock(_ context.Context, name, token string, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, held := m.holders[name]; held {
		return false, nil
	}
	m.holders[name] = token
	m.ttls[name] = ttl
	return true, nil
}

func (m *memoryLocks) ReleaseLock(_ context.Context, name, token string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.holders[name] != token {
		return false, nil
	}
	delete(m.holders, name)
	return true, nil
}

func TestRedisLockExclusive(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryLocks()
	first, err := NewRedisLock(backend, "cron-worker:prod", 0)
	require.NoError(t, err)
	second, err := NewRedisLock(backend, "cron-worker:prod", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, defaultLockTTL, backend.ttls["cron-worker:prod"])

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, second.Release(ctx))
	assert.Contains(t, backend.holders, "cron-worker:prod", "a loser's release must not drop the lease")

	require.NoError(t, first.Release(ctx))
	ok, _ = second.Acquire(ctx)
	assert.True(t, ok, "lease should be free after the owner releases")
}

func TestRedisLockReleaseAfterLapse(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryLocks()
	lock, err := NewRedisLock(backend, "purge", time.Minute)
	require.NoError(t, err)

	ok, _ := lock.Acquire(ctx)
	require.True(t, ok)
	backend.holders["purge"] = "another-worker"

	require.NoError(t, lock.Release(ctx))
	assert.Equal(t, "another-worker", backend.holders["purge"])
	require.NoError(t, lock.Release(ctx), "second release is a no-op")
}

func TestRedisLockWrapsBackendErrors(t *testing.T) {
	backend := newMemoryLocks()
	backend.err = errors.New("connection reset")
	lock, err := NewRedisLock(backend, "purge", 0)
	require.NoError(t, err)

	_, err = lock.Acquire(context.Background())
	assert.ErrorContains(t, err, "acquire lock purge")
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", 0)
	assert.Error(t, err)
	_, err = NewRedisLock(newMemoryLocks(), "", 0)
	assert.Error(t, err)
}
