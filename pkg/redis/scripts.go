package redis

import (
	"context"
	"fmt"
	"time"
)

// incrWindowScript increments a counter and starts its window on the first
// hit, atomically.
const incrWindowScript = `
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n`

// releaseLockScript deletes the lock only while it still holds our token.
const releaseLockScript = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0`

// FixedWindowAllow counts one hit against scope and reports whether the
// window is still under limit.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errNotInitialized
	}
	if window <= 0 {
		return false, 0, fmt.Errorf("rate limit window must be positive")
	}
	count, err := c.store.Eval(ctx, incrWindowScript, []string{RateLimitKey(scope)}, window.Milliseconds()).Int64()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", scope, err)
	}
	return count <= limit, count, nil
}

// AcquireLock takes the named lock for ttl when nobody holds it.
func (c *Client) AcquireLock(ctx context.Context, name, token string, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	return c.store.SetNX(ctx, LockKey(name), token, ttl).Result()
}

// ReleaseLock reports false when the lock had expired or changed hands.
func (c *Client) ReleaseLock(ctx context.Context, name, token string) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	deleted, err := c.store.Eval(ctx, releaseLockScript, []string{LockKey(name)}, token).Int64()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}
