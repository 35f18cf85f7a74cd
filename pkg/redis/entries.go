package redis

import (
	"context"
	"time"
)

// GetEntry reads a session entry and slides its expiry forward by ttl
// (GETEX, Redis 6.2+). ttl <= 0 clears any expiry, matching SetEntry.
func (c *Client) GetEntry(ctx context.Context, scope, key string, ttl time.Duration) (string, error) {
	if c.store == nil {
		return "", errNotInitialized
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.store.GetEx(ctx, StorageKey(scope, key), ttl).Result()
}

func (c *Client) SetEntry(ctx context.Context, scope, key, value string, ttl time.Duration) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Set(ctx, StorageKey(scope, key), value, ttl).Err()
}

// DeleteEntry succeeds when the entry is already gone.
func (c *Client) DeleteEntry(ctx context.Context, scope, key string) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Del(ctx, StorageKey(scope, key)).Err()
}
