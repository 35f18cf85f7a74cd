// Package kvstore provides the session-scoped key-value storage that backs the
// cart, checkout flow and consent flag. Each scope is an isolated key space,
// the server-side counterpart of a browser origin's local storage.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is implemented by every storage backend.
type Store interface {
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
}
