package redis

import "strings"

const keyNamespace = "ss"

const (
	storagePrefix   = "storage"
	rateLimitPrefix = "rate_limit"
	lockPrefix      = "lock"
)

// StorageKey is where one session entry lives: ss:storage:<session>:<key>.
func StorageKey(scope, key string) string {
	return buildKey(storagePrefix, scope, key)
}

func RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

func LockKey(name string) string {
	return buildKey(lockPrefix, name)
}

// buildKey joins non-empty parts under the namespace.
func buildKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
