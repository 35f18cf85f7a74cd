package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shadowstrength/storefront/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for i, want := range []bool{true, true, false} {
		allowed, count, err := client.FixedWindowAllow(ctx, "forms:1.2.3.4", 2, time.Second)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if allowed != want || count != int64(i+1) {
			t.Fatalf("call %d: allowed=%v count=%d", i, allowed, count)
		}
	}
	if got := mock.ttls["ss:rate_limit:forms:1.2.3.4"]; got != time.Second {
		t.Fatalf("expected window to start on first hit, got ttl %v", got)
	}
	if _, _, err := client.FixedWindowAllow(ctx, "forms", 1, 0); err == nil {
		t.Fatal("expected error for empty window")
	}
}

func TestFixedWindowAllowSurfacesScriptErrors(t *testing.T) {
	mock := newMockCmdable()
	mock.evalErr = errors.New("NOSCRIPT")
	client := &Client{store: mock}

	if _, _, err := client.FixedWindowAllow(context.Background(), "forms", 1, time.Minute); err == nil {
		t.Fatal("expected script error")
	}
}

func TestEntryLifecycleSlidesExpiry(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := StorageKey("sess-1", "cart-store")

	if err := client.SetEntry(ctx, "sess-1", "cart-store", `[]`, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mock.ttls[key] = time.Minute

	value, err := client.GetEntry(ctx, "sess-1", "cart-store", time.Hour)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `[]` {
		t.Fatalf("expected stored value, got %q", value)
	}
	if mock.ttls[key] != time.Hour {
		t.Fatalf("expected read to refresh ttl, got %v", mock.ttls[key])
	}

	if err := client.DeleteEntry(ctx, "sess-1", "cart-store"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := client.GetEntry(ctx, "sess-1", "cart-store", time.Hour); !errors.Is(err, Nil) {
		t.Fatalf("expected Nil after delete, got %v", err)
	}
	if err := client.DeleteEntry(ctx, "sess-1", "cart-store"); err != nil {
		t.Fatalf("deleting a missing entry should succeed, got %v", err)
	}
}

func TestLockAcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, err := client.AcquireLock(ctx, "storage-purge", "owner-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to win, ok=%v err=%v", ok, err)
	}
	if ok, _ := client.AcquireLock(ctx, "storage-purge", "owner-b", time.Minute); ok {
		t.Fatal("expected second acquire to lose")
	}

	released, err := client.ReleaseLock(ctx, "storage-purge", "owner-b")
	if err != nil || released {
		t.Fatalf("non-owner must not release, released=%v err=%v", released, err)
	}
	if mock.data["ss:lock:storage-purge"] != "owner-a" {
		t.Fatalf("expected owner-a to hold the lock, got %q", mock.data["ss:lock:storage-purge"])
	}

	released, err = client.ReleaseLock(ctx, "storage-purge", "owner-a")
	if err != nil || !released {
		t.Fatalf("owner release failed, released=%v err=%v", released, err)
	}
	if ok, _ := client.AcquireLock(ctx, "storage-purge", "owner-b", time.Minute); !ok {
		t.Fatal("expected lock to be free after release")
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	ctx := context.Background()
	if err := client.Ping(ctx); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.GetEntry(ctx, "s", "k", 0); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.AcquireLock(ctx, "l", "t", time.Second); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close without connection should be a no-op, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	cases := map[string]string{
		StorageKey("sess", "cookie-consent"): "ss:storage:sess:cookie-consent",
		StorageKey("", "cart-store"):         "ss:storage:cart-store",
		RateLimitKey(" scope "):              "ss:rate_limit:scope",
		LockKey("cron-worker:prod"):          "ss:lock:cron-worker:prod",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/3", PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 3 || opts.PoolSize != 7 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 2, ReadTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.ReadTimeout != 2*time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}
}

// mockCmdable emulates the handful of commands and the two scripts the
// client sends.
type mockCmdable struct {
	data    map[string]string
	ttls    map[string]time.Duration
	evalErr error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) GetEx(_ context.Context, key string, ttl time.Duration) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	m.ttls[key] = ttl
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return redis.NewIntResult(n, nil)
}

func (m *mockCmdable) Eval(_ context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if m.evalErr != nil {
		return redis.NewCmdResult(nil, m.evalErr)
	}
	key := keys[0]
	switch script {
	case incrWindowScript:
		n, _ := strconv.ParseInt(m.data[key], 10, 64)
		n++
		m.data[key] = strconv.FormatInt(n, 10)
		if n == 1 {
			m.ttls[key] = time.Duration(args[0].(int64)) * time.Millisecond
		}
		return redis.NewCmdResult(n, nil)
	case releaseLockScript:
		if m.data[key] != args[0].(string) {
			return redis.NewCmdResult(int64(0), nil)
		}
		delete(m.data, key)
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(nil, errors.New("unknown script"))
}
