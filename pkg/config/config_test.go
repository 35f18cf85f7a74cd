package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Storage.Driver != StorageDriverMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Driver)
	}
	if got := cfg.Session.TTL; got != 720*time.Hour {
		t.Fatalf("expected session ttl 720h, got %v", got)
	}
	if cfg.Session.CookieName != "ss_session" {
		t.Fatalf("unexpected cookie name %q", cfg.Session.CookieName)
	}
	if cfg.Forms.RateWindow != 10*time.Minute || cfg.Forms.EmailLimit != 5 {
		t.Fatalf("unexpected forms config %+v", cfg.Forms)
	}
	if cfg.Checkout.CompletionRedirect != "index.html" {
		t.Fatalf("unexpected redirect %q", cfg.Checkout.CompletionRedirect)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "floppy")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to fail")
	}
}

func TestLoad_SQLBuildsDSNFromParts(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, StorageDriverSQL)
	t.Setenv(EnvDBHost, "db.local")
	t.Setenv(EnvDBUser, "shop")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://shop@db.local:5432/storefront?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", cfg.DB.DSN)
	}
}

func TestLoad_SQLiteRequiresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, StorageDriverSQL)
	t.Setenv(EnvDBDriver, DBDriverSQLite)

	if _, err := Load(); err == nil {
		t.Fatal("expected sqlite without dsn to fail")
	}
}

func TestLoad_RedisDriverRequiresEndpoint(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, StorageDriverRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without url or address to fail")
	}

	t.Setenv(EnvRedisAddr, "localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Redis.Configured() {
		t.Fatal("expected redis to report configured")
	}
	if cfg.Storage.PurgeInterval != time.Hour {
		t.Fatalf("unexpected purge interval %v", cfg.Storage.PurgeInterval)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvSessionSecret, "secret")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
