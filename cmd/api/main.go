package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shadowstrength/storefront/api/controllers"
	"github.com/shadowstrength/storefront/api/middleware"
	"github.com/shadowstrength/storefront/api/routes"
	"github.com/shadowstrength/storefront/internal/cart"
	"github.com/shadowstrength/storefront/internal/catalog"
	"github.com/shadowstrength/storefront/internal/checkout"
	"github.com/shadowstrength/storefront/internal/consent"
	"github.com/shadowstrength/storefront/internal/inquiries"
	"github.com/shadowstrength/storefront/pkg/config"
	"github.com/shadowstrength/storefront/pkg/db"
	"github.com/shadowstrength/storefront/pkg/env"
	"github.com/shadowstrength/storefront/pkg/keylock"
	"github.com/shadowstrength/storefront/pkg/kvstore"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/metrics"
	"github.com/shadowstrength/storefront/pkg/migrate"
	"github.com/shadowstrength/storefront/pkg/redis"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefront(registry)
	if backend.db != nil {
		sqlDB, err := backend.db.SQL()
		if err != nil {
			logg.Error(ctx, "failed to read database pool", err)
			os.Exit(1)
		}
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "storefront"))
	}

	deps, err := buildDependencies(cfg, logg, backend, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}
	deps.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	addr := env.ListenAddr(cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.InstanceID(),
		"storage":  cfg.Storage.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}

// storage holds the selected session storage backend and the connections behind it.
type storage struct {
	kv    kvstore.Store
	redis *redis.Client
	db    *db.Client
	ready map[string]controllers.Pinger
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*storage, error) {
	s := &storage{ready: map[string]controllers.Pinger{}}

	if cfg.Redis.Configured() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		s.redis = client
		s.ready["redis"] = client
	}

	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		s.kv = kvstore.NewRedis(s.redis, cfg.Storage.TTL)
	case config.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, multierr.Append(err, s.Close())
		}
		s.db = client
		s.ready["database"] = client
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(err, s.Close())
		}
		s.kv = kvstore.NewSQL(client.DB(), cfg.Storage.TTL)
	default:
		s.kv = kvstore.NewMemory()
	}
	return s, nil
}

// Close releases every open connection and reports all failures together.
func (s *storage) Close() error {
	var err error
	if s.db != nil {
		err = multierr.Append(err, s.db.Close())
	}
	if s.redis != nil {
		err = multierr.Append(err, s.redis.Close())
	}
	return err
}

func buildDependencies(cfg *config.Config, logg *logger.Logger, backend *storage, m *metrics.Storefront) (routes.Dependencies, error) {
	locks := keylock.New()

	carts, err := cart.NewStore(backend.kv, logg, m)
	if err != nil {
		return routes.Dependencies{}, err
	}
	cartService, err := cart.NewService(carts, locks, logg, m)
	if err != nil {
		return routes.Dependencies{}, err
	}
	checkoutService, err := checkout.NewService(checkout.Options{
		Store:    backend.kv,
		Carts:    carts,
		Locks:    locks,
		Redirect: cfg.Checkout.CompletionRedirect,
		Logger:   logg,
		Metrics:  m,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}
	consentService, err := consent.NewService(backend.kv, logg, m)
	if err != nil {
		return routes.Dependencies{}, err
	}
	products, err := catalog.Default()
	if err != nil {
		return routes.Dependencies{}, err
	}

	deps := routes.Dependencies{
		Cart:      cartService,
		Checkout:  checkoutService,
		Consent:   consentService,
		Catalog:   products,
		Inquiries: inquiries.NewService(logg),
		Ready:     backend.ready,
	}
	// keep the interface nil when redis is absent
	var limiter middleware.RateLimiter
	if backend.redis != nil {
		limiter = backend.redis
	}
	deps.RateLimiter = limiter
	return deps, nil
}
