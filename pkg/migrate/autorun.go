package migrate

import (
	"context"
	"fmt"

	"github.com/shadowstrength/storefront/pkg/config"
	"github.com/shadowstrength/storefront/pkg/db"
	"github.com/shadowstrength/storefront/pkg/logger"
)

// MaybeRun brings the schema up to date at boot when the sql driver is in use
// and SHADOW_STORAGE_AUTO_MIGRATE is set.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.Storage.Driver != config.StorageDriverSQL || !cfg.Storage.AutoMigrate {
		return nil
	}
	if err := ValidateEmbedded(); err != nil {
		return fmt.Errorf("embedded migrations: %w", err)
	}
	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}
	migrator, err := New(sqlDB, client.Dialect())
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "dialect", client.Dialect())
	applied, err := migrator.Up(ctx)
	LogSteps(ctx, logg, applied)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", len(applied)), "schema up to date")
	return nil
}

// LogSteps writes one line per migration step.
func LogSteps(ctx context.Context, logg *logger.Logger, steps []Step) {
	for _, step := range steps {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"version":     step.Version,
			"file":        step.File,
			"direction":   step.Direction,
			"duration_ms": step.Duration.Milliseconds(),
		}), "migration applied")
	}
}
