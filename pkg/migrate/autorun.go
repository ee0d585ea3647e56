package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/coupon-engine/pkg/config"
	"github.com/angelmondragon/coupon-engine/pkg/db"
	"github.com/angelmondragon/coupon-engine/pkg/db/models"
	"github.com/angelmondragon/coupon-engine/pkg/logger"
	"gorm.io/gorm"
)

// MaybeRunDev brings the schema up to date at boot when running in dev with
// auto-migrate on, or whenever the SQLite store is selected.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "migrate.sqlite_automigrate")
		return AutoMigrate(client.DB())
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})
	logg.Info(ctx, "migrate.goose_up_started")

	if err := Run(ctx, sqlDB, client.Dialect(), "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.goose_up_completed")
	return nil
}

// AutoMigrate creates the schema from the GORM models. Used for SQLite, where
// the Postgres migrations do not apply.
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.Coupon{}); err != nil {
		return fmt.Errorf("auto migrate coupons: %w", err)
	}
	return nil
}
