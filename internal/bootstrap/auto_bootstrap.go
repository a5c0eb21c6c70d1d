package bootstrap

import (
	"context"

	"github.com/linguahub/linguahub/internal/config"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/linguahub/linguahub/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureDefaultRateTable loads the default rate table on startup when
// explicitly enabled and the table is still empty. It is meant for local and
// demo setups; production tables are managed through the rates API.
func EnsureDefaultRateTable(lc fx.Lifecycle, cfg config.Config, db *gorm.DB, repo ratedomain.Repository, log *zap.Logger) {
	if !cfg.Bootstrap.SeedDefaultRates {
		return
	}
	log = log.Named("bootstrap")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return seedIfEmpty(ctx, db, repo, log)
		},
	})
}

func seedIfEmpty(ctx context.Context, db *gorm.DB, repo ratedomain.Repository, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&ratedomain.RateRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("rate table already populated, skipping default rates", zap.Int64("rows", count))
		return nil
	}

	_, err := seed.EnsureDefaultRates(ctx, repo, log)
	return err
}
