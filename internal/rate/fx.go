package rate

import (
	"github.com/bwmarrin/snowflake"
	"github.com/linguahub/linguahub/internal/config"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/linguahub/linguahub/internal/rate/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type repositoryParams struct {
	fx.In

	DB    *gorm.DB
	GenID *snowflake.Node
	Cfg   config.Config
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
}

func provideRepository(p repositoryParams) ratedomain.Repository {
	repo := repository.NewRepository(p.DB, p.GenID)
	if p.Redis == nil || !p.Cfg.RateCache.Enabled {
		return repo
	}
	return repository.NewCachedRepository(repo, p.Redis, p.Cfg.RateCache.TTL, p.Log)
}

var Module = fx.Module("rate.repository",
	fx.Provide(provideRepository),
)
