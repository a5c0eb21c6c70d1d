package pricing

import (
	"github.com/linguahub/linguahub/internal/config"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	"github.com/linguahub/linguahub/internal/pricing/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("pricing.service",
	fx.Provide(
		service.NewService,
		func(s *service.Service) pricingdomain.Service { return s },
	),
	fx.Invoke(watchStandardHours),
)

// watchStandardHours applies standard-hours edits from the config file
// without a restart.
func watchStandardHours(loader *config.Loader, svc *service.Service, log *zap.Logger) {
	log = log.Named("pricing.config")
	loader.Watch(log, func(cfg config.Config) {
		hours, err := pricingdomain.NewStandardHours(cfg.Pricing.StandardHoursStart, cfg.Pricing.StandardHoursEnd)
		if err != nil {
			log.Error("ignoring invalid standard hours", zap.Error(err))
			return
		}
		if hours == svc.StandardHours() {
			return
		}
		svc.SetStandardHours(hours)
	})
}
