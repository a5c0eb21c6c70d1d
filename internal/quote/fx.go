package quote

import (
	"github.com/linguahub/linguahub/internal/quote/repository"
	"github.com/linguahub/linguahub/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
