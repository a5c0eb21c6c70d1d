package bootstrap

import (
	"context"

	"go.uber.org/fx"
)

// EnforceSchemaGate fails fast during application startup when the schema is
// behind or ahead of the embedded migrations.
func EnforceSchemaGate(lc fx.Lifecycle, gate SchemaGate) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return gate.MustBeReady(ctx)
		},
	})
}
