// @title           LinguaHub API
// @version         1.0
// @description     Interpreting appointment pricing and rate administration

// @host      localhost:8080
// @BasePath  /api/v1
// @Schemes 	http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/linguahub/linguahub/internal/authorization"
	"github.com/linguahub/linguahub/internal/bootstrap"
	"github.com/linguahub/linguahub/internal/clock"
	"github.com/linguahub/linguahub/internal/config"
	"github.com/linguahub/linguahub/internal/migration"
	"github.com/linguahub/linguahub/internal/observability"
	"github.com/linguahub/linguahub/internal/pricing"
	"github.com/linguahub/linguahub/internal/quote"
	"github.com/linguahub/linguahub/internal/rate"
	"github.com/linguahub/linguahub/internal/redis"
	"github.com/linguahub/linguahub/internal/scheduler"
	"github.com/linguahub/linguahub/internal/server"
	"github.com/linguahub/linguahub/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const startTimeout = 2 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "linguahub",
		Short:         "LinguaHub interpreting price engine",
		Version:       readVersionFromEnv(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (yaml, json or toml)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newQuoteCmd(opts),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts)
		},
	}
}

// baseOptions wires config, logging and the database shared by every command.
func baseOptions(opts *rootOptions) fx.Option {
	return fx.Options(
		fx.Supply(config.Path(opts.configPath)),
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(registerSnowflake),
		db.Module,
	)
}

// pricingOptions adds everything needed to price and quote.
func pricingOptions() fx.Option {
	return fx.Options(
		clock.Module,
		redis.Module,
		rate.Module,
		pricing.Module,
		quote.Module,
	)
}

func runServe(opts *rootOptions, migrate bool) error {
	modules := []fx.Option{baseOptions(opts)}
	if migrate {
		modules = append(modules, migration.Module)
	}
	modules = append(modules,
		pricingOptions(),
		bootstrap.Module,
		fx.Invoke(bootstrap.EnforceSchemaGate),
		fx.Invoke(bootstrap.EnsureDefaultRateTable),
		authorization.Module,
		server.Module,
		scheduler.Module,
		fx.Invoke(scheduler.Start),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func runMigrate(opts *rootOptions) error {
	app := fx.New(
		baseOptions(opts),
		migration.Module,
	)
	return startAndStop(app)
}

// startAndStop runs a short-lived app through its lifecycle.
func startAndStop(app *fx.App) error {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(context.Background())
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
