package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/linguahub/linguahub/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default rate table",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				repo ratedomain.Repository
				log  *zap.Logger
			)
			app := fx.New(
				baseOptions(opts),
				pricingOptions(),
				fx.Populate(&repo, &log),
			)
			return withApp(app, func(ctx context.Context) error {
				n, err := seed.EnsureDefaultRates(ctx, repo, log.Named("seed"))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rate rows\n", n)
				return nil
			})
		},
	}
}

type quoteFlags struct {
	interpreterType   string
	schedulingType    string
	communicationType string
	interpretingType  string
	topic             string
	interpreterTZ     string
	clientTZ          string

	duration        int
	at              string
	gstPayer        bool
	priceFor        string
	forceNormalTime bool
	forceOvertime   bool
	additionalBlock bool
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	f := &quoteFlags{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Calculate a price and print the result as JSON",
		Example: `  linguahub quote --interpreting-type consecutive --communication-type video \
    --duration 75 --at 2026-03-02T09:00:00+11:00 --gst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(time.RFC3339, f.at)
			if err != nil {
				return fmt.Errorf("--at must be RFC 3339: %w", err)
			}

			var svc pricingdomain.Service
			app := fx.New(
				baseOptions(opts),
				pricingOptions(),
				fx.Populate(&svc),
			)
			return withApp(app, func(ctx context.Context) error {
				res, err := calculate(ctx, svc, f, start)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.interpreterType, "interpreter-type", string(ratedomain.InterpreterTypeProfessional), "interpreter type")
	fl.StringVar(&f.schedulingType, "scheduling-type", string(ratedomain.SchedulingTypePreBooked), "on_demand or pre_booked")
	fl.StringVar(&f.communicationType, "communication-type", string(ratedomain.CommunicationTypeVideo), "audio, video or on_site")
	fl.StringVar(&f.interpretingType, "interpreting-type", string(ratedomain.InterpretingTypeConsecutive), "consecutive, sign_language, escort or simultaneous")
	fl.StringVar(&f.topic, "topic", string(ratedomain.TopicGeneral), "appointment topic")
	fl.StringVar(&f.interpreterTZ, "interpreter-tz", "", "interpreter IANA timezone")
	fl.StringVar(&f.clientTZ, "client-tz", "", "client IANA timezone")
	fl.IntVar(&f.duration, "duration", 60, "duration in minutes; with --additional-block, the additional tier length")
	fl.StringVar(&f.at, "at", "", "appointment start, RFC 3339")
	fl.BoolVar(&f.gstPayer, "gst", false, "client pays GST")
	fl.StringVar(&f.priceFor, "price-for", string(ratedomain.PriceForClient), "client or interpreter")
	fl.BoolVar(&f.forceNormalTime, "force-normal-time", false, "price as if starting at the opening of standard hours")
	fl.BoolVar(&f.forceOvertime, "force-overtime", false, "price as if starting at the close of standard hours")
	fl.BoolVar(&f.additionalBlock, "additional-block", false, "price one additional block instead of a day")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func calculate(ctx context.Context, svc pricingdomain.Service, f *quoteFlags, start time.Time) (*pricingdomain.CalculationResult, error) {
	req := pricingdomain.PriceRequest{
		InterpreterType:     ratedomain.InterpreterType(f.interpreterType),
		SchedulingType:      ratedomain.SchedulingType(f.schedulingType),
		CommunicationType:   ratedomain.CommunicationType(f.communicationType),
		InterpretingType:    ratedomain.InterpretingType(f.interpretingType),
		Topic:               ratedomain.Topic(f.topic),
		InterpreterTimezone: f.interpreterTZ,
		ClientTimezone:      f.clientTZ,
	}
	if f.additionalBlock {
		return svc.CalculateAdditionalBlockPrice(ctx, req, pricingdomain.AdditionalBlockParams{
			BlockDuration:        f.duration,
			BlockScheduleInstant: start,
			GstPayer:             f.gstPayer,
			PriceFor:             ratedomain.PriceFor(f.priceFor),
		})
	}
	return svc.CalculatePriceByOneDay(ctx, req, pricingdomain.OneDayParams{
		Duration:        f.duration,
		ScheduleInstant: start,
		GstPayer:        f.gstPayer,
		PriceFor:        ratedomain.PriceFor(f.priceFor),
		ForceNormalTime: f.forceNormalTime,
		ForceOvertime:   f.forceOvertime,
	})
}

// withApp starts app, runs fn and stops app again.
func withApp(app *fx.App, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()
	return fn(ctx)
}
