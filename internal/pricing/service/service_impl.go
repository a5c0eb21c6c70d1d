package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/linguahub/linguahub/internal/config"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	operationOneDay          = "one_day"
	operationAdditionalBlock = "additional_block"
)

type Service struct {
	repo    ratedomain.Repository
	log     *zap.Logger
	tracer  trace.Tracer
	metrics *metrics

	hours           atomic.Pointer[pricingdomain.StandardHours]
	defaultLocation *time.Location
}

type ServiceParam struct {
	fx.In

	Repo       ratedomain.Repository
	Log        *zap.Logger
	Cfg        config.Config
	Registerer prometheus.Registerer `optional:"true"`
}

func NewService(p ServiceParam) (*Service, error) {
	hours, err := pricingdomain.NewStandardHours(p.Cfg.Pricing.StandardHoursStart, p.Cfg.Pricing.StandardHoursEnd)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if tz := p.Cfg.Pricing.DefaultTimezone; tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: default timezone %q", pricingdomain.ErrInvalidTimezone, tz)
		}
	}

	s := &Service{
		repo:            p.Repo,
		log:             p.Log.Named("pricing.service"),
		tracer:          otel.Tracer("github.com/linguahub/linguahub/internal/pricing"),
		metrics:         newMetrics(p.Registerer),
		defaultLocation: loc,
	}
	s.hours.Store(&hours)
	return s, nil
}

// StandardHours returns the window in effect.
func (s *Service) StandardHours() pricingdomain.StandardHours {
	return *s.hours.Load()
}

// SetStandardHours replaces the window used by calculations started after
// the call returns.
func (s *Service) SetStandardHours(h pricingdomain.StandardHours) {
	s.hours.Store(&h)
	s.log.Info("standard hours updated", zap.Stringer("start", h.Start), zap.Stringer("end", h.End))
}

func (s *Service) CalculatePriceByOneDay(ctx context.Context, req pricingdomain.PriceRequest, params pricingdomain.OneDayParams) (_ *pricingdomain.CalculationResult, err error) {
	started := time.Now()
	kind := "unresolved"
	ctx, span := s.startSpan(ctx, operationOneDay, req, params.Duration)
	defer func() { s.finish(span, operationOneDay, kind, started, req, err) }()

	if err := validateRequest(req, params.PriceFor, params.Duration); err != nil {
		return nil, err
	}
	if params.ForceNormalTime && params.ForceOvertime {
		return nil, pricingdomain.ErrConflictingWindowOverride
	}

	if req.InterpretingType.IsFlatRate() {
		kind = "flat_rate"
		return s.flatRate(ctx, req, req.Topic, params.PriceFor, params.GstPayer, params.Duration)
	}

	col, err := ratedomain.SelectColumn(req.Topic, params.PriceFor, params.GstPayer)
	if err != nil {
		return nil, err
	}
	start, err := s.zoned(req, params.ScheduleInstant)
	if err != nil {
		return nil, err
	}

	hours := s.StandardHours()
	w, err := resolveWindow(start, params.Duration, hours, params.ForceNormalTime, params.ForceOvertime)
	if err != nil {
		return nil, err
	}
	kind = w.kind.String()
	span.SetAttributes(attribute.String("pricing.window", kind))

	where := req.Discriminators()
	if w.kind != windowStraddling {
		q := w.qualifier()
		first, err := s.requiredRate(ctx, where.With(q, ratedomain.RateDetailSequenceFirstMinutes), col)
		if err != nil {
			return nil, err
		}
		additional, err := s.optionalRate(ctx, where.With(q, ratedomain.RateDetailSequenceAdditionalBlock), col)
		if err != nil {
			return nil, err
		}
		return calculateBaseRate(params.Duration, tierFrom(first, col), tierFrom(additional, col))
	}

	book, err := s.loadBook(ctx, where, bothWindows(w.qualifier()), col, false)
	if err != nil {
		return nil, err
	}
	return calculateStraddle(w.start, params.Duration, hours, book)
}

func (s *Service) CalculateAdditionalBlockPrice(ctx context.Context, req pricingdomain.PriceRequest, params pricingdomain.AdditionalBlockParams) (_ *pricingdomain.CalculationResult, err error) {
	started := time.Now()
	kind := "unresolved"
	ctx, span := s.startSpan(ctx, operationAdditionalBlock, req, params.BlockDuration)
	defer func() { s.finish(span, operationAdditionalBlock, kind, started, req, err) }()

	if err := validateRequest(req, params.PriceFor, params.BlockDuration); err != nil {
		return nil, err
	}
	if req.InterpretingType.IsFlatRate() {
		kind = "flat_rate"
		return nil, fmt.Errorf("%w: %s is priced as a single flat block", pricingdomain.ErrIncorrectRateConfiguration, req.InterpretingType)
	}

	col, err := ratedomain.SelectColumn(req.Topic, params.PriceFor, params.GstPayer)
	if err != nil {
		return nil, err
	}
	start, err := s.zoned(req, params.BlockScheduleInstant)
	if err != nil {
		return nil, err
	}

	w, err := resolveWindow(start, params.BlockDuration, s.StandardHours(), false, false)
	if err != nil {
		return nil, err
	}
	kind = w.kind.String()
	span.SetAttributes(attribute.String("pricing.window", kind))

	windows := []ratedomain.RateQualifier{w.qualifier()}
	if w.kind == windowStraddling {
		windows = bothWindows(w.qualifier())
	}
	book, err := s.loadBook(ctx, req.Discriminators(), windows, col, true)
	if err != nil {
		return nil, err
	}
	return calculateAdditionalBlock(w, params.BlockDuration, book)
}

func bothWindows(start ratedomain.RateQualifier) []ratedomain.RateQualifier {
	return []ratedomain.RateQualifier{start, start.Opposite()}
}

// loadBook reads the tiers of the given windows in order. With
// additionalOnly set the first-minutes rows are skipped and the additional
// rows become mandatory.
func (s *Service) loadBook(ctx context.Context, where ratedomain.Discriminators, windows []ratedomain.RateQualifier, col ratedomain.Column, additionalOnly bool) (rateBook, error) {
	book := rateBook{}
	for _, q := range windows {
		var rates windowRates
		if !additionalOnly {
			first, err := s.requiredRate(ctx, where.With(q, ratedomain.RateDetailSequenceFirstMinutes), col)
			if err != nil {
				return nil, err
			}
			rates.first = tierFrom(first, col)

			additional, err := s.optionalRate(ctx, where.With(q, ratedomain.RateDetailSequenceAdditionalBlock), col)
			if err != nil {
				return nil, err
			}
			rates.additional = tierFrom(additional, col)
		} else {
			additional, err := s.requiredRate(ctx, where.With(q, ratedomain.RateDetailSequenceAdditionalBlock), col)
			if err != nil {
				return nil, err
			}
			rates.additional = tierFrom(additional, col)
		}
		book[q] = rates
	}
	return book, nil
}

func (s *Service) flatRate(ctx context.Context, req pricingdomain.PriceRequest, topic ratedomain.Topic, priceFor ratedomain.PriceFor, gstPayer bool, duration int) (*pricingdomain.CalculationResult, error) {
	col, err := flatRateColumn(topic, priceFor, gstPayer)
	if err != nil {
		return nil, err
	}
	row, err := s.requiredRate(ctx, flatRateDiscriminators(req), col)
	if err != nil {
		return nil, err
	}
	return calculateFlatRate(row, col, duration)
}

func (s *Service) requiredRate(ctx context.Context, where ratedomain.Discriminators, col ratedomain.Column) (*ratedomain.RateRow, error) {
	return s.repo.GetRate(ctx, where, ratedomain.ColumnSet{col})
}

// optionalRate treats a missing row as absent. Ambiguous rows are still an error.
func (s *Service) optionalRate(ctx context.Context, where ratedomain.Discriminators, col ratedomain.Column) (*ratedomain.RateRow, error) {
	row, err := s.requiredRate(ctx, where, col)
	if err != nil {
		if errors.Is(err, ratedomain.ErrRateNotFound) && !errors.Is(err, ratedomain.ErrAmbiguousRate) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// zoned converts instant to the zone whose clock defines standard hours:
// the interpreter's, else the client's, else the configured default.
func (s *Service) zoned(req pricingdomain.PriceRequest, instant time.Time) (time.Time, error) {
	if instant.IsZero() {
		return time.Time{}, pricingdomain.ErrInvalidScheduleInstant
	}
	for _, tz := range []string{req.InterpreterTimezone, req.ClientTimezone} {
		if tz == "" {
			continue
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", pricingdomain.ErrInvalidTimezone, tz)
		}
		return instant.In(loc), nil
	}
	return instant.In(s.defaultLocation), nil
}

func (s *Service) startSpan(ctx context.Context, operation string, req pricingdomain.PriceRequest, duration int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "pricing."+operation, trace.WithAttributes(
		attribute.String("pricing.interpreter_type", string(req.InterpreterType)),
		attribute.String("pricing.scheduling_type", string(req.SchedulingType)),
		attribute.String("pricing.communication_type", string(req.CommunicationType)),
		attribute.String("pricing.interpreting_type", string(req.InterpretingType)),
		attribute.String("pricing.topic", string(req.Topic)),
		attribute.Int("pricing.duration", duration),
	))
}

func (s *Service) finish(span trace.Span, operation, kind string, started time.Time, req pricingdomain.PriceRequest, err error) {
	s.metrics.observe(operation, kind, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn("price calculation failed",
			zap.String("operation", operation),
			zap.String("interpreter_type", string(req.InterpreterType)),
			zap.String("scheduling_type", string(req.SchedulingType)),
			zap.String("communication_type", string(req.CommunicationType)),
			zap.String("interpreting_type", string(req.InterpretingType)),
			zap.String("topic", string(req.Topic)),
			zap.Error(err),
		)
	}
	span.End()
}

func validateRequest(req pricingdomain.PriceRequest, priceFor ratedomain.PriceFor, duration int) error {
	if duration <= 0 {
		return fmt.Errorf("%w: %d", pricingdomain.ErrInvalidDuration, duration)
	}
	if req.InterpreterType == "" || req.InterpretingType == "" {
		return fmt.Errorf("%w: interpreter and interpreting type are required", pricingdomain.ErrInvalidPriceRequest)
	}
	if !req.InterpretingType.IsFlatRate() && (req.SchedulingType == "" || req.CommunicationType == "") {
		return fmt.Errorf("%w: scheduling and communication type are required", pricingdomain.ErrInvalidPriceRequest)
	}
	switch priceFor {
	case ratedomain.PriceForClient, ratedomain.PriceForInterpreter:
	default:
		return fmt.Errorf("%w: %q", ratedomain.ErrUnknownPriceFor, string(priceFor))
	}
	if _, err := req.Topic.IsSpecial(); err != nil {
		return err
	}
	return nil
}
