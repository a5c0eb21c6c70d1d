package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/linguahub/linguahub/internal/clock"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    quotedomain.Repository
	pricing pricingdomain.Service

	created metric.Int64Counter
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    quotedomain.Repository
	Pricing pricingdomain.Service
}

func NewService(p ServiceParam) (quotedomain.Service, error) {
	created, err := otel.Meter("github.com/linguahub/linguahub/internal/quote").Int64Counter(
		"linguahub.quotes.created",
		metric.WithDescription("Quotes stored, by kind."),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		log:     p.Log.Named("quote.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		pricing: p.Pricing,
		created: created,
	}, nil
}

func (s *Service) Quote(ctx context.Context, req quotedomain.QuoteRequest) (*quotedomain.PriceQuote, error) {
	req.ScheduleInstant = req.ScheduleInstant.UTC()

	result, err := s.calculate(ctx, req)
	if err != nil {
		return nil, err
	}

	blocks, err := json.Marshal(result.PriceByBlocks)
	if err != nil {
		return nil, err
	}
	checksum, err := quoteChecksum(req, result, blocks)
	if err != nil {
		return nil, err
	}

	q := &quotedomain.PriceQuote{
		ID:                                   s.genID.Generate(),
		Checksum:                             checksum,
		Kind:                                 req.Kind,
		InterpreterType:                      req.Request.InterpreterType,
		SchedulingType:                       req.Request.SchedulingType,
		CommunicationType:                    req.Request.CommunicationType,
		InterpretingType:                     req.Request.InterpretingType,
		Topic:                                req.Request.Topic,
		InterpreterTimezone:                  req.Request.InterpreterTimezone,
		ClientTimezone:                       req.Request.ClientTimezone,
		Duration:                             req.Duration,
		ScheduledAt:                          req.ScheduleInstant,
		GstPayer:                             req.GstPayer,
		PriceFor:                             req.PriceFor,
		ForceNormalTime:                      req.ForceNormalTime,
		ForceOvertime:                        req.ForceOvertime,
		Price:                                result.Price,
		Blocks:                               datatypes.JSON(blocks),
		AddedDurationToLastBlockWhenRounding: result.AddedDurationToLastBlockWhenRounding,
		CreatedAt:                            s.clock.Now(ctx),
	}

	stored, err := s.repo.Insert(ctx, q)
	if err != nil {
		s.log.Error("failed to store quote", zap.String("checksum", checksum), zap.Error(err))
		return nil, err
	}
	if stored.ID == q.ID {
		s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(req.Kind))))
		s.log.Info("quote created",
			zap.String("quote_id", stored.ID.String()),
			zap.String("kind", string(req.Kind)),
			zap.String("price", stored.Price.StringFixed(2)),
		)
	}
	return stored, nil
}

func (s *Service) calculate(ctx context.Context, req quotedomain.QuoteRequest) (*pricingdomain.CalculationResult, error) {
	switch req.Kind {
	case quotedomain.QuoteKindOneDay:
		return s.pricing.CalculatePriceByOneDay(ctx, req.Request, pricingdomain.OneDayParams{
			Duration:        req.Duration,
			ScheduleInstant: req.ScheduleInstant,
			GstPayer:        req.GstPayer,
			PriceFor:        req.PriceFor,
			ForceNormalTime: req.ForceNormalTime,
			ForceOvertime:   req.ForceOvertime,
		})
	case quotedomain.QuoteKindAdditionalBlock:
		if req.ForceNormalTime || req.ForceOvertime {
			return nil, fmt.Errorf("%w: window overrides apply to one-day quotes only", quotedomain.ErrInvalidQuoteKind)
		}
		return s.pricing.CalculateAdditionalBlockPrice(ctx, req.Request, pricingdomain.AdditionalBlockParams{
			BlockDuration:        req.Duration,
			BlockScheduleInstant: req.ScheduleInstant,
			GstPayer:             req.GstPayer,
			PriceFor:             req.PriceFor,
		})
	default:
		return nil, fmt.Errorf("%w: %q", quotedomain.ErrInvalidQuoteKind, req.Kind)
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*quotedomain.PriceQuote, error) {
	if id == 0 {
		return nil, quotedomain.ErrInvalidQuoteID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter quotedomain.ListFilter) ([]quotedomain.PriceQuote, error) {
	return s.repo.List(ctx, filter)
}

// quoteChecksum identifies a quote by the sha256 of its request and priced
// result. A request repriced after a rate or standard-hours change gets a new
// checksum.
func quoteChecksum(req quotedomain.QuoteRequest, result *pricingdomain.CalculationResult, blocks []byte) (string, error) {
	payload, err := json.Marshal(struct {
		Request       quotedomain.QuoteRequest `json:"request"`
		Price         string                   `json:"price"`
		Blocks        json.RawMessage          `json:"blocks"`
		AddedDuration int                      `json:"added_duration"`
	}{
		Request:       req,
		Price:         result.Price.StringFixed(2),
		Blocks:        blocks,
		AddedDuration: result.AddedDurationToLastBlockWhenRounding,
	})
	if err != nil {
		return "", err
	}
	return calculateChecksum(payload), nil
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
