package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/linguahub/linguahub/internal/clock"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	"github.com/linguahub/linguahub/internal/quote/repository"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockPricing struct {
	mock.Mock
}

func (m *MockPricing) CalculatePriceByOneDay(ctx context.Context, req pricingdomain.PriceRequest, params pricingdomain.OneDayParams) (*pricingdomain.CalculationResult, error) {
	args := m.Called(ctx, req, params)
	res, _ := args.Get(0).(*pricingdomain.CalculationResult)
	return res, args.Error(1)
}

func (m *MockPricing) CalculateAdditionalBlockPrice(ctx context.Context, req pricingdomain.PriceRequest, params pricingdomain.AdditionalBlockParams) (*pricingdomain.CalculationResult, error) {
	args := m.Called(ctx, req, params)
	res, _ := args.Get(0).(*pricingdomain.CalculationResult)
	return res, args.Error(1)
}

var (
	issuedAt  = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	scheduled = time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, pricing pricingdomain.Service) quotedomain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&quotedomain.PriceQuote{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc, err := NewService(ServiceParam{
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.Fixed(issuedAt),
		Repo:    repository.NewRepository(db),
		Pricing: pricing,
	})
	require.NoError(t, err)
	return svc
}

func oneDayRequest() quotedomain.QuoteRequest {
	return quotedomain.QuoteRequest{
		Kind: quotedomain.QuoteKindOneDay,
		Request: pricingdomain.PriceRequest{
			InterpreterType:   ratedomain.InterpreterTypeProfessional,
			SchedulingType:    ratedomain.SchedulingTypePreBooked,
			CommunicationType: ratedomain.CommunicationTypeVideo,
			InterpretingType:  ratedomain.InterpretingTypeConsecutive,
			Topic:             ratedomain.TopicGeneral,
		},
		Duration:        90,
		ScheduleInstant: scheduled,
		PriceFor:        ratedomain.PriceForClient,
	}
}

func seventy() *pricingdomain.CalculationResult {
	return &pricingdomain.CalculationResult{
		Price: decimal.NewFromInt(70),
		PriceByBlocks: []pricingdomain.PriceBlock{
			{Price: decimal.NewFromInt(50), Duration: 60},
			{Price: decimal.NewFromInt(20), Duration: 30},
		},
	}
}

func TestQuoteStoresResult(t *testing.T) {
	pricing := &MockPricing{}
	pricing.On("CalculatePriceByOneDay", mock.Anything, oneDayRequest().Request, pricingdomain.OneDayParams{
		Duration:        90,
		ScheduleInstant: scheduled,
		PriceFor:        ratedomain.PriceForClient,
	}).Return(seventy(), nil)

	svc := newTestService(t, pricing)
	q, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)

	assert.NotZero(t, q.ID)
	assert.Len(t, q.Checksum, 64)
	assert.True(t, decimal.NewFromInt(70).Equal(q.Price))
	assert.True(t, issuedAt.Equal(q.CreatedAt))

	var blocks []pricingdomain.PriceBlock
	require.NoError(t, json.Unmarshal(q.Blocks, &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, 60, blocks[0].Duration)

	got, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Checksum, got.Checksum)
}

func TestQuoteIsIdempotent(t *testing.T) {
	pricing := &MockPricing{}
	pricing.On("CalculatePriceByOneDay", mock.Anything, mock.Anything, mock.Anything).Return(seventy(), nil)

	svc := newTestService(t, pricing)
	first, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)

	// Same instant in another zone.
	again := oneDayRequest()
	again.ScheduleInstant = scheduled.In(time.FixedZone("AEDT", 11*3600))
	second, err := svc.Quote(context.Background(), again)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	different := oneDayRequest()
	different.GstPayer = true
	third, err := svc.Quote(context.Background(), different)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	quotes, err := svc.List(context.Background(), quotedomain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
}

func TestQuoteAfterRateChangeStoresNewPrice(t *testing.T) {
	ninetyFive := &pricingdomain.CalculationResult{
		Price: decimal.NewFromInt(95),
		PriceByBlocks: []pricingdomain.PriceBlock{
			{Price: decimal.NewFromInt(65), Duration: 60},
			{Price: decimal.NewFromInt(30), Duration: 30},
		},
	}
	pricing := &MockPricing{}
	pricing.On("CalculatePriceByOneDay", mock.Anything, mock.Anything, mock.Anything).Return(seventy(), nil).Once()
	pricing.On("CalculatePriceByOneDay", mock.Anything, mock.Anything, mock.Anything).Return(ninetyFive, nil).Twice()

	svc := newTestService(t, pricing)
	before, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(70).Equal(before.Price))

	after, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)
	assert.NotEqual(t, before.ID, after.ID)
	assert.NotEqual(t, before.Checksum, after.Checksum)
	assert.True(t, decimal.NewFromInt(95).Equal(after.Price), "price %s", after.Price)

	again, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)
	assert.Equal(t, after.ID, again.ID)

	quotes, err := svc.List(context.Background(), quotedomain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
	pricing.AssertExpectations(t)
}

func TestQuoteAdditionalBlock(t *testing.T) {
	pricing := &MockPricing{}
	pricing.On("CalculateAdditionalBlockPrice", mock.Anything, mock.Anything, pricingdomain.AdditionalBlockParams{
		BlockDuration:        30,
		BlockScheduleInstant: scheduled,
		PriceFor:             ratedomain.PriceForClient,
	}).Return(&pricingdomain.CalculationResult{
		Price:         decimal.NewFromInt(20),
		PriceByBlocks: []pricingdomain.PriceBlock{{Price: decimal.NewFromInt(20), Duration: 30}},
	}, nil)

	req := oneDayRequest()
	req.Kind = quotedomain.QuoteKindAdditionalBlock
	req.Duration = 30

	q, err := newTestService(t, pricing).Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, quotedomain.QuoteKindAdditionalBlock, q.Kind)
	assert.True(t, decimal.NewFromInt(20).Equal(q.Price))

	req.ForceOvertime = true
	_, err = newTestService(t, pricing).Quote(context.Background(), req)
	assert.ErrorIs(t, err, quotedomain.ErrInvalidQuoteKind)
}

func TestQuotePropagatesPricingErrors(t *testing.T) {
	pricing := &MockPricing{}
	pricing.On("CalculatePriceByOneDay", mock.Anything, mock.Anything, mock.Anything).Return(nil, ratedomain.ErrRateNotFound)

	svc := newTestService(t, pricing)
	_, err := svc.Quote(context.Background(), oneDayRequest())
	assert.ErrorIs(t, err, ratedomain.ErrRateNotFound)

	quotes, err := svc.List(context.Background(), quotedomain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestQuoteRejectsUnknownKind(t *testing.T) {
	req := oneDayRequest()
	req.Kind = "weekly"
	_, err := newTestService(t, &MockPricing{}).Quote(context.Background(), req)
	assert.ErrorIs(t, err, quotedomain.ErrInvalidQuoteKind)
}

func TestGetUnknownQuote(t *testing.T) {
	svc := newTestService(t, &MockPricing{})

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, quotedomain.ErrInvalidQuoteID)

	_, err = svc.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, quotedomain.ErrQuoteNotFound)
}

func TestExportCSV(t *testing.T) {
	pricing := &MockPricing{}
	pricing.On("CalculatePriceByOneDay", mock.Anything, mock.Anything, mock.Anything).Return(seventy(), nil)

	svc := newTestService(t, pricing)
	q, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)

	res, err := svc.Export(context.Background(), quotedomain.ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, quotedomain.ExportFormatCSV, res.Format)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, calculateChecksum(res.Data), res.Checksum)

	records, err := csv.NewReader(bytes.NewReader(res.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, q.ID.String(), records[1][0])
	assert.Equal(t, "70.00", records[1][12])
	assert.Equal(t, q.Checksum, records[1][15])
}

func TestExportJSONAndValidation(t *testing.T) {
	svc := newTestService(t, &MockPricing{})

	res, err := svc.Export(context.Background(), quotedomain.ExportRequest{Format: quotedomain.ExportFormatJSON})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)

	_, err = svc.Export(context.Background(), quotedomain.ExportRequest{Format: "xlsx"})
	assert.ErrorIs(t, err, quotedomain.ErrUnsupportedFormat)

	_, err = svc.Export(context.Background(), quotedomain.ExportRequest{Filter: quotedomain.ListFilter{From: scheduled, To: issuedAt}})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidExportPeriod)
}

func TestRenderReceipt(t *testing.T) {
	pricing := &MockPricing{}
	pricing.On("CalculatePriceByOneDay", mock.Anything, mock.Anything, mock.Anything).Return(seventy(), nil)

	svc := newTestService(t, pricing)
	q, err := svc.Quote(context.Background(), oneDayRequest())
	require.NoError(t, err)

	pdf, err := svc.RenderReceipt(context.Background(), q.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = svc.RenderReceipt(context.Background(), 999)
	assert.ErrorIs(t, err, quotedomain.ErrQuoteNotFound)
}
