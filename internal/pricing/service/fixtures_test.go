package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/linguahub/linguahub/internal/config"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepository is an in-memory rate table that records every lookup.
type memoryRepository struct {
	rows    []ratedomain.RateRow
	lookups []ratedomain.Discriminators
}

func (m *memoryRepository) GetRate(_ context.Context, where ratedomain.Discriminators, _ ratedomain.ColumnSet) (*ratedomain.RateRow, error) {
	m.lookups = append(m.lookups, where)

	var found []ratedomain.RateRow
	for _, row := range m.rows {
		if matches(row, where) {
			found = append(found, row)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ratedomain.ErrRateNotFound, where)
	case 1:
		row := found[0]
		return &row, nil
	default:
		return nil, fmt.Errorf("%w: %s", ratedomain.ErrAmbiguousRate, where)
	}
}

func (m *memoryRepository) Upsert(_ context.Context, row *ratedomain.RateRow) error {
	m.rows = append(m.rows, *row)
	return nil
}

func (m *memoryRepository) List(context.Context, ratedomain.ListOptions) ([]ratedomain.RateRow, error) {
	return m.rows, nil
}

func matches(row ratedomain.RateRow, where ratedomain.Discriminators) bool {
	return (where.InterpreterType == "" || row.InterpreterType == where.InterpreterType) &&
		(where.SchedulingType == "" || row.SchedulingType == where.SchedulingType) &&
		(where.CommunicationType == "" || row.CommunicationType == where.CommunicationType) &&
		(where.InterpretingType == "" || row.InterpretingType == where.InterpretingType) &&
		(where.Qualifier == "" || row.Qualifier == where.Qualifier) &&
		(where.DetailSequence == "" || row.DetailSequence == where.DetailSequence)
}

var baseRequest = pricingdomain.PriceRequest{
	InterpreterType:   ratedomain.InterpreterTypeProfessional,
	SchedulingType:    ratedomain.SchedulingTypePreBooked,
	CommunicationType: ratedomain.CommunicationTypeVideo,
	InterpretingType:  ratedomain.InterpretingTypeConsecutive,
	Topic:             ratedomain.TopicGeneral,
}

// rateRow builds a row of baseRequest with every price column set to price.
func rateRow(q ratedomain.RateQualifier, seq ratedomain.RateDetailSequence, minutes int, price string) ratedomain.RateRow {
	row := ratedomain.RateRow{
		InterpreterType:   baseRequest.InterpreterType,
		SchedulingType:    baseRequest.SchedulingType,
		CommunicationType: baseRequest.CommunicationType,
		InterpretingType:  baseRequest.InterpretingType,
		Qualifier:         q,
		DetailSequence:    seq,
		DetailsTime:       &minutes,
	}
	for _, col := range ratedomain.AllColumns {
		row.SetPrice(col, decimal.RequireFromString(price))
	}
	return row
}

// standardRates: standard 60min/$50 then 30min/$20, after hours 30min/$40
// then 30min/$40.
func standardRates() []ratedomain.RateRow {
	return []ratedomain.RateRow{
		rateRow(ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceFirstMinutes, 60, "50"),
		rateRow(ratedomain.RateQualifierStandardHours, ratedomain.RateDetailSequenceAdditionalBlock, 30, "20"),
		rateRow(ratedomain.RateQualifierAfterHours, ratedomain.RateDetailSequenceFirstMinutes, 30, "40"),
		rateRow(ratedomain.RateQualifierAfterHours, ratedomain.RateDetailSequenceAdditionalBlock, 30, "40"),
	}
}

func testConfig() config.Config {
	return config.Config{
		Pricing: config.PricingConfig{
			StandardHoursStart: "07:00",
			StandardHoursEnd:   "19:00",
			DefaultTimezone:    "UTC",
		},
	}
}

func newTestService(t *testing.T, repo ratedomain.Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParam{
		Repo:       repo,
		Log:        zap.NewNop(),
		Cfg:        testConfig(),
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return svc
}

func testHours(t *testing.T) pricingdomain.StandardHours {
	t.Helper()
	h, err := pricingdomain.NewStandardHours("07:00", "19:00")
	require.NoError(t, err)
	return h
}

// at returns 2026-03-02 hh:mm UTC.
func at(hh, mm int) time.Time {
	return time.Date(2026, time.March, 2, hh, mm, 0, 0, time.UTC)
}

func oneDay(duration int, start time.Time) pricingdomain.OneDayParams {
	return pricingdomain.OneDayParams{
		Duration:        duration,
		ScheduleInstant: start,
		PriceFor:        ratedomain.PriceForClient,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
