package service

import (
	"context"
	"fmt"
	"testing"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// counterValues indexes the calculations counter by its label values.
func counterValues(t *testing.T, reg *prometheus.Registry) map[[3]string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var family *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "linguahub_pricing_calculations_total" {
			family = f
		}
	}
	require.NotNil(t, family, "calculations counter not registered")

	values := map[[3]string]float64{}
	for _, m := range family.GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		key := [3]string{labels["operation"], labels["window"], labels["outcome"]}
		values[key] = m.GetCounter().GetValue()
	}
	return values
}

func TestCalculationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParam{
		Repo:       &memoryRepository{rows: standardRates()},
		Log:        zap.NewNop(),
		Cfg:        testConfig(),
		Registerer: reg,
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CalculatePriceByOneDay(ctx, baseRequest, oneDay(90, at(9, 0)))
	require.NoError(t, err)
	_, err = svc.CalculatePriceByOneDay(ctx, baseRequest, oneDay(90, at(9, 0)))
	require.NoError(t, err)

	_, err = svc.CalculatePriceByOneDay(ctx, baseRequest, oneDay(0, at(9, 0)))
	require.Error(t, err)

	values := counterValues(t, reg)
	assert.Equal(t, float64(2), values[[3]string{operationOneDay, "standard_hours", "ok"}])
	assert.Equal(t, float64(1), values[[3]string{operationOneDay, "unresolved", "rejected"}])
}

func TestOutcomeLabels(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "rate_not_found", outcome(fmt.Errorf("%w: key", ratedomain.ErrAmbiguousRate)))
	assert.Equal(t, "incorrect_rate_configuration", outcome(pricingdomain.ErrIncorrectRateConfiguration))
	assert.Equal(t, "rejected", outcome(pricingdomain.ErrInvalidDuration))
}
