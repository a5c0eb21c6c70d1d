package service

import (
	"errors"
	"time"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	calculations *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linguahub",
			Subsystem: "pricing",
			Name:      "calculations_total",
			Help:      "Price calculations by operation, window and outcome.",
		}, []string{"operation", "window", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linguahub",
			Subsystem: "pricing",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent in a price calculation including rate lookups.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.calculations, m.latency)
	}
	return m
}

func (m *metrics) observe(operation, window string, started time.Time, err error) {
	m.calculations.WithLabelValues(operation, window, outcome(err)).Inc()
	m.latency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ratedomain.ErrRateNotFound):
		return "rate_not_found"
	case errors.Is(err, pricingdomain.ErrIncorrectRateConfiguration):
		return "incorrect_rate_configuration"
	default:
		return "rejected"
	}
}
