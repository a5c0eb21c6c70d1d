package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NewRegistry returns the registry for service metrics. Go, process and gorm
// collectors live on the default registry; /metrics gathers both.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Registerer exposes the registry to components that only register collectors.
func Registerer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

// Gatherer merges the service registry with the default one.
func Gatherer(reg *prometheus.Registry) prometheus.Gatherer {
	return prometheus.Gatherers{reg, prometheus.DefaultGatherer}
}
