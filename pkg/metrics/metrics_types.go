// Package metrics exposes Prometheus instrumentation for the synthesis
// pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Generation Metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	StageDuration      *prometheus.HistogramVec
	NodesGenerated     *prometheus.GaugeVec
	EdgesGenerated     prometheus.Gauge
	TotalLoadKW        prometheus.Gauge

	// Validation Metrics
	ViolationsFound *prometheus.CounterVec
	RepairsApplied  *prometheus.CounterVec

	// Export Metrics
	ExportsTotal    *prometheus.CounterVec
	ExportSizeBytes prometheus.Histogram
	ExportDuration  prometheus.Histogram

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGenerationMetrics()
	r.initValidationMetrics()
	r.initExportMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
