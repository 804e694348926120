package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initValidationMetrics() {
	r.ViolationsFound = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepsynth_violations_found_total",
			Help: "Constraint violations detected during validation",
		},
		[]string{"constraint", "severity"},
	)

	r.RepairsApplied = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepsynth_repairs_applied_total",
			Help: "Graph repairs applied by the constraint validator",
		},
		[]string{"constraint"},
	)
}

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepsynth_exports_total",
			Help: "Total number of graph exports",
		},
		[]string{"format", "status"},
	)

	r.ExportSizeBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mepsynth_export_size_bytes",
			Help:    "Size of exported graph documents in bytes",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
		},
	)

	r.ExportDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mepsynth_export_duration_seconds",
			Help:    "Duration of graph exports in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0},
		},
	)
}
