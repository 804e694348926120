package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGenerationMetrics() {
	r.GenerationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepsynth_generations_total",
			Help: "Total number of topology generation runs",
		},
		[]string{"status"}, // ok, error
	)

	r.GenerationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mepsynth_generation_duration_seconds",
			Help:    "End-to-end duration of a generation run in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mepsynth_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"stage"}, // requirements, decisions, build, voltage, validate
	)

	r.NodesGenerated = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mepsynth_nodes_generated",
			Help: "Number of nodes in the last generated graph by equipment type",
		},
		[]string{"type"},
	)

	r.EdgesGenerated = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepsynth_edges_generated",
			Help: "Number of edges in the last generated graph",
		},
	)

	r.TotalLoadKW = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepsynth_total_load_kw",
			Help: "Estimated total electrical load of the last generated building in kW",
		},
	)
}
