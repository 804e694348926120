package metrics

import (
	"time"
)

// RecordGeneration records a completed generation run with its duration
func (r *Registry) RecordGeneration(status string, duration time.Duration) {
	r.GenerationsTotal.WithLabelValues(status).Inc()
	r.GenerationDuration.Observe(duration.Seconds())
}

// RecordStage records the duration of one pipeline stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordGraphShape records the node and edge counts of a generated graph
func (r *Registry) RecordGraphShape(nodesByType map[string]int, edges int, totalLoadKW float64) {
	for typ, count := range nodesByType {
		r.NodesGenerated.WithLabelValues(typ).Set(float64(count))
	}
	r.EdgesGenerated.Set(float64(edges))
	r.TotalLoadKW.Set(totalLoadKW)
}

// RecordViolation records one detected constraint violation
func (r *Registry) RecordViolation(constraint, severity string) {
	r.ViolationsFound.WithLabelValues(constraint, severity).Inc()
}

// RecordRepair records one applied graph repair
func (r *Registry) RecordRepair(constraint string) {
	r.RepairsApplied.WithLabelValues(constraint).Inc()
}

// RecordExport records a graph export
func (r *Registry) RecordExport(format, status string, sizeBytes int, duration time.Duration) {
	r.ExportsTotal.WithLabelValues(format, status).Inc()
	if status == "ok" {
		r.ExportSizeBytes.Observe(float64(sizeBytes))
		r.ExportDuration.Observe(duration.Seconds())
	}
}
