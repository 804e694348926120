package constraints

import (
	"fmt"

	"github.com/gridsmith/mepsynth/pkg/electrical"
	"github.com/gridsmith/mepsynth/pkg/graph"
)

// StepDownConstraint requires every transformer to drop its voltage by at
// least 20%. Violations are repaired by re-snapping the downstream side to
// the correct tier and recomputing the derived currents, including the
// transformer's outgoing edges.
type StepDownConstraint struct {
	HighTier float64
}

const minStepDownRatio = 0.8

// Name returns the constraint name
func (c *StepDownConstraint) Name() string {
	return "StepDownConstraint"
}

// Apply checks every transformer's voltage drop and repairs offenders
func (c *StepDownConstraint) Apply(g *graph.Graph) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, n := range g.NodesByKind(graph.KindTransformer) {
		attrs, ok := n.Attrs.(*graph.TransformerAttrs)
		if !ok {
			return nil, fmt.Errorf("transformer %s: %w", n.ID, graph.ErrInvalidParameter)
		}
		if attrs.UpstreamVoltage <= 0 {
			// Never energized; nothing to check yet
			continue
		}
		if attrs.DownstreamVoltage <= attrs.UpstreamVoltage*minStepDownRatio {
			continue
		}

		before := attrs.DownstreamVoltage
		repaired := electrical.StepDown(attrs.UpstreamVoltage, c.HighTier)

		attrs.DownstreamVoltage = repaired
		if electrical.ThreePhase(repaired) {
			attrs.Phases = 3
		} else {
			attrs.Phases = 1
		}
		attrs.SecondaryAmps = electrical.Amperage(attrs.CapacityKW, repaired, attrs.Phases)

		for _, e := range g.OutEdges(n.ID) {
			electrical.EnergizeEdge(g, e, repaired)
		}

		violations = append(violations, Violation{
			Type:       StepDownViolation,
			Severity:   Error,
			NodeID:     n.ID,
			Constraint: c.Name(),
			Message: fmt.Sprintf("transformer %s steps %0.f V down to only %.0f V, repaired to %.0f V",
				n.ID, attrs.UpstreamVoltage, before, repaired),
			Repaired: true,
			Details: map[string]any{
				"upstream_voltage":  attrs.UpstreamVoltage,
				"downstream_before": before,
				"downstream_after":  repaired,
			},
		})
	}

	return violations, nil
}
