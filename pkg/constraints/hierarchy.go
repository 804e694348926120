package constraints

import (
	"fmt"

	"github.com/gridsmith/mepsynth/pkg/graph"
)

// TransformerFeedConstraint flags transformers that feed other transformers
// directly. Cascaded transformation without intermediate distribution is
// unusual but not wrong, so this constraint only warns and never rewires.
type TransformerFeedConstraint struct{}

// Name returns the constraint name
func (c *TransformerFeedConstraint) Name() string {
	return "TransformerFeedConstraint"
}

// Apply reports every transformer-to-transformer edge as a warning
func (c *TransformerFeedConstraint) Apply(g *graph.Graph) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, n := range g.NodesByKind(graph.KindTransformer) {
		for _, e := range g.OutEdges(n.ID) {
			dst, ok := g.Node(e.To)
			if !ok || dst.Kind != graph.KindTransformer {
				continue
			}
			violations = append(violations, Violation{
				Type:       IllegalTransformerFeed,
				Severity:   Warning,
				NodeID:     n.ID,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("transformer %s feeds transformer %s directly", n.ID, dst.ID),
				Repaired:   false,
				Details: map[string]any{
					"from": n.ID,
					"to":   dst.ID,
				},
			})
		}
	}

	return violations, nil
}
