package constraints

import (
	"fmt"
	"math"

	"github.com/gridsmith/mepsynth/pkg/electrical"
	"github.com/gridsmith/mepsynth/pkg/graph"
)

// LoadFeedConstraint requires every load to be fed by exactly one
// panelboard. Unfed loads are wired to the nearest panelboard, multiply-fed
// loads keep only the nearest panelboard feed, and feeds from anything other
// than a panelboard are rerouted.
type LoadFeedConstraint struct{}

// Name returns the constraint name
func (c *LoadFeedConstraint) Name() string {
	return "LoadFeedConstraint"
}

// Apply checks and repairs every load's single-panelboard feed
func (c *LoadFeedConstraint) Apply(g *graph.Graph) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, load := range g.NodesByKind(graph.KindLoad) {
		in := g.InEdges(load.ID)

		switch {
		case len(in) == 0:
			panel := nearestPanelboard(g, load)
			if panel == nil {
				violations = append(violations, Violation{
					Type:       LoadFeedViolation,
					Severity:   Error,
					NodeID:     load.ID,
					Constraint: c.Name(),
					Message:    fmt.Sprintf("load %s has no feed and no panelboard exists to supply it", load.ID),
					Repaired:   false,
				})
				continue
			}
			connectLoad(g, panel, load)
			violations = append(violations, Violation{
				Type:       LoadFeedViolation,
				Severity:   Error,
				NodeID:     load.ID,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("load %s had no feed, connected to %s", load.ID, panel.ID),
				Repaired:   true,
				Details:    map[string]any{"connected_to": panel.ID},
			})

		case len(in) > 1:
			keep := nearestFeedEdge(g, load, in)
			removed := make([]string, 0, len(in)-1)
			for _, e := range append([]*graph.Edge(nil), in...) {
				if e == keep {
					continue
				}
				g.RemoveEdge(e.From, e.To)
				removed = append(removed, e.From)
			}
			violations = append(violations, Violation{
				Type:       LoadFeedViolation,
				Severity:   Error,
				NodeID:     load.ID,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("load %s had %d feeds, kept %s", load.ID, len(in), keep.From),
				Repaired:   true,
				Details:    map[string]any{"kept": keep.From, "removed": removed},
			})
			// The surviving feed may still come from a non-panelboard;
			// fall through to the next pass below.
			in = g.InEdges(load.ID)
			fallthrough

		default:
			src, ok := g.Node(in[0].From)
			if ok && src.Kind == graph.KindPanelboard {
				continue
			}
			panel := nearestPanelboard(g, load)
			if panel == nil {
				violations = append(violations, Violation{
					Type:       LoadFeedViolation,
					Severity:   Warning,
					NodeID:     load.ID,
					Constraint: c.Name(),
					Message:    fmt.Sprintf("load %s is fed by %s and no panelboard exists to replace it", load.ID, in[0].From),
					Repaired:   false,
				})
				continue
			}
			g.RemoveEdge(in[0].From, in[0].To)
			connectLoad(g, panel, load)
			violations = append(violations, Violation{
				Type:       LoadFeedViolation,
				Severity:   Error,
				NodeID:     load.ID,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("load %s was fed by non-panelboard %s, rerouted to %s", load.ID, in[0].From, panel.ID),
				Repaired:   true,
				Details:    map[string]any{"removed": in[0].From, "connected_to": panel.ID},
			})
		}
	}

	return violations, nil
}

// connectLoad wires a panelboard to a load with a fully energized edge
func connectLoad(g *graph.Graph, panel, load *graph.Node) {
	volts := electrical.LowTier
	if a, ok := panel.Attrs.(*graph.PanelboardAttrs); ok && a.DownstreamVoltage > 0 {
		volts = a.DownstreamVoltage
	}

	dist := distance3(panel, load)
	apparent := electrical.Amperage(electrical.NodePowerKW(load), volts, 1)
	rating, _ := electrical.SnapEquipmentAmps(apparent)

	g.AddEdge(&graph.Edge{
		From:             panel.ID,
		To:               load.ID,
		Connection:       "power",
		VoltageV:         volts,
		CurrentRatingA:   rating,
		Phases:           1,
		FrequencyHz:      60,
		ApparentCurrentA: apparent,
		VoltageDropV:     volts * electrical.VoltageDropPerMeter * dist,
		CableDistanceM:   dist,
		LoadClass:        "Repaired Feed",
	})
}

// nearestPanelboard finds the closest panelboard to a node, ties broken by
// ascending node ID
func nearestPanelboard(g *graph.Graph, n *graph.Node) *graph.Node {
	var best *graph.Node
	bestDist := 0.0
	for _, p := range g.NodesByKind(graph.KindPanelboard) {
		d := distance3(n, p)
		if best == nil || d < bestDist || (d == bestDist && p.ID < best.ID) {
			best = p
			bestDist = d
		}
	}
	return best
}

// nearestFeedEdge picks which of several incoming feeds to keep: prefer
// panelboard sources, then shortest distance, then lowest source ID
func nearestFeedEdge(g *graph.Graph, load *graph.Node, in []*graph.Edge) *graph.Edge {
	var best *graph.Edge
	bestPanel := false
	bestDist := 0.0
	for _, e := range in {
		src, ok := g.Node(e.From)
		if !ok {
			continue
		}
		isPanel := src.Kind == graph.KindPanelboard
		d := distance3(src, load)
		better := false
		switch {
		case best == nil:
			better = true
		case isPanel != bestPanel:
			better = isPanel
		case d != bestDist:
			better = d < bestDist
		default:
			better = e.From < best.From
		}
		if better {
			best = e
			bestPanel = isPanel
			bestDist = d
		}
	}
	return best
}

func distance3(a, b *graph.Node) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
