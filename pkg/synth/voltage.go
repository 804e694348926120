package synth

import (
	"github.com/gridsmith/mepsynth/pkg/electrical"
	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
)

// Propagator walks the hierarchy from the service entrance and assigns
// electrical attributes to every node and edge it reaches. Nodes flip from
// provisional to energized as they are visited.
type Propagator struct {
	highTier float64
	log      logging.Logger
}

// NewPropagator creates a voltage propagator for a graph whose high tier
// was already selected from the estimated load
func NewPropagator(highTier float64, log logging.Logger) *Propagator {
	return &Propagator{highTier: highTier, log: log}
}

// Propagate runs a breadth-first sweep from the graph sources. Each node is
// energized exactly once; cycles and reconvergent feeds are cut by the
// visited set, keeping the first voltage a node receives.
func (p *Propagator) Propagate(g *graph.Graph) error {
	roots := g.Sources()
	if len(roots) == 0 {
		// A graph with no in-degree-0 node still has to energize; start
		// from the main transformers so secondaries keep their fed voltage.
		for _, n := range g.NodesByKind(graph.KindTransformer) {
			if a, ok := n.Attrs.(*graph.TransformerAttrs); ok && a.Subtype == "main" {
				roots = append(roots, n)
			}
		}
	}

	type item struct {
		id      string
		inVolts float64
	}

	queue := make([]item, 0, len(roots))
	for _, r := range roots {
		in := p.highTier
		if r.Kind != graph.KindTransformer {
			// A root with no transformer upstream is fed at the medium
			// tier, as if from an unmodeled utility drop.
			in = electrical.MediumTier
		}
		queue = append(queue, item{id: r.ID, inVolts: in})
	}

	visited := make(map[string]bool, g.NodeCount())
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		n, ok := g.Node(cur.id)
		if !ok {
			return graph.ErrNodeNotFound
		}

		out := p.energize(n, cur.inVolts)

		for _, e := range g.OutEdges(n.ID) {
			electrical.EnergizeEdge(g, e, out)
			if !visited[e.To] {
				queue = append(queue, item{id: e.To, inVolts: out})
			}
		}
	}

	p.log.Debug("voltage propagation complete",
		logging.Component("voltage"),
		logging.Int("energized", len(visited)),
		logging.Float64("high_tier", p.highTier))

	return nil
}

// energize assigns the node's electrical attributes from its incoming
// voltage and returns the voltage it transmits downstream
func (p *Propagator) energize(n *graph.Node, inVolts float64) float64 {
	var out float64

	switch a := n.Attrs.(type) {
	case *graph.TransformerAttrs:
		out = electrical.StepDown(inVolts, p.highTier)
		phases := 1
		if electrical.ThreePhase(out) {
			phases = 3
		}
		a.UpstreamVoltage = inVolts
		a.DownstreamVoltage = out
		a.Phases = phases
		a.PrimaryAmps = electrical.Amperage(a.CapacityKW, inVolts, phases)
		a.SecondaryAmps = electrical.Amperage(a.CapacityKW, out, phases)
		a.NominalPowerKVA, a.ReplacementCost = electrical.SnapTransformerKVA(a.CapacityKW)

	case *graph.SwitchboardAttrs:
		out = electrical.NearestTier(inVolts, p.highTier)
		phases := 1
		if electrical.ThreePhase(out) {
			phases = 3
		}
		a.UpstreamVoltage = inVolts
		a.DownstreamVoltage = out
		a.Phases = phases
		a.AmperageRating, a.ReplacementCost = electrical.SnapEquipmentAmps(
			electrical.Amperage(a.CapacityKW, out, phases))

	case *graph.PanelboardAttrs:
		out = electrical.NearestTier(inVolts, p.highTier)
		phases := 1
		if electrical.ThreePhase(out) {
			phases = 3
		}
		a.UpstreamVoltage = inVolts
		a.DownstreamVoltage = out
		a.Phases = phases
		a.AmperageRating, a.ReplacementCost = electrical.SnapEquipmentAmps(
			electrical.Amperage(a.CapacityKW, out, phases))

	case *graph.LoadAttrs:
		// End loads always run single-phase at the low tier regardless of
		// what feeds them
		out = electrical.LowTier
		a.UpstreamVoltage = electrical.LowTier
		a.Phases = 1
		a.AmperageDraw = electrical.Amperage(a.DemandKW, electrical.LowTier, 1)
	}

	n.Stage = graph.StageEnergized
	return out
}
