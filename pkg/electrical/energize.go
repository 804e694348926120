package electrical

import "github.com/gridsmith/mepsynth/pkg/graph"

// VoltageDropPerMeter approximates feeder loss as a fraction of the
// transmitted voltage per meter of cable
const VoltageDropPerMeter = 0.0003

// NodePowerKW is the demand or capacity a node presents to its feeder
func NodePowerKW(n *graph.Node) float64 {
	switch a := n.Attrs.(type) {
	case *graph.TransformerAttrs:
		return a.CapacityKW
	case *graph.SwitchboardAttrs:
		return a.CapacityKW
	case *graph.PanelboardAttrs:
		return a.CapacityKW
	case *graph.LoadAttrs:
		return a.DemandKW
	default:
		return 0
	}
}

// EnergizeEdge fills an edge's electrical attributes from the voltage its
// source node transmits. Load feeds always run single phase.
func EnergizeEdge(g *graph.Graph, e *graph.Edge, volts float64) {
	dst, ok := g.Node(e.To)
	if !ok {
		return
	}

	phases := 1
	if dst.Kind != graph.KindLoad && ThreePhase(volts) {
		phases = 3
	}

	apparent := Amperage(NodePowerKW(dst), volts, phases)
	rating, _ := SnapEquipmentAmps(apparent)

	e.VoltageV = volts
	e.Phases = phases
	e.ApparentCurrentA = apparent
	e.CurrentRatingA = rating
	e.VoltageDropV = volts * VoltageDropPerMeter * e.CableDistanceM
}
