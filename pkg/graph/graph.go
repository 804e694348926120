package graph

import (
	"sort"
)

// Node represents one piece of electrical equipment in the topology
type Node struct {
	ID    string
	Kind  Kind
	X     float64
	Y     float64
	Z     float64
	Floor int
	Room  string
	Stage Stage
	Attrs Attributes
}

// Flatten renders the node as a flat typed-value map, positional and
// structural fields included
func (n *Node) Flatten() map[string]Value {
	out := map[string]Value{
		"type":  StringValue(string(n.Kind)),
		"x":     FloatValue(n.X),
		"y":     FloatValue(n.Y),
		"z":     FloatValue(n.Z),
		"floor": IntValue(int64(n.Floor)),
		"room":  StringValue(n.Room),
	}
	if n.Attrs != nil {
		for k, v := range n.Attrs.Flatten() {
			out[k] = v
		}
	}
	return out
}

// Edge represents one power connection between two nodes
type Edge struct {
	From             string
	To               string
	Connection       string // always "power"
	VoltageV         float64
	CurrentRatingA   float64
	Phases           int
	FrequencyHz      float64
	ApparentCurrentA float64
	VoltageDropV     float64
	CableDistanceM   float64
	LoadClass        string
}

// Flatten renders the edge attribute bag for serialization
func (e *Edge) Flatten() map[string]Value {
	return map[string]Value{
		"connection_type":     StringValue(e.Connection),
		"voltage":             FloatValue(e.VoltageV),
		"current_rating":      FloatValue(e.CurrentRatingA),
		"phases":              IntValue(int64(e.Phases)),
		"frequency_hz":        FloatValue(e.FrequencyHz),
		"apparent_current":    FloatValue(e.ApparentCurrentA),
		"voltage_drop":        FloatValue(e.VoltageDropV),
		"cable_distance":      FloatValue(e.CableDistanceM),
		"load_classification": StringValue(e.LoadClass),
	}
}

// Metadata carries graph-level fields needed by downstream consumers
type Metadata struct {
	GenerationID   string
	Seed           int64
	BuildingLength float64
	BuildingWidth  float64
	FloorHeight    float64
	Floors         int
	BasementDepth  float64
	TotalLoadKW    float64
	VoltageSystem  string
	GeneratedAt    string
}

// Graph is an in-memory attributed directed graph. Iteration order over
// nodes and edges is insertion order, which keeps downstream passes
// deterministic for a fixed construction sequence.
type Graph struct {
	Meta  Metadata
	nodes map[string]*Node
	order []string
	out   map[string][]*Edge
	in    map[string][]*Edge
	edges int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		order: make([]string, 0),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
}

// AddNode inserts a node. Re-adding an existing ID is an error.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return ErrInvalidID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return &TopologyError{Op: "AddNode", Entity: "node", ID: n.ID, Cause: ErrDuplicateNode}
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// Node returns the node with the given ID
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodesByKind returns nodes of one kind in insertion order
func (g *Graph) NodesByKind(kind Kind) []*Node {
	out := make([]*Node, 0)
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// AddEdge inserts a directed edge. Both endpoints must exist.
func (g *Graph) AddEdge(e *Edge) error {
	if e == nil || e.From == "" || e.To == "" {
		return ErrInvalidID
	}
	if _, ok := g.nodes[e.From]; !ok {
		return &TopologyError{Op: "AddEdge", Entity: "node", ID: e.From, Cause: ErrNodeNotFound}
	}
	if _, ok := g.nodes[e.To]; !ok {
		return &TopologyError{Op: "AddEdge", Entity: "node", ID: e.To, Cause: ErrNodeNotFound}
	}
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
	g.edges++
	return nil
}

// RemoveEdge removes the first edge from -> to, reporting whether one existed
func (g *Graph) RemoveEdge(from, to string) bool {
	removed := false
	outs := g.out[from]
	for i, e := range outs {
		if e.To == to {
			g.out[from] = append(outs[:i:i], outs[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return false
	}
	ins := g.in[to]
	for i, e := range ins {
		if e.From == from {
			g.in[to] = append(ins[:i:i], ins[i+1:]...)
			break
		}
	}
	g.edges--
	return true
}

// Edges returns every edge, ordered by source node insertion order
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, g.edges)
	for _, id := range g.order {
		out = append(out, g.out[id]...)
	}
	return out
}

// OutEdges returns edges leaving the node
func (g *Graph) OutEdges(id string) []*Edge {
	return g.out[id]
}

// InEdges returns edges entering the node
func (g *Graph) InEdges(id string) []*Edge {
	return g.in[id]
}

// InDegree returns the number of incoming edges
func (g *Graph) InDegree(id string) int {
	return len(g.in[id])
}

// OutDegree returns the number of outgoing edges
func (g *Graph) OutDegree(id string) int {
	return len(g.out[id])
}

// Predecessors returns the distinct source nodes of incoming edges
func (g *Graph) Predecessors(id string) []*Node {
	seen := make(map[string]bool)
	out := make([]*Node, 0)
	for _, e := range g.in[id] {
		if !seen[e.From] {
			seen[e.From] = true
			out = append(out, g.nodes[e.From])
		}
	}
	return out
}

// Successors returns the distinct target nodes of outgoing edges
func (g *Graph) Successors(id string) []*Node {
	seen := make(map[string]bool)
	out := make([]*Node, 0)
	for _, e := range g.out[id] {
		if !seen[e.To] {
			seen[e.To] = true
			out = append(out, g.nodes[e.To])
		}
	}
	return out
}

// Sources returns every node with in-degree zero, sorted by ID so callers
// get a stable traversal root order
func (g *Graph) Sources() []*Node {
	out := make([]*Node, 0)
	for _, id := range g.order {
		if len(g.in[id]) == 0 {
			out = append(out, g.nodes[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return g.edges
}
