// Package constraints validates a synthesized topology against electrical
// engineering rules and repairs what it can in place.
package constraints

import (
	"github.com/gridsmith/mepsynth/pkg/graph"
)

// Severity indicates the importance of a violation
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ViolationType categorizes the type of constraint violation
type ViolationType int

const (
	StepDownViolation ViolationType = iota
	IllegalTransformerFeed
	LoadFeedViolation
)

func (vt ViolationType) String() string {
	switch vt {
	case StepDownViolation:
		return "StepDownViolation"
	case IllegalTransformerFeed:
		return "IllegalTransformerFeed"
	case LoadFeedViolation:
		return "LoadFeedViolation"
	default:
		return "Unknown"
	}
}

// Violation represents one detected rule violation. Repaired reports whether
// the constraint fixed the graph in place.
type Violation struct {
	Type       ViolationType
	Severity   Severity
	NodeID     string
	Constraint string
	Message    string
	Repaired   bool
	Details    map[string]any
}

// Constraint is the interface all topology rules implement. Apply inspects
// the graph, repairs what it can, and reports every violation it found
// whether repaired or not.
type Constraint interface {
	// Apply checks the constraint against the graph and repairs violations
	// in place where a repair exists
	Apply(g *graph.Graph) ([]Violation, error)

	// Name returns a human-readable name for the constraint
	Name() string
}
