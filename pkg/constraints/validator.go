package constraints

import (
	"time"

	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
)

// Report contains the results of validating a graph against constraints
type Report struct {
	Valid      bool        // True if no violations found
	Violations []Violation // List of all violations
	CheckedAt  time.Time   // When validation was performed
}

// ViolationsBySeverity returns violations filtered by severity level
func (r *Report) ViolationsBySeverity(severity Severity) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range r.Violations {
		if v.Severity == severity {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// ViolationsByType returns violations filtered by type
func (r *Report) ViolationsByType(violationType ViolationType) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range r.Violations {
		if v.Type == violationType {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// RepairCount returns the number of violations that were repaired in place
func (r *Report) RepairCount() int {
	count := 0
	for _, v := range r.Violations {
		if v.Repaired {
			count++
		}
	}
	return count
}

// Validator manages a set of constraints and applies them to graphs. A
// second run over a repaired graph reports no new error-severity
// violations.
type Validator struct {
	constraints []Constraint
	log         logging.Logger
}

// NewValidator creates a validator carrying the standard rule set for a
// graph energized at the given high tier
func NewValidator(highTier float64, log logging.Logger) *Validator {
	return &Validator{
		constraints: []Constraint{
			&StepDownConstraint{HighTier: highTier},
			&TransformerFeedConstraint{},
			&LoadFeedConstraint{},
		},
		log: log,
	}
}

// AddConstraint adds a constraint to the validator
func (v *Validator) AddConstraint(constraint Constraint) {
	v.constraints = append(v.constraints, constraint)
}

// Constraints returns all constraints in the validator
func (v *Validator) Constraints() []Constraint {
	return v.constraints
}

// Repair runs all constraints against the graph, repairing in place, and
// returns the report
func (v *Validator) Repair(g *graph.Graph) (*Report, error) {
	report := &Report{
		Valid:      true,
		Violations: make([]Violation, 0),
		CheckedAt:  time.Now(),
	}

	for _, constraint := range v.constraints {
		violations, err := constraint.Apply(g)
		if err != nil {
			return nil, err
		}

		if len(violations) > 0 {
			report.Valid = false
			report.Violations = append(report.Violations, violations...)
		}
	}

	v.log.Debug("constraint validation complete",
		logging.Component("constraints"),
		logging.Int("violations", len(report.Violations)),
		logging.Int("repaired", report.RepairCount()))

	return report, nil
}
