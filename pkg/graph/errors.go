package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrDuplicateNode    = errors.New("duplicate node")
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrProvisionalNode  = errors.New("node has not been energized")
)

// TopologyError provides structured error information for graph operations.
type TopologyError struct {
	Op     string // Operation that failed (e.g., "AddNode", "Export")
	Entity string // Entity type (e.g., "node", "edge")
	ID     string // Entity ID (if applicable)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *TopologyError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TopologyError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *TopologyError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
