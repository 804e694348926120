// Package validation checks generation requests before any construction
// work begins. Malformed input is rejected with ErrInvalidParameter so
// callers can correct and retry.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gridsmith/mepsynth/pkg/graph"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MinNodeCount is the smallest topology worth synthesizing
	MinNodeCount = 3
)

func init() {
	validate = validator.New()
}

// GenerationRequest is the construction entry-point parameter record
type GenerationRequest struct {
	NodeCount     int     `yaml:"node_count" validate:"required,min=3"`
	Length        float64 `yaml:"length" validate:"required,gt=0"`
	Width         float64 `yaml:"width" validate:"required,gt=0"`
	FloorHeight   float64 `yaml:"floor_height" validate:"required,gt=0"`
	Floors        int     `yaml:"floors" validate:"required,min=1"`
	BasementDepth float64 `yaml:"basement_depth" validate:"gte=0"`
	Seed          int64   `yaml:"seed"`
}

// ValidateGenerationRequest validates a request, wrapping every failure in
// ErrInvalidParameter
func ValidateGenerationRequest(req *GenerationRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request cannot be nil", graph.ErrInvalidParameter)
	}

	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", graph.ErrInvalidParameter, formatValidationError(err))
	}

	// Struct tags cover the ranges; keep an explicit check for the node
	// count so the message names the documented minimum.
	if req.NodeCount < MinNodeCount {
		return fmt.Errorf("%w: node count must be at least %d, got %d",
			graph.ErrInvalidParameter, MinNodeCount, req.NodeCount)
	}

	return nil
}

// formatValidationError converts validator errors to a user-friendly format
func formatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Sprintf("%s: field is required", field)
		case "min":
			return fmt.Sprintf("%s: must be at least %s", field, e.Param())
		case "gt":
			return fmt.Sprintf("%s: must be greater than %s", field, e.Param())
		case "gte":
			return fmt.Sprintf("%s: must not be negative", field)
		default:
			return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err.Error()
}
