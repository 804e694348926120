package building

import (
	"errors"
	"math"
	"testing"

	"github.com/gridsmith/mepsynth/pkg/graph"
)

// TestNewProfile_Validation tests parameter rejection
func TestNewProfile_Validation(t *testing.T) {
	cases := []struct {
		name                       string
		length, width, floorHeight float64
		floors                     int
		basementDepth              float64
	}{
		{"zero length", 0, 25, 3.5, 5, 4},
		{"negative width", 40, -1, 3.5, 5, 4},
		{"zero floor height", 40, 25, 0, 5, 4},
		{"zero floors", 40, 25, 3.5, 0, 4},
		{"negative basement", 40, 25, 3.5, 5, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProfile(tc.length, tc.width, tc.floorHeight, tc.floors, tc.basementDepth)
			if !errors.Is(err, graph.ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

// TestProfile_Derived tests the derived geometry accessors
func TestProfile_Derived(t *testing.T) {
	p, err := NewProfile(40, 25, 3.5, 5, 4)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}

	if got := p.FloorArea(); got != 1000 {
		t.Errorf("FloorArea: expected 1000, got %f", got)
	}
	if got := p.Height(); got != 17.5 {
		t.Errorf("Height: expected 17.5, got %f", got)
	}
	if got := p.AspectRatio(); got != 1.6 {
		t.Errorf("AspectRatio: expected 1.6, got %f", got)
	}
	if got := p.FloorAreaSqFt(); math.Abs(got-10763.9) > 0.01 {
		t.Errorf("FloorAreaSqFt: expected 10763.9, got %f", got)
	}
}

// TestProfile_FloorElevation tests above and below grade Z levels
func TestProfile_FloorElevation(t *testing.T) {
	p, _ := NewProfile(40, 25, 3.5, 5, 4)

	if got := p.FloorElevation(0); got != 0 {
		t.Errorf("Floor 0: expected 0, got %f", got)
	}
	if got := p.FloorElevation(2); got != 7 {
		t.Errorf("Floor 2: expected 7, got %f", got)
	}
	if got := p.FloorElevation(BasementFloor); got != -4 {
		t.Errorf("Basement: expected -4, got %f", got)
	}

	noBasement, _ := NewProfile(40, 25, 3.5, 5, 0)
	if got := noBasement.FloorElevation(BasementFloor); got != -3.5 {
		t.Errorf("Basement without depth: expected -3.5, got %f", got)
	}
}

// TestProfile_AspectRatio_WideBuilding tests the axis-independent ratio
func TestProfile_AspectRatio_WideBuilding(t *testing.T) {
	p, _ := NewProfile(20, 80, 3.5, 2, 0)
	if got := p.AspectRatio(); got != 4 {
		t.Errorf("AspectRatio: expected 4, got %f", got)
	}
}
