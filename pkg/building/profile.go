// Package building models the coarse geometry a topology is synthesized
// from: the validated building profile and the electrical core strategy
// derived from it.
package building

import (
	"fmt"

	"github.com/gridsmith/mepsynth/pkg/graph"
)

// Profile holds validated, normalized building parameters. Immutable after
// construction.
type Profile struct {
	Length        float64 // meters, along X
	Width         float64 // meters, along Y
	FloorHeight   float64 // meters
	Floors        int     // above-ground floors
	BasementDepth float64 // meters below grade
	CoreCenterX   float64
	CoreCenterY   float64
	CoreSize      float64 // side of the square electrical-core footprint
}

// BasementFloor is the floor index of the below-grade service level
const BasementFloor = -1

// squareFeetPerSquareMeter converts floor areas for the W/sqft load densities
const squareFeetPerSquareMeter = 10.7639

// NewProfile validates raw building parameters and returns an immutable
// profile. A zero core footprint defaults to the building center with a 3 m
// core.
func NewProfile(length, width, floorHeight float64, floors int, basementDepth float64) (Profile, error) {
	if length <= 0 || width <= 0 {
		return Profile{}, fmt.Errorf("%w: building dimensions must be positive", graph.ErrInvalidParameter)
	}
	if floorHeight <= 0 {
		return Profile{}, fmt.Errorf("%w: floor height must be positive", graph.ErrInvalidParameter)
	}
	if floors < 1 {
		return Profile{}, fmt.Errorf("%w: floor count must be at least 1", graph.ErrInvalidParameter)
	}
	if basementDepth < 0 {
		return Profile{}, fmt.Errorf("%w: basement depth must not be negative", graph.ErrInvalidParameter)
	}
	return Profile{
		Length:        length,
		Width:         width,
		FloorHeight:   floorHeight,
		Floors:        floors,
		BasementDepth: basementDepth,
		CoreCenterX:   length / 2,
		CoreCenterY:   width / 2,
		CoreSize:      3.0,
	}, nil
}

// FloorArea returns the footprint area in square meters
func (p Profile) FloorArea() float64 {
	return p.Length * p.Width
}

// FloorAreaSqFt returns the footprint area in square feet
func (p Profile) FloorAreaSqFt() float64 {
	return p.FloorArea() * squareFeetPerSquareMeter
}

// TotalArea returns total floor area across all above-ground floors, square
// meters
func (p Profile) TotalArea() float64 {
	return p.FloorArea() * float64(p.Floors)
}

// Height returns total above-ground height in meters
func (p Profile) Height() float64 {
	return float64(p.Floors) * p.FloorHeight
}

// AspectRatio returns max(length,width)/min(length,width)
func (p Profile) AspectRatio() float64 {
	if p.Length >= p.Width {
		return p.Length / p.Width
	}
	return p.Width / p.Length
}

// FloorElevation returns the Z level of a floor. The basement sits below
// grade by the basement depth (or one floor height when no depth was given).
func (p Profile) FloorElevation(floor int) float64 {
	if floor == BasementFloor {
		if p.BasementDepth > 0 {
			return -p.BasementDepth
		}
		return -p.FloorHeight
	}
	return float64(floor) * p.FloorHeight
}
