package parameter

import "time"

// Conveyor loop geometry, in layout units
const (
	ConveyorWidth          = 320.0
	ConveyorCornerRadius   = 55.0
	ConveyorCenterX        = 200.0
	ConveyorTop            = 60.0
	ConveyorStraightPoints = 30 // segments per edge, endpoints inclusive
	ConveyorCornerPoints   = 15 // segments per quarter circle, endpoints inclusive

	// Conveyor height by placement count
	ConveyorHeightSmall  = 340.0
	ConveyorHeightMedium = 380.0 // more than 4 placements
	ConveyorHeightLarge  = 420.0 // more than 6 placements
)

// GateFraction places the input gate along the path
const GateFraction = 0.54

// Placement grid inside the loop
const (
	PlacementBoxSize = 80.0
	PlacementGap     = 10.0
)

// Jump adjacency between belt points and placements
const (
	JumpLeftMaxX  = 60.0
	JumpRightMinX = 340.0
	JumpMaxDY     = 70.0
)

// Display counters
const (
	StepsPerBeat    = 4
	BeatsPerMeasure = 3
)

// Animation hint lifetimes
const (
	CompletionAnimDuration = 500 * time.Millisecond
	ProjectileAnimDuration = 200 * time.Millisecond
	VanishAnimDuration     = 400 * time.Millisecond
)

// Sort tempo fallback when the tempo table has no entry for a level
const (
	DefaultTempo     = 120
	DefaultBeltSpeed = 42 * time.Millisecond
)
