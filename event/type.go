package event

import (
	"fmt"

	"github.com/lixenwraith/beltwaltz/core"
)

// Type identifies a gameplay event
type Type int

const (
	// CubePick reports cubes moved from a layer to the input stack
	// Trigger: conveyor PickCube | Payload: Color, Count, PlacementID
	CubePick Type = iota

	// BeltRelease reports the input stack head entering the belt at the gate
	// Trigger: conveyor release phase | Payload: Color
	BeltRelease

	// CubePlace reports a belt cube jumping into a matching active layer
	// Trigger: conveyor jump phase | Payload: Color, PlacementID
	CubePlace

	// LayerComplete reports a layer sealed with its target color
	// Trigger: conveyor completion sweep | Payload: Color, PlacementID
	LayerComplete

	// VictoryLap reports every placement completed; the game waits for the music loop to wrap
	// Trigger: conveyor win check | Payload: nil
	VictoryLap

	// Win reports the terminal won state
	// Trigger: conveyor CompleteVictoryLap, pixelbelt all pixels filled | Payload: nil
	Win

	// Lose reports the terminal lost state
	// Trigger: conveyor deadlock, pixelbelt slot overflow | Payload: nil
	Lose

	// PixelFill reports a projectile filling a pixel
	// Trigger: pixelbelt shot | Payload: X, Y, Width, Height, Color
	PixelFill

	// RowComplete reports the last pixel of a grid row filled
	// Trigger: pixelbelt tick | Payload: Row
	RowComplete

	// StateChange reports a game state transition
	// Trigger: any game core | Payload: From, To
	StateChange

	typeCount
)

func (t Type) String() string {
	names := [...]string{
		"cube_pick", "belt_release", "cube_place", "layer_complete",
		"victory_lap", "win", "lose", "pixel_fill", "row_complete", "state_change",
	}
	if t >= 0 && t < typeCount {
		return names[t]
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is a gameplay notification; fields not listed in the type's payload are zero
type Event struct {
	Type        Type
	Color       core.Color
	Count       int
	PlacementID int
	X, Y        int
	Width       int
	Height      int
	Row         int
	From, To    core.GameState
}
