package core

// Point is a position in layout units
type Point struct {
	X, Y float64
}

// InputKind enumerates player actions routed to a game core
type InputKind int

const (
	InputTapQueue InputKind = iota
	InputTapSlot
	InputTapCube
)

func (k InputKind) String() string {
	switch k {
	case InputTapQueue:
		return "tap_queue"
	case InputTapSlot:
		return "tap_slot"
	case InputTapCube:
		return "tap_cube"
	default:
		return "unknown"
	}
}

// Input is a player action; fields not used by Kind are ignored
type Input struct {
	Kind        InputKind
	Index       int   // queue or slot index
	PlacementID int   // tap_cube
	Color       Color // tap_cube
}
