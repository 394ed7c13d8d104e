package engine

import (
	"time"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/event"
)

// GameCore is the capability set shared by the conveyor and pixel belt games
type GameCore interface {
	// Tick advances one belt step; no-op outside running states
	Tick()

	// Dispatch applies a player input, false when rejected without mutation
	Dispatch(in core.Input) bool

	// Subscribe registers a handler on the game's event bus
	Subscribe(h event.Handler)

	// State returns the current game state
	State() core.GameState

	// TickInterval returns the belt step period for the loaded level
	TickInterval() time.Duration
}
