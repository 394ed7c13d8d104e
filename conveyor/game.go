// Package conveyor implements Conveyor Sort: cubes ride a closed belt and drop into placements by color
package conveyor

import (
	"math/rand"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"

	"github.com/lixenwraith/beltwaltz/anim"
	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
	"github.com/lixenwraith/beltwaltz/event"
	"github.com/lixenwraith/beltwaltz/level"
	"github.com/lixenwraith/beltwaltz/parameter"
	"github.com/lixenwraith/beltwaltz/status"
)

// BeltCube is a cube riding the belt
type BeltCube struct {
	Cube
	PathIndex int
}

// Completion is the presentation hint for a sealed layer
type Completion struct {
	PlacementID int
	X, Y        float64
	Color       core.Color
}

// Game is one Conveyor Sort instance; all methods run on the dispatcher goroutine
type Game struct {
	level    level.SortLevel
	interval time.Duration
	rng      *rand.Rand
	state    core.GameState

	placements []Placement
	height     float64
	path       []core.Point
	gate       int
	spacing    int

	belt  []BeltCube
	stack []Cube

	arrowOffset int
	stepCount   int
	beatCount   int

	completions anim.Set[Completion]
	bus         *event.Bus

	// last observed layer index per placement, for the monotonicity check
	seenIndex []int

	statTicks *atomic.Int64
}

var _ engine.GameCore = (*Game)(nil)

// NewGame creates a game in the menu state; rng nil seeds from the clock, reg may be nil
func NewGame(rng *rand.Rand, reg *status.Registry) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Game{
		rng:       rng,
		state:     core.StateMenu,
		interval:  parameter.DefaultBeltSpeed,
		bus:       event.NewBus(reg.Ints.Get(status.GameEvents)),
		statTicks: reg.Ints.Get(status.EngineTicks),
	}
}

// Load generates a board for l and starts playing with the given belt interval
func (g *Game) Load(l level.SortLevel, interval time.Duration) {
	g.loadBoard(l, Generate(l, g.rng), interval)
}

func (g *Game) loadBoard(l level.SortLevel, b Board, interval time.Duration) {
	if interval <= 0 {
		interval = parameter.DefaultBeltSpeed
	}
	g.level = l
	g.interval = interval
	g.placements = b.Placements
	g.height = b.Height
	g.path = BuildPath(b.Height)
	g.gate = GateIndex(len(g.path))
	g.spacing = BoxSpacing(len(g.path), l.BeltCapacity)
	g.belt = nil
	g.stack = nil
	g.arrowOffset, g.stepCount, g.beatCount = 0, 0, 0
	g.completions.Clear()
	g.bus.Drop()

	g.seenIndex = make([]int, len(g.placements))
	for i, p := range g.placements {
		g.seenIndex[i] = p.CurrentLayerIndex
	}

	log.WithFields(log.Fields{
		"game":       "sort",
		"level":      l.Name,
		"placements": len(g.placements),
		"path":       len(g.path),
		"interval":   interval,
	}).Info("level start")

	g.setState(core.StatePlaying)
	g.bus.Flush()
}

// Retry regenerates the current level
func (g *Game) Retry() {
	g.Load(g.level, g.interval)
}

// ShowMenu leaves the level
func (g *Game) ShowMenu() {
	g.setState(core.StateMenu)
	g.bus.Flush()
}

// Tick advances the belt one step and resolves jumps, completion, release and win/lose
func (g *Game) Tick() {
	if !g.state.Running() || len(g.path) == 0 {
		return
	}
	g.statTicks.Add(1)

	n := len(g.path)
	g.arrowOffset = (g.arrowOffset + 1) % n
	for i := range g.belt {
		g.belt[i].PathIndex = (g.belt[i].PathIndex + 1) % n
	}
	g.stepCount = (g.stepCount + 1) % parameter.StepsPerBeat
	if g.stepCount == 0 {
		g.beatCount = (g.beatCount + 1) % parameter.BeatsPerMeasure
	}

	if g.state == core.StatePlaying {
		g.processJumps()
		g.completeLayers()
		g.TryRelease()
		g.checkWinLose()
	}

	g.completions.Advance(g.interval)
	g.verify()
	g.bus.Flush()
}

type jump struct {
	beltIndex int
	placement int
}

// processJumps collects every jump in one pass over the belt, then applies them
func (g *Game) processJumps() {
	var jumps []jump
	incoming := make([]int, len(g.placements))

	for bi, bc := range g.belt {
		pt := g.path[bc.PathIndex]
		for pi := range g.placements {
			p := &g.placements[pi]
			layer := p.ActiveLayer()
			if layer == nil || layer.TargetColor != bc.Color {
				continue
			}
			if len(layer.Cubes)+incoming[pi] >= g.level.CubesPerPlacement {
				continue
			}
			if !p.adjacent(pt) {
				continue
			}
			jumps = append(jumps, jump{beltIndex: bi, placement: pi})
			incoming[pi]++
			break
		}
	}
	if len(jumps) == 0 {
		return
	}

	removed := make(map[int]bool, len(jumps))
	for _, j := range jumps {
		bc := g.belt[j.beltIndex]
		p := &g.placements[j.placement]
		layer := p.ActiveLayer()
		layer.Cubes = append(layer.Cubes, bc.Cube)
		removed[j.beltIndex] = true
		g.bus.Emit(event.Event{Type: event.CubePlace, Color: bc.Color, PlacementID: p.ID})
	}

	kept := g.belt[:0]
	for i, bc := range g.belt {
		if !removed[i] {
			kept = append(kept, bc)
		}
	}
	g.belt = kept
}

// completeLayers seals every active layer that holds its full target set
func (g *Game) completeLayers() {
	for pi := range g.placements {
		p := &g.placements[pi]
		for {
			layer := p.ActiveLayer()
			if layer == nil || !layer.IsComplete(g.level.CubesPerPlacement) {
				break
			}
			layer.Completed = true
			p.CurrentLayerIndex--
			g.completions.Add(Completion{PlacementID: p.ID, X: p.X, Y: p.Y, Color: layer.TargetColor},
				1, 0, parameter.CompletionAnimDuration, ease.OutQuad)
			g.bus.Emit(event.Event{Type: event.LayerComplete, Color: layer.TargetColor, PlacementID: p.ID})
			log.WithFields(log.Fields{"placement": p.ID, "color": layer.TargetColor, "remaining": p.CurrentLayerIndex + 1}).Debug("layer complete")
		}
	}
}

// TryRelease moves the stack head onto the belt at the gate when the gate is clear
func (g *Game) TryRelease() bool {
	if g.state != core.StatePlaying || len(g.stack) == 0 || len(g.belt) >= g.level.BeltCapacity {
		return false
	}
	n := len(g.path)
	for _, bc := range g.belt {
		if wrappedDistance(bc.PathIndex, g.gate, n) < g.spacing {
			return false
		}
	}

	head := g.stack[0]
	g.stack = g.stack[1:]
	g.belt = append(g.belt, BeltCube{Cube: head, PathIndex: g.gate})
	g.bus.Emit(event.Event{Type: event.BeltRelease, Color: head.Color})
	return true
}

// PickCube moves cubes of color from a placement's active layer to the stack tail
// Returns false without mutation when the pick is not allowed
func (g *Game) PickCube(placementID int, color core.Color) bool {
	if g.state != core.StatePlaying {
		return false
	}
	if placementID < 0 || placementID >= len(g.placements) {
		return false
	}
	layer := g.placements[placementID].ActiveLayer()
	if layer == nil || layer.Completed {
		return false
	}
	space := g.level.StackCapacity - len(g.stack)
	if space <= 0 {
		return false
	}

	kept := make([]Cube, 0, len(layer.Cubes))
	picked := 0
	for _, c := range layer.Cubes {
		if c.Color == color && picked < space {
			g.stack = append(g.stack, c)
			picked++
			continue
		}
		kept = append(kept, c)
	}
	if picked == 0 {
		return false
	}
	layer.Cubes = kept

	g.bus.Emit(event.Event{Type: event.CubePick, Color: color, Count: picked, PlacementID: placementID})
	log.WithFields(log.Fields{"placement": placementID, "color": color, "count": picked}).Debug("pick")

	g.checkWinLose()
	g.bus.Flush()
	return true
}

// checkWinLose enters the victory lap when every placement is done, or loses on deadlock
func (g *Game) checkWinLose() {
	if g.state != core.StatePlaying || len(g.placements) == 0 {
		return
	}

	done := true
	for i := range g.placements {
		if g.placements[i].CurrentLayerIndex >= 0 {
			done = false
			break
		}
	}
	if done {
		g.setState(core.StateVictoryLap)
		g.bus.Emit(event.Event{Type: event.VictoryLap})
		return
	}

	if len(g.belt) < g.level.BeltCapacity || len(g.stack) < g.level.StackCapacity {
		return
	}
	for i := range g.placements {
		if layer := g.placements[i].ActiveLayer(); layer != nil && layer.HasWrong() {
			g.setState(core.StateLost)
			g.bus.Emit(event.Event{Type: event.Lose})
			return
		}
	}
}

// CompleteVictoryLap finishes the lap started when the last layer sealed; no-op in other states
func (g *Game) CompleteVictoryLap() bool {
	if g.state != core.StateVictoryLap {
		return false
	}
	g.setState(core.StateWon)
	g.bus.Emit(event.Event{Type: event.Win})
	g.bus.Flush()
	return true
}

func (g *Game) setState(to core.GameState) {
	from := g.state
	if !core.CanTransition(from, to) {
		engine.Violation(log.Fields{"game": "sort", "from": from, "to": to}, "illegal state transition")
		return
	}
	g.state = to
	g.bus.Emit(event.Event{Type: event.StateChange, From: from, To: to})
	log.WithFields(log.Fields{"game": "sort", "from": from, "to": to}).Debug("state")
}

// Dispatch routes tap_cube inputs to PickCube
func (g *Game) Dispatch(in core.Input) bool {
	if in.Kind != core.InputTapCube {
		return false
	}
	return g.PickCube(in.PlacementID, in.Color)
}

// Subscribe registers h on the game's event bus
func (g *Game) Subscribe(h event.Handler) { g.bus.Register(h) }

// State returns the current game state
func (g *Game) State() core.GameState { return g.state }

// TickInterval returns the belt step period
func (g *Game) TickInterval() time.Duration { return g.interval }

// Level returns the loaded level descriptor
func (g *Game) Level() level.SortLevel { return g.level }

// Placements returns a deep copy of the placements
func (g *Game) Placements() []Placement {
	out := make([]Placement, len(g.placements))
	for i, p := range g.placements {
		out[i] = p.clone()
	}
	return out
}

// BeltCubes returns a copy of the cubes on the belt, in release order
func (g *Game) BeltCubes() []BeltCube {
	return append([]BeltCube(nil), g.belt...)
}

// InputStack returns the stack colors head first
func (g *Game) InputStack() []core.Color {
	out := make([]core.Color, len(g.stack))
	for i, c := range g.stack {
		out[i] = c.Color
	}
	return out
}

// Path returns the belt points
func (g *Game) Path() []core.Point { return g.path }

// Height returns the conveyor height
func (g *Game) Height() float64 { return g.height }

// GateIndex returns the release index
func (g *Game) GateIndex() int { return g.gate }

// GatePoint returns the release position
func (g *Game) GatePoint() core.Point {
	if g.gate < len(g.path) {
		return g.path[g.gate]
	}
	return core.Point{X: parameter.ConveyorCenterX, Y: parameter.ConveyorTop + parameter.ConveyorHeightSmall}
}

// BoxSpacing returns the minimum distance between released cubes
func (g *Game) BoxSpacing() int { return g.spacing }

// RemainingLayers returns the number of layers not yet completed
func (g *Game) RemainingLayers() int {
	sum := 0
	for _, p := range g.placements {
		sum += p.CurrentLayerIndex + 1
	}
	return sum
}

// Counters returns the arrow offset and the step/beat display counters
func (g *Game) Counters() (arrow, step, beat int) {
	return g.arrowOffset, g.stepCount, g.beatCount
}

// Completions returns the running completion pulses; Value falls from 1 to 0
func (g *Game) Completions() []anim.Item[Completion] {
	return g.completions.Snapshot()
}
