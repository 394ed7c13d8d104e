// Package pixelbelt implements Pixel Belt: blobs circle a pixel grid and shoot matching colors into it
package pixelbelt

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
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

// Blob is a shooter riding the belt
type Blob struct {
	ID             int
	Color          core.Color
	ShotsRemaining int
	PathIndex      int
}

// SlotBlob is a blob sidelined after a lap with shots left
type SlotBlob struct {
	Color          core.Color
	ShotsRemaining int
}

// Projectile is the presentation hint for a shot; Value runs 0 to 1 over the flight
type Projectile struct {
	BlobID         int
	Color          core.Color
	From, To       core.Point
	PixelX, PixelY int
}

// Vanish is the presentation hint for a blob that spent its last shot; Value falls from 1 to 0
type Vanish struct {
	BlobID int
	Color  core.Color
	At     core.Point
}

// Game is one Pixel Belt instance; all methods run on the dispatcher goroutine
type Game struct {
	level    level.BeltLevel
	art      level.Art
	interval time.Duration
	rng      *rand.Rand
	state    core.GameState

	grid      Grid
	pixelSize int
	path      []PathPoint

	blobs  []Blob
	slots  [parameter.SlotCount]*SlotBlob
	queues [][]Stack
	nextID int

	// unfilled pixels per row; rows without pixels are absent
	rowRemaining *intmap.Map[int, int]
	rowsDone     []int

	projectiles anim.Set[Projectile]
	vanishing   anim.Set[Vanish]
	bus         *event.Bus

	filledSeen int

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
		rng:          rng,
		state:        core.StateMenu,
		interval:     parameter.DefaultBeltSpeed,
		rowRemaining: intmap.New[int, int](64),
		bus:          event.NewBus(reg.Ints.Get(status.GameEvents)),
		statTicks:    reg.Ints.Get(status.EngineTicks),
	}
}

// Load parses the level art, deals the color stacks and starts playing
func (g *Game) Load(l level.BeltLevel, art level.Art, interval time.Duration) {
	grid := ParseArt(art)
	g.art = art
	g.loadGrid(l, grid, Distribute(BuildStacks(grid.Pixels, g.rng), parameter.QueueCount), interval)
}

func (g *Game) loadGrid(l level.BeltLevel, grid Grid, queues [][]Stack, interval time.Duration) {
	if interval <= 0 {
		interval = l.BeltSpeed()
	}
	if interval <= 0 {
		interval = parameter.DefaultBeltSpeed
	}
	g.level = l
	g.interval = interval
	g.grid = grid
	g.pixelSize = PixelSize(grid.Width, grid.Height)
	g.path = BuildPath(grid.Width, grid.Height, g.pixelSize)
	g.blobs = nil
	g.slots = [parameter.SlotCount]*SlotBlob{}
	g.queues = queues
	g.nextID = 0
	g.projectiles.Clear()
	g.vanishing.Clear()
	g.bus.Drop()

	g.rowRemaining.Clear()
	g.filledSeen = 0
	for _, p := range g.grid.Pixels {
		if p.Filled {
			g.filledSeen++
			continue
		}
		n, _ := g.rowRemaining.Get(p.Y)
		g.rowRemaining.Put(p.Y, n+1)
	}
	g.rowsDone = nil

	log.WithFields(log.Fields{
		"game":     "belt",
		"level":    l.Name,
		"grid":     [2]int{grid.Width, grid.Height},
		"pixels":   len(grid.Pixels),
		"path":     len(g.path),
		"interval": interval,
	}).Info("level start")

	g.setState(core.StatePlaying)
	g.bus.Flush()
}

// Retry re-deals the current level
func (g *Game) Retry() {
	g.Load(g.level, g.art, g.interval)
}

// ShowMenu leaves the level
func (g *Game) ShowMenu() {
	g.setState(core.StateMenu)
	g.bus.Flush()
}

// Tick runs one ordered pass over the belt: each blob shoots at its position, then moves
func (g *Game) Tick() {
	if g.state != core.StatePlaying || len(g.path) == 0 {
		return
	}
	g.statTicks.Add(1)

	n := len(g.path)
	lost := false
	kept := g.blobs[:0]
	for _, b := range g.blobs {
		pt := g.path[b.PathIndex]
		if i := g.grid.Target(pt); i >= 0 && g.grid.Pixels[i].Color == b.Color {
			g.fill(i, b, pt)
			b.ShotsRemaining--
			if b.ShotsRemaining == 0 {
				g.vanishing.Add(Vanish{BlobID: b.ID, Color: b.Color, At: core.Point{X: pt.X, Y: pt.Y}},
					1, 0, parameter.VanishAnimDuration, ease.OutQuad)
				continue
			}
		}

		if b.PathIndex+1 >= n {
			if !g.sideline(b) {
				lost = true
			}
			continue
		}
		b.PathIndex++
		kept = append(kept, b)
	}
	g.blobs = kept

	for _, row := range g.rowsDone {
		g.bus.Emit(event.Event{Type: event.RowComplete, Row: row})
	}
	g.rowsDone = g.rowsDone[:0]

	switch {
	case lost:
		g.setState(core.StateLost)
		g.bus.Emit(event.Event{Type: event.Lose})
	case g.grid.Unfilled() == 0:
		g.setState(core.StateWon)
		g.bus.Emit(event.Event{Type: event.Win})
	}

	g.projectiles.Advance(g.interval)
	g.vanishing.Advance(g.interval)
	g.verify()
	g.bus.Flush()
}

// fill marks pixel i filled by blob b standing at pt
func (g *Game) fill(i int, b Blob, pt PathPoint) {
	p := &g.grid.Pixels[i]
	p.Filled = true

	ps := float64(g.pixelSize)
	g.projectiles.Add(Projectile{
		BlobID: b.ID,
		Color:  b.Color,
		From:   core.Point{X: pt.X, Y: pt.Y},
		To:     core.Point{X: (float64(p.X) + 0.5) * ps, Y: (float64(p.Y) + 0.5) * ps},
		PixelX: p.X,
		PixelY: p.Y,
	}, 0, 1, parameter.ProjectileAnimDuration, ease.Linear)
	g.bus.Emit(event.Event{Type: event.PixelFill, X: p.X, Y: p.Y, Width: g.grid.Width, Height: g.grid.Height, Color: p.Color})

	if left, ok := g.rowRemaining.Get(p.Y); ok {
		left--
		g.rowRemaining.Put(p.Y, left)
		if left == 0 {
			g.rowsDone = append(g.rowsDone, p.Y)
		}
	}
}

// sideline parks a blob that finished its lap in the first free slot
func (g *Game) sideline(b Blob) bool {
	for i := range g.slots {
		if g.slots[i] == nil {
			g.slots[i] = &SlotBlob{Color: b.Color, ShotsRemaining: b.ShotsRemaining}
			return true
		}
	}
	log.WithFields(log.Fields{"blob": b.ID, "color": b.Color, "shots": b.ShotsRemaining}).Debug("no free slot")
	return false
}

// entryClear reports whether no blob sits within the entry clearance
func (g *Game) entryClear() bool {
	for _, b := range g.blobs {
		if b.PathIndex < parameter.EntryClearance {
			return false
		}
	}
	return true
}

func (g *Game) launch(c core.Color, shots int) {
	g.blobs = append(g.blobs, Blob{ID: g.nextID, Color: c, ShotsRemaining: shots, PathIndex: 0})
	g.nextID++
}

// TapQueue sends the head stack of queue i onto the belt
// Returns false without mutation when not playing, the queue is empty or the entry is occupied
func (g *Game) TapQueue(i int) bool {
	if g.state != core.StatePlaying || i < 0 || i >= len(g.queues) || len(g.queues[i]) == 0 {
		return false
	}
	if !g.entryClear() {
		return false
	}
	head := g.queues[i][0]
	g.queues[i] = g.queues[i][1:]
	g.launch(head.Color, head.Count)
	log.WithFields(log.Fields{"queue": i, "color": head.Color, "shots": head.Count}).Debug("launch")
	return true
}

// TapSlot sends a sidelined blob back onto the belt, same rules as TapQueue
func (g *Game) TapSlot(i int) bool {
	if g.state != core.StatePlaying || i < 0 || i >= len(g.slots) || g.slots[i] == nil {
		return false
	}
	if !g.entryClear() {
		return false
	}
	s := g.slots[i]
	g.slots[i] = nil
	g.launch(s.Color, s.ShotsRemaining)
	log.WithFields(log.Fields{"slot": i, "color": s.Color, "shots": s.ShotsRemaining}).Debug("relaunch")
	return true
}

func (g *Game) setState(to core.GameState) {
	from := g.state
	if !core.CanTransition(from, to) {
		engine.Violation(log.Fields{"game": "belt", "from": from, "to": to}, "illegal state transition")
		return
	}
	g.state = to
	g.bus.Emit(event.Event{Type: event.StateChange, From: from, To: to})
	log.WithFields(log.Fields{"game": "belt", "from": from, "to": to}).Debug("state")
}

// Dispatch routes tap_queue and tap_slot inputs
func (g *Game) Dispatch(in core.Input) bool {
	switch in.Kind {
	case core.InputTapQueue:
		return g.TapQueue(in.Index)
	case core.InputTapSlot:
		return g.TapSlot(in.Index)
	default:
		return false
	}
}

// Subscribe registers h on the game's event bus
func (g *Game) Subscribe(h event.Handler) { g.bus.Register(h) }

// State returns the current game state
func (g *Game) State() core.GameState { return g.state }

// TickInterval returns the belt step period
func (g *Game) TickInterval() time.Duration { return g.interval }

// Level returns the loaded level descriptor
func (g *Game) Level() level.BeltLevel { return g.level }

// GridSize returns the grid dimensions in pixels
func (g *Game) GridSize() (w, h int) { return g.grid.Width, g.grid.Height }

// PixelSize returns the layout size of one pixel
func (g *Game) PixelSize() int { return g.pixelSize }

// Path returns the belt points
func (g *Game) Path() []PathPoint { return g.path }

// Pixels returns a copy of the grid pixels
func (g *Game) Pixels() []Pixel {
	return append([]Pixel(nil), g.grid.Pixels...)
}

// Fillable returns the pixels a matching blob could currently reach
func (g *Game) Fillable() []Pixel { return g.grid.Fillable() }

// Progress returns filled and total pixel counts
func (g *Game) Progress() (filled, total int) {
	return len(g.grid.Pixels) - g.grid.Unfilled(), len(g.grid.Pixels)
}

// Blobs returns a copy of the blobs on the belt, in belt order
func (g *Game) Blobs() []Blob {
	return append([]Blob(nil), g.blobs...)
}

// Slots returns copies of the launcher slots; empty slots are nil
func (g *Game) Slots() []*SlotBlob {
	out := make([]*SlotBlob, len(g.slots))
	for i, s := range g.slots {
		if s != nil {
			cp := *s
			out[i] = &cp
		}
	}
	return out
}

// Queues returns a copy of the stack queues, heads first
func (g *Game) Queues() [][]Stack {
	out := make([][]Stack, len(g.queues))
	for i, q := range g.queues {
		out[i] = append([]Stack(nil), q...)
	}
	return out
}

// Projectiles returns the shots in flight
func (g *Game) Projectiles() []anim.Item[Projectile] { return g.projectiles.Snapshot() }

// Vanishing returns the blobs fading out
func (g *Game) Vanishing() []anim.Item[Vanish] { return g.vanishing.Snapshot() }

// RowComplete reports whether row has no unfilled pixels
func (g *Game) RowComplete(row int) bool {
	left, _ := g.rowRemaining.Get(row)
	return left == 0
}

// PhraseCount returns the number of melody phrases for the grid, one per row up to the song length
func (g *Game) PhraseCount() int {
	return min(max(g.grid.Height, 1), parameter.MaxPhraseCount)
}

// PhraseOfRow maps a grid row to its phrase
func (g *Game) PhraseOfRow(row int) int {
	if g.grid.Height == 0 {
		return 0
	}
	return row * g.PhraseCount() / g.grid.Height
}

// PhraseComplete reports whether every row of phrase p is complete
func (g *Game) PhraseComplete(p int) bool {
	for row := 0; row < g.grid.Height; row++ {
		if g.PhraseOfRow(row) == p && !g.RowComplete(row) {
			return false
		}
	}
	return true
}
