package conveyor

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/level"
	"github.com/lixenwraith/beltwaltz/parameter"
)

// Side is the belt edge a placement receives cubes from
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Cube is one colored unit; ids are unique within a level
type Cube struct {
	ID    int
	Color core.Color
}

// Layer is one slab of a placement with its own target color
type Layer struct {
	TargetColor core.Color
	Cubes       []Cube
	Completed   bool
}

// IsComplete reports whether the layer holds exactly cubesPerPlacement cubes of its target color
func (l *Layer) IsComplete(cubesPerPlacement int) bool {
	if len(l.Cubes) != cubesPerPlacement {
		return false
	}
	for _, c := range l.Cubes {
		if c.Color != l.TargetColor {
			return false
		}
	}
	return true
}

// HasWrong reports whether the layer holds a cube not matching its target
func (l *Layer) HasWrong() bool {
	for _, c := range l.Cubes {
		if c.Color != l.TargetColor {
			return true
		}
	}
	return false
}

// Placement is a station filled layer by layer from the top index down
type Placement struct {
	ID                int
	X, Y              float64
	Side              Side
	Layers            []Layer
	CurrentLayerIndex int // -1 once every layer is complete
}

// ActiveLayer returns the layer accepting cubes, nil when the placement is done
func (p *Placement) ActiveLayer() *Layer {
	if p.CurrentLayerIndex < 0 || p.CurrentLayerIndex >= len(p.Layers) {
		return nil
	}
	return &p.Layers[p.CurrentLayerIndex]
}

// adjacent reports whether a belt point can drop a cube into p
func (p *Placement) adjacent(pt core.Point) bool {
	if math.Abs(pt.Y-p.Y) >= parameter.JumpMaxDY {
		return false
	}
	if p.Side == SideLeft {
		return pt.X < parameter.JumpLeftMaxX
	}
	return pt.X > parameter.JumpRightMinX
}

func (p Placement) clone() Placement {
	layers := make([]Layer, len(p.Layers))
	for i, l := range p.Layers {
		l.Cubes = append([]Cube(nil), l.Cubes...)
		layers[i] = l
	}
	p.Layers = layers
	return p
}

// Board is a freshly generated level
type Board struct {
	Placements []Placement
	Height     float64
}

// Demand returns the per-color cube count required by every layer target
func Demand(l level.SortLevel) map[core.Color]int {
	colors := l.Palette()
	demand := make(map[core.Color]int, len(colors))
	for p := 0; p < l.Placements; p++ {
		for k := 0; k < l.Depth; k++ {
			demand[targetColor(colors, p, k)] += l.CubesPerPlacement
		}
	}
	return demand
}

func targetColor(colors []core.Color, p, k int) core.Color {
	return colors[(p+k)%len(colors)]
}

// Generate builds a balanced board: the cube pool equals the target demand, shuffled with rng
func Generate(l level.SortLevel, rng *rand.Rand) Board {
	height := ConveyorHeight(l.Placements)
	colors := l.Palette()

	// Pool in palette order so a seeded rng reproduces the board
	var pool []core.Color
	demand := Demand(l)
	for _, c := range colors {
		for i := 0; i < demand[c]; i++ {
			pool = append(pool, c)
		}
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	rows := (l.Placements + l.GridCols - 1) / l.GridCols
	const box, gap = parameter.PlacementBoxSize, parameter.PlacementGap
	totalW := float64(l.GridCols)*box + float64(l.GridCols-1)*gap
	totalH := float64(rows)*box + float64(rows-1)*gap
	startX := parameter.ConveyorCenterX - totalW/2 + box/2
	startY := parameter.ConveyorTop + height/2 - totalH/2 + box/2

	placements := make([]Placement, l.Placements)
	next := 0
	for i := range placements {
		row, col := i/l.GridCols, i%l.GridCols
		side := SideRight
		if float64(col) < float64(l.GridCols)/2 {
			side = SideLeft
		}

		layers := make([]Layer, l.Depth)
		for k := range layers {
			cubes := make([]Cube, l.CubesPerPlacement)
			for c := range cubes {
				cubes[c] = Cube{ID: next, Color: pool[next]}
				next++
			}
			layers[k] = Layer{TargetColor: targetColor(colors, i, k), Cubes: cubes}
		}

		placements[i] = Placement{
			ID:                i,
			X:                 startX + float64(col)*(box+gap),
			Y:                 startY + float64(row)*(box+gap),
			Side:              side,
			Layers:            layers,
			CurrentLayerIndex: l.Depth - 1,
		}
	}

	return Board{Placements: placements, Height: height}
}
