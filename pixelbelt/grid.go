package pixelbelt

import (
	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/level"
	"github.com/lixenwraith/beltwaltz/parameter"
)

// Pixel is one cell of the target image
type Pixel struct {
	X, Y   int
	Color  core.Color
	Filled bool
}

// Grid is the pixel image with a dense cell index
// cells holds the index into Pixels for each (x,y), -1 for empty cells
type Grid struct {
	Width, Height int
	Pixels        []Pixel
	cells         []int
}

// ParseArt upscales art by PixelScale; blanks and rows shorter than the art width stay empty
func ParseArt(art level.Art) Grid {
	s := parameter.PixelScale
	g := Grid{Width: art.Width * s, Height: art.Height * s}
	g.cells = make([]int, g.Width*g.Height)
	for i := range g.cells {
		g.cells[i] = -1
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c, ok := art.ColorAt(x/s, y/s)
			if !ok {
				continue
			}
			g.cells[y*g.Width+x] = len(g.Pixels)
			g.Pixels = append(g.Pixels, Pixel{X: x, Y: y, Color: c})
		}
	}
	return g
}

// NewGrid builds a grid from explicit pixels; pixels outside the bounds are ignored
func NewGrid(w, h int, pixels []Pixel) Grid {
	g := Grid{Width: w, Height: h, cells: make([]int, w*h)}
	for i := range g.cells {
		g.cells[i] = -1
	}
	for _, p := range pixels {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h || g.cells[p.Y*w+p.X] >= 0 {
			continue
		}
		g.cells[p.Y*w+p.X] = len(g.Pixels)
		g.Pixels = append(g.Pixels, p)
	}
	return g
}

func (g *Grid) at(x, y int) int {
	return g.cells[y*g.Width+x]
}

// open returns the pixel index at (x,y) if it exists and is unfilled, else -1
func (g *Grid) open(x, y int) int {
	if i := g.at(x, y); i >= 0 && !g.Pixels[i].Filled {
		return i
	}
	return -1
}

// Target returns the outermost unfilled pixel in the line of fire of pt, -1 when the line is clear
func (g *Grid) Target(pt PathPoint) int {
	switch pt.Edge {
	case EdgeBottom:
		if pt.GridCol < 0 || pt.GridCol >= g.Width {
			return -1
		}
		for y := g.Height - 1; y >= 0; y-- {
			if i := g.open(pt.GridCol, y); i >= 0 {
				return i
			}
		}
	case EdgeTop:
		if pt.GridCol < 0 || pt.GridCol >= g.Width {
			return -1
		}
		for y := 0; y < g.Height; y++ {
			if i := g.open(pt.GridCol, y); i >= 0 {
				return i
			}
		}
	case EdgeRight:
		if pt.GridRow < 0 || pt.GridRow >= g.Height {
			return -1
		}
		for x := g.Width - 1; x >= 0; x-- {
			if i := g.open(x, pt.GridRow); i >= 0 {
				return i
			}
		}
	case EdgeLeft:
		if pt.GridRow < 0 || pt.GridRow >= g.Height {
			return -1
		}
		for x := 0; x < g.Width; x++ {
			if i := g.open(x, pt.GridRow); i >= 0 {
				return i
			}
		}
	}
	return -1
}

// Fillable returns the pixels that are outermost unfilled in their row or column, in pixel order
func (g *Grid) Fillable() []Pixel {
	mark := make([]bool, len(g.Pixels))
	probe := func(pt PathPoint) {
		if i := g.Target(pt); i >= 0 {
			mark[i] = true
		}
	}
	for x := 0; x < g.Width; x++ {
		probe(PathPoint{Edge: EdgeBottom, GridCol: x, GridRow: -1})
		probe(PathPoint{Edge: EdgeTop, GridCol: x, GridRow: -1})
	}
	for y := 0; y < g.Height; y++ {
		probe(PathPoint{Edge: EdgeRight, GridCol: -1, GridRow: y})
		probe(PathPoint{Edge: EdgeLeft, GridCol: -1, GridRow: y})
	}

	var out []Pixel
	for i, p := range g.Pixels {
		if mark[i] {
			out = append(out, p)
		}
	}
	return out
}

// Unfilled returns the number of pixels still to fill
func (g *Grid) Unfilled() int {
	n := 0
	for _, p := range g.Pixels {
		if !p.Filled {
			n++
		}
	}
	return n
}
