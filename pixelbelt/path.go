package pixelbelt

import (
	"github.com/lixenwraith/beltwaltz/parameter"
)

// Edge is the side of the grid a belt point runs along
type Edge int

const (
	EdgeBottom Edge = iota
	EdgeRight
	EdgeTop
	EdgeLeft
)

func (e Edge) String() string {
	switch e {
	case EdgeBottom:
		return "bottom"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeLeft:
		return "left"
	default:
		return "unknown"
	}
}

// PathPoint is a belt position; GridCol is set on bottom/top edges, GridRow on left/right, the other is -1
type PathPoint struct {
	X, Y    float64
	Edge    Edge
	GridCol int
	GridRow int
}

// PixelSize returns the layout size of one pixel for a w x h grid
func PixelSize(w, h int) int {
	return max(parameter.PixelSizeMin, parameter.PixelSizeBudget/max(w, h, 1))
}

// BuildPath traces the belt around a w x h grid: bottom left to right, right bottom to top,
// top right to left, left top to bottom; one point per column or row
func BuildPath(w, h, pixelSize int) []PathPoint {
	ps := float64(pixelSize)
	left := -parameter.BeltOffset
	right := float64(w)*ps + parameter.BeltOffset
	top := -parameter.BeltOffset
	bottom := float64(h)*ps + parameter.BeltOffset
	center := func(i int) float64 { return (float64(i) + 0.5) * ps }

	path := make([]PathPoint, 0, 2*(w+h))
	for col := 0; col < w; col++ {
		path = append(path, PathPoint{X: center(col), Y: bottom, Edge: EdgeBottom, GridCol: col, GridRow: -1})
	}
	for row := h - 1; row >= 0; row-- {
		path = append(path, PathPoint{X: right, Y: center(row), Edge: EdgeRight, GridCol: -1, GridRow: row})
	}
	for col := w - 1; col >= 0; col-- {
		path = append(path, PathPoint{X: center(col), Y: top, Edge: EdgeTop, GridCol: col, GridRow: -1})
	}
	for row := 0; row < h; row++ {
		path = append(path, PathPoint{X: left, Y: center(row), Edge: EdgeLeft, GridCol: -1, GridRow: row})
	}
	return path
}
