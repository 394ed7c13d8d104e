package conveyor

import (
	"math"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/parameter"
)

// ConveyorHeight returns the loop height for a placement count
func ConveyorHeight(placements int) float64 {
	switch {
	case placements > 6:
		return parameter.ConveyorHeightLarge
	case placements > 4:
		return parameter.ConveyorHeightMedium
	default:
		return parameter.ConveyorHeightSmall
	}
}

// BuildPath samples the rounded-rectangle loop clockwise starting at the top-left straight
// Edges and corners include both endpoints, so joints appear twice
func BuildPath(height float64) []core.Point {
	const (
		width  = parameter.ConveyorWidth
		radius = parameter.ConveyorCornerRadius
		sp     = parameter.ConveyorStraightPoints
		cp     = parameter.ConveyorCornerPoints
	)
	centerY := parameter.ConveyorTop + height/2
	left := parameter.ConveyorCenterX - width/2
	right := parameter.ConveyorCenterX + width/2
	top := centerY - height/2
	bottom := centerY + height/2

	points := make([]core.Point, 0, 4*(sp+1)+4*(cp+1))

	straight := func(x0, y0, x1, y1 float64) {
		for i := 0; i <= sp; i++ {
			t := float64(i) / sp
			points = append(points, core.Point{X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t})
		}
	}
	corner := func(cx, cy, start float64) {
		for i := 0; i <= cp; i++ {
			a := start + (math.Pi/2)*float64(i)/cp
			points = append(points, core.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
		}
	}

	straight(left+radius, top, right-radius, top)
	corner(right-radius, top+radius, -math.Pi/2)
	straight(right, top+radius, right, bottom-radius)
	corner(right-radius, bottom-radius, 0)
	straight(right-radius, bottom, left+radius, bottom)
	corner(left+radius, bottom-radius, math.Pi/2)
	straight(left, bottom-radius, left, top+radius)
	corner(left+radius, top+radius, math.Pi)

	return points
}

// GateIndex returns the release point index on a path of length n
func GateIndex(n int) int {
	return int(math.Floor(float64(n) * parameter.GateFraction))
}

// BoxSpacing returns the minimum path distance kept between released cubes
func BoxSpacing(n, beltCapacity int) int {
	if beltCapacity < 1 {
		return n
	}
	return n / beltCapacity
}

// wrappedDistance is the shorter way around the loop between two indices
func wrappedDistance(a, b, n int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return min(d, n-d)
}
