package conveyor

import (
	"math"
)

// AutoPick is a greedy player: it taps the first wrong-colored cube in the placement
// nearest the release gate among those holding one
// Returns false when there is nothing to pick or the pick was refused
func AutoPick(g *Game) bool {
	if len(g.stack) >= g.level.StackCapacity {
		return false
	}
	gate := g.GatePoint()

	best := -1
	bestDist := math.Inf(1)
	for i := range g.placements {
		p := &g.placements[i]
		layer := p.ActiveLayer()
		if layer == nil || !layer.HasWrong() {
			continue
		}
		if d := math.Hypot(p.X-gate.X, p.Y-gate.Y); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return false
	}

	layer := g.placements[best].ActiveLayer()
	for _, c := range layer.Cubes {
		if c.Color != layer.TargetColor {
			return g.PickCube(g.placements[best].ID, c.Color)
		}
	}
	return false
}
