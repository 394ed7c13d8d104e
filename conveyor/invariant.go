package conveyor

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
)

// CheckInvariants returns every broken board invariant
// Updates the layer index high-water marks used by the monotonicity check
func (g *Game) CheckInvariants() []error {
	var errs []error
	n := len(g.path)
	palette := make(map[core.Color]bool)
	for _, c := range g.level.Palette() {
		palette[c] = true
	}

	for _, bc := range g.belt {
		if bc.PathIndex < 0 || bc.PathIndex >= n {
			errs = append(errs, errors.Errorf("cube %d path index %d outside [0,%d)", bc.ID, bc.PathIndex, n))
		}
		if !palette[bc.Color] {
			errs = append(errs, errors.Errorf("cube %d has color %q outside the level palette", bc.ID, bc.Color))
		}
	}
	if len(g.belt) > g.level.BeltCapacity {
		errs = append(errs, errors.Errorf("belt holds %d cubes, capacity %d", len(g.belt), g.level.BeltCapacity))
	}
	if len(g.stack) > g.level.StackCapacity {
		errs = append(errs, errors.Errorf("stack holds %d cubes, capacity %d", len(g.stack), g.level.StackCapacity))
	}

	counts := make(map[core.Color]int)
	for _, bc := range g.belt {
		counts[bc.Color]++
	}
	for _, c := range g.stack {
		counts[c.Color]++
	}

	for i := range g.placements {
		p := &g.placements[i]
		if p.CurrentLayerIndex < -1 || p.CurrentLayerIndex >= len(p.Layers) {
			errs = append(errs, errors.Errorf("placement %d layer index %d outside [-1,%d)", p.ID, p.CurrentLayerIndex, len(p.Layers)))
		}
		if i < len(g.seenIndex) {
			if p.CurrentLayerIndex > g.seenIndex[i] {
				errs = append(errs, errors.Errorf("placement %d layer index rose from %d to %d", p.ID, g.seenIndex[i], p.CurrentLayerIndex))
			}
			g.seenIndex[i] = p.CurrentLayerIndex
		}

		for k := range p.Layers {
			l := &p.Layers[k]
			for _, c := range l.Cubes {
				counts[c.Color]++
			}
			if len(l.Cubes) > g.level.CubesPerPlacement {
				errs = append(errs, errors.Errorf("placement %d layer %d holds %d cubes", p.ID, k, len(l.Cubes)))
			}
			if l.Completed != (k > p.CurrentLayerIndex) {
				errs = append(errs, errors.Errorf("placement %d layer %d completed=%v with active index %d", p.ID, k, l.Completed, p.CurrentLayerIndex))
			}
			if l.Completed && !l.IsComplete(g.level.CubesPerPlacement) {
				errs = append(errs, errors.Errorf("placement %d layer %d sealed without a full target set", p.ID, k))
			}
		}
	}

	if len(g.placements) > 0 {
		for c, want := range Demand(g.level) {
			if counts[c] != want {
				errs = append(errs, errors.Errorf("color %s count %d, demand %d", c, counts[c], want))
			}
		}
	}
	return errs
}

// verify reports invariant violations and drops belt cubes that left the path
func (g *Game) verify() {
	errs := g.CheckInvariants()
	if len(errs) == 0 {
		return
	}
	for _, err := range errs {
		engine.Violation(log.Fields{"game": "sort"}, "%v", err)
	}

	n := len(g.path)
	kept := g.belt[:0]
	for _, bc := range g.belt {
		if bc.PathIndex >= 0 && bc.PathIndex < n {
			kept = append(kept, bc)
		}
	}
	g.belt = kept
}
