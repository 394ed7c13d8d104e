package pixelbelt

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
)

// CheckInvariants returns every broken belt invariant
// Updates the filled-pixel high-water mark used by the monotonicity check
func (g *Game) CheckInvariants() []error {
	var errs []error
	n := len(g.path)

	for _, b := range g.blobs {
		if b.PathIndex < 0 || b.PathIndex >= n {
			errs = append(errs, errors.Errorf("blob %d path index %d outside [0,%d)", b.ID, b.PathIndex, n))
		}
		if b.ShotsRemaining < 1 {
			errs = append(errs, errors.Errorf("blob %d on belt with %d shots", b.ID, b.ShotsRemaining))
		}
	}

	filled := len(g.grid.Pixels) - g.grid.Unfilled()
	if filled < g.filledSeen {
		errs = append(errs, errors.Errorf("filled pixels fell from %d to %d", g.filledSeen, filled))
	}
	g.filledSeen = filled

	rows := make(map[int]int)
	for _, p := range g.grid.Pixels {
		if !p.Filled {
			rows[p.Y]++
		}
	}
	for y := 0; y < g.grid.Height; y++ {
		left, _ := g.rowRemaining.Get(y)
		if left != rows[y] {
			errs = append(errs, errors.Errorf("row %d tracks %d unfilled, grid has %d", y, left, rows[y]))
		}
	}

	if g.state == core.StatePlaying {
		if shots, unfilled := g.TotalShots(), g.grid.Unfilled(); shots < unfilled {
			errs = append(errs, errors.Errorf("%d shots left for %d unfilled pixels", shots, unfilled))
		}
	}
	return errs
}

// TotalShots sums shots on the belt, in the slots and in the queues
func (g *Game) TotalShots() int {
	sum := 0
	for _, b := range g.blobs {
		sum += b.ShotsRemaining
	}
	for _, s := range g.slots {
		if s != nil {
			sum += s.ShotsRemaining
		}
	}
	for _, q := range g.queues {
		for _, s := range q {
			sum += s.Count
		}
	}
	return sum
}

// verify reports invariant violations and drops blobs that left the path or ran dry
func (g *Game) verify() {
	errs := g.CheckInvariants()
	if len(errs) == 0 {
		return
	}
	for _, err := range errs {
		engine.Violation(log.Fields{"game": "belt"}, "%v", err)
	}

	n := len(g.path)
	kept := g.blobs[:0]
	for _, b := range g.blobs {
		if b.PathIndex >= 0 && b.PathIndex < n && b.ShotsRemaining > 0 {
			kept = append(kept, b)
		}
	}
	g.blobs = kept
}
