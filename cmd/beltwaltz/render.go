package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/beltwaltz/conveyor"
	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/parameter"
	"github.com/lixenwraith/beltwaltz/pixelbelt"
	"github.com/lixenwraith/beltwaltz/session"
	"github.com/lixenwraith/beltwaltz/status"
)

// Layout units per terminal cell for the Conveyor Sort board
const (
	sortUnitsX = 10.0
	sortUnitsY = 20.0
)

const (
	glyphCube  = '■'
	glyphBlob  = '●'
	glyphPixel = '█'
	glyphEmpty = '·'
	glyphBelt  = '░'
	glyphGate  = '▼'
	glyphShot  = '*'
)

var (
	styleText  = tcell.StyleDefault
	styleDim   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle = tcell.StyleDefault.Bold(true)
	styleAlert = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// view draws session snapshots; draw runs on the loop goroutine
type view struct {
	screen tcell.Screen
	reg    *status.Registry
}

func newView(s tcell.Screen, reg *status.Registry) *view {
	return &view{screen: s, reg: reg}
}

func (v *view) draw(s *session.Session, ctl *controller) {
	v.screen.Clear()
	w, h := v.screen.Size()

	switch {
	case !s.Loaded():
		v.drawMenu(s)
	case s.Kind() == session.KindSort:
		v.drawSort(s.Sort(), ctl.selected)
	default:
		v.drawBelt(s.Belt())
	}
	v.drawFooter(s, w, h)
}

func (v *view) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// colorStyle maps a game color to a truecolor foreground
func colorStyle(c colorful.Color) tcell.Style {
	r, g, b := c.Clamped().RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func (v *view) drawMenu(s *session.Session) {
	v.text(2, 1, styleTitle, "beltwaltz")
	v.text(2, 3, styleText, fmt.Sprintf("%s levels:", s.Kind()))
	y := 4
	if s.Kind() == session.KindSort {
		for i, l := range s.Catalog().Sort {
			v.text(4, y, styleText, fmt.Sprintf("%d  %-10s %s", i+1, l.Name, l.Description))
			y++
		}
	} else {
		for i, l := range s.Catalog().Belt {
			v.text(4, y, styleText, fmt.Sprintf("%d  %-10s %s", i+1, l.Name, l.Difficulty))
			y++
		}
	}
	v.text(2, y+1, styleDim, "1-6 level  tab switch game  m mute  q quit")
}

func (v *view) drawSort(g *conveyor.Game, selected int) {
	cell := func(p core.Point) (int, int) {
		return int(math.Round(p.X / sortUnitsX)), int(math.Round(p.Y / sortUnitsY))
	}

	for _, p := range g.Path() {
		x, y := cell(p)
		v.screen.SetContent(x, y, glyphBelt, nil, styleDim)
	}
	gx, gy := cell(g.GatePoint())
	v.screen.SetContent(gx, gy-1, glyphGate, nil, styleAlert)

	path := g.Path()
	for _, c := range g.BeltCubes() {
		if c.PathIndex < 0 || c.PathIndex >= len(path) {
			continue
		}
		x, y := cell(path[c.PathIndex])
		v.screen.SetContent(x, y, glyphCube, nil, colorStyle(c.Color.Value()))
	}

	pulse := make(map[int]float32)
	for _, c := range g.Completions() {
		pulse[c.Data.PlacementID] = c.Value
	}

	for i, p := range g.Placements() {
		x, y := cell(core.Point{X: p.X - parameter.PlacementBoxSize/2, Y: p.Y})
		label := styleText
		if i == selected {
			label = styleAlert
		}
		v.text(x, y-1, label, fmt.Sprintf("%c", 'a'+i))

		layer := p.ActiveLayer()
		if layer == nil {
			v.text(x+2, y-1, styleDim, "done")
			continue
		}
		target := colorStyle(layer.TargetColor.Value())
		if amt, ok := pulse[p.ID]; ok {
			target = target.Bold(amt > 0.5)
		}
		v.text(x+2, y-1, target, layer.TargetColor.String())
		for j, cube := range layer.Cubes {
			v.screen.SetContent(x+j, y, glyphCube, nil, colorStyle(cube.Color.Value()))
		}
		v.text(x, y+1, styleDim, fmt.Sprintf("%d left", p.CurrentLayerIndex+1))
	}

	stack := g.InputStack()
	v.text(1, 0, styleText, fmt.Sprintf("stack %d", len(stack)))
	for i, c := range stack {
		if i >= 20 {
			break
		}
		v.screen.SetContent(10+i, 0, glyphCube, nil, colorStyle(c.Value()))
	}

	if selected >= 0 {
		palette := g.Level().Palette()
		x := 1
		for i, c := range palette {
			v.text(x, 1, colorStyle(c.Value()), fmt.Sprintf("%d:%s ", i+1, c))
			x += len(c.String()) + 4
		}
	}
}

func (v *view) drawBelt(g *pixelbelt.Game) {
	const ox, oy = 4, 3
	gw, gh := g.GridSize()

	fillable := make(map[[2]int]bool)
	for _, p := range g.Fillable() {
		fillable[[2]int{p.X, p.Y}] = true
	}
	for _, p := range g.Pixels() {
		x, y := ox+2*p.X, oy+p.Y
		switch {
		case p.Filled:
			st := colorStyle(p.Color.Value())
			v.screen.SetContent(x, y, glyphPixel, nil, st)
			v.screen.SetContent(x+1, y, glyphPixel, nil, st)
		case fillable[[2]int{p.X, p.Y}]:
			v.screen.SetContent(x, y, glyphEmpty, nil, colorStyle(p.Color.Value()))
		default:
			v.screen.SetContent(x, y, glyphEmpty, nil, colorStyle(p.Color.Dim(0.6)))
		}
	}

	// One terminal cell per path point, just outside the grid
	pos := func(pt pixelbelt.PathPoint) (int, int) {
		switch pt.Edge {
		case pixelbelt.EdgeBottom:
			return ox + 2*pt.GridCol, oy + gh
		case pixelbelt.EdgeRight:
			return ox + 2*gw, oy + pt.GridRow
		case pixelbelt.EdgeTop:
			return ox + 2*pt.GridCol, oy - 1
		default:
			return ox - 2, oy + pt.GridRow
		}
	}
	path := g.Path()
	for _, pt := range path {
		x, y := pos(pt)
		v.screen.SetContent(x, y, glyphBelt, nil, styleDim)
	}
	for _, b := range g.Blobs() {
		if b.PathIndex < 0 || b.PathIndex >= len(path) {
			continue
		}
		x, y := pos(path[b.PathIndex])
		v.screen.SetContent(x, y, glyphBlob, nil, colorStyle(b.Color.Value()))
	}
	// Shots in flight flash their target pixel
	for _, p := range g.Projectiles() {
		st := colorStyle(p.Data.Color.Dim(float64(1 - p.Value)))
		v.screen.SetContent(ox+2*p.Data.PixelX, oy+p.Data.PixelY, glyphShot, nil, st.Bold(true))
	}

	base := oy + gh + 2
	filled, total := g.Progress()
	info := fmt.Sprintf("%s  %d/%d", g.Level().Name, filled, total)
	if n := len(g.Vanishing()); n > 0 {
		info += fmt.Sprintf("  -%d", n)
	}
	v.text(ox, base, styleText, info)

	x := ox
	for i, s := range g.Slots() {
		label := fmt.Sprintf("%c[ ] ", slotKeys[i])
		v.text(x, base+1, styleDim, label)
		if s != nil {
			v.text(x+2, base+1, colorStyle(s.Color.Value()), fmt.Sprintf("%c%d", glyphBlob, s.ShotsRemaining))
		}
		x += 8
	}

	for i, q := range g.Queues() {
		v.text(ox, base+3+i, styleDim, fmt.Sprintf("%d:", i+1))
		for j, st := range q {
			if j >= 8 {
				break
			}
			v.text(ox+3+j*5, base+3+i, colorStyle(st.Color.Value()), fmt.Sprintf("%c%-3d", glyphBlob, st.Count))
		}
	}
}

func (v *view) drawFooter(s *session.Session, w, h int) {
	m := s.Music()
	line := fmt.Sprintf(" %s", s.Kind())
	if s.Loaded() {
		line += fmt.Sprintf(" L%d %s", s.Level()+1, s.Game().State())
	}
	line += fmt.Sprintf(" | %d bpm phrases %d/%d", m.Tempo(), len(m.Unlocked()), m.PhraseCount())
	if m.Muted() {
		line += " muted"
	}
	if !s.AudioReady() {
		line += " silent"
	}
	v.text(0, h-2, styleTitle, line)

	summary := v.reg.Summary()
	if len(summary) > w {
		summary = summary[:w]
	}
	v.text(0, h-1, styleDim, summary)
}
