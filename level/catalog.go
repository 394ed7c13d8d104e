// Package level holds the static level catalog for both games
package level

import (
	_ "embed"
	"os"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/parameter"
)

//go:embed catalog.toml
var embedded []byte

var (
	ErrEmptyCatalog = errors.New("catalog has no levels")
	ErrInvalidLevel = errors.New("invalid level")
	ErrUnknownArt   = errors.New("unknown pixel art")
	ErrInvalidArt   = errors.New("invalid pixel art")
)

// SortLevel describes one Conveyor Sort level
type SortLevel struct {
	ID                int    `toml:"id"`
	Name              string `toml:"name"`
	Description       string `toml:"description"`
	Colors            int    `toml:"colors"`
	Placements        int    `toml:"placements"`
	GridCols          int    `toml:"grid_cols"`
	BeltCapacity      int    `toml:"belt_capacity"`
	StackCapacity     int    `toml:"stack_capacity"`
	BeltSpeedMs       int    `toml:"belt_speed"`
	CubesPerPlacement int    `toml:"cubes_per_placement"`
	Depth             int    `toml:"depth"`
}

// Palette returns the sort colors in play
func (l SortLevel) Palette() []core.Color {
	n := min(l.Colors, len(core.SortColors))
	return append([]core.Color(nil), core.SortColors[:n]...)
}

// BeltLevel describes one Pixel Belt level
type BeltLevel struct {
	ID          int    `toml:"id"`
	Name        string `toml:"name"`
	Art         string `toml:"art"`
	Difficulty  string `toml:"difficulty"`
	BeltSpeedMs int    `toml:"belt_speed"`
}

// BeltSpeed returns the tick period
func (l BeltLevel) BeltSpeed() time.Duration {
	return time.Duration(l.BeltSpeedMs) * time.Millisecond
}

// TempoTable maps level index to tempo and, optionally, belt speed
type TempoTable struct {
	Tempos     []int `toml:"tempos"`
	BeltSpeeds []int `toml:"belt_speeds"`
}

// At returns the tempo and belt speed for level index i, using fallbacks for missing entries
func (t TempoTable) At(i int, fallbackSpeed time.Duration) (int, time.Duration) {
	tempo := parameter.DefaultTempo
	if i >= 0 && i < len(t.Tempos) && t.Tempos[i] > 0 {
		tempo = t.Tempos[i]
	}
	speed := fallbackSpeed
	if i >= 0 && i < len(t.BeltSpeeds) && t.BeltSpeeds[i] > 0 {
		speed = time.Duration(t.BeltSpeeds[i]) * time.Millisecond
	}
	return tempo, speed
}

// Catalog is the full static configuration
type Catalog struct {
	Sort      []SortLevel    `toml:"sort"`
	SortTempo TempoTable     `toml:"sort_tempo"`
	Belt      []BeltLevel    `toml:"belt"`
	BeltTempo TempoTable     `toml:"belt_tempo"`
	Art       map[string]Art `toml:"art"`
}

// Default decodes the embedded catalog
func Default() (*Catalog, error) {
	c, err := Parse(embedded)
	if err != nil {
		return nil, errors.Wrap(err, "embedded catalog")
	}
	return c, nil
}

// MustDefault is Default for callers that treat a broken embedded catalog as a build defect
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return c, nil
}

// Parse decodes and validates catalog TOML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(string(data), &c); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks level descriptors and art references
func (c *Catalog) Validate() error {
	if len(c.Sort) == 0 && len(c.Belt) == 0 {
		return ErrEmptyCatalog
	}

	for i, l := range c.Sort {
		switch {
		case l.Colors < 1 || l.Colors > len(core.SortColors):
			return errors.Wrapf(ErrInvalidLevel, "sort level %d: colors %d", i, l.Colors)
		case l.Placements < 1 || l.GridCols < 1:
			return errors.Wrapf(ErrInvalidLevel, "sort level %d: placements %d grid_cols %d", i, l.Placements, l.GridCols)
		case l.CubesPerPlacement < 1 || l.Depth < 1:
			return errors.Wrapf(ErrInvalidLevel, "sort level %d: cubes_per_placement %d depth %d", i, l.CubesPerPlacement, l.Depth)
		case l.BeltCapacity < 1 || l.StackCapacity < 1:
			return errors.Wrapf(ErrInvalidLevel, "sort level %d: belt_capacity %d stack_capacity %d", i, l.BeltCapacity, l.StackCapacity)
		}
	}

	for i, l := range c.Belt {
		art, ok := c.Art[l.Art]
		if !ok {
			return errors.Wrapf(ErrUnknownArt, "belt level %d: %q", i, l.Art)
		}
		if l.BeltSpeedMs < 1 {
			return errors.Wrapf(ErrInvalidLevel, "belt level %d: belt_speed %d", i, l.BeltSpeedMs)
		}
		if err := art.validate(); err != nil {
			return errors.Wrapf(err, "art %q", l.Art)
		}
	}
	return nil
}

// SortTempoAt returns tempo and belt speed for a sort level index
func (c *Catalog) SortTempoAt(i int) (int, time.Duration) {
	fallback := parameter.DefaultBeltSpeed
	if i >= 0 && i < len(c.Sort) && c.Sort[i].BeltSpeedMs > 0 {
		fallback = time.Duration(c.Sort[i].BeltSpeedMs) * time.Millisecond
	}
	return c.SortTempo.At(i, fallback)
}

// BeltTempoAt returns tempo and belt speed for a belt level index
func (c *Catalog) BeltTempoAt(i int) (int, time.Duration) {
	fallback := parameter.DefaultBeltSpeed
	if i >= 0 && i < len(c.Belt) {
		fallback = c.Belt[i].BeltSpeed()
	}
	return c.BeltTempo.At(i, fallback)
}

// Art is a character-cell pixel pattern
type Art struct {
	Width      int               `toml:"width"`
	Height     int               `toml:"height"`
	Difficulty string            `toml:"difficulty"`
	Pixels     []string          `toml:"pixels"`
	Colors     map[string]string `toml:"colors"`
}

// ColorAt returns the color of cell (x,y); false for blanks, unmapped runes and short rows
func (a Art) ColorAt(x, y int) (core.Color, bool) {
	if y < 0 || y >= len(a.Pixels) {
		return "", false
	}
	row := []rune(a.Pixels[y])
	if x < 0 || x >= len(row) || row[x] == ' ' {
		return "", false
	}
	name, ok := a.Colors[string(row[x])]
	if !ok {
		return "", false
	}
	return core.Color(name), true
}

func (a Art) validate() error {
	if a.Width < 1 || a.Height < 1 || len(a.Pixels) > a.Height {
		return errors.Wrapf(ErrInvalidArt, "size %dx%d with %d rows", a.Width, a.Height, len(a.Pixels))
	}
	for y, row := range a.Pixels {
		if utf8.RuneCountInString(row) > a.Width {
			return errors.Wrapf(ErrInvalidArt, "row %d wider than %d", y, a.Width)
		}
	}
	for key, name := range a.Colors {
		if utf8.RuneCountInString(key) != 1 {
			return errors.Wrapf(ErrInvalidArt, "color key %q", key)
		}
		if !core.Color(name).Valid() {
			return errors.Wrapf(ErrInvalidArt, "color %q", name)
		}
	}
	return nil
}
