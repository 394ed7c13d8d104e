package level

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/beltwaltz/core"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Sort, 6)
	require.Len(t, c.Belt, 6)
	assert.Len(t, c.Art, 14)

	easy := c.Sort[0]
	assert.Equal(t, "Easy", easy.Name)
	assert.Equal(t, 2, easy.Colors)
	assert.Equal(t, 4, easy.Placements)
	assert.Equal(t, 8, easy.StackCapacity)
	assert.Equal(t, []core.Color{core.Red, core.Blue}, easy.Palette())

	nightmare := c.Sort[5]
	assert.Equal(t, 9, nightmare.Placements)
	assert.Equal(t, 3, nightmare.GridCols)
	assert.Equal(t, 3, nightmare.Depth)

	assert.Equal(t, "butterfly", c.Belt[5].Art)
	assert.Equal(t, 100*time.Millisecond, c.Belt[5].BeltSpeed())
}

func TestSortTempoTable(t *testing.T) {
	c := MustDefault()

	tempo, speed := c.SortTempoAt(0)
	assert.Equal(t, 100, tempo)
	assert.Equal(t, 50*time.Millisecond, speed)

	tempo, speed = c.SortTempoAt(5)
	assert.Equal(t, 150, tempo)
	assert.Equal(t, 32*time.Millisecond, speed)

	// Out of table: defaults
	tempo, speed = c.SortTempoAt(17)
	assert.Equal(t, 120, tempo)
	assert.Equal(t, 42*time.Millisecond, speed)
}

func TestBeltTempoFallsBackToLevelSpeed(t *testing.T) {
	c := MustDefault()
	tempo, speed := c.BeltTempoAt(2)
	assert.Equal(t, 120, tempo)
	assert.Equal(t, 160*time.Millisecond, speed)
}

func TestArtColorAt(t *testing.T) {
	c := MustDefault()
	flower := c.Art["flower"]

	col, ok := flower.ColorAt(4, 0)
	assert.True(t, ok)
	assert.Equal(t, core.Color("red4"), col)

	_, ok = flower.ColorAt(0, 0)
	assert.False(t, ok, "blank cell")

	// Sunset row 1 is one cell short of the declared width
	_, ok = c.Art["sunset"].ColorAt(13, 1)
	assert.False(t, ok)
}

func TestParseRejectsUnknownArt(t *testing.T) {
	data := `
[[belt]]
id = 1
name = "Ghost"
art = "ghost"
belt_speed = 100
`
	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownArt))
}

func TestParseRejectsBadSortLevel(t *testing.T) {
	data := `
[[sort]]
id = 1
name = "Broken"
colors = 9
placements = 4
grid_cols = 2
belt_capacity = 16
stack_capacity = 8
cubes_per_placement = 4
depth = 1
`
	_, err := Parse([]byte(data))
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.True(t, errors.Is(err, ErrEmptyCatalog))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.toml")
	require.NoError(t, os.WriteFile(path, embedded, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Sort, 6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
