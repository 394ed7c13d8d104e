package conveyor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/beltwaltz/engine"
)

func TestMain(m *testing.M) {
	engine.StrictInvariants = true
	os.Exit(m.Run())
}

func TestBuildPath(t *testing.T) {
	path := BuildPath(340)
	require.Len(t, path, 4*31+4*16)

	assert.InDelta(t, 95.0, path[0].X, 1e-9)
	assert.InDelta(t, 60.0, path[0].Y, 1e-9)
	assert.InDelta(t, 305.0, path[30].X, 1e-9)

	// Right edge runs top to bottom at x=360
	assert.InDelta(t, 360.0, path[47].X, 1e-9)
	assert.InDelta(t, 115.0, path[47].Y, 1e-9)
	assert.InDelta(t, 345.0, path[77].Y, 1e-9)

	// Left edge runs bottom to top at x=40
	assert.InDelta(t, 40.0, path[141].X, 1e-9)
	assert.InDelta(t, 345.0, path[141].Y, 1e-9)
	assert.InDelta(t, 115.0, path[171].Y, 1e-9)

	// Closing corner ends back at the start
	last := path[len(path)-1]
	assert.InDelta(t, path[0].X, last.X, 1e-9)
	assert.InDelta(t, path[0].Y, last.Y, 1e-9)
}

func TestGateAndSpacing(t *testing.T) {
	path := BuildPath(340)
	gate := GateIndex(len(path))
	assert.Equal(t, 101, gate)
	assert.InDelta(t, 256.0, path[gate].X, 1e-9)
	assert.InDelta(t, 400.0, path[gate].Y, 1e-9)

	assert.Equal(t, 11, BoxSpacing(len(path), 16))
	assert.Equal(t, len(path), BoxSpacing(len(path), 0))

	assert.Equal(t, 3, wrappedDistance(1, 186, 188))
	assert.Equal(t, 10, wrappedDistance(111, 101, 188))
}

func TestConveyorHeight(t *testing.T) {
	assert.Equal(t, 340.0, ConveyorHeight(4))
	assert.Equal(t, 380.0, ConveyorHeight(6))
	assert.Equal(t, 420.0, ConveyorHeight(9))

	assert.InDelta(t, 425.0, BuildPath(420)[77].Y, 1e-9, "bottom of right edge is 60+height-radius")
}
