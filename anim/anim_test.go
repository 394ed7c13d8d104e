package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func TestSetLifecycle(t *testing.T) {
	var s Set[string]
	s.Add("pulse", 1, 0, 500*time.Millisecond, ease.Linear)
	s.Add("shot", 0, 1, 200*time.Millisecond, nil)
	require.Equal(t, 2, s.Len())

	s.Advance(100 * time.Millisecond)
	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "pulse", snap[0].Data)
	assert.InDelta(t, 0.8, snap[0].Value, 1e-3)
	assert.InDelta(t, 0.5, snap[1].Value, 1e-3)

	s.Advance(150 * time.Millisecond)
	snap = s.Snapshot()
	require.Len(t, snap, 1, "shot finished")
	assert.Equal(t, "pulse", snap[0].Data)

	s.Advance(time.Second)
	assert.Equal(t, 0, s.Len())
}

func TestSetClear(t *testing.T) {
	var s Set[int]
	for i := 0; i < 3; i++ {
		s.Add(i, 0, 1, time.Second, ease.OutQuad)
	}
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())
}
