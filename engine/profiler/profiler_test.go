package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsPerInterval(t *testing.T) {
	start := time.Unix(1000, 0)
	current := start
	p := NewProfiler()
	p.lastTime = start
	p.now = func() time.Time { return current }

	for range 3 {
		current = current.Add(200 * time.Millisecond)
		_, reported := p.Tick(8)
		assert.False(t, reported)
	}
	p.Skipped()

	current = start.Add(2 * time.Second)
	s, reported := p.Tick(8)
	require.True(t, reported)
	assert.InDelta(t, 2.0, s.FPS, 1e-9)
	assert.InDelta(t, 16.0, s.ChunksPerSec, 1e-9)
	assert.Equal(t, 1, s.SkippedFrames)
	assert.Greater(t, s.SysMB, 0.0)

	current = current.Add(time.Second)
	s, reported = p.Tick(0)
	require.True(t, reported)
	assert.InDelta(t, 1.0, s.FPS, 1e-9)
	assert.Equal(t, 0, s.SkippedFrames)
}

func TestSetUpdateInterval(t *testing.T) {
	current := time.Unix(0, 0)
	p := NewProfiler()
	p.lastTime = current
	p.now = func() time.Time { return current }
	p.SetUpdateInterval(10 * time.Millisecond)

	current = current.Add(10 * time.Millisecond)
	_, reported := p.Tick(1)
	assert.True(t, reported)
}
