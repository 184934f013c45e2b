package chunk

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayoutRejectsEmptyDimensions(t *testing.T) {
	_, err := NewLayout(0, [3]int{1, 1, 1})
	assert.Error(t, err)
	_, err = NewLayout(4, [3]int{2, 0, 2})
	assert.Error(t, err)

	l, err := NewLayout(4, [3]int{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 24, l.Count())
	assert.Equal(t, 5, l.Corners())
}

func TestChunkCoordinatesAndOrigins(t *testing.T) {
	l, err := NewLayout(10, [3]int{2, 2, 2})
	require.NoError(t, err)

	chunks := l.Chunks()
	require.Len(t, chunks, 8)
	for i, c := range chunks {
		assert.Equal(t, i, c.ID)
	}
	assert.Equal(t, [3]int{0, 0, 0}, chunks[0].Coord)
	assert.Equal(t, [3]int{1, 0, 0}, chunks[1].Coord)
	assert.Equal(t, [3]int{0, 1, 0}, chunks[2].Coord)
	assert.Equal(t, [3]int{1, 1, 1}, chunks[7].Coord)

	assert.Equal(t, [3]int{-10, -10, -10}, chunks[0].Origin)
	assert.Equal(t, [3]int{0, -10, -10}, chunks[1].Origin)
	assert.Equal(t, [3]int{0, 0, 0}, chunks[7].Origin)
}

func TestNeighboursShareFaces(t *testing.T) {
	l, err := NewLayout(6, [3]int{3, 2, 1})
	require.NoError(t, err)

	for _, c := range l.Chunks() {
		if c.Coord[0]+1 < l.Grid[0] {
			right := l.Chunk(c.ID + 1)
			assert.Equal(t, c.Origin[0]+l.Cells, right.Origin[0])
			assert.Equal(t, c.Origin[1], right.Origin[1])
		}
	}
}

func TestBounds(t *testing.T) {
	l, err := NewLayout(4, [3]int{2, 1, 2})
	require.NoError(t, err)

	lo, hi := l.Bounds(0.5)
	assert.Equal(t, mgl32.Vec3{-2, -1, -2}, lo)
	assert.Equal(t, mgl32.Vec3{2, 1, 2}, hi)

	clo, chi := l.ChunkBounds(l.Chunk(1), 0.5)
	assert.Equal(t, mgl32.Vec3{0, -1, -2}, clo)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, chi)
	assert.Equal(t, "chunk 1 (1,0,0)", l.Chunk(1).String())
}

func TestTransitions(t *testing.T) {
	legal := [][2]State{
		{StateIdle, StateReset},
		{StateIdle, StatePresented},
		{StateReset, StateGenerate},
		{StateGenerate, StateExtract},
		{StateExtract, StateRender},
		{StateRender, StateReset},
		{StateRender, StatePresented},
		{StatePresented, StateIdle},
	}
	for _, p := range legal {
		assert.True(t, CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
	}

	illegal := [][2]State{
		{StateIdle, StateGenerate},
		{StateReset, StateExtract},
		{StateGenerate, StateRender},
		{StateExtract, StateReset},
		{StateRender, StateIdle},
		{StatePresented, StateReset},
	}
	for _, p := range illegal {
		assert.False(t, CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
	}
	assert.Equal(t, "extract", StateExtract.String())
	assert.Equal(t, "State(9)", State(9).String())
}
