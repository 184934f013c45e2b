package chunk

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/extractor"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereSettings(center mgl32.Vec3, radius float32) Settings {
	return Settings{
		Params:    density.Params{Kind: density.FieldSphere, Center: center, Radius: radius},
		VoxelSize: 1,
	}
}

func runCPUFrame(t *testing.T, l Layout, s Settings, at float32) (Frame, FrameStats) {
	t.Helper()
	b := NewCPUBackend(l, s, WithWorkers(2))
	defer b.Close()
	stats, err := NewOrchestrator(l, b).RunFrame(at)
	require.NoError(t, err)
	return b.Frame(), stats
}

func assertWithin(t *testing.T, vs []extractor.Vertex, lo, hi mgl32.Vec3) {
	t.Helper()
	const eps = 1e-4
	for _, v := range vs {
		for i := range 3 {
			assert.GreaterOrEqual(t, v.Position[i], lo[i]-eps)
			assert.LessOrEqual(t, v.Position[i], hi[i]+eps)
		}
		assert.Equal(t, float32(1), v.Position[3])
	}
}

func TestCPUSphereSingleChunk(t *testing.T) {
	l, err := NewLayout(4, [3]int{1, 1, 1})
	require.NoError(t, err)

	frame, stats := runCPUFrame(t, l, sphereSettings(mgl32.Vec3{}, 1.5), 0)

	require.Len(t, frame.Meshes, 1)
	n := len(frame.Meshes[0].Vertices)
	assert.Positive(t, n)
	assert.Zero(t, n%3)
	assert.LessOrEqual(t, n, extractor.Capacity(4))
	assert.Equal(t, uint64(n), stats.Vertices)
	assert.Equal(t, n, frame.VertexCount())

	lo, hi := l.Bounds(1)
	assertWithin(t, frame.Meshes[0].Vertices, lo, hi)

	for _, v := range frame.Meshes[0].Vertices {
		p := mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]}
		nrm := mgl32.Vec3{v.Normal[0], v.Normal[1], v.Normal[2]}
		assert.Positive(t, p.Dot(nrm), "normal at %v should point outwards", p)
	}
}

func TestCPUChunksDoNotLeakVertices(t *testing.T) {
	l, err := NewLayout(4, [3]int{2, 1, 1})
	require.NoError(t, err)

	// The sphere lies entirely inside chunk 0.
	frame, stats := runCPUFrame(t, l, sphereSettings(mgl32.Vec3{-2, 0, 0}, 1.5), 0)

	require.Len(t, frame.Meshes, 2)
	assert.Equal(t, 0, frame.Meshes[0].ChunkID)
	assert.Equal(t, 1, frame.Meshes[1].ChunkID)
	assert.NotEmpty(t, frame.Meshes[0].Vertices)
	assert.Empty(t, frame.Meshes[1].Vertices)
	assert.Equal(t, uint64(len(frame.Meshes[0].Vertices)), stats.Vertices)

	lo, hi := l.ChunkBounds(l.Chunk(0), 1)
	assertWithin(t, frame.Meshes[0].Vertices, lo, hi)
	assert.Equal(t, lo, frame.Meshes[0].Min)
	assert.Equal(t, hi, frame.Meshes[0].Max)

	lo, hi = l.ChunkBounds(l.Chunk(1), 1)
	assert.Equal(t, mgl32.Vec3{0, -2, -2}, lo)
	assert.Equal(t, mgl32.Vec3{4, 2, 2}, hi)
	assert.Equal(t, lo, frame.Meshes[1].Min)
	assert.Equal(t, hi, frame.Meshes[1].Max)
}

func TestCPUSeamVerticesMatch(t *testing.T) {
	l, err := NewLayout(8, [3]int{2, 1, 1})
	require.NoError(t, err)
	s := Settings{
		Params:    density.Params{Kind: density.FieldCloud, Radius: 1.2},
		VoxelSize: 0.25,
	}

	frame, _ := runCPUFrame(t, l, s, 0.7)
	require.Len(t, frame.Meshes, 2)

	onSeam := func(m Mesh) map[[3]float32]bool {
		out := make(map[[3]float32]bool)
		for _, v := range m.Vertices {
			if v.Position[0] == 0 {
				out[[3]float32{v.Position[0], v.Position[1], v.Position[2]}] = true
			}
		}
		return out
	}
	left, right := onSeam(frame.Meshes[0]), onSeam(frame.Meshes[1])
	assert.NotEmpty(t, left)
	assert.Equal(t, left, right)
}

func TestCPUFramesAreRebuiltEachTime(t *testing.T) {
	l, err := NewLayout(4, [3]int{1, 1, 1})
	require.NoError(t, err)
	b := NewCPUBackend(l, sphereSettings(mgl32.Vec3{}, 1.5))
	defer b.Close()
	o := NewOrchestrator(l, b)

	_, err = o.RunFrame(0)
	require.NoError(t, err)
	first := b.Frame()

	_, err = o.RunFrame(1)
	require.NoError(t, err)
	second := b.Frame()

	require.Len(t, second.Meshes, 1)
	assert.Equal(t, float32(1), second.Time)
	assert.ElementsMatch(t, first.Meshes[0].Vertices, second.Meshes[0].Vertices)
}

func TestCPUSetSettingsKeepsVoxelSize(t *testing.T) {
	l, err := NewLayout(4, [3]int{1, 1, 1})
	require.NoError(t, err)
	b := NewCPUBackend(l, sphereSettings(mgl32.Vec3{}, 1.5))
	defer b.Close()
	o := NewOrchestrator(l, b)

	_, err = o.RunFrame(0)
	require.NoError(t, err)
	big := b.Frame().VertexCount()

	next := sphereSettings(mgl32.Vec3{}, 0.6)
	next.VoxelSize = 10
	b.SetSettings(next)
	_, err = o.RunFrame(0)
	require.NoError(t, err)

	assert.Less(t, b.Frame().VertexCount(), big)
	lo, hi := l.Bounds(1)
	assertWithin(t, b.Frame().Meshes[0].Vertices, lo, hi)
}

func TestCPUAbandonKeepsLastPresentedFrame(t *testing.T) {
	l, err := NewLayout(4, [3]int{1, 1, 1})
	require.NoError(t, err)
	pool := common.NewWorkerPool(2)
	defer pool.Stop()
	b := NewCPUBackend(l, sphereSettings(mgl32.Vec3{}, 1.5), WithWorkerPool(pool))
	defer b.Close()

	assert.ErrorIs(t, b.Render(l.Chunk(0), true), errNoPendingFrame)
	assert.ErrorIs(t, b.Present(), errNoPendingFrame)

	_, err = NewOrchestrator(l, b).RunFrame(0)
	require.NoError(t, err)
	presented := b.Frame()

	require.NoError(t, b.BeginFrame(5))
	b.Abandon()
	assert.Equal(t, presented, b.Frame())
	assert.ErrorIs(t, b.Present(), errNoPendingFrame)
}

func TestWriteOBJ(t *testing.T) {
	frame := Frame{Time: 2, Meshes: []Mesh{
		{ChunkID: 0, Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 0.5}, Vertices: []extractor.Vertex{
			{Position: [4]float32{0, 0, 0, 1}, Normal: [4]float32{0, 0, 1, 0}},
			{Position: [4]float32{1, 0, 0, 1}, Normal: [4]float32{0, 0, 1, 0}},
			{Position: [4]float32{0, 1, 0, 1}, Normal: [4]float32{0, 0, 1, 0}},
		}},
		{ChunkID: 1},
		{ChunkID: 2, Vertices: []extractor.Vertex{
			{Position: [4]float32{2, 0, 0, 1}},
			{Position: [4]float32{3, 0, 0, 1}},
			{Position: [4]float32{2, 1, 0.5, 1}},
		}},
	}}

	var buf bytes.Buffer
	require.NoError(t, frame.WriteOBJ(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, "# isoflow frame t=2, 6 vertices", lines[0])
	assert.Contains(t, lines, "o chunk_0")
	assert.Contains(t, lines, "o chunk_1")
	assert.Equal(t, "# bounds -1 -1 -1 1 1 0.5", lines[2])
	assert.Contains(t, lines, "v 2 1 0.5")
	assert.Contains(t, lines, "vn 0 0 1")
	assert.Contains(t, lines, "f 1//1 2//2 3//3")
	assert.Contains(t, lines, "f 4//4 5//5 6//6")

	var faces int
	for _, l := range lines {
		if strings.HasPrefix(l, "f ") {
			faces++
		}
	}
	assert.Equal(t, 2, faces)
}
