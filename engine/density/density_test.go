package density

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldIndexing(t *testing.T) {
	f := NewField(4)
	assert.Equal(t, 5, f.Dim)
	assert.Equal(t, 4, f.Cells())
	assert.Len(t, f.Values, 125)

	assert.Equal(t, 0, f.Index(0, 0, 0))
	assert.Equal(t, 1, f.Index(1, 0, 0))
	assert.Equal(t, 5, f.Index(0, 1, 0))
	assert.Equal(t, 25, f.Index(0, 0, 1))

	f.Set(3, 2, 1, 7.5)
	assert.Equal(t, float32(7.5), f.At(3, 2, 1))
}

func TestGenerateIsIdempotent(t *testing.T) {
	g := NewGenerator(WithFunc(Cloud(1)), WithWorkers(3))
	defer g.Close()

	a := NewField(8)
	b := NewField(8)
	g.Generate(a, [3]int{-4, -4, -4}, 0.25, 1.5)
	g.Generate(b, [3]int{-4, -4, -4}, 0.25, 1.5)
	assert.Equal(t, a.Values, b.Values)

	// Regenerating into a dirty field overwrites every sample.
	for i := range a.Values {
		a.Values[i] = 99
	}
	g.Generate(a, [3]int{-4, -4, -4}, 0.25, 1.5)
	assert.Equal(t, b.Values, a.Values)
}

func TestGenerateSphereSamples(t *testing.T) {
	g := NewGenerator(WithFunc(Sphere(mgl32.Vec3{}, 1)), WithWorkers(2))
	defer g.Close()

	f := NewField(4)
	g.Generate(f, [3]int{-2, -2, -2}, 0.5, 0)

	assert.InDelta(t, -1, f.At(2, 2, 2), 1e-6)
	assert.InDelta(t, 0, f.At(4, 2, 2), 1e-6)
	assert.InDelta(t, math.Sqrt(3)-1, f.At(0, 0, 0), 1e-5)
}

func TestSharedCornersMatchAcrossChunks(t *testing.T) {
	g := NewGenerator(WithFunc(Cloud(0.8)))
	defer g.Close()

	const cells = 6
	left := NewField(cells)
	right := NewField(cells)
	g.Generate(left, [3]int{-cells, -3, -3}, 0.1, 2.25)
	g.Generate(right, [3]int{0, -3, -3}, 0.1, 2.25)

	for z := range left.Dim {
		for y := range left.Dim {
			require.Equal(t, left.At(cells, y, z), right.At(0, y, z), "corner y=%d z=%d", y, z)
		}
	}
}

func TestSharedWorkerPoolOutlivesGenerator(t *testing.T) {
	pool := common.NewWorkerPool(2)
	defer pool.Stop()

	first := NewGenerator(WithWorkerPool(pool), WithFunc(Sphere(mgl32.Vec3{}, 1)))
	first.Close()

	second := NewGenerator(WithWorkerPool(pool), WithFunc(Sphere(mgl32.Vec3{}, 1)))
	f := NewField(2)
	second.Generate(f, [3]int{-1, -1, -1}, 1, 0)
	assert.InDelta(t, -1, f.At(1, 1, 1), 1e-6)
}

func TestSetFunc(t *testing.T) {
	g := NewGenerator(WithWorkers(1))
	defer g.Close()

	g.SetFunc(func(mgl32.Vec3, float32) float32 { return 3 })
	f := NewField(1)
	g.Generate(f, [3]int{}, 1, 0)
	for _, v := range f.Values {
		assert.Equal(t, float32(3), v)
	}
}

func TestCloudBoundaryBand(t *testing.T) {
	const r = 2
	fn := Cloud(r)
	dirs := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}, mgl32.Vec3{1, 1, 1}.Normalize()}
	for _, ts := range []float32{0, 0.7, 3.1, 12} {
		for _, d := range dirs {
			assert.Less(t, fn(d.Mul(0.7*r), ts), float32(0))
			assert.Greater(t, fn(d.Mul(1.3*r), ts), float32(0))
		}
	}
}

func TestTerrainAtRest(t *testing.T) {
	fn := Terrain(0.6, 1.5)
	assert.InDelta(t, 0.25, fn(mgl32.Vec3{0, 0.25, 0}, 0), 1e-6)
	assert.InDelta(t, -0.5, fn(mgl32.Vec3{0, -0.5, 0}, 0), 1e-6)
}

func TestParseFieldKind(t *testing.T) {
	for _, k := range []FieldKind{FieldCloud, FieldSphere, FieldTerrain} {
		got, err := ParseFieldKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseFieldKind("lava")
	assert.Error(t, err)
	assert.Equal(t, "FieldKind(9)", FieldKind(9).String())
}

func TestParamsFunc(t *testing.T) {
	p := Params{Kind: FieldSphere, Center: mgl32.Vec3{1, 0, 0}, Radius: 0.5}
	assert.InDelta(t, -0.5, p.Func()(mgl32.Vec3{1, 0, 0}, 0), 1e-6)

	p = Params{Kind: FieldTerrain, Amplitude: 1, Frequency: 1}
	assert.InDelta(t, 2, p.Func()(mgl32.Vec3{0, 2, 0}, 0), 1e-6)
}

func TestGPUChunkParamsLayout(t *testing.T) {
	params := Params{Kind: FieldTerrain, Radius: 2, Amplitude: 0.6, Frequency: 1.5, Center: mgl32.Vec3{1, 2, 3}}
	g := NewGPUChunkParams(params, [3]int{-50, 0, 50}, 50, 7, 0.06, 0.1, 4.5)
	require.Equal(t, 64, g.Size())

	buf := g.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, int32(-50), int32(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, int32(50), int32(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(0.06), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])))
	assert.Equal(t, float32(4.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:])))
	assert.Equal(t, uint32(51), binary.LittleEndian.Uint32(buf[24:]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[28:]))
	assert.Equal(t, uint32(FieldTerrain), binary.LittleEndian.Uint32(buf[32:]))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[56:])))
}

func TestShaderSources(t *testing.T) {
	assert.Contains(t, GPUChunkParamsSource, "struct ChunkParams")
	assert.Contains(t, ShaderSource, "@compute")
	assert.Contains(t, ShaderSource, "//@iso:include chunk_params")
}
