package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d", i)
	}
}

func TestControllerPath(t *testing.T) {
	cc := NewCameraController()

	assertVecNear(t, mgl32.Vec3{8, 0, 0}, cc.Eye(0))
	assertVecNear(t, mgl32.Vec3{0, 4, 8}, cc.Eye(math.Pi/2))

	cc.SetRadius(2)
	cc.SetTarget(mgl32.Vec3{1, 1, 1})
	assertVecNear(t, mgl32.Vec3{17, 1, 1}, cc.Eye(0))
}

func TestControllerZoomClamps(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(0.5, 2), WithZoomSpeed(0.25))

	cc.Zoom(1)
	assert.InDelta(t, 0.75, cc.Radius(), 1e-6)
	cc.Zoom(100)
	assert.Equal(t, float32(0.5), cc.Radius())
	cc.Zoom(-100)
	assert.Equal(t, float32(2), cc.Radius())

	clamped := NewCameraController(WithRadius(10), WithRadiusBounds(0.5, 2))
	assert.Equal(t, float32(2), clamped.Radius())
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, float32(45), c.Fov())
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	require.NotNil(t, c.Controller())
	assert.Equal(t, "camera", c.BindGroupProvider().Label())
	assertVecNear(t, mgl32.Vec3{8, 0, 0}, c.Eye())
}

func TestTargetProjectsToCentre(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))
	for _, tm := range []float32{0, 0.7, 2, 4.5} {
		c.Update(tm)
		clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		require.Greater(t, clip.W(), float32(0))
		assert.InDelta(t, 0, clip.X()/clip.W(), 1e-4)
		assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-4)
		depth := clip.Z() / clip.W()
		assert.Greater(t, depth, float32(0))
		assert.Less(t, depth, float32(1))
	}
}

func TestSetAspectIgnoresDegenerateSizes(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()

	c.SetAspect(0)
	assert.Equal(t, before, c.ProjectionMatrix())

	c.SetAspect(2)
	assert.Equal(t, float32(2), c.Aspect())
	assert.NotEqual(t, before, c.ProjectionMatrix())
}

func TestUniformUpload(t *testing.T) {
	c := NewCamera()
	c.Update(1.5)

	u := c.Uniform()
	assert.Equal(t, 80, u.Size())
	assert.Equal(t, float32(1.5), u.Time)

	w := c.BufferWrite()
	assert.Equal(t, UniformBinding, w.Binding)
	assert.Equal(t, uint64(0), w.Offset)
	assert.Same(t, c.BindGroupProvider(), w.Provider)
	require.Len(t, w.Data, 80)

	vp := c.ViewProjectionMatrix()
	assert.Equal(t, math.Float32bits(vp[5]), binary.LittleEndian.Uint32(w.Data[20:]))
	eye := c.Eye()
	assert.Equal(t, math.Float32bits(eye[1]), binary.LittleEndian.Uint32(w.Data[68:]))
	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(w.Data[76:]))
}

func TestUniformSourceMatchesLayout(t *testing.T) {
	assert.Contains(t, GPUCameraUniformSource, "struct CameraUniform")
	assert.Contains(t, GPUCameraUniformSource, "view_proj: mat4x4<f32>")
	assert.Contains(t, GPUCameraUniformSource, "time: f32")
}
