// Package camera produces the per-frame view-projection uniform from an orbiting controller.
package camera

import (
	"sync"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformBinding is the binding of the camera uniform within the camera bind group.
const UniformBinding = 0

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	// fov is the vertical field of view in degrees.
	fov    float32
	aspect float32
	near   float32
	far    float32

	time           float32
	eye            mgl32.Vec3
	viewMatrix     mgl32.Mat4
	projection     mgl32.Mat4
	viewProjection mgl32.Mat4

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from its CameraController each frame via Update.
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	Fov() float32

	Aspect() float32
	Near() float32
	Far() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes the matrices.
	// Non-positive values are ignored, which keeps a minimised window from producing NaNs.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Eye returns the eye position of the last Update.
	Eye() mgl32.Vec3

	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the projection with WebGPU's [0, 1] clip depth.
	ProjectionMatrix() mgl32.Mat4

	ViewProjectionMatrix() mgl32.Mat4

	// Controller returns the attached CameraController.
	Controller() CameraController

	// Update moves the eye to the controller's position at animation time t and recomputes
	// the matrices.
	//
	// Parameters:
	//   - t: animation time in seconds
	Update(t float32)

	// Uniform returns the GPU representation of the current state.
	Uniform() GPUCameraUniform

	// BufferWrite returns the queue write that uploads Uniform into the camera bind group.
	BufferWrite() bind_group_provider.BufferWrite

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 45 degree field of view, near 0.1 and far 100.
// Without WithController it orbits with a default controller.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera, already updated for t = 0
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                &sync.Mutex{},
		up:                mgl32.Vec3{0, 1, 0},
		fov:               45,
		aspect:            1,
		near:              0.1,
		far:               100,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider("camera"),
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update(t float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = t
	c.updateMatrices()
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj: c.viewProjection,
		Eye:      c.eye,
		Time:     c.time,
	}
}

func (c *cameraImpl) BufferWrite() bind_group_provider.BufferWrite {
	u := c.Uniform()
	return bind_group_provider.BufferWrite{
		Provider: c.BindGroupProvider(),
		Binding:  UniformBinding,
		Data:     u.Marshal(),
	}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

// updateMatrices recalculates the eye and the matrices for the stored time.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.eye = c.controller.Eye(c.time)
	c.viewMatrix = mgl32.LookAtV(c.eye, c.controller.Target(), c.up)
	c.projection = common.PerspectiveWebGPU(c.fov, c.aspect, c.near, c.far)
	c.viewProjection = c.projection.Mul4(c.viewMatrix)
}
