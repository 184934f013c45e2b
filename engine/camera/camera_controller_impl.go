package camera

import (
	"sync"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	target mgl32.Vec3
	path   mgl32.Vec3

	radius    float32
	minRadius float32
	maxRadius float32
	zoomSpeed float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller around the origin with the path
// (8, 4, 8) at radius 1.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		path:      mgl32.Vec3{8, 4, 8},
		radius:    1,
		minRadius: 0.25,
		maxRadius: 4,
		zoomSpeed: 0.05,
	}
	for _, option := range options {
		option(cc)
	}
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	return cc
}

func (cc *cameraControllerImpl) Eye(t float32) mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	s, c := math32.Sincos(t)
	offset := mgl32.Vec3{c * cc.path[0], s * cc.path[1], s * cc.path[2]}
	return cc.target.Add(offset.Mul(cc.radius))
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
}

func (cc *cameraControllerImpl) Path() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.path
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(radius, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}
