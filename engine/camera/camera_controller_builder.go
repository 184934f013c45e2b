package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial path scale.
//
// Parameters:
//   - radius: scale applied to the orbit path
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithRadiusBounds sets the zoom limits. The initial radius is clamped into them.
//
// Parameters:
//   - minRadius: the closest allowed scale
//   - maxRadius: the farthest allowed scale
//
// Returns:
//   - CameraControllerOption: functional option to set the bounds
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithZoomSpeed sets how much radius one unit of scroll removes.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithTarget sets the look-at point.
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithPath sets the per-axis orbit amplitudes.
//
// Parameters:
//   - path: amplitudes of the cos, sin and sin terms on x, y and z
//
// Returns:
//   - CameraControllerOption: functional option to set the path
func WithPath(path mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.path = path
	}
}
