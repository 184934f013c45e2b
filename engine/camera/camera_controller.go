package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns where the camera is. The camera only turns that into matrices.
//
// The controller follows a closed path around its target: at animation time t the eye sits
// at target + radius * (cos(t)*path.X, sin(t)*path.Y, sin(t)*path.Z). The radius scales the
// whole path and is what the scroll wheel zooms.
type CameraController interface {
	// Eye returns the world-space eye position at animation time t.
	//
	// Parameters:
	//   - t: animation time in seconds
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye(t float32) mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3

	// SetTarget moves the look-at point. The path moves with it.
	SetTarget(target mgl32.Vec3)

	// Path returns the per-axis amplitudes of the orbit.
	Path() mgl32.Vec3

	// Radius returns the scale applied to the path.
	Radius() float32

	// SetRadius sets the path scale, clamped to [MinRadius, MaxRadius].
	//
	// Parameters:
	//   - radius: the new scale
	SetRadius(radius float32)

	MinRadius() float32
	MaxRadius() float32

	// Zoom shrinks the radius by delta*ZoomSpeed. Positive delta moves closer.
	//
	// Parameters:
	//   - delta: scroll offset, usually ±1 per wheel notch
	Zoom(delta float32)

	ZoomSpeed() float32
}
