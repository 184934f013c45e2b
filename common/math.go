package common

import "github.com/go-gl/mathgl/mgl32"

// OpenGLToWebGPU remaps clip-space depth from OpenGL's [-1, 1] to WebGPU's [0, 1].
// Pre-multiply any projection built with mgl32.Perspective by this matrix.
var OpenGLToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// PerspectiveWebGPU builds a right-handed perspective projection targeting WebGPU clip space.
//
// Parameters:
//   - fovYDeg: vertical field of view in degrees
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveWebGPU(fovYDeg, aspect, near, far float32) mgl32.Mat4 {
	return OpenGLToWebGPU.Mul4(mgl32.Perspective(mgl32.DegToRad(fovYDeg), aspect, near, far))
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
