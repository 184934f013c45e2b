package density

import "github.com/go-gl/mathgl/mgl32"

// Field is a cubic lattice of density samples. A chunk of D cells per axis has D+1
// corners per axis, so neighbouring chunks share their boundary layer of samples.
// Values are stored x-fastest, then y, then z, matching the GPU storage buffer.
type Field struct {
	// Dim is the number of corners along each axis.
	Dim    int
	Values []float32
}

// NewField allocates the lattice for a chunk of the given number of cells per axis.
func NewField(cells int) *Field {
	dim := cells + 1
	return &Field{
		Dim:    dim,
		Values: make([]float32, dim*dim*dim),
	}
}

// Cells returns the number of cells along each axis.
func (f *Field) Cells() int {
	return f.Dim - 1
}

// Index returns the flat offset of corner (x, y, z).
func (f *Field) Index(x, y, z int) int {
	return x + f.Dim*(y+f.Dim*z)
}

// At returns the density at corner (x, y, z).
func (f *Field) At(x, y, z int) float32 {
	return f.Values[f.Index(x, y, z)]
}

// Set stores the density at corner (x, y, z).
func (f *Field) Set(x, y, z int, v float32) {
	f.Values[f.Index(x, y, z)] = v
}

// CornerPosition returns the world position of a lattice corner. Positions are computed
// from the global integer corner index so that a corner shared by two chunks gets the
// same coordinates, and therefore the same density, in both.
//
// Parameters:
//   - origin: the global corner index of the chunk's (0, 0, 0) corner
//   - x, y, z: the corner index within the chunk
//   - voxelSize: the world size of one cell
//
// Returns:
//   - mgl32.Vec3: the world position
func CornerPosition(origin [3]int, x, y, z int, voxelSize float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(origin[0]+x) * voxelSize,
		float32(origin[1]+y) * voxelSize,
		float32(origin[2]+z) * voxelSize,
	}
}
