// Package chunk partitions the volume into fixed-size chunks and drives the per-frame
// reset, generate, extract and render sequence over them.
package chunk

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Chunk is one axis-aligned block of the volume. It owns no state: everything drawn for it
// is regenerated each frame from its origin and the animation time.
type Chunk struct {
	ID int

	// Coord is the chunk's position in the grid.
	Coord [3]int

	// Origin is the global lattice index of the chunk's first corner. Neighbouring chunks
	// share the corners on their common face.
	Origin [3]int
}

// WorldOrigin returns the world position of the chunk's first corner.
func (c Chunk) WorldOrigin(voxelSize float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.Origin[0]) * voxelSize,
		float32(c.Origin[1]) * voxelSize,
		float32(c.Origin[2]) * voxelSize,
	}
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d (%d,%d,%d)", c.ID, c.Coord[0], c.Coord[1], c.Coord[2])
}

// Layout is a grid of Grid[0] x Grid[1] x Grid[2] chunks, each Cells wide, centred on the
// world origin.
type Layout struct {
	Cells int
	Grid  [3]int
}

// NewLayout validates and builds a Layout.
//
// Parameters:
//   - cells: cells per chunk axis
//   - grid: chunks along x, y and z
//
// Returns:
//   - Layout: the layout
//   - error: an error if any dimension is not positive
func NewLayout(cells int, grid [3]int) (Layout, error) {
	if cells <= 0 {
		return Layout{}, fmt.Errorf("cells per chunk %d must be positive", cells)
	}
	for i, g := range grid {
		if g <= 0 {
			return Layout{}, fmt.Errorf("chunk grid axis %d is %d, must be positive", i, g)
		}
	}
	return Layout{Cells: cells, Grid: grid}, nil
}

// Count returns the number of chunks.
func (l Layout) Count() int {
	return l.Grid[0] * l.Grid[1] * l.Grid[2]
}

// Corners returns the lattice corners per chunk axis.
func (l Layout) Corners() int {
	return l.Cells + 1
}

// Chunk returns chunk id. Ids run x fastest, then y, then z.
func (l Layout) Chunk(id int) Chunk {
	gx, gy := l.Grid[0], l.Grid[1]
	coord := [3]int{id % gx, (id / gx) % gy, id / (gx * gy)}
	var origin [3]int
	for i := range 3 {
		origin[i] = coord[i]*l.Cells - l.Grid[i]*l.Cells/2
	}
	return Chunk{ID: id, Coord: coord, Origin: origin}
}

// Chunks returns every chunk in processing order.
func (l Layout) Chunks() []Chunk {
	out := make([]Chunk, l.Count())
	for i := range out {
		out[i] = l.Chunk(i)
	}
	return out
}

// Bounds returns the world-space corners of the whole volume.
func (l Layout) Bounds(voxelSize float32) (lo, hi mgl32.Vec3) {
	first := l.Chunk(0)
	lo = first.WorldOrigin(voxelSize)
	for i := range 3 {
		hi[i] = lo[i] + float32(l.Grid[i]*l.Cells)*voxelSize
	}
	return lo, hi
}

// ChunkBounds returns the world-space corners of one chunk.
func (l Layout) ChunkBounds(c Chunk, voxelSize float32) (lo, hi mgl32.Vec3) {
	lo = c.WorldOrigin(voxelSize)
	span := float32(l.Cells) * voxelSize
	return lo, lo.Add(mgl32.Vec3{span, span, span})
}
