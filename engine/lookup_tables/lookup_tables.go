// Package lookup_tables holds the marching cubes configuration tables and the cube
// numbering they are written against.
//
// Corner i of a cell sits at CornerOffsets[i] relative to the cell's minimum corner, and
// edge e joins the two corners in EdgeCorners[e]. Bit i of a configuration mask is set
// when corner i is inside the surface (density below the iso level). Triangles listed in
// TriangleTable wind counter-clockwise when seen from outside, so their geometric normal
// points from the inside region to the outside region.
package lookup_tables

import "encoding/binary"

const (
	// ConfigurationCount is the number of distinct 8-bit corner masks.
	ConfigurationCount = 256

	// RowLength is the width of a TriangleTable row, including the -1 terminator slot.
	RowLength = 16

	// EdgeCount is the number of edges on a cube.
	EdgeCount = 12

	// CornerCount is the number of corners on a cube.
	CornerCount = 8

	// MaxTriangles is the most triangles any single configuration emits.
	MaxTriangles = 5

	// MaxVerticesPerCell is the worst-case vertex output of one cell.
	MaxVerticesPerCell = MaxTriangles * 3

	// Terminator ends a TriangleTable row.
	Terminator int8 = -1
)

// CornerOffsets is the integer offset of each cube corner from the cell origin.
var CornerOffsets = [CornerCount][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// EdgeCorners is the pair of corners joined by each cube edge.
var EdgeCorners = [EdgeCount][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Triangles returns the edge triples emitted for a configuration, stopping at the terminator.
//
// Parameters:
//   - mask: the 8-bit corner configuration
//
// Returns:
//   - [][3]int: one entry per triangle, each holding three edge indices
func Triangles(mask uint8) [][3]int {
	row := TriangleTable[mask]
	tris := make([][3]int, 0, MaxTriangles)
	for i := 0; i+2 < RowLength && row[i] != Terminator; i += 3 {
		tris = append(tris, [3]int{int(row[i]), int(row[i+1]), int(row[i+2])})
	}
	return tris
}

// TriangleCount returns how many triangles a configuration emits.
func TriangleCount(mask uint8) int {
	row := TriangleTable[mask]
	n := 0
	for n < RowLength && row[n] != Terminator {
		n++
	}
	return n / 3
}

// EdgeActive reports whether the surface crosses the given edge for a configuration.
func EdgeActive(mask uint8, edge int) bool {
	return EdgeTable[mask]&(1<<uint(edge)) != 0
}

// EdgeTableBytes packs EdgeTable as little-endian u32 values for a GPU storage buffer.
//
// Returns:
//   - []byte: ConfigurationCount*4 bytes
func EdgeTableBytes() []byte {
	buf := make([]byte, ConfigurationCount*4)
	for i, v := range EdgeTable {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return buf
}

// TriangleTableBytes packs TriangleTable row-major as little-endian i32 values for a GPU
// storage buffer.
//
// Returns:
//   - []byte: ConfigurationCount*RowLength*4 bytes
func TriangleTableBytes() []byte {
	buf := make([]byte, ConfigurationCount*RowLength*4)
	off := 0
	for _, row := range TriangleTable {
		for _, v := range row {
			binary.LittleEndian.PutUint32(buf[off:], uint32(int32(v)))
			off += 4
		}
	}
	return buf
}
