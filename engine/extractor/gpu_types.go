package extractor

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUIsoVertexSource is the canonical WGSL definition of the IsoVertex struct.
// Matches Vertex layout exactly (32 bytes).
//
//go:embed assets/iso_vertex.wgsl
var GPUIsoVertexSource string

// ShaderSource is the marching cubes compute shader. One invocation triangulates one cell.
//
//go:embed assets/marching_cubes.wgsl
var ShaderSource string

// VertexSize is the stride of one output vertex in bytes.
const VertexSize = 32

// Vertex is one output vertex of the extraction pass. Size: 32 bytes.
type Vertex struct {
	Position [4]float32 // offset  0: world position, w = 1
	Normal   [4]float32 // offset 16: unit normal pointing out of the surface, w = 0
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v.Position[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v.Normal[i]))
	}
	return buf
}
