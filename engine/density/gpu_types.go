package density

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUChunkParamsSource is the canonical WGSL definition of the ChunkParams struct.
// Matches GPUChunkParams layout exactly (64 bytes).
//
//go:embed assets/chunk_params.wgsl
var GPUChunkParamsSource string

// ShaderSource is the density compute shader. One invocation writes one lattice corner.
//
//go:embed assets/density.wgsl
var ShaderSource string

// GPUChunkParams is the per-chunk uniform shared by the density and marching cubes
// compute passes. Size: 64 bytes.
type GPUChunkParams struct {
	Origin    [3]int32   // offset  0: global corner index of the chunk's first corner (vec3<i32>)
	VoxelSize float32    // offset 12
	Time      float32    // offset 16
	IsoLevel  float32    // offset 20
	Dim       uint32     // offset 24: corners per axis (cells + 1)
	ChunkID   uint32     // offset 28
	FieldKind uint32     // offset 32: FieldKind
	Radius    float32    // offset 36
	Amplitude float32    // offset 40
	Frequency float32    // offset 44
	Center    [3]float32 // offset 48 (vec3<f32>)
	_pad      float32    // offset 60
}

// NewGPUChunkParams packs the parameters of one chunk for one frame.
//
// Parameters:
//   - params: the density function selection
//   - origin: the global corner index of the chunk's first corner
//   - cells: the number of cells per chunk axis
//   - chunkID: the chunk index within the frame
//   - voxelSize: the world size of one cell
//   - isoLevel: the surface threshold
//   - t: the animation time in seconds
//
// Returns:
//   - GPUChunkParams: the uniform contents
func NewGPUChunkParams(params Params, origin [3]int, cells int, chunkID int, voxelSize, isoLevel, t float32) GPUChunkParams {
	return GPUChunkParams{
		Origin:    [3]int32{int32(origin[0]), int32(origin[1]), int32(origin[2])},
		VoxelSize: voxelSize,
		Time:      t,
		IsoLevel:  isoLevel,
		Dim:       uint32(cells + 1),
		ChunkID:   uint32(chunkID),
		FieldKind: uint32(params.Kind),
		Radius:    params.Radius,
		Amplitude: params.Amplitude,
		Frequency: params.Frequency,
		Center:    params.Center,
	}
}

// Size returns the size of the GPUChunkParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUChunkParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUChunkParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUChunkParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(g.Origin[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.VoxelSize))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.IsoLevel))
	binary.LittleEndian.PutUint32(buf[24:], g.Dim)
	binary.LittleEndian.PutUint32(buf[28:], g.ChunkID)
	binary.LittleEndian.PutUint32(buf[32:], g.FieldKind)
	binary.LittleEndian.PutUint32(buf[36:], math.Float32bits(g.Radius))
	binary.LittleEndian.PutUint32(buf[40:], math.Float32bits(g.Amplitude))
	binary.LittleEndian.PutUint32(buf[44:], math.Float32bits(g.Frequency))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[48+i*4:], math.Float32bits(g.Center[i]))
	}
	binary.LittleEndian.PutUint32(buf[60:], 0) // _pad
	return buf
}
