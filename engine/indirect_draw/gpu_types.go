package indirect_draw

import (
	_ "embed"
	"encoding/binary"
	"unsafe"
)

// GPUDrawIndirectArgsSource is the canonical WGSL definition of the DrawIndirectArgs struct.
// The vertex count is atomic so extraction invocations can reserve output slots.
//
//go:embed assets/draw_indirect_args.wgsl
var GPUDrawIndirectArgsSource string

// DrawIndirectArgs matches the WebGPU non-indexed indirect draw layout. Size: 16 bytes.
type DrawIndirectArgs struct {
	VertexCount   uint32 // offset  0
	InstanceCount uint32 // offset  4
	FirstVertex   uint32 // offset  8
	FirstInstance uint32 // offset 12
}

// ResetArgs returns the arguments every extraction pass starts from: no vertices, one instance.
func ResetArgs() DrawIndirectArgs {
	return DrawIndirectArgs{InstanceCount: 1}
}

// Size returns the size of the DrawIndirectArgs struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (a *DrawIndirectArgs) Size() int {
	return int(unsafe.Sizeof(*a))
}

// Marshal serializes the DrawIndirectArgs struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (a *DrawIndirectArgs) Marshal() []byte {
	buf := make([]byte, a.Size())
	binary.LittleEndian.PutUint32(buf[0:], a.VertexCount)
	binary.LittleEndian.PutUint32(buf[4:], a.InstanceCount)
	binary.LittleEndian.PutUint32(buf[8:], a.FirstVertex)
	binary.LittleEndian.PutUint32(buf[12:], a.FirstInstance)
	return buf
}
