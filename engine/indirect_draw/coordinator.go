// Package indirect_draw owns the draw arguments that the extraction pass writes and the
// render pass consumes. The host resets the arguments before every chunk and never reads
// the vertex count back to issue a draw.
package indirect_draw

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// coordinator is the implementation of the Coordinator interface.
type coordinator struct {
	mu *sync.Mutex

	provider bind_group_provider.BindGroupProvider
	binding  int

	// vertexCount mirrors the GPU counter for the CPU extraction path.
	vertexCount atomic.Uint32
}

// Coordinator resets and exposes the indirect draw arguments for one chunk at a time.
type Coordinator interface {
	// Reset zeroes the vertex count and sets the instance count to one on the CPU mirror.
	// The returned write applies the same reset to the GPU buffer and must be queued before
	// the extraction pass that follows.
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: the 16 byte write of {0, 1, 0, 0}
	Reset() bind_group_provider.BufferWrite

	// Reserve atomically adds 3 to the vertex count and returns the count before the add.
	// The caller owns the three vertex slots starting at the returned index.
	//
	// Returns:
	//   - uint32: the base index of the reserved triangle
	Reserve() uint32

	// VertexCount returns the CPU mirror's vertex count.
	VertexCount() uint32

	// Provider returns the bind group provider holding the GPU arguments buffer, or nil on
	// the CPU path.
	Provider() bind_group_provider.BindGroupProvider

	// Binding returns the binding index of the arguments buffer within the provider.
	Binding() int

	// Buffer returns the GPU arguments buffer, or nil before the provider is initialized.
	Buffer() *wgpu.Buffer

	// UsageOverrides returns the extra buffer usage the arguments binding needs so the same
	// storage buffer can feed DrawIndirect.
	UsageOverrides() map[int]wgpu.BufferUsage
}

var _ Coordinator = &coordinator{}

// NewCoordinator creates a Coordinator. Without WithProvider it only keeps the CPU mirror.
//
// Parameters:
//   - options: variadic list of CoordinatorBuilderOption functions
//
// Returns:
//   - Coordinator: the coordinator, already reset
func NewCoordinator(options ...CoordinatorBuilderOption) Coordinator {
	c := &coordinator{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *coordinator) Reset() bind_group_provider.BufferWrite {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vertexCount.Store(0)
	args := ResetArgs()
	return bind_group_provider.BufferWrite{
		Provider: c.provider,
		Binding:  c.binding,
		Offset:   0,
		Data:     args.Marshal(),
	}
}

func (c *coordinator) Reserve() uint32 {
	return c.vertexCount.Add(3) - 3
}

func (c *coordinator) VertexCount() uint32 {
	return c.vertexCount.Load()
}

func (c *coordinator) Provider() bind_group_provider.BindGroupProvider {
	return c.provider
}

func (c *coordinator) Binding() int {
	return c.binding
}

func (c *coordinator) Buffer() *wgpu.Buffer {
	if c.provider == nil {
		return nil
	}
	return c.provider.Buffer(c.binding)
}

func (c *coordinator) UsageOverrides() map[int]wgpu.BufferUsage {
	return map[int]wgpu.BufferUsage{c.binding: wgpu.BufferUsageIndirect}
}
