package indirect_draw

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetWritesInitialArgs(t *testing.T) {
	provider := bind_group_provider.NewBindGroupProvider("surface")
	c := NewCoordinator(WithProvider(provider, 0))

	c.Reserve()
	c.Reserve()
	require.Equal(t, uint32(6), c.VertexCount())

	w := c.Reset()
	assert.Equal(t, provider, w.Provider)
	assert.Equal(t, 0, w.Binding)
	assert.Equal(t, uint64(0), w.Offset)
	require.Len(t, w.Data, 16)
	assert.Equal(t, []uint32{0, 1, 0, 0}, []uint32{
		binary.LittleEndian.Uint32(w.Data[0:]),
		binary.LittleEndian.Uint32(w.Data[4:]),
		binary.LittleEndian.Uint32(w.Data[8:]),
		binary.LittleEndian.Uint32(w.Data[12:]),
	})
	assert.Equal(t, uint32(0), c.VertexCount())
}

func TestReserveReturnsPreIncrementBase(t *testing.T) {
	c := NewCoordinator()
	assert.Equal(t, uint32(0), c.Reserve())
	assert.Equal(t, uint32(3), c.Reserve())
	assert.Equal(t, uint32(6), c.Reserve())
	assert.Equal(t, uint32(9), c.VertexCount())
}

func TestConcurrentReservationsAreDisjoint(t *testing.T) {
	const goroutines, perGoroutine = 32, 50
	c := NewCoordinator()

	bases := make(chan uint32, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				bases <- c.Reserve()
			}
		}()
	}
	wg.Wait()
	close(bases)

	seen := make(map[uint32]bool)
	for b := range bases {
		assert.Zero(t, b%3)
		assert.False(t, seen[b], "base %d reserved twice", b)
		seen[b] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
	assert.Equal(t, uint32(3*goroutines*perGoroutine), c.VertexCount())
}

func TestCPUOnlyCoordinator(t *testing.T) {
	c := NewCoordinator()
	assert.Nil(t, c.Provider())
	assert.Nil(t, c.Buffer())
	assert.Equal(t, map[int]wgpu.BufferUsage{0: wgpu.BufferUsageIndirect}, c.UsageOverrides())
}

func TestDrawIndirectArgsLayout(t *testing.T) {
	args := DrawIndirectArgs{VertexCount: 42, InstanceCount: 1, FirstVertex: 7, FirstInstance: 2}
	require.Equal(t, 16, args.Size())
	buf := args.Marshal()
	assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:]))
	assert.Contains(t, GPUDrawIndirectArgsSource, "atomic<u32>")
}
