package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("surface")
	assert.Equal(t, "surface", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.Bindings())
}

func TestBindingsAreSorted(t *testing.T) {
	args, verts := &wgpu.Buffer{}, &wgpu.Buffer{}
	p := NewBindGroupProvider("surface", WithBuffer(1, verts))
	p.SetBuffer(0, args)
	p.SetBuffer(4, nil)

	assert.Equal(t, []int{0, 1}, p.Bindings())
	assert.Same(t, verts, p.Buffer(1))
}
