package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("surface", PipelineTypeRender)

	assert.Equal(t, "surface", p.PipelineKey())
	assert.Equal(t, PipelineTypeRender, p.Type())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	require.NotNil(t, p.BlendState())
	assert.Nil(t, p.Pipeline().(*wgpu.RenderPipeline))
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("surface", PipelineTypeRender,
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithTopology(wgpu.PrimitiveTopologyLineList),
	)

	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
}

func TestValidate(t *testing.T) {
	assert.Error(t, NewPipeline("density", PipelineTypeCompute).Validate())
	assert.Error(t, NewPipeline("surface", PipelineTypeRender).Validate())

	cs := shader.NewShader("density", shader.ShaderTypeCompute, density.ShaderSource)
	p := NewPipeline("density", PipelineTypeCompute, WithComputeShader(cs))
	require.NoError(t, p.Validate())
	assert.Same(t, cs, p.Shader(shader.ShaderTypeCompute))
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
}
