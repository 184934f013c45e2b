package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/extractor"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderSource = `//@iso:include camera
//@iso:group 0 0 storage_uniform camera camera

struct VertexInput {
    @location(0) position: vec4<f32>,
    @location(1) normal: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.view_proj * in.position;
    out.normal = in.normal.xyz;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.normal * 0.5 + 0.5, 1.0);
}
`

func TestComputeShadersShareDensityGroup(t *testing.T) {
	gen := NewShader("density", ShaderTypeCompute, density.ShaderSource)
	mc := NewShader("marching_cubes", ShaderTypeCompute, extractor.ShaderSource)

	assert.Equal(t, "main", gen.EntryPoint())
	assert.Equal(t, [3]uint32{4, 4, 4}, gen.WorkgroupSize())
	assert.Equal(t, [3]uint32{4, 4, 4}, mc.WorkgroupSize())
	assert.Equal(t, gen.BindGroupLayoutDescriptor(0), mc.BindGroupLayoutDescriptor(0))

	entries := gen.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(64), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, entries[1].Buffer.Type)
	assert.Equal(t, uint64(4), entries[1].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageCompute, entries[1].Visibility)
	assert.Equal(t, "density", gen.BindGroupVarName(0, 1))
}

func TestMarchingCubesLayouts(t *testing.T) {
	mc := NewShader("marching_cubes", ShaderTypeCompute, extractor.ShaderSource)
	require.Len(t, mc.BindGroupLayoutDescriptors(), 3)

	tables := mc.BindGroupLayoutDescriptor(1).Entries
	require.Len(t, tables, 2)
	for _, e := range tables {
		assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, e.Buffer.Type)
		assert.Equal(t, uint64(4), e.Buffer.MinBindingSize)
	}

	surface := mc.BindGroupLayoutDescriptor(2).Entries
	require.Len(t, surface, 2)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, surface[0].Buffer.Type)
	assert.Equal(t, uint64(16), surface[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(extractor.VertexSize), surface[1].Buffer.MinBindingSize)
	assert.Equal(t, "args", mc.BindGroupVarName(2, 0))
	assert.Equal(t, "vertices", mc.BindGroupVarName(2, 1))

	assert.Contains(t, mc.Source(), "struct DrawIndirectArgs")
	assert.Contains(t, mc.Source(), "var<storage, read_write> vertices: array<IsoVertex>;")
	assert.NotContains(t, mc.Source(), "@iso:")
}

func TestProviderLookups(t *testing.T) {
	decls := NewShader("marching_cubes", ShaderTypeCompute, extractor.ShaderSource).Declarations()

	g, ok := ProviderGroup(decls, AnnotationArgSurface)
	require.True(t, ok)
	assert.Equal(t, 2, g)

	b, ok := ProviderBinding(decls, AnnotationArgSurface, AnnotationArgVertices)
	require.True(t, ok)
	assert.Equal(t, 1, b)

	b, ok = ProviderBinding(decls, AnnotationArgTables, AnnotationArgTriangleTable)
	require.True(t, ok)
	assert.Equal(t, 1, b)

	_, ok = ProviderGroup(decls, AnnotationArgCamera)
	assert.False(t, ok)
}

func TestRenderShaderReflection(t *testing.T) {
	vs := NewShader("surface_vs", ShaderTypeVertex, renderSource)
	fs := NewShader("surface_fs", ShaderTypeFragment, renderSource)

	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())
	assert.Equal(t, [3]uint32{}, vs.WorkgroupSize())

	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(16), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)
	assert.Empty(t, fs.VertexLayouts())

	cam := vs.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, cam, 1)
	assert.Equal(t, uint64(80), cam[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, fs.BindGroupLayoutDescriptor(0).Entries[0].Visibility)
}

func TestParseShaderErrors(t *testing.T) {
	cases := map[string]string{
		"unknown annotation": "//@iso:bogus\n@compute @workgroup_size(1) fn main() {}",
		"unknown struct":     "//@iso:include mesh\n@compute @workgroup_size(1) fn main() {}",
		"bad group":          "//@iso:group x 0 storage_uniform p chunk_params\n@compute @workgroup_size(1) fn main() {}",
		"unknown role":       "//@iso:provider 0 0 surface index\n@compute @workgroup_size(1) fn main() {}",
		"no entry point":     "fn helper() {}",
		"texture binding":    "@group(0) @binding(0) var tex: texture_2d<f32>;\n@compute @workgroup_size(1) fn main() {}",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseShader("bad", ShaderTypeCompute, src)
			assert.Error(t, err)
		})
	}

	assert.Panics(t, func() { NewShader("bad", ShaderTypeCompute, "fn helper() {}") })
}

func TestIncludesAreDeduplicated(t *testing.T) {
	src := "//@iso:include iso_vertex\n//@iso:include iso_vertex\n@compute @workgroup_size(8) fn main() {}"
	s, err := ParseShader("dedupe", ShaderTypeCompute, src)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(s.Source(), "struct IsoVertex"))
	assert.Equal(t, [3]uint32{8, 1, 1}, s.WorkgroupSize())
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c\n"
	assert.Equal(t, "a \nb  c\n", stripComments(src))
}
