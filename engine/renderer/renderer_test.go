package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct{ w, h int }

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fakeSurface) Width() int                                 { return s.w }
func (s fakeSurface) Height() int                                { return s.h }

type fakeBackend struct {
	calls       []string
	configured  [2]int
	presentMode PresentMode
	registerErr error
	dispatched  [3]uint32
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeBackend) ConfigureSurface(w, h int) {
	f.record("configure")
	f.configured = [2]int{w, h}
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.record("register render " + p.PipelineKey())
	return f.registerErr
}
func (f *fakeBackend) RegisterComputePipeline(p pipeline.Pipeline) error {
	f.record("register compute " + p.PipelineKey())
	return f.registerErr
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	f.record("init")
	return nil
}
func (f *fakeBackend) WriteBuffers([]bind_group_provider.BufferWrite) error {
	f.record("write")
	return nil
}
func (f *fakeBackend) BeginFrame() error    { f.record("begin frame"); return nil }
func (f *fakeBackend) BeginCommands() error { f.record("begin commands"); return nil }
func (f *fakeBackend) DispatchCompute(p pipeline.Pipeline, _ []bind_group_provider.BindGroupProvider, wg [3]uint32) error {
	f.record("dispatch " + p.PipelineKey())
	f.dispatched = wg
	return nil
}
func (f *fakeBackend) BeginRenderPass(clear bool) error {
	if clear {
		f.record("pass clear")
	} else {
		f.record("pass load")
	}
	return nil
}
func (f *fakeBackend) DrawIndirect(p pipeline.Pipeline, _, _ *wgpu.Buffer, _ []bind_group_provider.BindGroupProvider) error {
	f.record("draw " + p.PipelineKey())
	return nil
}
func (f *fakeBackend) EndRenderPass()        { f.record("end pass") }
func (f *fakeBackend) SubmitCommands() error { f.record("submit"); return nil }
func (f *fakeBackend) Present()              { f.record("present") }
func (f *fakeBackend) AbandonFrame()         { f.record("abandon") }
func (f *fakeBackend) Release()              { f.record("release") }

func densityPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline("density", pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(shader.NewShader("density", shader.ShaderTypeCompute, density.ShaderSource)))
}

func TestNewRendererConfiguresSurface(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeWGPU, fakeSurface{w: 640, h: 480},
		WithBackend(backend), WithPresentMode(PresentModeUncapped))

	require.NotNil(t, r)
	assert.Equal(t, [2]int{640, 480}, backend.configured)
	assert.Equal(t, PresentModeUncapped, backend.presentMode)

	r.Resize(800, 600)
	assert.Equal(t, [2]int{800, 600}, backend.configured)
}

func TestRegisterPipelines(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeWGPU, fakeSurface{w: 1, h: 1}, WithBackend(backend))
	backend.calls = nil

	p := densityPipeline()
	require.NoError(t, r.RegisterPipelines(p, p))
	assert.Equal(t, []string{"register compute density"}, backend.calls)
	assert.Same(t, p, r.Pipeline("density"))

	err := r.RegisterPipelines(pipeline.NewPipeline("surface", pipeline.PipelineTypeRender))
	assert.Error(t, err)
	assert.Nil(t, r.Pipeline("surface"))
}

func TestRegisterPipelinesWrapsBackendErrors(t *testing.T) {
	backend := &fakeBackend{registerErr: errors.New("boom")}
	r := NewRenderer(BackendTypeWGPU, fakeSurface{w: 1, h: 1}, WithBackend(backend))

	err := r.RegisterPipelines(densityPipeline())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register pipeline density")
	assert.Nil(t, r.Pipeline("density"))
}

func TestUnknownPipelineKeys(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeWGPU, fakeSurface{w: 1, h: 1}, WithBackend(backend))

	assert.ErrorIs(t, r.DispatchCompute("missing", nil, [3]uint32{1, 1, 1}), ErrPipelineNotFound)
	assert.ErrorIs(t, r.DrawIndirect("missing", nil, nil, nil), ErrPipelineNotFound)
}

func TestFrameCallsReachBackendInOrder(t *testing.T) {
	backend := &fakeBackend{}
	p := densityPipeline()
	r := NewRenderer(BackendTypeWGPU, fakeSurface{w: 1, h: 1}, WithBackend(backend), WithPipeline("density", p))
	backend.calls = nil

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.WriteBuffers(nil))
	require.NoError(t, r.BeginCommands())
	require.NoError(t, r.DispatchCompute("density", nil, [3]uint32{9, 9, 9}))
	require.NoError(t, r.BeginRenderPass(true))
	require.NoError(t, r.DrawIndirect("density", nil, nil, nil))
	r.EndRenderPass()
	require.NoError(t, r.SubmitCommands())
	r.Present()

	assert.Equal(t, []string{
		"begin frame", "write", "begin commands", "dispatch density",
		"pass clear", "draw density", "end pass", "submit", "present",
	}, backend.calls)
	assert.Equal(t, [3]uint32{9, 9, 9}, backend.dispatched)
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageVertex},
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}}},
	}

	merged := MergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)
	require.Len(t, merged[0].Entries, 2)
	assert.Equal(t, uint32(0), merged[0].Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex, merged[0].Entries[1].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, merged[1].Entries[0].Visibility)
}
