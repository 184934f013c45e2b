package renderer

import (
	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel of the colour and depth attachments.
// WebGPU guarantees support for 1 and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// ClearColor is the colour the first render pass of a frame clears to.
var ClearColor = wgpu.Color{R: 0, G: 0, B: 0, A: 1}

// RendererBackend is the GPU API behind the Renderer. Pipelines arrive already resolved from
// the Renderer's cache.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and the multisample and depth targets.
	// A zero width or height is ignored.
	ConfigureSurface(width, height int)

	SetPresentMode(mode PresentMode)

	RegisterRenderPipeline(p pipeline.Pipeline) error
	RegisterComputePipeline(p pipeline.Pipeline) error

	// InitBindGroup creates every missing buffer of the descriptor on the provider, then the
	// layout if the provider has none, then the bind group.
	//
	// Parameters:
	//   - provider: the provider that receives the resources
	//   - descriptor: the reflected layout of the group
	//   - bufferUsageOverrides: usage flags ORed into the derived usage, keyed by binding (nil safe)
	//   - bufferSizeOverrides: sizes replacing MinBindingSize, keyed by binding (nil safe)
	//
	// Returns:
	//   - error: an error if a resource could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues the writes. They land before any command buffer submitted afterwards.
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the next surface texture.
	BeginFrame() error

	// BeginCommands opens a command encoder within the current frame.
	BeginCommands() error

	// DispatchCompute encodes one compute pass. Provider i is bound at group i; nil entries are skipped.
	DispatchCompute(p pipeline.Pipeline, providers []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error

	// BeginRenderPass opens the render pass on the surface. With clear set the colour and
	// depth attachments are cleared, otherwise their contents are loaded.
	BeginRenderPass(clear bool) error

	// DrawIndirect draws non-indexed vertices from vertexBuffer with the arguments the GPU
	// wrote to indirectBuffer.
	DrawIndirect(p pipeline.Pipeline, vertexBuffer, indirectBuffer *wgpu.Buffer, bindGroups []bind_group_provider.BindGroupProvider) error

	EndRenderPass()

	// SubmitCommands finishes the open encoder and submits it.
	SubmitCommands() error

	// Present shows the surface texture and ends the frame.
	Present()

	// AbandonFrame drops any open pass, encoder and surface texture without presenting.
	AbandonFrame()

	Release()
}
