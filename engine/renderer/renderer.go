// Package renderer wraps the wgpu device, surface and command recording behind a small
// frame API: acquire the surface, record and submit one command buffer per chunk, present.
package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource is what the Renderer needs from a window.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer is the frame API used by the chunk pipeline.
//
// A frame is BeginFrame, then per chunk WriteBuffers, BeginCommands, DispatchCompute calls,
// BeginRenderPass, DrawIndirect, EndRenderPass and SubmitCommands, then Present. Queue writes
// are ordered before command buffers submitted after them, so each chunk sees its own
// parameters without the host waiting on the GPU. Any error leaves the frame open; the caller
// ends it with AbandonFrame.
type Renderer interface {
	// Pipeline retrieves a registered pipeline, or nil.
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches it by key.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if a pipeline is incomplete or creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// InitBindGroup creates a provider's buffers and bind group from a reflected layout.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: extra usage flags per binding (nil safe)
	//   - bufferSizeOverrides: buffer sizes per binding replacing MinBindingSize (nil safe)
	//
	// Returns:
	//   - error: an error if creation fails, wrapping ErrOutOfMemory for allocation failures
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues buffer writes.
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the surface texture. A lost surface is reconfigured and acquired
	// once more; the errors returned are classified with ErrSurfaceLost, ErrSurfaceOutdated,
	// ErrSurfaceTimeout and ErrOutOfMemory.
	BeginFrame() error

	// BeginCommands opens a command encoder.
	BeginCommands() error

	// DispatchCompute encodes a compute pass of a registered compute pipeline.
	//
	// Parameters:
	//   - pipelineKey: the registered compute pipeline
	//   - providers: provider i is bound at group i, nil entries are skipped
	//   - workGroupCount: workgroups in x, y and z
	//
	// Returns:
	//   - error: ErrPipelineNotFound, ErrNoFrame or nil
	DispatchCompute(pipelineKey string, providers []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error

	// BeginRenderPass opens the render pass, clearing colour and depth when clear is set and
	// loading them otherwise.
	BeginRenderPass(clear bool) error

	// DrawIndirect draws from vertexBuffer with the arguments stored in indirectBuffer.
	//
	// Parameters:
	//   - pipelineKey: the registered render pipeline
	//   - vertexBuffer: the buffer bound at vertex slot 0
	//   - indirectBuffer: a 16-byte DrawIndirect argument buffer
	//   - bindGroups: provider i is bound at group i
	//
	// Returns:
	//   - error: ErrPipelineNotFound, ErrNoFrame or nil
	DrawIndirect(pipelineKey string, vertexBuffer, indirectBuffer *wgpu.Buffer, bindGroups []bind_group_provider.BindGroupProvider) error

	EndRenderPass()

	// SubmitCommands finishes and submits the open encoder.
	SubmitCommands() error

	// Present shows the frame.
	Present()

	// AbandonFrame drops the frame without presenting it.
	AbandonFrame()

	// Release frees the render targets, the surface and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing to the surface of a window. Unless WithBackend is
// given it creates a wgpu device, which panics if no adapter or device is available.
//
// Parameters:
//   - backendType: the GPU backend to create
//   - surface: the window providing the surface descriptor and the initial size
//   - options: functional options applied before the device is created
//
// Returns:
//   - Renderer: the renderer with a configured surface
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return err
		}
		var err error
		switch p.Type() {
		case pipeline.PipelineTypeCompute:
			err = r.backend.RegisterComputePipeline(p)
		case pipeline.PipelineTypeRender:
			err = r.backend.RegisterRenderPipeline(p)
		}
		if err != nil {
			return fmt.Errorf("register pipeline %s: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) lookup(key string) (pipeline.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelineCache[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, key)
	}
	return p, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginCommands() error {
	return r.backend.BeginCommands()
}

func (r *renderer) DispatchCompute(pipelineKey string, providers []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DispatchCompute(p, providers, workGroupCount)
}

func (r *renderer) BeginRenderPass(clear bool) error {
	return r.backend.BeginRenderPass(clear)
}

func (r *renderer) DrawIndirect(pipelineKey string, vertexBuffer, indirectBuffer *wgpu.Buffer, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawIndirect(p, vertexBuffer, indirectBuffer, bindGroups)
}

func (r *renderer) EndRenderPass() {
	r.backend.EndRenderPass()
}

func (r *renderer) SubmitCommands() error {
	return r.backend.SubmitCommands()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) AbandonFrame() {
	r.backend.AbandonFrame()
}

func (r *renderer) Release() {
	r.backend.Release()
}
