package chunk

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/camera"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/extractor"
	"github.com/Carmen-Shannon/isoflow/engine/indirect_draw"
	"github.com/Carmen-Shannon/isoflow/engine/lookup_tables"
	"github.com/Carmen-Shannon/isoflow/engine/renderer"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/isoflow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceShaderSource draws the extracted vertices with the camera uniform.
//
//go:embed assets/surface_render.wgsl
var SurfaceShaderSource string

// Pipeline keys registered by the GPU backend.
const (
	PipelineDensity       = "density"
	PipelineMarchingCubes = "marching_cubes"
	PipelineSurface       = "surface"
)

// gpuBackend is the implementation of the GPUBackend interface.
type gpuBackend struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	camera   camera.Camera
	layout   Layout
	settings Settings

	densityProvider bind_group_provider.BindGroupProvider
	tablesProvider  bind_group_provider.BindGroupProvider
	surfaceProvider bind_group_provider.BindGroupProvider
	coordinator     indirect_draw.Coordinator

	paramsBinding   int
	verticesBinding int

	// Bind groups in group order for each pipeline.
	densityGroups []bind_group_provider.BindGroupProvider
	extractGroups []bind_group_provider.BindGroupProvider
	renderGroups  []bind_group_provider.BindGroupProvider

	densityWorkgroups [3]uint32
	extractWorkgroups [3]uint32
}

// GPUBackend runs every stage on the GPU. The host writes the chunk parameters and the
// draw argument reset through the queue and never reads anything back.
type GPUBackend interface {
	Backend
	SettingsSetter

	// Coordinator returns the indirect draw coordinator owning the argument buffer.
	Coordinator() indirect_draw.Coordinator

	// Release frees the backend's buffers and bind groups.
	Release()
}

var _ GPUBackend = &gpuBackend{}

// slot is where a buffer lives within a shader's bind groups.
type slot struct {
	group, binding int
}

// NewGPUBackend compiles the pipelines, allocates the shared buffers and uploads the
// lookup tables.
//
// Parameters:
//   - r: the renderer to record into
//   - cam: the camera whose uniform is uploaded each frame
//   - layout: the chunk grid; its cell count sizes every buffer
//   - settings: the initial surface settings
//
// Returns:
//   - GPUBackend: the ready backend
//   - error: an error if a pipeline or buffer could not be created
func NewGPUBackend(r renderer.Renderer, cam camera.Camera, layout Layout, settings Settings) (GPUBackend, error) {
	b := &gpuBackend{
		mu:              &sync.Mutex{},
		renderer:        r,
		camera:          cam,
		layout:          layout,
		settings:        settings,
		densityProvider: bind_group_provider.NewBindGroupProvider("density"),
		tablesProvider:  bind_group_provider.NewBindGroupProvider("tables"),
		surfaceProvider: bind_group_provider.NewBindGroupProvider("surface"),
	}

	densityShader, err := shader.ParseShader(PipelineDensity, shader.ShaderTypeCompute, density.ShaderSource)
	if err != nil {
		return nil, err
	}
	extractShader, err := shader.ParseShader(PipelineMarchingCubes, shader.ShaderTypeCompute, extractor.ShaderSource)
	if err != nil {
		return nil, err
	}
	vertexShader, err := shader.ParseShader(PipelineSurface+"_vs", shader.ShaderTypeVertex, SurfaceShaderSource)
	if err != nil {
		return nil, err
	}
	fragmentShader, err := shader.ParseShader(PipelineSurface+"_fs", shader.ShaderTypeFragment, SurfaceShaderSource)
	if err != nil {
		return nil, err
	}

	if err := r.RegisterPipelines(
		pipeline.NewPipeline(PipelineDensity, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(densityShader)),
		pipeline.NewPipeline(PipelineMarchingCubes, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(extractShader)),
		pipeline.NewPipeline(PipelineSurface, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vertexShader),
			pipeline.WithFragmentShader(fragmentShader)),
	); err != nil {
		return nil, err
	}

	if err := b.initComputeGroups(densityShader, extractShader); err != nil {
		return nil, err
	}
	if err := b.initRenderGroups(vertexShader, fragmentShader); err != nil {
		return nil, err
	}

	b.densityWorkgroups = workgroups(layout.Corners(), densityShader.WorkgroupSize())
	b.extractWorkgroups = workgroups(layout.Cells, extractShader.WorkgroupSize())
	return b, nil
}

// workgroups covers n invocations per axis.
func workgroups(n int, size [3]uint32) [3]uint32 {
	var out [3]uint32
	for i := range 3 {
		out[i] = common.DivCeil(uint32(n), max(size[i], 1))
	}
	return out
}

// providerSlot finds a provider's binding from the shader's annotations. An empty role
// matches the provider's untagged binding.
func providerSlot(s shader.Shader, identity, role shader.AnnotationArg) (slot, error) {
	for _, d := range s.Declarations() {
		if d.Type != shader.AnnotationTypeProvider || d.Args[0] != identity {
			continue
		}
		if (role == "" && len(d.Args) == 1) || (len(d.Args) == 2 && d.Args[1] == role) {
			return slot{group: d.Group, binding: d.Binding}, nil
		}
	}
	if role == "" {
		return slot{}, fmt.Errorf("shader %s declares no %s binding", s.Key(), identity)
	}
	return slot{}, fmt.Errorf("shader %s declares no %s %s binding", s.Key(), identity, role)
}

// varSlot finds a binding by its WGSL variable name within a group.
func varSlot(s shader.Shader, group int, name string) (slot, error) {
	for _, e := range s.BindGroupLayoutDescriptor(group).Entries {
		if s.BindGroupVarName(group, int(e.Binding)) == name {
			return slot{group: group, binding: int(e.Binding)}, nil
		}
	}
	return slot{}, fmt.Errorf("shader %s has no %q in group %d", s.Key(), name, group)
}

// groupList places providers at their group indices.
func groupList(byGroup map[int]bind_group_provider.BindGroupProvider) []bind_group_provider.BindGroupProvider {
	n := 0
	for g := range byGroup {
		n = max(n, g+1)
	}
	out := make([]bind_group_provider.BindGroupProvider, n)
	for g, p := range byGroup {
		out[g] = p
	}
	return out
}

func (b *gpuBackend) initComputeGroups(densityShader, extractShader shader.Shader) error {
	densitySlot, err := providerSlot(densityShader, shader.AnnotationArgDensity, "")
	if err != nil {
		return err
	}
	paramsSlot, err := varSlot(densityShader, densitySlot.group, "params")
	if err != nil {
		return err
	}
	b.paramsBinding = paramsSlot.binding

	corners := uint64(b.layout.Corners())
	if err := b.renderer.InitBindGroup(b.densityProvider,
		densityShader.BindGroupLayoutDescriptor(densitySlot.group),
		nil,
		map[int]uint64{densitySlot.binding: corners * corners * corners * 4},
	); err != nil {
		return fmt.Errorf("density bind group: %w", err)
	}

	// The marching cubes shader binds the density group at the same index, so its layout
	// matches the one the density pipeline was created with.
	extractDensity, err := providerSlot(extractShader, shader.AnnotationArgDensity, "")
	if err != nil {
		return err
	}
	if extractDensity != densitySlot {
		return fmt.Errorf("density group is %d/%d in %s but %d/%d in %s",
			densitySlot.group, densitySlot.binding, densityShader.Key(),
			extractDensity.group, extractDensity.binding, extractShader.Key())
	}

	edgeSlot, err := providerSlot(extractShader, shader.AnnotationArgTables, shader.AnnotationArgEdgeTable)
	if err != nil {
		return err
	}
	triSlot, err := providerSlot(extractShader, shader.AnnotationArgTables, shader.AnnotationArgTriangleTable)
	if err != nil {
		return err
	}
	edgeBytes, triBytes := lookup_tables.EdgeTableBytes(), lookup_tables.TriangleTableBytes()
	if err := b.renderer.InitBindGroup(b.tablesProvider,
		extractShader.BindGroupLayoutDescriptor(edgeSlot.group),
		nil,
		map[int]uint64{edgeSlot.binding: uint64(len(edgeBytes)), triSlot.binding: uint64(len(triBytes))},
	); err != nil {
		return fmt.Errorf("tables bind group: %w", err)
	}
	if err := b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: b.tablesProvider, Binding: edgeSlot.binding, Data: edgeBytes},
		{Provider: b.tablesProvider, Binding: triSlot.binding, Data: triBytes},
	}); err != nil {
		return fmt.Errorf("upload tables: %w", err)
	}

	argsSlot, err := providerSlot(extractShader, shader.AnnotationArgSurface, shader.AnnotationArgDrawArgs)
	if err != nil {
		return err
	}
	vertSlot, err := providerSlot(extractShader, shader.AnnotationArgSurface, shader.AnnotationArgVertices)
	if err != nil {
		return err
	}
	b.verticesBinding = vertSlot.binding
	b.coordinator = indirect_draw.NewCoordinator(indirect_draw.WithProvider(b.surfaceProvider, argsSlot.binding))

	usage := b.coordinator.UsageOverrides()
	usage[vertSlot.binding] = wgpu.BufferUsageVertex
	if err := b.renderer.InitBindGroup(b.surfaceProvider,
		extractShader.BindGroupLayoutDescriptor(argsSlot.group),
		usage,
		map[int]uint64{vertSlot.binding: uint64(extractor.Capacity(b.layout.Cells)) * extractor.VertexSize},
	); err != nil {
		return fmt.Errorf("surface bind group: %w", err)
	}

	b.densityGroups = groupList(map[int]bind_group_provider.BindGroupProvider{
		densitySlot.group: b.densityProvider,
	})
	b.extractGroups = groupList(map[int]bind_group_provider.BindGroupProvider{
		densitySlot.group: b.densityProvider,
		edgeSlot.group:    b.tablesProvider,
		argsSlot.group:    b.surfaceProvider,
	})
	return nil
}

func (b *gpuBackend) initRenderGroups(vertexShader, fragmentShader shader.Shader) error {
	cameraSlot, err := providerSlot(vertexShader, shader.AnnotationArgCamera, "")
	if err != nil {
		return err
	}
	merged := renderer.MergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	if err := b.renderer.InitBindGroup(b.camera.BindGroupProvider(), merged[cameraSlot.group], nil, nil); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	b.renderGroups = groupList(map[int]bind_group_provider.BindGroupProvider{
		cameraSlot.group: b.camera.BindGroupProvider(),
	})
	return nil
}

func (b *gpuBackend) SetSettings(s Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Buffers are laid out for the initial voxel size.
	s.VoxelSize = b.settings.VoxelSize
	b.settings = s
}

func (b *gpuBackend) Coordinator() indirect_draw.Coordinator {
	return b.coordinator
}

func (b *gpuBackend) BeginFrame(t float32) error {
	if err := b.renderer.BeginFrame(); err != nil {
		return err
	}
	b.camera.Update(t)
	return b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{b.camera.BufferWrite()})
}

func (b *gpuBackend) Reset(_ Chunk) error {
	return b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{b.coordinator.Reset()})
}

func (b *gpuBackend) Generate(c Chunk, t float32) error {
	b.mu.Lock()
	s := b.settings
	b.mu.Unlock()

	params := density.NewGPUChunkParams(s.Params, c.Origin, b.layout.Cells, c.ID, s.VoxelSize, s.IsoLevel, t)
	if err := b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: b.densityProvider,
		Binding:  b.paramsBinding,
		Data:     params.Marshal(),
	}}); err != nil {
		return err
	}
	if err := b.renderer.BeginCommands(); err != nil {
		return err
	}
	return b.renderer.DispatchCompute(PipelineDensity, b.densityGroups, b.densityWorkgroups)
}

func (b *gpuBackend) Extract(_ Chunk) error {
	return b.renderer.DispatchCompute(PipelineMarchingCubes, b.extractGroups, b.extractWorkgroups)
}

func (b *gpuBackend) Render(_ Chunk, first bool) error {
	if err := b.renderer.BeginRenderPass(first); err != nil {
		return err
	}
	if err := b.renderer.DrawIndirect(PipelineSurface,
		b.surfaceProvider.Buffer(b.verticesBinding),
		b.coordinator.Buffer(),
		b.renderGroups,
	); err != nil {
		return err
	}
	b.renderer.EndRenderPass()
	return b.renderer.SubmitCommands()
}

func (b *gpuBackend) Present() error {
	b.renderer.Present()
	return nil
}

func (b *gpuBackend) Abandon() {
	b.renderer.AbandonFrame()
}

func (b *gpuBackend) Release() {
	b.densityProvider.Release()
	b.tablesProvider.Release()
	b.surfaceProvider.Release()
	b.camera.BindGroupProvider().Release()
}
