package chunk

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/extractor"
	"github.com/Carmen-Shannon/isoflow/engine/indirect_draw"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is the geometry one chunk contributed to a frame.
type Mesh struct {
	ChunkID int

	// Min and Max are the world-space corners of the chunk the mesh was extracted from.
	Min, Max mgl32.Vec3

	Vertices []extractor.Vertex
}

// Frame is the CPU analogue of the render target: the meshes drawn since the last clear.
type Frame struct {
	Time   float32
	Meshes []Mesh
}

// VertexCount returns the number of vertices over all meshes.
func (f Frame) VertexCount() int {
	n := 0
	for _, m := range f.Meshes {
		n += len(m.Vertices)
	}
	return n
}

// cpuBackend is the implementation of the CPUBackend interface.
type cpuBackend struct {
	mu *sync.Mutex

	layout   Layout
	settings Settings

	pool        worker.DynamicWorkerPool
	ownPool     bool
	workers     int
	generator   density.Generator
	extractor   extractor.Extractor
	coordinator indirect_draw.Coordinator

	// field and vertices are reused by every chunk.
	field    *density.Field
	vertices []extractor.Vertex

	pending   *Frame
	presented Frame
}

// CPUBackend runs the pipeline on the CPU worker pool and keeps the presented frame's
// meshes in memory.
type CPUBackend interface {
	Backend
	SettingsSetter
	VertexCounter

	// Frame returns the last presented frame.
	Frame() Frame

	// Close stops the worker pool if the backend created it.
	Close()
}

var _ CPUBackend = &cpuBackend{}

// NewCPUBackend creates a CPU backend for a layout.
//
// Parameters:
//   - layout: the chunk grid
//   - settings: the initial surface settings
//   - options: functional options applied in order
//
// Returns:
//   - CPUBackend: the backend
func NewCPUBackend(layout Layout, settings Settings, options ...CPUBackendOption) CPUBackend {
	b := &cpuBackend{
		mu:       &sync.Mutex{},
		layout:   layout,
		settings: settings,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.pool == nil {
		b.pool = common.NewWorkerPool(b.workers)
		b.ownPool = true
	}
	b.generator = density.NewGenerator(density.WithWorkerPool(b.pool), density.WithFunc(settings.Params.Func()))
	b.extractor = extractor.NewExtractor(extractor.WithWorkerPool(b.pool))
	b.coordinator = indirect_draw.NewCoordinator()
	b.field = density.NewField(layout.Cells)
	b.vertices = make([]extractor.Vertex, extractor.Capacity(layout.Cells))
	return b
}

func (b *cpuBackend) SetSettings(s Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.VoxelSize = b.settings.VoxelSize
	b.settings = s
	b.generator.SetFunc(s.Params.Func())
}

func (b *cpuBackend) current() Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

func (b *cpuBackend) BeginFrame(t float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = &Frame{Time: t}
	return nil
}

func (b *cpuBackend) Reset(_ Chunk) error {
	b.coordinator.Reset()
	return nil
}

func (b *cpuBackend) Generate(c Chunk, t float32) error {
	b.generator.Generate(b.field, c.Origin, b.current().VoxelSize, t)
	return nil
}

func (b *cpuBackend) Extract(c Chunk) error {
	s := b.current()
	b.extractor.Extract(b.field, c.Origin, s.VoxelSize, s.IsoLevel, b.vertices, b.coordinator)
	return nil
}

// VertexCount returns the vertices the last extracted chunk produced that fit the buffer.
func (b *cpuBackend) VertexCount() uint32 {
	return min(b.coordinator.VertexCount(), uint32(len(b.vertices)))
}

func (b *cpuBackend) Render(c Chunk, first bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return errNoPendingFrame
	}
	if first {
		b.pending.Meshes = b.pending.Meshes[:0]
	}
	n := min(b.coordinator.VertexCount(), uint32(len(b.vertices)))
	mesh := Mesh{ChunkID: c.ID, Vertices: make([]extractor.Vertex, n)}
	mesh.Min, mesh.Max = b.layout.ChunkBounds(c, b.settings.VoxelSize)
	copy(mesh.Vertices, b.vertices[:n])
	b.pending.Meshes = append(b.pending.Meshes, mesh)
	return nil
}

func (b *cpuBackend) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return errNoPendingFrame
	}
	b.presented = *b.pending
	b.pending = nil
	return nil
}

func (b *cpuBackend) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}

func (b *cpuBackend) Frame() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presented
}

func (b *cpuBackend) Close() {
	b.generator.Close()
	b.extractor.Close()
	if b.ownPool {
		b.pool.Stop()
	}
}
