// Package extractor triangulates a density lattice with marching cubes. Every cell is
// processed independently and appends its triangles to a shared vertex buffer through an
// atomic counter, the same way the GPU extraction pass writes its output.
package extractor

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/lookup_tables"
	"github.com/go-gl/mathgl/mgl32"
)

// Counter hands out vertex slots. Reserve atomically adds 3 and returns the value before
// the add.
type Counter interface {
	Reserve() uint32
}

// edgeEndpoints orders each edge from its lower lattice corner so two cells sharing an
// edge compute bit-identical crossing points.
var edgeEndpoints = func() [lookup_tables.EdgeCount][2]int {
	var out [lookup_tables.EdgeCount][2]int
	for e, pair := range lookup_tables.EdgeCorners {
		a, b := pair[0], pair[1]
		oa, ob := lookup_tables.CornerOffsets[a], lookup_tables.CornerOffsets[b]
		if oa[0]+oa[1]+oa[2] > ob[0]+ob[1]+ob[2] {
			a, b = b, a
		}
		out[e] = [2]int{a, b}
	}
	return out
}()

// extractor is the implementation of the Extractor interface.
type extractor struct {
	pool    worker.DynamicWorkerPool
	ownPool bool
	workers int
}

// Extractor runs marching cubes over a density Field on the CPU.
type Extractor interface {
	// Extract triangulates every cell of field. Each z-slab of cells runs as an independent
	// task on the worker pool. For each triangle the extractor reserves three slots from
	// counter and writes the vertices at the returned base. Triangles whose slots fall past
	// the end of vertices are dropped, matching out-of-bounds storage writes on the GPU.
	//
	// Parameters:
	//   - field: the density lattice, D+1 corners per axis
	//   - origin: the global corner index of the field's (0, 0, 0) corner
	//   - voxelSize: the world size of one cell
	//   - iso: the surface threshold; corners below it are inside
	//   - vertices: the output buffer, normally Capacity(D) long
	//   - counter: the shared vertex counter, reset by the caller
	Extract(field *density.Field, origin [3]int, voxelSize, iso float32, vertices []Vertex, counter Counter)

	// Close stops the worker pool if the extractor created it.
	Close()
}

var _ Extractor = &extractor{}

// NewExtractor creates an Extractor. Without WithWorkerPool the extractor owns its pool.
//
// Parameters:
//   - options: variadic list of ExtractorBuilderOption functions
//
// Returns:
//   - Extractor: the configured extractor
func NewExtractor(options ...ExtractorBuilderOption) Extractor {
	e := &extractor{}
	for _, opt := range options {
		opt(e)
	}
	if e.pool == nil {
		e.pool = common.NewWorkerPool(e.workers)
		e.ownPool = true
	}
	return e
}

// Capacity returns the worst-case vertex count of a chunk with the given cells per axis.
func Capacity(cells int) int {
	return cells * cells * cells * lookup_tables.MaxVerticesPerCell
}

func (e *extractor) Extract(field *density.Field, origin [3]int, voxelSize, iso float32, vertices []Vertex, counter Counter) {
	emit := func(tri [3]Vertex) {
		base := int(counter.Reserve())
		if base+3 > len(vertices) {
			return
		}
		copy(vertices[base:base+3], tri[:])
	}

	cells := field.Cells()
	var wg sync.WaitGroup
	for z := range cells {
		wg.Add(1)
		e.pool.SubmitTask(worker.Task{
			ID:      z,
			Payload: z,
			Do: func() (any, error) {
				defer wg.Done()
				for y := range cells {
					for x := range cells {
						Polygonise(field, origin, [3]int{x, y, z}, voxelSize, iso, emit)
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (e *extractor) Close() {
	if e.ownPool {
		e.pool.Stop()
	}
}

// CubeMask builds the configuration index of a cell: bit i is set when corner i is inside.
//
// Parameters:
//   - d: the densities of the eight corners in cube order
//   - iso: the surface threshold
//
// Returns:
//   - uint8: the configuration mask
func CubeMask(d [lookup_tables.CornerCount]float32, iso float32) uint8 {
	var mask uint8
	for i, v := range d {
		if v < iso {
			mask |= 1 << i
		}
	}
	return mask
}

// Crossing returns where along an edge the density reaches iso, clamped to [0, 1].
// Equal endpoint densities yield 0.
func Crossing(iso, a, b float32) float32 {
	diff := b - a
	if diff == 0 {
		return 0
	}
	return common.Clamp((iso-a)/diff, 0, 1)
}

// Polygonise triangulates a single cell and passes each triangle to emit in table order.
// Masks with no crossed edges emit nothing.
//
// Parameters:
//   - field: the density lattice
//   - origin: the global corner index of the field's (0, 0, 0) corner
//   - cell: the cell's minimum corner within the field
//   - voxelSize: the world size of one cell
//   - iso: the surface threshold
//   - emit: receives each triangle, wound counter-clockwise seen from outside
func Polygonise(field *density.Field, origin [3]int, cell [3]int, voxelSize, iso float32, emit func(tri [3]Vertex)) {
	var corners [lookup_tables.CornerCount][3]int
	var d [lookup_tables.CornerCount]float32
	for i, o := range lookup_tables.CornerOffsets {
		corners[i] = [3]int{cell[0] + o[0], cell[1] + o[1], cell[2] + o[2]}
		d[i] = field.At(corners[i][0], corners[i][1], corners[i][2])
	}

	mask := CubeMask(d, iso)
	if lookup_tables.EdgeTable[mask] == 0 {
		return
	}

	var pos, nrm [lookup_tables.EdgeCount]mgl32.Vec3
	for e := range lookup_tables.EdgeCount {
		if !lookup_tables.EdgeActive(mask, e) {
			continue
		}
		a, b := edgeEndpoints[e][0], edgeEndpoints[e][1]
		t := Crossing(iso, d[a], d[b])
		ca, cb := corners[a], corners[b]
		pa := density.CornerPosition(origin, ca[0], ca[1], ca[2], voxelSize)
		pb := density.CornerPosition(origin, cb[0], cb[1], cb[2], voxelSize)
		ga, gb := gradient(field, ca), gradient(field, cb)
		pos[e] = pa.Add(pb.Sub(pa).Mul(t))
		nrm[e] = ga.Add(gb.Sub(ga).Mul(t))
	}

	for _, tri := range lookup_tables.Triangles(mask) {
		var out [3]Vertex
		for k, e := range tri {
			p, n := pos[e], unit(nrm[e])
			out[k] = Vertex{
				Position: [4]float32{p[0], p[1], p[2], 1},
				Normal:   [4]float32{n[0], n[1], n[2], 0},
			}
		}
		emit(out)
	}
}

// gradient estimates the density gradient at a lattice corner, one-sided at the boundary.
func gradient(field *density.Field, c [3]int) mgl32.Vec3 {
	last := field.Dim - 1
	var g mgl32.Vec3
	for axis := range 3 {
		lo, hi := c, c
		lo[axis] = max(c[axis]-1, 0)
		hi[axis] = min(c[axis]+1, last)
		g[axis] = (field.At(hi[0], hi[1], hi[2]) - field.At(lo[0], lo[1], lo[2])) / float32(hi[axis]-lo[axis])
	}
	return g
}

func unit(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
