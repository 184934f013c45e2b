package density

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/isoflow/common"
)

// generator is the implementation of the Generator interface.
type generator struct {
	mu *sync.Mutex

	fn      Func
	pool    worker.DynamicWorkerPool
	ownPool bool
	workers int
}

// Generator fills a density Field by sampling a Func at every lattice corner.
type Generator interface {
	// Generate overwrites every sample of field with fn(position, t). Each z-plane of the
	// lattice is evaluated as an independent task on the worker pool; Generate returns once
	// all planes are written. Calling it twice with the same arguments yields identical
	// samples.
	//
	// Parameters:
	//   - field: the lattice to fill
	//   - origin: the global corner index of the field's (0, 0, 0) corner
	//   - voxelSize: the world size of one cell
	//   - t: the animation time in seconds
	Generate(field *Field, origin [3]int, voxelSize, t float32)

	// Func returns the density function currently sampled.
	Func() Func

	// SetFunc swaps the density function. Takes effect on the next Generate call.
	SetFunc(fn Func)

	// Close stops the worker pool if the generator created it.
	Close()
}

var _ Generator = &generator{}

// NewGenerator creates a Generator. Without WithWorkerPool the generator owns a pool sized
// by WithWorkers, or one worker per spare CPU.
//
// Parameters:
//   - options: variadic list of GeneratorBuilderOption functions
//
// Returns:
//   - Generator: the configured generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generator{
		mu: &sync.Mutex{},
		fn: Cloud(1),
	}
	for _, opt := range options {
		opt(g)
	}
	if g.pool == nil {
		g.pool = common.NewWorkerPool(g.workers)
		g.ownPool = true
	}
	return g
}

func (g *generator) Func() Func {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fn
}

func (g *generator) SetFunc(fn Func) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fn = fn
}

func (g *generator) Generate(field *Field, origin [3]int, voxelSize, t float32) {
	fn := g.Func()
	dim := field.Dim

	var wg sync.WaitGroup
	for z := range dim {
		wg.Add(1)
		g.pool.SubmitTask(worker.Task{
			ID:      z,
			Payload: z,
			Do: func() (any, error) {
				defer wg.Done()
				base := field.Index(0, 0, z)
				for y := range dim {
					for x := range dim {
						field.Values[base+x+y*dim] = fn(CornerPosition(origin, x, y, z, voxelSize), t)
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (g *generator) Close() {
	if g.ownPool {
		g.pool.Stop()
	}
}
