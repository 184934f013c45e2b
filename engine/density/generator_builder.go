package density

import "github.com/Carmen-Shannon/automation/tools/worker"

// GeneratorBuilderOption is a functional option applied to a generator during construction via NewGenerator.
type GeneratorBuilderOption func(*generator)

// WithFunc sets the density function to sample.
//
// Parameters:
//   - fn: the density function
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the function option to a generator
func WithFunc(fn Func) GeneratorBuilderOption {
	return func(g *generator) {
		g.fn = fn
	}
}

// WithWorkerPool shares an existing worker pool. The generator will not stop it on Close.
//
// Parameters:
//   - pool: the pool to submit plane tasks to
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the pool option to a generator
func WithWorkerPool(pool worker.DynamicWorkerPool) GeneratorBuilderOption {
	return func(g *generator) {
		g.pool = pool
	}
}

// WithWorkers sizes the pool the generator creates when none is shared.
func WithWorkers(n int) GeneratorBuilderOption {
	return func(g *generator) {
		g.workers = n
	}
}
