package extractor

import "github.com/Carmen-Shannon/automation/tools/worker"

// ExtractorBuilderOption is a functional option applied to an extractor during construction via NewExtractor.
type ExtractorBuilderOption func(*extractor)

// WithWorkerPool shares an existing worker pool. The extractor will not stop it on Close.
//
// Parameters:
//   - pool: the pool to submit slab tasks to
//
// Returns:
//   - ExtractorBuilderOption: a function that applies the pool option to an extractor
func WithWorkerPool(pool worker.DynamicWorkerPool) ExtractorBuilderOption {
	return func(e *extractor) {
		e.pool = pool
	}
}

// WithWorkers sizes the pool the extractor creates when none is shared.
func WithWorkers(n int) ExtractorBuilderOption {
	return func(e *extractor) {
		e.workers = n
	}
}
