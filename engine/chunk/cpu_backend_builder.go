package chunk

import (
	"errors"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

var errNoPendingFrame = errors.New("no frame begun")

// CPUBackendOption is a functional option for configuring a CPUBackend.
type CPUBackendOption func(*cpuBackend)

// WithWorkerPool shares an existing pool. The backend will not stop it.
//
// Parameters:
//   - pool: a running worker pool
//
// Returns:
//   - CPUBackendOption: option function to apply
func WithWorkerPool(pool worker.DynamicWorkerPool) CPUBackendOption {
	return func(b *cpuBackend) {
		b.pool = pool
	}
}

// WithWorkers sizes the pool the backend creates. Zero picks the default.
func WithWorkers(n int) CPUBackendOption {
	return func(b *cpuBackend) {
		b.workers = n
	}
}
