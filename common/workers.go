package common

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// WorkerQueueSize is the task queue depth of pools created by NewWorkerPool.
const WorkerQueueSize = 256

// DefaultWorkerCount leaves one CPU for the render and window goroutines.
func DefaultWorkerCount() int {
	return max(runtime.NumCPU()-1, 1)
}

// NewWorkerPool creates the CPU worker pool shared by the density generator and the
// surface extractor. Workers are started immediately and reused across frames.
//
// Parameters:
//   - workers: the number of workers, or 0 for DefaultWorkerCount
//
// Returns:
//   - worker.DynamicWorkerPool: the running pool
func NewWorkerPool(workers int) worker.DynamicWorkerPool {
	if workers <= 0 {
		workers = DefaultWorkerCount()
	}
	return worker.NewDynamicWorkerPool(workers, WorkerQueueSize, time.Second)
}
