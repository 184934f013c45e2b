// Package profiler reports frame throughput and memory statistics to the log.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting interval's worth of measurements.
type Stats struct {
	FPS           float64
	ChunksPerSec  float64
	SkippedFrames int
	HeapMB        float64
	AllocRateMB   float64
	GCCount       uint32
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks presented frames, skipped frames and rendered chunks, and logs them with
// memory statistics once per update interval.
type Profiler struct {
	frameCount     int
	skippedCount   int
	chunkCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// NewProfiler creates a Profiler reporting once per second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
	}
}

// SetUpdateInterval changes how often Tick reports.
func (p *Profiler) SetUpdateInterval(d time.Duration) {
	p.updateInterval = d
}

// Skipped records a frame that was dropped because the surface was outdated or timed out.
func (p *Profiler) Skipped() {
	p.skippedCount++
}

// Tick records one presented frame that rendered the given number of chunks. When the update
// interval has elapsed it logs the statistics and starts a new interval.
//
// Parameters:
//   - chunks: the chunks rendered in this frame
//
// Returns:
//   - Stats: the interval's statistics when reported, the zero value otherwise
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick(chunks int) (Stats, bool) {
	p.frameCount++
	p.chunkCount += chunks
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	seconds := elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:           float64(p.frameCount) / seconds,
		ChunksPerSec:  float64(p.chunkCount) / seconds,
		SkippedFrames: p.skippedCount,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		GCCount:       p.memStats.NumGC,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	startIdx := p.lastGCCount
	if s.GCCount-startIdx > 256 {
		startIdx = s.GCCount - 256
	}
	for i := startIdx; i < s.GCCount; i++ {
		s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	log.Printf("[Profiler] FPS: %.2f | Chunks/s: %.0f | Skipped: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs) | Sys: %.2f MB",
		s.FPS, s.ChunksPerSec, s.SkippedFrames, s.HeapMB, s.AllocRateMB, s.GCCount, s.MaxPauseUs, s.SysMB)

	p.frameCount = 0
	p.chunkCount = 0
	p.skippedCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s, true
}
