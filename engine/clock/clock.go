// Package clock keeps the animation time. It is the only state the pipeline carries from
// one frame to the next.
package clock

import "sync"

// clock is the implementation of the Clock interface.
type clock struct {
	mu *sync.Mutex

	elapsed   float64
	timeScale float64
	paused    bool
}

// Clock accumulates scaled animation time from wall-clock deltas.
type Clock interface {
	// Advance adds dt seconds scaled by the time scale unless paused.
	//
	// Parameters:
	//   - dt: wall-clock seconds since the previous Advance
	//
	// Returns:
	//   - float32: the animation time after the advance
	Advance(dt float32) float32

	// Now returns the animation time in seconds.
	Now() float32

	// Set jumps to an absolute animation time.
	Set(t float32)

	TimeScale() float32

	// SetTimeScale changes the speed of the animation. Negative values run it backwards.
	SetTimeScale(scale float32)

	Paused() bool
	SetPaused(paused bool)

	// TogglePause flips the paused state and returns the new state.
	TogglePause() bool
}

var _ Clock = &clock{}

// NewClock creates a running Clock at time zero with a time scale of one.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Clock: the new clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clock{
		mu:        &sync.Mutex{},
		timeScale: 1,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *clock) Advance(dt float32) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused && dt > 0 {
		// Accumulated in float64 so long sessions keep sub-millisecond resolution.
		c.elapsed += float64(dt) * c.timeScale
	}
	return float32(c.elapsed)
}

func (c *clock) Now() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.elapsed)
}

func (c *clock) Set(t float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = float64(t)
}

func (c *clock) TimeScale() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.timeScale)
}

func (c *clock) SetTimeScale(scale float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeScale = float64(scale)
}

func (c *clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *clock) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

func (c *clock) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = !c.paused
	return c.paused
}
