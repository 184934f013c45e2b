package clock

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*clock)

// WithTimeScale sets the initial time scale.
func WithTimeScale(scale float32) ClockBuilderOption {
	return func(c *clock) {
		c.timeScale = float64(scale)
	}
}

// WithPaused starts the clock paused.
func WithPaused(paused bool) ClockBuilderOption {
	return func(c *clock) {
		c.paused = paused
	}
}

// WithStart sets the initial animation time.
func WithStart(t float32) ClockBuilderOption {
	return func(c *clock) {
		c.elapsed = float64(t)
	}
}
