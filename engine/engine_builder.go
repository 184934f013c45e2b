package engine

import (
	"time"

	"github.com/Carmen-Shannon/isoflow/engine/camera"
	"github.com/Carmen-Shannon/isoflow/engine/chunk"
	"github.com/Carmen-Shannon/isoflow/engine/clock"
	"github.com/Carmen-Shannon/isoflow/engine/config"
	"github.com/Carmen-Shannon/isoflow/engine/renderer"
	"github.com/Carmen-Shannon/isoflow/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow attaches the window whose input and resize events drive the engine. Without
// one the engine runs headless.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer gives the engine the renderer to resize when the framebuffer changes.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the camera that resizes and scroll zoom apply to.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithClock sets the animation clock.
func WithClock(c clock.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithSettingsSetter sets the backend that receives reloaded surface settings.
func WithSettingsSetter(s chunk.SettingsSetter) EngineBuilderOption {
	return func(e *engine) {
		e.settings = s
	}
}

// WithConfig records the configuration the engine was built from. Reloads are merged into
// it.
func WithConfig(c *config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.config = c
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit.Store(int64(frameDuration(fps)))
	}
}
