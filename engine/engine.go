// Package engine runs the animation clock, the chunk pipeline and the window together.
package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/camera"
	"github.com/Carmen-Shannon/isoflow/engine/chunk"
	"github.com/Carmen-Shannon/isoflow/engine/clock"
	"github.com/Carmen-Shannon/isoflow/engine/config"
	"github.com/Carmen-Shannon/isoflow/engine/profiler"
	"github.com/Carmen-Shannon/isoflow/engine/renderer"
	"github.com/Carmen-Shannon/isoflow/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window       window.Window
	renderer     renderer.Renderer
	camera       camera.Camera
	clock        clock.Clock
	orchestrator chunk.Orchestrator
	settings     chunk.SettingsSetter

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(stats chunk.FrameStats)
	renderFrameLimit atomic.Int64

	// pendingResize holds the latest framebuffer size until the render goroutine applies
	// it between frames.
	pendingResize atomic.Pointer[[2]int]

	config  *config.Config
	watcher *config.Watcher

	err error
}

// Engine drives the chunk orchestrator once per render frame at the animation clock's time.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() window.Window

	Clock() clock.Clock
	Camera() camera.Camera
	Orchestrator() chunk.Orchestrator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second. Each tick advances the
	// animation clock.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after each tick has advanced the clock.
	//
	// Parameters:
	//   - callback: function receiving the wall-clock delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after each presented frame.
	SetRenderCallback(callback func(stats chunk.FrameStats))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// ApplyConfig applies the live fields of a configuration: surface parameters, time
	// scale, pause, orbit radius, tick rate, frame limit and profiling.
	ApplyConfig(c *config.Config)

	// WatchConfig reloads path whenever it changes and applies the live fields of each
	// valid result. Changes to restart-only fields are logged and ignored.
	//
	// Parameters:
	//   - path: the configuration file the current settings were loaded from
	//
	// Returns:
	//   - error: an error if the file could not be watched
	WatchConfig(path string) error

	// RenderFrame applies any pending resize and runs one frame. Transient failures are
	// logged and skipped.
	//
	// Returns:
	//   - error: the failure when it is fatal, nil otherwise
	RenderFrame() error

	// Run starts the tick and render goroutines and blocks until the window closes or Quit
	// is called. A headless engine blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()

	// Err returns the fatal error that stopped the engine, if any.
	Err() error
}

var _ Engine = &engine{}

// NewEngine creates an Engine around an orchestrator.
//
// Parameters:
//   - orchestrator: the chunk pipeline to run each frame
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(orchestrator chunk.Orchestrator, options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		orchestrator:    orchestrator,
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.clock == nil {
		e.clock = clock.NewClock()
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
		e.window.SetKeyDownCallback(e.handleKeyDown)
		e.window.SetScrollCallback(e.handleScroll)
		e.handleResize(e.window.Width(), e.window.Height())
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Clock() clock.Clock {
	return e.clock
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Orchestrator() chunk.Orchestrator {
	return e.orchestrator
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.running.Store(false)

	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()
	if w != nil {
		w.Close()
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// signalQuit closes the quit channel and asks the window to close.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop that advances the animation clock.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.clock.Advance(dt)
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs frames back to back, or at the frame limit, until quit. A fatal frame
// error or a panic stops the engine.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		start := time.Now()
		if err := e.RenderFrame(); err != nil {
			e.mu.Lock()
			e.err = err
			e.mu.Unlock()
			e.signalQuit()
			return
		}

		if limit := time.Duration(e.renderFrameLimit.Load()); limit > 0 {
			if remaining := limit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (e *engine) RenderFrame() error {
	e.applyResize()

	stats, err := e.orchestrator.RunFrame(e.clock.Now())
	if err != nil {
		if renderer.IsFatal(err) {
			log.Printf("[Engine] fatal frame error: %v", err)
			return err
		}
		log.Printf("[Engine] frame skipped: %v", err)
		e.profiler.Skipped()
		return nil
	}

	if e.profilingEnabled.Load() {
		e.profiler.Tick(stats.Chunks)
	}
	if e.renderCallback != nil {
		e.renderCallback(stats)
	}
	return nil
}

// handleResize records the new framebuffer size for the render goroutine.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.pendingResize.Store(&[2]int{width, height})
}

func (e *engine) applyResize() {
	size := e.pendingResize.Swap(nil)
	if size == nil {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(size[0], size[1])
	}
	e.camera.SetAspect(float32(size[0]) / float32(size[1]))
}

func (e *engine) handleKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeySpace:
		if e.clock.TogglePause() {
			log.Printf("[Engine] paused at t=%.2f", e.clock.Now())
		} else {
			log.Printf("[Engine] resumed")
		}
	case common.KeyR:
		e.clock.Set(0)
	case common.KeyP:
		if e.profilingEnabled.Load() {
			e.DisableProfiler()
		} else {
			e.EnableProfiler()
		}
	}
}

func (e *engine) handleScroll(delta float32) {
	e.camera.Controller().Zoom(delta)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Replace any update the tick loop has not picked up yet.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(stats chunk.FrameStats)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit.Store(int64(frameDuration(fps)))
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) ApplyConfig(c *config.Config) {
	e.mu.Lock()
	e.config = c
	e.mu.Unlock()

	if e.settings != nil {
		s, err := chunk.SettingsFromConfig(c.Surface)
		if err != nil {
			log.Printf("[Engine] surface settings not applied: %v", err)
		} else {
			e.settings.SetSettings(s)
		}
	}
	e.clock.SetTimeScale(c.Animation.TimeScale)
	e.clock.SetPaused(c.Animation.Paused)
	if c.Animation.OrbitRadius > 0 {
		e.camera.Controller().SetRadius(c.Animation.OrbitRadius)
	}
	e.SetTickRate(c.Engine.TickRate)
	e.SetRenderFrameLimit(c.Engine.FrameLimit)
	if c.Engine.Profiling {
		e.EnableProfiler()
	} else {
		e.DisableProfiler()
	}
}

func (e *engine) WatchConfig(path string) error {
	w, err := config.NewWatcher(path, e.reloadConfig)
	if err != nil {
		return err
	}
	e.mu.Lock()
	old := e.watcher
	e.watcher = w
	e.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// reloadConfig merges a reloaded file into the running configuration.
func (e *engine) reloadConfig(next *config.Config) {
	e.mu.Lock()
	current := e.config
	e.mu.Unlock()
	if current == nil {
		current = config.Default()
	}

	merged := *current
	if fields := merged.RestartFields(next); len(fields) > 0 {
		log.Printf("[Engine] restart required to apply %v", fields)
	}
	merged.ApplyLive(next)
	e.ApplyConfig(&merged)
}
