// Command isoflow renders an animated iso-surface extracted on the GPU, chunk by chunk,
// in a window.
//
// Keys: Space pauses the animation, R rewinds it, P toggles profiler output and Escape
// quits. The mouse wheel zooms the orbiting camera. When started with -config the file is
// watched and edits to live settings apply without a restart.
package main

import (
	"flag"
	"log"

	"github.com/Carmen-Shannon/isoflow/engine"
	"github.com/Carmen-Shannon/isoflow/engine/camera"
	"github.com/Carmen-Shannon/isoflow/engine/chunk"
	"github.com/Carmen-Shannon/isoflow/engine/clock"
	"github.com/Carmen-Shannon/isoflow/engine/config"
	"github.com/Carmen-Shannon/isoflow/engine/renderer"
	"github.com/Carmen-Shannon/isoflow/engine/window"
)

func main() {
	configPath := flag.String("config", "", "configuration file (.toml, .yaml or .yml)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("[Main] %v", err)
		}
	}

	layout, err := chunk.LayoutFromConfig(cfg.Surface)
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}
	settings, err := chunk.SettingsFromConfig(cfg.Surface)
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	presentMode := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)
	defer r.Release()

	// ── Camera + Clock ──────────────────────────────────────────────
	lo, hi := layout.Bounds(settings.VoxelSize)
	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width())/float32(max(win.Height(), 1))),
		camera.WithController(camera.NewCameraController(
			camera.WithTarget(lo.Add(hi).Mul(0.5)),
			camera.WithRadius(cfg.Animation.OrbitRadius),
		)),
	)
	clk := clock.NewClock(
		clock.WithTimeScale(cfg.Animation.TimeScale),
		clock.WithPaused(cfg.Animation.Paused),
	)

	// ── Chunk pipeline ──────────────────────────────────────────────
	backend, err := chunk.NewGPUBackend(r, cam, layout, settings)
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}
	defer backend.Release()

	orchestrator := chunk.NewOrchestrator(layout, backend)
	log.Printf("[Main] %d chunks of %d cells, %s field, voxel size %g, volume %v to %v",
		layout.Count(), layout.Cells, settings.Params.Kind, settings.VoxelSize, lo, hi)

	eng := engine.NewEngine(orchestrator,
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(cam),
		engine.WithClock(clk),
		engine.WithSettingsSetter(backend),
		engine.WithConfig(cfg),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
	)

	if *configPath != "" {
		if err := eng.WatchConfig(*configPath); err != nil {
			log.Printf("[Main] config hot reload disabled: %v", err)
		}
	}

	eng.Run()

	if err := eng.Err(); err != nil {
		log.Fatalf("[Main] stopped: %v", err)
	}
}
