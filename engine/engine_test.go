package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/isoflow/common"
	"github.com/Carmen-Shannon/isoflow/engine/camera"
	"github.com/Carmen-Shannon/isoflow/engine/chunk"
	"github.com/Carmen-Shannon/isoflow/engine/config"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	mu     sync.Mutex
	times  []float32
	errs   []error
	frames uint64
}

func (f *fakeOrchestrator) RunFrame(t float32) (chunk.FrameStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times = append(f.times, t)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return chunk.FrameStats{Time: t}, err
		}
	}
	f.frames++
	return chunk.FrameStats{Time: t, Chunks: 8}, nil
}
func (f *fakeOrchestrator) State() chunk.State   { return chunk.StateIdle }
func (f *fakeOrchestrator) Layout() chunk.Layout { return chunk.Layout{} }
func (f *fakeOrchestrator) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

type fakeWindow struct {
	width, height int
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	closeRequests int
}

func (w *fakeWindow) SetUpdateCallback(func())                        {}
func (w *fakeWindow) SetResizeCallback(cb func(width, height int))    { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32))        { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))      { w.onKeyDown = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor      { return nil }
func (w *fakeWindow) IsRunning() bool                                 { return true }
func (w *fakeWindow) RequestClose()                                   { w.closeRequests++ }
func (w *fakeWindow) Close() error                                    { return nil }
func (w *fakeWindow) ProcessMessages()                                {}
func (w *fakeWindow) Width() int                                      { return w.width }
func (w *fakeWindow) Height() int                                     { return w.height }

type recordingSetter struct {
	got []chunk.Settings
}

func (r *recordingSetter) SetSettings(s chunk.Settings) { r.got = append(r.got, s) }

func TestRenderFrameUsesClockTime(t *testing.T) {
	orch := &fakeOrchestrator{}
	e := NewEngine(orch)
	e.Clock().Set(3.25)

	var got []chunk.FrameStats
	e.SetRenderCallback(func(s chunk.FrameStats) { got = append(got, s) })

	require.NoError(t, e.RenderFrame())
	assert.Equal(t, []float32{3.25}, orch.times)
	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].Chunks)
}

func TestRenderFrameSkipsTransientErrors(t *testing.T) {
	for _, err := range []error{renderer.ErrSurfaceOutdated, renderer.ErrSurfaceTimeout, fmt.Errorf("begin frame: %w", renderer.ErrSurfaceTimeout)} {
		orch := &fakeOrchestrator{errs: []error{err}}
		e := NewEngine(orch)
		called := false
		e.SetRenderCallback(func(chunk.FrameStats) { called = true })

		assert.NoError(t, e.RenderFrame(), err.Error())
		assert.False(t, called)
		assert.NoError(t, e.RenderFrame())
		assert.True(t, called)
	}
}

func TestRenderFrameReturnsFatalErrors(t *testing.T) {
	for _, err := range []error{renderer.ErrOutOfMemory, renderer.ErrSurfaceLost} {
		e := NewEngine(&fakeOrchestrator{errs: []error{fmt.Errorf("chunk 0 render: %w", err)}})
		assert.ErrorIs(t, e.RenderFrame(), err)
	}
}

func TestRunStopsOnFatalError(t *testing.T) {
	orch := &fakeOrchestrator{errs: []error{nil, renderer.ErrSurfaceTimeout, renderer.ErrOutOfMemory}}
	e := NewEngine(orch, WithTickRate(1000))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after a fatal error")
	}
	assert.ErrorIs(t, e.Err(), renderer.ErrOutOfMemory)
	assert.Equal(t, uint64(1), orch.Frames())
}

func TestQuitStopsHeadlessRun(t *testing.T) {
	orch := &fakeOrchestrator{}
	e := NewEngine(orch, WithRenderFrameLimit(500))
	e.SetRenderCallback(func(s chunk.FrameStats) {
		if orch.Frames() >= 3 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after Quit")
	}
	assert.NoError(t, e.Err())
	assert.GreaterOrEqual(t, orch.Frames(), uint64(3))
	e.Quit()
}

func TestResizeAppliedBetweenFrames(t *testing.T) {
	w := &fakeWindow{width: 400, height: 200}
	cam := camera.NewCamera()
	e := NewEngine(&fakeOrchestrator{}, WithWindow(w), WithCamera(cam))

	require.NoError(t, e.RenderFrame())
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	w.onResize(300, 300)
	w.onResize(0, 300)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
	require.NoError(t, e.RenderFrame())
	assert.InDelta(t, 1.0, cam.Aspect(), 1e-6)
}

func TestKeyBindings(t *testing.T) {
	w := &fakeWindow{width: 100, height: 100}
	e := NewEngine(&fakeOrchestrator{}, WithWindow(w)).(*engine)

	w.onKeyDown(common.KeySpace)
	assert.True(t, e.Clock().Paused())
	w.onKeyDown(common.KeySpace)
	assert.False(t, e.Clock().Paused())

	e.Clock().Set(12)
	w.onKeyDown(common.KeyR)
	assert.Zero(t, e.Clock().Now())

	w.onKeyDown(common.KeyP)
	assert.True(t, e.profilingEnabled.Load())
	w.onKeyDown(common.KeyP)
	assert.False(t, e.profilingEnabled.Load())
}

func TestScrollZoomsCamera(t *testing.T) {
	w := &fakeWindow{width: 100, height: 100}
	cam := camera.NewCamera()
	NewEngine(&fakeOrchestrator{}, WithWindow(w), WithCamera(cam))

	before := cam.Controller().Radius()
	w.onScroll(2)
	assert.Less(t, cam.Controller().Radius(), before)
}

func TestApplyConfig(t *testing.T) {
	setter := &recordingSetter{}
	cam := camera.NewCamera()
	e := NewEngine(&fakeOrchestrator{}, WithSettingsSetter(setter), WithCamera(cam)).(*engine)

	c := config.Default()
	c.Surface.Field = "sphere"
	c.Surface.Radius = 1.5
	c.Surface.IsoLevel = 0.25
	c.Animation.TimeScale = 2
	c.Animation.Paused = true
	c.Animation.OrbitRadius = 1.5
	c.Engine.Profiling = true
	c.Engine.FrameLimit = 50
	e.ApplyConfig(c)

	require.Len(t, setter.got, 1)
	assert.Equal(t, density.FieldSphere, setter.got[0].Params.Kind)
	assert.Equal(t, float32(1.5), setter.got[0].Params.Radius)
	assert.Equal(t, float32(0.25), setter.got[0].IsoLevel)
	assert.Equal(t, float32(2), e.Clock().TimeScale())
	assert.True(t, e.Clock().Paused())
	assert.Equal(t, float32(1.5), cam.Controller().Radius())
	assert.True(t, e.profilingEnabled.Load())
	assert.Equal(t, int64(20*time.Millisecond), e.renderFrameLimit.Load())
}

func TestReloadKeepsRestartOnlyFields(t *testing.T) {
	setter := &recordingSetter{}
	current := config.Default()
	e := NewEngine(&fakeOrchestrator{}, WithSettingsSetter(setter), WithConfig(current)).(*engine)

	next := config.Default()
	next.Surface.CellsPerChunk = 10
	next.Surface.VoxelSize = 0.5
	next.Surface.IsoLevel = -0.1
	e.reloadConfig(next)

	require.Len(t, setter.got, 1)
	assert.Equal(t, float32(-0.1), setter.got[0].IsoLevel)
	assert.Equal(t, float32(0.06), setter.got[0].VoxelSize)
	assert.Equal(t, float32(0.06), e.config.Surface.VoxelSize)
	assert.Equal(t, 50, e.config.Surface.CellsPerChunk)
	assert.Equal(t, 50, current.Surface.CellsPerChunk)
}
