package chunk

import (
	"fmt"
	"sync"
	"time"
)

// Backend executes the stages of a frame. Each method is called in state machine order
// and never concurrently.
type Backend interface {
	// BeginFrame prepares the render target and the per-frame inputs for time t.
	BeginFrame(t float32) error

	// Reset clears the draw arguments before the chunk's extraction.
	Reset(c Chunk) error

	// Generate fills the density lattice of the chunk at time t.
	Generate(c Chunk, t float32) error

	// Extract triangulates the chunk's lattice into the shared vertex buffer.
	Extract(c Chunk) error

	// Render draws the chunk's vertices. With first set the target is cleared, otherwise
	// colour and depth from earlier chunks are kept.
	Render(c Chunk, first bool) error

	// Present finishes the frame.
	Present() error

	// Abandon drops a frame that failed part way.
	Abandon()
}

// VertexCounter is implemented by backends that know the vertex count of the chunk they
// just extracted without a GPU readback.
type VertexCounter interface {
	VertexCount() uint32
}

// FrameStats summarises one RunFrame call.
type FrameStats struct {
	Time     float32
	Chunks   int
	Duration time.Duration

	// Vertices is the total over all chunks, filled only for VertexCounter backends.
	Vertices uint64
}

// orchestrator is the implementation of the Orchestrator interface.
type orchestrator struct {
	mu *sync.Mutex

	layout  Layout
	chunks  []Chunk
	backend Backend
	state   State
	frames  uint64

	onTransition func(from, to State, c Chunk)
}

// Orchestrator runs the chunk sequence of each frame.
type Orchestrator interface {
	// RunFrame renders every chunk at animation time t in id order and presents the result.
	// Any backend failure abandons the frame, returns the machine to idle and is returned
	// wrapped with the chunk and stage it happened in.
	//
	// Parameters:
	//   - t: animation time in seconds
	//
	// Returns:
	//   - FrameStats: what the frame did, partial when an error is returned
	//   - error: the backend failure, or nil
	RunFrame(t float32) (FrameStats, error)

	// State returns the current state. Between frames it is always StateIdle.
	State() State

	Layout() Layout

	// Frames returns how many frames were presented.
	Frames() uint64
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates an Orchestrator over a layout and a backend.
//
// Parameters:
//   - layout: the chunk grid
//   - backend: the stage executor
//   - options: functional options applied in order
//
// Returns:
//   - Orchestrator: the orchestrator, idle
func NewOrchestrator(layout Layout, backend Backend, options ...OrchestratorBuilderOption) Orchestrator {
	o := &orchestrator{
		mu:      &sync.Mutex{},
		layout:  layout,
		chunks:  layout.Chunks(),
		backend: backend,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *orchestrator) Layout() Layout {
	return o.layout
}

func (o *orchestrator) Frames() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frames
}

// enter moves to state to. Caller must hold the mutex.
func (o *orchestrator) enter(to State, c Chunk) error {
	if !CanTransition(o.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.state, to)
	}
	if o.onTransition != nil {
		o.onTransition(o.state, to, c)
	}
	o.state = to
	return nil
}

// step enters a state and runs its stage.
func (o *orchestrator) step(to State, c Chunk, run func() error) error {
	if err := o.enter(to, c); err != nil {
		return err
	}
	if err := run(); err != nil {
		return fmt.Errorf("%s %s: %w", c, to, err)
	}
	return nil
}

func (o *orchestrator) RunFrame(t float32) (FrameStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	stats := FrameStats{Time: t}
	fail := func(err error) (FrameStats, error) {
		o.backend.Abandon()
		o.state = StateIdle
		stats.Duration = time.Since(start)
		return stats, err
	}

	if o.state != StateIdle {
		return fail(fmt.Errorf("%w: frame started in state %s", ErrInvalidTransition, o.state))
	}
	if err := o.backend.BeginFrame(t); err != nil {
		return fail(fmt.Errorf("begin frame: %w", err))
	}

	counter, counts := o.backend.(VertexCounter)
	for i, c := range o.chunks {
		if err := o.step(StateReset, c, func() error { return o.backend.Reset(c) }); err != nil {
			return fail(err)
		}
		if err := o.step(StateGenerate, c, func() error { return o.backend.Generate(c, t) }); err != nil {
			return fail(err)
		}
		if err := o.step(StateExtract, c, func() error { return o.backend.Extract(c) }); err != nil {
			return fail(err)
		}
		if counts {
			stats.Vertices += uint64(counter.VertexCount())
		}
		if err := o.step(StateRender, c, func() error { return o.backend.Render(c, i == 0) }); err != nil {
			return fail(err)
		}
		stats.Chunks++
	}

	if err := o.enter(StatePresented, Chunk{ID: -1}); err != nil {
		return fail(err)
	}
	if err := o.backend.Present(); err != nil {
		return fail(fmt.Errorf("present: %w", err))
	}
	o.frames++
	if err := o.enter(StateIdle, Chunk{ID: -1}); err != nil {
		return fail(err)
	}
	stats.Duration = time.Since(start)
	return stats, nil
}
