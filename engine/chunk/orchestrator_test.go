package chunk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend logs every stage call and can fail one of them.
type recordingBackend struct {
	calls  []string
	failAt string
	err    error
	count  uint32
}

func (r *recordingBackend) do(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failAt {
		return r.err
	}
	return nil
}

func (r *recordingBackend) BeginFrame(t float32) error { return r.do(fmt.Sprintf("begin %g", t)) }
func (r *recordingBackend) Reset(c Chunk) error        { return r.do(fmt.Sprintf("reset %d", c.ID)) }
func (r *recordingBackend) Generate(c Chunk, t float32) error {
	return r.do(fmt.Sprintf("generate %d %g", c.ID, t))
}
func (r *recordingBackend) Extract(c Chunk) error { return r.do(fmt.Sprintf("extract %d", c.ID)) }
func (r *recordingBackend) Render(c Chunk, first bool) error {
	if first {
		return r.do(fmt.Sprintf("render %d clear", c.ID))
	}
	return r.do(fmt.Sprintf("render %d load", c.ID))
}
func (r *recordingBackend) Present() error { return r.do("present") }
func (r *recordingBackend) Abandon()       { r.calls = append(r.calls, "abandon") }

// countingBackend adds VertexCounter.
type countingBackend struct {
	recordingBackend
}

func (c *countingBackend) VertexCount() uint32 { return c.count }

func twoChunkLayout(t *testing.T) Layout {
	l, err := NewLayout(4, [3]int{2, 1, 1})
	require.NoError(t, err)
	return l
}

func TestRunFrameOrder(t *testing.T) {
	backend := &recordingBackend{}
	o := NewOrchestrator(twoChunkLayout(t), backend)

	stats, err := o.RunFrame(1.5)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"begin 1.5",
		"reset 0", "generate 0 1.5", "extract 0", "render 0 clear",
		"reset 1", "generate 1 1.5", "extract 1", "render 1 load",
		"present",
	}, backend.calls)
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, float32(1.5), stats.Time)
	assert.Zero(t, stats.Vertices)
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, uint64(1), o.Frames())
}

func TestOnlyFirstChunkOfEachFrameClears(t *testing.T) {
	backend := &recordingBackend{}
	l, err := NewLayout(2, [3]int{2, 2, 1})
	require.NoError(t, err)
	o := NewOrchestrator(l, backend)

	for range 2 {
		_, err := o.RunFrame(0)
		require.NoError(t, err)
	}

	var clears, loads int
	for _, c := range backend.calls {
		switch c {
		case "render 0 clear":
			clears++
		case "render 1 load", "render 2 load", "render 3 load":
			loads++
		}
	}
	assert.Equal(t, 2, clears)
	assert.Equal(t, 6, loads)
	assert.Equal(t, uint64(2), o.Frames())
}

func TestTransitionHookSeesEveryState(t *testing.T) {
	var seen []string
	o := NewOrchestrator(twoChunkLayout(t), &recordingBackend{}, WithTransitionHook(func(from, to State, c Chunk) {
		seen = append(seen, fmt.Sprintf("%s>%s@%d", from, to, c.ID))
	}))

	_, err := o.RunFrame(0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"idle>reset@0", "reset>generate@0", "generate>extract@0", "extract>render@0",
		"render>reset@1", "reset>generate@1", "generate>extract@1", "extract>render@1",
		"render>presented@-1", "presented>idle@-1",
	}, seen)
}

func TestStageFailureAbandonsFrame(t *testing.T) {
	boom := errors.New("boom")
	backend := &recordingBackend{failAt: "extract 1", err: boom}
	o := NewOrchestrator(twoChunkLayout(t), backend)

	stats, err := o.RunFrame(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "chunk 1 (1,0,0) extract")
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, "abandon", backend.calls[len(backend.calls)-1])
	assert.NotContains(t, backend.calls, "render 1 load")
	assert.NotContains(t, backend.calls, "present")
	assert.Equal(t, StateIdle, o.State())
	assert.Zero(t, o.Frames())

	backend.failAt = ""
	backend.calls = nil
	_, err = o.RunFrame(3)
	require.NoError(t, err)
	assert.Equal(t, "present", backend.calls[len(backend.calls)-1])
	assert.Equal(t, uint64(1), o.Frames())
}

func TestBeginAndPresentFailures(t *testing.T) {
	boom := errors.New("acquire")
	backend := &recordingBackend{failAt: "begin 0", err: boom}
	o := NewOrchestrator(twoChunkLayout(t), backend)

	_, err := o.RunFrame(0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"begin 0", "abandon"}, backend.calls)

	backend.calls = nil
	backend.failAt = "present"
	_, err = o.RunFrame(1)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "present")
	assert.Equal(t, StateIdle, o.State())
	assert.Zero(t, o.Frames())
}

func TestRunFrameRejectsNonIdleStart(t *testing.T) {
	backend := &recordingBackend{}
	o := NewOrchestrator(twoChunkLayout(t), backend).(*orchestrator)
	o.state = StateExtract

	_, err := o.RunFrame(0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, []string{"abandon"}, backend.calls)
	assert.Equal(t, StateIdle, o.State())
}

func TestEnterRejectsSkippedStage(t *testing.T) {
	o := NewOrchestrator(twoChunkLayout(t), &recordingBackend{}).(*orchestrator)

	err := o.enter(StateExtract, Chunk{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateIdle, o.state)
}

func TestVerticesSummedForCountingBackend(t *testing.T) {
	backend := &countingBackend{}
	backend.count = 12
	o := NewOrchestrator(twoChunkLayout(t), backend)

	stats, err := o.RunFrame(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(24), stats.Vertices)
}
