package chunk

import (
	"errors"
	"fmt"
	"slices"
)

// State is a step of the per-frame state machine.
type State int

const (
	StateIdle State = iota
	StateReset
	StateGenerate
	StateExtract
	StateRender
	StatePresented
)

var stateNames = [...]string{"idle", "reset", "generate", "extract", "render", "presented"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ErrInvalidTransition is returned when a step is attempted out of order.
var ErrInvalidTransition = errors.New("invalid chunk state transition")

// transitions lists the legal successors of each state. A frame with no chunks goes
// straight from idle to presented. Abandoning a frame returns to idle from anywhere and is
// not listed.
var transitions = map[State][]State{
	StateIdle:      {StateReset, StatePresented},
	StateReset:     {StateGenerate},
	StateGenerate:  {StateExtract},
	StateExtract:   {StateRender},
	StateRender:    {StateReset, StatePresented},
	StatePresented: {StateIdle},
}

// CanTransition reports whether to may follow from.
func CanTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}
