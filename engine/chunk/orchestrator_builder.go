package chunk

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator.
type OrchestratorBuilderOption func(*orchestrator)

// WithTransitionHook registers a function called on every state change, before the new
// state's stage runs. The chunk is the one being processed, or ID -1 outside the loop.
//
// Parameters:
//   - hook: receives the previous state, the next state and the chunk
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithTransitionHook(hook func(from, to State, c Chunk)) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.onTransition = hook
	}
}
