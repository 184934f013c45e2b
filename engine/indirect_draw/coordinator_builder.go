package indirect_draw

import "github.com/Carmen-Shannon/isoflow/engine/renderer/bind_group_provider"

// CoordinatorBuilderOption is a functional option applied to a coordinator during construction via NewCoordinator.
type CoordinatorBuilderOption func(*coordinator)

// WithProvider attaches the bind group provider that owns the GPU arguments buffer.
//
// Parameters:
//   - provider: the provider holding the buffer
//   - binding: the binding index of the buffer within the provider's group
//
// Returns:
//   - CoordinatorBuilderOption: a function that applies the provider option to a coordinator
func WithProvider(provider bind_group_provider.BindGroupProvider, binding int) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.provider = provider
		c.binding = binding
	}
}
