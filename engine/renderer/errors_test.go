package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySurfaceError(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"failed to get current texture: Lost", ErrSurfaceLost},
		{"surface status Timeout", ErrSurfaceTimeout},
		{"acquire timed out after 1s", ErrSurfaceTimeout},
		{"device OutOfMemory", ErrOutOfMemory},
		{"Outdated", ErrSurfaceOutdated},
		{"something unexpected", ErrSurfaceOutdated},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			raw := errors.New(tt.msg)
			err := classifySurfaceError(raw)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, raw)
		})
	}
	assert.NoError(t, classifySurfaceError(nil))
}

func TestClassifyDeviceError(t *testing.T) {
	raw := errors.New("buffer allocation: out of memory")
	assert.ErrorIs(t, classifyDeviceError(raw), ErrOutOfMemory)

	other := errors.New("validation error")
	assert.Same(t, other, classifyDeviceError(other))
	assert.NoError(t, classifyDeviceError(nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrOutOfMemory))
	assert.True(t, IsFatal(fmt.Errorf("frame 3: %w", ErrSurfaceLost)))
	assert.False(t, IsFatal(ErrSurfaceOutdated))
	assert.False(t, IsFatal(ErrSurfaceTimeout))
	assert.False(t, IsFatal(ErrPipelineNotFound))
	assert.False(t, IsFatal(nil))
}
