package renderer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSurfaceLost means the surface has to be reconfigured before the next acquisition.
	// BeginFrame reconfigures and retries once, so a returned ErrSurfaceLost is final.
	ErrSurfaceLost = errors.New("surface lost")

	// ErrSurfaceOutdated means the surface no longer matches the window. The frame is skipped.
	ErrSurfaceOutdated = errors.New("surface outdated")

	// ErrSurfaceTimeout means no swapchain image became available in time. The frame is skipped.
	ErrSurfaceTimeout = errors.New("surface acquisition timed out")

	// ErrOutOfMemory means the device ran out of memory.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrFrameInProgress is returned by BeginFrame while the previous frame still holds the surface.
	ErrFrameInProgress = errors.New("previous frame surface not yet presented")

	// ErrNoFrame is returned by frame operations called outside BeginFrame/Present.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrPipelineNotFound is returned when a pipeline key was never registered.
	ErrPipelineNotFound = errors.New("pipeline not found")
)

// IsFatal reports whether an error from a frame operation should stop the application.
// Lost surfaces are fatal because BeginFrame has already retried after reconfiguring.
// Outdated and timed out surfaces only skip the frame.
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory) || errors.Is(err, ErrSurfaceLost)
}

// classifySurfaceError maps a surface acquisition failure onto the error taxonomy. The wgpu
// bindings report the acquisition status as text, so the mapping matches on the message.
// Unrecognised failures are treated as outdated, which skips one frame.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %w", ErrSurfaceLost, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return fmt.Errorf("%w: %w", ErrSurfaceTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrSurfaceOutdated, err)
	}
}

// classifyDeviceError tags allocation failures as ErrOutOfMemory and passes others through.
func classifyDeviceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "out of memory") || strings.Contains(msg, "outofmemory") {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return err
}
