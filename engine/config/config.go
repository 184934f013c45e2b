// Package config holds the application configuration and its file formats.
//
// A Config is read from TOML or YAML (chosen by file extension), filled with defaults for
// anything left unset, and validated against the GPU limits the renderer relies on.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/isoflow/engine/extractor"
	"github.com/Carmen-Shannon/isoflow/engine/lookup_tables"
)

const (
	// maxStorageBindingBytes is the WebGPU default maxStorageBufferBindingSize.
	maxStorageBindingBytes = 128 << 20

	// maxDispatchPerDimension is the WebGPU default maxComputeWorkgroupsPerDimension.
	maxDispatchPerDimension = 65535
)

// FieldKinds lists the accepted values of SurfaceConfig.Field.
var FieldKinds = []string{"cloud", "sphere", "terrain"}

// Config is the full application configuration.
type Config struct {
	Window    WindowConfig    `toml:"window" yaml:"window"`
	Renderer  RendererConfig  `toml:"renderer" yaml:"renderer"`
	Surface   SurfaceConfig   `toml:"surface" yaml:"surface"`
	Animation AnimationConfig `toml:"animation" yaml:"animation"`
	Engine    EngineConfig    `toml:"engine" yaml:"engine"`
}

// WindowConfig configures the native window.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// RendererConfig configures the GPU renderer.
type RendererConfig struct {
	VSync         bool   `toml:"vsync" yaml:"vsync"`
	MSAA          uint32 `toml:"msaa" yaml:"msaa"`
	ForceSoftware bool   `toml:"force_software" yaml:"force_software"`
}

// SurfaceConfig describes the voxel volume and the density function sampled over it.
type SurfaceConfig struct {
	// CellsPerChunk is D, the number of cells along each axis of a chunk.
	CellsPerChunk int `toml:"cells_per_chunk" yaml:"cells_per_chunk"`

	// ChunkGrid is the number of chunks along x, y and z.
	ChunkGrid [3]int `toml:"chunk_grid" yaml:"chunk_grid"`

	VoxelSize float32 `toml:"voxel_size" yaml:"voxel_size"`
	IsoLevel  float32 `toml:"iso_level" yaml:"iso_level"`

	// Field is one of FieldKinds.
	Field            string  `toml:"field" yaml:"field"`
	Radius           float32 `toml:"radius" yaml:"radius"`
	TerrainAmplitude float32 `toml:"terrain_amplitude" yaml:"terrain_amplitude"`
	TerrainFrequency float32 `toml:"terrain_frequency" yaml:"terrain_frequency"`
}

// AnimationConfig drives the animation clock and the orbiting camera.
type AnimationConfig struct {
	TimeScale   float32 `toml:"time_scale" yaml:"time_scale"`
	Paused      bool    `toml:"paused" yaml:"paused"`
	OrbitRadius float32 `toml:"orbit_radius" yaml:"orbit_radius"`
}

// EngineConfig configures the engine loops and CPU workers.
type EngineConfig struct {
	TickRate   float64 `toml:"tick_rate" yaml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
	Profiling  bool    `toml:"profiling" yaml:"profiling"`

	// Workers sizes the CPU worker pool. Zero picks one less than the CPU count.
	Workers int `toml:"workers" yaml:"workers"`
}

// Default returns the configuration used when no file is given: a 2x2x2 grid of 50-cell
// chunks holding an animated cloud, viewed in an 800x800 window.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "silky clouds",
			Width:  800,
			Height: 800,
		},
		Renderer: RendererConfig{
			VSync: true,
			MSAA:  4,
		},
		Surface: SurfaceConfig{
			CellsPerChunk:    50,
			ChunkGrid:        [3]int{2, 2, 2},
			VoxelSize:        0.06,
			IsoLevel:         0,
			Field:            "cloud",
			Radius:           2.2,
			TerrainAmplitude: 0.6,
			TerrainFrequency: 1.5,
		},
		Animation: AnimationConfig{
			TimeScale:   1,
			OrbitRadius: 1,
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
	}
}

// ChunkCount is the total number of chunks in the grid.
func (c *Config) ChunkCount() int {
	return c.Surface.ChunkGrid[0] * c.Surface.ChunkGrid[1] * c.Surface.ChunkGrid[2]
}

// VertexCapacity is the number of vertices the shared output buffer must hold: every cell
// of one chunk emitting its worst case.
func (c *Config) VertexCapacity() uint64 {
	d := uint64(c.Surface.CellsPerChunk)
	return d * d * d * lookup_tables.MaxVerticesPerCell
}

// VertexBufferBytes is the byte size of the shared output vertex buffer.
func (c *Config) VertexBufferBytes() uint64 {
	return c.VertexCapacity() * extractor.VertexSize
}

// Validate reports every problem with the configuration at once.
//
// Returns:
//   - error: nil when valid, otherwise the joined list of problems
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if !slices.Contains([]uint32{1, 4, 8, 16}, c.Renderer.MSAA) {
		errs = append(errs, fmt.Errorf("msaa %d must be one of 1, 4, 8, 16", c.Renderer.MSAA))
	}

	s := c.Surface
	if s.CellsPerChunk <= 0 {
		errs = append(errs, fmt.Errorf("cells_per_chunk %d must be positive", s.CellsPerChunk))
	} else {
		if c.VertexBufferBytes() > maxStorageBindingBytes {
			errs = append(errs, fmt.Errorf("cells_per_chunk %d needs a %d byte vertex buffer, above the %d byte storage binding limit",
				s.CellsPerChunk, c.VertexBufferBytes(), maxStorageBindingBytes))
		}
		if s.CellsPerChunk+1 > maxDispatchPerDimension {
			errs = append(errs, fmt.Errorf("cells_per_chunk %d exceeds the dispatch limit", s.CellsPerChunk))
		}
	}
	for i, n := range s.ChunkGrid {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("chunk_grid[%d] = %d must be positive", i, n))
		}
	}
	if s.VoxelSize <= 0 {
		errs = append(errs, fmt.Errorf("voxel_size %g must be positive", s.VoxelSize))
	}
	if !slices.Contains(FieldKinds, s.Field) {
		errs = append(errs, fmt.Errorf("field %q must be one of %v", s.Field, FieldKinds))
	}
	if s.Field == "sphere" || s.Field == "cloud" {
		if s.Radius <= 0 {
			errs = append(errs, fmt.Errorf("radius %g must be positive for field %q", s.Radius, s.Field))
		}
	}

	if c.Animation.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("time_scale %g must not be negative", c.Animation.TimeScale))
	}
	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", c.Engine.Workers))
	}

	return errors.Join(errs...)
}
