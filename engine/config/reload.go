package config

// RestartFields lists the keys that differ between c and next but only take effect on
// restart: anything that sizes GPU buffers or places chunks, the window or the device.
//
// Parameters:
//   - next: the newly loaded configuration
//
// Returns:
//   - []string: the changed restart-only keys, empty when next can be applied live
func (c *Config) RestartFields(next *Config) []string {
	var fields []string
	if c.Surface.CellsPerChunk != next.Surface.CellsPerChunk {
		fields = append(fields, "surface.cells_per_chunk")
	}
	if c.Surface.ChunkGrid != next.Surface.ChunkGrid {
		fields = append(fields, "surface.chunk_grid")
	}
	if c.Surface.VoxelSize != next.Surface.VoxelSize {
		fields = append(fields, "surface.voxel_size")
	}
	if c.Window != next.Window {
		fields = append(fields, "window")
	}
	if c.Renderer != next.Renderer {
		fields = append(fields, "renderer")
	}
	if c.Engine.Workers != next.Engine.Workers {
		fields = append(fields, "engine.workers")
	}
	return fields
}

// ApplyLive copies the keys that can change while running from next into c. The volume
// dimensions, voxel size, window, renderer and worker count are left untouched.
//
// Parameters:
//   - next: the newly loaded configuration
func (c *Config) ApplyLive(next *Config) {
	dims, grid, voxel := c.Surface.CellsPerChunk, c.Surface.ChunkGrid, c.Surface.VoxelSize
	c.Surface = next.Surface
	c.Surface.CellsPerChunk, c.Surface.ChunkGrid, c.Surface.VoxelSize = dims, grid, voxel
	c.Animation = next.Animation
	c.Engine.TickRate = next.Engine.TickRate
	c.Engine.FrameLimit = next.Engine.FrameLimit
	c.Engine.Profiling = next.Engine.Profiling
}
