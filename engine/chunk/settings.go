package chunk

import "github.com/Carmen-Shannon/isoflow/engine/density"

// Settings are the surface parameters a backend samples and extracts with. The density
// parameters and the iso level may change between frames; the voxel size is fixed once
// buffers exist.
type Settings struct {
	Params    density.Params
	IsoLevel  float32
	VoxelSize float32
}

// SettingsSetter is implemented by backends that accept new surface parameters while
// running. They take effect from the next frame.
type SettingsSetter interface {
	SetSettings(s Settings)
}
