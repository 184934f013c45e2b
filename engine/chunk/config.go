package chunk

import (
	"github.com/Carmen-Shannon/isoflow/engine/config"
	"github.com/Carmen-Shannon/isoflow/engine/density"
)

// SettingsFromConfig converts the surface section of a configuration into backend settings.
//
// Parameters:
//   - s: the surface configuration
//
// Returns:
//   - Settings: the settings
//   - error: an error if the field kind is unknown
func SettingsFromConfig(s config.SurfaceConfig) (Settings, error) {
	kind, err := density.ParseFieldKind(s.Field)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Params: density.Params{
			Kind:      kind,
			Radius:    s.Radius,
			Amplitude: s.TerrainAmplitude,
			Frequency: s.TerrainFrequency,
		},
		IsoLevel:  s.IsoLevel,
		VoxelSize: s.VoxelSize,
	}, nil
}

// LayoutFromConfig builds the chunk layout of a configuration.
func LayoutFromConfig(s config.SurfaceConfig) (Layout, error) {
	return NewLayout(s.CellsPerChunk, s.ChunkGrid)
}
