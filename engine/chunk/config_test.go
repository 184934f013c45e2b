package chunk

import (
	"testing"

	"github.com/Carmen-Shannon/isoflow/engine/config"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromConfig(t *testing.T) {
	s, err := SettingsFromConfig(config.Default().Surface)
	require.NoError(t, err)
	assert.Equal(t, density.FieldCloud, s.Params.Kind)
	assert.Equal(t, float32(0.06), s.VoxelSize)

	surface := config.Default().Surface
	surface.Field = "terrain"
	surface.TerrainAmplitude = 2
	surface.TerrainFrequency = 0.5
	surface.IsoLevel = 0.25
	s, err = SettingsFromConfig(surface)
	require.NoError(t, err)
	assert.Equal(t, density.FieldTerrain, s.Params.Kind)
	assert.Equal(t, float32(2), s.Params.Amplitude)
	assert.Equal(t, float32(0.5), s.Params.Frequency)
	assert.Equal(t, float32(0.25), s.IsoLevel)

	bad := config.Default().Surface
	bad.Field = "torus"
	_, err = SettingsFromConfig(bad)
	assert.Error(t, err)
}

func TestLayoutFromConfig(t *testing.T) {
	l, err := LayoutFromConfig(config.Default().Surface)
	require.NoError(t, err)
	assert.Equal(t, 8, l.Count())
	assert.Equal(t, 50, l.Cells)

	bad := config.Default().Surface
	bad.CellsPerChunk = 0
	_, err = LayoutFromConfig(bad)
	assert.Error(t, err)
}
