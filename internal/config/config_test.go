package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4326, cfg.Rasters.EPSG)
	assert.InDelta(t, 1.0, cfg.Rasters.Depth.Scale, 0.001)
	assert.Equal(t, "rgn_id", cfg.Zones.IDField)
	assert.Equal(t, "rgn", cfg.Zones.NameField)
	assert.Equal(t, 4326, cfg.Zones.EPSG)
	assert.Equal(t, "species.yaml", cfg.Species.Path)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, 1000, cfg.Output.MapWidth)
	assert.Equal(t, "habitat.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chtmp(t)

	yaml := `
rasters:
  epsg: 4269
  sst:
    - path: sst_jan.nc
      var: sst
      offset: -273.15
    - path: sst_feb.nc
      var: sst
      offset: -273.15
  depth:
    path: bathy.nc
    var: elevation
    scale: -1
zones:
  path: eez.shp
  id_field: eez_id
species:
  path: profiles.yaml
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4269, cfg.Rasters.EPSG)
	require.Len(t, cfg.Rasters.SST, 2)
	assert.Equal(t, "sst_jan.nc", cfg.Rasters.SST[0].Path)
	assert.InDelta(t, -273.15, cfg.Rasters.SST[0].Offset, 0.001)
	// Unset scale defaults to 1 so values survive normalization.
	assert.InDelta(t, 1.0, cfg.Rasters.SST[0].Scale, 0.001)
	assert.InDelta(t, -1.0, cfg.Rasters.Depth.Scale, 0.001)
	assert.Equal(t, "eez.shp", cfg.Zones.Path)
	assert.Equal(t, "eez_id", cfg.Zones.IDField)
	// Defaults still apply to untouched keys.
	assert.Equal(t, "rgn", cfg.Zones.NameField)
	assert.Equal(t, "profiles.yaml", cfg.Species.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	chtmp(t)
	t.Setenv("HABITAT_STORE_PATH", "/tmp/other.db")
	t.Setenv("HABITAT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}

	assert.Error(t, cfg.Validate("rasters"))
	assert.Error(t, cfg.Validate("zones"))
	assert.Error(t, cfg.Validate("store"))
	assert.Error(t, cfg.Validate("bogus"))

	cfg.Rasters.SST = []RasterSource{{Path: "sst.nc", Var: "sst"}}
	assert.Error(t, cfg.Validate("rasters"), "depth path still missing")
	cfg.Rasters.Depth.Path = "bathy.nc"
	assert.NoError(t, cfg.Validate("rasters"))

	cfg.Zones.Path = "eez.shp"
	assert.NoError(t, cfg.Validate("zones"))

	cfg.Store.Path = "habitat.db"
	assert.NoError(t, cfg.Validate("store"))
}

func TestValidateRastersMissingSSTPath(t *testing.T) {
	cfg := &Config{}
	cfg.Rasters.SST = []RasterSource{{Var: "sst"}}
	cfg.Rasters.Depth.Path = "bathy.nc"
	assert.Error(t, cfg.Validate("rasters"))
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
