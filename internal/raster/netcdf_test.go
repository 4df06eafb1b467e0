package raster

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadNetCDFRoundTrip(t *testing.T) {
	sst := mustGrid(t, "sst", 2, 3, -130, 50, 0.5, 0.5, wgs84, []float64{
		11.5, 14.25, -9999,
		18, 22.5, 29.75,
	})
	depth := mustGrid(t, "depth", 2, 3, -130, 50, 0.5, 0.5, wgs84, []float64{
		5, 40, 70,
		90, -9999, 120,
	})

	path := filepath.Join(t.TempDir(), "layers.nc")
	require.NoError(t, WriteNetCDF(path, sst, depth))

	gotSST, err := ReadNetCDF(path, "sst", 1, 0)
	require.NoError(t, err)
	gotDepth, err := ReadNetCDF(path, "depth", 1, 0)
	require.NoError(t, err)

	assert.True(t, gotSST.AlignedWith(sst))
	assert.True(t, gotDepth.AlignedWith(depth))
	assert.Equal(t, wgs84, gotSST.Proj4)
	for i, want := range sst.Data.Elements {
		assert.InDelta(t, want, gotSST.Data.Elements[i], 1e-4, "sst cell %d", i)
	}
	for i, want := range depth.Data.Elements {
		assert.InDelta(t, want, gotDepth.Data.Elements[i], 1e-4, "depth cell %d", i)
	}
}

func TestReadNetCDFScaleOffset(t *testing.T) {
	// Kelvin in the file, Celsius after the offset. Nodata stays untouched.
	kelvin := mustGrid(t, "sst", 1, 3, 0, 1, 1, 1, wgs84, []float64{284.65, 303.15, -9999})
	path := filepath.Join(t.TempDir(), "kelvin.nc")
	require.NoError(t, WriteNetCDF(path, kelvin))

	got, err := ReadNetCDF(path, "sst", 1, -273.15)
	require.NoError(t, err)
	assert.InDelta(t, 11.5, got.At(0, 0), 1e-3)
	assert.InDelta(t, 30.0, got.At(0, 1), 1e-3)
	assert.True(t, got.IsNoData(got.At(0, 2)))
}

func TestReadNetCDFNegativeScale(t *testing.T) {
	// Bathymetry stored as negative elevation becomes positive depth.
	elev := mustGrid(t, "elevation", 1, 2, 0, 1, 1, 1, wgs84, []float64{-55, -120})
	path := filepath.Join(t.TempDir(), "bathy.nc")
	require.NoError(t, WriteNetCDF(path, elev))

	got, err := ReadNetCDF(path, "elevation", -1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 55.0, got.At(0, 0), 1e-3)
	assert.InDelta(t, 120.0, got.At(0, 1), 1e-3)
}

func TestReadNetCDFMissingVariable(t *testing.T) {
	g := mustGrid(t, "sst", 1, 1, 0, 1, 1, 1, wgs84, []float64{20})
	path := filepath.Join(t.TempDir(), "one.nc")
	require.NoError(t, WriteNetCDF(path, g))

	_, err := ReadNetCDF(path, "chlorophyll", 1, 0)
	assert.Error(t, err)
}

func TestWriteNetCDFRejectsMisaligned(t *testing.T) {
	a := mustGrid(t, "a", 1, 1, 0, 1, 1, 1, wgs84, nil)
	b := mustGrid(t, "b", 1, 1, 10, 1, 1, 1, wgs84, nil)
	err := WriteNetCDF(filepath.Join(t.TempDir(), "bad.nc"), a, b)
	assert.Error(t, err)
}
