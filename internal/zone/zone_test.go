package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/coastwatch/habitat-cli/internal/crs"
)

// squareZone builds a single-polygon zone over [x0,x1]x[y0,y1] degrees.
func squareZone(t *testing.T, id, name string, x0, y0, x1, y1 float64) *Zone {
	t.Helper()
	ring := geom.NewLinearRingFlat(geom.XY, []float64{
		x0, y0,
		x1, y0,
		x1, y1,
		x0, y1,
		x0, y0,
	})
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(ring))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))
	return &Zone{ID: id, Name: name, Geom: mp, Proj4: crs.WGS84}
}

func TestContains(t *testing.T) {
	z := squareZone(t, "137", "Oregon", -125, 42, -124, 46)

	assert.True(t, z.Contains(-124.5, 44))
	assert.False(t, z.Contains(-126, 44))
	assert.False(t, z.Contains(-124.5, 47))
}

func TestContainsHole(t *testing.T) {
	outer := geom.NewLinearRingFlat(geom.XY, []float64{
		0, 0, 10, 0, 10, 10, 0, 10, 0, 0,
	})
	hole := geom.NewLinearRingFlat(geom.XY, []float64{
		4, 4, 6, 4, 6, 6, 4, 6, 4, 4,
	})
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(outer))
	require.NoError(t, poly.Push(hole))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))
	z := &Zone{ID: "1", Name: "ring", Geom: mp, Proj4: crs.WGS84}

	assert.True(t, z.Contains(2, 2))
	assert.False(t, z.Contains(5, 5), "point in the hole is outside the zone")
	assert.True(t, z.Contains(7, 7))
}

func TestAreaKM2(t *testing.T) {
	// A 1x1 degree cell at the equator is about 12364 km2.
	z := squareZone(t, "1", "equator", 0, 0, 1, 1)
	assert.InDelta(t, 12364, z.AreaKM2(), 60)

	// The same cell centered on 60N covers about half that.
	high := squareZone(t, "2", "north", 0, 59.5, 1, 60.5)
	assert.InDelta(t, 12364.0/2, high.AreaKM2(), 150)
}

func TestAreaKM2SubtractsHoles(t *testing.T) {
	outer := geom.NewLinearRingFlat(geom.XY, []float64{
		0, 0, 2, 0, 2, 2, 0, 2, 0, 0,
	})
	hole := geom.NewLinearRingFlat(geom.XY, []float64{
		0, 0, 1, 0, 1, 1, 0, 1, 0, 0,
	})
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(outer))
	require.NoError(t, poly.Push(hole))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))
	z := &Zone{ID: "1", Name: "holed", Geom: mp, Proj4: crs.WGS84}

	full := squareZone(t, "2", "full", 0, 0, 2, 2)
	cut := squareZone(t, "3", "cut", 0, 0, 1, 1)
	assert.InDelta(t, full.AreaKM2()-cut.AreaKM2(), z.AreaKM2(), 1)
}

func TestTransform(t *testing.T) {
	z := squareZone(t, "1", "square", -125, 42, -124, 46)

	tr, err := crs.Transform(crs.WGS84, crs.WebMercator)
	require.NoError(t, err)
	require.NoError(t, z.Transform(tr))

	b := z.Bounds()
	// Mercator longitudes are ~111.32 km/degree in meters.
	assert.InDelta(t, -125*111319.49, b.Min(0), 100)
	assert.InDelta(t, -124*111319.49, b.Max(0), 100)
	assert.Greater(t, b.Min(1), 5e6)
}

func TestTransformNil(t *testing.T) {
	z := squareZone(t, "1", "square", 0, 0, 1, 1)
	before := append([]float64(nil), z.Geom.FlatCoords()...)
	require.NoError(t, z.Transform(nil))
	assert.Equal(t, before, z.Geom.FlatCoords())
}
