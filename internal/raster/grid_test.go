package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

func mustGrid(t *testing.T, name string, rows, cols int, originX, originY, dx, dy float64, proj4 string, values []float64) *Grid {
	t.Helper()
	g, err := New(name, rows, cols, originX, originY, dx, dy, proj4, -9999)
	require.NoError(t, err)
	if values != nil {
		require.Len(t, values, rows*cols)
		copy(g.Data.Elements, values)
	}
	return g
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	_, err := New("bad", 0, 4, 0, 0, 1, 1, wgs84, -9999)
	assert.Error(t, err)

	_, err = New("bad", 4, 4, 0, 0, 0, 1, wgs84, -9999)
	assert.Error(t, err)
}

func TestGridAccessors(t *testing.T) {
	g := mustGrid(t, "t", 2, 3, -130, 50, 1, 1, wgs84, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	assert.InDelta(t, 1.0, g.At(0, 0), 1e-12)
	assert.InDelta(t, 6.0, g.At(1, 2), 1e-12)

	g.Set(1, 2, 42)
	assert.InDelta(t, 42.0, g.At(1, 2), 1e-12)

	x, y := g.CellCenter(0, 0)
	assert.InDelta(t, -129.5, x, 1e-12)
	assert.InDelta(t, 49.5, y, 1e-12)

	x, y = g.CellCenter(1, 2)
	assert.InDelta(t, -127.5, x, 1e-12)
	assert.InDelta(t, 48.5, y, 1e-12)
}

func TestIsNoData(t *testing.T) {
	g := mustGrid(t, "t", 1, 1, 0, 0, 1, 1, wgs84, nil)
	assert.True(t, g.IsNoData(-9999))
	assert.True(t, g.IsNoData(math.NaN()))
	assert.False(t, g.IsNoData(0))
	assert.False(t, g.IsNoData(12.5))
}

func TestCellAreaGeographic(t *testing.T) {
	// One-degree cells from the equator toward the pole.
	g := mustGrid(t, "t", 60, 1, 0, 60, 1, 1, wgs84, nil)

	// A 1x1 degree cell at the equator is about 12364 km2.
	equator := g.CellAreaKM2(59)
	assert.InDelta(t, 12364, equator, 60)

	// Areas shrink monotonically with latitude.
	prev := equator
	for row := 58; row >= 0; row-- {
		a := g.CellAreaKM2(row)
		assert.Less(t, a, prev, "row %d should be smaller than the row south of it", row)
		prev = a
	}

	// At 60N a cell covers about half the equatorial area.
	assert.InDelta(t, equator/2, g.CellAreaKM2(0), equator*0.02)
}

func TestCellAreaProjected(t *testing.T) {
	merc := "+proj=merc +a=6378137 +b=6378137 +units=m +no_defs"
	g := mustGrid(t, "t", 4, 4, 0, 4000, 1000, 1000, merc, nil)

	// Projected grids have constant cell area: 1km x 1km here.
	for row := 0; row < 4; row++ {
		assert.InDelta(t, 1.0, g.CellAreaKM2(row), 1e-12)
	}
}

func TestAlignedWith(t *testing.T) {
	a := mustGrid(t, "a", 2, 2, -130, 50, 0.5, 0.5, wgs84, nil)
	b := mustGrid(t, "b", 2, 2, -130, 50, 0.5, 0.5, wgs84, nil)
	assert.True(t, a.AlignedWith(b))

	shifted := mustGrid(t, "c", 2, 2, -129, 50, 0.5, 0.5, wgs84, nil)
	assert.False(t, a.AlignedWith(shifted))

	coarser := mustGrid(t, "d", 2, 2, -130, 50, 1, 1, wgs84, nil)
	assert.False(t, a.AlignedWith(coarser))

	otherCRS := mustGrid(t, "e", 2, 2, -130, 50, 0.5, 0.5, "+proj=merc", nil)
	assert.False(t, a.AlignedWith(otherCRS))
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustGrid(t, "src", 1, 2, 0, 1, 1, 1, wgs84, []float64{1, 2})
	c := g.Clone("copy")

	c.Set(0, 0, 99)
	assert.InDelta(t, 1.0, g.At(0, 0), 1e-12)
	assert.InDelta(t, 99.0, c.At(0, 0), 1e-12)
	assert.Equal(t, "copy", c.Name)
}
