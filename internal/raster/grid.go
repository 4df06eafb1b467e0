// Package raster provides gridded layer types and the alignment operations
// (unit normalization, stack reduction, resampling) that run before
// suitability classification.
package raster

import (
	"math"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/rotisserie/eris"
)

// earthRadiusKM is the mean Earth radius used for cell-area computation.
const earthRadiusKM = 6371.0088

// Grid is a single numeric raster layer. Values are stored row-major with
// row 0 at the northern edge; OriginX/OriginY is the top-left corner of the
// top-left cell. DX and DY are positive cell sizes in CRS units.
type Grid struct {
	Name    string
	Data    *sparse.DenseArray
	Rows    int
	Cols    int
	OriginX float64
	OriginY float64
	DX      float64
	DY      float64
	Proj4   string
	NoData  float64
}

// New allocates a zero-filled grid with the given definition.
func New(name string, rows, cols int, originX, originY, dx, dy float64, proj4 string, nodata float64) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, eris.Errorf("raster: invalid shape %dx%d for %s", rows, cols, name)
	}
	if dx <= 0 || dy <= 0 {
		return nil, eris.Errorf("raster: invalid cell size %gx%g for %s", dx, dy, name)
	}
	return &Grid{
		Name:    name,
		Data:    sparse.ZerosDense(rows, cols),
		Rows:    rows,
		Cols:    cols,
		OriginX: originX,
		OriginY: originY,
		DX:      dx,
		DY:      dy,
		Proj4:   proj4,
		NoData:  nodata,
	}, nil
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.Data.Elements[row*g.Cols+col]
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.Data.Elements[row*g.Cols+col] = v
}

// IsNoData reports whether v is the grid's missing-value sentinel.
func (g *Grid) IsNoData(v float64) bool {
	return math.IsNaN(v) || v == g.NoData
}

// CellCenter returns the CRS coordinates of the center of cell (row, col).
func (g *Grid) CellCenter(row, col int) (x, y float64) {
	x = g.OriginX + (float64(col)+0.5)*g.DX
	y = g.OriginY - (float64(row)+0.5)*g.DY
	return x, y
}

// Geographic reports whether the grid coordinates are longitude/latitude
// degrees rather than projected meters.
func (g *Grid) Geographic() bool {
	return isGeographic(g.Proj4)
}

// CellAreaKM2 returns the area of a cell in the given row. On a geographic
// grid the area varies with latitude (spherical band formula); on a
// projected grid every cell has the same DX*DY area.
func (g *Grid) CellAreaKM2(row int) float64 {
	if !g.Geographic() {
		return g.DX * g.DY / 1e6
	}
	latTop := (g.OriginY - float64(row)*g.DY) * math.Pi / 180
	latBot := (g.OriginY - float64(row+1)*g.DY) * math.Pi / 180
	dLon := g.DX * math.Pi / 180
	return math.Abs(earthRadiusKM * earthRadiusKM * dLon * (math.Sin(latTop) - math.Sin(latBot)))
}

// SameShape reports whether two grids have identical row/column counts.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols
}

// AlignedWith reports whether two grids share shape, extent, resolution,
// and CRS, so their cells correspond one to one.
func (g *Grid) AlignedWith(o *Grid) bool {
	const eps = 1e-9
	return g.SameShape(o) &&
		math.Abs(g.OriginX-o.OriginX) < eps &&
		math.Abs(g.OriginY-o.OriginY) < eps &&
		math.Abs(g.DX-o.DX) < eps &&
		math.Abs(g.DY-o.DY) < eps &&
		g.Proj4 == o.Proj4
}

// Clone returns a deep copy of the grid with a new name.
func (g *Grid) Clone(name string) *Grid {
	c := *g
	c.Name = name
	c.Data = sparse.ZerosDense(g.Rows, g.Cols)
	copy(c.Data.Elements, g.Data.Elements)
	return &c
}

// Empty returns a grid with the same definition as g but zeroed values.
func (g *Grid) Empty(name string) *Grid {
	c := *g
	c.Name = name
	c.Data = sparse.ZerosDense(g.Rows, g.Cols)
	return &c
}

func isGeographic(proj4 string) bool {
	return strings.Contains(proj4, "+proj=longlat")
}
