// Package suitability implements the habitat suitability workflow:
// threshold classification of environmental rasters, mask combination,
// and per-zone aggregation of suitable area.
package suitability

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/coastwatch/habitat-cli/internal/raster"
)

// Mask cell values. Masks are plain grids restricted to these two values;
// a mask has no nodata cells.
const (
	Unsuitable = 0.0
	Suitable   = 1.0
)

// Interval is a closed tolerance window [Lo, Hi]. Values equal to either
// bound are suitable.
type Interval struct {
	Lo float64
	Hi float64
}

// Validate checks that the interval is well formed.
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Lo) || math.IsNaN(iv.Hi) || math.IsInf(iv.Lo, 0) || math.IsInf(iv.Hi, 0) {
		return eris.Errorf("suitability: interval bounds must be finite, got [%g, %g]", iv.Lo, iv.Hi)
	}
	if iv.Lo > iv.Hi {
		return eris.Errorf("suitability: interval lower bound %g exceeds upper bound %g", iv.Lo, iv.Hi)
	}
	return nil
}

// Contains reports whether v falls inside the closed interval.
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

// Classify thresholds a raster into a binary suitability mask. Cells inside
// the closed interval become Suitable; everything else, including nodata
// and NaN cells, becomes Unsuitable.
func Classify(g *raster.Grid, iv Interval, name string) (*raster.Grid, error) {
	if g == nil {
		return nil, eris.New("suitability: classify requires a grid")
	}
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	out := g.Empty(name)
	out.NoData = -1 // masks have no missing cells; keep the sentinel out of {0,1}
	for i, v := range g.Data.Elements {
		if g.IsNoData(v) || !iv.Contains(v) {
			out.Data.Elements[i] = Unsuitable
			continue
		}
		out.Data.Elements[i] = Suitable
	}
	return out, nil
}

// And combines two binary masks: a cell is suitable only when both inputs
// agree. The operation is commutative and idempotent.
func And(a, b *raster.Grid, name string) (*raster.Grid, error) {
	if a == nil || b == nil {
		return nil, eris.New("suitability: and requires two masks")
	}
	if !a.SameShape(b) {
		return nil, eris.Errorf("suitability: mask shapes differ (%dx%d vs %dx%d)",
			a.Rows, a.Cols, b.Rows, b.Cols)
	}

	out := a.Empty(name)
	out.NoData = -1
	for i := range a.Data.Elements {
		if a.Data.Elements[i] == Suitable && b.Data.Elements[i] == Suitable {
			out.Data.Elements[i] = Suitable
		}
	}
	return out, nil
}

// TotalAreaKM2 sums the cell areas of every suitable cell in a mask.
func TotalAreaKM2(mask *raster.Grid) float64 {
	var total float64
	for r := 0; r < mask.Rows; r++ {
		area := mask.CellAreaKM2(r)
		for c := 0; c < mask.Cols; c++ {
			if mask.At(r, c) == Suitable {
				total += area
			}
		}
	}
	return total
}
