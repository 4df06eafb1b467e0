package raster

import (
	"github.com/rotisserie/eris"
)

// MeanReduce collapses a multi-date stack of aligned grids into one grid of
// per-cell means. Nodata cells are excluded from each mean; a cell that is
// nodata in every input stays nodata in the output. Classification requires
// a single layer per variable, so stacks are reduced before thresholding.
func MeanReduce(name string, grids []*Grid) (*Grid, error) {
	if len(grids) == 0 {
		return nil, eris.New("raster: mean reduce of empty stack")
	}
	base := grids[0]
	for _, g := range grids[1:] {
		if !g.AlignedWith(base) {
			return nil, eris.Errorf("raster: grid %s is not aligned with %s", g.Name, base.Name)
		}
	}

	out := base.Empty(name)
	n := base.Rows * base.Cols
	for i := 0; i < n; i++ {
		var sum float64
		var count int
		for _, g := range grids {
			v := g.Data.Elements[i]
			if g.IsNoData(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			out.Data.Elements[i] = out.NoData
			continue
		}
		out.Data.Elements[i] = sum / float64(count)
	}
	return out, nil
}
