package raster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over the valid cells of a grid.
type Summary struct {
	Valid  int
	NoData int
	Min    float64
	Max    float64
	Mean   float64
}

// Summarize computes min/max/mean over the grid's valid cells.
func Summarize(g *Grid) Summary {
	valid := make([]float64, 0, len(g.Data.Elements))
	var nodata int
	for _, v := range g.Data.Elements {
		if g.IsNoData(v) {
			nodata++
			continue
		}
		valid = append(valid, v)
	}
	s := Summary{Valid: len(valid), NoData: nodata}
	if len(valid) == 0 {
		return s
	}
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Mean = stat.Mean(valid, nil)
	return s
}
