package raster

import (
	"math"

	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/coastwatch/habitat-cli/internal/crs"
)

// Resample maps src onto the target grid definition using nearest-neighbor
// sampling. A CRS mismatch between the grids is logged as a warning and
// corrected by reprojection, never an error. Target cells falling outside
// the source extent, and cells sampling a nodata source value, become
// nodata in the output.
func Resample(src, target *Grid, name string) (*Grid, error) {
	if src == nil || target == nil {
		return nil, eris.New("raster: resample requires source and target grids")
	}

	// Sampling walks target cell centers, so the transform runs from the
	// target CRS back into the source CRS.
	var transform proj.Transformer
	if !crs.Equal(src.Proj4, target.Proj4) {
		zap.L().Warn("crs mismatch, reprojecting during resample",
			zap.String("layer", src.Name),
			zap.String("from", src.Proj4),
			zap.String("to", target.Proj4),
		)
		t, err := crs.Transform(target.Proj4, src.Proj4)
		if err != nil {
			return nil, eris.Wrapf(err, "raster: reconcile %s with %s", src.Name, target.Name)
		}
		transform = t
	}

	out := target.Empty(name)
	out.NoData = target.NoData
	for r := 0; r < target.Rows; r++ {
		for c := 0; c < target.Cols; c++ {
			x, y := target.CellCenter(r, c)
			if transform != nil {
				tx, ty, err := transform(x, y)
				if err != nil {
					return nil, eris.Wrapf(err, "raster: transform cell (%d,%d) of %s", r, c, target.Name)
				}
				x, y = tx, ty
			}

			// Floor, not truncate: west/north of the origin must go
			// negative and fall out of range rather than clamp to 0.
			sc := int(math.Floor((x - src.OriginX) / src.DX))
			sr := int(math.Floor((src.OriginY - y) / src.DY))
			if sr < 0 || sr >= src.Rows || sc < 0 || sc >= src.Cols {
				out.Set(r, c, out.NoData)
				continue
			}

			v := src.At(sr, sc)
			if src.IsNoData(v) {
				out.Set(r, c, out.NoData)
				continue
			}
			out.Set(r, c, v)
		}
	}
	return out, nil
}
