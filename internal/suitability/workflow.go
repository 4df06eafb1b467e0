package suitability

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/coastwatch/habitat-cli/internal/crs"
	"github.com/coastwatch/habitat-cli/internal/model"
	"github.com/coastwatch/habitat-cli/internal/raster"
	"github.com/coastwatch/habitat-cli/internal/zone"
)

// Params are the tolerance windows for one workflow invocation. Depth is
// positive meters below the surface; temperature is degrees Celsius.
type Params struct {
	Species string
	Depth   Interval
	Temp    Interval
}

// ParamsFromSpecies builds workflow parameters from a species profile.
func ParamsFromSpecies(s model.Species) Params {
	return Params{
		Species: s.Name,
		Depth:   Interval{Lo: s.MinDepthM, Hi: s.MaxDepthM},
		Temp:    Interval{Lo: s.MinTempC, Hi: s.MaxTempC},
	}
}

// Validate checks the parameters before any raster work starts.
func (p Params) Validate() error {
	if p.Species == "" {
		return eris.New("suitability: species label is required")
	}
	if err := p.Depth.Validate(); err != nil {
		return eris.Wrapf(err, "suitability: depth window for %s", p.Species)
	}
	if err := p.Temp.Validate(); err != nil {
		return eris.Wrapf(err, "suitability: temperature window for %s", p.Species)
	}
	return nil
}

// Inputs are the loaded environmental layers and zones for one invocation.
// Each Run call owns its inputs; nothing is shared or mutated across calls
// except the zone reprojection applied when zone and raster CRS differ.
type Inputs struct {
	SST   []*raster.Grid // multi-date sea-surface temperature stack, °C
	Depth *raster.Grid   // bathymetry as positive depth, m
	Zones []*zone.Zone
}

func (in Inputs) validate() error {
	if len(in.SST) == 0 {
		return eris.New("suitability: at least one SST layer is required")
	}
	if in.Depth == nil {
		return eris.New("suitability: a depth layer is required")
	}
	if len(in.Zones) == 0 {
		return eris.New("suitability: at least one zone is required")
	}
	return nil
}

// Result is the aggregated outcome of one workflow invocation.
type Result struct {
	Species       string
	Params        Params
	ByZone        []model.ZoneArea
	TotalKM2      float64
	SuitableCells int
}

// Run executes the suitability workflow: reduce the SST stack, align the
// depth layer onto the SST grid, classify both tolerance windows, combine
// the masks, and aggregate suitable area per zone. Pure with respect to
// rendering and persistence; callers decide what to do with the Result.
func Run(params Params, in Inputs) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("species", params.Species))

	sst, err := raster.MeanReduce("sst_mean", in.SST)
	if err != nil {
		return nil, eris.Wrap(err, "suitability: reduce SST stack")
	}

	depth, err := alignDepth(in.Depth, sst)
	if err != nil {
		return nil, err
	}

	tempMask, err := Classify(sst, params.Temp, "temp_mask")
	if err != nil {
		return nil, eris.Wrap(err, "suitability: classify temperature")
	}
	depthMask, err := Classify(depth, params.Depth, "depth_mask")
	if err != nil {
		return nil, eris.Wrap(err, "suitability: classify depth")
	}
	mask, err := And(tempMask, depthMask, "suitability")
	if err != nil {
		return nil, eris.Wrap(err, "suitability: combine masks")
	}

	zones, err := alignZones(in.Zones, sst)
	if err != nil {
		return nil, err
	}

	byZone, err := AggregateZones(mask, zones)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Species:  params.Species,
		Params:   params,
		ByZone:   byZone,
		TotalKM2: TotalAreaKM2(mask),
	}
	for _, v := range mask.Data.Elements {
		if v == Suitable {
			res.SuitableCells++
		}
	}

	log.Info("suitability workflow complete",
		zap.Int("suitable_cells", res.SuitableCells),
		zap.Float64("total_km2", res.TotalKM2),
		zap.Int("zones", len(res.ByZone)),
	)
	return res, nil
}

// alignDepth resamples the depth layer onto the SST grid, reprojecting
// when the reference systems differ. Misalignment is never fatal.
func alignDepth(depth, sst *raster.Grid) (*raster.Grid, error) {
	if depth.AlignedWith(sst) {
		return depth, nil
	}
	aligned, err := raster.Resample(depth, sst, depth.Name)
	if err != nil {
		return nil, eris.Wrap(err, "suitability: resample depth")
	}
	return aligned, nil
}

// alignZones reprojects zone geometries into the raster CRS when needed.
// Zones are copied before transformation so callers' inputs stay intact.
func alignZones(zones []*zone.Zone, grid *raster.Grid) ([]*zone.Zone, error) {
	if len(zones) == 0 || crs.Equal(zones[0].Proj4, grid.Proj4) {
		return zones, nil
	}
	t, _, err := crs.Reconcile("zones", zones[0].Proj4, grid.Proj4)
	if err != nil {
		return nil, eris.Wrap(err, "suitability: reconcile zone CRS")
	}
	out := make([]*zone.Zone, len(zones))
	for i, z := range zones {
		cp := &zone.Zone{
			ID:    z.ID,
			Name:  z.Name,
			Geom:  z.Geom.Clone(),
			Proj4: grid.Proj4,
		}
		if err := cp.Transform(t); err != nil {
			return nil, err
		}
		out[i] = cp
	}
	return out, nil
}
