package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/coastwatch/habitat-cli/internal/config"
	"github.com/coastwatch/habitat-cli/internal/crs"
	"github.com/coastwatch/habitat-cli/internal/raster"
	"github.com/coastwatch/habitat-cli/internal/suitability"
	"github.com/coastwatch/habitat-cli/internal/zone"
)

// loadInputs reads the configured rasters and zones. Every command builds a
// fresh Inputs value so invocations never share mutable state.
func loadInputs() (suitability.Inputs, error) {
	var in suitability.Inputs

	if err := cfg.Validate("rasters"); err != nil {
		return in, err
	}
	if err := cfg.Validate("zones"); err != nil {
		return in, err
	}

	rasterProj4, err := crs.FromEPSG(cfg.Rasters.EPSG)
	if err != nil {
		return in, err
	}
	zoneProj4, err := crs.FromEPSG(cfg.Zones.EPSG)
	if err != nil {
		return in, err
	}

	for i, src := range cfg.Rasters.SST {
		g, err := loadRaster(src, rasterProj4)
		if err != nil {
			return in, eris.Wrapf(err, "load SST layer %d", i)
		}
		in.SST = append(in.SST, g)
	}

	depth, err := loadRaster(cfg.Rasters.Depth, rasterProj4)
	if err != nil {
		return in, eris.Wrap(err, "load depth layer")
	}
	in.Depth = depth

	zones, err := zone.LoadShapefile(cfg.Zones.Path, cfg.Zones.IDField, cfg.Zones.NameField, zoneProj4)
	if err != nil {
		return in, err
	}
	in.Zones = zones

	return in, nil
}

// loadRaster dispatches on file extension: NetCDF carries its grid
// definition, ASCII grids take the configured CRS.
func loadRaster(src config.RasterSource, proj4 string) (*raster.Grid, error) {
	name := src.Var
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}

	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".nc":
		if src.Var == "" {
			return nil, eris.Errorf("raster source %s: var is required for NetCDF", src.Path)
		}
		return raster.ReadNetCDF(src.Path, src.Var, src.Scale, src.Offset)
	case ".asc":
		g, err := raster.ReadASCII(src.Path, name, proj4)
		if err != nil {
			return nil, err
		}
		applyScaleOffset(g, src.Scale, src.Offset)
		return g, nil
	default:
		return nil, eris.Errorf("raster source %s: unsupported format", src.Path)
	}
}

func applyScaleOffset(g *raster.Grid, scale, offset float64) {
	if scale == 1 && offset == 0 {
		return
	}
	for i, v := range g.Data.Elements {
		if g.IsNoData(v) {
			continue
		}
		g.Data.Elements[i] = v*scale + offset
	}
}
