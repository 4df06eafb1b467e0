package raster

import (
	"os"

	"github.com/ctessum/cdf"
	"github.com/rotisserie/eris"
)

// NetCDF global attributes describing the grid definition. Values are
// written by WriteNetCDF and expected by ReadNetCDF; data variables are
// stored as float32 over (y, x) dimensions.
const (
	attrNX     = "nx"
	attrNY     = "ny"
	attrX0     = "x0"
	attrY0     = "y0"
	attrDX     = "dx"
	attrDY     = "dy"
	attrProj4  = "proj4"
	attrNoData = "nodata"
)

// ReadNetCDF reads one variable from a NetCDF raster file. Scale and offset
// are applied to every valid cell (offset after scale), which is how unit
// normalization happens: a Kelvin SST composite uses offset -273.15, a
// negative-elevation bathymetry layer uses scale -1 to become positive depth.
func ReadNetCDF(path, varName string, scale, offset float64) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: open %s", path)
	}
	defer func() { _ = f.Close() }()

	nc, err := cdf.Open(f)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: read netcdf header %s", path)
	}

	rows, err := intAttr(nc, attrNY, path)
	if err != nil {
		return nil, err
	}
	cols, err := intAttr(nc, attrNX, path)
	if err != nil {
		return nil, err
	}
	x0, err := floatAttr(nc, attrX0, path)
	if err != nil {
		return nil, err
	}
	y0, err := floatAttr(nc, attrY0, path)
	if err != nil {
		return nil, err
	}
	dx, err := floatAttr(nc, attrDX, path)
	if err != nil {
		return nil, err
	}
	dy, err := floatAttr(nc, attrDY, path)
	if err != nil {
		return nil, err
	}
	nodata, err := floatAttr(nc, attrNoData, path)
	if err != nil {
		return nil, err
	}
	proj4, _ := nc.Header.GetAttribute("", attrProj4).(string)

	g, err := New(varName, rows, cols, x0, y0, dx, dy, proj4, nodata)
	if err != nil {
		return nil, err
	}

	lengths := nc.Header.Lengths(varName)
	if len(lengths) == 0 {
		return nil, eris.Errorf("raster: %s: no variable %q", path, varName)
	}
	n := 1
	for _, l := range lengths {
		n *= l
	}
	if n != rows*cols {
		return nil, eris.Errorf("raster: %s: variable %q has %d cells, grid is %dx%d",
			path, varName, n, rows, cols)
	}

	buf := make([]float32, n)
	r := nc.Reader(varName, nil, nil)
	if _, err := r.Read(buf); err != nil {
		return nil, eris.Wrapf(err, "raster: read variable %q from %s", varName, path)
	}
	for i, v := range buf {
		fv := float64(v)
		if fv == nodata {
			g.Data.Elements[i] = nodata
			continue
		}
		g.Data.Elements[i] = fv*scale + offset
	}

	return g, nil
}

// WriteNetCDF writes one or more aligned grids to a NetCDF file, one
// variable per grid. All grids must share the first grid's definition.
func WriteNetCDF(path string, grids ...*Grid) error {
	if len(grids) == 0 {
		return eris.New("raster: no grids to write")
	}
	base := grids[0]
	for _, g := range grids[1:] {
		if !g.AlignedWith(base) {
			return eris.Errorf("raster: grid %s is not aligned with %s", g.Name, base.Name)
		}
	}

	h := cdf.NewHeader([]string{"y", "x"}, []int{base.Rows, base.Cols})
	h.AddAttribute("", attrNX, []int32{int32(base.Cols)})
	h.AddAttribute("", attrNY, []int32{int32(base.Rows)})
	h.AddAttribute("", attrX0, []float64{base.OriginX})
	h.AddAttribute("", attrY0, []float64{base.OriginY})
	h.AddAttribute("", attrDX, []float64{base.DX})
	h.AddAttribute("", attrDY, []float64{base.DY})
	h.AddAttribute("", attrNoData, []float64{base.NoData})
	h.AddAttribute("", attrProj4, base.Proj4)
	for _, g := range grids {
		h.AddVariable(g.Name, []string{"y", "x"}, []float32{0})
	}
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "raster: create %s", path)
	}
	defer func() { _ = f.Close() }()

	nc, err := cdf.Create(f, h)
	if err != nil {
		return eris.Wrapf(err, "raster: write netcdf header %s", path)
	}

	for _, g := range grids {
		buf := make([]float32, len(g.Data.Elements))
		for i, v := range g.Data.Elements {
			buf[i] = float32(v)
		}
		end := nc.Header.Lengths(g.Name)
		start := make([]int, len(end))
		w := nc.Writer(g.Name, start, end)
		if _, err := w.Write(buf); err != nil {
			return eris.Wrapf(err, "raster: write variable %q to %s", g.Name, path)
		}
	}

	if err := cdf.UpdateNumRecs(f); err != nil {
		return eris.Wrapf(err, "raster: finalize %s", path)
	}
	return nil
}

func intAttr(nc *cdf.File, name, path string) (int, error) {
	v, ok := nc.Header.GetAttribute("", name).([]int32)
	if !ok || len(v) == 0 {
		return 0, eris.Errorf("raster: %s: missing attribute %s", path, name)
	}
	return int(v[0]), nil
}

func floatAttr(nc *cdf.File, name, path string) (float64, error) {
	v, ok := nc.Header.GetAttribute("", name).([]float64)
	if !ok || len(v) == 0 {
		return 0, eris.Errorf("raster: %s: missing attribute %s", path, name)
	}
	return v[0], nil
}
