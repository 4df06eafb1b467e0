package raster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadASCII reads an Esri ASCII grid (.asc). The format has no embedded CRS,
// so the caller supplies the proj4 string. Header keys are case-insensitive;
// both xllcorner/yllcorner and xllcenter/yllcenter origins are accepted.
func ReadASCII(path, name, proj4 string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: open %s", path)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := map[string]float64{}
	var rows []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 2 && isHeaderKey(strings.ToLower(fields[0])) {
			v, convErr := strconv.ParseFloat(fields[1], 64)
			if convErr != nil {
				return nil, eris.Wrapf(convErr, "raster: %s: header %s", path, fields[0])
			}
			header[strings.ToLower(fields[0])] = v
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "raster: scan %s", path)
	}

	ncols, ok := header["ncols"]
	if !ok {
		return nil, eris.Errorf("raster: %s: missing ncols header", path)
	}
	nrows, ok := header["nrows"]
	if !ok {
		return nil, eris.Errorf("raster: %s: missing nrows header", path)
	}
	cell, ok := header["cellsize"]
	if !ok {
		return nil, eris.Errorf("raster: %s: missing cellsize header", path)
	}
	nodata, ok := header["nodata_value"]
	if !ok {
		nodata = -9999
	}

	cols, rcount := int(ncols), int(nrows)

	// Origin: lower-left corner in the file, top-left in Grid.
	xll, xok := header["xllcorner"]
	yll, yok := header["yllcorner"]
	if !xok || !yok {
		xc, xcok := header["xllcenter"]
		yc, ycok := header["yllcenter"]
		if !xcok || !ycok {
			return nil, eris.Errorf("raster: %s: missing grid origin headers", path)
		}
		xll = xc - cell/2
		yll = yc - cell/2
	}

	g, err := New(name, rcount, cols, xll, yll+float64(rcount)*cell, cell, cell, proj4, nodata)
	if err != nil {
		return nil, err
	}

	if len(rows) != rcount {
		return nil, eris.Errorf("raster: %s: expected %d data rows, found %d", path, rcount, len(rows))
	}
	for r, line := range rows {
		fields := strings.Fields(line)
		if len(fields) != cols {
			return nil, eris.Errorf("raster: %s: row %d has %d values, want %d", path, r, len(fields), cols)
		}
		for c, fv := range fields {
			v, convErr := strconv.ParseFloat(fv, 64)
			if convErr != nil {
				return nil, eris.Wrapf(convErr, "raster: %s: row %d col %d", path, r, c)
			}
			g.Set(r, c, v)
		}
	}

	return g, nil
}

// WriteASCII writes the grid as an Esri ASCII grid.
func WriteASCII(g *Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "raster: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ncols %d\n", g.Cols)
	fmt.Fprintf(w, "nrows %d\n", g.Rows)
	fmt.Fprintf(w, "xllcorner %g\n", g.OriginX)
	fmt.Fprintf(w, "yllcorner %g\n", g.OriginY-float64(g.Rows)*g.DY)
	fmt.Fprintf(w, "cellsize %g\n", g.DX)
	fmt.Fprintf(w, "NODATA_value %g\n", g.NoData)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				if err := w.WriteByte(' '); err != nil {
					return eris.Wrapf(err, "raster: write %s", path)
				}
			}
			if _, err := w.WriteString(strconv.FormatFloat(g.At(r, c), 'g', -1, 64)); err != nil {
				return eris.Wrapf(err, "raster: write %s", path)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return eris.Wrapf(err, "raster: write %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		return eris.Wrapf(err, "raster: flush %s", path)
	}
	return nil
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}
