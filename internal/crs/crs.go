// Package crs reconciles coordinate reference systems across raster and
// vector inputs. Mismatches are corrected by reprojection and logged as
// warnings; they are never fatal.
package crs

import (
	"sort"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Proj4 strings for the reference systems the input data uses.
const (
	WGS84       = "+proj=longlat +datum=WGS84 +no_defs"
	NAD83       = "+proj=longlat +datum=NAD83 +no_defs"
	WebMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs"
)

var epsgProj4 = map[int]string{
	4326: WGS84,
	4269: NAD83,
	3857: WebMercator,
}

// FromEPSG returns the proj4 definition for a supported EPSG code.
func FromEPSG(code int) (string, error) {
	p, ok := epsgProj4[code]
	if !ok {
		return "", eris.Errorf("crs: unsupported EPSG code %d", code)
	}
	return p, nil
}

// Equal reports whether two proj4 strings describe the same reference
// system, ignoring token order and spacing.
func Equal(a, b string) bool {
	return canonical(a) == canonical(b)
}

// Transform returns a coordinate transformer from one proj4 CRS to another,
// or nil when the systems already agree.
func Transform(from, to string) (proj.Transformer, error) {
	if Equal(from, to) {
		return nil, nil
	}
	fromSR, err := proj.Parse(from)
	if err != nil {
		return nil, eris.Wrapf(err, "crs: parse %q", from)
	}
	toSR, err := proj.Parse(to)
	if err != nil {
		return nil, eris.Wrapf(err, "crs: parse %q", to)
	}
	t, err := fromSR.NewTransform(toSR)
	if err != nil {
		return nil, eris.Wrapf(err, "crs: transform %q to %q", from, to)
	}
	return t, nil
}

// Reconcile returns a transformer from the input's CRS to the reference
// CRS. When the two differ a warning is logged naming the input; the
// returned bool reports whether reprojection is needed.
func Reconcile(input, from, reference string) (proj.Transformer, bool, error) {
	if Equal(from, reference) {
		return nil, false, nil
	}
	zap.L().Warn("crs mismatch, reprojecting",
		zap.String("input", input),
		zap.String("from", from),
		zap.String("to", reference),
	)
	t, err := Transform(from, reference)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func canonical(p string) string {
	tokens := strings.Fields(p)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
