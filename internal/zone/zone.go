// Package zone loads the named polygons (exclusive economic zones) that
// suitability results are aggregated over.
package zone

import (
	"math"

	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

const earthRadiusKM = 6371.0088

// Zone is a named aggregation polygon.
type Zone struct {
	ID    string
	Name  string
	Geom  *geom.MultiPolygon
	Proj4 string
}

// Bounds returns the zone's bounding box.
func (z *Zone) Bounds() *geom.Bounds {
	return z.Geom.Bounds()
}

// Contains reports whether the point (x, y) falls inside the zone. A point
// inside an interior ring (hole) is outside the zone.
func (z *Zone) Contains(x, y float64) bool {
	pt := geom.Coord{x, y}
	for i := 0; i < z.Geom.NumPolygons(); i++ {
		p := z.Geom.Polygon(i)
		if p.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(p.Layout(), pt, p.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for r := 1; r < p.NumLinearRings(); r++ {
			if xy.IsPointInRing(p.Layout(), pt, p.LinearRing(r).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// AreaKM2 returns the zone's spherical area. Coordinates must be geographic
// (longitude/latitude degrees); projected zones are reprojected before area
// computation by the loader.
func (z *Zone) AreaKM2() float64 {
	var total float64
	for i := 0; i < z.Geom.NumPolygons(); i++ {
		p := z.Geom.Polygon(i)
		for r := 0; r < p.NumLinearRings(); r++ {
			a := sphericalRingAreaKM2(p.LinearRing(r).FlatCoords(), p.Layout().Stride())
			if r == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// Transform applies a coordinate transform to every vertex in place.
func (z *Zone) Transform(t proj.Transformer) error {
	if t == nil {
		return nil
	}
	fc := z.Geom.FlatCoords()
	stride := z.Geom.Layout().Stride()
	for i := 0; i+1 < len(fc); i += stride {
		x, y, err := t(fc[i], fc[i+1])
		if err != nil {
			return eris.Wrapf(err, "zone %s: transform vertex", z.ID)
		}
		fc[i], fc[i+1] = x, y
	}
	return nil
}

// sphericalRingAreaKM2 computes the unsigned area enclosed by a ring of
// lon/lat vertices using the spherical excess line integral.
func sphericalRingAreaKM2(flat []float64, stride int) float64 {
	n := len(flat) / stride
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		lon1 := flat[i*stride] * math.Pi / 180
		lat1 := flat[i*stride+1] * math.Pi / 180
		lon2 := flat[j*stride] * math.Pi / 180
		lat2 := flat[j*stride+1] * math.Pi / 180
		sum += (lon2 - lon1) * (2 + math.Sin(lat1) + math.Sin(lat2))
	}
	return math.Abs(sum * earthRadiusKM * earthRadiusKM / 2)
}
