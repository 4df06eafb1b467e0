package zone

import (
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads zone polygons from a shapefile. idField and nameField
// name the attribute columns holding the zone identifier and display name
// (matched case-insensitively). Zones are returned sorted by ID; zero zones
// is a configuration error.
func LoadShapefile(path, idField, nameField, proj4 string) ([]*Zone, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zone: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	idIdx, ok := fieldIdx[strings.ToLower(idField)]
	if !ok {
		return nil, eris.Errorf("zone: shapefile %s has no field %q", path, idField)
	}
	nameIdx, ok := fieldIdx[strings.ToLower(nameField)]
	if !ok {
		return nil, eris.Errorf("zone: shapefile %s has no field %q", path, nameField)
	}

	var zones []*Zone
	var skipped int
	seen := make(map[string]bool)

	for reader.Next() {
		_, shape := reader.Shape()

		id := strings.TrimSpace(strings.TrimRight(reader.Attribute(idIdx), "\x00"))
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if id == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		if seen[id] {
			return nil, eris.Errorf("zone: duplicate zone id %q in %s", id, path)
		}
		seen[id] = true

		zones = append(zones, &Zone{ID: id, Name: name, Geom: mp, Proj4: proj4})
	}

	if skipped > 0 {
		zap.L().Debug("zone: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(zones) == 0 {
		return nil, eris.Errorf("zone: no usable zones in %s", path)
	}

	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Shapefile rings are clockwise for outer boundaries and counterclockwise
// for holes; holes attach to the most recent outer ring.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var polys []*geom.Polygon

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 8 { // a closed ring needs at least 4 vertices
			continue
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)

		// Positive shoelace area means counterclockwise, a hole in the
		// shapefile convention. A hole before any outer ring is malformed.
		if signedRingArea(flat) > 0 && len(polys) > 0 {
			if err := polys[len(polys)-1].Push(ring); err != nil {
				zap.L().Debug("zone: skipping malformed hole ring", zap.Int32("part", i), zap.Error(err))
			}
			continue
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("zone: skipping malformed outer ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		polys = append(polys, poly)
	}

	if len(polys) == 0 {
		return nil
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for i, poly := range polys {
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("zone: skipping malformed polygon part", zap.Int("polygon", i), zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// signedRingArea returns the planar shoelace area of a flat XY ring.
// Negative for clockwise rings (shapefile outer boundaries).
func signedRingArea(flat []float64) float64 {
	n := len(flat) / 2
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += flat[i*2]*flat[j*2+1] - flat[j*2]*flat[i*2+1]
	}
	return sum / 2
}
