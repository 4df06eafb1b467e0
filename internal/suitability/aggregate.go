package suitability

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/coastwatch/habitat-cli/internal/model"
	"github.com/coastwatch/habitat-cli/internal/raster"
	"github.com/coastwatch/habitat-cli/internal/zone"
)

// AggregateZones attributes suitable cell areas to zones. Each suitable
// cell belongs to at most one zone: the first zone in ascending ID order
// whose geometry contains the cell centroid. Cells whose centroid falls in
// no zone are ignored. Every zone appears in the output, zero-area zones
// included, and the output is ordered by zone ID.
func AggregateZones(mask *raster.Grid, zones []*zone.Zone) ([]model.ZoneArea, error) {
	if mask == nil {
		return nil, eris.New("suitability: aggregate requires a mask")
	}
	if len(zones) == 0 {
		return nil, eris.New("suitability: aggregate requires at least one zone")
	}

	// Attribution order is part of the contract, so sort a copy rather
	// than trusting the caller's slice order.
	sorted := make([]*zone.Zone, len(zones))
	copy(sorted, zones)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	zones = sorted

	type zoneBox struct {
		z    *zone.Zone
		minX float64
		minY float64
		maxX float64
		maxY float64
	}
	boxes := make([]zoneBox, len(zones))
	areas := make(map[string]float64, len(zones))
	for i, z := range zones {
		b := z.Bounds()
		boxes[i] = zoneBox{z: z, minX: b.Min(0), minY: b.Min(1), maxX: b.Max(0), maxY: b.Max(1)}
		areas[z.ID] = 0
	}

	for r := 0; r < mask.Rows; r++ {
		cellArea := mask.CellAreaKM2(r)
		for c := 0; c < mask.Cols; c++ {
			if mask.At(r, c) != Suitable {
				continue
			}
			x, y := mask.CellCenter(r, c)
			for _, b := range boxes {
				if x < b.minX || x > b.maxX || y < b.minY || y > b.maxY {
					continue
				}
				if b.z.Contains(x, y) {
					areas[b.z.ID] += cellArea
					break
				}
			}
		}
	}

	out := make([]model.ZoneArea, len(zones))
	for i, z := range zones {
		out[i] = model.ZoneArea{ZoneID: z.ID, Name: z.Name, AreaKM2: areas[z.ID]}
	}
	return out, nil
}
