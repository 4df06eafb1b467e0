package render

import (
	"fmt"
	"sort"

	"github.com/fogleman/gg"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/coastwatch/habitat-cli/internal/suitability"
	"github.com/coastwatch/habitat-cli/internal/zone"
)

// choroplethClasses is the number of quantile shading classes.
const choroplethClasses = 5

// Blue ramp, light to dark, one entry per class.
var classColors = [choroplethClasses][3]float64{
	{0.94, 0.97, 1.00},
	{0.74, 0.84, 0.93},
	{0.45, 0.68, 0.82},
	{0.19, 0.51, 0.74},
	{0.03, 0.32, 0.61},
}

// Choropleth renders the per-zone suitable areas over the zone geometries
// and writes a PNG. Zones are shaded by quantile class of suitable area.
func Choropleth(path string, res *suitability.Result, zones []*zone.Zone, width int) error {
	if len(zones) == 0 {
		return eris.New("render: choropleth requires zones")
	}
	if width <= 0 {
		width = 1000
	}

	areas := make(map[string]float64, len(res.ByZone))
	values := make([]float64, 0, len(res.ByZone))
	for _, za := range res.ByZone {
		areas[za.ZoneID] = za.AreaKM2
		values = append(values, za.AreaKM2)
	}
	sort.Float64s(values)
	breaks := quantileBreaks(values)

	minX, minY, maxX, maxY := zoneExtent(zones)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 || spanY <= 0 {
		return eris.New("render: degenerate zone extent")
	}

	const margin = 40.0
	const legendH = 70.0
	drawW := float64(width) - 2*margin
	scale := drawW / spanX
	drawH := spanY * scale
	height := int(drawH + 2*margin + legendH)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFillRule(gg.FillRuleEvenOdd) // interior rings render as holes

	project := func(x, y float64) (float64, float64) {
		return margin + (x-minX)*scale, margin + (maxY-y)*scale
	}

	for _, z := range zones {
		ci := classIndex(areas[z.ID], breaks)
		col := classColors[ci]

		for i := 0; i < z.Geom.NumPolygons(); i++ {
			p := z.Geom.Polygon(i)
			for r := 0; r < p.NumLinearRings(); r++ {
				flat := p.LinearRing(r).FlatCoords()
				stride := p.Layout().Stride()
				for v := 0; v+1 < len(flat); v += stride {
					px, py := project(flat[v], flat[v+1])
					if v == 0 {
						dc.MoveTo(px, py)
					} else {
						dc.LineTo(px, py)
					}
				}
				dc.ClosePath()
			}
		}
		dc.SetRGB(col[0], col[1], col[2])
		dc.FillPreserve()
		dc.SetRGB(0.25, 0.25, 0.25)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	// Title and legend.
	dc.SetRGB(0, 0, 0)
	title := fmt.Sprintf("%s: suitable area by zone (km2)", res.Species)
	dc.DrawStringAnchored(title, float64(width)/2, margin/2, 0.5, 0.5)

	legendY := float64(height) - legendH + 10
	swatch := 16.0
	x := margin
	for i := 0; i < choroplethClasses; i++ {
		col := classColors[i]
		dc.SetRGB(col[0], col[1], col[2])
		dc.DrawRectangle(x, legendY, swatch, swatch)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		label := legendLabel(i, breaks)
		dc.DrawStringAnchored(label, x+swatch+4, legendY+swatch/2, 0, 0.5)
		x += swatch + 4 + float64(len(label))*7 + 16
	}

	if err := dc.SavePNG(path); err != nil {
		return eris.Wrapf(err, "render: save png %s", path)
	}
	return nil
}

// quantileBreaks returns the upper bound of each shading class except the
// last, computed as empirical quantiles of the sorted area values.
func quantileBreaks(sorted []float64) []float64 {
	breaks := make([]float64, choroplethClasses-1)
	for i := range breaks {
		q := float64(i+1) / choroplethClasses
		breaks[i] = stat.Quantile(q, stat.Empirical, sorted, nil)
	}
	return breaks
}

func classIndex(v float64, breaks []float64) int {
	for i, b := range breaks {
		if v <= b {
			return i
		}
	}
	return len(breaks)
}

func legendLabel(class int, breaks []float64) string {
	switch {
	case class == 0:
		return fmt.Sprintf("<= %.0f", breaks[0])
	case class == len(breaks):
		return fmt.Sprintf("> %.0f", breaks[len(breaks)-1])
	default:
		return fmt.Sprintf("%.0f-%.0f", breaks[class-1], breaks[class])
	}
}

func zoneExtent(zones []*zone.Zone) (minX, minY, maxX, maxY float64) {
	b := zones[0].Bounds()
	minX, minY, maxX, maxY = b.Min(0), b.Min(1), b.Max(0), b.Max(1)
	for _, z := range zones[1:] {
		zb := z.Bounds()
		if zb.Min(0) < minX {
			minX = zb.Min(0)
		}
		if zb.Min(1) < minY {
			minY = zb.Min(1)
		}
		if zb.Max(0) > maxX {
			maxX = zb.Max(0)
		}
		if zb.Max(1) > maxY {
			maxY = zb.Max(1)
		}
	}
	return minX, minY, maxX, maxY
}
