package render

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/coastwatch/habitat-cli/internal/suitability"
)

// WriteXLSX writes the per-zone results as a single-sheet workbook.
func WriteXLSX(path string, res *suitability.Result) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(res.Species)
	if err != nil {
		return eris.Wrap(err, "render: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"species", "zone_id", "zone", "suitable_km2"} {
		header.AddCell().Value = h
	}

	for _, za := range res.ByZone {
		row := sheet.AddRow()
		row.AddCell().Value = res.Species
		row.AddCell().Value = za.ZoneID
		row.AddCell().Value = za.Name
		row.AddCell().SetFloatWithFormat(za.AreaKM2, "0.00")
	}

	total := sheet.AddRow()
	total.AddCell()
	total.AddCell()
	total.AddCell().Value = "TOTAL"
	total.AddCell().SetFloatWithFormat(res.TotalKM2, "0.00")

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "render: save xlsx %s", path)
	}
	return nil
}
