// Package render turns workflow results into the presentation artifacts:
// stdout tables, csv/xlsx exports, and choropleth maps. All writers are
// deterministic — zones in ID order, fixed formatting, no timestamps — so
// reruns over unchanged inputs produce byte-identical output.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/coastwatch/habitat-cli/internal/suitability"
)

// WriteTable writes the per-zone results as an aligned text table.
func WriteTable(w io.Writer, res *suitability.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ZONE ID\tZONE\tSUITABLE KM2")
	for _, za := range res.ByZone {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", za.ZoneID, za.Name, za.AreaKM2)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%.2f\n", res.TotalKM2)
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "render: flush table")
	}
	return nil
}

// WriteCSV writes the per-zone results as CSV with a header row.
func WriteCSV(w io.Writer, res *suitability.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"species", "zone_id", "zone", "suitable_km2"}); err != nil {
		return eris.Wrap(err, "render: write csv header")
	}
	for _, za := range res.ByZone {
		rec := []string{
			res.Species,
			za.ZoneID,
			za.Name,
			strconv.FormatFloat(za.AreaKM2, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "render: write csv row for zone %s", za.ZoneID)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "render: flush csv")
	}
	return nil
}
