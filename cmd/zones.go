package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coastwatch/habitat-cli/internal/crs"
	"github.com/coastwatch/habitat-cli/internal/zone"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Inspect the configured zone shapefile",
}

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List zones with their geometric areas",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.Validate("zones"); err != nil {
			return err
		}
		proj4, err := crs.FromEPSG(cfg.Zones.EPSG)
		if err != nil {
			return err
		}
		zones, err := zone.LoadShapefile(cfg.Zones.Path, cfg.Zones.IDField, cfg.Zones.NameField, proj4)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ZONE ID\tZONE\tPOLYGONS\tAREA KM2")
		for _, z := range zones {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", z.ID, z.Name, z.Geom.NumPolygons(), z.AreaKM2())
		}
		return tw.Flush()
	},
}

func init() {
	zonesCmd.AddCommand(zonesListCmd)
	rootCmd.AddCommand(zonesCmd)
}
