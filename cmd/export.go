package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/coastwatch/habitat-cli/internal/render"
	"github.com/coastwatch/habitat-cli/internal/suitability"
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a saved run to csv or xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		if format != "csv" && format != "xlsx" {
			return eris.Errorf("export: --format must be csv or xlsx (got %q)", format)
		}
		if outputPath == "" {
			return eris.New("export: --output is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		// Rebuild the result shape the render writers expect.
		res := &suitability.Result{
			Species: run.Species,
			Params: suitability.Params{
				Species: run.Species,
				Depth:   suitability.Interval{Lo: run.MinDepthM, Hi: run.MaxDepthM},
				Temp:    suitability.Interval{Lo: run.MinTempC, Hi: run.MaxTempC},
			},
			ByZone:   run.Zones,
			TotalKM2: run.TotalKM2,
		}

		if format == "xlsx" {
			if err := render.WriteXLSX(outputPath, res); err != nil {
				return err
			}
		} else {
			f, err := os.Create(outputPath)
			if err != nil {
				return eris.Wrapf(err, "export: create %s", outputPath)
			}
			defer func() { _ = f.Close() }()
			if err := render.WriteCSV(f, res); err != nil {
				return err
			}
		}

		fmt.Printf("Run %s exported to %s\n", run.ID, outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "export format: csv or xlsx")
	exportCmd.Flags().String("output", "", "output file path")
	rootCmd.AddCommand(exportCmd)
}
