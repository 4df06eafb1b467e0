package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coastwatch/habitat-cli/internal/raster"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Preprocess rasters into one aligned NetCDF file",
	Long: `Reduces the SST composite stack to a mean layer, resamples the
bathymetry layer onto the SST grid (reprojecting if the reference systems
differ), and writes both aligned layers to a single NetCDF file. The
suitability command does this alignment on the fly; align exists to
inspect or cache the intermediate.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			return eris.New("align: --output is required")
		}

		in, err := loadInputs()
		if err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "align"))

		sst, err := raster.MeanReduce("sst_mean", in.SST)
		if err != nil {
			return err
		}
		depth, err := raster.Resample(in.Depth, sst, "depth")
		if err != nil {
			return err
		}

		for _, g := range []*raster.Grid{sst, depth} {
			s := raster.Summarize(g)
			log.Info("aligned layer",
				zap.String("layer", g.Name),
				zap.Int("valid_cells", s.Valid),
				zap.Int("nodata_cells", s.NoData),
				zap.Float64("min", s.Min),
				zap.Float64("max", s.Max),
				zap.Float64("mean", s.Mean),
			)
		}

		if err := raster.WriteNetCDF(out, sst, depth); err != nil {
			return err
		}
		fmt.Printf("Aligned layers written to %s\n", out)
		return nil
	},
}

func init() {
	alignCmd.Flags().String("output", "", "path of the NetCDF file to write")
	rootCmd.AddCommand(alignCmd)
}
