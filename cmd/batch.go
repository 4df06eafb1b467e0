package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coastwatch/habitat-cli/internal/model"
	"github.com/coastwatch/habitat-cli/internal/render"
	"github.com/coastwatch/habitat-cli/internal/suitability"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the suitability workflow for every species profile",
	Long: `Runs the workflow once per profile in the species file, sequentially,
writing a csv table and a choropleth map per species into the output
directory. Each invocation loads its own copy of the inputs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		profiles, err := model.LoadSpecies(cfg.Species.Path)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(profiles) > batchLimit {
			profiles = profiles[:batchLimit]
		}

		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return eris.Wrapf(err, "batch: create output dir %s", cfg.Output.Dir)
		}

		save, _ := cmd.Flags().GetBool("save")
		log := zap.L().With(zap.String("command", "batch"))

		var failed int
		for _, sp := range profiles {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			in, err := loadInputs()
			if err != nil {
				return err
			}

			res, err := suitability.Run(suitability.ParamsFromSpecies(sp), in)
			if err != nil {
				log.Warn("species run failed", zap.String("species", sp.Name), zap.Error(err))
				failed++
				continue
			}

			csvPath := filepath.Join(cfg.Output.Dir, sp.Name+".csv")
			if err := outputResult(res, "csv", csvPath); err != nil {
				return err
			}
			mapPath := filepath.Join(cfg.Output.Dir, sp.Name+".png")
			if err := render.Choropleth(mapPath, res, in.Zones, cfg.Output.MapWidth); err != nil {
				return err
			}

			if save {
				if _, err := saveResult(ctx, res); err != nil {
					return err
				}
			}

			log.Info("species complete",
				zap.String("species", sp.Name),
				zap.Float64("total_km2", res.TotalKM2),
			)
		}

		fmt.Printf("Processed %d species (%d failed), artifacts in %s\n",
			len(profiles)-failed, failed, cfg.Output.Dir)
		if failed > 0 {
			return eris.Errorf("batch: %d species failed", failed)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of species to process (0 = all)")
	batchCmd.Flags().Bool("save", false, "save each run to the history database")
	rootCmd.AddCommand(batchCmd)
}
