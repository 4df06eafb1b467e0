package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coastwatch/habitat-cli/internal/model"
	"github.com/coastwatch/habitat-cli/internal/render"
	"github.com/coastwatch/habitat-cli/internal/store"
	"github.com/coastwatch/habitat-cli/internal/suitability"
)

var suitabilityCmd = &cobra.Command{
	Use:   "suitability",
	Short: "Map suitable habitat area per zone for one species",
	Long: `Runs the suitability workflow for a single species: reduces the
SST composite stack to a mean layer, aligns bathymetry onto the SST grid,
classifies both tolerance windows, combines the masks, and aggregates
suitable area per exclusive economic zone.

The species comes from the profile file (--species) or from explicit bound
flags; explicit flags override the profile values.

Examples:
  # Run the oyster profile and print a table
  habitat-cli suitability --species oyster

  # Explicit bounds, csv to a file, plus a choropleth map
  habitat-cli suitability --species lobster --min-temp 23.7 --max-temp 28 \
    --max-depth 90 --format csv --output lobster.csv --map lobster.png

  # Persist the run for later export
  habitat-cli suitability --species oyster --save`,
	RunE: runSuitability,
}

func init() {
	f := suitabilityCmd.Flags()
	f.String("species", "", "species profile name (required unless all bounds given)")
	f.Float64("min-depth", -1, "minimum depth in meters (overrides profile)")
	f.Float64("max-depth", -1, "maximum depth in meters (overrides profile)")
	f.Float64("min-temp", -999, "minimum temperature in Celsius (overrides profile)")
	f.Float64("max-temp", -999, "maximum temperature in Celsius (overrides profile)")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	f.String("map", "", "write a choropleth PNG to this path")
	f.Bool("save", false, "save the run to the history database")

	rootCmd.AddCommand(suitabilityCmd)
}

func runSuitability(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" {
		return eris.Errorf("suitability: --format must be table or csv (got %q)", format)
	}

	params, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	in, err := loadInputs()
	if err != nil {
		return err
	}

	res, err := suitability.Run(params, in)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if err := outputResult(res, format, outputPath); err != nil {
		return err
	}

	if mapPath, _ := cmd.Flags().GetString("map"); mapPath != "" {
		if err := render.Choropleth(mapPath, res, in.Zones, cfg.Output.MapWidth); err != nil {
			return err
		}
		fmt.Printf("Map written to %s\n", mapPath)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		run, err := saveResult(ctx, res)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s saved\n", run.ID)
	}

	return nil
}

// resolveParams builds workflow parameters from the species profile file
// with explicit bound flags layered on top.
func resolveParams(cmd *cobra.Command) (suitability.Params, error) {
	name, _ := cmd.Flags().GetString("species")
	if name == "" {
		return suitability.Params{}, eris.New("suitability: --species is required")
	}

	minDepth, _ := cmd.Flags().GetFloat64("min-depth")
	maxDepth, _ := cmd.Flags().GetFloat64("max-depth")
	minTemp, _ := cmd.Flags().GetFloat64("min-temp")
	maxTemp, _ := cmd.Flags().GetFloat64("max-temp")
	allBounds := minDepth >= 0 && maxDepth >= 0 && minTemp > -999 && maxTemp > -999

	// A name with no profile is only valid when every bound is explicit;
	// otherwise a typo would run a degenerate zero-width workflow.
	sp := model.Species{Name: name}
	profiles, err := model.LoadSpecies(cfg.Species.Path)
	if err == nil {
		found, ferr := model.FindSpecies(profiles, name)
		if ferr != nil && !allBounds {
			return suitability.Params{}, ferr
		}
		if ferr == nil {
			sp = found
		}
	} else {
		if !allBounds {
			return suitability.Params{}, eris.Wrapf(err, "suitability: species %q needs a profile or all four bound flags", name)
		}
		zap.L().Debug("no species profile file, relying on explicit bounds", zap.Error(err))
	}

	if minDepth >= 0 {
		sp.MinDepthM = minDepth
	}
	if maxDepth >= 0 {
		sp.MaxDepthM = maxDepth
	}
	if minTemp > -999 {
		sp.MinTempC = minTemp
	}
	if maxTemp > -999 {
		sp.MaxTempC = maxTemp
	}

	if err := sp.Validate(); err != nil {
		return suitability.Params{}, err
	}
	return suitability.ParamsFromSpecies(sp), nil
}

func outputResult(res *suitability.Result, format, path string) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "suitability: create %s", path)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if format == "csv" {
		return render.WriteCSV(w, res)
	}
	return render.WriteTable(w, res)
}

// saveResult persists a workflow result to the run-history database.
func saveResult(ctx context.Context, res *suitability.Result) (*model.Run, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}

	run := &model.Run{
		ID:        uuid.New().String(),
		Species:   res.Species,
		MinDepthM: res.Params.Depth.Lo,
		MaxDepthM: res.Params.Depth.Hi,
		MinTempC:  res.Params.Temp.Lo,
		MaxTempC:  res.Params.Temp.Hi,
		TotalKM2:  res.TotalKM2,
		Zones:     res.ByZone,
		CreatedAt: store.NowUTC(),
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}
