package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/coastwatch/habitat-cli/internal/model"
	"github.com/coastwatch/habitat-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect suitability run history",
	Long:  "Commands for listing and viewing saved suitability runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		species, _ := cmd.Flags().GetString("species")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{Species: species, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run:      %s\n", run.ID)
		fmt.Printf("Species:  %s\n", run.Species)
		fmt.Printf("Depth:    %.1f-%.1f m\n", run.MinDepthM, run.MaxDepthM)
		fmt.Printf("Temp:     %.1f-%.1f C\n", run.MinTempC, run.MaxTempC)
		fmt.Printf("Total:    %.2f km2\n", run.TotalKM2)
		fmt.Printf("Created:  %s\n", run.CreatedAt.Format(time.RFC3339))

		if len(run.Zones) > 0 {
			fmt.Println()
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ZONE ID\tZONE\tSUITABLE KM2")
			for _, za := range run.Zones {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\n", za.ZoneID, za.Name, za.AreaKM2)
			}
			if err := tw.Flush(); err != nil {
				return eris.Wrap(err, "runs show")
			}
		}
		return nil
	},
}

func formatRunsList(w io.Writer, runs []model.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSPECIES\tTOTAL KM2\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n",
			r.ID, r.Species, r.TotalKM2, r.CreatedAt.Format(time.RFC3339))
	}
	_ = tw.Flush()
}

func initStore(ctx context.Context) (*store.SQLiteStore, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func init() {
	runsListCmd.Flags().String("species", "", "filter by species")
	runsListCmd.Flags().Int("limit", 20, "max runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
