//go:build !integration

package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/habitat-cli/internal/config"
	"github.com/coastwatch/habitat-cli/internal/model"
	"github.com/coastwatch/habitat-cli/internal/store"
	"github.com/coastwatch/habitat-cli/internal/suitability"
)

const testSpeciesYAML = `species:
  - name: oyster
    min_depth_m: 0
    max_depth_m: 70
    min_temp_c: 11
    max_temp_c: 30
  - name: lobster
    min_depth_m: 0
    max_depth_m: 90
    min_temp_c: 23.7
    max_temp_c: 28
`

// setTestConfig points the package-level config at a temp directory with a
// species file and store database, restoring the old config afterwards.
func setTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	speciesPath := filepath.Join(dir, "species.yaml")
	require.NoError(t, os.WriteFile(speciesPath, []byte(testSpeciesYAML), 0o644))

	old := cfg
	cfg = &config.Config{}
	cfg.Species.Path = speciesPath
	cfg.Store.Path = filepath.Join(dir, "habitat.db")
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.MapWidth = 400
	t.Cleanup(func() { cfg = old })

	return dir
}

// resetSuitabilityFlags puts every suitability flag back to its default so
// tests do not leak flag state into each other.
func resetSuitabilityFlags(t *testing.T) {
	t.Helper()
	for flag, def := range map[string]string{
		"species":   "",
		"min-depth": "-1",
		"max-depth": "-1",
		"min-temp":  "-999",
		"max-temp":  "-999",
	} {
		require.NoError(t, suitabilityCmd.Flags().Set(flag, def))
	}
}

func TestResolveParams_FromProfile(t *testing.T) {
	setTestConfig(t)
	resetSuitabilityFlags(t)
	require.NoError(t, suitabilityCmd.Flags().Set("species", "oyster"))

	params, err := resolveParams(suitabilityCmd)
	require.NoError(t, err)

	assert.Equal(t, "oyster", params.Species)
	assert.Equal(t, suitability.Interval{Lo: 0, Hi: 70}, params.Depth)
	assert.Equal(t, suitability.Interval{Lo: 11, Hi: 30}, params.Temp)
}

func TestResolveParams_FlagOverrides(t *testing.T) {
	setTestConfig(t)
	resetSuitabilityFlags(t)
	require.NoError(t, suitabilityCmd.Flags().Set("species", "oyster"))
	require.NoError(t, suitabilityCmd.Flags().Set("max-depth", "40"))
	require.NoError(t, suitabilityCmd.Flags().Set("min-temp", "15"))

	params, err := resolveParams(suitabilityCmd)
	require.NoError(t, err)

	// Overridden bounds replace the profile; the rest stay.
	assert.Equal(t, suitability.Interval{Lo: 0, Hi: 40}, params.Depth)
	assert.Equal(t, suitability.Interval{Lo: 15, Hi: 30}, params.Temp)
}

func TestResolveParams_UnknownSpeciesExplicitBounds(t *testing.T) {
	setTestConfig(t)
	resetSuitabilityFlags(t)
	require.NoError(t, suitabilityCmd.Flags().Set("species", "kelp"))
	require.NoError(t, suitabilityCmd.Flags().Set("min-depth", "0"))
	require.NoError(t, suitabilityCmd.Flags().Set("max-depth", "30"))
	require.NoError(t, suitabilityCmd.Flags().Set("min-temp", "5"))
	require.NoError(t, suitabilityCmd.Flags().Set("max-temp", "20"))

	params, err := resolveParams(suitabilityCmd)
	require.NoError(t, err)
	assert.Equal(t, "kelp", params.Species)
	assert.Equal(t, suitability.Interval{Lo: 5, Hi: 20}, params.Temp)
}

func TestResolveParams_UnknownSpeciesNoBounds(t *testing.T) {
	setTestConfig(t)
	resetSuitabilityFlags(t)
	require.NoError(t, suitabilityCmd.Flags().Set("species", "oystr"))

	_, err := resolveParams(suitabilityCmd)
	require.Error(t, err, "a typo'd name must not fall through to zero-width windows")
	assert.Contains(t, err.Error(), "oystr")

	// Partial overrides are not enough either.
	require.NoError(t, suitabilityCmd.Flags().Set("max-depth", "40"))
	_, err = resolveParams(suitabilityCmd)
	assert.Error(t, err)
}

func TestResolveParams_MissingProfileFile(t *testing.T) {
	setTestConfig(t)
	resetSuitabilityFlags(t)
	cfg.Species.Path = filepath.Join(t.TempDir(), "nope.yaml")
	require.NoError(t, suitabilityCmd.Flags().Set("species", "oyster"))

	_, err := resolveParams(suitabilityCmd)
	assert.Error(t, err, "no profile file and no explicit bounds")

	for flag, val := range map[string]string{
		"min-depth": "0", "max-depth": "30", "min-temp": "5", "max-temp": "20",
	} {
		require.NoError(t, suitabilityCmd.Flags().Set(flag, val))
	}
	params, err := resolveParams(suitabilityCmd)
	require.NoError(t, err)
	assert.Equal(t, suitability.Interval{Lo: 0, Hi: 30}, params.Depth)
}

func TestResolveParams_Errors(t *testing.T) {
	setTestConfig(t)
	resetSuitabilityFlags(t)

	// Species flag is required.
	_, err := resolveParams(suitabilityCmd)
	assert.Error(t, err)

	// Inverted window from an override is rejected.
	require.NoError(t, suitabilityCmd.Flags().Set("species", "oyster"))
	require.NoError(t, suitabilityCmd.Flags().Set("max-depth", "0"))
	require.NoError(t, suitabilityCmd.Flags().Set("min-depth", "50"))
	_, err = resolveParams(suitabilityCmd)
	assert.Error(t, err)
}

func TestOutputResult_CSVToFile(t *testing.T) {
	dir := setTestConfig(t)
	res := &suitability.Result{
		Species: "oyster",
		ByZone: []model.ZoneArea{
			{ZoneID: "137", Name: "Oregon", AreaKM2: 1200},
		},
		TotalKM2: 1200,
	}

	path := filepath.Join(dir, "out.csv")
	require.NoError(t, outputResult(res, "csv", path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"oyster", "137", "Oregon", "1200.00"}, records[1])
}

func TestSaveResultRoundTrip(t *testing.T) {
	setTestConfig(t)
	ctx := context.Background()

	res := &suitability.Result{
		Species: "oyster",
		Params: suitability.Params{
			Species: "oyster",
			Depth:   suitability.Interval{Lo: 0, Hi: 70},
			Temp:    suitability.Interval{Lo: 11, Hi: 30},
		},
		ByZone: []model.ZoneArea{
			{ZoneID: "137", Name: "Oregon", AreaKM2: 1200},
			{ZoneID: "16", Name: "Washington", AreaKM2: 300},
		},
		TotalKM2: 1500,
	}

	run, err := saveResult(ctx, res)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	st, err := initStore(ctx)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "oyster", got.Species)
	assert.InDelta(t, 70.0, got.MaxDepthM, 1e-9)
	assert.InDelta(t, 1500.0, got.TotalKM2, 1e-9)
	require.Len(t, got.Zones, 2)
	assert.Equal(t, "137", got.Zones[0].ZoneID)
}

func TestInitStore_RequiresPath(t *testing.T) {
	setTestConfig(t)
	cfg.Store.Path = ""

	_, err := initStore(context.Background())
	assert.Error(t, err)
}

func TestSaveResult(t *testing.T) {
	setTestConfig(t)

	res := &suitability.Result{
		Species:  "lobster",
		Params:   suitability.Params{Species: "lobster"},
		TotalKM2: 0,
	}
	run, err := saveResult(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, "lobster", run.Species)
	assert.False(t, run.CreatedAt.IsZero())
	assert.LessOrEqual(t, run.CreatedAt.Unix(), store.NowUTC().Unix())
}
