package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"riskcast/app"
	"riskcast/domain/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func runFixture(t *testing.T) *simulation.Results {
	t.Helper()
	engine := app.NewSimulationEngine(500, 42)
	require.NoError(t, engine.AddInput("X", simulation.Normal{Mean: 100, Std: 10}, "driver"))
	require.NoError(t, engine.AddScalarOutput("Y", func(s simulation.Sample) float64 {
		return s["X"] * 2
	}, ""))
	require.NoError(t, engine.AddSeriesOutput("path", func(s simulation.Sample) []float64 {
		return []float64{s["X"], s["X"] + 1, s["X"] + 2}
	}, ""))

	results, err := engine.Run(context.Background())
	require.NoError(t, err)
	return results
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	results := runFixture(t)
	path := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, WriteJSON(results, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded simulation.Results
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, results.Trials, decoded.Trials)
	assert.Len(t, decoded.InputSamples["X"], 500)
	assert.InDelta(t, results.Metrics["Y"].Single.Mean, decoded.Metrics["Y"].Single.Mean, 1e-9)
	require.Len(t, decoded.Metrics["path"].PerStep, 3)
}

func TestWriteMetricsJSON_OmitsRawArrays(t *testing.T) {
	results := runFixture(t)
	path := filepath.Join(t.TempDir(), "metrics.json")

	require.NoError(t, WriteMetricsJSON(results, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "metrics")
	assert.NotContains(t, doc, "input_samples")
	assert.NotContains(t, doc, "outputs")
}

func TestWriteWorkbook(t *testing.T) {
	results := runFixture(t)
	path := filepath.Join(t.TempDir(), "metrics.xlsx")

	require.NoError(t, WriteWorkbook(results, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Y", "path"}, f.GetSheetList())

	header, err := f.GetCellValue("Y", "B1")
	require.NoError(t, err)
	assert.Equal(t, "mean", header)

	// Timeseries sheet carries one row per step.
	rows, err := f.GetRows("path")
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 steps
}

func TestWriteJSON_NilResults(t *testing.T) {
	assert.Error(t, WriteJSON(nil, filepath.Join(t.TempDir(), "x.json")))
	assert.Error(t, WriteWorkbook(nil, filepath.Join(t.TempDir(), "x.xlsx")))
}
