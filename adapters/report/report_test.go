package report

import (
	"context"
	"math"
	"strings"
	"testing"

	"riskcast/app"
	"riskcast/domain/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFixture(t *testing.T) *simulation.Results {
	t.Helper()
	engine := app.NewSimulationEngine(5_000, 42)
	require.NoError(t, engine.AddInput("driver", simulation.Normal{Mean: 100, Std: 10}, ""))
	require.NoError(t, engine.AddInput("noise", simulation.Uniform{Low: -1, High: 1}, ""))
	require.NoError(t, engine.AddScalarOutput("profit", func(s simulation.Sample) float64 {
		return s["driver"]*3 + s["noise"]
	}, ""))
	require.NoError(t, engine.AddSeriesOutput("path", func(s simulation.Sample) []float64 {
		return []float64{s["driver"], s["driver"] * 2}
	}, ""))

	results, err := engine.Run(context.Background())
	require.NoError(t, err)
	return results
}

func TestDrivers_RankedByAbsoluteCorrelation(t *testing.T) {
	results := runFixture(t)

	drivers, err := Drivers(results, "profit")
	require.NoError(t, err)
	require.Len(t, drivers, 2)

	// profit is almost entirely the driver variable.
	assert.Equal(t, "driver", drivers[0].Variable)
	assert.Greater(t, math.Abs(drivers[0].Correlation), 0.99)
	assert.Less(t, math.Abs(drivers[1].Correlation), 0.1)
}

func TestDrivers_RejectsTimeseriesOutput(t *testing.T) {
	results := runFixture(t)

	_, err := Drivers(results, "path")
	assert.Error(t, err)

	_, err = Drivers(results, "missing")
	assert.Error(t, err)
}

func TestMarkdown_ContainsOutputsAndDrivers(t *testing.T) {
	results := runFixture(t)

	md := Markdown(results)
	assert.Contains(t, md, "# Risk Report")
	assert.Contains(t, md, "## profit")
	assert.Contains(t, md, "## path")
	assert.Contains(t, md, "Drivers (|Pearson| vs output):")
	assert.Contains(t, md, results.RunID.String())
	// One table row per time step.
	assert.Equal(t, 2, strings.Count(md, "\n| 0 |")+strings.Count(md, "\n| 1 |"))
}

func TestHTML_RendersMarkdown(t *testing.T) {
	results := runFixture(t)

	html := string(HTML(results))
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "profit")
	assert.Contains(t, html, "<table>")
}
