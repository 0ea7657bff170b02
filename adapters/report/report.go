package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"riskcast/domain/simulation"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gonum.org/v1/gonum/stat"
)

// Driver ranks one input variable's influence on an output by the absolute
// Pearson correlation between its samples and the output values
type Driver struct {
	Variable    string  `json:"variable"`
	Correlation float64 `json:"correlation"`
}

// Drivers ranks every input against one scalar output, strongest first.
// This is the computation behind a tornado chart; rendering the chart itself
// is someone else's job.
func Drivers(results *simulation.Results, output string) ([]Driver, error) {
	out, err := results.Output(output)
	if err != nil {
		return nil, err
	}
	if out.Kind != simulation.OutputSingle {
		return nil, fmt.Errorf("driver ranking requires a single output, %q is %s", output, out.Kind)
	}

	drivers := make([]Driver, 0, len(results.InputOrder))
	for _, name := range results.InputOrder {
		r := stat.Correlation(results.InputSamples[name], out.Values, nil)
		drivers = append(drivers, Driver{Variable: name, Correlation: r})
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		return math.Abs(drivers[i].Correlation) > math.Abs(drivers[j].Correlation)
	})
	return drivers, nil
}

// Markdown renders a risk report over a completed run: one metric table per
// output and a driver ranking per scalar output
func Markdown(results *simulation.Results) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Risk Report\n\n")
	fmt.Fprintf(&b, "Run `%s` — %d trials, seed %d, %s\n\n",
		results.RunID, results.Trials, results.Seed, results.CreatedAt)

	for _, name := range results.OutputOrder {
		metrics := results.Metrics[name]
		fmt.Fprintf(&b, "## %s\n\n", name)
		switch metrics.Kind {
		case simulation.OutputSingle:
			writeBundleTable(&b, []simulation.MetricsBundle{*metrics.Single}, false)
			writeDrivers(&b, results, name)
		case simulation.OutputTimeseries:
			writeBundleTable(&b, metrics.PerStep, true)
		}
	}
	return b.String()
}

// HTML renders the markdown report to HTML via gomarkdown
func HTML(results *simulation.Results) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(results)), p, renderer)
}

func writeBundleTable(b *strings.Builder, bundles []simulation.MetricsBundle, withStep bool) {
	if withStep {
		b.WriteString("| step ")
	} else {
		b.WriteString("| ")
	}
	b.WriteString("| mean | median | std | p5 | p50 | p95 | P(X<0) | skew | kurt | min | max |\n")
	b.WriteString("|" + strings.Repeat("---|", 12) + "\n")
	for t, m := range bundles {
		if withStep {
			fmt.Fprintf(b, "| %d ", t)
		} else {
			b.WriteString("| ")
		}
		fmt.Fprintf(b, "| %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %.2f%% | %.3f | %.3f | %.4g | %.4g |\n",
			m.Mean, m.Median, m.Std, m.P5, m.P50, m.P95, m.ProbNegative*100, m.Skewness, m.Kurtosis, m.Min, m.Max)
	}
	b.WriteString("\n")
}

func writeDrivers(b *strings.Builder, results *simulation.Results, output string) {
	drivers, err := Drivers(results, output)
	if err != nil || len(drivers) == 0 {
		return
	}
	b.WriteString("Drivers (|Pearson| vs output):\n\n")
	for _, d := range drivers {
		fmt.Fprintf(b, "- %s: %.3f\n", d.Variable, d.Correlation)
	}
	b.WriteString("\n")
}
