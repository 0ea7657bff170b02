package simulation

import (
	"fmt"

	"riskcast/domain/core"
)

// MetricsBundle is the fixed record of summary statistics computed over the
// trial dimension of one output array. Percentiles use linear interpolation
// over the empirical distribution; Std is the population standard deviation;
// Kurtosis is excess kurtosis (normal = 0).
type MetricsBundle struct {
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Std          float64 `json:"std"`
	P5           float64 `json:"p5"`
	P10          float64 `json:"p10"`
	P25          float64 `json:"p25"`
	P50          float64 `json:"p50"`
	P75          float64 `json:"p75"`
	P90          float64 `json:"p90"`
	P95          float64 `json:"p95"`
	ProbNegative float64 `json:"prob_negative"`
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// Percentiles returns the seven fixed percentile points in ascending order
func (b MetricsBundle) Percentiles() []float64 {
	return []float64{b.P5, b.P10, b.P25, b.P50, b.P75, b.P90, b.P95}
}

// OutputResult holds the raw per-trial values of one output. Values is
// populated for single outputs; Series (trials x steps) for timeseries.
type OutputResult struct {
	Kind   OutputKind  `json:"kind"`
	Values []float64   `json:"values,omitempty"`
	Series [][]float64 `json:"series,omitempty"`
}

// Trials returns the number of rows in the result
func (r *OutputResult) Trials() int {
	if r.Kind == OutputTimeseries {
		return len(r.Series)
	}
	return len(r.Values)
}

// Steps returns the series length, or 1 for single outputs
func (r *OutputResult) Steps() int {
	if r.Kind == OutputTimeseries {
		if len(r.Series) == 0 {
			return 0
		}
		return len(r.Series[0])
	}
	return 1
}

// Step extracts the cross-trial slice at one time step of a timeseries result
func (r *OutputResult) Step(t int) ([]float64, error) {
	if r.Kind != OutputTimeseries {
		return nil, fmt.Errorf("step access on %s output", r.Kind)
	}
	if t < 0 || t >= r.Steps() {
		return nil, fmt.Errorf("step %d out of range [0, %d)", t, r.Steps())
	}
	out := make([]float64, len(r.Series))
	for i, row := range r.Series {
		out[i] = row[t]
	}
	return out, nil
}

// OutputMetrics carries the metric bundle(s) for one output: a single bundle
// for scalar outputs, one bundle per time step for timeseries outputs.
type OutputMetrics struct {
	Kind    OutputKind      `json:"kind"`
	Single  *MetricsBundle  `json:"single,omitempty"`
	PerStep []MetricsBundle `json:"per_step,omitempty"`
}

// Results is the terminal artifact of one run. It is created fresh by each
// Run call, replaces any prior results held by the engine, and is read-only
// thereafter; reporting and export collaborators consume it as-is.
type Results struct {
	RunID        core.RunID                `json:"run_id"`
	Seed         uint64                    `json:"seed"`
	Trials       int                       `json:"n_simulations"`
	InputOrder   []string                  `json:"input_order"`
	OutputOrder  []string                  `json:"output_order"`
	InputSamples map[string][]float64      `json:"input_samples"`
	Outputs      map[string]*OutputResult  `json:"outputs"`
	Metrics      map[string]*OutputMetrics `json:"metrics"`
	CreatedAt    core.Timestamp            `json:"created_at"`
}

// Output looks up the raw result array for one output name
func (r *Results) Output(name string) (*OutputResult, error) {
	out, ok := r.Outputs[name]
	if !ok {
		return nil, fmt.Errorf("output %q not found in results", name)
	}
	return out, nil
}

// MetricsFor looks up the metric bundle(s) for one output name
func (r *Results) MetricsFor(name string) (*OutputMetrics, error) {
	m, ok := r.Metrics[name]
	if !ok {
		return nil, fmt.Errorf("metrics for %q not found in results", name)
	}
	return m, nil
}

// Exceedance returns the empirical P(X >= threshold) over a scalar output
func (r *Results) Exceedance(name string, threshold float64) (float64, error) {
	out, err := r.Output(name)
	if err != nil {
		return 0, err
	}
	if out.Kind != OutputSingle {
		return 0, fmt.Errorf("exceedance requires a single output, %q is %s", name, out.Kind)
	}
	if len(out.Values) == 0 {
		return 0, core.ErrEmptySampleSet
	}
	count := 0
	for _, v := range out.Values {
		if v >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(out.Values)), nil
}

// SampleHash fingerprints the joint sample set for determinism checks
func (r *Results) SampleHash() core.SampleHash {
	return core.ComputeSampleHash(r.InputSamples)
}
