package riskmetrics

import (
	"math"
	"sort"

	"riskcast/domain/core"
	"riskcast/domain/simulation"

	"github.com/montanaflynn/stats"
)

// Compute reduces one array of per-trial values into the fixed risk-metric
// bundle. It performs no mutation; an empty array fails with
// ErrEmptySampleSet.
func Compute(values []float64) (simulation.MetricsBundle, error) {
	if len(values) == 0 {
		return simulation.MetricsBundle{}, core.ErrEmptySampleSet
	}

	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviation(values)
	minVal, _ := stats.Min(values)
	maxVal, _ := stats.Max(values)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	negative := 0
	for _, v := range values {
		if v < 0 {
			negative++
		}
	}

	skewness, kurtosis := standardizedMoments(values, mean, std)

	return simulation.MetricsBundle{
		Mean:         mean,
		Median:       percentile(sorted, 50),
		Std:          std,
		P5:           percentile(sorted, 5),
		P10:          percentile(sorted, 10),
		P25:          percentile(sorted, 25),
		P50:          percentile(sorted, 50),
		P75:          percentile(sorted, 75),
		P90:          percentile(sorted, 90),
		P95:          percentile(sorted, 95),
		ProbNegative: float64(negative) / float64(len(values)),
		Skewness:     skewness,
		Kurtosis:     kurtosis,
		Min:          minVal,
		Max:          maxVal,
	}, nil
}

// ComputeSeries applies the same reduction independently to each time step of
// an N x T array (trial dimension fixed, time dimension varies), returning
// one bundle per step.
func ComputeSeries(rows [][]float64) ([]simulation.MetricsBundle, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, core.ErrEmptySampleSet
	}
	steps := len(rows[0])
	bundles := make([]simulation.MetricsBundle, steps)
	column := make([]float64, len(rows))
	for t := 0; t < steps; t++ {
		for i, row := range rows {
			column[i] = row[t]
		}
		b, err := Compute(column)
		if err != nil {
			return nil, err
		}
		bundles[t] = b
	}
	return bundles, nil
}

// percentile is the linear-interpolation percentile over the empirical
// distribution: rank = p/100 * (n-1), fractional ranks interpolate between
// neighboring order statistics. montanaflynn's Percentile is midpoint-based
// and does not match this definition, so it is computed here directly.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// standardizedMoments returns the moment-based Fisher skewness and excess
// kurtosis (normal = 0). A zero-variance array yields zero for both.
func standardizedMoments(values []float64, mean, std float64) (skewness, kurtosis float64) {
	if std == 0 {
		return 0, 0
	}
	n := float64(len(values))
	var m3, m4 float64
	for _, v := range values {
		d := (v - mean) / std
		d2 := d * d
		m3 += d2 * d
		m4 += d2 * d2
	}
	return m3 / n, m4/n - 3
}
