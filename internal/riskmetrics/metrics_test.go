package riskmetrics

import (
	"math"
	"math/rand/v2"
	"testing"

	"riskcast/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownSmallArray(t *testing.T) {
	b, err := Compute([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	assert.InDelta(t, 3, b.Mean, 1e-12)
	assert.InDelta(t, 3, b.Median, 1e-12)
	assert.InDelta(t, math.Sqrt(2), b.Std, 1e-12)
	assert.InDelta(t, 2, b.P25, 1e-12)
	assert.InDelta(t, 4, b.P75, 1e-12)
	assert.InDelta(t, 1, b.Min, 1e-12)
	assert.InDelta(t, 5, b.Max, 1e-12)
	assert.Zero(t, b.ProbNegative)
	assert.InDelta(t, 0, b.Skewness, 1e-12)
}

func TestCompute_InterpolatedPercentiles(t *testing.T) {
	// rank = p/100 * (n-1); p25 of [1,2,3,4] interpolates to 1.75.
	b, err := Compute([]float64{4, 1, 3, 2})
	require.NoError(t, err)

	assert.InDelta(t, 1.75, b.P25, 1e-12)
	assert.InDelta(t, 2.5, b.P50, 1e-12)
	assert.InDelta(t, 3.25, b.P75, 1e-12)
	assert.InDelta(t, 3.85, b.P95, 1e-12)
}

func TestCompute_ProbNegativeIsStrict(t *testing.T) {
	b, err := Compute([]float64{-2, -1, 0, 1})
	require.NoError(t, err)

	// Zero does not count as negative.
	assert.InDelta(t, 0.5, b.ProbNegative, 1e-12)
}

func TestCompute_ConstantArray(t *testing.T) {
	b, err := Compute([]float64{7, 7, 7, 7})
	require.NoError(t, err)

	assert.Zero(t, b.Std)
	assert.Zero(t, b.Skewness)
	assert.Zero(t, b.Kurtosis)
	assert.InDelta(t, 7, b.P5, 1e-12)
	assert.InDelta(t, 7, b.P95, 1e-12)
}

func TestCompute_SkewnessAndExcessKurtosis(t *testing.T) {
	// Right-skewed array; biased moment estimators.
	values := []float64{1, 1, 1, 1, 10}
	b, err := Compute(values)
	require.NoError(t, err)

	assert.Greater(t, b.Skewness, 1.0)
	// m3 = sum(d^3)/n with d standardized; cross-check against direct form.
	mean := 2.8
	std := b.Std
	var m3, m4 float64
	for _, v := range values {
		d := (v - mean) / std
		m3 += d * d * d
		m4 += d * d * d * d
	}
	assert.InDelta(t, m3/5, b.Skewness, 1e-9)
	assert.InDelta(t, m4/5-3, b.Kurtosis, 1e-9)
}

func TestCompute_PercentileMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 17))
	values := make([]float64, 10_000)
	for i := range values {
		values[i] = rng.NormFloat64()*50 - 10
	}

	b, err := Compute(values)
	require.NoError(t, err)

	ps := b.Percentiles()
	for i := 1; i < len(ps); i++ {
		assert.LessOrEqual(t, ps[i-1], ps[i])
	}
	assert.LessOrEqual(t, b.Min, b.P5)
	assert.LessOrEqual(t, b.P95, b.Max)
	assert.InDelta(t, b.Median, b.P50, 1e-12)
}

func TestCompute_EmptyFails(t *testing.T) {
	_, err := Compute(nil)
	assert.ErrorIs(t, err, core.ErrEmptySampleSet)
}

func TestComputeSeries_ColumnWise(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}

	bundles, err := ComputeSeries(rows)
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	assert.InDelta(t, 2, bundles[0].Mean, 1e-12)
	assert.InDelta(t, 20, bundles[1].Mean, 1e-12)
	assert.InDelta(t, 3, bundles[0].Max, 1e-12)
	assert.InDelta(t, 10, bundles[1].Min, 1e-12)
}

func TestComputeSeries_EmptyFails(t *testing.T) {
	_, err := ComputeSeries(nil)
	assert.ErrorIs(t, err, core.ErrEmptySampleSet)

	_, err = ComputeSeries([][]float64{{}})
	assert.ErrorIs(t, err, core.ErrEmptySampleSet)
}
