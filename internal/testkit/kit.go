package testkit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the package tests. Kept free of engine imports
// so any package can use them.

// Pearson returns the empirical Pearson correlation of two equal-length
// sample arrays
func Pearson(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

// Mean returns the arithmetic mean
func Mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation
func Std(values []float64) float64 {
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// AssertWithin fails the test when got is not within tol of want
func AssertWithin(t *testing.T, want, got, tol float64, label string) {
	t.Helper()
	if diff := got - want; diff > tol || diff < -tol {
		t.Fatalf("%s: got %.6f, want %.6f (tolerance %.6f)", label, got, want, tol)
	}
}

// AssertBounded fails the test when any value falls outside [lo, hi]
func AssertBounded(t *testing.T, values []float64, lo, hi float64, label string) {
	t.Helper()
	for i, v := range values {
		if v < lo || v > hi {
			t.Fatalf("%s: value %.6f at index %d outside [%.2f, %.2f]", label, v, i, lo, hi)
		}
	}
}
