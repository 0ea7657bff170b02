package simulation

import (
	"fmt"
	"math"

	"riskcast/domain/core"
)

// Sample is one joint draw: a mapping from input variable name to its value
// for a single trial
type Sample map[string]float64

// InputVariable is a registered uncertain input: a named marginal
// distribution plus a free-text description
type InputVariable struct {
	Name        string       `json:"name"`
	Dist        Distribution `json:"-"`
	Description string       `json:"description,omitempty"`
}

// unitDiagonalTol bounds how far a correlation matrix diagonal may drift
// from exactly 1.
const unitDiagonalTol = 1e-9

// CorrelationSpec pairs a square correlation matrix with the ordered variable
// names its rows and columns refer to. At most one spec is active per engine;
// variables not named in it stay fully independent.
type CorrelationSpec struct {
	Matrix    [][]float64 `json:"matrix"`
	Variables []string    `json:"variables"`
}

// Validate checks shape only: square, matching name count, symmetric, unit
// diagonal. Positive semi-definiteness is established by the Cholesky
// factorization itself.
func (s *CorrelationSpec) Validate() error {
	n := len(s.Variables)
	if n == 0 {
		return core.NewCorrelationShapeError("no variables named")
	}
	if len(s.Matrix) != n {
		return core.NewCorrelationShapeError("matrix rows do not match variable count")
	}
	seen := make(map[string]bool, n)
	for _, v := range s.Variables {
		if v == "" {
			return core.NewCorrelationShapeError("empty variable name")
		}
		if seen[v] {
			return core.NewCorrelationShapeError("duplicate variable name " + v)
		}
		seen[v] = true
	}
	for i, row := range s.Matrix {
		if len(row) != n {
			return core.NewCorrelationShapeError("matrix is not square")
		}
		if math.Abs(row[i]-1) > unitDiagonalTol {
			return core.NewCorrelationShapeError("diagonal entries must equal 1")
		}
		for j := 0; j < i; j++ {
			if row[j] != s.Matrix[j][i] {
				return core.NewCorrelationShapeError("matrix is not symmetric")
			}
		}
	}
	return nil
}

// OutputKind distinguishes scalar-per-trial outputs from fixed-length
// time-series outputs
type OutputKind string

const (
	OutputSingle     OutputKind = "single"
	OutputTimeseries OutputKind = "timeseries"
)

// ParseOutputKind validates a loose kind string
func ParseOutputKind(s string) (OutputKind, error) {
	switch OutputKind(s) {
	case OutputSingle, OutputTimeseries:
		return OutputKind(s), nil
	default:
		return "", core.NewUnsupportedOutputKindError(s)
	}
}

// ScalarFunc maps one joint sample to a single value. It must be a pure
// function of the sample: no side effects, no cross-trial state, so trials
// may be evaluated in any order.
type ScalarFunc func(Sample) float64

// SeriesFunc maps one joint sample to a fixed-length sequence of values.
// The same purity rules as ScalarFunc apply, and every trial must return the
// same length.
type SeriesFunc func(Sample) []float64

// OutputSpec registers one output function with its kind tag carried
// alongside, so the evaluator never probes return shapes at runtime beyond
// the series length-consistency check.
type OutputSpec struct {
	Name        string
	Kind        OutputKind
	Scalar      ScalarFunc
	Series      SeriesFunc
	Description string
}

// Validate checks the kind tag matches the function that was supplied
func (o OutputSpec) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("output name cannot be empty")
	}
	switch o.Kind {
	case OutputSingle:
		if o.Scalar == nil {
			return core.NewUnsupportedOutputKindError("single output without scalar function")
		}
	case OutputTimeseries:
		if o.Series == nil {
			return core.NewUnsupportedOutputKindError("timeseries output without series function")
		}
	default:
		return core.NewUnsupportedOutputKindError(string(o.Kind))
	}
	return nil
}
