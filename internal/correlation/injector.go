package correlation

import (
	"riskcast/domain/core"
	"riskcast/domain/simulation"

	"gonum.org/v1/gonum/mat"
)

// Injector transforms independently-sampled marginals so that the variables
// named in a CorrelationSpec approximate its target correlation structure.
//
// The transform is a direct right-multiplication of the raw sample columns by
// the transpose of the lower Cholesky factor, not a rank-based copula. The
// realized Pearson correlation matches the target exactly only when the
// transformed marginals are normal; for lognormal, beta and the rest it is an
// approximation. Downstream consumers depend on these simple-transform
// semantics, so this must not be replaced with a copula.
type Injector struct{}

// New creates a correlation injector
func New() *Injector {
	return &Injector{}
}

// Factor validates the spec's shape and returns the lower Cholesky factor of
// its matrix. A matrix that is not positive semi-definite fails with
// ErrNotPositiveSemiDefinite.
func Factor(spec *simulation.CorrelationSpec) (*mat.TriDense, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	n := len(spec.Variables)
	data := make([]float64, 0, n*n)
	for _, row := range spec.Matrix {
		data = append(data, row...)
	}
	sym := mat.NewSymDense(n, data)

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, core.ErrNotPositiveSemiDefinite
	}
	l := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(l)
	return l, nil
}

// Apply returns the sample matrix with the spec's columns transformed to the
// target correlation structure. Variables not named in the spec pass through
// untouched, as does the whole matrix when spec is nil.
func (in *Injector) Apply(samples map[string][]float64, spec *simulation.CorrelationSpec) (map[string][]float64, error) {
	if spec == nil {
		return samples, nil
	}
	for _, name := range spec.Variables {
		if _, ok := samples[name]; !ok {
			return nil, core.NewCorrelationMismatchError(name)
		}
	}

	l, err := Factor(spec)
	if err != nil {
		return nil, err
	}

	nVars := len(spec.Variables)
	nTrials := len(samples[spec.Variables[0]])
	if nTrials == 0 {
		return nil, core.ErrEmptySampleSet
	}

	uncorrelated := mat.NewDense(nTrials, nVars, nil)
	for j, name := range spec.Variables {
		uncorrelated.SetCol(j, samples[name])
	}

	var correlated mat.Dense
	correlated.Mul(uncorrelated, l.T())

	out := make(map[string][]float64, len(samples))
	for name, col := range samples {
		out[name] = col
	}
	for j, name := range spec.Variables {
		col := make([]float64, nTrials)
		mat.Col(col, j, &correlated)
		out[name] = col
	}
	return out, nil
}
