package simulation

import (
	"riskcast/domain/core"
)

// DistributionKind identifies one of the supported marginal distributions
type DistributionKind string

const (
	KindNormal     DistributionKind = "normal"
	KindLogNormal  DistributionKind = "lognormal"
	KindUniform    DistributionKind = "uniform"
	KindTriangular DistributionKind = "triangular"
	KindBeta       DistributionKind = "beta"
)

// Distribution is the closed set of marginal distributions an input variable
// may carry. Each variant holds its own strongly-typed parameter record;
// the sampler dispatches over the concrete types.
type Distribution interface {
	Kind() DistributionKind
	Validate() error

	isDistribution()
}

// Normal is parameterized by its mean and standard deviation
type Normal struct {
	Mean float64
	Std  float64
}

func (Normal) Kind() DistributionKind { return KindNormal }
func (Normal) isDistribution()        {}

func (d Normal) Validate() error {
	if d.Std <= 0 {
		return core.NewParameterError(string(KindNormal), "std must be positive")
	}
	return nil
}

// LogNormal is parameterized by the mean and standard deviation of the
// lognormal itself, not of the underlying normal. The sampler converts via
// moment matching.
type LogNormal struct {
	Mean float64
	Std  float64
}

func (LogNormal) Kind() DistributionKind { return KindLogNormal }
func (LogNormal) isDistribution()        {}

func (d LogNormal) Validate() error {
	if d.Mean <= 0 {
		return core.NewParameterError(string(KindLogNormal), "mean must be positive")
	}
	if d.Std <= 0 {
		return core.NewParameterError(string(KindLogNormal), "std must be positive")
	}
	return nil
}

// Uniform draws on the half-open interval [Low, High)
type Uniform struct {
	Low  float64
	High float64
}

func (Uniform) Kind() DistributionKind { return KindUniform }
func (Uniform) isDistribution()        {}

func (d Uniform) Validate() error {
	if d.Low >= d.High {
		return core.NewParameterError(string(KindUniform), "low must be less than high")
	}
	return nil
}

// Triangular is parameterized by its left edge, mode, and right edge
type Triangular struct {
	Left  float64
	Mode  float64
	Right float64
}

func (Triangular) Kind() DistributionKind { return KindTriangular }
func (Triangular) isDistribution()        {}

func (d Triangular) Validate() error {
	if d.Left >= d.Right {
		return core.NewParameterError(string(KindTriangular), "left must be less than right")
	}
	if d.Mode < d.Left || d.Mode > d.Right {
		return core.NewParameterError(string(KindTriangular), "mode must lie between left and right")
	}
	return nil
}

// BetaMoments is a beta distribution parameterized by its mean and standard
// deviation; the sampler recovers alpha/beta by method of moments. An
// infeasible pair (var >= mean*(1-mean)) is not a validation error: the
// sampler degrades to Uniform(0,1) for that variable.
type BetaMoments struct {
	Mean float64
	Std  float64
}

func (BetaMoments) Kind() DistributionKind { return KindBeta }
func (BetaMoments) isDistribution()        {}

func (d BetaMoments) Validate() error {
	if d.Mean <= 0 || d.Mean >= 1 {
		return core.NewParameterError(string(KindBeta), "mean must lie in (0, 1)")
	}
	if d.Std <= 0 {
		return core.NewParameterError(string(KindBeta), "std must be positive")
	}
	return nil
}

// ParseDistribution builds a Distribution from a loose kind string and
// parameter map, the form external configs describe variables in. Unknown
// kinds fail with ErrUnsupportedDistribution; missing parameters fail with
// ErrInvalidParameters.
func ParseDistribution(kind string, params map[string]float64) (Distribution, error) {
	get := func(name string) (float64, error) {
		v, ok := params[name]
		if !ok {
			return 0, core.NewMissingParameterError(kind, name)
		}
		return v, nil
	}

	var dist Distribution
	switch DistributionKind(kind) {
	case KindNormal:
		mean, err := get("mean")
		if err != nil {
			return nil, err
		}
		std, err := get("std")
		if err != nil {
			return nil, err
		}
		dist = Normal{Mean: mean, Std: std}
	case KindLogNormal:
		mean, err := get("mean")
		if err != nil {
			return nil, err
		}
		std, err := get("std")
		if err != nil {
			return nil, err
		}
		dist = LogNormal{Mean: mean, Std: std}
	case KindUniform:
		low, err := get("low")
		if err != nil {
			return nil, err
		}
		high, err := get("high")
		if err != nil {
			return nil, err
		}
		dist = Uniform{Low: low, High: high}
	case KindTriangular:
		left, err := get("left")
		if err != nil {
			return nil, err
		}
		mode, err := get("mode")
		if err != nil {
			return nil, err
		}
		right, err := get("right")
		if err != nil {
			return nil, err
		}
		dist = Triangular{Left: left, Mode: mode, Right: right}
	case KindBeta:
		mean, err := get("mean")
		if err != nil {
			return nil, err
		}
		std, err := get("std")
		if err != nil {
			return nil, err
		}
		dist = BetaMoments{Mean: mean, Std: std}
	default:
		return nil, core.NewUnsupportedDistributionError(kind)
	}

	if err := dist.Validate(); err != nil {
		return nil, err
	}
	return dist, nil
}
