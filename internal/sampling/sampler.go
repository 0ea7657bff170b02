package sampling

import (
	"log"
	"math"
	"math/rand/v2"

	"riskcast/domain/core"
	"riskcast/domain/simulation"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws independent, identically-distributed samples for one
// variable at a time. All draws come from the single shared random source,
// so a fixed seed reproduces the full sample matrix as long as variables are
// sampled in a stable order.
type Sampler struct {
	src rand.Source
}

// New creates a sampler over the given random source
func New(src rand.Source) *Sampler {
	return &Sampler{src: src}
}

// Draw produces n independent draws from dist. Draws across variables are
// independent at this stage; correlation is injected afterward.
func (s *Sampler) Draw(dist simulation.Distribution, n int) ([]float64, error) {
	if n < 1 {
		return nil, core.ErrEmptySampleSet
	}
	if dist == nil {
		return nil, core.NewUnsupportedDistributionError("<nil>")
	}
	if err := dist.Validate(); err != nil {
		return nil, err
	}

	switch d := dist.(type) {
	case simulation.Normal:
		return s.fill(n, distuv.Normal{Mu: d.Mean, Sigma: d.Std, Src: s.src}.Rand), nil
	case simulation.LogNormal:
		mu, sigma := lognormalMoments(d.Mean, d.Std)
		return s.fill(n, distuv.LogNormal{Mu: mu, Sigma: sigma, Src: s.src}.Rand), nil
	case simulation.Uniform:
		return s.fill(n, distuv.Uniform{Min: d.Low, Max: d.High, Src: s.src}.Rand), nil
	case simulation.Triangular:
		tri := distuv.NewTriangle(d.Left, d.Right, d.Mode, s.src)
		return s.fill(n, tri.Rand), nil
	case simulation.BetaMoments:
		return s.drawBeta(d, n), nil
	default:
		return nil, core.NewUnsupportedDistributionError(string(dist.Kind()))
	}
}

func (s *Sampler) fill(n int, draw func() float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = draw()
	}
	return out
}

// lognormalMoments converts the lognormal's own mean/std into the underlying
// normal parameters by moment matching:
//
//	mu    = ln(mean^2 / sqrt(mean^2 + std^2))
//	sigma = sqrt(ln(1 + std^2/mean^2))
func lognormalMoments(mean, std float64) (mu, sigma float64) {
	m2 := mean * mean
	mu = math.Log(m2 / math.Sqrt(m2+std*std))
	sigma = math.Sqrt(math.Log(1 + std*std/m2))
	return mu, sigma
}

// drawBeta recovers alpha/beta from the requested mean/std by method of
// moments. The moments are only attainable when var < mean*(1-mean); an
// infeasible pair degrades to Uniform(0,1) for this variable, for this run,
// rather than failing.
func (s *Sampler) drawBeta(d simulation.BetaMoments, n int) []float64 {
	variance := d.Std * d.Std
	limit := d.Mean * (1 - d.Mean)
	if variance >= limit {
		log.Printf("beta(mean=%g, std=%g) has no feasible moment match; degrading to Uniform(0,1)", d.Mean, d.Std)
		return s.fill(n, distuv.Uniform{Min: 0, Max: 1, Src: s.src}.Rand)
	}
	scale := limit/variance - 1
	beta := distuv.Beta{
		Alpha: d.Mean * scale,
		Beta:  (1 - d.Mean) * scale,
		Src:   s.src,
	}
	return s.fill(n, beta.Rand)
}
