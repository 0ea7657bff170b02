package app

import (
	"context"

	"riskcast/domain/core"
	"riskcast/domain/simulation"

	"golang.org/x/sync/errgroup"
)

// rowSample builds the {variable: value} mapping for trial i. Each trial gets
// its own mapping so output functions can never observe another trial's row.
func rowSample(samples map[string][]float64, order []string, i int) simulation.Sample {
	row := make(simulation.Sample, len(order))
	for _, name := range order {
		row[name] = samples[name][i]
	}
	return row
}

// evaluate runs one output function over every trial row. Output functions
// are pure by contract, so trials fan out across workers; every result lands
// at its own trial index and the assembled array is identical to sequential
// evaluation.
func (e *SimulationEngine) evaluate(ctx context.Context, spec simulation.OutputSpec, samples map[string][]float64, order []string, trials int) (*simulation.OutputResult, error) {
	switch spec.Kind {
	case simulation.OutputSingle:
		values := make([]float64, trials)
		err := e.forEachTrial(ctx, 0, trials, func(i int) error {
			values[i] = spec.Scalar(rowSample(samples, order, i))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &simulation.OutputResult{Kind: spec.Kind, Values: values}, nil

	case simulation.OutputTimeseries:
		series := make([][]float64, trials)
		// Trial 0 fixes the series length; every later trial must match it.
		series[0] = spec.Series(rowSample(samples, order, 0))
		steps := len(series[0])
		err := e.forEachTrial(ctx, 1, trials, func(i int) error {
			row := spec.Series(rowSample(samples, order, i))
			if len(row) != steps {
				return core.NewSeriesLengthError(spec.Name, steps, len(row))
			}
			series[i] = row
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &simulation.OutputResult{Kind: spec.Kind, Series: series}, nil

	default:
		return nil, core.NewUnsupportedOutputKindError(string(spec.Kind))
	}
}

// forEachTrial applies fn to every trial index in [from, to), fanned out in
// contiguous chunks across the engine's worker budget. Completion order is
// irrelevant; writes are per-index.
func (e *SimulationEngine) forEachTrial(ctx context.Context, from, to int, fn func(int) error) error {
	span := to - from
	if span <= 0 {
		return nil
	}
	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (span + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := from; lo < to; lo += chunk {
		hi := min(lo+chunk, to)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
