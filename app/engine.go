package app

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"runtime"
	"sync"

	"riskcast/domain/core"
	"riskcast/domain/simulation"
	"riskcast/internal/correlation"
	"riskcast/internal/riskmetrics"
	"riskcast/internal/sampling"
)

// EngineState tracks where an engine is in its lifecycle
type EngineState string

const (
	// StateConfiguring: registries are open but the engine cannot run yet
	StateConfiguring EngineState = "configuring"
	// StateReady: at least one input and one output are registered
	StateReady EngineState = "ready"
	// StateRunning: a run is in flight; registration calls are rejected
	StateRunning EngineState = "running"
	// StateCompleted: results from the latest run are available
	StateCompleted EngineState = "completed"
)

// SimulationEngine owns the input registry, the optional correlation spec,
// the output registry, the trial count, and a single seeded random source.
// Run drives sampling, correlation injection, output evaluation and metrics
// in sequence and assembles the results bundle.
//
// Registration calls replace prior entries under the same name and invalidate
// any completed results. Any registration (or a second Run) while a run is in
// flight fails with ErrConcurrentModification.
type SimulationEngine struct {
	mu    sync.Mutex
	state EngineState

	trials int
	seed   uint64

	inputs      map[string]simulation.InputVariable
	inputOrder  []string
	corr        *simulation.CorrelationSpec
	outputs     map[string]simulation.OutputSpec
	outputOrder []string

	results *simulation.Results
	workers int
}

// NewSimulationEngine creates an engine for the given trial count, seeded
// explicitly so a fixed seed reproduces the full results bundle.
func NewSimulationEngine(trials int, seed uint64) *SimulationEngine {
	return &SimulationEngine{
		state:   StateConfiguring,
		trials:  trials,
		seed:    seed,
		inputs:  make(map[string]simulation.InputVariable),
		outputs: make(map[string]simulation.OutputSpec),
		workers: runtime.NumCPU(),
	}
}

// State reports the engine's current lifecycle state
func (e *SimulationEngine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Trials returns the configured trial count
func (e *SimulationEngine) Trials() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trials
}

// Seed returns the configured random seed
func (e *SimulationEngine) Seed() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seed
}

// Results returns the results of the latest completed run, or nil
func (e *SimulationEngine) Results() *simulation.Results {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results
}

// AddInput registers (or replaces) an uncertain input variable
func (e *SimulationEngine) AddInput(name string, dist simulation.Distribution, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return core.ErrConcurrentModification
	}
	if name == "" {
		return fmt.Errorf("input name cannot be empty")
	}
	if dist == nil {
		return core.NewUnsupportedDistributionError("<nil>")
	}
	if err := dist.Validate(); err != nil {
		return err
	}
	if _, exists := e.inputs[name]; !exists {
		e.inputOrder = append(e.inputOrder, name)
	}
	e.inputs[name] = simulation.InputVariable{Name: name, Dist: dist, Description: description}
	e.invalidate()
	return nil
}

// AddInputFromParams registers an input from a loose kind string and
// parameter map, the form external configs arrive in
func (e *SimulationEngine) AddInputFromParams(name, kind string, params map[string]float64, description string) error {
	dist, err := simulation.ParseDistribution(kind, params)
	if err != nil {
		return err
	}
	return e.AddInput(name, dist, description)
}

// SetCorrelation registers the target correlation structure. Every named
// variable must already be registered, and the matrix must be symmetric with
// unit diagonal and positive semi-definite; a failed Cholesky factorization
// surfaces here rather than at run time.
func (e *SimulationEngine) SetCorrelation(matrix [][]float64, variables []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return core.ErrConcurrentModification
	}
	spec := &simulation.CorrelationSpec{Matrix: matrix, Variables: variables}
	if err := spec.Validate(); err != nil {
		return err
	}
	for _, v := range variables {
		if _, ok := e.inputs[v]; !ok {
			return core.NewCorrelationMismatchError(v)
		}
	}
	if _, err := correlation.Factor(spec); err != nil {
		return err
	}
	e.corr = spec
	e.invalidate()
	return nil
}

// ClearCorrelation removes the active correlation spec; all inputs sample
// independently again
func (e *SimulationEngine) ClearCorrelation() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return core.ErrConcurrentModification
	}
	e.corr = nil
	e.invalidate()
	return nil
}

// AddOutput registers (or replaces) an output function
func (e *SimulationEngine) AddOutput(spec simulation.OutputSpec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return core.ErrConcurrentModification
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, exists := e.outputs[spec.Name]; !exists {
		e.outputOrder = append(e.outputOrder, spec.Name)
	}
	e.outputs[spec.Name] = spec
	e.invalidate()
	return nil
}

// AddScalarOutput registers a scalar-per-trial output function
func (e *SimulationEngine) AddScalarOutput(name string, fn simulation.ScalarFunc, description string) error {
	return e.AddOutput(simulation.OutputSpec{
		Name:        name,
		Kind:        simulation.OutputSingle,
		Scalar:      fn,
		Description: description,
	})
}

// AddSeriesOutput registers a timeseries output function
func (e *SimulationEngine) AddSeriesOutput(name string, fn simulation.SeriesFunc, description string) error {
	return e.AddOutput(simulation.OutputSpec{
		Name:        name,
		Kind:        simulation.OutputTimeseries,
		Scalar:      nil,
		Series:      fn,
		Description: description,
	})
}

// invalidate discards completed results after any registry change and
// refreshes the configuring/ready state. Callers must hold e.mu.
func (e *SimulationEngine) invalidate() {
	e.results = nil
	if len(e.inputs) > 0 && len(e.outputs) > 0 {
		e.state = StateReady
	} else {
		e.state = StateConfiguring
	}
}

// snapshot captures an immutable view of the registries for one run.
// Callers must hold e.mu.
type snapshot struct {
	trials      int
	seed        uint64
	inputs      map[string]simulation.InputVariable
	inputOrder  []string
	corr        *simulation.CorrelationSpec
	outputs     map[string]simulation.OutputSpec
	outputOrder []string
}

func (e *SimulationEngine) snapshot() snapshot {
	inputs := make(map[string]simulation.InputVariable, len(e.inputs))
	for k, v := range e.inputs {
		inputs[k] = v
	}
	outputs := make(map[string]simulation.OutputSpec, len(e.outputs))
	for k, v := range e.outputs {
		outputs[k] = v
	}
	return snapshot{
		trials:      e.trials,
		seed:        e.seed,
		inputs:      inputs,
		inputOrder:  append([]string(nil), e.inputOrder...),
		corr:        e.corr,
		outputs:     outputs,
		outputOrder: append([]string(nil), e.outputOrder...),
	}
}

// Run executes one full Monte-Carlo experiment: sample every input, inject
// correlation if configured, evaluate every output, reduce to metrics, and
// return the assembled results. Each call is a fresh experiment; prior
// results are discarded. A failed or cancelled run exposes no partial
// results and leaves the registries untouched.
func (e *SimulationEngine) Run(ctx context.Context) (*simulation.Results, error) {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return nil, core.ErrConcurrentModification
	}
	if len(e.inputs) == 0 {
		e.mu.Unlock()
		return nil, core.NewEmptyRegistryError("no input variables registered")
	}
	if len(e.outputs) == 0 {
		e.mu.Unlock()
		return nil, core.NewEmptyRegistryError("no output functions registered")
	}
	if e.trials < 1 {
		e.mu.Unlock()
		return nil, core.ErrEmptySampleSet
	}
	snap := e.snapshot()
	e.results = nil
	e.state = StateRunning
	e.mu.Unlock()

	results, err := e.execute(ctx, snap)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateReady
		return nil, err
	}
	e.results = results
	e.state = StateCompleted
	return results, nil
}

func (e *SimulationEngine) execute(ctx context.Context, snap snapshot) (*simulation.Results, error) {
	log.Printf("running %d monte carlo trials: %d inputs, %d outputs", snap.trials, len(snap.inputs), len(snap.outputs))

	sampler := sampling.New(rand.NewPCG(snap.seed, snap.seed))
	samples := make(map[string][]float64, len(snap.inputs))
	for _, name := range snap.inputOrder {
		draws, err := sampler.Draw(snap.inputs[name].Dist, snap.trials)
		if err != nil {
			return nil, fmt.Errorf("sampling %q: %w", name, err)
		}
		samples[name] = draws
	}

	samples, err := correlation.New().Apply(samples, snap.corr)
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]*simulation.OutputResult, len(snap.outputs))
	metrics := make(map[string]*simulation.OutputMetrics, len(snap.outputs))
	for _, name := range snap.outputOrder {
		spec := snap.outputs[name]
		result, err := e.evaluate(ctx, spec, samples, snap.inputOrder, snap.trials)
		if err != nil {
			return nil, err
		}
		reduced, err := reduce(result)
		if err != nil {
			return nil, fmt.Errorf("metrics for %q: %w", name, err)
		}
		outputs[name] = result
		metrics[name] = reduced
	}

	results := &simulation.Results{
		RunID:        core.NewRunID(),
		Seed:         snap.seed,
		Trials:       snap.trials,
		InputOrder:   snap.inputOrder,
		OutputOrder:  snap.outputOrder,
		InputSamples: samples,
		Outputs:      outputs,
		Metrics:      metrics,
		CreatedAt:    core.Now(),
	}
	log.Printf("simulation complete: run %s", results.RunID)
	return results, nil
}

// reduce computes the metric bundle(s) for one output result
func reduce(result *simulation.OutputResult) (*simulation.OutputMetrics, error) {
	switch result.Kind {
	case simulation.OutputSingle:
		bundle, err := riskmetrics.Compute(result.Values)
		if err != nil {
			return nil, err
		}
		return &simulation.OutputMetrics{Kind: result.Kind, Single: &bundle}, nil
	case simulation.OutputTimeseries:
		perStep, err := riskmetrics.ComputeSeries(result.Series)
		if err != nil {
			return nil, err
		}
		return &simulation.OutputMetrics{Kind: result.Kind, PerStep: perStep}, nil
	default:
		return nil, core.NewUnsupportedOutputKindError(string(result.Kind))
	}
}
