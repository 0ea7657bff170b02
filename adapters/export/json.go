package export

import (
	"encoding/json"
	"fmt"
	"os"

	"riskcast/domain/simulation"
)

// WriteJSON serializes the full results bundle (raw arrays included) to path.
// The results are consumed read-only; nothing in the engine depends on this.
func WriteJSON(results *simulation.Results, path string) error {
	if results == nil {
		return fmt.Errorf("no results to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

// metricsDocument is the compact export shape: metrics only, no raw arrays
type metricsDocument struct {
	RunID   string                               `json:"run_id"`
	Seed    uint64                               `json:"seed"`
	Trials  int                                  `json:"n_simulations"`
	Metrics map[string]*simulation.OutputMetrics `json:"metrics"`
}

// WriteMetricsJSON serializes only the metric bundles, the shape reporting
// dashboards consume when the raw sample arrays are too large to ship.
func WriteMetricsJSON(results *simulation.Results, path string) error {
	if results == nil {
		return fmt.Errorf("no results to export")
	}
	doc := metricsDocument{
		RunID:   results.RunID.String(),
		Seed:    results.Seed,
		Trials:  results.Trials,
		Metrics: results.Metrics,
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	return nil
}
