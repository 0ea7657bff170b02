package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"riskcast/adapters/export"
	"riskcast/adapters/report"
	"riskcast/app"
	"riskcast/domain/simulation"
	"riskcast/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment defaults")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	engine, err := buildFinancialExample(cfg.Simulation.Trials, cfg.Simulation.Seed)
	if err != nil {
		log.Fatalf("configuring engine: %v", err)
	}

	results, err := engine.Run(context.Background())
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	printSummary(results)

	if err := writeExports(cfg, results); err != nil {
		log.Fatalf("exporting results: %v", err)
	}
}

// buildFinancialExample wires the five-variable project-finance case: NPV of
// a five-year project plus its annual cash-flow path, with correlated
// revenue, cost and rate assumptions.
func buildFinancialExample(trials int, seed uint64) (*app.SimulationEngine, error) {
	engine := app.NewSimulationEngine(trials, seed)

	inputs := []struct {
		name string
		dist simulation.Distribution
		desc string
	}{
		{"initial_investment", simulation.Normal{Mean: 1_000_000, Std: 100_000}, "Initial capital investment ($)"},
		{"annual_revenue", simulation.Normal{Mean: 500_000, Std: 75_000}, "Annual revenue ($)"},
		{"operating_costs", simulation.LogNormal{Mean: 300_000, Std: 45_000}, "Annual operating costs ($)"},
		{"discount_rate", simulation.Triangular{Left: 0.08, Mode: 0.12, Right: 0.18}, "Annual discount rate"},
		{"revenue_growth", simulation.Uniform{Low: 0.02, High: 0.08}, "Annual revenue growth rate"},
	}
	for _, in := range inputs {
		if err := engine.AddInput(in.name, in.dist, in.desc); err != nil {
			return nil, err
		}
	}

	matrix := [][]float64{
		{1.0, 0.3, 0.2, -0.1, 0.0},
		{0.3, 1.0, 0.6, -0.2, 0.0},
		{0.2, 0.6, 1.0, 0.1, 0.0},
		{-0.1, -0.2, 0.1, 1.0, 0.3},
		{0.0, 0.0, 0.0, 0.3, 1.0},
	}
	names := []string{"initial_investment", "annual_revenue", "operating_costs", "discount_rate", "revenue_growth"}
	if err := engine.SetCorrelation(matrix, names); err != nil {
		return nil, err
	}

	if err := engine.AddScalarOutput("NPV", npv, "Net Present Value of 5-year project"); err != nil {
		return nil, err
	}
	if err := engine.AddSeriesOutput("Cash_Flows", cashFlows, "Annual cash flows over 5 years"); err != nil {
		return nil, err
	}
	return engine, nil
}

const projectYears = 5

func npv(s simulation.Sample) float64 {
	revenue := s["annual_revenue"]
	value := -s["initial_investment"]
	for year := 1; year <= projectYears; year++ {
		cashFlow := revenue - s["operating_costs"]
		value += cashFlow / math.Pow(1+s["discount_rate"], float64(year))
		revenue *= 1 + s["revenue_growth"]
	}
	return value
}

func cashFlows(s simulation.Sample) []float64 {
	flows := make([]float64, projectYears)
	revenue := s["annual_revenue"]
	for year := 0; year < projectYears; year++ {
		flows[year] = revenue - s["operating_costs"]
		revenue *= 1 + s["revenue_growth"]
	}
	return flows
}

func printSummary(results *simulation.Results) {
	m := results.Metrics["NPV"].Single
	fmt.Println("NPV risk metrics:")
	fmt.Printf("  Mean:     $%.2f\n", m.Mean)
	fmt.Printf("  Median:   $%.2f\n", m.Median)
	fmt.Printf("  Std Dev:  $%.2f\n", m.Std)
	fmt.Printf("  P5:       $%.2f\n", m.P5)
	fmt.Printf("  P95:      $%.2f\n", m.P95)
	fmt.Printf("  P(X < 0): %.1f%%\n", m.ProbNegative*100)
	fmt.Printf("  Skewness: %.2f\n", m.Skewness)
	fmt.Printf("  Kurtosis: %.2f\n", m.Kurtosis)
}

func writeExports(cfg *config.Config, results *simulation.Results) error {
	if !cfg.Export.JSON && !cfg.Export.Excel && !cfg.Export.ReportHTML {
		return nil
	}
	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		return err
	}
	if cfg.Export.JSON {
		path := filepath.Join(cfg.Export.Dir, "results.json")
		if err := export.WriteMetricsJSON(results, path); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	if cfg.Export.Excel {
		path := filepath.Join(cfg.Export.Dir, "metrics.xlsx")
		if err := export.WriteWorkbook(results, path); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	if cfg.Export.ReportHTML {
		path := filepath.Join(cfg.Export.Dir, "report.html")
		if err := os.WriteFile(path, report.HTML(results), 0o644); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}
