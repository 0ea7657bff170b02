package export

import (
	"fmt"
	"strings"

	"riskcast/domain/simulation"

	"github.com/xuri/excelize/v2"
)

// metricColumns is the fixed column order of the metrics sheets
var metricColumns = []string{
	"mean", "median", "std",
	"p5", "p10", "p25", "p50", "p75", "p90", "p95",
	"prob_negative", "skewness", "kurtosis", "min", "max",
}

// WriteWorkbook writes a metrics workbook for one run: a summary sheet plus
// one sheet per output. Timeseries outputs get one row per time step.
func WriteWorkbook(results *simulation.Results, path string) error {
	if results == nil {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, results); err != nil {
		return err
	}

	for _, name := range results.OutputOrder {
		metrics := results.Metrics[name]
		sheet := sheetName(name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet for %q: %w", name, err)
		}
		if err := writeMetricsSheet(f, sheet, metrics); err != nil {
			return fmt.Errorf("writing sheet for %q: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, results *simulation.Results) error {
	rows := [][]interface{}{
		{"Run ID", results.RunID.String()},
		{"Trials", results.Trials},
		{"Seed", results.Seed},
		{"Created", results.CreatedAt.String()},
		{"Inputs", strings.Join(results.InputOrder, ", ")},
		{"Outputs", strings.Join(results.OutputOrder, ", ")},
	}
	for i, row := range rows {
		if err := setRow(f, "Summary", i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMetricsSheet(f *excelize.File, sheet string, metrics *simulation.OutputMetrics) error {
	header := make([]interface{}, 0, len(metricColumns)+1)
	header = append(header, "step")
	for _, c := range metricColumns {
		header = append(header, c)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	if metrics.Kind == simulation.OutputSingle {
		return setRow(f, sheet, 2, bundleRow("-", *metrics.Single))
	}
	for t, bundle := range metrics.PerStep {
		if err := setRow(f, sheet, t+2, bundleRow(fmt.Sprintf("%d", t), bundle)); err != nil {
			return err
		}
	}
	return nil
}

func bundleRow(step string, b simulation.MetricsBundle) []interface{} {
	return []interface{}{
		step,
		b.Mean, b.Median, b.Std,
		b.P5, b.P10, b.P25, b.P50, b.P75, b.P90, b.P95,
		b.ProbNegative, b.Skewness, b.Kurtosis, b.Min, b.Max,
	}
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// sheetName truncates an output name to Excel's 31-character sheet limit
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
