package exporter

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"spendpulse/pkg/contracts/domain"
)

// WriteWorkbook writes the full analytics report as an xlsx workbook with
// Summary, Profiles, Outliers, and Thresholds sheets, returning the path.
func (w *ReportWriter) WriteWorkbook(report *domain.AnalyticsReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, report); err != nil {
		return "", err
	}
	if err := writeProfilesSheet(f, report); err != nil {
		return "", err
	}
	if err := writeOutliersSheet(f, report); err != nil {
		return "", err
	}
	if err := writeThresholdsSheet(f, report); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, "analytics_report.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("wrote analytics workbook", "path", path, "suppliers", len(report.Profiles))
	return path, nil
}

func writeSummarySheet(f *excelize.File, report *domain.AnalyticsReport) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}

	summary := report.Summary
	rows := [][]interface{}{
		{"Scope", report.Scope.String()},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Suppliers", summary.SupplierCount},
		{},
		{"Volume benchmark", benchmarkCell(summary.VolumeBenchmark)},
		{"Quality benchmark", benchmarkCell(summary.QualityBenchmark)},
		{},
		{"HHI", summary.Concentration.HHI},
		{"Market structure", summary.Concentration.StructureLabel},
		{"Leader share %", summary.Concentration.LeaderShare},
		{"Significant players", summary.Concentration.SignificantPlayers},
		{},
		{"Low risk", summary.RiskDistribution.Low},
		{"Medium risk", summary.RiskDistribution.Medium},
		{"High risk", summary.RiskDistribution.High},
		{"Critical risk", summary.RiskDistribution.Critical},
	}
	return writeRows(f, sheet, rows, 1)
}

func writeProfilesSheet(f *excelize.File, report *domain.AnalyticsReport) error {
	const sheet = "Profiles"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create profiles sheet: %w", err)
	}

	rows := [][]interface{}{{
		"Entity", "Observations", "Total volume", "Mean volume", "CV %",
		"Growth %", "Mean quality", "Composite score", "Risk band",
	}}
	for _, profile := range report.Profiles {
		cv := interface{}(cvUndefinedMarker)
		if profile.CVDefined {
			cv = profile.CV
		}
		growth := interface{}(insufficientMarker)
		if profile.GrowthDefined {
			growth = profile.GrowthRatePct
		}
		composite, band := interface{}(insufficientMarker), insufficientMarker
		if profile.Risk != nil {
			composite = profile.Risk.CompositeScore
			band = profile.Risk.RiskBand
		}
		rows = append(rows, []interface{}{
			profile.EntityID, profile.ObservationCount, profile.TotalVolume,
			profile.MeanVolume, cv, growth, profile.MeanQuality, composite, band,
		})
	}
	return writeRows(f, sheet, rows, 1)
}

func writeOutliersSheet(f *excelize.File, report *domain.AnalyticsReport) error {
	const sheet = "Outliers"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create outliers sheet: %w", err)
	}

	rows := [][]interface{}{{"Entity", "Period", "Volume", "Type", "Magnitude"}}
	for _, profile := range report.Profiles {
		if profile.Outliers.InsufficientData {
			rows = append(rows, []interface{}{profile.EntityID, "", "", insufficientMarker, ""})
			continue
		}
		for _, flag := range profile.Outliers.Flags {
			if !flag.IsOutlier {
				continue
			}
			rows = append(rows, []interface{}{
				flag.EntityID, flag.Period, flag.Value, flag.OutlierType, flag.Magnitude,
			})
		}
	}
	return writeRows(f, sheet, rows, 1)
}

func writeThresholdsSheet(f *excelize.File, report *domain.AnalyticsReport) error {
	const sheet = "Thresholds"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create thresholds sheet: %w", err)
	}

	set := report.Thresholds
	rows := [][]interface{}{
		{"Computation", set.ID},
		{"Scope", set.Scope.String()},
		{"Volume inclusion P10", quartileCell(set.VolumeInclusion.P10, set.VolumeInclusion.InsufficientData)},
		{"Supplier count Q1", quartileCell(set.SupplierCountQuartiles.Q1, set.SupplierCountQuartiles.InsufficientData)},
		{"Supplier count median", quartileCell(set.SupplierCountQuartiles.Median, set.SupplierCountQuartiles.InsufficientData)},
		{"Supplier count Q3", quartileCell(set.SupplierCountQuartiles.Q3, set.SupplierCountQuartiles.InsufficientData)},
		{"Volatility Q1", quartileCell(set.VolatilityQuartiles.Q1, set.VolatilityQuartiles.InsufficientData)},
		{"Volatility median", quartileCell(set.VolatilityQuartiles.Median, set.VolatilityQuartiles.InsufficientData)},
		{"Volatility Q3", quartileCell(set.VolatilityQuartiles.Q3, set.VolatilityQuartiles.InsufficientData)},
	}
	return writeRows(f, sheet, rows, 1)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, startRow int) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, startRow+i)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func benchmarkCell(b domain.Benchmark) interface{} {
	if b.InsufficientData {
		return insufficientMarker
	}
	return fmt.Sprintf("p10=%.2f p25=%.2f p50=%.2f p75=%.2f p90=%.2f (n=%d)",
		b.P10, b.P25, b.P50, b.P75, b.P90, b.Count)
}

func quartileCell(v float64, insufficient bool) interface{} {
	if insufficient {
		return insufficientMarker
	}
	return v
}
