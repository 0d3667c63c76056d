// Package exporter writes analytics reports to CSV and xlsx files for the
// report CLI and downstream spreadsheet consumers.
//
// Insufficient-data results are rendered as the literal "insufficient data",
// never as a numeric 0 — the structural guarantee of the core carries all the
// way into the files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"spendpulse/pkg/contracts/domain"
)

// insufficientMarker is what a degenerate statistic renders as in exports.
const insufficientMarker = "insufficient data"

// cvUndefinedMarker renders a CV whose mean was zero.
const cvUndefinedMarker = "undefined"

// ReportWriter writes analytics reports into a target directory.
type ReportWriter struct {
	dir    string
	logger *slog.Logger
}

// NewReportWriter creates a writer rooted at dir.
func NewReportWriter(dir string, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{dir: dir, logger: logger}
}

// WriteProfilesCSV writes the per-supplier records to risk_profiles.csv and
// returns the file path.
func (w *ReportWriter) WriteProfilesCSV(report *domain.AnalyticsReport) (string, error) {
	headers := []string{
		"entity_id", "observations", "total_volume", "mean_volume", "stddev_volume",
		"cv_pct", "growth_rate_pct", "mean_quality",
		"outliers_flagged", "composite_score", "volatility_risk", "quality_risk",
		"volume_risk", "trend_risk", "risk_band",
	}

	records := make([][]string, 0, len(report.Profiles))
	for _, profile := range report.Profiles {
		records = append(records, profileRow(profile))
	}
	return w.writeCSV("risk_profiles.csv", headers, records)
}

// WriteThresholdsCSV writes the scope's threshold set to thresholds.csv.
func (w *ReportWriter) WriteThresholdsCSV(report *domain.AnalyticsReport) (string, error) {
	headers := []string{"threshold", "value"}
	set := report.Thresholds

	records := [][]string{
		{"computation_id", set.ID},
		{"scope", set.Scope.String()},
		{"computed_at", set.ComputedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"volume_inclusion_p10", taggedFloat(set.VolumeInclusion.P10, set.VolumeInclusion.InsufficientData)},
		{"supplier_count_q1", taggedFloat(set.SupplierCountQuartiles.Q1, set.SupplierCountQuartiles.InsufficientData)},
		{"supplier_count_median", taggedFloat(set.SupplierCountQuartiles.Median, set.SupplierCountQuartiles.InsufficientData)},
		{"supplier_count_q3", taggedFloat(set.SupplierCountQuartiles.Q3, set.SupplierCountQuartiles.InsufficientData)},
		{"volatility_q1", taggedFloat(set.VolatilityQuartiles.Q1, set.VolatilityQuartiles.InsufficientData)},
		{"volatility_median", taggedFloat(set.VolatilityQuartiles.Median, set.VolatilityQuartiles.InsufficientData)},
		{"volatility_q3", taggedFloat(set.VolatilityQuartiles.Q3, set.VolatilityQuartiles.InsufficientData)},
	}
	return w.writeCSV("thresholds.csv", headers, records)
}

func profileRow(profile domain.EntityProfile) []string {
	cv := cvUndefinedMarker
	if profile.CVDefined {
		cv = formatFloat(profile.CV)
	}
	growth := insufficientMarker
	if profile.GrowthDefined {
		growth = formatFloat(profile.GrowthRatePct)
	}
	outliers := insufficientMarker
	if !profile.Outliers.InsufficientData {
		count := 0
		for _, flag := range profile.Outliers.Flags {
			if flag.IsOutlier {
				count++
			}
		}
		outliers = strconv.Itoa(count)
	}

	row := []string{
		profile.EntityID,
		strconv.Itoa(profile.ObservationCount),
		formatFloat(profile.TotalVolume),
		formatFloat(profile.MeanVolume),
		formatFloat(profile.StdDevVolume),
		cv,
		growth,
		formatFloat(profile.MeanQuality),
		outliers,
	}
	if profile.Risk != nil {
		row = append(row,
			formatFloat(profile.Risk.CompositeScore),
			formatFloat(profile.Risk.ComponentScores.Volatility),
			formatFloat(profile.Risk.ComponentScores.Quality),
			formatFloat(profile.Risk.ComponentScores.Volume),
			formatFloat(profile.Risk.ComponentScores.Trend),
			profile.Risk.RiskBand,
		)
	} else {
		row = append(row, insufficientMarker, "", "", "", "", insufficientMarker)
	}
	return row
}

func (w *ReportWriter) writeCSV(name string, headers []string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(w.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", name, err)
	}

	w.logger.Info("wrote report file",
		slog.String("path", path),
		slog.Int("records", len(records)),
	)
	return path, nil
}

func taggedFloat(v float64, insufficient bool) string {
	if insufficient {
		return insufficientMarker
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
