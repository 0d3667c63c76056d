package exporter

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spendpulse/pkg/contracts/domain"
)

func reportFixture() *domain.AnalyticsReport {
	risk := domain.RiskAssessment{
		EntityID:       "SUP-001",
		Period:         "2025-03",
		CompositeScore: 0.12,
		ComponentScores: domain.ComponentScores{
			Volatility: 0.1, Quality: 0.0, Volume: 0.2, Trend: 0.1,
		},
		RiskBand: domain.RiskBandLow,
	}
	return &domain.AnalyticsReport{
		Scope:       domain.Scope{Segment: "north"},
		GeneratedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		Summary: domain.SegmentSummary{
			Scope:         domain.Scope{Segment: "north"},
			SupplierCount: 2,
			VolumeBenchmark: domain.Benchmark{
				P10: 10, P25: 25, P50: 50, P75: 75, P90: 90, Min: 5, Max: 100, Count: 2,
			},
			QualityBenchmark: domain.Benchmark{InsufficientData: true},
			Concentration: domain.ConcentrationIndex{
				Segment: "north", HHI: 5000, StructureLabel: domain.StructureHigh,
				LeaderShare: 50, SignificantPlayers: 2,
			},
			RiskDistribution: domain.RiskDistribution{Low: 1, High: 1},
		},
		Profiles: []domain.EntityProfile{
			{
				EntityID:         "SUP-001",
				TotalVolume:      5000,
				MeanVolume:       1000,
				CV:               25.5,
				CVDefined:        true,
				MeanQuality:      0.95,
				GrowthRatePct:    12,
				GrowthDefined:    true,
				ObservationCount: 5,
				Outliers: domain.OutlierReport{
					EntityID: "SUP-001",
					Flags: []domain.OutlierFlag{
						{EntityID: "SUP-001", Period: "2025-02", Value: 4000, IsOutlier: true,
							OutlierType: domain.OutlierTypeHigh, Magnitude: 1200},
						{EntityID: "SUP-001", Period: "2025-03", Value: 900,
							OutlierType: domain.OutlierTypeNone},
					},
				},
				Risk: &risk,
			},
			{
				EntityID:         "SUP-ZERO",
				ObservationCount: 2,
				Outliers:         domain.OutlierReport{EntityID: "SUP-ZERO", InsufficientData: true},
			},
		},
		Thresholds: domain.ThresholdSet{
			ID:         "test-id",
			Scope:      domain.Scope{Segment: "north"},
			ComputedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			VolumeInclusion: domain.VolumeInclusion{
				P10: 1234.5,
			},
			SupplierCountQuartiles: domain.QuartileSet{Q1: 2, Median: 2, Q3: 2},
			VolatilityQuartiles:    domain.QuartileSet{InsufficientData: true},
		},
	}
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteProfilesCSV(t *testing.T) {
	writer := NewReportWriter(t.TempDir(), nil)

	path, err := writer.WriteProfilesCSV(reportFixture())
	require.NoError(t, err)

	records := readCSVFile(t, path)
	require.Len(t, records, 3) // header + 2 profiles

	assert.Equal(t, "entity_id", records[0][0])
	assert.Equal(t, "SUP-001", records[1][0])
	assert.Equal(t, "25.5", records[1][5])
	assert.Equal(t, "1", records[1][8]) // one flagged outlier
	assert.Equal(t, domain.RiskBandLow, records[1][14])

	// Degenerate supplier renders markers, never zeros posing as data.
	assert.Equal(t, "SUP-ZERO", records[2][0])
	assert.Equal(t, "undefined", records[2][5])
	assert.Equal(t, "insufficient data", records[2][6])
	assert.Equal(t, "insufficient data", records[2][8])
	assert.Equal(t, "insufficient data", records[2][14])
}

func TestWriteThresholdsCSV(t *testing.T) {
	writer := NewReportWriter(t.TempDir(), nil)

	path, err := writer.WriteThresholdsCSV(reportFixture())
	require.NoError(t, err)

	records := readCSVFile(t, path)
	byName := make(map[string]string)
	for _, record := range records[1:] {
		byName[record[0]] = record[1]
	}

	assert.Equal(t, "test-id", byName["computation_id"])
	assert.Equal(t, "1234.5", byName["volume_inclusion_p10"])
	assert.Equal(t, "2", byName["supplier_count_median"])
	assert.Equal(t, "insufficient data", byName["volatility_median"])
}

func TestWriteWorkbook(t *testing.T) {
	writer := NewReportWriter(t.TempDir(), nil)
	report := reportFixture()

	path, err := writer.WriteWorkbook(report)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Profiles", "Outliers", "Thresholds"}, f.GetSheetList())

	structure, err := f.GetCellValue("Summary", "B9")
	require.NoError(t, err)
	assert.Equal(t, domain.StructureHigh, structure)

	entity, err := f.GetCellValue("Profiles", "A2")
	require.NoError(t, err)
	assert.Equal(t, "SUP-001", entity)

	quality, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "insufficient data", quality)

	outlierType, err := f.GetCellValue("Outliers", "D2")
	require.NoError(t, err)
	assert.Equal(t, domain.OutlierTypeHigh, outlierType)
}
