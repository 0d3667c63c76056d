package aggregator

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"spendpulse/pkg/contracts/domain"
)

// Expected column layout of an observations CSV.
const (
	colEntityID = iota
	colPeriod
	colVolume
	colQuality
	numColumns
)

// CSVSource reads pre-aggregated observations from a CSV file with columns
// entity_id, period, volume, quality_score. Malformed rows are skipped with a
// warning; the strict numeric contract is enforced later at the analytics
// boundary, where violations surface as errors instead of being dropped.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a source over one observations file.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{path: path, logger: logger}
}

// Observations loads the file and returns the rows inside the scope.
func (s *CSVSource) Observations(ctx context.Context, scope domain.Scope) ([]domain.Observation, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open observations file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read observations file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("observations file is empty: %s", s.path)
	}

	dataStart := 0
	if isHeaderRow(records[0]) {
		dataStart = 1
	}

	observations := make([]domain.Observation, 0, len(records)-dataStart)
	for i := dataStart; i < len(records); i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load observations: %w", ctx.Err())
		default:
		}

		obs, err := parseObservationRecord(records[i])
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed observation row",
				"file", s.path,
				"line", i+1,
				"error", err,
			)
			continue
		}
		if scope.Contains(obs) {
			observations = append(observations, obs)
		}
	}

	s.logger.InfoContext(ctx, "loaded observations",
		"file", s.path,
		"rows", len(records)-dataStart,
		"in_scope", len(observations),
	)
	return observations, nil
}

func parseObservationRecord(record []string) (domain.Observation, error) {
	if len(record) < numColumns {
		return domain.Observation{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(record))
	}

	volume, err := strconv.ParseFloat(strings.TrimSpace(record[colVolume]), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse volume %q: %w", record[colVolume], err)
	}
	quality, err := strconv.ParseFloat(strings.TrimSpace(record[colQuality]), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse quality_score %q: %w", record[colQuality], err)
	}

	return domain.Observation{
		EntityID:     strings.TrimSpace(record[colEntityID]),
		Period:       strings.TrimSpace(record[colPeriod]),
		Volume:       volume,
		QualityScore: quality,
	}, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "entity_id" || first == "entity" || first == "supplier_id"
}
