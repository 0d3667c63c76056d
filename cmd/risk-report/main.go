// Command risk-report runs one analytics pass over a supplier observations
// file and writes the CSV and xlsx reports for the requested scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"spendpulse/internal/aggregator"
	"spendpulse/internal/analytics"
	"spendpulse/internal/config"
	"spendpulse/internal/exporter"
	"spendpulse/internal/infrastructure"
	"spendpulse/pkg/contracts/domain"
)

func main() {
	input := flag.String("in", "", "observations CSV file (entity_id,period,volume,quality_score)")
	outputDir := flag.String("out", "", "output directory for reports (defaults to configured reports dir)")
	configPath := flag.String("config", "", "optional YAML config file")
	segment := flag.String("segment", "", "market segment the observations belong to")
	periodFrom := flag.String("from", "", "first period to include (YYYY-MM)")
	periodTo := flag.String("to", "", "last period to include (YYYY-MM)")
	entities := flag.String("entities", "", "comma-separated supplier subset (default: all)")
	flag.Parse()

	if *input == "" || *segment == "" {
		fmt.Fprintln(os.Stderr, "usage: risk-report -in observations.csv -segment <segment> [-from YYYY-MM] [-to YYYY-MM]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	scope := domain.Scope{
		Segment:    *segment,
		PeriodFrom: *periodFrom,
		PeriodTo:   *periodTo,
	}
	if *entities != "" {
		for _, id := range strings.Split(*entities, ",") {
			if id = strings.TrimSpace(id); id != "" {
				scope.EntityIDs = append(scope.EntityIDs, id)
			}
		}
	}

	ctx := context.Background()
	if err := run(ctx, cfg, logger, scope, *input, *outputDir); err != nil {
		logger.ErrorContext(ctx, "risk report failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, scope domain.Scope, input, outputDir string) error {
	source := aggregator.NewCSVSource(input, logger)
	observations, err := source.Observations(ctx, scope)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}

	weights := analytics.DefaultRiskWeights()
	if cfg.Engine.HasWeightOverrides() {
		weights = analytics.RiskWeights{
			Volatility: cfg.Engine.WeightVolatility,
			Quality:    cfg.Engine.WeightQuality,
			Volume:     cfg.Engine.WeightVolume,
			Trend:      cfg.Engine.WeightTrend,
		}
	}

	metrics := infrastructure.NewMetrics(prometheus.DefaultRegisterer)
	engine := analytics.NewEngine(weights, logger, metrics)
	engine.SetMaxConcurrency(cfg.Engine.MaxConcurrency)

	report, err := engine.Run(ctx, scope, observations)
	if err != nil {
		return fmt.Errorf("analytics pass: %w", err)
	}

	writer := exporter.NewReportWriter(outputDir, logger)
	profilesPath, err := writer.WriteProfilesCSV(report)
	if err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	thresholdsPath, err := writer.WriteThresholdsCSV(report)
	if err != nil {
		return fmt.Errorf("write thresholds: %w", err)
	}
	workbookPath, err := writer.WriteWorkbook(report)
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	logger.InfoContext(ctx, "risk report complete",
		"scope", scope.String(),
		"suppliers", report.Summary.SupplierCount,
		"structure", report.Summary.Concentration.StructureLabel,
		"elevated_suppliers", report.Summary.ElevatedSuppliers,
		"profiles_csv", profilesPath,
		"thresholds_csv", thresholdsPath,
		"workbook", workbookPath,
	)
	return nil
}
