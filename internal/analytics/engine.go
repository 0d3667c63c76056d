package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"spendpulse/internal/infrastructure"
	"spendpulse/pkg/contracts/domain"
)

// Engine runs one full analytics pass over a filter scope: benchmarks,
// concentration, per-supplier profiles with outlier flags and risk
// assessments, and the scope's threshold set.
//
// The engine holds no mutable state between passes; independent scopes may
// run fully in parallel on the same Engine. Within a pass, per-supplier
// computations are independent and fan out across a bounded worker group.
type Engine struct {
	weights        RiskWeights
	maxConcurrency int
	logger         *slog.Logger
	metrics        *infrastructure.Metrics
}

// NewEngine creates an engine with the given risk weights. metrics may be
// nil when no registry is wired.
func NewEngine(weights RiskWeights, logger *slog.Logger, metrics *infrastructure.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if !weights.IsValid() {
		weights = DefaultRiskWeights()
	}
	return &Engine{
		weights:        weights,
		maxConcurrency: 4,
		logger:         logger,
		metrics:        metrics,
	}
}

// SetMaxConcurrency bounds the per-supplier worker group.
func (e *Engine) SetMaxConcurrency(n int) {
	if n > 0 {
		e.maxConcurrency = n
	}
}

// Run executes one analytics pass for the scope over the given observations.
// The observations must come pre-aggregated from the collaborator for the
// scope's segment; Run applies the scope's period range and entity subset,
// validates the boundary, and computes every derived record fresh. Nothing
// is cached between calls: the meaning of every output depends on the
// population in scope.
func (e *Engine) Run(ctx context.Context, scope domain.Scope, observations []domain.Observation) (*domain.AnalyticsReport, error) {
	start := time.Now()

	if err := ValidateScope(scope); err != nil {
		return nil, fmt.Errorf("validate scope: %w", err)
	}
	if err := ValidateObservations(observations); err != nil {
		e.countInvalid()
		return nil, fmt.Errorf("validate observations: %w", err)
	}

	inScope := make([]domain.Observation, 0, len(observations))
	for _, obs := range observations {
		if scope.Contains(obs) {
			inScope = append(inScope, obs)
		}
	}
	allSeries := domain.GroupByEntity(inScope)

	e.logger.InfoContext(ctx, "starting analytics pass",
		"scope", scope.String(),
		"observations", len(inScope),
		"suppliers", len(allSeries),
	)

	totals := make([]float64, len(allSeries))
	entityVolumes := make([]domain.EntityVolume, len(allSeries))
	for i, s := range allSeries {
		totals[i] = s.TotalVolume()
		entityVolumes[i] = domain.EntityVolume{EntityID: s.EntityID, Volume: totals[i]}
	}

	volumeBenchmark, err := e.benchmark("volume", totals)
	if err != nil {
		return nil, err
	}
	qualityBenchmark, err := e.benchmark("quality", meanQualities(allSeries))
	if err != nil {
		return nil, err
	}

	concentration, err := ComputeConcentration(scope.Segment, entityVolumes)
	if err != nil {
		return nil, fmt.Errorf("compute concentration: %w", err)
	}
	e.count("concentration")
	if concentration.StructureLabel == domain.StructureUndefined {
		e.countInsufficient("concentration")
	}

	profiles := make([]domain.EntityProfile, len(allSeries))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.maxConcurrency)
	for i, series := range allSeries {
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			profile, err := e.profileEntity(series, totals)
			if err != nil {
				return fmt.Errorf("profile %s: %w", series.EntityID, err)
			}
			profiles[i] = profile
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	e.count("risk")
	if e.metrics != nil {
		e.metrics.EntitiesScoredTotal.Add(float64(len(profiles)))
	}

	thresholds := PublishThresholds(scope, inScope)
	thresholds.ID = uuid.NewString()
	thresholds.ComputedAt = time.Now().UTC()
	e.count("thresholds")
	if thresholds.VolumeInclusion.InsufficientData {
		e.countInsufficient("thresholds")
	}

	distribution := riskDistribution(profiles)
	report := &domain.AnalyticsReport{
		Scope:       scope,
		GeneratedAt: thresholds.ComputedAt,
		Summary: domain.SegmentSummary{
			Scope:             scope,
			SupplierCount:     len(allSeries),
			VolumeBenchmark:   volumeBenchmark,
			QualityBenchmark:  qualityBenchmark,
			Concentration:     concentration,
			RiskDistribution:  distribution,
			ElevatedSuppliers: distribution.High + distribution.Critical,
		},
		Profiles:   profiles,
		Thresholds: thresholds,
	}

	e.logger.InfoContext(ctx, "analytics pass complete",
		"scope", scope.String(),
		"suppliers", len(profiles),
		"hhi", concentration.HHI,
		"structure", concentration.StructureLabel,
		"elevated", report.Summary.ElevatedSuppliers,
		"duration", time.Since(start),
	)
	return report, nil
}

// profileEntity assembles one supplier's full record: dispersion, trend,
// outliers against its own history, and the risk assessment against the
// peer volume population.
func (e *Engine) profileEntity(series domain.EntitySeries, peerTotals []float64) (domain.EntityProfile, error) {
	volumes := series.Volumes()
	stats := ComputeDispersion(volumes)
	growth, growthOK := GrowthRate(volumes)

	profile := domain.EntityProfile{
		EntityID:         series.EntityID,
		TotalVolume:      series.TotalVolume(),
		MeanVolume:       stats.Mean,
		StdDevVolume:     stats.StdDev,
		CV:               stats.CV,
		CVDefined:        stats.CVDefined,
		MeanQuality:      meanQuality(series),
		GrowthRatePct:    growth,
		GrowthDefined:    growthOK,
		PeriodDeltas:     MonthOverMonth(series),
		Outliers:         DetectOutliers(series),
		ObservationCount: len(series.Observations),
	}
	e.count("outliers")
	if profile.Outliers.InsufficientData {
		e.countInsufficient("outliers")
	}

	// A supplier with an undefined CV traded zero volume everywhere in
	// scope (non-negative volumes with mean 0 are all zero), so its
	// volatility signal is genuinely zero, not masked.
	cv := 0.0
	if stats.CVDefined {
		cv = stats.CV
	}
	metrics := domain.EntityMetrics{
		EntityID:              series.EntityID,
		Period:                lastPeriod(series),
		VolatilityCoefficient: cv,
		QualityScore:          profile.MeanQuality,
		TotalVolume:           profile.TotalVolume,
		TrendGrowthRate:       growth,
	}
	assessment, err := ScoreRisk(metrics, peerTotals, e.weights)
	if err != nil {
		return domain.EntityProfile{}, err
	}
	profile.Risk = &assessment
	return profile, nil
}

func (e *Engine) benchmark(metric string, values []float64) (domain.Benchmark, error) {
	bench, err := ComputeBenchmarks(values)
	if err != nil {
		e.countInvalid()
		return domain.Benchmark{}, fmt.Errorf("compute %s benchmark: %w", metric, err)
	}
	e.count("benchmark")
	if bench.InsufficientData {
		e.countInsufficient("benchmark")
	}
	return bench, nil
}

func (e *Engine) count(operation string) {
	if e.metrics != nil {
		e.metrics.ComputationsTotal.WithLabelValues(operation).Inc()
	}
}

func (e *Engine) countInsufficient(operation string) {
	if e.metrics != nil {
		e.metrics.InsufficientTotal.WithLabelValues(operation).Inc()
	}
}

func (e *Engine) countInvalid() {
	if e.metrics != nil {
		e.metrics.InvalidInputTotal.Inc()
	}
}

func riskDistribution(profiles []domain.EntityProfile) domain.RiskDistribution {
	var d domain.RiskDistribution
	for _, p := range profiles {
		if p.Risk == nil {
			continue
		}
		switch p.Risk.RiskBand {
		case domain.RiskBandLow:
			d.Low++
		case domain.RiskBandMedium:
			d.Medium++
		case domain.RiskBandHigh:
			d.High++
		case domain.RiskBandCritical:
			d.Critical++
		}
	}
	return d
}

func meanQualities(allSeries []domain.EntitySeries) []float64 {
	result := make([]float64, len(allSeries))
	for i, s := range allSeries {
		result[i] = meanQuality(s)
	}
	return result
}

func meanQuality(series domain.EntitySeries) float64 {
	if len(series.Observations) == 0 {
		return 0
	}
	var sum float64
	for _, obs := range series.Observations {
		sum += obs.QualityScore
	}
	return sum / float64(len(series.Observations))
}

func lastPeriod(series domain.EntitySeries) string {
	if len(series.Observations) == 0 {
		return ""
	}
	return series.Observations[len(series.Observations)-1].Period
}
