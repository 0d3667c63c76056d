package analytics

import (
	"math"

	"spendpulse/internal/errors"
	"spendpulse/pkg/contracts/domain"
)

// RiskWeights contains the weights fusing the four normalized risk signals.
type RiskWeights struct {
	Volatility float64 `json:"volatility" yaml:"volatility"`
	Quality    float64 `json:"quality" yaml:"quality"`
	Volume     float64 `json:"volume" yaml:"volume"`
	Trend      float64 `json:"trend" yaml:"trend"`
}

// DefaultRiskWeights returns the standard weighting:
// volatility 40%, quality 30%, volume 20%, trend 10%.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		Volatility: 0.4,
		Quality:    0.3,
		Volume:     0.2,
		Trend:      0.1,
	}
}

// IsValid checks the weights are non-negative and sum to 1.
func (w RiskWeights) IsValid() bool {
	sum := w.Volatility + w.Quality + w.Volume + w.Trend
	return w.Volatility >= 0 && w.Quality >= 0 && w.Volume >= 0 && w.Trend >= 0 &&
		sum > 0.99 && sum < 1.01 // allow small floating point error
}

// Normalize rescales the weights to sum to 1.
func (w *RiskWeights) Normalize() {
	sum := w.Volatility + w.Quality + w.Volume + w.Trend
	if sum > 0 {
		w.Volatility /= sum
		w.Quality /= sum
		w.Volume /= sum
		w.Trend /= sum
	}
}

// Volatility saturation: a CV of 50% or more maps to maximum volatility risk.
// Normalizing here is what keeps composite scores inside [0,1]; an unbounded
// CV signal would dominate the other components on scale alone.
const volatilitySaturationCV = 50.0

// Quality risk ramp: 0 risk at quality >= 0.90, full risk at quality <= 0.80.
const (
	qualityRiskCeiling = 0.90
	qualityRiskRange   = 0.10
)

// Static volume bands used when no comparison population is supplied.
const (
	volumeBandSmall  = 100_000
	volumeBandMedium = 500_000
	volumeBandLarge  = 1_000_000
)

// Absolute trend swings above these magnitudes (percent) step up trend risk.
const (
	trendSwingHigh     = 30.0
	trendSwingModerate = 15.0
)

// Risk band boundaries on the composite score, half-open [lo, hi).
const (
	bandMediumFloor   = 0.20
	bandHighFloor     = 0.45
	bandCriticalFloor = 0.70
)

// ScoreRisk fuses an entity's four independently-scaled signals into one
// ordinal risk band. Each signal is normalized to [0,1] before weighting, so
// no single component can dominate on scale alone, and the weighted sum is
// clamped to [0,1]. The assessment always carries all four component
// sub-scores alongside the band, never a bare classification.
//
// comparisonPopulation is optional: when supplied, volume risk is one minus
// the entity's percentile rank within it; when nil, graduated static volume
// bands apply.
func ScoreRisk(m domain.EntityMetrics, comparisonPopulation []float64, weights RiskWeights) (domain.RiskAssessment, error) {
	if err := validateMetrics(m); err != nil {
		return domain.RiskAssessment{}, err
	}
	if !weights.IsValid() {
		weights.Normalize()
	}

	components := domain.ComponentScores{
		Volatility: normalizeVolatility(m.VolatilityCoefficient),
		Quality:    qualityRisk(m.QualityScore),
		Volume:     volumeRisk(m.TotalVolume, comparisonPopulation),
		Trend:      trendRisk(m.TrendGrowthRate),
	}

	composite := weights.Volatility*components.Volatility +
		weights.Quality*components.Quality +
		weights.Volume*components.Volume +
		weights.Trend*components.Trend
	composite = clamp01(composite)

	return domain.RiskAssessment{
		EntityID:        m.EntityID,
		Period:          m.Period,
		CompositeScore:  composite,
		ComponentScores: components,
		RiskBand:        classifyRiskBand(composite),
	}, nil
}

func validateMetrics(m domain.EntityMetrics) error {
	for _, check := range []struct {
		field string
		value float64
	}{
		{"volatility_coefficient", m.VolatilityCoefficient},
		{"quality_score", m.QualityScore},
		{"total_volume", m.TotalVolume},
		{"trend_growth_rate", m.TrendGrowthRate},
	} {
		if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return errors.NewInvalidInput(m.EntityID, check.field, check.value, "must be finite")
		}
	}
	if m.QualityScore < 0 || m.QualityScore > 1 {
		return errors.NewInvalidInput(m.EntityID, "quality_score", m.QualityScore, "must be in [0,1]")
	}
	if m.TotalVolume < 0 {
		return errors.NewInvalidInput(m.EntityID, "total_volume", m.TotalVolume, "must be non-negative")
	}
	return nil
}

// normalizeVolatility maps CV% onto [0,1], saturating at 50% CV.
func normalizeVolatility(cv float64) float64 {
	return clamp01(math.Abs(cv) / volatilitySaturationCV)
}

// qualityRisk ramps linearly from 0 at quality >= 0.90 to 1 at quality <= 0.80.
func qualityRisk(quality float64) float64 {
	return clamp01((qualityRiskCeiling - quality) / qualityRiskRange)
}

// volumeRisk is 1 - percentile rank against the comparison population when
// one is supplied, otherwise graduated static bands on raw volume.
func volumeRisk(volume float64, population []float64) float64 {
	if rank, ok := PercentileRank(volume, population); ok {
		return clamp01(1 - rank)
	}
	switch {
	case volume < volumeBandSmall:
		return 1.0
	case volume < volumeBandMedium:
		return 0.7
	case volume < volumeBandLarge:
		return 0.4
	default:
		return 0.1
	}
}

// trendRisk treats large swings in either direction as risk: both a collapse
// and an unsustainable ramp destabilize a supplier relationship.
func trendRisk(growthPct float64) float64 {
	switch abs := math.Abs(growthPct); {
	case abs > trendSwingHigh:
		return 0.8
	case abs > trendSwingModerate:
		return 0.4
	default:
		return 0.1
	}
}

// classifyRiskBand maps a composite score in [0,1] to one of four ordinal
// bands. Four bands, not three: collapsing the mid-range loses exactly the
// distinctions the dashboard filters on.
func classifyRiskBand(composite float64) string {
	switch {
	case composite < bandMediumFloor:
		return domain.RiskBandLow
	case composite < bandHighFloor:
		return domain.RiskBandMedium
	case composite < bandCriticalFloor:
		return domain.RiskBandHigh
	default:
		return domain.RiskBandCritical
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
