package domain

import (
	"time"
)

// Benchmark is a statistical summary of one metric across the population in
// scope. It is a dynamic, scope-dependent reference, never a hardcoded
// constant. When the population is empty, InsufficientData is set and the
// numeric fields must not be read.
type Benchmark struct {
	P10              float64 `json:"p10"`
	P25              float64 `json:"p25"`
	P50              float64 `json:"p50"`
	P75              float64 `json:"p75"`
	P90              float64 `json:"p90"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	Count            int     `json:"count"`
	InsufficientData bool    `json:"insufficient_data"`
}

// Market structure labels derived from the HHI value.
const (
	StructureCompetitive = "Competitive"
	StructureModerate    = "Moderate Concentration"
	StructureHigh        = "High Concentration"
	StructureUndefined   = "undefined"
)

// ConcentrationIndex is the Herfindahl-Hirschman index for one market
// segment, with its derived structure label. HHI is on the 0-10000 scale.
// A segment with zero total volume reports HHI 0 and an undefined structure.
type ConcentrationIndex struct {
	Segment            string  `json:"segment"`
	HHI                float64 `json:"hhi_value"`
	StructureLabel     string  `json:"structure_label"`
	LeaderShare        float64 `json:"leader_share"`
	SignificantPlayers int     `json:"significant_players"`
	TotalVolume        float64 `json:"total_volume"`
}

// Outlier classification for a flagged observation.
const (
	OutlierTypeNone = "none"
	OutlierTypeHigh = "high"
	OutlierTypeLow  = "low"
)

// OutlierFlag marks one observation against the IQR fences of its own
// entity's history. Magnitude is the distance past the violated fence,
// zero for non-outliers.
type OutlierFlag struct {
	EntityID    string  `json:"entity_id"`
	Period      string  `json:"period"`
	Value       float64 `json:"value"`
	IsOutlier   bool    `json:"is_outlier"`
	OutlierType string  `json:"outlier_type"`
	Magnitude   float64 `json:"magnitude"`
}

// OutlierReport holds the fences and per-observation flags for one entity's
// series. Fewer than four observations cannot support a meaningful fence, so
// the report is tagged insufficient instead.
type OutlierReport struct {
	EntityID         string        `json:"entity_id"`
	Q1               float64       `json:"q1"`
	Q3               float64       `json:"q3"`
	IQR              float64       `json:"iqr"`
	LowerFence       float64       `json:"lower_fence"`
	UpperFence       float64       `json:"upper_fence"`
	Flags            []OutlierFlag `json:"flags"`
	InsufficientData bool          `json:"insufficient_data"`
}

// Risk bands, ordered from least to most severe.
const (
	RiskBandLow      = "low"
	RiskBandMedium   = "medium"
	RiskBandHigh     = "high"
	RiskBandCritical = "critical"
)

// ComponentScores are the normalized sub-scores behind a composite risk
// score, each in [0,1]. They are always reported alongside the band so the
// classification stays auditable.
type ComponentScores struct {
	Volatility float64 `json:"volatility"`
	Quality    float64 `json:"quality"`
	Volume     float64 `json:"volume"`
	Trend      float64 `json:"trend"`
}

// EntityMetrics is the per-supplier input to the risk scorer: the four
// independently scaled signals before normalization.
type EntityMetrics struct {
	EntityID              string  `json:"entity_id" validate:"required"`
	Period                string  `json:"period"`
	VolatilityCoefficient float64 `json:"volatility_coefficient"` // CV, percent
	QualityScore          float64 `json:"quality_score" validate:"gte=0,lte=1"`
	TotalVolume           float64 `json:"total_volume" validate:"gte=0"`
	TrendGrowthRate       float64 `json:"trend_growth_rate"` // percent, signed
}

// RiskAssessment is the scorer output: the composite score in [0,1], its
// component sub-scores, and the ordinal band.
type RiskAssessment struct {
	EntityID        string          `json:"entity_id"`
	Period          string          `json:"period"`
	CompositeScore  float64         `json:"composite_score"`
	ComponentScores ComponentScores `json:"component_scores"`
	RiskBand        string          `json:"risk_band"`
}

// QuartileSet carries Q1/median/Q3 of one threshold metric.
type QuartileSet struct {
	Q1               float64 `json:"q1"`
	Median           float64 `json:"median"`
	Q3               float64 `json:"q3"`
	InsufficientData bool    `json:"insufficient_data"`
}

// VolumeInclusion is the long-tail cutoff for comparative views: suppliers
// below the P10 of scope volume are dropped from peer comparisons.
type VolumeInclusion struct {
	P10              float64 `json:"p10"`
	InsufficientData bool    `json:"insufficient_data"`
}

// ThresholdSet exposes every dynamic threshold in effect for one scope, for
// auditability. Thresholds are recomputed fresh whenever the scope changes;
// a set from a previous scope is never reused.
type ThresholdSet struct {
	ID                     string          `json:"id"`
	Scope                  Scope           `json:"scope"`
	ComputedAt             time.Time       `json:"computed_at"`
	VolumeInclusion        VolumeInclusion `json:"volume_inclusion"`
	SupplierCountQuartiles QuartileSet     `json:"supplier_count_quartiles"`
	VolatilityQuartiles    QuartileSet     `json:"volatility_quartiles"`
}

// RiskDistribution counts scored suppliers per band.
type RiskDistribution struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Total returns the number of scored suppliers.
func (d RiskDistribution) Total() int {
	return d.Low + d.Medium + d.High + d.Critical
}

// PeriodDelta is one month-over-month volume change. Defined is false when
// the earlier period had zero volume and the percentage change is undefined.
type PeriodDelta struct {
	FromPeriod string  `json:"from_period"`
	ToPeriod   string  `json:"to_period"`
	ChangePct  float64 `json:"change_pct"`
	Defined    bool    `json:"defined"`
}

// EntityProfile is the full per-supplier analytics record assembled by one
// engine pass.
type EntityProfile struct {
	EntityID         string          `json:"entity_id"`
	TotalVolume      float64         `json:"total_volume"`
	MeanVolume       float64         `json:"mean_volume"`
	StdDevVolume     float64         `json:"stddev_volume"`
	CV               float64         `json:"cv"`
	CVDefined        bool            `json:"cv_defined"`
	MeanQuality      float64         `json:"mean_quality"`
	GrowthRatePct    float64         `json:"growth_rate_pct"`
	GrowthDefined    bool            `json:"growth_defined"`
	PeriodDeltas     []PeriodDelta   `json:"period_deltas,omitempty"`
	Outliers         OutlierReport   `json:"outliers"`
	Risk             *RiskAssessment `json:"risk,omitempty"`
	ObservationCount int             `json:"observation_count"`
}

// SegmentSummary is the per-segment roll-up a dashboard consumes: the volume
// benchmark, concentration, and how many suppliers sit in the elevated bands.
type SegmentSummary struct {
	Scope             Scope              `json:"scope"`
	SupplierCount     int                `json:"supplier_count"`
	VolumeBenchmark   Benchmark          `json:"volume_benchmark"`
	QualityBenchmark  Benchmark          `json:"quality_benchmark"`
	Concentration     ConcentrationIndex `json:"concentration"`
	RiskDistribution  RiskDistribution   `json:"risk_distribution"`
	ElevatedSuppliers int                `json:"elevated_suppliers"` // high + critical
}

// AnalyticsReport is the complete output of one engine pass over one scope.
// It is a plain serializable record with no behavior.
type AnalyticsReport struct {
	Scope       Scope           `json:"scope"`
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     SegmentSummary  `json:"summary"`
	Profiles    []EntityProfile `json:"profiles"`
	Thresholds  ThresholdSet    `json:"thresholds"`
}
