package analytics

import (
	"math"

	"spendpulse/pkg/contracts/domain"
)

// DispersionStats describes the spread of one entity's series. CV is the
// sample standard deviation over the mean, as a percentage; when the mean is
// zero the ratio is undefined and CVDefined is false — the CV field must not
// be read in that case.
type DispersionStats struct {
	Mean             float64 `json:"mean"`
	StdDev           float64 `json:"stddev"`
	CV               float64 `json:"cv"`
	CVDefined        bool    `json:"cv_defined"`
	Count            int     `json:"count"`
	InsufficientData bool    `json:"insufficient_data"`
}

// ComputeDispersion returns mean, sample standard deviation (n-1 denominator)
// and coefficient of variation for a series. An empty series is tagged
// insufficient. A single-element series has zero spread by convention.
func ComputeDispersion(values []float64) DispersionStats {
	n := len(values)
	if n == 0 {
		return DispersionStats{InsufficientData: true}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var stddev float64
	if n > 1 {
		var sumSq float64
		for _, v := range values {
			d := v - mean
			sumSq += d * d
		}
		stddev = math.Sqrt(sumSq / float64(n-1))
	}

	stats := DispersionStats{
		Mean:   mean,
		StdDev: stddev,
		Count:  n,
	}
	// mean=0 makes CV undefined; report the sentinel, never divide.
	if mean != 0 {
		stats.CV = stddev / mean * 100
		stats.CVDefined = true
	}
	return stats
}

// GrowthRate returns the simple trend over a series as a percentage:
// (last-first)/first * 100. ok is false when the series has fewer than two
// points or the first value is zero.
func GrowthRate(values []float64) (pct float64, ok bool) {
	if len(values) < 2 {
		return 0, false
	}
	first := values[0]
	last := values[len(values)-1]
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// MonthOverMonth returns the pairwise volume change between consecutive
// periods of a chronologically sorted series. A delta whose earlier period
// had zero volume is marked undefined rather than computed.
func MonthOverMonth(series domain.EntitySeries) []domain.PeriodDelta {
	obs := series.Observations
	if len(obs) < 2 {
		return nil
	}

	deltas := make([]domain.PeriodDelta, 0, len(obs)-1)
	for i := 1; i < len(obs); i++ {
		delta := domain.PeriodDelta{
			FromPeriod: obs[i-1].Period,
			ToPeriod:   obs[i].Period,
		}
		if prev := obs[i-1].Volume; prev != 0 {
			delta.ChangePct = (obs[i].Volume - prev) / prev * 100
			delta.Defined = true
		}
		deltas = append(deltas, delta)
	}
	return deltas
}
