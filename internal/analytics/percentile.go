package analytics

import (
	"math"
	"sort"

	"spendpulse/internal/errors"
	"spendpulse/pkg/contracts/domain"
)

// Quantile returns the linearly interpolated order statistic for q in [0,1]
// over values. The result is independent of input order and the input slice
// is never modified. ok is false for an empty series.
func Quantile(values []float64, q float64) (result float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q), true
}

// quantileSorted computes the continuous quantile over an already sorted
// series: index = q*(n-1), interpolating between the bracketing values.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ComputeBenchmarks summarizes a metric across the population in scope:
// P10/P25/P50/P75/P90 plus min and max. An empty population yields a
// benchmark tagged insufficient rather than zeros. Values must be finite and
// non-negative; anything else is an upstream contract violation.
func ComputeBenchmarks(values []float64) (domain.Benchmark, error) {
	if len(values) == 0 {
		return domain.Benchmark{InsufficientData: true}, nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	for _, v := range sorted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Benchmark{}, errors.NewInvalidInput("", "value", v, "must be finite")
		}
		if v < 0 {
			return domain.Benchmark{}, errors.NewInvalidInput("", "value", v, "must be non-negative")
		}
	}
	sort.Float64s(sorted)

	return domain.Benchmark{
		P10:   quantileSorted(sorted, 0.10),
		P25:   quantileSorted(sorted, 0.25),
		P50:   quantileSorted(sorted, 0.50),
		P75:   quantileSorted(sorted, 0.75),
		P90:   quantileSorted(sorted, 0.90),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}, nil
}

// PercentileRank returns the fraction of the population at or below v, in
// [0,1]. ok is false for an empty population.
func PercentileRank(v float64, population []float64) (rank float64, ok bool) {
	if len(population) == 0 {
		return 0, false
	}
	atOrBelow := 0
	for _, p := range population {
		if p <= v {
			atOrBelow++
		}
	}
	return float64(atOrBelow) / float64(len(population)), true
}
