package analytics

import (
	"sort"

	"spendpulse/pkg/contracts/domain"
)

// PublishThresholds recomputes every dynamic threshold for the given scope:
// the volume-inclusion cutoff (P10 of per-supplier total volume, used to drop
// long-tail noise from comparative views), supplier-count quartiles across
// periods, and volatility quartiles across suppliers. The returned set is
// tagged with the scope it was computed against and shares nothing with any
// previous scope — callers stamp identity and timestamp when they record it.
func PublishThresholds(scope domain.Scope, observations []domain.Observation) domain.ThresholdSet {
	set := domain.ThresholdSet{Scope: scope}

	inScope := make([]domain.Observation, 0, len(observations))
	for _, obs := range observations {
		if scope.Contains(obs) {
			inScope = append(inScope, obs)
		}
	}
	series := domain.GroupByEntity(inScope)

	// Volume inclusion: P10 of per-supplier totals.
	totals := make([]float64, 0, len(series))
	for _, s := range series {
		totals = append(totals, s.TotalVolume())
	}
	if p10, ok := Quantile(totals, 0.10); ok {
		set.VolumeInclusion = domain.VolumeInclusion{P10: p10}
	} else {
		set.VolumeInclusion = domain.VolumeInclusion{InsufficientData: true}
	}

	// Supplier-count quartiles: distinct active suppliers per period.
	set.SupplierCountQuartiles = quartilesOf(supplierCountsPerPeriod(inScope))

	// Volatility quartiles: defined CVs across suppliers.
	cvs := make([]float64, 0, len(series))
	for _, s := range series {
		if stats := ComputeDispersion(s.Volumes()); stats.CVDefined {
			cvs = append(cvs, stats.CV)
		}
	}
	set.VolatilityQuartiles = quartilesOf(cvs)

	return set
}

// supplierCountsPerPeriod counts distinct suppliers observed in each period,
// ordered by period so the result is deterministic.
func supplierCountsPerPeriod(observations []domain.Observation) []float64 {
	byPeriod := make(map[string]map[string]struct{})
	for _, obs := range observations {
		entities, ok := byPeriod[obs.Period]
		if !ok {
			entities = make(map[string]struct{})
			byPeriod[obs.Period] = entities
		}
		entities[obs.EntityID] = struct{}{}
	}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	counts := make([]float64, 0, len(periods))
	for _, p := range periods {
		counts = append(counts, float64(len(byPeriod[p])))
	}
	return counts
}

// quartilesOf computes Q1/median/Q3 over values, tagging insufficient data
// for an empty series.
func quartilesOf(values []float64) domain.QuartileSet {
	q1, ok := Quantile(values, 0.25)
	if !ok {
		return domain.QuartileSet{InsufficientData: true}
	}
	median, _ := Quantile(values, 0.50)
	q3, _ := Quantile(values, 0.75)
	return domain.QuartileSet{Q1: q1, Median: median, Q3: q3}
}
