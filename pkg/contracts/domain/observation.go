package domain

import (
	"fmt"
	"sort"
)

// Observation is a single per-supplier, per-period volume/quality tuple as
// produced by the aggregation layer. Observations are immutable once produced;
// the analytics core never mutates them.
type Observation struct {
	EntityID     string  `json:"entity_id" validate:"required"`
	Period       string  `json:"period" validate:"required,len=7"` // YYYY-MM
	Volume       float64 `json:"volume" validate:"gte=0"`
	QualityScore float64 `json:"quality_score" validate:"gte=0,lte=1"`
}

// EntitySeries is the ordered history of one supplier across periods. It is
// the basis for volatility, trend, and outlier detection.
type EntitySeries struct {
	EntityID     string        `json:"entity_id"`
	Observations []Observation `json:"observations"`
}

// Volumes returns the volume values of the series in period order.
func (s EntitySeries) Volumes() []float64 {
	values := make([]float64, len(s.Observations))
	for i, obs := range s.Observations {
		values[i] = obs.Volume
	}
	return values
}

// TotalVolume returns the summed volume across all periods in the series.
func (s EntitySeries) TotalVolume() float64 {
	var total float64
	for _, obs := range s.Observations {
		total += obs.Volume
	}
	return total
}

// SortByPeriod orders the observations chronologically. Periods use the
// YYYY-MM format, so lexical order is chronological order.
func (s *EntitySeries) SortByPeriod() {
	sort.SliceStable(s.Observations, func(i, j int) bool {
		return s.Observations[i].Period < s.Observations[j].Period
	})
}

// Scope identifies the filter context a computation ran against: the market
// segment, the period range, and optionally an explicit supplier subset.
// Every derived record is tagged with the scope it was computed for, so
// thresholds and benchmarks from one scope can never be mistaken for
// another's.
type Scope struct {
	Segment    string   `json:"segment" validate:"required"`
	PeriodFrom string   `json:"period_from,omitempty" validate:"omitempty,len=7"`
	PeriodTo   string   `json:"period_to,omitempty" validate:"omitempty,len=7"`
	EntityIDs  []string `json:"entity_ids,omitempty"`
}

// String renders the scope for logging and report labels.
func (sc Scope) String() string {
	rng := "all periods"
	if sc.PeriodFrom != "" || sc.PeriodTo != "" {
		rng = fmt.Sprintf("%s..%s", sc.PeriodFrom, sc.PeriodTo)
	}
	if len(sc.EntityIDs) > 0 {
		return fmt.Sprintf("%s [%s] (%d suppliers)", sc.Segment, rng, len(sc.EntityIDs))
	}
	return fmt.Sprintf("%s [%s]", sc.Segment, rng)
}

// Contains reports whether an observation falls inside the scope's period
// range and entity subset. Segment membership is the aggregator's concern;
// by contract it only hands the core observations for the requested segment.
func (sc Scope) Contains(obs Observation) bool {
	if sc.PeriodFrom != "" && obs.Period < sc.PeriodFrom {
		return false
	}
	if sc.PeriodTo != "" && obs.Period > sc.PeriodTo {
		return false
	}
	if len(sc.EntityIDs) == 0 {
		return true
	}
	for _, id := range sc.EntityIDs {
		if id == obs.EntityID {
			return true
		}
	}
	return false
}

// EntityVolume is one supplier's share input to the concentration index.
type EntityVolume struct {
	EntityID string  `json:"entity_id" validate:"required"`
	Volume   float64 `json:"volume" validate:"gte=0"`
}

// GroupByEntity splits observations into per-supplier series, each sorted
// chronologically. Iteration-order independence matters downstream, so the
// returned slice is ordered by entity ID.
func GroupByEntity(observations []Observation) []EntitySeries {
	byEntity := make(map[string]*EntitySeries)
	for _, obs := range observations {
		series, ok := byEntity[obs.EntityID]
		if !ok {
			series = &EntitySeries{EntityID: obs.EntityID}
			byEntity[obs.EntityID] = series
		}
		series.Observations = append(series.Observations, obs)
	}

	ids := make([]string, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]EntitySeries, 0, len(ids))
	for _, id := range ids {
		series := byEntity[id]
		series.SortByPeriod()
		result = append(result, *series)
	}
	return result
}
