package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeContains(t *testing.T) {
	obs := Observation{EntityID: "SUP-001", Period: "2025-03", Volume: 100, QualityScore: 0.9}

	tests := []struct {
		name     string
		scope    Scope
		expected bool
	}{
		{"open scope", Scope{Segment: "north"}, true},
		{"inside range", Scope{Segment: "north", PeriodFrom: "2025-01", PeriodTo: "2025-06"}, true},
		{"before range", Scope{Segment: "north", PeriodFrom: "2025-04"}, false},
		{"after range", Scope{Segment: "north", PeriodTo: "2025-02"}, false},
		{"boundary inclusive", Scope{Segment: "north", PeriodFrom: "2025-03", PeriodTo: "2025-03"}, true},
		{"entity subset match", Scope{Segment: "north", EntityIDs: []string{"SUP-002", "SUP-001"}}, true},
		{"entity subset miss", Scope{Segment: "north", EntityIDs: []string{"SUP-002"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scope.Contains(obs))
		})
	}
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "north [all periods]", Scope{Segment: "north"}.String())
	assert.Equal(t, "north [2025-01..2025-06]",
		Scope{Segment: "north", PeriodFrom: "2025-01", PeriodTo: "2025-06"}.String())
	assert.Contains(t,
		Scope{Segment: "north", EntityIDs: []string{"A", "B"}}.String(), "2 suppliers")
}

func TestGroupByEntity(t *testing.T) {
	observations := []Observation{
		{EntityID: "B", Period: "2025-02", Volume: 20},
		{EntityID: "A", Period: "2025-03", Volume: 3},
		{EntityID: "B", Period: "2025-01", Volume: 10},
		{EntityID: "A", Period: "2025-01", Volume: 1},
	}

	series := GroupByEntity(observations)
	require.Len(t, series, 2)

	// Ordered by entity, observations ordered by period.
	assert.Equal(t, "A", series[0].EntityID)
	assert.Equal(t, "2025-01", series[0].Observations[0].Period)
	assert.Equal(t, "2025-03", series[0].Observations[1].Period)
	assert.Equal(t, "B", series[1].EntityID)
	assert.Equal(t, []float64{10, 20}, series[1].Volumes())
	assert.Equal(t, 30.0, series[1].TotalVolume())

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, GroupByEntity(nil))
	})
}
