package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendpulse/pkg/contracts/domain"
)

func TestComputeDispersion(t *testing.T) {
	t.Run("mean and sample standard deviation", func(t *testing.T) {
		stats := ComputeDispersion([]float64{2, 4, 4, 4, 5, 5, 7, 9})

		assert.InDelta(t, 5.0, stats.Mean, 1e-9)
		// Sample stdev (n-1): variance 32/7.
		assert.InDelta(t, 2.13809, stats.StdDev, 1e-4)
		require.True(t, stats.CVDefined)
		assert.InDelta(t, 42.7618, stats.CV, 1e-3)
		assert.Equal(t, 8, stats.Count)
		assert.False(t, stats.InsufficientData)
	})

	t.Run("zero mean reports CV undefined, not zero or infinity", func(t *testing.T) {
		stats := ComputeDispersion([]float64{0, 0, 0})

		assert.Equal(t, 0.0, stats.Mean)
		assert.False(t, stats.CVDefined)
		assert.False(t, stats.InsufficientData)
	})

	t.Run("single element has zero spread", func(t *testing.T) {
		stats := ComputeDispersion([]float64{42})

		assert.Equal(t, 42.0, stats.Mean)
		assert.Equal(t, 0.0, stats.StdDev)
		require.True(t, stats.CVDefined)
		assert.Equal(t, 0.0, stats.CV)
	})

	t.Run("empty series tagged insufficient", func(t *testing.T) {
		stats := ComputeDispersion(nil)
		assert.True(t, stats.InsufficientData)
	})
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
		ok       bool
	}{
		{"doubling", []float64{100, 150, 200}, 100, true},
		{"decline", []float64{200, 180, 150}, -25, true},
		{"flat", []float64{50, 50}, 0, true},
		{"zero first value undefined", []float64{0, 100}, 0, false},
		{"single point undefined", []float64{100}, 0, false},
		{"empty undefined", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := GrowthRate(tt.values)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, pct, 1e-9)
			}
		})
	}
}

func TestMonthOverMonth(t *testing.T) {
	series := domain.EntitySeries{
		EntityID: "SUP-001",
		Observations: []domain.Observation{
			{EntityID: "SUP-001", Period: "2025-01", Volume: 100},
			{EntityID: "SUP-001", Period: "2025-02", Volume: 150},
			{EntityID: "SUP-001", Period: "2025-03", Volume: 0},
			{EntityID: "SUP-001", Period: "2025-04", Volume: 90},
		},
	}

	deltas := MonthOverMonth(series)
	require.Len(t, deltas, 3)

	assert.Equal(t, "2025-01", deltas[0].FromPeriod)
	assert.Equal(t, "2025-02", deltas[0].ToPeriod)
	require.True(t, deltas[0].Defined)
	assert.InDelta(t, 50.0, deltas[0].ChangePct, 1e-9)

	require.True(t, deltas[1].Defined)
	assert.InDelta(t, -100.0, deltas[1].ChangePct, 1e-9)

	// Delta from a zero-volume month is undefined, never divided.
	assert.False(t, deltas[2].Defined)

	t.Run("short series yields nothing", func(t *testing.T) {
		short := domain.EntitySeries{Observations: []domain.Observation{{Period: "2025-01", Volume: 10}}}
		assert.Nil(t, MonthOverMonth(short))
	})
}
