package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spendpulse/internal/errors"
	"spendpulse/pkg/contracts/domain"
)

func TestValidateObservations(t *testing.T) {
	valid := domain.Observation{EntityID: "SUP-001", Period: "2025-01", Volume: 100, QualityScore: 0.9}

	t.Run("accepts clean observations", func(t *testing.T) {
		assert.NoError(t, ValidateObservations([]domain.Observation{valid}))
	})

	t.Run("accepts empty input", func(t *testing.T) {
		assert.NoError(t, ValidateObservations(nil))
	})

	tests := []struct {
		name string
		obs  domain.Observation
	}{
		{"negative volume", domain.Observation{EntityID: "S", Period: "2025-01", Volume: -1, QualityScore: 0.5}},
		{"NaN volume", domain.Observation{EntityID: "S", Period: "2025-01", Volume: math.NaN(), QualityScore: 0.5}},
		{"infinite volume", domain.Observation{EntityID: "S", Period: "2025-01", Volume: math.Inf(1), QualityScore: 0.5}},
		{"quality above one", domain.Observation{EntityID: "S", Period: "2025-01", Volume: 1, QualityScore: 1.1}},
		{"negative quality", domain.Observation{EntityID: "S", Period: "2025-01", Volume: 1, QualityScore: -0.1}},
		{"NaN quality", domain.Observation{EntityID: "S", Period: "2025-01", Volume: 1, QualityScore: math.NaN()}},
		{"missing entity", domain.Observation{Period: "2025-01", Volume: 1, QualityScore: 0.5}},
		{"malformed period", domain.Observation{EntityID: "S", Period: "2025", Volume: 1, QualityScore: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name+" rejected", func(t *testing.T) {
			err := ValidateObservations([]domain.Observation{tt.obs})
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))
		})
	}

	t.Run("collects all violations", func(t *testing.T) {
		err := ValidateObservations([]domain.Observation{
			{EntityID: "A", Period: "2025-01", Volume: -1, QualityScore: 0.5},
			valid,
			{EntityID: "B", Period: "2025-01", Volume: 1, QualityScore: 2},
		})
		require.Error(t, err)

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Violations, 2)
	})
}

func TestValidateScope(t *testing.T) {
	t.Run("accepts minimal scope", func(t *testing.T) {
		assert.NoError(t, ValidateScope(domain.Scope{Segment: "north"}))
	})

	t.Run("accepts full scope", func(t *testing.T) {
		assert.NoError(t, ValidateScope(domain.Scope{
			Segment:    "north",
			PeriodFrom: "2025-01",
			PeriodTo:   "2025-06",
			EntityIDs:  []string{"SUP-001"},
		}))
	})

	tests := []struct {
		name  string
		scope domain.Scope
	}{
		{"missing segment", domain.Scope{}},
		{"inverted range", domain.Scope{Segment: "north", PeriodFrom: "2025-06", PeriodTo: "2025-01"}},
		{"malformed period", domain.Scope{Segment: "north", PeriodFrom: "Jan 2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name+" rejected", func(t *testing.T) {
			err := ValidateScope(tt.scope)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))
		})
	}
}
