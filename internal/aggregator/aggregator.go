// Package aggregator defines the collaborator contract the analytics core
// consumes observations through, plus the file-backed source used by the
// report CLI.
//
// The aggregation layer owns grouping raw transactions into per-supplier,
// per-period tuples, along with any timeout, retry, or cancellation concerns
// of fetching them. By contract it returns a deterministic observation set
// for a given scope and excludes or marks null/negative volumes before they
// reach the core.
package aggregator

import (
	"context"

	"spendpulse/pkg/contracts/domain"
)

// Source supplies pre-aggregated observations for a scope.
type Source interface {
	Observations(ctx context.Context, scope domain.Scope) ([]domain.Observation, error)
}

// StaticSource serves a fixed observation set, filtered per scope. Used in
// tests and wherever observations are already in memory.
type StaticSource struct {
	observations []domain.Observation
}

// NewStaticSource creates a source over a fixed observation set.
func NewStaticSource(observations []domain.Observation) *StaticSource {
	return &StaticSource{observations: observations}
}

// Observations returns the subset of the fixed set inside the scope.
func (s *StaticSource) Observations(_ context.Context, scope domain.Scope) ([]domain.Observation, error) {
	result := make([]domain.Observation, 0, len(s.observations))
	for _, obs := range s.observations {
		if scope.Contains(obs) {
			result = append(result, obs)
		}
	}
	return result, nil
}
