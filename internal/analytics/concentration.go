package analytics

import (
	"math"

	"spendpulse/internal/errors"
	"spendpulse/pkg/contracts/domain"
)

// ComputeConcentration calculates the Herfindahl-Hirschman index for one
// market segment from per-supplier volumes. Shares are percentages of the
// segment total, so HHI lands on the 0-10000 scale and is rounded to two
// decimals. A segment with zero total volume reports HHI 0 and structure
// "undefined" — the division is guarded, never performed.
//
// Alongside the index it reports the leader's share and the count of
// significant players (share above 1%).
func ComputeConcentration(segment string, volumes []domain.EntityVolume) (domain.ConcentrationIndex, error) {
	index := domain.ConcentrationIndex{
		Segment:        segment,
		StructureLabel: domain.StructureUndefined,
	}

	var total float64
	for _, ev := range volumes {
		if math.IsNaN(ev.Volume) || math.IsInf(ev.Volume, 0) {
			return domain.ConcentrationIndex{}, errors.NewInvalidInput(ev.EntityID, "volume", ev.Volume, "must be finite")
		}
		if ev.Volume < 0 {
			return domain.ConcentrationIndex{}, errors.NewInvalidInput(ev.EntityID, "volume", ev.Volume, "must be non-negative")
		}
		total += ev.Volume
	}
	if total == 0 {
		return index, nil
	}
	index.TotalVolume = total

	var hhi, leaderShare float64
	significant := 0
	for _, ev := range volumes {
		share := ev.Volume / total * 100
		hhi += share * share
		if share > leaderShare {
			leaderShare = share
		}
		if share > 1 {
			significant++
		}
	}

	index.HHI = math.Round(hhi*100) / 100
	index.LeaderShare = leaderShare
	index.SignificantPlayers = significant
	index.StructureLabel = classifyStructure(index.HHI)
	return index, nil
}

// classifyStructure maps an HHI value to its market structure label using
// the standard DOJ-style bands.
func classifyStructure(hhi float64) string {
	switch {
	case hhi < 1500:
		return domain.StructureCompetitive
	case hhi < 2500:
		return domain.StructureModerate
	default:
		return domain.StructureHigh
	}
}
