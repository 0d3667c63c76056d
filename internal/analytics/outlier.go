package analytics

import (
	"spendpulse/pkg/contracts/domain"
)

// fenceMultiplier is the standard Tukey fence factor applied to the IQR.
const fenceMultiplier = 1.5

// minOutlierObservations is the smallest series that supports a meaningful
// quartile fence. Below this the detector reports insufficient data instead
// of a fence computed on a degenerate sample.
const minOutlierObservations = 4

// DetectOutliers flags anomalous volumes within one entity's own history
// using IQR fences: a value beyond Q3 + 1.5*IQR is a high outlier, below
// Q1 - 1.5*IQR a low outlier. The comparison population is always the
// entity's own series, never a cross-entity pool.
func DetectOutliers(series domain.EntitySeries) domain.OutlierReport {
	report := domain.OutlierReport{EntityID: series.EntityID}

	values := series.Volumes()
	if len(values) < minOutlierObservations {
		report.InsufficientData = true
		return report
	}

	q1, _ := Quantile(values, 0.25)
	q3, _ := Quantile(values, 0.75)
	iqr := q3 - q1

	report.Q1 = q1
	report.Q3 = q3
	report.IQR = iqr
	report.LowerFence = q1 - fenceMultiplier*iqr
	report.UpperFence = q3 + fenceMultiplier*iqr

	report.Flags = make([]domain.OutlierFlag, 0, len(series.Observations))
	for _, obs := range series.Observations {
		flag := domain.OutlierFlag{
			EntityID:    series.EntityID,
			Period:      obs.Period,
			Value:       obs.Volume,
			OutlierType: domain.OutlierTypeNone,
		}
		switch {
		case obs.Volume > report.UpperFence:
			flag.IsOutlier = true
			flag.OutlierType = domain.OutlierTypeHigh
			flag.Magnitude = obs.Volume - report.UpperFence
		case obs.Volume < report.LowerFence:
			flag.IsOutlier = true
			flag.OutlierType = domain.OutlierTypeLow
			flag.Magnitude = report.LowerFence - obs.Volume
		}
		report.Flags = append(report.Flags, flag)
	}
	return report
}
