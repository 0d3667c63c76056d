// Package analytics implements the statistical core of the spendpulse
// supplier analytics platform.
//
// The package turns per-supplier, per-period volume/quality observations into
// population-derived benchmarks, market concentration indices, outlier flags,
// and a composite multi-factor risk classification.
//
// # Core Components
//
//   - percentile.go: linearly interpolated order statistics (continuous
//     method) and population benchmarks
//   - dispersion.go: mean, sample standard deviation, coefficient of
//     variation, growth rate, month-over-month deltas
//   - concentration.go: Herfindahl-Hirschman index and market structure label
//   - outlier.go: IQR-fence outlier detection over an entity's own history
//   - risk.go: normalized four-signal composite risk scorer
//   - thresholds.go: scope-tagged dynamic threshold publisher
//   - engine.go: orchestrator for one full analytics pass over a scope
//   - validate.go: boundary validation of incoming observations
//
// # Design Rules
//
// Every function in this package is a deterministic pure function of its
// input: no ambient state is read, no caching happens between calls, and
// re-invoking with identical inputs yields bit-identical outputs. Derived
// records are recomputed per request against the observation set in scope,
// because their meaning depends on the population being compared.
//
// Empty or degenerate input never produces a numeric default. Every result
// type carries an explicit insufficient-data tag, and division is always
// guarded (mean=0 for CV, total=0 for HHI) and resolved to a documented
// sentinel. Only genuine upstream contract violations (negative volume,
// quality outside [0,1], non-finite values) surface as errors.
//
// # Usage Example
//
//	engine := analytics.NewEngine(analytics.DefaultRiskWeights(), slog.Default(), nil)
//
//	report, err := engine.Run(ctx, scope, observations)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, profile := range report.Profiles {
//	    fmt.Println(profile.EntityID, profile.Risk.RiskBand)
//	}
//
// # Definitions
//
// The coefficient of variation is defined once, everywhere, as the sample
// standard deviation (n-1 denominator) divided by the arithmetic mean, as a
// percentage. Quantiles use the continuous linear-interpolation method: for a
// sorted series of n values and quantile q, the index is q*(n-1) and the
// result is interpolated between the bracketing order statistics.
package analytics
