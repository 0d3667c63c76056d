package analytics

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"

	apperrors "spendpulse/internal/errors"
	"spendpulse/pkg/contracts/domain"
)

// validate is the shared validator instance for boundary struct checks.
var validate = validator.New()

// ValidateObservations checks every observation against the aggregator
// contract before any arithmetic sees it: required fields, finite numerics,
// non-negative volume, quality inside [0,1]. All violations are collected
// into a single ValidationError so an upstream data problem surfaces whole,
// not one field at a time.
func ValidateObservations(observations []domain.Observation) error {
	var violations []*apperrors.InvalidInputError

	for _, obs := range observations {
		if math.IsNaN(obs.Volume) || math.IsInf(obs.Volume, 0) {
			violations = append(violations, apperrors.NewInvalidInput(obs.EntityID, "volume", obs.Volume, "must be finite"))
			continue
		}
		if math.IsNaN(obs.QualityScore) || math.IsInf(obs.QualityScore, 0) {
			violations = append(violations, apperrors.NewInvalidInput(obs.EntityID, "quality_score", obs.QualityScore, "must be finite"))
			continue
		}
		if err := validate.Struct(obs); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				violations = append(violations, apperrors.NewInvalidInput(obs.EntityID, "observation", 0, err.Error()))
				continue
			}
			for _, fe := range fieldErrs {
				violations = append(violations, structViolation(obs, fe))
			}
		}
	}

	if len(violations) > 0 {
		return &apperrors.ValidationError{Violations: violations}
	}
	return nil
}

// ValidateScope checks the scope record itself before it drives a pass.
func ValidateScope(scope domain.Scope) error {
	if err := validate.Struct(scope); err != nil {
		return apperrors.NewInvalidInput("", "scope", 0, err.Error())
	}
	if scope.PeriodFrom != "" && scope.PeriodTo != "" && scope.PeriodFrom > scope.PeriodTo {
		return apperrors.NewInvalidInput("", "scope", 0, "period_from is after period_to")
	}
	return nil
}

func structViolation(obs domain.Observation, fe validator.FieldError) *apperrors.InvalidInputError {
	switch fe.Field() {
	case "Volume":
		return apperrors.NewInvalidInput(obs.EntityID, "volume", obs.Volume, "must be non-negative")
	case "QualityScore":
		return apperrors.NewInvalidInput(obs.EntityID, "quality_score", obs.QualityScore, "must be in [0,1]")
	case "Period":
		return apperrors.NewInvalidInput(obs.EntityID, "period", 0, "must be YYYY-MM")
	default:
		return apperrors.NewInvalidInput(obs.EntityID, fe.Field(), 0, "failed "+fe.Tag()+" validation")
	}
}
