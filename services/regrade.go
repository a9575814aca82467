package services

import (
	"errors"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"fieldreports/models"
)

// PipeLength is the standard pipe length, in metres, used to express a
// regrade as a per-pipe adjustment.
const PipeLength = 6.0

var positive = validation.By(func(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	if f, ok := v.(float64); ok && f <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
})

func validateRegrade(r models.RegradeReading) error {
	err := validation.Errors{
		"currentGrade": validation.Validate(r.CurrentGradeValue(),
			validation.NotNil.Error("Please enter a valid current grade value"), positive),
		"distance": validation.Validate(r.Distance,
			validation.NotNil.Error("Please enter a valid distance"), positive),
		"currentHeight": validation.Validate(r.CurrentHeight,
			validation.NotNil.Error("Please enter a valid current height")),
		"targetHeight": validation.Validate(r.TargetHeight,
			validation.NotNil.Error("Please enter a valid target height")),
	}.Filter()
	if err != nil {
		return asValidationError(err)
	}
	if *r.TargetHeight == *r.CurrentHeight {
		return newValidationError("targetHeight", "Target IL must differ from current IL")
	}
	return nil
}

// CalculateRegrade works out the grade needed to move from the current IL to
// the target IL over the given distance. Unlike the other tools it only runs
// on request, and it reports invalid input as a *ValidationError.
func CalculateRegrade(r models.RegradeReading) (*models.RegradeResults, error) {
	if err := validateRegrade(r); err != nil {
		return nil, err
	}

	current := GradePercent(r.GradeMode, *r.CurrentGradeValue())
	distance := *r.Distance
	heightDiff := *r.TargetHeight - *r.CurrentHeight
	newPercent := heightDiff / distance * 100

	return &models.RegradeResults{
		CurrentGradePercent: current,
		NewGradePercent:     newPercent,
		NewGradeRatio:       100 / math.Abs(newPercent),
		GradeChange:         newPercent - current,
		HeightChange:        heightDiff,
		AdjustmentPer6m:     heightDiff / distance * PipeLength * 1000,
	}, nil
}

// InvalidateRegrade drops stale results after an input change.
func InvalidateRegrade(r *models.RegradeReading) {
	r.Calculated = false
	r.Results = nil
}
