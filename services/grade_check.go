package services

import (
	"math"

	"fieldreports/models"
)

// CalculateGradeCheck compares the as-constructed grade between two inverts
// with the design grade. It returns nil until every input is present, the
// length is positive and the design grade is non-zero. A negative design
// grade is a falling run and is compared as given.
func CalculateGradeCheck(r models.GradeCheckReading) *models.GradeCheckResults {
	if r.DownstreamIL == nil || r.UpstreamIL == nil || r.Length == nil || *r.Length <= 0 || r.DesignGrade == nil || *r.DesignGrade == 0 {
		return nil
	}

	length := *r.Length
	designPercent := GradePercent(r.GradeMode, *r.DesignGrade)
	designRise := length * designPercent / 100
	rise := *r.UpstreamIL - *r.DownstreamIL
	actualGrade := rise / length * 100

	return &models.GradeCheckResults{
		DesignGradePercent:   designPercent,
		DesignRise:           designRise,
		DesignRisePerMetre:   designRise / length * 1000,
		ActualGrade:          actualGrade,
		ActualRise:           rise,
		ActualRisePerMetre:   rise / length * 1000,
		PercentageDifference: math.Abs(actualGrade - designPercent),
		RiseFallDifference:   math.Abs(rise - designRise),
	}
}

func RecalculateGradeCheck(r *models.GradeCheckReading) {
	r.Results = CalculateGradeCheck(*r)
	r.Calculated = r.Results != nil
}
