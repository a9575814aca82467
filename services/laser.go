package services

import (
	"fieldreports/models"
)

// LaserSource names the laser field the user edited last.
type LaserSource string

const (
	LaserFromRatioField   LaserSource = "gradeRatio"
	LaserFromPercentField LaserSource = "laserPercent"
)

// LaserFromRatio converts a "1 in X" grade into a laser percentage.
func LaserFromRatio(ratio float64) (float64, error) {
	if ratio <= 0 {
		return 0, newValidationError(string(LaserFromRatioField), "grade ratio must be greater than zero")
	}
	return 100 / ratio, nil
}

// LaserFromPercent converts a laser percentage into a "1 in X" grade.
func LaserFromPercent(percent float64) (float64, error) {
	if percent <= 0 {
		return 0, newValidationError(string(LaserFromPercentField), "laser percent must be greater than zero")
	}
	return 100 / percent, nil
}

// ApplyLaserValue sets the edited side of the conversion and derives the
// other one. A nil value clears both sides. On error r is left untouched.
func ApplyLaserValue(r *models.LaserReading, source LaserSource, value *float64) error {
	if value == nil {
		r.GradeRatio = nil
		r.LaserPercent = nil
		return nil
	}

	switch source {
	case LaserFromRatioField:
		percent, err := LaserFromRatio(*value)
		if err != nil {
			return err
		}
		r.GradeRatio = models.Float(*value)
		r.LaserPercent = models.Float(percent)
	case LaserFromPercentField:
		ratio, err := LaserFromPercent(*value)
		if err != nil {
			return err
		}
		r.LaserPercent = models.Float(*value)
		r.GradeRatio = models.Float(ratio)
	default:
		return newValidationError("source", "unknown laser field")
	}
	return nil
}

// laserValues returns the ratio and percent of a reading, deriving whichever
// side is missing.
func laserValues(r models.LaserReading) (ratio, percent float64) {
	switch {
	case r.GradeRatio != nil && r.LaserPercent != nil:
		return *r.GradeRatio, *r.LaserPercent
	case r.GradeRatio != nil:
		return *r.GradeRatio, 100 / *r.GradeRatio
	case r.LaserPercent != nil:
		return 100 / *r.LaserPercent, *r.LaserPercent
	}
	return 0, 0
}
