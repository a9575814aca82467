// Package services holds the field calculators, the unified report generator
// and the per-user workspace that ties them together.
package services

import (
	"fieldreports/models"
)

// RisePerMetre converts a grade into metres of rise per metre of run.
// Percent mode divides by 100, ratio mode is 1 / X.
func RisePerMetre(mode models.GradeMode, value float64) float64 {
	if mode.OrDefault() == models.GradeModeRatio {
		return 1 / value
	}
	return value / 100
}

// GradePercent returns the grade as a percentage.
func GradePercent(mode models.GradeMode, value float64) float64 {
	if mode.OrDefault() == models.GradeModeRatio {
		return 100 / value
	}
	return value
}

// GradeRatio returns the grade as the X of "1 in X".
func GradeRatio(mode models.GradeMode, value float64) float64 {
	if mode.OrDefault() == models.GradeModeRatio {
		return value
	}
	return 100 / value
}

// validGrade reports whether a grade can be used in a calculation. Zero and
// negative grades are rejected so no calculator ever divides by zero.
func validGrade(v *float64) bool {
	return v != nil && *v > 0
}
