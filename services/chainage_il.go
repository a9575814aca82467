package services

import (
	"fieldreports/models"
)

// CalculateChainageIL projects the invert level at a chainage from a start IL
// and a grade.
func CalculateChainageIL(r models.ChainageILReading) *models.ChainageILResults {
	if r.StartIL == nil || r.TargetChainage == nil || !validGrade(r.GradeValue) {
		return nil
	}

	rise := RisePerMetre(r.GradeMode, *r.GradeValue)
	total := rise * *r.TargetChainage

	return &models.ChainageILResults{
		RisePerMetre: rise,
		TotalRise:    total,
		ILAtChainage: *r.StartIL + total,
	}
}

func RecalculateChainageIL(r *models.ChainageILReading) {
	r.Results = CalculateChainageIL(*r)
	r.Calculated = r.Results != nil
}
