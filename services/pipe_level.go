package services

import (
	"fieldreports/models"
)

// CalculatePipeLevel computes the design height at the checked distance and
// compares the measured height against it. It returns nil until the slope is
// positive and distance, start height and measured height are all set.
//
// Extra distances are deliberately not part of the design height; they only
// feed TotalChainage.
func CalculatePipeLevel(r models.PipeLevelReading) *models.PipeLevelResults {
	if !validGrade(r.SlopeValue) || r.Distance == nil || r.StartHeight == nil || r.MeasuredHeight == nil {
		return nil
	}

	rise := RisePerMetre(r.SlopeMode, *r.SlopeValue)
	design := *r.StartHeight + *r.Distance*rise
	diff := *r.MeasuredHeight - design

	status := models.StatusLevel
	switch {
	case diff > 0:
		status = models.StatusHigh
	case diff < 0:
		status = models.StatusLow
	}

	return &models.PipeLevelResults{
		RisePerMetre: rise,
		DesignHeight: design,
		Difference:   diff,
		Status:       status,
	}
}

// RecalculatePipeLevel refreshes Results and Calculated from the raw inputs.
func RecalculatePipeLevel(r *models.PipeLevelReading) {
	r.Results = CalculatePipeLevel(*r)
	r.Calculated = r.Results != nil
}

// TotalChainage is the checked distance plus every extra distance.
func TotalChainage(r models.PipeLevelReading) float64 {
	var total float64
	if r.Distance != nil {
		total = *r.Distance
	}
	for _, ed := range r.ExtraDistances {
		total += ed.Distance
	}
	return total
}
