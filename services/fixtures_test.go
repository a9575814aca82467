package services

import (
	"time"

	"fieldreports/models"
)

// sampleReport returns a saved report with one qualifying reading in the
// pipe level, laser and notes tools.
func sampleReport() models.Report {
	var s models.Snapshot
	s.SchemaVersion = models.SchemaVersion

	pipe := models.PipeLevelReading{
		ID:             1,
		SectionID:      "MH1-MH2",
		SlopeMode:      models.GradeModePercent,
		SlopeValue:     models.Float(1),
		Distance:       models.Float(25),
		StartHeight:    models.Float(179.250),
		MeasuredHeight: models.Float(179.500),
	}
	RecalculatePipeLevel(&pipe)
	s.PipeLevelCheck.Readings = []models.PipeLevelReading{pipe}
	s.Laser.Readings = []models.LaserReading{{ID: 1, GradeRatio: models.Float(90), LaserPercent: models.Float(100.0 / 90)}}
	s.Regrade.Readings = []models.RegradeReading{{ID: 1}}
	s.GeneralNotes.Readings = []models.GeneralNote{{ID: 1, Content: "Site clear"}}

	created := time.Date(2025, 3, 4, 8, 30, 0, 0, time.UTC)
	return models.Report{
		ID:          "rep1",
		OwnerLabel:  "crew@example.com",
		ProjectName: "Riverside",
		Stage:       "Stage 2",
		CreatedAt:   created,
		UpdatedAt:   created.Add(2 * time.Hour),
		Snapshot:    s,
	}
}
