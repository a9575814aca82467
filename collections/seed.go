package collections

import (
	"context"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/models"
	"fieldreports/services"
)

// Demo account created by Seed.
const (
	DemoEmail    = "demo@fieldreports.local"
	DemoPassword = "fieldreports-demo"
	DemoName     = "Demo Crew"
)

// ── Definition structs ───────────────────────────────────────────────────

type pipeLevelDef struct {
	sectionID string
	slope     float64
	mode      models.GradeMode
	distance  float64
	start     float64
	measured  float64
	extras    []float64
	notes     string
}

type laserDef struct {
	sectionID string
	ratio     float64
	notes     string
}

type chainageDef struct {
	sectionID string
	startIL   float64
	chainage  float64
	grade     float64
	mode      models.GradeMode
}

// ── Seed data ────────────────────────────────────────────────────────────

var seedPipeLevels = []pipeLevelDef{
	{sectionID: "MH1-MH2", slope: 1, mode: models.GradeModePercent, distance: 25, start: 179.250, measured: 179.500, notes: "Bedding checked"},
	{sectionID: "MH2-MH3", slope: 80, mode: models.GradeModeRatio, distance: 12, start: 179.500, measured: 179.640, extras: []float64{6, 6}},
}

var seedLasers = []laserDef{
	{sectionID: "Main run", ratio: 90, notes: "Laser set on MH1"},
}

var seedChainages = []chainageDef{
	{sectionID: "CH 20", startIL: 179.250, chainage: 20, grade: 1.111, mode: models.GradeModePercent},
}

var seedNotes = []string{
	"Site clear at 3pm",
	"Trench shoring inspected",
}

// Seed creates the demo user and one sample report. It does nothing when the
// demo user already exists.
func Seed(app *pocketbase.PocketBase) error {
	usersCol, err := app.FindCollectionByNameOrId(UsersCollection)
	if err != nil {
		return fmt.Errorf("seed: could not find users collection: %w", err)
	}
	if existing, _ := app.FindAuthRecordByEmail(usersCol, DemoEmail); existing != nil {
		return nil // already seeded
	}

	log.Println("seed: demo user missing – inserting seed data …")

	user := core.NewRecord(usersCol)
	user.SetEmail(DemoEmail)
	user.SetPassword(DemoPassword)
	user.SetVerified(true)
	user.Set("name", DemoName)
	if err := app.Save(user); err != nil {
		return fmt.Errorf("seed: could not create demo user: %w", err)
	}

	store := NewReportStore(app)
	id, err := store.Save(context.Background(), user.Id, DemoName, ReportInput{
		ProjectName: "Riverside Estate",
		Stage:       "Stage 2 Sewer",
		Snapshot:    seedSnapshot(),
	})
	if err != nil {
		return fmt.Errorf("seed: could not create sample report: %w", err)
	}

	log.Printf("seed: created demo user %s and report %s", DemoEmail, id)
	return nil
}

func seedSnapshot() models.Snapshot {
	snap := models.Snapshot{SchemaVersion: models.SchemaVersion}

	for _, d := range seedPipeLevels {
		snap.PipeLevelCheck.Add(func(id int) models.PipeLevelReading {
			r := models.PipeLevelReading{
				ID:             id,
				SectionID:      d.sectionID,
				SlopeMode:      d.mode,
				SlopeValue:     models.Float(d.slope),
				Distance:       models.Float(d.distance),
				StartHeight:    models.Float(d.start),
				MeasuredHeight: models.Float(d.measured),
				Notes:          d.notes,
			}
			for _, extra := range d.extras {
				r.ExtraDistanceCounter++
				r.ExtraDistances = append(r.ExtraDistances, models.ExtraDistance{ID: r.ExtraDistanceCounter, Distance: extra})
			}
			services.RecalculatePipeLevel(&r)
			return r
		})
	}

	for _, d := range seedLasers {
		snap.Laser.Add(func(id int) models.LaserReading {
			r := models.LaserReading{ID: id, SectionID: d.sectionID, Notes: d.notes}
			if err := services.ApplyLaserValue(&r, services.LaserFromRatioField, models.Float(d.ratio)); err != nil {
				log.Printf("seed: laser %s: %v", d.sectionID, err)
			}
			return r
		})
	}

	snap.Regrade.Add(func(id int) models.RegradeReading {
		return models.RegradeReading{ID: id, GradeMode: models.GradeModePercent}
	})
	snap.GradeCheck.Add(func(id int) models.GradeCheckReading {
		return models.GradeCheckReading{ID: id, GradeMode: models.GradeModePercent}
	})

	for _, d := range seedChainages {
		snap.ChainageIL.Add(func(id int) models.ChainageILReading {
			r := models.ChainageILReading{
				ID:             id,
				SectionID:      d.sectionID,
				StartIL:        models.Float(d.startIL),
				TargetChainage: models.Float(d.chainage),
				GradeMode:      d.mode,
				GradeValue:     models.Float(d.grade),
			}
			services.RecalculateChainageIL(&r)
			return r
		})
	}

	for _, content := range seedNotes {
		snap.GeneralNotes.Add(func(id int) models.GeneralNote {
			return models.GeneralNote{ID: id, Content: content}
		})
	}

	return snap
}
