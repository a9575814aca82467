package collections_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"fieldreports/collections"
	"fieldreports/models"
	"fieldreports/services"
	"fieldreports/testhelpers"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// legacyDocument is a report as the first release stored it: a scalar
// extraDistance, string regrade inputs with formatted results, flat grade
// check results and no schema version.
func legacyDocument() map[string]any {
	return map[string]any{
		"pipeLevelCheck": map[string]any{
			"readingCounter": float64(1),
			"readings": []any{
				map[string]any{
					"id": float64(1), "sectionId": "MH1", "slopeMode": "percent",
					"slopeValue": float64(1), "distance": float64(25),
					"startHeight": 179.25, "measuredHeight": 179.5,
					"extraDistance": float64(6), "notes": "",
					"calculated": true,
					"results":    map[string]any{"status": "LEVEL 0.000m"},
				},
			},
		},
		"laser": map[string]any{
			"readingCounter": float64(1),
			"readings": []any{
				map[string]any{"id": float64(1), "sectionId": "", "gradeRatio": float64(90), "laserPercent": nil, "notes": ""},
			},
		},
		"regrade": map[string]any{
			"readingCounter": float64(1),
			"readings": []any{
				map[string]any{
					"id": float64(1), "sectionId": "R1", "gradeMode": "percent",
					"currentGrade": "1", "currentRatio": "", "distance": "10",
					"currentHeight": "100", "targetHeight": "100.2", "chainage": "",
					"notes": "", "calculated": true,
					"results": map[string]any{"newGradePercent": "+2.000", "adjustmentPer6m": "+120"},
				},
			},
		},
		"gradeCheck": map[string]any{
			"readingCounter": float64(1),
			"readings": []any{
				map[string]any{
					"id": float64(1), "sectionId": "", "downstreamIL": float64(100), "upstreamIL": 100.5,
					"length": float64(50), "designGrade": float64(1), "gradeMode": "percent",
					"actualGrade": float64(1), "status": "calculated", "notes": "",
				},
			},
		},
		"chainageIL": map[string]any{
			"readingCounter": float64(0),
			"readings":       []any{},
		},
		"generalNotes": map[string]any{
			"noteCounter": float64(1),
			"notes": []any{
				map[string]any{"id": float64(2), "content": "hi"},
			},
		},
	}
}

func TestUpgradeSnapshot_Legacy(t *testing.T) {
	got, err := collections.UpgradeSnapshot(legacyDocument())
	if err != nil {
		t.Fatalf("UpgradeSnapshot() error: %v", err)
	}

	want := models.Snapshot{SchemaVersion: models.SchemaVersion}
	want.PipeLevelCheck = models.ToolStore[models.PipeLevelReading]{
		ReadingCounter: 1,
		Readings: []models.PipeLevelReading{{
			ID: 1, SectionID: "MH1", SlopeMode: models.GradeModePercent,
			SlopeValue: models.Float(1), Distance: models.Float(25),
			StartHeight: models.Float(179.25), MeasuredHeight: models.Float(179.5),
			ExtraDistances:       []models.ExtraDistance{{ID: 1, Distance: 6}},
			ExtraDistanceCounter: 1,
			Calculated:           true,
			Results: &models.PipeLevelResults{
				RisePerMetre: 0.01, DesignHeight: 179.5, Difference: 0, Status: models.StatusLevel,
			},
		}},
	}
	want.Laser = models.ToolStore[models.LaserReading]{
		ReadingCounter: 1,
		Readings: []models.LaserReading{{
			ID: 1, GradeRatio: models.Float(90), LaserPercent: models.Float(100.0 / 90),
		}},
	}
	want.Regrade = models.ToolStore[models.RegradeReading]{
		ReadingCounter: 1,
		Readings: []models.RegradeReading{{
			ID: 1, SectionID: "R1", GradeMode: models.GradeModePercent,
			CurrentGrade: models.Float(1), Distance: models.Float(10),
			CurrentHeight: models.Float(100), TargetHeight: models.Float(100.2),
			Calculated: true,
			Results: &models.RegradeResults{
				CurrentGradePercent: 1, NewGradePercent: 2, NewGradeRatio: 50,
				GradeChange: 1, HeightChange: 0.2, AdjustmentPer6m: 120,
			},
		}},
	}
	want.GradeCheck = models.ToolStore[models.GradeCheckReading]{
		ReadingCounter: 1,
		Readings: []models.GradeCheckReading{{
			ID: 1, DownstreamIL: models.Float(100), UpstreamIL: models.Float(100.5),
			Length: models.Float(50), DesignGrade: models.Float(1), GradeMode: models.GradeModePercent,
			Calculated: true,
			Results: &models.GradeCheckResults{
				DesignGradePercent: 1, DesignRise: 0.5, DesignRisePerMetre: 10,
				ActualGrade: 1, ActualRise: 0.5, ActualRisePerMetre: 10,
			},
		}},
	}
	want.GeneralNotes.ReadingCounter = 2
	want.GeneralNotes.Readings = []models.GeneralNote{{ID: 2, Content: "hi"}}

	if diff := cmp.Diff(want, got, approx, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("UpgradeSnapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpgradeSnapshot_RegradeWithBadInputsIsUncalculated(t *testing.T) {
	doc := map[string]any{
		"regrade": map[string]any{
			"readingCounter": float64(1),
			"readings": []any{
				map[string]any{
					"id": float64(1), "gradeMode": "ratio", "currentRatio": "abc",
					"distance": "10", "currentHeight": "1", "targetHeight": "2",
					"calculated": true, "results": map[string]any{"newGradePercent": "NaN"},
				},
			},
		},
	}

	got, err := collections.UpgradeSnapshot(doc)
	if err != nil {
		t.Fatalf("UpgradeSnapshot() error: %v", err)
	}
	r := got.Regrade.Readings[0]
	if r.CurrentRatio != nil {
		t.Errorf("CurrentRatio = %v, want nil", *r.CurrentRatio)
	}
	if r.Calculated || r.Results != nil {
		t.Error("expected reading with an invalid grade to be uncalculated")
	}
}

func TestUpgradeSnapshot_CurrentVersionPassesThrough(t *testing.T) {
	snap := testhelpers.LevelSnapshot()
	raw := map[string]any{
		"schemaVersion":  float64(models.SchemaVersion),
		"pipeLevelCheck": snap.PipeLevelCheck,
		"laser":          snap.Laser,
		"regrade":        snap.Regrade,
		"gradeCheck":     snap.GradeCheck,
		"chainageIL":     snap.ChainageIL,
		"generalNotes":   snap.GeneralNotes,
	}

	got, err := collections.UpgradeSnapshot(raw)
	if err != nil {
		t.Fatalf("UpgradeSnapshot() error: %v", err)
	}
	if diff := cmp.Diff(snap, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("current snapshot changed (-want +got):\n%s", diff)
	}
}

func TestUpgradeAllReports(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "crew@example.com")
	legacy := testhelpers.CreateLegacyReport(t, app, user.Id, legacyDocument())
	current := testhelpers.CreateTestReport(t, app, user.Id, "Current", "", testhelpers.LevelSnapshot())
	updatedBefore := current.GetDateTime("updated")

	if err := collections.UpgradeAllReports(app); err != nil {
		t.Fatalf("UpgradeAllReports() error: %v", err)
	}

	rec, err := app.FindRecordById("reports", legacy.Id)
	if err != nil {
		t.Fatalf("legacy report missing: %v", err)
	}
	if rec.GetInt("schema_version") != models.SchemaVersion {
		t.Errorf("schema_version = %d, want %d", rec.GetInt("schema_version"), models.SchemaVersion)
	}

	var pipe models.ToolStore[models.PipeLevelReading]
	if err := rec.UnmarshalJSONField("pipe_level_check", &pipe); err != nil {
		t.Fatalf("decode pipe_level_check: %v", err)
	}
	if len(pipe.Readings) != 1 || len(pipe.Readings[0].ExtraDistances) != 1 {
		t.Fatalf("expected migrated extra distance, got %+v", pipe.Readings)
	}

	untouched, _ := app.FindRecordById("reports", current.Id)
	if !untouched.GetDateTime("updated").Equal(updatedBefore) {
		t.Error("current report should not be rewritten")
	}

	// Second run finds nothing left to do.
	if err := collections.UpgradeAllReports(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}
}

func TestLegacyReportLoadsThroughStore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "crew@example.com")
	legacy := testhelpers.CreateLegacyReport(t, app, user.Id, legacyDocument())

	r, err := collections.NewReportStore(app).Load(t.Context(), legacy.Id, user.Id)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	msg := services.GenerateMessage(r.ProjectName, r.Stage, r.Snapshot)
	testhelpers.AssertHTMLContains(t, msg,
		"PIPE LEVEL CHECKS",
		"LASER GRADE CONVERSIONS",
		"REGRADE CALCULATIONS",
		"GRADE VERIFICATIONS",
		"GENERAL NOTES",
	)
}
