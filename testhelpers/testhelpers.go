// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/collections"
	"fieldreports/models"
)

// TestPassword is the password of every user made by CreateTestUser.
const TestPassword = "test-password-123"

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestUser creates a verified user with TestPassword and returns it.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.UsersCollection)
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword(TestPassword)
	record.SetVerified(true)
	record.Set("name", strings.Split(email, "@")[0])

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// AuthToken returns a fresh auth token for user.
func AuthToken(t *testing.T, user *core.Record) string {
	t.Helper()

	token, err := user.NewAuthToken()
	if err != nil {
		t.Fatalf("failed to create auth token: %v", err)
	}
	return token
}

// CreateTestReport saves a report owned by ownerID and returns its record.
func CreateTestReport(t *testing.T, app *pocketbase.PocketBase, ownerID, projectName, stage string, snap models.Snapshot) *core.Record {
	t.Helper()

	store := collections.NewReportStore(app)
	id, err := store.Save(t.Context(), ownerID, "Test Owner", collections.ReportInput{
		ProjectName: projectName,
		Stage:       stage,
		Snapshot:    snap,
	})
	if err != nil {
		t.Fatalf("failed to save test report: %v", err)
	}

	record, err := app.FindRecordById(collections.ReportsCollection, id)
	if err != nil {
		t.Fatalf("failed to reload test report: %v", err)
	}
	return record
}

// CreateLegacyReport stores a report exactly as an older build wrote it:
// no schema version and the given raw tool documents.
func CreateLegacyReport(t *testing.T, app *pocketbase.PocketBase, ownerID string, raw map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.ReportsCollection)
	if err != nil {
		t.Fatalf("failed to find reports collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("owner", ownerID)
	record.Set("project_name", "Legacy")
	record.Set("stage", "v1")
	fields := map[string]string{
		"pipeLevelCheck": "pipe_level_check",
		"laser":          "laser",
		"regrade":        "regrade",
		"gradeCheck":     "grade_check",
		"chainageIL":     "chainage_il",
		"generalNotes":   "general_notes",
	}
	for key, field := range fields {
		if v, ok := raw[key]; ok {
			record.Set(field, v)
		}
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save legacy report: %v", err)
	}
	return record
}

// LevelSnapshot returns a snapshot holding one calculated pipe level check
// (1% over 25 m from 179.250, measured 179.500: LEVEL) and one note.
func LevelSnapshot() models.Snapshot {
	snap := models.Snapshot{SchemaVersion: models.SchemaVersion}
	snap.PipeLevelCheck.Add(func(id int) models.PipeLevelReading {
		return models.PipeLevelReading{
			ID:             id,
			SlopeMode:      models.GradeModePercent,
			SlopeValue:     models.Float(1),
			Distance:       models.Float(25),
			StartHeight:    models.Float(179.25),
			MeasuredHeight: models.Float(179.5),
			Calculated:     true,
			Results: &models.PipeLevelResults{
				RisePerMetre: 0.01,
				DesignHeight: 179.5,
				Difference:   0,
				Status:       models.StatusLevel,
			},
		}
	})
	snap.Laser.Add(func(id int) models.LaserReading { return models.LaserReading{ID: id} })
	snap.Regrade.Add(func(id int) models.RegradeReading {
		return models.RegradeReading{ID: id, GradeMode: models.GradeModePercent}
	})
	snap.GradeCheck.Add(func(id int) models.GradeCheckReading {
		return models.GradeCheckReading{ID: id, GradeMode: models.GradeModePercent}
	})
	snap.ChainageIL.Add(func(id int) models.ChainageILReading {
		return models.ChainageILReading{ID: id, GradeMode: models.GradeModePercent}
	})
	snap.GeneralNotes.Add(func(id int) models.GeneralNote {
		return models.GeneralNote{ID: id, Content: "Site clear"}
	})
	return snap
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
