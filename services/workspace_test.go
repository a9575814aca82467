package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldreports/models"
)

func levelInput(measured float64) PipeLevelInput {
	return PipeLevelInput{
		SectionID:      "MH1",
		SlopeMode:      models.GradeModePercent,
		SlopeValue:     models.Float(1),
		Distance:       models.Float(25),
		StartHeight:    models.Float(179.250),
		MeasuredHeight: models.Float(measured),
	}
}

func TestNewWorkspace_OneReadingPerTool(t *testing.T) {
	w := NewWorkspace(0)
	snap, err := w.Snapshot()
	require.NoError(t, err)

	for _, tool := range models.Tools {
		assert.Equal(t, 1, snap.Count(tool), tool)
	}
	assert.Equal(t, models.SchemaVersion, snap.SchemaVersion)

	text, manual := w.Preview()
	assert.False(t, manual)
	assert.Equal(t, "", text)
}

func TestWorkspace_DeleteLastReadingRejected(t *testing.T) {
	w := NewWorkspace(0)
	before, err := w.Snapshot()
	require.NoError(t, err)

	for _, tool := range models.Tools {
		err := w.DeleteReading(tool, 1)
		assert.ErrorIs(t, err, ErrLastReading, tool)
	}

	after, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWorkspace_UnknownTool(t *testing.T) {
	w := NewWorkspace(0)
	_, err := w.AddReading("bogus")
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.ErrorIs(t, w.ClearTool("bogus"), ErrUnknownTool)
	assert.ErrorIs(t, w.MoveReading("bogus", 1, models.Up), ErrUnknownTool)
}

func TestWorkspace_PreviewFollowsEdits(t *testing.T) {
	w := NewWorkspace(0)
	w.SetProject("Riverside", "Stage 2")

	r, err := w.UpdatePipeLevel(1, levelInput(179.500))
	require.NoError(t, err)
	assert.True(t, r.Calculated)

	text, _ := w.Preview()
	assert.Contains(t, text, "Riverside Stage 2\n\nPIPE LEVEL CHECKS\n\nMH1\n\n")
	assert.Contains(t, text, "LEVEL - 0.000")

	// Blanking an input uncalculates the reading and drops the section.
	in := levelInput(179.500)
	in.MeasuredHeight = nil
	r, err = w.UpdatePipeLevel(1, in)
	require.NoError(t, err)
	assert.False(t, r.Calculated)
	assert.Nil(t, r.Results)

	text, _ = w.Preview()
	assert.Equal(t, "Riverside Stage 2\n\n", text)
}

func TestWorkspace_ManualPreviewOverride(t *testing.T) {
	w := NewWorkspace(0)
	w.SetManualPreview("hand written")

	_, err := w.UpdatePipeLevel(1, levelInput(179.500))
	require.NoError(t, err)

	text, manual := w.Preview()
	assert.True(t, manual)
	assert.Equal(t, "hand written", text)

	w.ResetPreview()
	text, manual = w.Preview()
	assert.False(t, manual)
	assert.Contains(t, text, "PIPE LEVEL CHECKS")

	w.SetManualPreview("again")
	require.NoError(t, w.LoadReport(models.Report{ID: "r1"}))
	_, manual = w.Preview()
	assert.False(t, manual, "loading a report clears the override")
}

func TestWorkspace_ClearToolKeepsCounter(t *testing.T) {
	w := NewWorkspace(0)
	id, err := w.AddReading(models.ToolLaser)
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	require.NoError(t, w.ClearTool(models.ToolLaser))
	snap, err := w.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Laser.Readings, 1)
	assert.Equal(t, 3, snap.Laser.Readings[0].ID)
}

func TestWorkspace_LaserEdits(t *testing.T) {
	w := NewWorkspace(0)

	r, err := w.UpdateLaser(1, LaserInput{Source: LaserFromRatioField, Value: models.Float(90), Notes: "main run"})
	require.NoError(t, err)
	assert.Equal(t, "1.1111", FormatFixed(*r.LaserPercent, 4))

	_, err = w.UpdateLaser(1, LaserInput{Source: LaserFromPercentField, Value: models.Float(0)})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	snap, err := w.Snapshot()
	require.NoError(t, err)
	assert.InDelta(t, 90, *snap.Laser.Readings[0].GradeRatio, 1e-9)
	assert.Equal(t, "main run", snap.Laser.Readings[0].Notes)
}

func TestWorkspace_RegradeInvalidatedByInputChange(t *testing.T) {
	w := NewWorkspace(0)
	in := RegradeInput{
		GradeMode:     models.GradeModePercent,
		CurrentGrade:  models.Float(1),
		Distance:      models.Float(20),
		CurrentHeight: models.Float(100),
		TargetHeight:  models.Float(100.1),
	}
	_, err := w.UpdateRegrade(1, in)
	require.NoError(t, err)

	r, err := w.CalculateRegrade(1)
	require.NoError(t, err)
	assert.True(t, r.Calculated)

	// Notes alone keep the result.
	in.Notes = "shoot again"
	r, err = w.UpdateRegrade(1, in)
	require.NoError(t, err)
	assert.True(t, r.Calculated)

	in.Distance = models.Float(25)
	r, err = w.UpdateRegrade(1, in)
	require.NoError(t, err)
	assert.False(t, r.Calculated)
	assert.Nil(t, r.Results)

	in.Distance = models.Float(0)
	_, err = w.UpdateRegrade(1, in)
	require.NoError(t, err)
	_, err = w.CalculateRegrade(1)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "distance")
}

func TestWorkspace_ExtraDistances(t *testing.T) {
	w := NewWorkspace(0)
	_, err := w.AddExtraDistance(1, 10)
	var pending *ValidationError
	require.True(t, errors.As(err, &pending))
	assert.Equal(t, "No calculation to update with extra distance", pending.First())
	snap, err := w.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.PipeLevelCheck.Readings[0].ExtraDistances)

	_, err = w.UpdatePipeLevel(1, levelInput(179.500))
	require.NoError(t, err)

	_, err = w.AddExtraDistance(1, 0)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = w.AddExtraDistance(1, 10)
	require.NoError(t, err)
	r, err := w.AddExtraDistance(1, 5)
	require.NoError(t, err)
	require.Len(t, r.ExtraDistances, 2)

	text, _ := w.Preview()
	assert.Contains(t, text, "CH - 40.00\nDES - 179.500\n")

	r, err = w.RemoveExtraDistance(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.ExtraDistance{{ID: 2, Distance: 5}}, r.ExtraDistances)

	_, err = w.RemoveExtraDistance(1, 1)
	assert.ErrorIs(t, err, ErrReadingNotFound)
}

func TestWorkspace_SnapshotIsDetached(t *testing.T) {
	w := NewWorkspace(0)
	_, err := w.UpdateNote(1, "first")
	require.NoError(t, err)

	snap, err := w.Snapshot()
	require.NoError(t, err)

	_, err = w.UpdateNote(1, "second")
	require.NoError(t, err)
	assert.Equal(t, "first", snap.GeneralNotes.Readings[0].Content)
}

func TestWorkspace_LoadReportAndNewReport(t *testing.T) {
	var snap models.Snapshot
	snap.GeneralNotes.Readings = []models.GeneralNote{{ID: 4, Content: "loaded"}}
	snap.GeneralNotes.ReadingCounter = 4

	w := NewWorkspace(0)
	require.NoError(t, w.LoadReport(models.Report{ID: "abc", ProjectName: "Job", Stage: "1", Snapshot: snap}))

	assert.Equal(t, "abc", w.ReportID())
	text, _ := w.Preview()
	assert.Equal(t, "Job 1\n\nGENERAL NOTES\n\nloaded", text)

	loaded, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.PipeLevelCheck.Len(), "empty stores get a blank reading")

	id, err := w.AddReading(models.ToolNotes)
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	w.NewReport()
	assert.Equal(t, "", w.ReportID())
	text, _ = w.Preview()
	assert.Equal(t, "", text)
}

func TestWorkspace_DraftRoundTrip(t *testing.T) {
	var drafts []models.Draft
	w := NewWorkspace(0)
	w.OnChange(func(d models.Draft) { drafts = append(drafts, d) })

	w.SetProject("Job", "2")
	_, err := w.UpdateNote(1, "kept")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	restored := NewWorkspace(0)
	restored.RestoreDraft(drafts[1])
	a, _ := w.Preview()
	b, _ := restored.Preview()
	assert.Equal(t, a, b)
}

func TestWorkspace_Calculator(t *testing.T) {
	w := NewWorkspace(2)
	for _, k := range strings.Split("7 x 6 =", " ") {
		_, err := w.PressCalculator(k)
		require.NoError(t, err)
	}
	view := w.View()
	assert.Equal(t, "42", view.Calculator.Display)
	assert.Equal(t, []string{"7 × 6 = 42"}, view.Calculator.History)

	view.Calculator = w.ClearCalculatorHistory()
	assert.Empty(t, view.Calculator.History)
}

type fakeDraftStore struct {
	drafts map[string]models.Draft
	saved  chan models.Draft
	err    error
}

func (f *fakeDraftStore) LoadDraft(_ context.Context, ownerID string) (models.Draft, bool, error) {
	if f.err != nil {
		return models.Draft{}, false, f.err
	}
	d, ok := f.drafts[ownerID]
	return d, ok, nil
}

func (f *fakeDraftStore) SaveDraft(_ context.Context, ownerID string, d models.Draft) error {
	f.saved <- d
	return nil
}

func TestWorkspaces_RestoresDraft(t *testing.T) {
	store := &fakeDraftStore{
		drafts: map[string]models.Draft{"u1": {ProjectName: "Job", Stage: "9"}},
		saved:  make(chan models.Draft, 10),
	}
	reg := NewWorkspaces(store, NewDraftSaver(store, 0), 0)

	_, err := reg.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	w, err := reg.Get(context.Background(), "u1")
	require.NoError(t, err)
	name, stage := w.Project()
	assert.Equal(t, "Job", name)
	assert.Equal(t, "9", stage)

	again, err := reg.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Same(t, w, again)

	w.SetProject("Job", "10")
	select {
	case d := <-store.saved:
		assert.Equal(t, "10", d.Stage)
	case <-time.After(time.Second):
		t.Fatal("draft was not saved")
	}

	reg.Forget("u1")
	fresh, err := reg.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotSame(t, w, fresh)
}

func TestWorkspaces_DraftLoadFailureStartsEmpty(t *testing.T) {
	store := &fakeDraftStore{err: errors.New("store down"), saved: make(chan models.Draft, 1)}
	reg := NewWorkspaces(store, nil, 0)

	w, err := reg.Get(context.Background(), "u1")
	require.NoError(t, err)
	text, _ := w.Preview()
	assert.Equal(t, "", text)
}

// gatedDraftStore blocks LoadDraft for one owner until gate is closed.
type gatedDraftStore struct {
	slowOwner string
	entered   chan struct{}
	gate      chan struct{}
}

func (g *gatedDraftStore) LoadDraft(_ context.Context, ownerID string) (models.Draft, bool, error) {
	if ownerID == g.slowOwner {
		g.entered <- struct{}{}
		<-g.gate
	}
	return models.Draft{}, false, nil
}

func (g *gatedDraftStore) SaveDraft(context.Context, string, models.Draft) error { return nil }

func TestWorkspaces_SlowDraftLoadDoesNotBlockOtherOwners(t *testing.T) {
	store := &gatedDraftStore{slowOwner: "slow", entered: make(chan struct{}, 2), gate: make(chan struct{})}
	reg := NewWorkspaces(store, nil, 0)

	results := make(chan *Workspace, 2)
	for i := 0; i < 2; i++ {
		go func() {
			w, err := reg.Get(context.Background(), "slow")
			assert.NoError(t, err)
			results <- w
		}()
	}
	<-store.entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := reg.Get(context.Background(), "fast")
		assert.NoError(t, err)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Get for another owner waited on a draft load")
	}

	close(store.gate)
	first, second := <-results, <-results
	assert.Same(t, first, second, "concurrent first requests must share one workspace")
}

func TestValidateProject(t *testing.T) {
	assert.NoError(t, ValidateProject("Riverside", "Stage 1"))

	err := ValidateProject("  ", "Stage 1")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "projectName")
	assert.Equal(t, "Please enter project name and stage", ve.First())

	err = ValidateProject("Riverside", "")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "stage")
}
