package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"fieldreports/models"
)

// Workspace is one user's live field report: the six tool stores, the
// project details, the report it was loaded from (if any) and the preview
// override. All methods are safe for concurrent use.
type Workspace struct {
	mu sync.Mutex

	projectName string
	stage       string
	reportID    string
	snapshot    models.Snapshot

	// manualPreview holds a hand-edited report text. While set, the preview
	// no longer follows tool changes.
	manualPreview *string

	calculator *Calculator

	onChange func(models.Draft)
}

// NewWorkspace returns an empty workspace with one blank reading per tool.
func NewWorkspace(maxHistory int) *Workspace {
	w := &Workspace{calculator: NewCalculator(maxHistory)}
	w.snapshot.SchemaVersion = models.SchemaVersion
	ensureReadings(&w.snapshot)
	return w
}

// OnChange registers fn to receive the draft after every mutation. It runs
// with the workspace locked and must not call back into it.
func (w *Workspace) OnChange(fn func(models.Draft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *Workspace) changed() {
	if w.onChange != nil {
		w.onChange(w.draftLocked())
	}
}

func newPipeLevelReading(id int) models.PipeLevelReading {
	return models.PipeLevelReading{ID: id, SlopeMode: models.GradeModePercent, ExtraDistances: []models.ExtraDistance{}}
}

func newLaserReading(id int) models.LaserReading {
	return models.LaserReading{ID: id}
}

func newRegradeReading(id int) models.RegradeReading {
	return models.RegradeReading{ID: id, GradeMode: models.GradeModePercent}
}

func newGradeCheckReading(id int) models.GradeCheckReading {
	return models.GradeCheckReading{ID: id, GradeMode: models.GradeModePercent}
}

func newChainageILReading(id int) models.ChainageILReading {
	return models.ChainageILReading{ID: id, GradeMode: models.GradeModePercent}
}

func newGeneralNote(id int) models.GeneralNote {
	return models.GeneralNote{ID: id}
}

func ensureReadings(s *models.Snapshot) {
	s.PipeLevelCheck.EnsureOne(newPipeLevelReading)
	s.Laser.EnsureOne(newLaserReading)
	s.Regrade.EnsureOne(newRegradeReading)
	s.GradeCheck.EnsureOne(newGradeCheckReading)
	s.ChainageIL.EnsureOne(newChainageILReading)
	s.GeneralNotes.EnsureOne(newGeneralNote)
}

// AddReading appends a blank reading to a tool and returns its id.
func (w *Workspace) AddReading(tool models.Tool) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var id int
	switch tool {
	case models.ToolPipeLevel:
		id = w.snapshot.PipeLevelCheck.Add(newPipeLevelReading).ID
	case models.ToolLaser:
		id = w.snapshot.Laser.Add(newLaserReading).ID
	case models.ToolRegrade:
		id = w.snapshot.Regrade.Add(newRegradeReading).ID
	case models.ToolGradeCheck:
		id = w.snapshot.GradeCheck.Add(newGradeCheckReading).ID
	case models.ToolChainageIL:
		id = w.snapshot.ChainageIL.Add(newChainageILReading).ID
	case models.ToolNotes:
		id = w.snapshot.GeneralNotes.Add(newGeneralNote).ID
	default:
		return 0, ErrUnknownTool
	}
	w.changed()
	return id, nil
}

// DeleteReading removes a reading. Deleting the only reading of a tool fails
// with ErrLastReading and leaves the workspace unchanged.
func (w *Workspace) DeleteReading(tool models.Tool, id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	switch tool {
	case models.ToolPipeLevel:
		err = w.snapshot.PipeLevelCheck.Delete(id)
	case models.ToolLaser:
		err = w.snapshot.Laser.Delete(id)
	case models.ToolRegrade:
		err = w.snapshot.Regrade.Delete(id)
	case models.ToolGradeCheck:
		err = w.snapshot.GradeCheck.Delete(id)
	case models.ToolChainageIL:
		err = w.snapshot.ChainageIL.Delete(id)
	case models.ToolNotes:
		err = w.snapshot.GeneralNotes.Delete(id)
	default:
		return ErrUnknownTool
	}
	if err != nil {
		return err
	}
	w.changed()
	return nil
}

// MoveReading moves a reading one place up or down within its tool.
func (w *Workspace) MoveReading(tool models.Tool, id int, dir models.Direction) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	switch tool {
	case models.ToolPipeLevel:
		err = w.snapshot.PipeLevelCheck.Move(id, dir)
	case models.ToolLaser:
		err = w.snapshot.Laser.Move(id, dir)
	case models.ToolRegrade:
		err = w.snapshot.Regrade.Move(id, dir)
	case models.ToolGradeCheck:
		err = w.snapshot.GradeCheck.Move(id, dir)
	case models.ToolChainageIL:
		err = w.snapshot.ChainageIL.Move(id, dir)
	case models.ToolNotes:
		err = w.snapshot.GeneralNotes.Move(id, dir)
	default:
		return ErrUnknownTool
	}
	if err != nil {
		return err
	}
	w.changed()
	return nil
}

// ClearTool replaces every reading of a tool with a single blank one.
func (w *Workspace) ClearTool(tool models.Tool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch tool {
	case models.ToolPipeLevel:
		w.snapshot.PipeLevelCheck.Reset(newPipeLevelReading)
	case models.ToolLaser:
		w.snapshot.Laser.Reset(newLaserReading)
	case models.ToolRegrade:
		w.snapshot.Regrade.Reset(newRegradeReading)
	case models.ToolGradeCheck:
		w.snapshot.GradeCheck.Reset(newGradeCheckReading)
	case models.ToolChainageIL:
		w.snapshot.ChainageIL.Reset(newChainageILReading)
	case models.ToolNotes:
		w.snapshot.GeneralNotes.Reset(newGeneralNote)
	default:
		return ErrUnknownTool
	}
	w.changed()
	return nil
}

// PipeLevelInput is the editable part of a pipe level reading.
type PipeLevelInput struct {
	SectionID      string
	SlopeMode      models.GradeMode
	SlopeValue     *float64
	Distance       *float64
	StartHeight    *float64
	MeasuredHeight *float64
	Notes          string
}

func (w *Workspace) UpdatePipeLevel(id int, in PipeLevelInput) (models.PipeLevelReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.PipeLevelCheck.Find(id)
	if err != nil {
		return models.PipeLevelReading{}, err
	}
	r.SectionID = strings.TrimSpace(in.SectionID)
	r.SlopeMode = in.SlopeMode.OrDefault()
	r.SlopeValue = in.SlopeValue
	r.Distance = in.Distance
	r.StartHeight = in.StartHeight
	r.MeasuredHeight = in.MeasuredHeight
	r.Notes = in.Notes
	RecalculatePipeLevel(r)

	w.changed()
	return *r, nil
}

// AddExtraDistance records an extra run past a calculated pipe level check.
// Zero is rejected; negative runs are allowed for back-measurements.
func (w *Workspace) AddExtraDistance(readingID int, distance float64) (models.PipeLevelReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.PipeLevelCheck.Find(readingID)
	if err != nil {
		return models.PipeLevelReading{}, err
	}
	if !r.Calculated {
		return models.PipeLevelReading{}, newValidationError("extraDistance", "No calculation to update with extra distance")
	}
	if distance == 0 {
		return models.PipeLevelReading{}, newValidationError("extraDistance", "Please enter a valid extra distance")
	}
	r.ExtraDistanceCounter++
	r.ExtraDistances = append(r.ExtraDistances, models.ExtraDistance{ID: r.ExtraDistanceCounter, Distance: distance})

	w.changed()
	return *r, nil
}

func (w *Workspace) RemoveExtraDistance(readingID, extraID int) (models.PipeLevelReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.PipeLevelCheck.Find(readingID)
	if err != nil {
		return models.PipeLevelReading{}, err
	}
	for i, ed := range r.ExtraDistances {
		if ed.ID == extraID {
			r.ExtraDistances = append(r.ExtraDistances[:i], r.ExtraDistances[i+1:]...)
			w.changed()
			return *r, nil
		}
	}
	return models.PipeLevelReading{}, ErrReadingNotFound
}

// LaserInput edits a laser reading. When Source is empty only the section
// label and notes change.
type LaserInput struct {
	SectionID string
	Notes     string
	Source    LaserSource
	Value     *float64
}

func (w *Workspace) UpdateLaser(id int, in LaserInput) (models.LaserReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.Laser.Find(id)
	if err != nil {
		return models.LaserReading{}, err
	}
	if in.Source != "" {
		if err := ApplyLaserValue(r, in.Source, in.Value); err != nil {
			return *r, err
		}
	}
	r.SectionID = strings.TrimSpace(in.SectionID)
	r.Notes = in.Notes

	w.changed()
	return *r, nil
}

// RegradeInput is the editable part of a regrade reading.
type RegradeInput struct {
	SectionID     string
	GradeMode     models.GradeMode
	CurrentGrade  *float64
	CurrentRatio  *float64
	Distance      *float64
	CurrentHeight *float64
	TargetHeight  *float64
	Chainage      *float64
	Notes         string
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UpdateRegrade stores new regrade inputs. Changing any number the result
// depends on (or the grade mode) discards the previous result until
// CalculateRegrade runs again.
func (w *Workspace) UpdateRegrade(id int, in RegradeInput) (models.RegradeReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.Regrade.Find(id)
	if err != nil {
		return models.RegradeReading{}, err
	}
	mode := in.GradeMode.OrDefault()
	stale := r.GradeMode.OrDefault() != mode ||
		!sameFloat(r.CurrentGrade, in.CurrentGrade) ||
		!sameFloat(r.CurrentRatio, in.CurrentRatio) ||
		!sameFloat(r.Distance, in.Distance) ||
		!sameFloat(r.CurrentHeight, in.CurrentHeight) ||
		!sameFloat(r.TargetHeight, in.TargetHeight)

	r.SectionID = strings.TrimSpace(in.SectionID)
	r.GradeMode = mode
	r.CurrentGrade = in.CurrentGrade
	r.CurrentRatio = in.CurrentRatio
	r.Distance = in.Distance
	r.CurrentHeight = in.CurrentHeight
	r.TargetHeight = in.TargetHeight
	r.Chainage = in.Chainage
	r.Notes = in.Notes
	if stale {
		InvalidateRegrade(r)
	}

	w.changed()
	return *r, nil
}

// CalculateRegrade runs the regrade calculation for one reading. Invalid
// input returns a *ValidationError and leaves the reading uncalculated.
func (w *Workspace) CalculateRegrade(id int) (models.RegradeReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.Regrade.Find(id)
	if err != nil {
		return models.RegradeReading{}, err
	}
	res, err := CalculateRegrade(*r)
	if err != nil {
		InvalidateRegrade(r)
		w.changed()
		return *r, err
	}
	r.Results = res
	r.Calculated = true

	w.changed()
	return *r, nil
}

// GradeCheckInput is the editable part of a grade check reading.
type GradeCheckInput struct {
	SectionID    string
	DownstreamIL *float64
	UpstreamIL   *float64
	Length       *float64
	DesignGrade  *float64
	GradeMode    models.GradeMode
	Notes        string
}

func (w *Workspace) UpdateGradeCheck(id int, in GradeCheckInput) (models.GradeCheckReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.GradeCheck.Find(id)
	if err != nil {
		return models.GradeCheckReading{}, err
	}
	r.SectionID = strings.TrimSpace(in.SectionID)
	r.DownstreamIL = in.DownstreamIL
	r.UpstreamIL = in.UpstreamIL
	r.Length = in.Length
	r.DesignGrade = in.DesignGrade
	r.GradeMode = in.GradeMode.OrDefault()
	r.Notes = in.Notes
	RecalculateGradeCheck(r)

	w.changed()
	return *r, nil
}

// ChainageILInput is the editable part of a chainage IL reading.
type ChainageILInput struct {
	SectionID      string
	StartIL        *float64
	TargetChainage *float64
	GradeMode      models.GradeMode
	GradeValue     *float64
	Notes          string
}

func (w *Workspace) UpdateChainageIL(id int, in ChainageILInput) (models.ChainageILReading, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.snapshot.ChainageIL.Find(id)
	if err != nil {
		return models.ChainageILReading{}, err
	}
	r.SectionID = strings.TrimSpace(in.SectionID)
	r.StartIL = in.StartIL
	r.TargetChainage = in.TargetChainage
	r.GradeMode = in.GradeMode.OrDefault()
	r.GradeValue = in.GradeValue
	r.Notes = in.Notes
	RecalculateChainageIL(r)

	w.changed()
	return *r, nil
}

func (w *Workspace) UpdateNote(id int, content string) (models.GeneralNote, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.snapshot.GeneralNotes.Find(id)
	if err != nil {
		return models.GeneralNote{}, err
	}
	n.Content = content

	w.changed()
	return *n, nil
}

// SetProject updates the report header fields.
func (w *Workspace) SetProject(projectName, stage string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.projectName = strings.TrimSpace(projectName)
	w.stage = strings.TrimSpace(stage)
	w.changed()
}

func (w *Workspace) Project() (projectName, stage string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.projectName, w.stage
}

// ReportID is the id of the saved report the workspace was loaded from, or
// "" for an unsaved report.
func (w *Workspace) ReportID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reportID
}

// SetReportID records that the workspace now corresponds to a saved report.
func (w *Workspace) SetReportID(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reportID = id
	w.changed()
}

// Preview returns the report text and whether it is a manual edit.
func (w *Workspace) Preview() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.manualPreview != nil {
		return *w.manualPreview, true
	}
	return GenerateMessage(w.projectName, w.stage, w.snapshot), false
}

// SetManualPreview pins the preview to hand-edited text.
func (w *Workspace) SetManualPreview(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.manualPreview = &text
}

// ResetPreview drops the manual edit so the preview follows the tools again.
func (w *Workspace) ResetPreview() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.manualPreview = nil
}

// LoadReport replaces the whole workspace with a saved report.
func (w *Workspace) LoadReport(report models.Report) error {
	var snap models.Snapshot
	if err := deepcopy.Copy(&snap, &report.Snapshot); err != nil {
		return fmt.Errorf("copy report snapshot: %w", err)
	}
	snap.SchemaVersion = models.SchemaVersion
	ensureReadings(&snap)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.snapshot = snap
	w.projectName = report.ProjectName
	w.stage = report.Stage
	w.reportID = report.ID
	w.manualPreview = nil
	w.changed()
	return nil
}

// NewReport starts over with an empty, unsaved report.
func (w *Workspace) NewReport() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.snapshot = models.Snapshot{SchemaVersion: models.SchemaVersion}
	ensureReadings(&w.snapshot)
	w.projectName = ""
	w.stage = ""
	w.reportID = ""
	w.manualPreview = nil
	w.changed()
}

// Snapshot returns a deep copy of the tool stores. Later edits to the
// workspace never show up in the returned value.
func (w *Workspace) Snapshot() (models.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() (models.Snapshot, error) {
	var snap models.Snapshot
	if err := deepcopy.Copy(&snap, &w.snapshot); err != nil {
		return models.Snapshot{}, fmt.Errorf("copy workspace snapshot: %w", err)
	}
	snap.SchemaVersion = models.SchemaVersion
	return snap, nil
}

// Draft captures the workspace for autosave.
func (w *Workspace) Draft() models.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draftLocked()
}

func (w *Workspace) draftLocked() models.Draft {
	snap, err := w.snapshotLocked()
	if err != nil {
		// Snapshot holds only plain data, so the copy does not fail in practice.
		snap = w.snapshot
	}
	return models.Draft{
		ProjectName: w.projectName,
		Stage:       w.stage,
		ReportID:    w.reportID,
		Snapshot:    snap,
	}
}

// RestoreDraft puts a previously autosaved draft back. The preview override
// is never part of a draft.
func (w *Workspace) RestoreDraft(d models.Draft) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.snapshot = d.Snapshot
	w.snapshot.SchemaVersion = models.SchemaVersion
	ensureReadings(&w.snapshot)
	w.projectName = d.ProjectName
	w.stage = d.Stage
	w.reportID = d.ReportID
	w.manualPreview = nil
}

// View returns a copy of everything a page needs to render the workspace.
func (w *Workspace) View() WorkspaceView {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := w.draftLocked()
	view := WorkspaceView{
		ProjectName: d.ProjectName,
		Stage:       d.Stage,
		ReportID:    d.ReportID,
		Snapshot:    d.Snapshot,
		Manual:      w.manualPreview != nil,
		Calculator:  w.calculatorViewLocked(),
	}
	if w.manualPreview != nil {
		view.Preview = *w.manualPreview
	} else {
		view.Preview = GenerateMessage(w.projectName, w.stage, w.snapshot)
	}
	return view
}

// WorkspaceView is a detached copy of a workspace for rendering.
type WorkspaceView struct {
	ProjectName string
	Stage       string
	ReportID    string
	Snapshot    models.Snapshot
	Preview     string
	Manual      bool
	Calculator  CalculatorView
}

// CalculatorView is a detached copy of the calculator state.
type CalculatorView struct {
	Display string
	Pending string
	History []string
}

func (w *Workspace) calculatorViewLocked() CalculatorView {
	return CalculatorView{
		Display: w.calculator.Display,
		Pending: w.calculator.Pending(),
		History: append([]string(nil), w.calculator.History...),
	}
}

// PressCalculator forwards a key press to the scratch calculator.
func (w *Workspace) PressCalculator(key string) (CalculatorView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.calculator.Press(key)
	return w.calculatorViewLocked(), err
}

func (w *Workspace) ClearCalculatorHistory() CalculatorView {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calculator.ClearHistory()
	return w.calculatorViewLocked()
}
