package services

import (
	"math"
	"strings"

	"fieldreports/models"
)

// ExportTable is one tool's qualifying readings laid out as rows of cells.
type ExportTable struct {
	Tool    models.Tool
	Title   string
	Headers []string
	Rows    [][]string
}

// ExportData holds everything the Excel and PDF exports print for a report.
type ExportData struct {
	Title       string
	Owner       string
	CreatedDate string
	UpdatedDate string
	Message     string
	Tables      []ExportTable
}

const exportDateLayout = "02 Jan 2006 15:04"

// BuildExportData prepares a saved report for export. Only tools with at
// least one qualifying reading get a table.
func BuildExportData(r models.Report) ExportData {
	data := ExportData{
		Title:   r.Title(),
		Owner:   r.OwnerLabel,
		Message: GenerateMessage(r.ProjectName, r.Stage, r.Snapshot),
	}
	if !r.CreatedAt.IsZero() {
		data.CreatedDate = r.CreatedAt.Format(exportDateLayout)
	}
	if !r.UpdatedAt.IsZero() {
		data.UpdatedDate = r.UpdatedAt.Format(exportDateLayout)
	}

	s := r.Snapshot
	for _, t := range []ExportTable{
		pipeLevelTable(s.PipeLevelCheck.Readings),
		laserTable(s.Laser.Readings),
		regradeTable(s.Regrade.Readings),
		gradeCheckTable(s.GradeCheck.Readings),
		chainageILTable(s.ChainageIL.Readings),
		notesTable(s.GeneralNotes.Readings),
	} {
		if len(t.Rows) > 0 {
			data.Tables = append(data.Tables, t)
		}
	}
	return data
}

// MessageLines splits the report text into lines for row based exports.
func (d ExportData) MessageLines() []string {
	return strings.Split(strings.TrimRight(d.Message, "\n"), "\n")
}

func gradeLabel(mode models.GradeMode, v *float64) string {
	if v == nil {
		return ""
	}
	if mode.OrDefault() == models.GradeModeRatio {
		return "1 in " + FormatRatio(*v)
	}
	return FormatPercent(*v, 3)
}

func joinNotes(notes string) string {
	return strings.Join(noteLines(notes), " / ")
}

func pipeLevelTable(readings []models.PipeLevelReading) ExportTable {
	t := ExportTable{
		Tool:    models.ToolPipeLevel,
		Title:   models.ToolPipeLevel.Title(),
		Headers: []string{"Section", "Slope", "Chainage", "Design", "As Con", "Status", "Difference", "Notes"},
	}
	for _, r := range pipeLevelRows(readings) {
		t.Rows = append(t.Rows, []string{
			r.SectionID,
			gradeLabel(r.SlopeMode, r.SlopeValue),
			FormatFixed(TotalChainage(r), 2),
			FormatFixed(r.Results.DesignHeight, 3),
			FormatFixed(*r.MeasuredHeight, 3),
			string(r.Results.Status),
			FormatFixed(math.Abs(r.Results.Difference), 3),
			joinNotes(r.Notes),
		})
	}
	return t
}

func laserTable(readings []models.LaserReading) ExportTable {
	t := ExportTable{
		Tool:    models.ToolLaser,
		Title:   models.ToolLaser.Title(),
		Headers: []string{"Section", "Grade", "Laser", "Notes"},
	}
	for _, r := range laserRows(readings) {
		ratio, percent := laserValues(r)
		t.Rows = append(t.Rows, []string{
			r.SectionID,
			"1 in " + FormatRatio(ratio),
			FormatPercent(percent, 4),
			joinNotes(r.Notes),
		})
	}
	return t
}

func regradeTable(readings []models.RegradeReading) ExportTable {
	t := ExportTable{
		Tool:    models.ToolRegrade,
		Title:   models.ToolRegrade.Title(),
		Headers: []string{"Section", "From", "To", "As Con IL", "Target IL", "Distance", "Chainage", "Per 6m (mm)", "Notes"},
	}
	for _, r := range regradeRows(readings) {
		res := r.Results
		chainage := ""
		if r.Chainage != nil {
			chainage = FormatFixed(*r.Chainage, 2)
		}
		t.Rows = append(t.Rows, []string{
			r.SectionID,
			FormatPercent(res.CurrentGradePercent, 3) + " (1 in " + FormatRatio(GradeRatio(r.GradeMode, *r.CurrentGradeValue())) + ")",
			FormatPercent(res.NewGradePercent, 3) + " (1 in " + FormatRatio(res.NewGradeRatio) + ")",
			FormatFixed(*r.CurrentHeight, 3),
			FormatFixed(*r.TargetHeight, 3),
			FormatFixed(*r.Distance, 3),
			chainage,
			FormatSigned(res.AdjustmentPer6m, 0),
			joinNotes(r.Notes),
		})
	}
	return t
}

func gradeCheckTable(readings []models.GradeCheckReading) ExportTable {
	t := ExportTable{
		Tool:    models.ToolGradeCheck,
		Title:   models.ToolGradeCheck.Title(),
		Headers: []string{"Section", "Distance", "Design Grade", "Design Rise", "As Con Grade", "As Con Rise", "Grade Diff", "Rise Diff", "Notes"},
	}
	for _, r := range gradeCheckRows(readings) {
		res := r.Results
		t.Rows = append(t.Rows, []string{
			r.SectionID,
			FormatFixed(*r.Length, 2),
			FormatPercent(res.DesignGradePercent, 3),
			FormatFixed(res.DesignRise, 3),
			FormatPercent(res.ActualGrade, 3),
			FormatFixed(res.ActualRise, 3),
			FormatPercent(res.PercentageDifference, 3),
			FormatFixed(res.RiseFallDifference, 3),
			joinNotes(r.Notes),
		})
	}
	return t
}

func chainageILTable(readings []models.ChainageILReading) ExportTable {
	t := ExportTable{
		Tool:    models.ToolChainageIL,
		Title:   models.ToolChainageIL.Title(),
		Headers: []string{"Section", "Start IL", "Chainage", "Grade", "IL at Chainage", "Notes"},
	}
	for _, r := range chainageILRows(readings) {
		t.Rows = append(t.Rows, []string{
			r.SectionID,
			FormatFixed(*r.StartIL, 3),
			FormatFixed(*r.TargetChainage, 2),
			FormatPercent(GradePercent(r.GradeMode, *r.GradeValue), 3),
			FormatFixed(r.Results.ILAtChainage, 3),
			joinNotes(r.Notes),
		})
	}
	return t
}

func notesTable(notes []models.GeneralNote) ExportTable {
	t := ExportTable{
		Tool:    models.ToolNotes,
		Title:   models.ToolNotes.Title(),
		Headers: []string{"#", "Note"},
	}
	for i, c := range noteContents(notes) {
		t.Rows = append(t.Rows, []string{FormatFixed(float64(i+1), 0), c})
	}
	return t
}
