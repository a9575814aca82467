package models

import (
	"strings"
	"time"
)

// SchemaVersion is the snapshot shape written by this build. Documents
// without a version predate typed readings and are upgraded on load.
const SchemaVersion = 2

// Tool identifies one of the field calculators. The value doubles as the
// URL slug for the tool's routes.
type Tool string

const (
	ToolPipeLevel  Tool = "pipe-level"
	ToolLaser      Tool = "laser"
	ToolRegrade    Tool = "regrade"
	ToolGradeCheck Tool = "grade-check"
	ToolChainageIL Tool = "chainage-il"
	ToolNotes      Tool = "notes"
)

// Tools lists every tool in report order.
var Tools = []Tool{ToolPipeLevel, ToolLaser, ToolRegrade, ToolGradeCheck, ToolChainageIL, ToolNotes}

// ParseTool returns the tool for a URL slug.
func ParseTool(slug string) (Tool, bool) {
	for _, t := range Tools {
		if string(t) == slug {
			return t, true
		}
	}
	return "", false
}

// Title is the human readable tool name.
func (t Tool) Title() string {
	switch t {
	case ToolPipeLevel:
		return "Pipe Level Check"
	case ToolLaser:
		return "Laser Converter"
	case ToolRegrade:
		return "Regrade"
	case ToolGradeCheck:
		return "Grade Check"
	case ToolChainageIL:
		return "Chainage IL"
	case ToolNotes:
		return "General Notes"
	}
	return string(t)
}

// Snapshot is the full state of all six tool stores.
type Snapshot struct {
	SchemaVersion  int                          `json:"schemaVersion"`
	PipeLevelCheck ToolStore[PipeLevelReading]  `json:"pipeLevelCheck"`
	Laser          ToolStore[LaserReading]      `json:"laser"`
	Regrade        ToolStore[RegradeReading]    `json:"regrade"`
	GradeCheck     ToolStore[GradeCheckReading] `json:"gradeCheck"`
	ChainageIL     ToolStore[ChainageILReading] `json:"chainageIL"`
	GeneralNotes   NotesStore                   `json:"generalNotes"`
}

// Count returns the number of readings held for a tool.
func (s *Snapshot) Count(t Tool) int {
	switch t {
	case ToolPipeLevel:
		return s.PipeLevelCheck.Len()
	case ToolLaser:
		return s.Laser.Len()
	case ToolRegrade:
		return s.Regrade.Len()
	case ToolGradeCheck:
		return s.GradeCheck.Len()
	case ToolChainageIL:
		return s.ChainageIL.Len()
	case ToolNotes:
		return s.GeneralNotes.Len()
	}
	return 0
}

// Report is a saved snapshot together with its project details and owner.
type Report struct {
	ID          string
	OwnerID     string
	OwnerLabel  string
	ProjectName string
	Stage       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Snapshot    Snapshot
}

// ReportDocument is the portable form of a saved report: camelCase keys,
// the tool stores at the top level and ISO-8601 UTC timestamps.
type ReportDocument struct {
	ID             string                       `json:"id"`
	OwnerID        string                       `json:"ownerId"`
	OwnerLabel     string                       `json:"ownerLabel"`
	ProjectName    string                       `json:"projectName"`
	Stage          string                       `json:"stage"`
	CreatedAt      string                       `json:"createdAt"`
	UpdatedAt      string                       `json:"updatedAt"`
	SchemaVersion  int                          `json:"schemaVersion"`
	PipeLevelCheck ToolStore[PipeLevelReading]  `json:"pipeLevelCheck"`
	Laser          ToolStore[LaserReading]      `json:"laser"`
	Regrade        ToolStore[RegradeReading]    `json:"regrade"`
	GradeCheck     ToolStore[GradeCheckReading] `json:"gradeCheck"`
	ChainageIL     ToolStore[ChainageILReading] `json:"chainageIL"`
	GeneralNotes   NotesStore                   `json:"generalNotes"`
}

// Document returns r in its portable document form.
func (r Report) Document() ReportDocument {
	return ReportDocument{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		OwnerLabel:     r.OwnerLabel,
		ProjectName:    r.ProjectName,
		Stage:          r.Stage,
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.UTC().Format(time.RFC3339),
		SchemaVersion:  r.Snapshot.SchemaVersion,
		PipeLevelCheck: r.Snapshot.PipeLevelCheck,
		Laser:          r.Snapshot.Laser,
		Regrade:        r.Snapshot.Regrade,
		GradeCheck:     r.Snapshot.GradeCheck,
		ChainageIL:     r.Snapshot.ChainageIL,
		GeneralNotes:   r.Snapshot.GeneralNotes,
	}
}

// Title is "<project> <stage>", or "Untitled" when both are empty.
func (r Report) Title() string {
	title := strings.TrimSpace(r.ProjectName + " " + r.Stage)
	if title == "" {
		return "Untitled"
	}
	return title
}

// Draft is the work-in-progress copy of a user's workspace.
type Draft struct {
	ProjectName string   `json:"projectName"`
	Stage       string   `json:"stage"`
	ReportID    string   `json:"reportId"`
	Snapshot    Snapshot `json:"snapshot"`
}
