package services

import (
	"math"
	"strings"

	"fieldreports/models"
)

// PreviewPlaceholder is shown in the preview when the generated message is
// empty.
const PreviewPlaceholder = "Enter project information and add calculations to generate field report..."

// GenerateMessage renders the unified field report. Sections always appear in
// the same order and a section is only written when at least one of its
// readings qualifies. The output layout is consumed by people pasting it into
// SMS and chat, so every line break is significant.
func GenerateMessage(projectName, stage string, s models.Snapshot) string {
	var b strings.Builder

	projectName = strings.TrimSpace(projectName)
	stage = strings.TrimSpace(stage)
	if projectName != "" && stage != "" {
		b.WriteString(projectName + " " + stage + "\n\n")
	}

	writePipeLevelSection(&b, s.PipeLevelCheck.Readings)
	writeLaserSection(&b, s.Laser.Readings)
	writeRegradeSection(&b, s.Regrade.Readings)
	writeGradeCheckSection(&b, s.GradeCheck.Readings)
	writeChainageILSection(&b, s.ChainageIL.Readings)
	writeGeneralNotesSection(&b, s.GeneralNotes.Readings)

	return b.String()
}

// noteLines splits free text into trimmed, non-empty lines.
func noteLines(notes string) []string {
	var lines []string
	for _, line := range strings.Split(notes, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func writeNotes(b *strings.Builder, notes, lead, trail string) {
	lines := noteLines(notes)
	if len(lines) == 0 {
		return
	}
	b.WriteString(lead)
	for _, line := range lines {
		b.WriteString("- " + line + trail)
	}
}

func writeSectionID(b *strings.Builder, id string) {
	if id = strings.TrimSpace(id); id != "" {
		b.WriteString(id + "\n\n")
	}
}

func writePipeLevelSection(b *strings.Builder, readings []models.PipeLevelReading) {
	rows := pipeLevelRows(readings)
	if len(rows) == 0 {
		return
	}

	b.WriteString("PIPE LEVEL CHECKS\n\n")
	for i, r := range rows {
		writeSectionID(b, r.SectionID)
		b.WriteString("CH - " + FormatFixed(TotalChainage(r), 2) + "\n")
		b.WriteString("DES - " + FormatFixed(r.Results.DesignHeight, 3) + "\n")
		b.WriteString("AS CON - " + FormatFixed(*r.MeasuredHeight, 3) + "\n")
		b.WriteString(string(r.Results.Status) + " - " + FormatFixed(math.Abs(r.Results.Difference), 3) + "\n\n")
		writeNotes(b, r.Notes, "", "\n\n")
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func writeLaserSection(b *strings.Builder, readings []models.LaserReading) {
	rows := laserRows(readings)
	if len(rows) == 0 {
		return
	}

	b.WriteString("LASER GRADE CONVERSIONS\n\n")
	for i, r := range rows {
		writeSectionID(b, r.SectionID)
		ratio, percent := laserValues(r)
		b.WriteString("GRADE - 1 in " + FormatRatio(ratio) + "\n")
		b.WriteString("LASER - " + FormatPercent(percent, 4) + "\n")
		writeNotes(b, r.Notes, "\n", "\n")
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func writeRegradeSection(b *strings.Builder, readings []models.RegradeReading) {
	rows := regradeRows(readings)
	if len(rows) == 0 {
		return
	}

	b.WriteString("REGRADE CALCULATIONS\n\n")
	for i, r := range rows {
		writeSectionID(b, r.SectionID)
		res := r.Results
		currentRatio := GradeRatio(r.GradeMode, *r.CurrentGradeValue())

		b.WriteString("REGRADE\n\n")
		b.WriteString("FROM - " + FormatPercent(res.CurrentGradePercent, 3) + " (1 in " + FormatRatio(currentRatio) + ")\n")
		b.WriteString("TO - " + FormatPercent(res.NewGradePercent, 3) + " (1 in " + FormatRatio(res.NewGradeRatio) + ")\n\n")
		b.WriteString("AS CON IL - " + FormatFixed(*r.CurrentHeight, 3) + "\n")
		b.WriteString("TARGET IL - " + FormatFixed(*r.TargetHeight, 3) + "\n")
		b.WriteString("DISTANCE - " + FormatFixed(*r.Distance, 3) + "\n\n")
		if r.Chainage != nil {
			b.WriteString("CHAINAGE - " + FormatFixed(*r.Chainage, 2) + "\n\n")
		}
		writeNotes(b, r.Notes, "", "\n\n")
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func writeGradeCheckSection(b *strings.Builder, readings []models.GradeCheckReading) {
	rows := gradeCheckRows(readings)
	if len(rows) == 0 {
		return
	}

	b.WriteString("GRADE VERIFICATIONS\n\n")
	for i, r := range rows {
		writeSectionID(b, r.SectionID)
		res := r.Results

		b.WriteString("DISTANCE - " + FormatFixed(*r.Length, 2) + "\n\n")

		b.WriteString("DES GRADE - " + FormatPercent(res.DesignGradePercent, 3) + "\n")
		b.WriteString("DES RISE/FALL - " + FormatFixed(res.DesignRise, 3) + "\n")
		b.WriteString("DES RISE/FALL PER METER - " + FormatFixed(res.DesignRisePerMetre, 3) + "mm\n\n")

		b.WriteString("AS CON GRADE - " + FormatPercent(res.ActualGrade, 3) + "\n")
		b.WriteString("AS CON RISE/FALL - " + FormatFixed(res.ActualRise, 3) + "\n")
		b.WriteString("AS CON RISE/FALL PER METER - " + FormatFixed(res.ActualRisePerMetre, 3) + "mm\n\n")

		b.WriteString("PERCENTAGE DIFFERENCE - " + FormatPercent(res.PercentageDifference, 3) + "\n")
		b.WriteString("RISE/FALL DIFFERENCE - " + FormatFixed(res.RiseFallDifference, 3) + "\n\n")

		writeNotes(b, r.Notes, "", "\n\n")
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func writeChainageILSection(b *strings.Builder, readings []models.ChainageILReading) {
	rows := chainageILRows(readings)
	if len(rows) == 0 {
		return
	}

	b.WriteString("IL AT CHAINAGE\n\n")
	for i, r := range rows {
		writeSectionID(b, r.SectionID)
		b.WriteString("START IL - " + FormatFixed(*r.StartIL, 3) + "\n")
		b.WriteString("CHAINAGE - " + FormatFixed(*r.TargetChainage, 2) + "\n")
		b.WriteString("GRADE - " + FormatPercent(GradePercent(r.GradeMode, *r.GradeValue), 3) + "\n")
		b.WriteString("IL AT CHAINAGE - " + FormatFixed(r.Results.ILAtChainage, 3) + "\n\n")
		writeNotes(b, r.Notes, "", "\n\n")
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func writeGeneralNotesSection(b *strings.Builder, notes []models.GeneralNote) {
	contents := noteContents(notes)
	if len(contents) == 0 {
		return
	}

	b.WriteString("GENERAL NOTES\n\n")
	b.WriteString(strings.Join(contents, "\n\n"))
}

// The *Rows helpers select the readings that make it into the report.

func pipeLevelRows(readings []models.PipeLevelReading) []models.PipeLevelReading {
	var rows []models.PipeLevelReading
	for _, r := range readings {
		if r.Calculated && r.Results != nil && r.MeasuredHeight != nil {
			rows = append(rows, r)
		}
	}
	return rows
}

func laserRows(readings []models.LaserReading) []models.LaserReading {
	var rows []models.LaserReading
	for _, r := range readings {
		if r.HasValue() {
			rows = append(rows, r)
		}
	}
	return rows
}

func regradeRows(readings []models.RegradeReading) []models.RegradeReading {
	var rows []models.RegradeReading
	for _, r := range readings {
		if r.Calculated && r.Results != nil && r.CurrentGradeValue() != nil &&
			r.CurrentHeight != nil && r.TargetHeight != nil && r.Distance != nil {
			rows = append(rows, r)
		}
	}
	return rows
}

func gradeCheckRows(readings []models.GradeCheckReading) []models.GradeCheckReading {
	var rows []models.GradeCheckReading
	for _, r := range readings {
		if r.Calculated && r.Results != nil && r.Length != nil {
			rows = append(rows, r)
		}
	}
	return rows
}

func chainageILRows(readings []models.ChainageILReading) []models.ChainageILReading {
	var rows []models.ChainageILReading
	for _, r := range readings {
		if r.Calculated && r.Results != nil && r.StartIL != nil && r.TargetChainage != nil && r.GradeValue != nil {
			rows = append(rows, r)
		}
	}
	return rows
}

func noteContents(notes []models.GeneralNote) []string {
	var contents []string
	for _, n := range notes {
		if c := strings.TrimSpace(n.Content); c != "" {
			contents = append(contents, c)
		}
	}
	return contents
}

// ToolSummary is the reading count of one tool in a saved report.
type ToolSummary struct {
	Tool  models.Tool
	Title string
	Count int
}

// SummarizeTools lists the tools of a snapshot that hold at least one
// qualifying reading, in report order.
func SummarizeTools(s models.Snapshot) []ToolSummary {
	var out []ToolSummary
	for _, tool := range models.Tools {
		if n := QualifyingCount(s, tool); n > 0 {
			out = append(out, ToolSummary{Tool: tool, Title: tool.Title(), Count: n})
		}
	}
	return out
}

// QualifyingCount is the number of readings of a tool that GenerateMessage
// would include.
func QualifyingCount(s models.Snapshot, tool models.Tool) int {
	switch tool {
	case models.ToolPipeLevel:
		return len(pipeLevelRows(s.PipeLevelCheck.Readings))
	case models.ToolLaser:
		return len(laserRows(s.Laser.Readings))
	case models.ToolRegrade:
		return len(regradeRows(s.Regrade.Readings))
	case models.ToolGradeCheck:
		return len(gradeCheckRows(s.GradeCheck.Readings))
	case models.ToolChainageIL:
		return len(chainageILRows(s.ChainageIL.Readings))
	case models.ToolNotes:
		return len(noteContents(s.GeneralNotes.Readings))
	}
	return 0
}
