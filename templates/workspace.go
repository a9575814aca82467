package templates

import (
	"math"

	"github.com/a-h/templ"

	"fieldreports/models"
	"fieldreports/services"
)

type WorkspaceData struct {
	User *UserInfo
	View services.WorkspaceView
}

func WorkspacePage(data WorkspaceData) templ.Component {
	return Layout("Workspace", data.User, WorkspaceBody(data.View))
}

// WorkspaceBody is everything below the header: project fields, the six
// tools, the preview and the calculator.
func WorkspaceBody(v services.WorkspaceView) templ.Component {
	return component(func(p *page) {
		p.raw(`<div id="workspace" class="workspace">`)
		p.render(ProjectForm(v))
		p.raw(`<nav class="tabs">`)
		for _, t := range models.Tools {
			p.raw(`<a`)
			p.attr("href", "#tool-"+string(t))
			p.raw(`>`)
			p.text(t.Title())
			p.raw(`</a>`)
		}
		p.raw(`</nav>`)
		for _, t := range models.Tools {
			p.render(ToolPanel(t, v))
		}
		p.render(PreviewPanel(v, false))
		p.render(CalculatorPanel(v.Calculator))
		p.raw(`</div>`)
	})
}

func ProjectForm(v services.WorkspaceView) templ.Component {
	return component(func(p *page) {
		p.raw(`<form id="project" class="card project" hx-post="/project" hx-trigger="change" hx-target="#preview" hx-swap="outerHTML">`)
		p.raw(`<label>Project<input type="text" name="projectName" placeholder="Project name"`)
		p.attr("value", v.ProjectName)
		p.raw(`></label><label>Stage<input type="text" name="stage" placeholder="Stage"`)
		p.attr("value", v.Stage)
		p.raw(`></label>`)
		if v.ReportID != "" {
			p.raw(`<span class="badge">Editing saved report</span>`)
		}
		p.raw(`</form>`)
	})
}

// ToolPanel renders one tool and all of its readings.
func ToolPanel(t models.Tool, v services.WorkspaceView) templ.Component {
	return component(func(p *page) {
		slug := string(t)
		p.raw(`<section class="card tool"`)
		p.attr("id", "tool-"+slug)
		p.raw(`><header><h2>`)
		p.text(t.Title())
		p.raw(`</h2><div class="actions">`)
		p.raw(`<button type="button"`)
		p.attr("hx-post", "/tools/"+slug+"/readings")
		p.attr("hx-target", "#tool-"+slug)
		p.raw(` hx-swap="outerHTML">Add</button>`)
		p.raw(`<button type="button" class="secondary" hx-confirm="Clear all entries?"`)
		p.attr("hx-post", "/tools/"+slug+"/clear")
		p.attr("hx-target", "#tool-"+slug)
		p.raw(` hx-swap="outerHTML">Clear</button></div></header>`)

		s := v.Snapshot
		switch t {
		case models.ToolPipeLevel:
			for i, r := range s.PipeLevelCheck.Readings {
				pipeLevelReading(p, r, i, s.PipeLevelCheck.Len())
			}
		case models.ToolLaser:
			for i, r := range s.Laser.Readings {
				laserReading(p, r, i, s.Laser.Len())
			}
		case models.ToolRegrade:
			for i, r := range s.Regrade.Readings {
				regradeReading(p, r, i, s.Regrade.Len())
			}
		case models.ToolGradeCheck:
			for i, r := range s.GradeCheck.Readings {
				gradeCheckReading(p, r, i, s.GradeCheck.Len())
			}
		case models.ToolChainageIL:
			for i, r := range s.ChainageIL.Readings {
				chainageILReading(p, r, i, s.ChainageIL.Len())
			}
		case models.ToolNotes:
			for i, n := range s.GeneralNotes.Readings {
				noteReading(p, n, i, s.GeneralNotes.Len())
			}
		}
		p.raw(`</section>`)
	})
}

// readingOpen starts the form of one reading. Every change posts the whole
// form and swaps the tool panel.
func readingOpen(p *page, t models.Tool, id int) {
	slug := string(t)
	p.raw(`<form class="reading"`)
	p.attr("id", slug+"-"+itoa(id))
	p.attr("hx-post", "/tools/"+slug+"/readings/"+itoa(id))
	p.raw(` hx-trigger="change"`)
	p.attr("hx-target", "#tool-"+slug)
	p.raw(` hx-swap="outerHTML">`)
}

// readingControls renders the move and delete buttons.
func readingControls(p *page, t models.Tool, id, index, count int) {
	slug := string(t)
	base := "/tools/" + slug + "/readings/" + itoa(id)
	p.raw(`<div class="controls">`)
	if index > 0 {
		p.raw(`<button type="button" aria-label="Move up" hx-vals='{"dir":"up"}'`)
		p.attr("hx-post", base+"/move")
		p.attr("hx-target", "#tool-"+slug)
		p.raw(` hx-swap="outerHTML">&uarr;</button>`)
	}
	if index < count-1 {
		p.raw(`<button type="button" aria-label="Move down" hx-vals='{"dir":"down"}'`)
		p.attr("hx-post", base+"/move")
		p.attr("hx-target", "#tool-"+slug)
		p.raw(` hx-swap="outerHTML">&darr;</button>`)
	}
	if count > 1 {
		p.raw(`<button type="button" class="danger" aria-label="Delete"`)
		p.attr("hx-delete", base)
		p.attr("hx-target", "#tool-"+slug)
		p.raw(` hx-swap="outerHTML">&times;</button>`)
	}
	p.raw(`</div>`)
}

func textInput(p *page, label, name, value string) {
	p.raw(`<label>`)
	p.text(label)
	p.raw(`<input type="text"`)
	p.attr("name", name)
	p.attr("value", value)
	p.raw(`></label>`)
}

func numberInput(p *page, label, name string, value *float64) {
	p.raw(`<label>`)
	p.text(label)
	p.raw(`<input type="number" step="any" inputmode="decimal"`)
	p.attr("name", name)
	p.attr("value", inputValue(value))
	p.raw(`></label>`)
}

func modeSelect(p *page, name string, mode models.GradeMode) {
	p.raw(`<label>Grade as<select`)
	p.attr("name", name)
	p.raw(`>`)
	for _, m := range []struct {
		mode  models.GradeMode
		label string
	}{{models.GradeModePercent, "%"}, {models.GradeModeRatio, "1 in X"}} {
		p.raw(`<option`)
		p.attr("value", string(m.mode))
		if mode.OrDefault() == m.mode {
			p.raw(` selected`)
		}
		p.raw(`>`)
		p.text(m.label)
		p.raw(`</option>`)
	}
	p.raw(`</select></label>`)
}

func notesInput(p *page, notes string) {
	p.raw(`<label>Notes<textarea name="notes" rows="2">`)
	p.text(notes)
	p.raw(`</textarea></label>`)
}

func result(p *page, label, value string) {
	p.raw(`<div class="result"><span>`)
	p.text(label)
	p.raw(`</span><strong>`)
	p.text(value)
	p.raw(`</strong></div>`)
}

func pipeLevelReading(p *page, r models.PipeLevelReading, index, count int) {
	t := models.ToolPipeLevel
	readingOpen(p, t, r.ID)
	readingControls(p, t, r.ID, index, count)
	textInput(p, "Section", "sectionId", r.SectionID)
	modeSelect(p, "slopeMode", r.SlopeMode)
	numberInput(p, "Slope", "slopeValue", r.SlopeValue)
	numberInput(p, "Distance (m)", "distance", r.Distance)
	numberInput(p, "Start height", "startHeight", r.StartHeight)
	numberInput(p, "Measured height", "measuredHeight", r.MeasuredHeight)

	base := "/tools/pipe-level/readings/" + itoa(r.ID) + "/extra"
	p.raw(`<div class="extras"><span>Extra distances</span><ul>`)
	for _, ed := range r.ExtraDistances {
		p.raw(`<li>`)
		p.text(services.FormatFixed(ed.Distance, 2) + " m")
		p.raw(` <button type="button" class="link"`)
		p.attr("hx-delete", base+"/"+itoa(ed.ID))
		p.raw(` hx-target="#tool-pipe-level" hx-swap="outerHTML">remove</button></li>`)
	}
	p.raw(`</ul>`)
	if r.Calculated {
		p.raw(`<input type="number" step="any" name="extraDistance" placeholder="Extra distance (m)">`)
		p.raw(`<button type="button" hx-include="previous [name=extraDistance]"`)
		p.attr("hx-post", base)
		p.raw(` hx-target="#tool-pipe-level" hx-swap="outerHTML">Add extra</button>`)
	}
	p.raw(`</div>`)

	notesInput(p, r.Notes)
	if r.Calculated && r.Results != nil {
		p.raw(`<div class="results">`)
		result(p, "Total chainage", services.FormatFixed(services.TotalChainage(r), 2))
		result(p, "Design height", services.FormatFixed(r.Results.DesignHeight, 3))
		result(p, string(r.Results.Status), services.FormatFixed(math.Abs(r.Results.Difference), 3))
		p.raw(`</div>`)
	}
	p.raw(`</form>`)
}

func laserReading(p *page, r models.LaserReading, index, count int) {
	t := models.ToolLaser
	readingOpen(p, t, r.ID)
	readingControls(p, t, r.ID, index, count)
	textInput(p, "Section", "sectionId", r.SectionID)

	url := "/tools/laser/readings/" + itoa(r.ID)
	for _, f := range []struct {
		label  string
		source services.LaserSource
		value  *float64
	}{
		{"Grade 1 in", services.LaserFromRatioField, r.GradeRatio},
		{"Laser %", services.LaserFromPercentField, r.LaserPercent},
	} {
		p.raw(`<label>`)
		p.text(f.label)
		p.raw(`<input type="number" step="any" inputmode="decimal" hx-include="closest form" hx-trigger="change consume"`)
		p.attr("name", string(f.source))
		p.attr("hx-post", url)
		p.attr("hx-vals", `{"source":"`+string(f.source)+`"}`)
		p.raw(` hx-target="#tool-laser" hx-swap="outerHTML"`)
		p.attr("value", inputValue(f.value))
		p.raw(`></label>`)
	}
	notesInput(p, r.Notes)
	p.raw(`</form>`)
}

func regradeReading(p *page, r models.RegradeReading, index, count int) {
	t := models.ToolRegrade
	readingOpen(p, t, r.ID)
	readingControls(p, t, r.ID, index, count)
	textInput(p, "Section", "sectionId", r.SectionID)
	modeSelect(p, "gradeMode", r.GradeMode)
	if r.GradeMode.OrDefault() == models.GradeModeRatio {
		numberInput(p, "Current grade 1 in", "currentRatio", r.CurrentRatio)
		p.raw(`<input type="hidden" name="currentGrade"`)
		p.attr("value", inputValue(r.CurrentGrade))
		p.raw(`>`)
	} else {
		numberInput(p, "Current grade %", "currentGrade", r.CurrentGrade)
		p.raw(`<input type="hidden" name="currentRatio"`)
		p.attr("value", inputValue(r.CurrentRatio))
		p.raw(`>`)
	}
	numberInput(p, "Distance (m)", "distance", r.Distance)
	numberInput(p, "Current IL", "currentHeight", r.CurrentHeight)
	numberInput(p, "Target IL", "targetHeight", r.TargetHeight)
	numberInput(p, "Chainage", "chainage", r.Chainage)
	notesInput(p, r.Notes)

	p.raw(`<button type="button" hx-include="closest form"`)
	p.attr("hx-post", "/tools/regrade/readings/"+itoa(r.ID)+"/calculate")
	p.raw(` hx-target="#tool-regrade" hx-swap="outerHTML">Calculate</button>`)

	if r.Calculated && r.Results != nil {
		res := r.Results
		p.raw(`<div class="results">`)
		result(p, "Current grade", services.FormatPercent(res.CurrentGradePercent, 3))
		result(p, "New grade", services.FormatPercent(res.NewGradePercent, 3)+" (1 in "+services.FormatRatio(res.NewGradeRatio)+")")
		result(p, "Grade change", services.FormatSigned(res.GradeChange, 3)+"%")
		result(p, "Height change", services.FormatSigned(res.HeightChange, 3)+" m")
		result(p, "Per 6 m pipe", services.FormatSigned(res.AdjustmentPer6m, 1)+" mm")
		p.raw(`</div>`)
	}
	p.raw(`</form>`)
}

func gradeCheckReading(p *page, r models.GradeCheckReading, index, count int) {
	t := models.ToolGradeCheck
	readingOpen(p, t, r.ID)
	readingControls(p, t, r.ID, index, count)
	textInput(p, "Section", "sectionId", r.SectionID)
	numberInput(p, "Downstream IL", "downstreamIL", r.DownstreamIL)
	numberInput(p, "Upstream IL", "upstreamIL", r.UpstreamIL)
	numberInput(p, "Length (m)", "length", r.Length)
	modeSelect(p, "gradeMode", r.GradeMode)
	numberInput(p, "Design grade", "designGrade", r.DesignGrade)
	notesInput(p, r.Notes)
	if r.Calculated && r.Results != nil {
		res := r.Results
		p.raw(`<div class="results">`)
		result(p, "Design", services.FormatPercent(res.DesignGradePercent, 3)+" / "+services.FormatFixed(res.DesignRise, 3)+" m")
		result(p, "Actual", services.FormatPercent(res.ActualGrade, 3)+" / "+services.FormatFixed(res.ActualRise, 3)+" m")
		result(p, "Difference", services.FormatPercent(res.PercentageDifference, 3)+" / "+services.FormatFixed(res.RiseFallDifference, 3)+" m")
		p.raw(`</div>`)
	}
	p.raw(`</form>`)
}

func chainageILReading(p *page, r models.ChainageILReading, index, count int) {
	t := models.ToolChainageIL
	readingOpen(p, t, r.ID)
	readingControls(p, t, r.ID, index, count)
	textInput(p, "Section", "sectionId", r.SectionID)
	numberInput(p, "Start IL", "startIL", r.StartIL)
	numberInput(p, "Chainage (m)", "targetChainage", r.TargetChainage)
	modeSelect(p, "gradeMode", r.GradeMode)
	numberInput(p, "Grade", "gradeValue", r.GradeValue)
	notesInput(p, r.Notes)
	if r.Calculated && r.Results != nil {
		p.raw(`<div class="results">`)
		result(p, "Total rise", services.FormatFixed(r.Results.TotalRise, 3))
		result(p, "IL at chainage", services.FormatFixed(r.Results.ILAtChainage, 3))
		p.raw(`</div>`)
	}
	p.raw(`</form>`)
}

func noteReading(p *page, n models.GeneralNote, index, count int) {
	t := models.ToolNotes
	readingOpen(p, t, n.ID)
	readingControls(p, t, n.ID, index, count)
	p.raw(`<textarea name="content" rows="3" placeholder="Field observations">`)
	p.text(n.Content)
	p.raw(`</textarea></form>`)
}

// PreviewPanel shows the report text. oob marks it for an htmx out-of-band
// swap next to a tool panel.
func PreviewPanel(v services.WorkspaceView, oob bool) templ.Component {
	return component(func(p *page) {
		p.raw(`<section id="preview" class="card preview"`)
		if oob {
			p.raw(` hx-swap-oob="true"`)
		}
		p.raw(`><header><h2>Report</h2>`)
		p.render(PreviewStatus(v.Manual))
		p.raw(`</header>`)
		p.raw(`<textarea id="preview-text" name="preview" rows="16" hx-post="/preview" hx-trigger="input changed delay:500ms" hx-target="#preview-status" hx-swap="outerHTML"`)
		p.attr("placeholder", services.PreviewPlaceholder)
		p.raw(`>`)
		p.text(v.Preview)
		p.raw(`</textarea>`)

		p.raw(`<div class="actions">`)
		p.raw(`<button type="button" data-copy="#preview-text">Copy</button>`)
		if v.ReportID != "" {
			p.raw(`<button type="button"`)
			p.attr("hx-post", "/reports/"+v.ReportID+"/save")
			p.raw(` hx-swap="none">Update report</button>`)
			p.raw(`<button type="button" class="secondary" hx-post="/reports" hx-swap="none">Save as new</button>`)
		} else {
			p.raw(`<button type="button" hx-post="/reports" hx-swap="none">Save report</button>`)
		}
		p.raw(`<button type="button" class="secondary" hx-post="/reports/new" hx-target="#workspace" hx-swap="outerHTML" hx-confirm="Start a new report? Unsaved changes will be lost.">New report</button>`)
		p.raw(`</div></section>`)
	})
}

// PreviewStatus tells whether the preview follows the tools or was edited
// by hand, with a reset button in the latter case.
func PreviewStatus(manual bool) templ.Component {
	return component(func(p *page) {
		p.raw(`<div id="preview-status" class="status">`)
		if manual {
			p.raw(`<span class="badge warning">Edited by hand</span>`)
			p.raw(`<button type="button" class="link" hx-post="/preview/reset" hx-target="#preview" hx-swap="outerHTML">Reset to auto</button>`)
		} else {
			p.raw(`<span class="badge">Auto</span>`)
		}
		p.raw(`</div>`)
	})
}

var calculatorKeys = [][]string{
	{"7", "8", "9", "÷"},
	{"4", "5", "6", "×"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
}

func CalculatorPanel(c services.CalculatorView) templ.Component {
	return component(func(p *page) {
		p.raw(`<section id="calculator" class="card calculator"><h2>Calculator</h2><div class="display"><small>`)
		p.text(c.Pending)
		p.raw(`</small><output>`)
		p.text(c.Display)
		p.raw(`</output></div><div class="keys">`)
		for _, row := range calculatorKeys {
			for _, key := range row {
				calculatorKey(p, key)
			}
		}
		calculatorKey(p, "C")
		calculatorKey(p, "AC")
		p.raw(`</div>`)

		if len(c.History) > 0 {
			p.raw(`<div class="history"><ol>`)
			for _, h := range c.History {
				p.raw(`<li>`)
				p.text(h)
				p.raw(`</li>`)
			}
			p.raw(`</ol><button type="button" class="link" hx-post="/calculator/history/clear" hx-target="#calculator" hx-swap="outerHTML">Clear history</button></div>`)
		}
		p.raw(`</section>`)
	})
}

func calculatorKey(p *page, key string) {
	p.raw(`<button type="button" hx-post="/calculator" hx-target="#calculator" hx-swap="outerHTML"`)
	p.attr("hx-vals", `{"key":"`+key+`"}`)
	p.raw(`>`)
	p.text(key)
	p.raw(`</button>`)
}
