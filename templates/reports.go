package templates

import (
	"github.com/a-h/templ"

	"fieldreports/models"
	"fieldreports/services"
)

type ReportsData struct {
	User   *UserInfo
	Items  []services.ReportListItem
	Total  int
	Filter services.ReportFilter
	Search string
}

var reportFilters = []struct {
	filter services.ReportFilter
	label  string
}{
	{services.FilterAll, "All"},
	{services.FilterToday, "Today"},
	{services.FilterWeek, "This week"},
	{services.FilterMonth, "This month"},
}

func ReportsPage(data ReportsData) templ.Component {
	return Layout("Saved reports", data.User, component(func(p *page) {
		p.raw(`<section class="card"><header><h1>Saved reports</h1></header>`)
		p.raw(`<form class="filters" hx-get="/reports" hx-trigger="input changed delay:300ms from:[name=search], change" hx-target="#report-list" hx-swap="outerHTML">`)
		p.raw(`<input type="search" name="search" placeholder="Search project or stage"`)
		p.attr("value", data.Search)
		p.raw(`><select name="filter">`)
		for _, f := range reportFilters {
			p.raw(`<option`)
			p.attr("value", string(f.filter))
			if f.filter == data.Filter {
				p.raw(` selected`)
			}
			p.raw(`>`)
			p.text(f.label)
			p.raw(`</option>`)
		}
		p.raw(`</select></form>`)
		p.render(ReportsList(data))
		p.raw(`</section>`)
	}))
}

// ReportsList is the filtered list, swapped on its own while searching.
func ReportsList(data ReportsData) templ.Component {
	return component(func(p *page) {
		p.raw(`<div id="report-list">`)
		if len(data.Items) == 0 {
			p.raw(`<p class="empty">`)
			if data.Total == 0 {
				p.raw(`No saved reports yet.`)
			} else {
				p.raw(`No reports match your search.`)
			}
			p.raw(`</p></div>`)
			return
		}

		p.raw(`<ul class="reports">`)
		for _, item := range data.Items {
			r := item.Report
			p.raw(`<li class="report"`)
			p.attr("id", "report-"+r.ID)
			p.raw(`><a`)
			p.attr("href", "/reports/"+r.ID)
			p.raw(`><strong>`)
			p.text(r.Title())
			p.raw(`</strong></a><small>Updated `)
			p.text(item.Updated)
			p.raw(`</small><div class="tools">`)
			for _, t := range item.Tools {
				if t.Count == 0 {
					continue
				}
				p.raw(`<span class="badge">`)
				p.text(t.Title + " " + itoa(t.Count))
				p.raw(`</span>`)
			}
			p.raw(`</div><div class="actions">`)
			reportActions(p, r.ID)
			p.raw(`<button type="button" class="danger" hx-confirm="Delete this report?"`)
			p.attr("hx-delete", "/reports/"+r.ID)
			p.attr("hx-target", "#report-"+r.ID)
			p.raw(` hx-swap="outerHTML">Delete</button>`)
			p.raw(`</div></li>`)
		}
		p.raw(`</ul></div>`)
	})
}

func reportActions(p *page, id string) {
	p.raw(`<form method="post" class="inline"`)
	p.attr("action", "/reports/"+id+"/edit")
	p.raw(`><button type="submit">Edit</button></form>`)
	// Downloads must bypass hx-boost.
	for _, ex := range []struct{ path, label string }{
		{"excel", "Excel"},
		{"pdf", "PDF"},
		{"json", "JSON"},
	} {
		p.raw(`<a class="button secondary" hx-boost="false"`)
		p.attr("href", "/reports/"+id+"/export/"+ex.path)
		p.raw(`>` + ex.label + `</a>`)
	}
}

type ReportViewData struct {
	User    *UserInfo
	Report  models.Report
	Message string
	Created string
	Updated string
}

// ReportViewPage is the read-only view of a saved report.
func ReportViewPage(data ReportViewData) templ.Component {
	return Layout(data.Report.Title(), data.User, component(func(p *page) {
		r := data.Report
		p.raw(`<section class="card report-view"><header><h1>`)
		p.text(r.Title())
		p.raw(`</h1><small>`)
		if r.OwnerLabel != "" {
			p.text(r.OwnerLabel + " · ")
		}
		p.text("Created " + data.Created + " · Updated " + data.Updated)
		p.raw(`</small></header>`)
		p.raw(`<pre id="report-message" class="message">`)
		p.text(data.Message)
		p.raw(`</pre><div class="actions">`)
		p.raw(`<button type="button" data-copy="#report-message">Copy</button>`)
		reportActions(p, r.ID)
		p.raw(`<a class="button secondary" href="/reports">Back</a></div></section>`)
	}))
}
