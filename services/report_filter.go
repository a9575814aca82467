package services

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"fieldreports/models"
)

// ReportFilter narrows the saved reports list to a time window.
type ReportFilter string

const (
	FilterAll   ReportFilter = "all"
	FilterToday ReportFilter = "today"
	FilterWeek  ReportFilter = "week"
	FilterMonth ReportFilter = "month"
)

// ParseReportFilter maps a query value onto a filter, defaulting to all.
func ParseReportFilter(s string) ReportFilter {
	switch f := ReportFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterToday, FilterWeek, FilterMonth:
		return f
	}
	return FilterAll
}

// since returns the start of the filter window relative to now.
func (f ReportFilter) since(now time.Time) (time.Time, bool) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch f {
	case FilterToday:
		return startOfDay, true
	case FilterWeek:
		return now.AddDate(0, 0, -7), true
	case FilterMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

// FilterReports keeps the reports updated inside the filter window whose
// project name or stage contains search (case-insensitive). Order is kept.
func FilterReports(reports []models.Report, filter ReportFilter, search string, now time.Time) []models.Report {
	search = strings.ToLower(strings.TrimSpace(search))
	from, windowed := filter.since(now)

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if windowed && r.UpdatedAt.Before(from) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.ProjectName), search) &&
			!strings.Contains(strings.ToLower(r.Stage), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ReportListItem is a saved report prepared for the reports list.
type ReportListItem struct {
	Report  models.Report
	Updated string
	Tools   []ToolSummary
}

// ListItems decorates reports with a relative "updated" label and the tools
// they contain.
func ListItems(reports []models.Report, now time.Time) []ReportListItem {
	items := make([]ReportListItem, 0, len(reports))
	for _, r := range reports {
		items = append(items, ReportListItem{
			Report:  r,
			Updated: humanize.RelTime(r.UpdatedAt, now, "ago", "from now"),
			Tools:   SummarizeTools(r.Snapshot),
		})
	}
	return items
}
