package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"fieldreports/collections"
	"fieldreports/models"
	"fieldreports/services"
	"fieldreports/templates"
)

const displayDateLayout = "02 Jan 2006 15:04"

// HandleReportList renders the saved reports page. When the filter form
// swaps just the list, only the list is rendered.
func HandleReportList(store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		reports, err := store.LoadAll(e.Request.Context(), ownerID(e))
		if err != nil {
			return RespondError(e, "report_list", err)
		}

		q := e.Request.URL.Query()
		filter := services.ParseReportFilter(q.Get("filter"))
		search := q.Get("search")
		now := time.Now()

		data := templates.ReportsData{
			User:   currentUser(e),
			Items:  services.ListItems(services.FilterReports(reports, filter, search, now), now),
			Total:  len(reports),
			Filter: filter,
			Search: search,
		}

		if e.Request.Header.Get("HX-Target") == "report-list" {
			return render(e, templates.ReportsList(data))
		}
		return render(e, templates.ReportsPage(data))
	}
}

// workspaceReport captures the workspace as a report ready to save.
func workspaceReport(w *services.Workspace) (collections.ReportInput, error) {
	projectName, stage := w.Project()
	if err := services.ValidateProject(projectName, stage); err != nil {
		return collections.ReportInput{}, err
	}
	snap, err := w.Snapshot()
	if err != nil {
		return collections.ReportInput{}, err
	}
	return collections.ReportInput{ProjectName: projectName, Stage: stage, Snapshot: snap}, nil
}

// HandleReportSave stores the workspace as a new report. The workspace then
// edits that report, so later saves can update it.
func HandleReportSave(ws *services.Workspaces, store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "report_save", err)
		}
		in, err := workspaceReport(w)
		if err != nil {
			return RespondError(e, "report_save", err)
		}

		label := ""
		if u := currentUser(e); u != nil {
			label = u.Label()
		}
		id, err := store.Save(e.Request.Context(), ownerID(e), label, in)
		if err != nil {
			return RespondError(e, "report_save", err)
		}

		w.SetReportID(id)
		SetToast(e, "success", "Report saved")
		return render(e, templates.PreviewPanel(w.View(), true))
	}
}

// HandleReportUpdate overwrites a saved report with the workspace contents.
func HandleReportUpdate(ws *services.Workspaces, store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")

		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "report_update", err)
		}
		in, err := workspaceReport(w)
		if err != nil {
			return RespondError(e, "report_update", err)
		}
		if err := store.Update(e.Request.Context(), id, ownerID(e), in); err != nil {
			return RespondError(e, "report_update", err)
		}

		SetToast(e, "success", "Report updated")
		return e.String(http.StatusOK, "")
	}
}

func HandleReportView(store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, err := store.Load(e.Request.Context(), e.Request.PathValue("id"), ownerID(e))
		if err != nil {
			return RespondError(e, "report_view", err)
		}
		return render(e, templates.ReportViewPage(templates.ReportViewData{
			User:    currentUser(e),
			Report:  r,
			Message: reportMessage(r),
			Created: r.CreatedAt.Format(displayDateLayout),
			Updated: r.UpdatedAt.Format(displayDateLayout),
		}))
	}
}

func reportMessage(r models.Report) string {
	return services.GenerateMessage(r.ProjectName, r.Stage, r.Snapshot)
}

// HandleReportMessage returns the generated text of a saved report.
func HandleReportMessage(store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, err := store.Load(e.Request.Context(), e.Request.PathValue("id"), ownerID(e))
		if err != nil {
			return RespondError(e, "report_message", err)
		}
		e.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
		return e.String(http.StatusOK, reportMessage(r))
	}
}

// HandleReportEdit loads a saved report into the workspace, replacing what
// was there, and sends the user to the workspace.
func HandleReportEdit(ws *services.Workspaces, store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, err := store.Load(e.Request.Context(), e.Request.PathValue("id"), ownerID(e))
		if err != nil {
			return RespondError(e, "report_edit", err)
		}
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "report_edit", err)
		}
		if err := w.LoadReport(r); err != nil {
			return RespondError(e, "report_edit", err)
		}

		SetToast(e, "success", "Loaded "+r.Title())
		return redirect(e, "/")
	}
}

// HandleReportDelete removes a saved report. If the workspace was editing
// it, the workspace keeps its contents but is no longer linked to it.
func HandleReportDelete(ws *services.Workspaces, store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := store.Delete(e.Request.Context(), id, ownerID(e)); err != nil {
			return RespondError(e, "report_delete", err)
		}

		if w, err := workspaceFor(e, ws); err == nil && w.ReportID() == id {
			w.SetReportID("")
		}

		SetToast(e, "success", "Report deleted")
		return e.String(http.StatusOK, "")
	}
}
