package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/services"
	"fieldreports/templates"
)

// workspaceFor returns the signed-in user's workspace.
func workspaceFor(e *core.RequestEvent, ws *services.Workspaces) (*services.Workspace, error) {
	return ws.Get(e.Request.Context(), ownerID(e))
}

func HandleWorkspacePage(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "workspace_page", err)
		}
		return render(e, templates.WorkspacePage(templates.WorkspaceData{
			User: currentUser(e),
			View: w.View(),
		}))
	}
}

// HandleProjectUpdate stores the project name and stage and returns the
// refreshed preview.
func HandleProjectUpdate(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "project_update", err)
		}
		w.SetProject(e.Request.FormValue("projectName"), e.Request.FormValue("stage"))
		return render(e, templates.PreviewPanel(w.View(), false))
	}
}

// HandleNewReport discards the workspace contents and starts a blank report.
func HandleNewReport(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "new_report", err)
		}
		w.NewReport()
		SetToast(e, "success", "Started a new report")
		return render(e, templates.WorkspaceBody(w.View()))
	}
}
