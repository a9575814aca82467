package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"fieldreports/services"
	"fieldreports/templates"
)

// HandlePreviewText returns the current report text as plain text.
func HandlePreviewText(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "preview_text", err)
		}
		text, _ := w.Preview()
		e.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
		return e.String(http.StatusOK, text)
	}
}

// HandlePreviewEdit stores a hand-edited report text. From here on the
// preview no longer follows tool edits until it is reset.
func HandlePreviewEdit(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "preview_edit", err)
		}
		w.SetManualPreview(e.Request.FormValue("preview"))
		return render(e, templates.PreviewStatus(true))
	}
}

func HandlePreviewReset(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "preview_reset", err)
		}
		w.ResetPreview()
		return render(e, templates.PreviewPanel(w.View(), false))
	}
}
