package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/services"
	"fieldreports/templates"
)

// HandleCalculatorKey presses one calculator key. A rejected operation such
// as division by zero shows a toast; the panel is re-rendered either way.
func HandleCalculatorKey(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "calculator", err)
		}
		view, err := w.PressCalculator(e.Request.FormValue("key"))
		if err != nil {
			SetToast(e, "error", err.Error())
		}
		return render(e, templates.CalculatorPanel(view))
	}
}

func HandleCalculatorHistoryClear(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "calculator_history", err)
		}
		return render(e, templates.CalculatorPanel(w.ClearCalculatorHistory()))
	}
}
