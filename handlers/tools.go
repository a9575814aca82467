package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"fieldreports/models"
	"fieldreports/services"
	"fieldreports/templates"
)

// renderTool swaps the tool panel and refreshes the preview out of band.
func renderTool(e *core.RequestEvent, w *services.Workspace, t models.Tool) error {
	v := w.View()
	return render(e, templates.ToolPanel(t, v), templates.PreviewPanel(v, true))
}

func HandleAddReading(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "reading_add", err)
		}
		t, err := pathTool(e)
		if err != nil {
			return RespondError(e, "reading_add", err)
		}
		if _, err := w.AddReading(t); err != nil {
			return RespondError(e, "reading_add", err)
		}
		return renderTool(e, w, t)
	}
}

func HandleDeleteReading(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "reading_delete", err)
		}
		t, err := pathTool(e)
		if err != nil {
			return RespondError(e, "reading_delete", err)
		}
		id, err := pathInt(e, "id")
		if err != nil {
			return RespondError(e, "reading_delete", err)
		}
		if err := w.DeleteReading(t, id); err != nil {
			return RespondError(e, "reading_delete", err)
		}
		return renderTool(e, w, t)
	}
}

func HandleMoveReading(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "reading_move", err)
		}
		t, err := pathTool(e)
		if err != nil {
			return RespondError(e, "reading_move", err)
		}
		id, err := pathInt(e, "id")
		if err != nil {
			return RespondError(e, "reading_move", err)
		}

		var dir models.Direction
		switch e.Request.FormValue("dir") {
		case "up":
			dir = models.Up
		case "down":
			dir = models.Down
		default:
			return ErrorToast(e, http.StatusBadRequest, "Invalid direction")
		}

		if err := w.MoveReading(t, id, dir); err != nil {
			return RespondError(e, "reading_move", err)
		}
		return renderTool(e, w, t)
	}
}

func HandleClearTool(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "tool_clear", err)
		}
		t, err := pathTool(e)
		if err != nil {
			return RespondError(e, "tool_clear", err)
		}
		if err := w.ClearTool(t); err != nil {
			return RespondError(e, "tool_clear", err)
		}
		return renderTool(e, w, t)
	}
}

// HandleUpdateReading applies a posted reading form. Each tool reads its own
// fields; the results are recalculated by the workspace.
func HandleUpdateReading(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "reading_update", err)
		}
		t, err := pathTool(e)
		if err != nil {
			return RespondError(e, "reading_update", err)
		}
		id, err := pathInt(e, "id")
		if err != nil {
			return RespondError(e, "reading_update", err)
		}
		if err := updateReading(w, t, id, newFormReader(e)); err != nil {
			return RespondError(e, "reading_update", err)
		}
		return renderTool(e, w, t)
	}
}

func updateReading(w *services.Workspace, t models.Tool, id int, f *formReader) error {
	var err error
	switch t {
	case models.ToolPipeLevel:
		in := pipeLevelInput(f)
		if err := f.err(); err != nil {
			return err
		}
		_, err = w.UpdatePipeLevel(id, in)
	case models.ToolLaser:
		in := services.LaserInput{SectionID: f.text("sectionId"), Notes: f.text("notes")}
		switch src := services.LaserSource(f.text("source")); src {
		case services.LaserFromRatioField, services.LaserFromPercentField:
			in.Source = src
			in.Value = f.float(string(src))
		}
		if err := f.err(); err != nil {
			return err
		}
		_, err = w.UpdateLaser(id, in)
	case models.ToolRegrade:
		in := regradeInput(f)
		if err := f.err(); err != nil {
			return err
		}
		_, err = w.UpdateRegrade(id, in)
	case models.ToolGradeCheck:
		in := services.GradeCheckInput{
			SectionID:    f.text("sectionId"),
			DownstreamIL: f.float("downstreamIL"),
			UpstreamIL:   f.float("upstreamIL"),
			Length:       f.float("length"),
			DesignGrade:  f.float("designGrade"),
			GradeMode:    f.mode("gradeMode"),
			Notes:        f.text("notes"),
		}
		if err := f.err(); err != nil {
			return err
		}
		_, err = w.UpdateGradeCheck(id, in)
	case models.ToolChainageIL:
		in := services.ChainageILInput{
			SectionID:      f.text("sectionId"),
			StartIL:        f.float("startIL"),
			TargetChainage: f.float("targetChainage"),
			GradeMode:      f.mode("gradeMode"),
			GradeValue:     f.float("gradeValue"),
			Notes:          f.text("notes"),
		}
		if err := f.err(); err != nil {
			return err
		}
		_, err = w.UpdateChainageIL(id, in)
	case models.ToolNotes:
		_, err = w.UpdateNote(id, f.text("content"))
	default:
		err = services.ErrUnknownTool
	}
	return err
}

func pipeLevelInput(f *formReader) services.PipeLevelInput {
	return services.PipeLevelInput{
		SectionID:      f.text("sectionId"),
		SlopeMode:      f.mode("slopeMode"),
		SlopeValue:     f.float("slopeValue"),
		Distance:       f.float("distance"),
		StartHeight:    f.float("startHeight"),
		MeasuredHeight: f.float("measuredHeight"),
		Notes:          f.text("notes"),
	}
}

func regradeInput(f *formReader) services.RegradeInput {
	return services.RegradeInput{
		SectionID:     f.text("sectionId"),
		GradeMode:     f.mode("gradeMode"),
		CurrentGrade:  f.float("currentGrade"),
		CurrentRatio:  f.float("currentRatio"),
		Distance:      f.float("distance"),
		CurrentHeight: f.float("currentHeight"),
		TargetHeight:  f.float("targetHeight"),
		Chainage:      f.float("chainage"),
		Notes:         f.text("notes"),
	}
}

// HandleCalculateRegrade saves the posted regrade inputs and runs the
// calculation. Invalid inputs leave the reading uncalculated; the panel is
// still swapped so stale results disappear.
func HandleCalculateRegrade(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "regrade_calculate", err)
		}
		id, err := pathInt(e, "id")
		if err != nil {
			return RespondError(e, "regrade_calculate", err)
		}

		f := newFormReader(e)
		in := regradeInput(f)
		if err := f.err(); err != nil {
			return RespondError(e, "regrade_calculate", err)
		}
		if _, err := w.UpdateRegrade(id, in); err != nil {
			return RespondError(e, "regrade_calculate", err)
		}

		_, err = w.CalculateRegrade(id)
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			SetToast(e, "error", ve.First())
		case err != nil:
			return RespondError(e, "regrade_calculate", err)
		}
		return renderTool(e, w, models.ToolRegrade)
	}
}

func HandleAddExtraDistance(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "extra_distance_add", err)
		}
		id, err := pathInt(e, "id")
		if err != nil {
			return RespondError(e, "extra_distance_add", err)
		}

		f := newFormReader(e)
		d := f.float("extraDistance")
		if d == nil && f.err() == nil {
			f.fail("extraDistance", "Please enter a valid extra distance")
		}
		if err := f.err(); err != nil {
			return RespondError(e, "extra_distance_add", err)
		}

		if _, err := w.AddExtraDistance(id, *d); err != nil {
			return RespondError(e, "extra_distance_add", err)
		}
		return renderTool(e, w, models.ToolPipeLevel)
	}
}

func HandleRemoveExtraDistance(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		w, err := workspaceFor(e, ws)
		if err != nil {
			return RespondError(e, "extra_distance_remove", err)
		}
		id, err := pathInt(e, "id")
		if err != nil {
			return RespondError(e, "extra_distance_remove", err)
		}
		extraID, err := pathInt(e, "extraId")
		if err != nil {
			return RespondError(e, "extra_distance_remove", err)
		}
		if _, err := w.RemoveExtraDistance(id, extraID); err != nil {
			return RespondError(e, "extra_distance_remove", err)
		}
		return renderTool(e, w, models.ToolPipeLevel)
	}
}
