package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"fieldreports/models"
	"fieldreports/services"
)

// formReader reads tool inputs from a posted form and collects the fields
// that could not be parsed.
type formReader struct {
	e    *core.RequestEvent
	errs map[string]string
}

func newFormReader(e *core.RequestEvent) *formReader {
	return &formReader{e: e}
}

func (f *formReader) text(name string) string {
	return f.e.Request.FormValue(name)
}

// float returns nil for a blank field. Anything that is not a finite number
// is recorded as an error.
func (f *formReader) float(name string) *float64 {
	s := strings.TrimSpace(f.e.Request.FormValue(name))
	if s == "" {
		return nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.fail(name, "Please enter a valid number")
		return nil
	}
	return &v
}

func (f *formReader) mode(name string) models.GradeMode {
	return models.GradeMode(f.e.Request.FormValue(name)).OrDefault()
}

func (f *formReader) fail(name, message string) {
	if f.errs == nil {
		f.errs = make(map[string]string)
	}
	f.errs[name] = message
}

func (f *formReader) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return &services.ValidationError{Fields: f.errs}
}

// pathTool resolves the {tool} path segment.
func pathTool(e *core.RequestEvent) (models.Tool, error) {
	t, ok := models.ParseTool(e.Request.PathValue("tool"))
	if !ok {
		return "", services.ErrUnknownTool
	}
	return t, nil
}

// pathInt resolves a numeric path segment such as {id}.
func pathInt(e *core.RequestEvent, name string) (int, error) {
	id, err := strconv.Atoi(e.Request.PathValue(name))
	if err != nil || id <= 0 {
		return 0, services.ErrReadingNotFound
	}
	return id, nil
}
