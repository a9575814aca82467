package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newFormRequest builds an htmx form post.
func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

// serve runs handler for user and returns the recorded response.
func serve(t *testing.T, app *pocketbase.PocketBase, user *core.Record, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	e.Auth = user
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// userWorkspace returns the workspace the handlers use for user.
func userWorkspace(t *testing.T, ws *services.Workspaces, user *core.Record) *services.Workspace {
	t.Helper()

	w, err := ws.Get(context.Background(), user.Id)
	if err != nil {
		t.Fatalf("failed to get workspace: %v", err)
	}
	return w
}
