package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fieldreports/services"
	"fieldreports/testhelpers"
)

func TestLoadAuthFromCookie_ValidToken(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "crew@example.com")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: testhelpers.AuthToken(t, user)})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := LoadAuthFromCookie(app)(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if e.Auth == nil || e.Auth.Id != user.Id {
		t.Fatalf("expected auth record %s, got %v", user.Id, e.Auth)
	}
}

func TestLoadAuthFromCookie_InvalidTokenIsCleared(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := LoadAuthFromCookie(app)(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if e.Auth != nil {
		t.Error("expected no auth record for an invalid token")
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), AuthCookie+"=;") {
		t.Errorf("expected auth cookie to be cleared, got %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestRequireLogin_RedirectsPageLoads(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	if err := RequireLogin()(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?next=/reports" {
		t.Errorf("expected redirect to login with next, got %q", got)
	}
}

func TestRequireLogin_HTMXGets401(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/laser/readings", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	if err := RequireLogin()(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/login")
}

func TestHandleLogin_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUser(t, app, "crew@example.com")

	form := url.Values{
		"email":    {"crew@example.com"},
		"password": {testhelpers.TestPassword},
		"next":     {"/reports"},
	}
	rec := serve(t, app, nil, HandleLogin(app), newFormRequest(http.MethodPost, "/login", form))

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/reports")

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == AuthCookie {
			token = c.Value
			if !c.HttpOnly {
				t.Error("expected auth cookie to be HttpOnly")
			}
		}
	}
	if token == "" {
		t.Fatal("expected auth cookie to be set")
	}
	if _, err := app.FindAuthRecordByToken(token); err != nil {
		t.Errorf("expected a valid auth token: %v", err)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUser(t, app, "crew@example.com")

	form := url.Values{"email": {"crew@example.com"}, "password": {"wrong"}}
	rec := serve(t, app, nil, HandleLogin(app), newFormRequest(http.MethodPost, "/login", form))

	if rec.Code != http.StatusOK {
		t.Errorf("expected the login form to be swapped with 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `id="login"`, "Invalid email or password.", `value="crew@example.com"`)
	for _, c := range rec.Result().Cookies() {
		if c.Name == AuthCookie {
			t.Error("expected no auth cookie after a failed login")
		}
	}
}

func TestHandleLogin_UnsafeNextIgnored(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUser(t, app, "crew@example.com")

	form := url.Values{
		"email":    {"crew@example.com"},
		"password": {testhelpers.TestPassword},
		"next":     {"//evil.example.com"},
	}
	rec := serve(t, app, nil, HandleLogin(app), newFormRequest(http.MethodPost, "/login", form))

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/")
}

func TestHandleLogin_WrongPasswordPlainForm(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{"email": {"nobody@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(t, app, nil, HandleLogin(app), req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "<html", "Invalid email or password.")
}

func TestHandleLogout_ForgetsWorkspace(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "crew@example.com")
	ws := services.NewWorkspaces(nil, nil, services.DefaultCalculatorHistory)

	userWorkspace(t, ws, user).SetProject("Riverside", "Stage 1")

	rec := serve(t, app, user, HandleLogout(ws), newFormRequest(http.MethodPost, "/logout", nil))

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/login")
	if name, _ := userWorkspace(t, ws, user).Project(); name != "" {
		t.Errorf("expected a fresh workspace after logout, got project %q", name)
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/reports", "/reports"},
		{"//evil.example.com", "/"},
		{"/\\evil.example.com", "/"},
		{"https://evil.example.com", "/"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
