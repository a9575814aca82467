package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/collections"
	"fieldreports/services"
	"fieldreports/templates"
)

// AuthCookie holds the PocketBase auth token of the signed-in user.
const AuthCookie = "pb_auth"

// LoadAuthFromCookie resolves the auth cookie into e.Auth. An invalid or
// expired token is cleared and the request continues anonymously.
func LoadAuthFromCookie(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil {
			return e.Next()
		}

		cookie, err := e.Request.Cookie(AuthCookie)
		if err != nil || cookie.Value == "" {
			return e.Next()
		}

		record, err := app.FindAuthRecordByToken(cookie.Value, core.TokenTypeAuth)
		if err != nil || record.Collection().Name != collections.UsersCollection {
			logf(e, "auth: dropping invalid session cookie: %v", err)
			clearAuthCookie(e)
			return e.Next()
		}

		e.Auth = record
		return e.Next()
	}
}

// RequireLogin rejects anonymous requests: htmx requests get a 401 plus an
// HX-Redirect, page loads are redirected to the login page.
func RequireLogin() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil {
			return e.Next()
		}
		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", "/login")
			return ErrorToast(e, http.StatusUnauthorized, "Please log in to continue.")
		}
		next := ""
		if e.Request.Method == http.MethodGet && e.Request.URL.Path != "/" {
			next = "?next=" + e.Request.URL.EscapedPath()
		}
		return e.Redirect(http.StatusSeeOther, "/login"+next)
	}
}

// currentUser returns the signed-in user for templates, or nil.
func currentUser(e *core.RequestEvent) *templates.UserInfo {
	if e.Auth == nil {
		return nil
	}
	return &templates.UserInfo{
		ID:    e.Auth.Id,
		Email: e.Auth.Email(),
		Name:  e.Auth.GetString("name"),
	}
}

func ownerID(e *core.RequestEvent) string {
	if e.Auth == nil {
		return ""
	}
	return e.Auth.Id
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func HandleLoginPage() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil {
			return e.Redirect(http.StatusSeeOther, "/")
		}
		return render(e, templates.LoginPage(templates.LoginData{
			Next: e.Request.URL.Query().Get("next"),
		}))
	}
}

func HandleLogin(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		email := strings.TrimSpace(e.Request.FormValue("email"))
		password := e.Request.FormValue("password")
		next := safeNext(e.Request.FormValue("next"))

		fail := func() error {
			app.Logger().Warn("login failed", "email", email, "ip", e.RealIP())
			data := templates.LoginData{Email: email, Error: "Invalid email or password.", Next: next}
			// htmx only swaps 2xx responses
			if isHTMX(e) {
				return render(e, templates.LoginForm(data))
			}
			e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
			e.Response.WriteHeader(http.StatusUnauthorized)
			return render(e, templates.LoginPage(data))
		}

		if email == "" || password == "" {
			return fail()
		}

		users, err := app.FindCollectionByNameOrId(collections.UsersCollection)
		if err != nil {
			return RespondError(e, "login", services.Transient("find users collection", err))
		}
		record, err := app.FindAuthRecordByEmail(users, email)
		if err != nil || !record.ValidatePassword(password) {
			return fail()
		}

		token, err := record.NewAuthToken()
		if err != nil {
			return RespondError(e, "login", err)
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     AuthCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(users.AuthToken.DurationTime().Seconds()),
			HttpOnly: true,
			Secure:   e.Request.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		return redirect(e, next)
	}
}

func HandleLogout(ws *services.Workspaces) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if id := ownerID(e); id != "" {
			ws.Forget(id)
		}
		clearAuthCookie(e)
		return redirect(e, "/login")
	}
}

func clearAuthCookie(e *core.RequestEvent) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
