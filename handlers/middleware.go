package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const RequestIDKey contextKey = "requestID"

// RequestIDHeader carries the request id to and from the client.
const RequestIDHeader = "X-Request-Id"

// GetRequestID extracts the request id from the request context.
func GetRequestID(r *http.Request) string {
	if val, ok := r.Context().Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

// RequestIDMiddleware stamps every request with an id. A well-formed id sent
// by the client is kept so retries can be traced.
func RequestIDMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		e.Response.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(e.Request.Context(), RequestIDKey, id)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// logf logs with the request id as prefix.
func logf(e *core.RequestEvent, format string, args ...any) {
	if id := GetRequestID(e.Request); id != "" {
		format = "[" + id + "] " + format
	}
	log.Printf(format, args...)
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to url, through HX-Redirect for htmx requests.
func redirect(e *core.RequestEvent, url string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusSeeOther, url)
}

// render writes the components in order as one HTML response.
func render(e *core.RequestEvent, components ...templ.Component) error {
	e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, c := range components {
		if err := c.Render(e.Request.Context(), e.Response); err != nil {
			return err
		}
	}
	return nil
}
