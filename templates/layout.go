package templates

import (
	"github.com/a-h/templ"
)

// UserInfo is the signed-in user shown in the header.
type UserInfo struct {
	ID    string
	Email string
	Name  string
}

// Label is the name to show for the user.
func (u UserInfo) Label() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Layout wraps body in the full HTML document. user may be nil on the login
// page.
func Layout(title string, user *UserInfo, body templ.Component) templ.Component {
	return component(func(p *page) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(title)
		p.raw(` | Field Reports</title>`)
		p.raw(`<link rel="stylesheet" href="/static/app.css">`)
		p.raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		p.raw(`<script src="/static/app.js" defer></script>`)
		p.raw(`</head><body hx-boost="true">`)

		p.raw(`<header class="topbar"><a class="brand" href="/">Field Reports</a>`)
		if user != nil {
			p.raw(`<nav><a href="/">Workspace</a><a href="/reports">Saved reports</a>`)
			p.raw(`<span class="user">`)
			p.text(user.Label())
			p.raw(`</span>`)
			p.raw(`<form method="post" action="/logout" class="inline"><button type="submit">Log out</button></form>`)
			p.raw(`</nav>`)
		}
		p.raw(`</header>`)

		p.raw(`<main id="main">`)
		p.render(body)
		p.raw(`</main>`)
		p.raw(`<div id="toast" class="toast" role="status" aria-live="polite"></div>`)
		p.raw(`</body></html>`)
	})
}
