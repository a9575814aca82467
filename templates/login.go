package templates

import (
	"github.com/a-h/templ"
)

type LoginData struct {
	Email string
	Error string
	Next  string
}

func LoginPage(data LoginData) templ.Component {
	return Layout("Log in", nil, LoginForm(data))
}

// LoginForm is the sign in card, also returned on its own after a failed
// htmx login.
func LoginForm(data LoginData) templ.Component {
	return component(func(p *page) {
		p.raw(`<section id="login" class="card narrow"><h1>Log in</h1>`)
		if data.Error != "" {
			p.raw(`<p class="error">`)
			p.text(data.Error)
			p.raw(`</p>`)
		}
		p.raw(`<form method="post" action="/login" hx-post="/login" hx-target="#login" hx-swap="outerHTML">`)
		p.raw(`<input type="hidden" name="next"`)
		p.attr("value", data.Next)
		p.raw(`>`)
		p.raw(`<label>Email<input type="email" name="email" required autocomplete="username"`)
		p.attr("value", data.Email)
		p.raw(`></label>`)
		p.raw(`<label>Password<input type="password" name="password" required autocomplete="current-password"></label>`)
		p.raw(`<button type="submit">Log in</button></form></section>`)
	})
}
