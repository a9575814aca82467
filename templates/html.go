// Package templates renders the server-side HTML pages and htmx partials.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// page accumulates HTML into a writer. The first write error sticks and
// every later write is skipped.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with the value escaped.
func (p *page) attr(name, value string) {
	p.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (p *page) render(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

func component(fn func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{ctx: ctx, w: w}
		fn(p)
		return p.err
	})
}

// inputValue prints an optional number the way the user typed it.
func inputValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
