// templates/layout.go - Page shell and shared fragments
package templates

import (
	"context"

	"github.com/a-h/templ"
)

// NavItem is one entry of the sidebar
type NavItem struct {
	Label string
	Path  string
}

// Nav lists the dashboard sections in display order
var Nav = []NavItem{
	{Label: "Dashboard", Path: "/"},
	{Label: "Projects", Path: "/projects"},
	{Label: "CV", Path: "/cv"},
	{Label: "Skills", Path: "/skills"},
	{Label: "Settings", Path: "/settings"},
}

// htmxConfig swaps 4xx/5xx responses too, so failed actions show the error
// banner they render instead of being dropped.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true},{"code":"...","swap":false}]}`

// Layout wraps body in the full HTML page
func Layout(title string, body templ.Component) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<meta name="htmx-config" content='`)
		h.raw(htmxConfig)
		h.raw(`'>`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><script src="https://unpkg.com/htmx.org@2.0.4"></script></head>`)
		h.raw(`<body hx-boost="true"><nav class="sidebar"><ul>`)
		for _, item := range Nav {
			h.raw(`<li><a href="`)
			h.url(item.Path)
			h.raw(`">`)
			h.text(item.Label)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav><main id="content">`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// ErrorBanner shows the store's last failure with a dismiss button. An empty
// message renders the bare target so HTMX swaps have somewhere to land.
func ErrorBanner(msg string) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		if msg == "" {
			h.raw(`<div id="error-banner"></div>`)
			return
		}
		h.raw(`<div id="error-banner" class="alert alert-error" role="alert"><span>`)
		h.text(msg)
		h.raw(`</span><form method="post" action="/errors/clear" hx-post="/errors/clear" hx-target="#error-banner" hx-swap="outerHTML">`)
		h.raw(`<button type="submit">Dismiss</button></form></div>`)
	})
}

// Placeholder renders a section that has no content yet
func Placeholder(title, message string) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="placeholder"><h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p></section>`)
	})
}
