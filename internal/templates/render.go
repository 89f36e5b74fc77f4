// templates/render.go - Rendering helpers shared by the views
package templates

import (
	"context"
	"io"
	"math"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so views can emit markup without
// checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) url(s string) {
	h.raw(templ.EscapeString(string(templ.URL(s))))
}

func (h *htmlWriter) num(n int64) {
	h.raw(strconv.FormatInt(n, 10))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

// view adapts a writer func into a templ.Component
func view(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// percentage returns part as a share of total, clamped to 0..100
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Min(100, math.Max(0, float64(part)/float64(total)*100))
}

func checked(b bool) string {
	if b {
		return " checked"
	}
	return ""
}
