package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

func ErrorPage(status int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w,
			`<div class="container error-page">`,
			`<h1>`, strconv.Itoa(status), ` `, esc(http.StatusText(status)), `</h1>`,
			`<p>`, esc(message), `</p>`,
			`<p><a href="/">Back to home</a></p>`,
			`</div>`,
		)
	})
}
