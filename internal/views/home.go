package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func HomePage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w,
			`<div class="container">`,
			`<h1>`, esc(SiteName), `</h1>`,
			`<p>Test the LinkedIn scraper backend functionality.</p>`,
			`<div class="button-group">`,
			`<a class="button" href="/profiles">Profile Scraper</a>`,
			`<a class="button" href="/comments">Comment Scraper</a>`,
			`</div></div>`,
		)
	})
}
