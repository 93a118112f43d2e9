package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/linkedin-scraper/scraper-ui/internal/submit"
)

// Field is a single-line text input. Value is echoed back after a submit so
// the form keeps what the user typed.
type Field struct {
	Name        string
	Placeholder string
	Value       string
}

type FormView struct {
	Heading     string
	Action      string
	Fields      []Field
	SubmitLabel string
	Result      submit.Result // nil until the first submit
}

// FormPage renders a submit form and, once there is one, the result slot.
func FormPage(v FormView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<div class="container">`,
			`<h1>`, esc(v.Heading), `</h1>`,
			`<form method="post" action="`, esc(v.Action), `">`,
			`<div class="input-group">`,
		); err != nil {
			return err
		}
		for _, f := range v.Fields {
			if err := write(w,
				`<input type="text" name="`, esc(f.Name),
				`" placeholder="`, esc(f.Placeholder),
				`" value="`, esc(f.Value), `">`,
			); err != nil {
				return err
			}
		}
		if err := write(w,
			`</div>`,
			`<button type="submit">`, esc(v.SubmitLabel), `</button>`,
			`</form>`,
		); err != nil {
			return err
		}
		if v.Result != nil {
			if err := ResultPanel(v.Result).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</div>`)
	})
}
