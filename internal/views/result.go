package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/tidwall/pretty"

	"github.com/linkedin-scraper/scraper-ui/internal/submit"
)

// Width 0 keeps every array element on its own line.
var prettyOptions = &pretty.Options{
	Width:  0,
	Indent: "  ",
}

// FormatJSON indents a JSON document by two spaces per level.
func FormatJSON(doc []byte) string {
	return string(pretty.PrettyOptions(doc, prettyOptions))
}

func ResultPanel(result submit.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "result"
		if _, failed := result.(submit.Failure); failed {
			class = "result result-error"
		}
		return write(w,
			`<section class="`, class, `">`,
			`<h2>Result:</h2>`,
			`<pre>`, esc(FormatJSON(result.Payload())), `</pre>`,
			`</section>`,
		)
	})
}
