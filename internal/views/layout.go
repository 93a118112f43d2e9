package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

type LayoutData struct {
	Title string
	Year  int
}

// NavLink is an entry in the header navigation.
type NavLink struct {
	Label string
	Href  string
}

// NavLinks are shown on every page, whichever page is current.
var NavLinks = []NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Profiles", Href: "/profiles"},
	{Label: "Comments", Href: "/comments"},
}

// Layout wraps content with the document head, the header and the footer.
func Layout(data LayoutData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := SiteName
		if data.Title != "" {
			title = data.Title + " | " + SiteName
		}

		if err := write(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(title), `</title>`,
			`<link rel="stylesheet" href="/static/styles.css">`,
			`</head><body>`,
		); err != nil {
			return err
		}
		if err := Header().Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `<main>`); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `</main>`); err != nil {
			return err
		}
		if err := Footer(data.Year).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</body></html>`)
	})
}

func Header() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<header class="header"><div class="header-container">`,
			`<h1>`, esc(SiteName), `</h1>`,
			`<nav><ul class="nav-links">`,
		); err != nil {
			return err
		}
		for _, link := range NavLinks {
			if err := write(w,
				`<li><a href="`, esc(link.Href), `">`, esc(link.Label), `</a></li>`,
			); err != nil {
				return err
			}
		}
		return write(w, `</ul></nav></div></header>`)
	})
}

func Footer(year int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w,
			`<footer class="footer"><div class="footer-container">`,
			`<p>&copy; `, strconv.Itoa(year), ` `, esc(SiteName), `. All rights reserved.</p>`,
			`</div></footer>`,
		)
	})
}
