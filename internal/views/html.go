// Package views renders the UI pages as templ components.
package views

import (
	"io"

	"github.com/a-h/templ"
)

// SiteName appears in the header, the page titles and the footer.
const SiteName = "LinkedIn Scraper"

// write writes each part in turn and stops at the first error.
func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

var esc = templ.EscapeString
