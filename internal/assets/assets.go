// Package assets embeds the UI's static files.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var files embed.FS

// FS is rooted at the static directory.
var FS, _ = fs.Sub(files, "static")

// Handler serves the static files; mount it under /static/.
func Handler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(FS)))
}
