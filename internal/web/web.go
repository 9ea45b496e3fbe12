// Package web bundles the HTML templates and the view engine serving them.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

// NewEngine builds the view engine over the embedded templates. Template
// names are file paths relative to templates/ without the extension, e.g.
// "dashboard" or "layouts/main".
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
