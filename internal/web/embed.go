// Package web provides the embedded html templates of the landing and form views.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html views/layouts/*.html views/partials/*.html
var viewFiles embed.FS

const (
	LandingView = "landing"
	FormView    = "generate"
	Layout      = "layouts/main"
)

// GetFileSystem returns the embedded templates with the views folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(viewFiles, "views")
}

// NewEngine builds the fiber template engine over the embedded templates.
func NewEngine() (*html.Engine, error) {
	views, err := GetFileSystem()
	if err != nil {
		return nil, err
	}
	return html.NewFileSystem(http.FS(views), ".html"), nil
}
