package webui

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hutchfm/hutch"
	"github.com/hutchfm/hutch/gateway"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// page is the data handed to every template.
type page struct {
	Flashes []hutch.Flash
	View    hutch.DirView
}

// render executes the named template and wraps it into an HTML response.
func render(name string, data page) gateway.Result {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render template", "template", name, "err", err)
		return gateway.New([]byte("internal server error"), http.StatusInternalServerError, "text/plain")
	}
	return gateway.New(buf.Bytes(), http.StatusOK, "text/html")
}
