package web

import (
	"embed"
	"html/template"

	"github.com/asmundstavdahl/notes/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates loads the embedded pages with the helper functions they use.
func parseTemplates() *template.Template {
	funcMap := template.FuncMap{
		"formatDate": view.FormatDate,
	}
	return template.Must(
		template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"),
	)
}
