package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dkinclub/butterfly-survey/log"
)

//go:embed templates
var templates embed.FS

// Views renders the embedded HTML template set.
type Views struct {
	t *template.Template
}

func New() (*Views, error) {
	t, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Views{t: t}, nil
}

// Render writes one named template. Render errors are logged, not
// surfaced: by then the status line is already gone.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := v.t.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("views.render.%s: %s", name, err)
	}
}
