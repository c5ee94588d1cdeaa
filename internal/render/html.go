package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var tmplFS embed.FS

var indexTmpl = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"num": FormatNumber}).
		ParseFS(tmplFS, "templates/index.html"),
)

// HTML writes the full two-page document for v.
func HTML(w io.Writer, v View) error {
	return indexTmpl.Execute(w, v)
}
