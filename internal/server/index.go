package server

import (
	"html/template"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>CV Templater</title>
</head>
<body>
<h1>Generar CV</h1>
<form action="/generate" method="post" enctype="multipart/form-data">
<p><label>CV (PDF): <input type="file" name="cv_pdf" accept=".pdf,.txt" required></label></p>
<p><label>Plantilla:
<select name="plantilla">
{{- range .Templates}}
<option value="{{.ID}}"{{if not .Available}} disabled{{end}}>{{.ID}} - {{.File}}</option>
{{- end}}
</select></label></p>
<p><label><input type="checkbox" name="skip_pdf" value="true"> Solo DOCX</label></p>
<p><button type="submit">Generar</button></p>
</form>
</body>
</html>
`))

// handleIndex serves the upload form
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Templates []templateInfo }{Templates: s.templateInfos()}
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("error rendering index")
	}
}
