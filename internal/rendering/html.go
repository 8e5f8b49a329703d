package rendering

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
)

var reParagraphStyle = regexp.MustCompile(`<w:pStyle\s+w:val="([^"]*)"`)

// Kinds of paragraph in the HTML rendering
const (
	kindTitle     = "title"
	kindHeading   = "heading"
	kindParagraph = "paragraph"
	kindBlank     = "blank"
)

type htmlParagraph struct {
	Kind  string
	Lines []string
}

type htmlDocument struct {
	Title      string
	Paragraphs []htmlParagraph
}

var documentTemplate = template.Must(template.New("cv").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 18mm 16mm; }
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 10.5pt; line-height: 1.35; color: #222; }
h1 { font-size: 18pt; margin: 0 0 6pt; }
h2 { font-size: 12pt; margin: 12pt 0 4pt; border-bottom: 1px solid #999; }
p { margin: 0 0 4pt; }
p.blank { height: 8pt; margin: 0; }
</style>
</head>
<body>
{{- range .Paragraphs}}
{{- if eq .Kind "title"}}
<h1>{{template "lines" .Lines}}</h1>
{{- else if eq .Kind "heading"}}
<h2>{{template "lines" .Lines}}</h2>
{{- else if eq .Kind "blank"}}
<p class="blank"></p>
{{- else}}
<p>{{template "lines" .Lines}}</p>
{{- end}}
{{- end}}
</body>
</html>
{{define "lines"}}{{range $i, $line := .}}{{if $i}}<br>{{end}}{{$line}}{{end}}{{end}}`))

// DOCXToHTML renders the main document of a DOCX as a simple A4 HTML page, one block per
// paragraph. Title and heading paragraph styles become <h1> and <h2>.
func DOCXToHTML(docx []byte) (string, error) {
	reader, err := openDOCX(docx)
	if err != nil {
		return "", err
	}

	var part []byte
	for _, f := range reader.File {
		if f.Name == documentPart {
			part, err = readZipEntry(f)
			if err != nil {
				return "", &TemplateError{Message: "failed to read " + documentPart, Cause: err}
			}
			break
		}
	}

	doc := htmlDocument{}
	for _, para := range leafParagraphs(part) {
		_, props, body := splitParagraph(part[para.start:para.end])
		text := strings.TrimSpace(paragraphText(body))

		if text == "" {
			doc.Paragraphs = append(doc.Paragraphs, htmlParagraph{Kind: kindBlank})
			continue
		}
		if doc.Title == "" {
			doc.Title = strings.SplitN(text, "\n", 2)[0]
		}
		doc.Paragraphs = append(doc.Paragraphs, htmlParagraph{
			Kind:  paragraphKind(props),
			Lines: strings.Split(strings.ReplaceAll(text, "\t", " "), "\n"),
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, doc); err != nil {
		return "", &RenderError{Message: "failed to build HTML", Cause: err}
	}
	return buf.String(), nil
}

// paragraphKind maps a Word paragraph style to a block kind. Localized Word installs use
// "Ttulo"/"Ttulo1" as the style ids of Title/Heading1.
func paragraphKind(props []byte) string {
	m := reParagraphStyle.FindSubmatch(props)
	if m == nil {
		return kindParagraph
	}
	style := strings.ToLower(string(m[1]))
	switch {
	case style == "title" || style == "ttulo" || style == "titulo":
		return kindTitle
	case strings.HasPrefix(style, "heading") || strings.HasPrefix(style, "ttulo") || strings.HasPrefix(style, "titulo"):
		return kindHeading
	}
	return kindParagraph
}
