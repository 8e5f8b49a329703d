// Package docxtest builds minimal DOCX templates for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

const (
	contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `<w:sectPr/></w:body></w:document>`
)

var (
	reParagraphEnd = regexp.MustCompile(`</w:p>`)
	reBreak        = regexp.MustCompile(`<w:br/>`)
	reTag          = regexp.MustCompile(`<[^>]+>`)
)

// Build returns a DOCX whose body holds one single-run paragraph per line.
func Build(lines ...string) []byte {
	var body strings.Builder
	for _, line := range lines {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(html.EscapeString(line))
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	return BuildXML(body.String())
}

// BuildXML returns a DOCX whose body is the given WordprocessingML fragment.
func BuildXML(body string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range []struct{ name, content string }{
		{"[Content_Types].xml", contentTypes},
		{"word/document.xml", documentHead + body + documentTail},
	} {
		f, err := w.Create(e.name)
		if err != nil {
			panic(err)
		}
		if _, err := io.WriteString(f, e.content); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Text returns the visible text of word/document.xml, one line per paragraph or line break.
func Text(docx []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return "", err
	}
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		text := reParagraphEnd.ReplaceAllString(string(data), "\n")
		text = reBreak.ReplaceAllString(text, "\n")
		text = html.UnescapeString(reTag.ReplaceAllString(text, ""))
		return strings.TrimRight(text, "\n"), nil
	}
	return "", fmt.Errorf("word/document.xml not found")
}
