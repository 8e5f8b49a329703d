package rendering

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const documentPart = "word/document.xml"

var (
	rePlaceholder     = regexp.MustCompile(`\{\{\s*([A-Z][A-Z0-9_]*)\s*\}\}`)
	reSolePlaceholder = regexp.MustCompile(`^\s*\{\{\s*([A-Z][A-Z0-9_]*)\s*\}\}\s*$`)

	// Parts of the package that can hold placeholders
	reFillablePart = regexp.MustCompile(`^word/(?:document|header\d*|footer\d*)\.xml$`)

	reParagraphTag   = regexp.MustCompile(`<(/?)w:p((?:\s[^>]*?)?)(/?)>`)
	reParagraphProps = regexp.MustCompile(`(?s)^\s*(?:<w:pPr>.*?</w:pPr>|<w:pPr/>)`)
	reRunProps       = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*)?>\s*(<w:rPr>.*?</w:rPr>|<w:rPr/>)?`)
	reRunContent     = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>|<w:t(?:\s[^>]*)?/>|<w:tab/>|<w:(?:br|cr)(?:\s[^>]*)?/>`)
)

// FillDOCX copies the template at templatePath to outputPath with every known {{KEY}}
// placeholder replaced by its value. Empty values are replaced by emptyValue, except that a
// paragraph holding nothing but one placeholder whose value is empty is removed.
func FillDOCX(templatePath, outputPath string, values map[string]string, emptyValue string) error {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	filled, err := FillDOCXBytes(content, values, emptyValue)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return &RenderError{Message: "failed to create output directory", Cause: err}
	}
	if err := os.WriteFile(outputPath, filled, 0644); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to write %s", outputPath), Cause: err}
	}
	return nil
}

// FillDOCXBytes is FillDOCX over an in-memory template. Parts other than the main document,
// headers and footers are copied unchanged.
func FillDOCXBytes(template []byte, values map[string]string, emptyValue string) ([]byte, error) {
	reader, err := openDOCX(template)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)

	for _, f := range reader.File {
		if !reFillablePart.MatchString(f.Name) {
			if err := writer.Copy(f); err != nil {
				return nil, &RenderError{Message: fmt.Sprintf("failed to copy %s", f.Name), Cause: err}
			}
			continue
		}

		part, err := readZipEntry(f)
		if err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to read %s", f.Name), Cause: err}
		}

		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to write %s", f.Name), Cause: err}
		}
		if _, err := w.Write(fillPart(part, values, emptyValue)); err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to write %s", f.Name), Cause: err}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, &RenderError{Message: "failed to finalize document", Cause: err}
	}
	return out.Bytes(), nil
}

// TemplatePlaceholders lists the distinct placeholder names a template uses, in order of appearance
func TemplatePlaceholders(template []byte) ([]string, error) {
	reader, err := openDOCX(template)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]struct{})
	for _, f := range reader.File {
		if !reFillablePart.MatchString(f.Name) {
			continue
		}
		part, err := readZipEntry(f)
		if err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to read %s", f.Name), Cause: err}
		}
		for _, para := range leafParagraphs(part) {
			_, _, body := splitParagraph(part[para.start:para.end])
			for _, m := range rePlaceholder.FindAllStringSubmatch(paragraphText(body), -1) {
				if _, ok := seen[m[1]]; !ok {
					seen[m[1]] = struct{}{}
					names = append(names, m[1])
				}
			}
		}
	}
	return names, nil
}

func openDOCX(template []byte) (*zip.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, &TemplateError{Message: "template is not a DOCX archive", Cause: err}
	}
	for _, f := range reader.File {
		if f.Name == documentPart {
			return reader, nil
		}
	}
	return nil, &TemplateError{Message: "template has no " + documentPart}
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// span is the byte range of one paragraph, from "<w:p" to the end of "</w:p>"
type span struct {
	start, end int
}

// leafParagraphs returns the paragraphs that contain no nested paragraph (as text boxes do),
// in document order.
func leafParagraphs(part []byte) []span {
	type open struct {
		start int
		leaf  bool
	}

	var spans []span
	var stack []open

	for _, m := range reParagraphTag.FindAllSubmatchIndex(part, -1) {
		closing := m[3] > m[2]
		selfClosing := m[7] > m[6]

		switch {
		case closing:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.leaf {
				spans = append(spans, span{start: top.start, end: m[1]})
			}
		case selfClosing:
			if len(stack) > 0 {
				stack[len(stack)-1].leaf = false
			}
		default:
			if len(stack) > 0 {
				stack[len(stack)-1].leaf = false
			}
			stack = append(stack, open{start: m[0], leaf: true})
		}
	}

	return spans
}

// splitParagraph separates a paragraph into its start tag, its properties and the rest of its body
func splitParagraph(para []byte) (startTag, props, body []byte) {
	startEnd := bytes.IndexByte(para, '>') + 1
	startTag = para[:startEnd]
	inner := para[startEnd : len(para)-len("</w:p>")]
	props = reParagraphProps.Find(inner)
	return startTag, props, inner[len(props):]
}

// paragraphText reassembles the visible text of a paragraph body across its runs.
// Tabs and line breaks become '\t' and '\n'.
func paragraphText(body []byte) string {
	var sb strings.Builder
	for _, m := range reRunContent.FindAllSubmatch(body, -1) {
		token := m[0]
		switch {
		case bytes.HasPrefix(token, []byte("<w:tab")):
			sb.WriteByte('\t')
		case bytes.HasPrefix(token, []byte("<w:br")), bytes.HasPrefix(token, []byte("<w:cr")):
			sb.WriteByte('\n')
		default:
			sb.WriteString(html.UnescapeString(string(m[1])))
		}
	}
	return sb.String()
}

func fillPart(part []byte, values map[string]string, emptyValue string) []byte {
	var out bytes.Buffer
	out.Grow(len(part))

	last := 0
	for _, para := range leafParagraphs(part) {
		out.Write(part[last:para.start])
		out.Write(fillParagraph(part, para, values, emptyValue))
		last = para.end
	}
	out.Write(part[last:])

	return out.Bytes()
}

// fillParagraph returns the replacement for one paragraph of part. A paragraph without any
// known placeholder is returned byte for byte.
func fillParagraph(part []byte, para span, values map[string]string, emptyValue string) []byte {
	original := part[para.start:para.end]
	startTag, props, body := splitParagraph(original)
	text := paragraphText(body)

	if !hasKnownPlaceholder(text, values) {
		return original
	}

	if m := reSolePlaceholder.FindStringSubmatch(text); m != nil && isBlank(values[m[1]]) {
		if isOnlyParagraphInCell(part, para) {
			// A table cell must keep at least one paragraph.
			return concat(startTag, props, []byte("</w:p>"))
		}
		return nil
	}

	var runProps []byte
	if m := reRunProps.FindSubmatch(body); m != nil {
		runProps = m[1]
	}

	filled := substitutePlaceholders(text, values, emptyValue)
	return concat(startTag, props, buildRun(runProps, filled), []byte("</w:p>"))
}

func hasKnownPlaceholder(text string, values map[string]string) bool {
	for _, m := range rePlaceholder.FindAllStringSubmatch(text, -1) {
		if _, ok := values[m[1]]; ok {
			return true
		}
	}
	return false
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func isOnlyParagraphInCell(part []byte, para span) bool {
	before := bytes.TrimRight(part[:para.start], " \t\r\n")
	after := bytes.TrimLeft(part[para.end:], " \t\r\n")
	opensCell := bytes.HasSuffix(before, []byte("</w:tcPr>")) || bytes.HasSuffix(before, []byte("<w:tc>"))
	return opensCell && bytes.HasPrefix(after, []byte("</w:tc>"))
}

// substitutePlaceholders replaces known placeholders in text. Unknown ones stay as written.
func substitutePlaceholders(text string, values map[string]string, emptyValue string) string {
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		key := rePlaceholder.FindStringSubmatch(match)[1]
		value, ok := values[key]
		if !ok {
			return match
		}
		if isBlank(value) {
			return emptyValue
		}
		return strings.ReplaceAll(value, "\r\n", "\n")
	})
}

// buildRun renders text as a single run carrying runProps, with <w:br/> for line breaks
// and <w:tab/> for tabs.
func buildRun(runProps []byte, text string) []byte {
	var b bytes.Buffer
	b.WriteString("<w:r>")
	b.Write(runProps)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		for j, segment := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString("<w:tab/>")
			}
			if segment == "" {
				continue
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(EscapeXML(segment))
			b.WriteString("</w:t>")
		}
	}
	b.WriteString("</w:r>")
	return b.Bytes()
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
