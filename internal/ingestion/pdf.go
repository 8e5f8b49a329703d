package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the text of a source, one entry per page. Pages may be empty.
type Document struct {
	Pages []string
}

// Text concatenates the pages with a line break between them
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// PageCount returns the number of pages read
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// ReadPDFBytes extracts the plain text of every page of a PDF held in memory.
// Pages whose text cannot be extracted are kept as empty pages. A zero-byte input, a
// document the reader rejects and a document with no pages all yield an
// UnreadableSourceError, as does a malformed file that makes the extractor panic.
func ReadPDFBytes(name string, data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, unreadable(name, "file is empty", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = unreadable(name, "malformed PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, unreadable(name, "failed to open PDF", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, unreadable(name, "document has no pages", nil)
	}

	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return &Document{Pages: pages}, nil
}

// isPDF reports whether data starts with the PDF magic number
func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
