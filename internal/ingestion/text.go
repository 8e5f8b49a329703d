package ingestion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// pageBreak separates pages in plain-text exports such as pdftotext output
const pageBreak = "\f"

// ReadSource reads a CV source file from disk.
// PDFs are recognized by content, so a PDF saved with a ".txt" extension still parses as a PDF.
func ReadSource(path string) (*Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, unreadable(path, "file not found", err)
		}
		return nil, nil, unreadable(path, "failed to read file", err)
	}

	doc, err := ReadBytes(path, data)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// ReadBytes extracts a Document from an in-memory source. Data that starts with the PDF
// magic number, or whose name ends in ".pdf", is read as a PDF; anything else must be UTF-8 text.
func ReadBytes(name string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, unreadable(name, "file is empty", nil)
	}
	if isPDF(data) || strings.EqualFold(filepath.Ext(name), ".pdf") {
		return ReadPDFBytes(name, data)
	}
	return readTextBytes(name, data)
}

// readTextBytes splits plain text into pages on form feeds
func readTextBytes(name string, data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, unreadable(name, "file is neither a PDF nor UTF-8 text", nil)
	}

	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	pages := strings.Split(content, pageBreak)
	for i, page := range pages {
		pages[i] = strings.TrimSpace(page)
	}
	return &Document{Pages: pages}, nil
}

// IngestFromFile reads a source file and returns its text with metadata
func IngestFromFile(path string) (string, *Metadata, error) {
	doc, data, err := ReadSource(path)
	if err != nil {
		return "", nil, err
	}

	text := doc.Text()
	return text, NewMetadata(path, data, doc.PageCount(), text), nil
}

// IngestBytes is IngestFromFile for an uploaded document
func IngestBytes(name string, data []byte) (string, *Metadata, error) {
	doc, err := ReadBytes(name, data)
	if err != nil {
		return "", nil, err
	}

	text := doc.Text()
	return text, NewMetadata(name, data, doc.PageCount(), text), nil
}
