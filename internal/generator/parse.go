package generator

import (
	"github.com/jonathan/cv-templater/internal/ingestion"
	"github.com/jonathan/cv-templater/internal/parsing"
	"github.com/jonathan/cv-templater/internal/types"
)

// ParseFile reads a PDF or text file and returns its parsed record with source metadata.
func ParseFile(path string) (*types.ParsedCV, *ingestion.Metadata, error) {
	text, meta, err := ingestion.IngestFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	return parsing.ParseCV(text), meta, nil
}

// ParseBytes is ParseFile for in-memory content such as an upload.
func ParseBytes(name string, data []byte) (*types.ParsedCV, *ingestion.Metadata, error) {
	text, meta, err := ingestion.IngestBytes(name, data)
	if err != nil {
		return nil, nil, err
	}
	return parsing.ParseCV(text), meta, nil
}
