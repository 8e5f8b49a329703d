package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-templater/internal/types"
)

// Generation is a stored cv_generations row.
type Generation struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  string    `json:"template_id"`
	SourcePath  string    `json:"source_path"`
	SourceHash  string    `json:"source_hash"`
	SourcePages int       `json:"source_pages"`
	SourceChars int       `json:"source_chars"`
	Candidate   string    `json:"candidate"`
	ParsedCV    []byte    `json:"-"`
	DocxPath    string    `json:"docx_path"`
	PDFPath     string    `json:"pdf_path"`
	Warnings    []string  `json:"warnings"`
	CreatedAt   time.Time `json:"created_at"`
}

// GenerationFromResult flattens a generation result into a row.
func GenerationFromResult(result *types.GenerateResult) (*Generation, error) {
	if result == nil || result.CV == nil {
		return nil, fmt.Errorf("generation result has no parsed CV")
	}
	parsed, err := json.Marshal(result.CV)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed CV: %w", err)
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &Generation{
		ID:          result.ID,
		TemplateID:  result.TemplateID,
		SourcePath:  result.Source.Path,
		SourceHash:  result.Source.Hash,
		SourcePages: result.Source.Pages,
		SourceChars: result.Source.Chars,
		Candidate:   result.CV.Nombre,
		ParsedCV:    parsed,
		DocxPath:    result.DocxPath,
		PDFPath:     result.PDFPath,
		Warnings:    warnings,
		CreatedAt:   result.CreatedAt,
	}, nil
}

// Result rebuilds the generation result stored in the row.
func (g *Generation) Result() (*types.GenerateResult, error) {
	var cv types.ParsedCV
	if err := json.Unmarshal(g.ParsedCV, &cv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parsed CV: %w", err)
	}
	return &types.GenerateResult{
		ID:         g.ID,
		TemplateID: g.TemplateID,
		DocxPath:   g.DocxPath,
		PDFPath:    g.PDFPath,
		Source: types.SourceInfo{
			Path:      g.SourcePath,
			Hash:      g.SourceHash,
			Pages:     g.SourcePages,
			Chars:     g.SourceChars,
			Timestamp: g.CreatedAt.UTC().Format(time.RFC3339),
		},
		CV:        &cv,
		CreatedAt: g.CreatedAt,
		Warnings:  g.Warnings,
	}, nil
}
