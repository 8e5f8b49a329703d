package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// GenerateRequest is the input of a template generation: a source document and a template identifier.
type GenerateRequest struct {
	SourcePath string `json:"source_path" validate:"required"`
	TemplateID string `json:"template_id" validate:"required,max=32"`
	// SkipPDF disables the best-effort fixed-layout output.
	SkipPDF bool `json:"skip_pdf,omitempty"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SourceInfo describes the document a CV was parsed from
type SourceInfo struct {
	Path      string `json:"path,omitempty"`
	Hash      string `json:"hash"`
	Pages     int    `json:"pages"`
	Chars     int    `json:"chars"`
	Timestamp string `json:"timestamp"`
}

// GenerateResult is what a generation returns to its caller.
// PDFPath is empty when the fixed-layout rendering was skipped or failed.
type GenerateResult struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID string     `json:"template_id"`
	DocxPath   string     `json:"docx"`
	PDFPath    string     `json:"pdf,omitempty"`
	Source     SourceInfo `json:"source"`
	CV         *ParsedCV  `json:"cv"`
	CreatedAt  time.Time  `json:"created_at"`
	Warnings   []string   `json:"warnings,omitempty"`
}
