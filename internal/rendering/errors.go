// Package rendering fills DOCX templates with parsed CV data and produces their fixed-layout PDF rendering.
package rendering

import (
	"errors"
	"fmt"
)

// ErrRendererUnavailable is returned when no headless browser can be found for PDF output
var ErrRendererUnavailable = errors.New("fixed-layout renderer unavailable")

// TemplateError represents a template that cannot be read or is not a DOCX document
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
