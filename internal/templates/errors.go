// Package templates maps template identifiers to the DOCX files a CV can be generated from.
package templates

import (
	"fmt"
	"strings"
)

// UnknownTemplateError is returned when an identifier is not registered
// or its file is missing from the templates directory.
type UnknownTemplateError struct {
	ID        string
	Available []string
	Cause     error
}

func (e *UnknownTemplateError) Error() string {
	msg := fmt.Sprintf("unknown template %q", e.ID)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Available, ", "))
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *UnknownTemplateError) Unwrap() error {
	return e.Cause
}
