// Package generator runs the end-to-end use case: a CV source document and a template
// identifier in, a populated DOCX (and, best effort, its PDF rendering) out.
package generator

import "fmt"

// Error reports the generation step that failed.
type Error struct {
	Step    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
