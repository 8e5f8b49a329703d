// Package schemas provides JSON Schema validation for the records cv-templater produces.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/cv-templater/internal/types"
	schemafiles "github.com/jonathan/cv-templater/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	parsedCVOnce   sync.Once
	parsedCVSchema *gojsonschema.Schema
	parsedCVErr    error
)

// ParsedCVSchema returns the compiled ParsedCV schema embedded in the binary.
func ParsedCVSchema() (*gojsonschema.Schema, error) {
	parsedCVOnce.Do(func() {
		data, err := schemafiles.FS.ReadFile(schemafiles.ParsedCVFile)
		if err != nil {
			parsedCVErr = &SchemaLoadError{Path: schemafiles.ParsedCVFile, Message: "embedded schema missing", Cause: err}
			return
		}
		parsedCVSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			parsedCVErr = &SchemaLoadError{Path: schemafiles.ParsedCVFile, Message: "invalid schema", Cause: err}
		}
	})
	return parsedCVSchema, parsedCVErr
}

// ValidateParsedCV checks a parsed record against the ParsedCV schema.
func ValidateParsedCV(cv *types.ParsedCV) error {
	if cv == nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "record is nil"}}}
	}
	data, err := json.Marshal(cv)
	if err != nil {
		return fmt.Errorf("failed to encode parsed CV: %w", err)
	}
	return ValidateParsedCVJSON(data)
}

// ValidateParsedCVJSON checks raw JSON (for example a saved *.cv.json file) against the ParsedCV schema.
func ValidateParsedCVJSON(data []byte) error {
	schema, err := ParsedCVSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
